package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bvget/bv-downloader/internal/catalog"
	"github.com/bvget/bv-downloader/internal/discovery"
	"github.com/bvget/bv-downloader/internal/download"
	"github.com/bvget/bv-downloader/internal/model"
)

// Console renders the status streams of the core to a terminal. Permanent
// messages get their own line; progress is redrawn in place on interactive
// terminals and throttled to occasional lines otherwise. Its callbacks are
// safe to call from any goroutine.
type Console struct {
	out          io.Writer
	localization *Localization
	interactive  bool

	mu           sync.Mutex
	lastProgress time.Time
	progressLine bool // an unterminated progress line is on screen
	rows         map[string]*TaskRow
	entries      int
}

// NewConsole creates a console writing to out
func NewConsole(out io.Writer, localization *Localization, interactive bool) *Console {
	if localization == nil {
		localization = NewLocalization()
	}
	return &Console{
		out:          out,
		localization: localization,
		interactive:  interactive,
		rows:         make(map[string]*TaskRow),
	}
}

// Localization returns the console's translations
func (c *Console) Localization() *Localization {
	return c.localization
}

// Status prints a permanent status line
func (c *Console) Status(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLine(statusStyle.Render(text))
}

// Success prints a permanent highlighted line
func (c *Console) Success(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLine(successStyle.Render(text))
}

// ReportError prints the localized message for err
func (c *Console) ReportError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeLine(errorStyle.Render(IconError + " " + c.ErrorMessage(err)))
}

// Print writes a permanent line to w, which may be another stream than the
// console's own, after clearing any progress line
func (c *Console) Print(w io.Writer, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.progressLine {
		_, _ = io.WriteString(c.out, CarriageReturn+ClearLine)
		c.progressLine = false
	}
	_, _ = io.WriteString(w, text+"\n")
}

// OnScanProgress renders discovery progress, one call per completed probe
func (c *Console) OnScanProgress(p model.ScanProgress) {
	text := IconSearch + " " + c.localization.Format(KeySearching, p.Completed, p.Total)
	c.progress(text, p.Completed == 1 || p.Completed == p.Total || p.Positive)
}

// OnDeviceFound announces the device that will be used
func (c *Console) OnDeviceFound(device *model.DiscoveredDevice) {
	key := KeyFoundDevice
	if device.Manual {
		key = KeyManualDevice
	}
	c.Success(IconDevice + " " + c.localization.Format(key, device.IP))
}

// OnCatalogStage renders catalog retrieval stages
func (c *Console) OnCatalogStage(_ string, stage catalog.Stage) {
	switch stage {
	case catalog.StageFetching:
		c.progress(c.localization.GetText(KeyGettingFileList), true)
	case catalog.StageParsing:
		c.mu.Lock()
		c.entries = 0
		c.mu.Unlock()
		c.progress(c.localization.GetText(KeyParsingFiles), true)
	case catalog.StageDone:
		c.mu.Lock()
		count := c.entries
		c.mu.Unlock()
		c.Status(c.localization.Format(KeyRecordingsFound, count))
	}
}

// OnCatalogEntry counts a parsed entry and updates the parsing line
func (c *Console) OnCatalogEntry(_ *model.RecordingEntry) {
	c.mu.Lock()
	c.entries++
	count := c.entries
	c.mu.Unlock()

	c.progress(fmt.Sprintf("%s (%d)", c.localization.GetText(KeyParsingFiles), count), false)
}

// OnTaskUpdate renders a download task update
func (c *Console) OnTaskUpdate(task *model.DownloadTask) {
	c.mu.Lock()
	row, exists := c.rows[task.ID]
	if !exists {
		row = NewTaskRow(task, c.localization)
		c.rows[task.ID] = row
	}
	row.UpdateTask(task)
	c.mu.Unlock()

	switch {
	case task.Status == model.TaskStatusPending:
		c.Status(IconDownload + " " + c.localization.Format(KeyBeginningDownload, task.FileName))
	case task.Status == model.TaskStatusInProgress:
		c.progress(row.Render(), task.Percent >= MaxProgressPercent)
	case task.Status.IsFinished():
		c.mu.Lock()
		delete(c.rows, task.ID)
		c.writeLine(row.Summary())
		c.mu.Unlock()
	}
}

// EntryLine renders a catalog entry as one coloured line:
// "Normal  Front   20230115_143022_NF.mp4 · 01/15/2023 2:30 PM"
func (c *Console) EntryLine(entry *model.RecordingEntry) string {
	return StyleRecordingType(entry.Type) + " " +
		StyleCameraPosition(entry.Position) + " " +
		fileNameStyle.Render(entry.FileName) +
		dimStyle.Render(MiddleDotSeparator+c.EntryDate(entry))
}

// EntryDetails returns "Type - Camera", the short date and the short time
// of a recording, the way a selected recording is summarised
func (c *Console) EntryDetails(entry *model.RecordingEntry) (label, date, clock string) {
	label = entry.GetLabel()
	if !entry.HasTimestamp() {
		unknown := c.localization.GetText(KeyUnknownDate)
		return label, unknown, DashPlaceholder
	}
	ts := *entry.Timestamp
	return label,
		ts.Format(c.localization.GetText(KeyDateFormat)),
		ts.Format(c.localization.GetText(KeyTimeFormat))
}

// EntryDate returns the short date and time of entry in one string
func (c *Console) EntryDate(entry *model.RecordingEntry) string {
	_, date, clock := c.EntryDetails(entry)
	if !entry.HasTimestamp() {
		return date
	}
	return date + " " + clock
}

// ErrorMessage maps err to a localized, user-facing message
func (c *Console) ErrorMessage(err error) string {
	l := c.localization
	switch {
	case errors.Is(err, context.Canceled):
		return l.GetText(KeyDownloadCancelled)
	case errors.Is(err, discovery.ErrInvalidAddress):
		return l.GetText(KeyInvalidIP)
	case errors.Is(err, discovery.ErrDeviceNotFound):
		return l.GetText(KeyDeviceNotFound)
	case errors.Is(err, discovery.ErrNetworkUnavailable):
		return l.GetText(KeyNetworkUnavailable)
	case errors.Is(err, catalog.ErrCatalogFetchFailed):
		return l.GetText(KeyCatalogError) + trimSentinel(err.Error(), catalog.ErrCatalogFetchFailed)
	case errors.Is(err, download.ErrDownloadFailed):
		return l.GetText(KeyDownloadError) + trimSentinel(err.Error(), download.ErrDownloadFailed)
	case errors.Is(err, download.ErrInvalidFileName):
		return l.GetText(KeyInvalidFileName) + trimSentinel(err.Error(), download.ErrInvalidFileName)
	default:
		return err.Error()
	}
}

// Finish terminates a pending progress line
func (c *Console) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.progressLine {
		_, _ = io.WriteString(c.out, "\n")
		c.progressLine = false
	}
}

// progress renders a transient line. Updates closer together than the
// debounce interval are dropped unless force is set.
func (c *Console) progress(text string, force bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	debounce := PlainUpdateDebounce
	if c.interactive {
		debounce = InteractiveUpdateDebounce
	}

	now := time.Now()
	if !force && now.Sub(c.lastProgress) < debounce {
		return
	}
	c.lastProgress = now

	if c.interactive {
		_, _ = io.WriteString(c.out, CarriageReturn+ClearLine+text)
		c.progressLine = true
		return
	}
	_, _ = io.WriteString(c.out, text+"\n")
}

// writeLine prints a permanent line, clearing any progress line first.
// Callers hold c.mu.
func (c *Console) writeLine(text string) {
	if c.progressLine {
		_, _ = io.WriteString(c.out, CarriageReturn+ClearLine)
		c.progressLine = false
	}
	_, _ = io.WriteString(c.out, text+"\n")
}

// trimSentinel strips the "<sentinel>: " prefix a wrapped error message starts with
func trimSentinel(message string, sentinel error) string {
	return strings.TrimPrefix(message, sentinel.Error()+": ")
}
