package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/bvget/bv-downloader/internal/download"
	"github.com/bvget/bv-downloader/internal/model"
)

// File size formatting constants
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)

// Progress calculation constants
const (
	MaxProgressPercent = 100
)

// formatFileSize formats file size in bytes to human readable format
func formatFileSize(bytes int64) string {
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), FileSizeUnits[exp])
}

// TaskRow renders one download task as a single terminal line
type TaskRow struct {
	task         *model.DownloadTask
	localization *Localization
	bar          progress.Model
}

// NewTaskRow creates a row for task
func NewTaskRow(task *model.DownloadTask, localization *Localization) *TaskRow {
	return &TaskRow{
		task:         task,
		localization: localization,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(ProgressBarWidth),
			progress.WithoutPercentage(),
		),
	}
}

// UpdateTask replaces the rendered task
func (tr *TaskRow) UpdateTask(task *model.DownloadTask) {
	tr.task = task
}

// StatusText returns the localized task status
func (tr *TaskRow) StatusText() string {
	switch tr.task.Status {
	case model.TaskStatusPending:
		return tr.localization.GetText(KeyStatusPending)
	case model.TaskStatusInProgress:
		return tr.localization.GetText(KeyStatusInProgress)
	case model.TaskStatusCompleted:
		return tr.localization.GetText(KeyStatusCompleted)
	case model.TaskStatusFailed:
		return tr.localization.GetText(KeyStatusFailed)
	case model.TaskStatusCancelled:
		return tr.localization.GetText(KeyStatusCancelled)
	default:
		return string(tr.task.Status)
	}
}

// Render returns the progress line: "Downloading... 12.3% ███░░ 1.2 MB / 9.8 MB".
// Without a known size the bar is omitted and only received bytes are shown.
func (tr *TaskRow) Render() string {
	task := tr.task

	var b strings.Builder
	b.WriteString(tr.localization.Format(KeyDownloading, task.GetProgressString()))

	if task.HasKnownSize() {
		b.WriteString(" ")
		b.WriteString(tr.bar.ViewAs(task.Percent / MaxProgressPercent))
		b.WriteString(" ")
		b.WriteString(formatFileSize(task.BytesTransferred))
		b.WriteString(SizeSeparator)
		b.WriteString(formatFileSize(task.BytesTotal))
	} else {
		b.WriteString(MiddleDotSeparator)
		b.WriteString(formatFileSize(task.BytesTransferred))
	}

	return b.String()
}

// Summary returns the final line for a terminal task
func (tr *TaskRow) Summary() string {
	task := tr.task
	title := task.GetDisplayTitle()

	switch task.Status {
	case model.TaskStatusCompleted:
		if task.Skipped {
			return dimStyle.Render(IconSkipped + " " + tr.localization.Format(KeyAlreadyDownloaded, title))
		}
		return successStyle.Render(IconDone+" "+tr.localization.Format(KeyDownloadCompleted, title)) +
			dimStyle.Render(MiddleDotSeparator+formatFileSize(task.BytesTransferred)+MiddleDotSeparator+task.DestinationPath)
	case model.TaskStatusCancelled:
		return dimStyle.Render(IconCancel + " " + tr.localization.GetText(KeyDownloadCancelled))
	case model.TaskStatusFailed:
		return errorStyle.Render(IconError + " " + tr.localization.GetText(KeyDownloadError) + trimSentinel(task.LastError, download.ErrDownloadFailed))
	default:
		return statusStyle.Render(tr.StatusText() + MiddleDotSeparator + title)
	}
}
