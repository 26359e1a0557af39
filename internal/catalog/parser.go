package catalog

import (
	"strings"

	"github.com/bvget/bv-downloader/internal/model"
	"github.com/bvget/bv-downloader/internal/recording"
)

// Manifest format constants
const (
	// DefaultRecordPrefix is the device-side directory prefix of every path
	DefaultRecordPrefix = "n:/Record/"

	// manifestSentinel marks the start of the first real record. Anything
	// before its first occurrence is a header and is dropped.
	manifestSentinel = 'n'

	fieldSeparator     = ","
	attributeSeparator = ":"

	// Offsets from the end of a path, e.g. "..._NF.mp4": N is 6th from last
	typeCodeOffset     = 6
	positionCodeOffset = 5
)

// EntryCallback receives each entry as soon as it is parsed
type EntryCallback func(entry *model.RecordingEntry)

// ParseManifest splits a manifest body into recording entries in line order.
// Lines with an empty path are skipped. Type and camera come from fixed
// offsets at the end of the path, the timestamp from the bare file name.
// onEntry may be nil.
func ParseManifest(body, recordPrefix string, onEntry EntryCallback) []*model.RecordingEntry {
	start := strings.IndexByte(body, manifestSentinel)
	if start < 0 {
		return []*model.RecordingEntry{}
	}

	lines := strings.Split(body[start:], "\n")
	entries := make([]*model.RecordingEntry, 0, len(lines))

	for _, line := range lines {
		entry, ok := parseLine(strings.TrimRight(line, "\r"), recordPrefix)
		if !ok {
			continue
		}

		entry.Index = len(entries)
		entries = append(entries, entry)

		if onEntry != nil {
			onEntry(entry)
		}
	}

	return entries
}

// parseLine decodes a single manifest line. ok is false for lines whose
// path field is empty.
func parseLine(line, recordPrefix string) (*model.RecordingEntry, bool) {
	fields := strings.Split(line, fieldSeparator)
	path := fields[0]
	if path == "" {
		return nil, false
	}

	fileName := path
	if recordPrefix != "" {
		// Every occurrence is removed, not only a leading one.
		fileName = strings.ReplaceAll(path, recordPrefix, "")
	}

	entry := &model.RecordingEntry{
		RawPath:  path,
		FileName: fileName,
		Type:     model.RecordingTypeUnknown,
		Position: model.CameraPositionUnknown,
	}

	if len(path) >= typeCodeOffset {
		entry.Type = model.RecordingTypeFromCode(path[len(path)-typeCodeOffset])
		entry.Position = model.CameraPositionFromCode(path[len(path)-positionCodeOffset])
	}

	entry.Attributes = parseAttributes(fields[1:])

	// A name that does not decode keeps a nil Timestamp.
	_ = recording.Annotate(entry)

	return entry, true
}

// parseAttributes turns trailing "key:value" fields into a map.
// Fields without a separator are stored under their own text with an empty value.
func parseAttributes(fields []string) map[string]string {
	var attributes map[string]string
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if attributes == nil {
			attributes = make(map[string]string)
		}

		key, value, _ := strings.Cut(field, attributeSeparator)
		attributes[key] = value
	}
	return attributes
}
