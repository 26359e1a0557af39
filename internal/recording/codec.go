package recording

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bvget/bv-downloader/internal/model"
)

// ErrMetadataParseFailed is returned when a file name does not follow the
// device naming convention. It never aborts a batch.
var ErrMetadataParseFailed = errors.New("metadata parse failed")

// File name structure
const (
	SegmentSeparator = "_"
	SegmentCount     = 3
	CodeLength       = 2
)

// Separator insertion points, applied in order
const (
	DateSeparator      = "/"
	DateFirstInsertAt  = 4
	DateSecondInsertAt = 7
	TimeSeparator      = ":"
	TimeFirstInsertAt  = 2
	TimeSecondInsertAt = 5
)

// Layouts. The parse layout accepts one or two digit fields.
const (
	parseLayout  = "2006/1/2 15:4:5"
	encodeLayout = "20060102" + SegmentSeparator + "150405"
)

// Metadata is what a device file name encodes
type Metadata struct {
	Type      model.RecordingType
	Position  model.CameraPosition
	Timestamp time.Time
	Extension string // including the leading dot, e.g. ".mp4"
}

// Decode parses name in the local time zone
func Decode(name string) (Metadata, error) {
	return DecodeInLocation(name, time.Local)
}

// DecodeInLocation parses a bare file name of the form YYYYMMDD_hhmmss_TC.ext.
// Unrecognised type or camera codes decode to Unknown without an error; on
// error the returned Metadata still carries whatever codes could be read.
func DecodeInLocation(name string, loc *time.Location) (Metadata, error) {
	meta := Metadata{
		Type:     model.RecordingTypeUnknown,
		Position: model.CameraPositionUnknown,
	}

	segments := strings.Split(name, SegmentSeparator)
	if len(segments) != SegmentCount {
		return meta, fmt.Errorf("%w: %q has %d segments, want %d", ErrMetadataParseFailed, name, len(segments), SegmentCount)
	}

	code := segments[2]
	if len(code) < CodeLength {
		return meta, fmt.Errorf("%w: %q has no type code", ErrMetadataParseFailed, name)
	}
	meta.Type = model.RecordingTypeFromCode(code[0])
	meta.Position = model.CameraPositionFromCode(code[1])
	meta.Extension = code[CodeLength:]

	date, ok := insertSeparators(segments[0], DateSeparator, DateFirstInsertAt, DateSecondInsertAt)
	if !ok {
		return meta, fmt.Errorf("%w: %q has a short date", ErrMetadataParseFailed, name)
	}
	clock, ok := insertSeparators(segments[1], TimeSeparator, TimeFirstInsertAt, TimeSecondInsertAt)
	if !ok {
		return meta, fmt.Errorf("%w: %q has a short time", ErrMetadataParseFailed, name)
	}

	ts, err := time.ParseInLocation(parseLayout, date+" "+clock, loc)
	if err != nil {
		return meta, fmt.Errorf("%w: %q: %v", ErrMetadataParseFailed, name, err)
	}
	meta.Timestamp = ts

	return meta, nil
}

// Encode builds the device file name for meta. Unknown codes cannot be encoded.
func Encode(meta Metadata) (string, error) {
	typeCode := meta.Type.Code()
	positionCode := meta.Position.Code()
	if typeCode == 0 || positionCode == 0 {
		return "", fmt.Errorf("cannot encode %s/%s recording", meta.Type, meta.Position)
	}
	if meta.Timestamp.IsZero() {
		return "", fmt.Errorf("cannot encode recording without timestamp")
	}

	var b strings.Builder
	b.WriteString(meta.Timestamp.Format(encodeLayout))
	b.WriteString(SegmentSeparator)
	b.WriteByte(typeCode)
	b.WriteByte(positionCode)
	b.WriteString(meta.Extension)
	return b.String(), nil
}

// Annotate decodes entry.FileName and sets entry.Timestamp.
// The timestamp stays nil when decoding fails.
func Annotate(entry *model.RecordingEntry) error {
	meta, err := Decode(entry.FileName)
	if err != nil {
		entry.Timestamp = nil
		return err
	}
	ts := meta.Timestamp
	entry.Timestamp = &ts
	return nil
}

// insertSeparators inserts sep at first, then at second (index into the
// already extended string). ok is false when an index is out of range.
func insertSeparators(s, sep string, first, second int) (string, bool) {
	if first > len(s) {
		return "", false
	}
	s = s[:first] + sep + s[first:]
	if second > len(s) {
		return "", false
	}
	return s[:second] + sep + s[second:], true
}
