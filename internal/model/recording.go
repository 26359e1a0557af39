package model

import "time"

// RecordingType is the reason the dash camera recorded a file
type RecordingType string

const (
	RecordingTypeNormal  RecordingType = "Normal"
	RecordingTypeEvent   RecordingType = "Event"
	RecordingTypeParking RecordingType = "Parking"
	RecordingTypeManual  RecordingType = "Manual"
	RecordingTypeUnknown RecordingType = "Unknown"
)

// CameraPosition identifies which camera channel produced a file
type CameraPosition string

const (
	CameraPositionFront   CameraPosition = "Front"
	CameraPositionRear    CameraPosition = "Rear"
	CameraPositionUnknown CameraPosition = "Unknown"
)

// Single-character codes used in device file names
const (
	CodeNormal  = 'N'
	CodeEvent   = 'E'
	CodeParking = 'P'
	CodeManual  = 'M'
	CodeFront   = 'F'
	CodeRear    = 'R'
)

// RecordingTypeFromCode maps a file name type code to a RecordingType
func RecordingTypeFromCode(code byte) RecordingType {
	switch code {
	case CodeNormal:
		return RecordingTypeNormal
	case CodeEvent:
		return RecordingTypeEvent
	case CodeParking:
		return RecordingTypeParking
	case CodeManual:
		return RecordingTypeManual
	default:
		return RecordingTypeUnknown
	}
}

// Code returns the file name code for t, or 0 for Unknown
func (t RecordingType) Code() byte {
	switch t {
	case RecordingTypeNormal:
		return CodeNormal
	case RecordingTypeEvent:
		return CodeEvent
	case RecordingTypeParking:
		return CodeParking
	case RecordingTypeManual:
		return CodeManual
	default:
		return 0
	}
}

// CameraPositionFromCode maps a file name camera code to a CameraPosition
func CameraPositionFromCode(code byte) CameraPosition {
	switch code {
	case CodeFront:
		return CameraPositionFront
	case CodeRear:
		return CameraPositionRear
	default:
		return CameraPositionUnknown
	}
}

// Code returns the file name code for p, or 0 for Unknown
func (p CameraPosition) Code() byte {
	switch p {
	case CameraPositionFront:
		return CodeFront
	case CameraPositionRear:
		return CodeRear
	default:
		return 0
	}
}

// RecordingEntry is one decoded row of the device manifest.
// It is read-only once the catalog has been parsed.
type RecordingEntry struct {
	Index      int               `json:"index" yaml:"index"`
	RawPath    string            `json:"raw_path" yaml:"raw_path"`
	FileName   string            `json:"file_name" yaml:"file_name"`
	Type       RecordingType     `json:"type" yaml:"type"`
	Position   CameraPosition    `json:"position" yaml:"position"`
	Timestamp  *time.Time        `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// HasTimestamp reports whether the file name decoded to a valid date and time
func (e *RecordingEntry) HasTimestamp() bool {
	return e.Timestamp != nil
}

// GetLabel returns "Type - Camera", the way the entry is summarised to users
func (e *RecordingEntry) GetLabel() string {
	return string(e.Type) + " - " + string(e.Position)
}
