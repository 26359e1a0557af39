package model

import (
	"testing"
	"time"
)

func TestRecordingTypeFromCode(t *testing.T) {
	tests := []struct {
		code     byte
		expected RecordingType
	}{
		{'N', RecordingTypeNormal},
		{'E', RecordingTypeEvent},
		{'P', RecordingTypeParking},
		{'M', RecordingTypeManual},
		{'Z', RecordingTypeUnknown},
		{'n', RecordingTypeUnknown},
		{0, RecordingTypeUnknown},
	}

	for _, test := range tests {
		if got := RecordingTypeFromCode(test.code); got != test.expected {
			t.Errorf("RecordingTypeFromCode(%q) = %s, expected %s", test.code, got, test.expected)
		}
		if test.expected != RecordingTypeUnknown && test.expected.Code() != test.code {
			t.Errorf("RecordingType(%s).Code() = %q, expected %q", test.expected, test.expected.Code(), test.code)
		}
	}

	if RecordingTypeUnknown.Code() != 0 {
		t.Error("Unknown recording type should have no code")
	}
}

func TestCameraPositionFromCode(t *testing.T) {
	tests := []struct {
		code     byte
		expected CameraPosition
	}{
		{'F', CameraPositionFront},
		{'R', CameraPositionRear},
		{'Z', CameraPositionUnknown},
		{'f', CameraPositionUnknown},
	}

	for _, test := range tests {
		if got := CameraPositionFromCode(test.code); got != test.expected {
			t.Errorf("CameraPositionFromCode(%q) = %s, expected %s", test.code, got, test.expected)
		}
		if test.expected != CameraPositionUnknown && test.expected.Code() != test.code {
			t.Errorf("CameraPosition(%s).Code() = %q, expected %q", test.expected, test.expected.Code(), test.code)
		}
	}
}

func TestRecordingEntry_Accessors(t *testing.T) {
	entry := &RecordingEntry{Type: RecordingTypeEvent, Position: CameraPositionRear}

	if entry.HasTimestamp() {
		t.Error("Entry without timestamp reported HasTimestamp")
	}
	if got := entry.GetLabel(); got != "Event - Rear" {
		t.Errorf("GetLabel() = %q, expected %q", got, "Event - Rear")
	}

	ts := time.Date(2023, 1, 15, 14, 30, 22, 0, time.Local)
	entry.Timestamp = &ts
	if !entry.HasTimestamp() {
		t.Error("Entry with timestamp reported no timestamp")
	}
}

func TestScanTarget_Address(t *testing.T) {
	target := ScanTarget{Prefix: "192.168.1", Octet: 254}
	if got := target.Address(); got != "192.168.1.254" {
		t.Errorf("Address() = %s, expected 192.168.1.254", got)
	}

	progress := ScanProgress{Completed: 12, Total: SubnetSize}
	if got := progress.String(); got != "12/255" {
		t.Errorf("ScanProgress.String() = %s, expected 12/255", got)
	}
}
