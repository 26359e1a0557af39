package model

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDownloadTask(t *testing.T) {
	task := NewDownloadTask("192.168.1.20", "20230115_143022_NF.mp4", "/tmp/rec")

	if !strings.HasPrefix(task.ID, TaskIDPrefix) {
		t.Errorf("Expected ID to start with %q, got %q", TaskIDPrefix, task.ID)
	}

	// task- + 36 chars for UUID
	if len(task.ID) != len(TaskIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(TaskIDPrefix)+36, len(task.ID), task.ID)
	}

	if task.Status != TaskStatusPending {
		t.Errorf("Expected status to be Pending, got %s", task.Status)
	}

	if task.BytesTotal != UnknownSize {
		t.Errorf("Expected unknown size, got %d", task.BytesTotal)
	}

	expectedPath := filepath.Join("/tmp/rec", "20230115_143022_NF.mp4")
	if task.DestinationPath != expectedPath {
		t.Errorf("Expected destination %s, got %s", expectedPath, task.DestinationPath)
	}

	other := NewDownloadTask("192.168.1.20", "20230115_143022_NF.mp4", "/tmp/rec")
	if other.ID == task.ID {
		t.Error("Expected different task IDs")
	}
}

func TestDownloadTask_Transition(t *testing.T) {
	task := NewDownloadTask("10.0.0.2", "a.mp4", "/tmp")

	if err := task.Transition(TaskStatusInProgress); err != nil {
		t.Fatalf("Pending -> InProgress: unexpected error %v", err)
	}
	if !task.FinishedAt.IsZero() {
		t.Error("FinishedAt should not be set for an active task")
	}

	if err := task.Transition(TaskStatusCancelled); err != nil {
		t.Fatalf("InProgress -> Cancelled: unexpected error %v", err)
	}
	if task.FinishedAt.IsZero() {
		t.Error("FinishedAt should be set for a terminal task")
	}

	for _, next := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed} {
		err := task.Transition(next)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Cancelled -> %s: expected ErrInvalidTransition, got %v", next, err)
		}
		if task.Status != TaskStatusCancelled {
			t.Errorf("Status changed out of terminal state to %s", task.Status)
		}
	}
}

func TestDownloadTask_UpdateProgress(t *testing.T) {
	tests := []struct {
		transferred int64
		total       int64
		expected    float64
		progress    string
	}{
		{0, 1000, 0, "0.0%"},
		{123, 1000, 12.3, "12.3%"},
		{1, 3, 33.3, "33.3%"},
		{2, 3, 66.7, "66.7%"},
		{1000, 1000, 100, "100.0%"},
		{500, UnknownSize, 0, "—"},
	}

	for _, test := range tests {
		task := NewDownloadTask("10.0.0.2", "a.mp4", "/tmp")
		task.UpdateProgress(test.transferred, test.total)

		if task.Percent != test.expected {
			t.Errorf("UpdateProgress(%d, %d) Percent = %v, expected %v", test.transferred, test.total, task.Percent, test.expected)
		}
		if task.BytesTransferred != test.transferred {
			t.Errorf("UpdateProgress(%d, %d) BytesTransferred = %d", test.transferred, test.total, task.BytesTransferred)
		}
		if got := task.GetProgressString(); got != test.progress {
			t.Errorf("GetProgressString() = %s, expected %s", got, test.progress)
		}
	}
}

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		fileName    string
		destination string
		id          string
		expected    string
	}{
		{"20230115_143022_NF.mp4", "/tmp/20230115_143022_NF.mp4", "task-1", "20230115_143022_NF.mp4"},
		{"", "/tmp/rec/20230115_143022_ER.mp4", "task-2", "20230115_143022_ER.mp4"},
		{"", `C:\rec\20230115_143022_PF.mp4`, "task-3", "20230115_143022_PF.mp4"},
		{"", "", "task-4", "task-4"},
	}

	for _, test := range tests {
		task := &DownloadTask{
			ID:              test.id,
			FileName:        test.fileName,
			DestinationPath: test.destination,
		}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with fileName='%s', destination='%s' = '%s', expected '%s'",
				test.fileName, test.destination, result, test.expected)
		}
	}
}

func TestDownloadTask_Clone(t *testing.T) {
	task := NewDownloadTask("10.0.0.2", "a.mp4", "/tmp")
	clone := task.Clone()

	clone.Status = TaskStatusFailed
	clone.BytesTransferred = 99

	if task.Status != TaskStatusPending || task.BytesTransferred != 0 {
		t.Error("Mutating the clone must not affect the original task")
	}
}
