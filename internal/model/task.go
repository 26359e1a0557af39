package model

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskIDPrefix is prepended to every generated download task ID
const TaskIDPrefix = "task-"

// UnknownSize marks a transfer whose total byte count was not announced
const UnknownSize int64 = -1

// ErrInvalidTransition is returned when a task is moved out of a terminal
// state or backwards in its lifecycle.
var ErrInvalidTransition = errors.New("invalid task status transition")

// DownloadTask represents a single file transfer from the device
type DownloadTask struct {
	ID               string
	DeviceIP         string
	FileName         string     // bare file name on the device
	DestinationPath  string     // <destination dir>/<file name>
	Status           TaskStatus // mutated only by the download service
	BytesTotal       int64      // UnknownSize when the device sent no Content-Length
	BytesTransferred int64
	Percent          float64 // 0 to 100, one decimal place
	Skipped          bool    // destination already existed, nothing was fetched
	LastError        string  // last error message if any
	StartedAt        time.Time
	FinishedAt       time.Time
}

// NewDownloadTask creates a pending task for fileName on deviceIP
func NewDownloadTask(deviceIP, fileName, destinationDir string) *DownloadTask {
	return &DownloadTask{
		ID:              generateTaskID(),
		DeviceIP:        deviceIP,
		FileName:        fileName,
		DestinationPath: filepath.Join(destinationDir, fileName),
		Status:          TaskStatusPending,
		BytesTotal:      UnknownSize,
		StartedAt:       time.Now(),
	}
}

// Transition moves the task to next, refusing to leave a terminal state
func (dt *DownloadTask) Transition(next TaskStatus) error {
	if !dt.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, dt.Status, next)
	}
	dt.Status = next
	if next.IsFinished() {
		dt.FinishedAt = time.Now()
	}
	return nil
}

// UpdateProgress records transferred bytes and recomputes Percent.
// total <= 0 leaves Percent untouched.
func (dt *DownloadTask) UpdateProgress(transferred, total int64) {
	dt.BytesTransferred = transferred
	if total > 0 {
		dt.BytesTotal = total
		percent := float64(transferred) / float64(total) * 100
		dt.Percent = math.Min(math.Round(percent*10)/10, 100)
	}
}

// HasKnownSize reports whether the device announced the file size
func (dt *DownloadTask) HasKnownSize() bool {
	return dt.BytesTotal > 0
}

// GetProgressString returns the percentage with one decimal, or "—" if unknown
func (dt *DownloadTask) GetProgressString() string {
	if !dt.HasKnownSize() && dt.Status != TaskStatusCompleted {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", dt.Percent)
}

// GetDisplayTitle returns the file name, or the destination base name, or the task ID
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.FileName != "" {
		return dt.FileName
	}

	if dt.DestinationPath != "" {
		parts := strings.FieldsFunc(dt.DestinationPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}

	return dt.ID
}

// Clone returns a copy safe to hand to readers outside the download service
func (dt *DownloadTask) Clone() *DownloadTask {
	c := *dt
	return &c
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return TaskIDPrefix + uuid.NewString()
}
