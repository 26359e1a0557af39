package download

import (
	"context"

	"github.com/bvget/bv-downloader/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))

	// Download transfers fileName and blocks until the task is terminal
	Download(ctx context.Context, deviceIP, fileName, destinationDir string) (*model.DownloadTask, error)

	// Start transfers fileName in the background and returns the pending task
	Start(ctx context.Context, deviceIP, fileName, destinationDir string) (*model.DownloadTask, error)

	GetTask(id string) (*model.DownloadTask, bool)
	GetAllTasks() []*model.DownloadTask
	Cancel(id string) error
	CancelActive() bool
}
