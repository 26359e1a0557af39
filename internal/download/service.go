package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bvget/bv-downloader/internal/model"
	"github.com/bvget/bv-downloader/internal/platform"
	"github.com/bvget/bv-downloader/internal/transport"
)

// DefaultTimeout bounds a whole transfer. Recordings are large and the
// device link is often slow.
const DefaultTimeout = 1000 * time.Second

var (
	// ErrDownloadFailed wraps every network, HTTP and filesystem failure of a transfer
	ErrDownloadFailed = errors.New("download failed")

	// ErrInvalidFileName means the requested name is not a bare file name
	ErrInvalidFileName = errors.New("invalid file name")

	// ErrTaskNotFound means no task has the given ID
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskNotActive means the task is not the transfer currently running
	ErrTaskNotActive = errors.New("task is not active")
)

var _ Downloader = (*Service)(nil)

// activeTransfer is the single transfer allowed to run
type activeTransfer struct {
	taskID string
	cancel context.CancelFunc
}

// Service handles download operations
type Service struct {
	client     transport.Doer
	logger     *zap.Logger
	timeout    time.Duration
	tasks      map[string]*model.DownloadTask
	tasksMutex sync.RWMutex
	active     *activeTransfer
	onUpdate   func(*model.DownloadTask) // callback for UI updates
}

// NewService creates a new download service. A nil client or logger selects
// the defaults; timeout <= 0 selects DefaultTimeout.
func NewService(client transport.Doer, logger *zap.Logger, timeout time.Duration) *Service {
	if client == nil {
		client = transport.NewClient(transport.ClientOptions{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Service{
		client:  client,
		logger:  logger,
		timeout: timeout,
		tasks:   make(map[string]*model.DownloadTask),
	}
}

// SetUpdateCallback sets the callback function for task updates. The
// callback receives a copy of the task and runs outside the service's locks,
// so it may call back into the service.
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// Download fetches fileName from the device at deviceIP into destinationDir
// and returns the terminal task. Cancelling ctx, or starting another
// download, cancels the transfer and returns ctx's error.
func (s *Service) Download(ctx context.Context, deviceIP, fileName, destinationDir string) (*model.DownloadTask, error) {
	adm, err := s.admit(ctx, deviceIP, fileName, destinationDir)
	if err != nil {
		return nil, err
	}
	return s.run(adm)
}

// Start is the asynchronous form of Download. The task is active, and
// cancellable, when Start returns. Progress and the final state are
// delivered through the update callback.
func (s *Service) Start(ctx context.Context, deviceIP, fileName, destinationDir string) (*model.DownloadTask, error) {
	adm, err := s.admit(ctx, deviceIP, fileName, destinationDir)
	if err != nil {
		return nil, err
	}

	snapshot := s.snapshot(adm.task)
	go func() {
		_, _ = s.run(adm)
	}()
	return snapshot, nil
}

// GetTask returns a copy of the task with the given ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	return task.Clone(), true
}

// GetAllTasks returns copies of all tasks, oldest first
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task.Clone())
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].StartedAt.Before(tasks[j].StartedAt)
	})
	return tasks
}

// Cancel stops the running transfer with the given ID
func (s *Service) Cancel(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	if s.active == nil || s.active.taskID != id {
		return fmt.Errorf("%w: %s is %s", ErrTaskNotActive, id, task.Status)
	}

	// The transfer goroutine observes the cancellation and finishes the task.
	s.active.cancel()
	return nil
}

// CancelActive stops the running transfer, if any
func (s *Service) CancelActive() bool {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	if s.active == nil {
		return false
	}
	s.active.cancel()
	return true
}

// admission is a registered task and the context its transfer runs under
type admission struct {
	task   *model.DownloadTask
	ctx    context.Context // nil when nothing has to be fetched
	cancel context.CancelFunc
	exists bool  // destination already present
	err    error // destination could not be checked
}

// admit validates the request, stores a pending task and, when the file has
// to be fetched, makes it the active transfer. The previous active transfer
// is cancelled before admit returns, so requests supersede each other in
// call order. Re-requesting an existing file does not disturb a running
// transfer.
func (s *Service) admit(ctx context.Context, deviceIP, fileName, destinationDir string) (*admission, error) {
	if err := ValidateFileName(fileName); err != nil {
		return nil, err
	}

	task := model.NewDownloadTask(deviceIP, fileName, destinationDir)
	exists, err := platform.FileExists(task.DestinationPath)
	adm := &admission{task: task, exists: exists, err: err}

	s.tasksMutex.Lock()
	s.tasks[task.ID] = task
	if err == nil && !exists {
		adm.ctx, adm.cancel = context.WithTimeout(ctx, s.timeout)
		if s.active != nil {
			s.logger.Info("Superseding active download",
				zap.String("task_id", task.ID),
				zap.String("previous_task_id", s.active.taskID))
			s.active.cancel()
		}
		s.active = &activeTransfer{taskID: task.ID, cancel: adm.cancel}
	}
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	return adm, nil
}

// run drives an admitted task to a terminal state
func (s *Service) run(adm *admission) (*model.DownloadTask, error) {
	task := adm.task
	logger := s.logger.With(
		zap.String("task_id", task.ID),
		zap.String("ip", task.DeviceIP),
		zap.String("file", task.FileName))

	if adm.err != nil {
		err := fmt.Errorf("%w: %v", ErrDownloadFailed, adm.err)
		s.finish(task, err, false, logger)
		return s.snapshot(task), err
	}
	if adm.exists {
		s.finish(task, nil, true, logger)
		return s.snapshot(task), nil
	}

	ctx := adm.ctx
	defer adm.cancel()
	defer func() {
		s.tasksMutex.Lock()
		if s.active != nil && s.active.taskID == task.ID {
			s.active = nil
		}
		s.tasksMutex.Unlock()
	}()

	// Cancelled or superseded while still pending.
	if ctx.Err() != nil {
		err := transferError(ctx, ctx.Err())
		s.finish(task, err, false, logger)
		return s.snapshot(task), err
	}

	s.tasksMutex.Lock()
	_ = task.Transition(model.TaskStatusInProgress)
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	logger.Info("Starting download", zap.String("destination", task.DestinationPath))

	moved, err := s.transfer(ctx, task)
	if err != nil {
		err = transferError(ctx, err)
	}

	s.finish(task, err, err == nil && !moved, logger)
	return s.snapshot(task), err
}

// transferError reports cancellation as ctx's error and wraps everything
// else, a timeout included, in ErrDownloadFailed
func transferError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
		return ctxErr
	}
	if errors.Is(err, ErrDownloadFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
}

// transfer streams the recording into a partial file and moves it into
// place. moved is false when the destination appeared in the meantime.
func (s *Service) transfer(ctx context.Context, task *model.DownloadTask) (moved bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, transport.RecordURL(task.DeviceIP, task.FileName), nil)
	if err != nil {
		return false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if !transport.IsSuccess(resp.StatusCode) {
		return false, fmt.Errorf("%w: HTTP %d", ErrDownloadFailed, resp.StatusCode)
	}

	total := resp.ContentLength
	s.recordProgress(task, 0, total)

	dir := filepath.Dir(task.DestinationPath)
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return false, err
	}

	partial, err := platform.CreateTempSibling(dir, task.FileName)
	if err != nil {
		return false, err
	}
	partialPath := partial.Name()

	body := &progressReader{
		reader: resp.Body,
		onRead: func(transferred int64) {
			s.recordProgress(task, transferred, total)
		},
	}

	written, err := io.Copy(partial, body)
	if closeErr := partial.Close(); err == nil {
		err = closeErr
	}
	if err == nil && total > 0 && written != total {
		err = fmt.Errorf("received %d of %d bytes: %w", written, total, io.ErrUnexpectedEOF)
	}
	if err != nil {
		_ = os.Remove(partialPath)
		return false, err
	}

	moved, err = platform.MoveIfAbsent(partialPath, task.DestinationPath)
	if err != nil {
		_ = os.Remove(partialPath)
		return false, err
	}

	s.tasksMutex.Lock()
	task.UpdateProgress(written, written)
	s.tasksMutex.Unlock()

	return moved, nil
}

// recordProgress stores transfer progress and notifies the UI
func (s *Service) recordProgress(task *model.DownloadTask, transferred, total int64) {
	s.tasksMutex.Lock()
	task.UpdateProgress(transferred, total)
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// finish moves task to its terminal state and notifies the UI
func (s *Service) finish(task *model.DownloadTask, err error, skipped bool, logger *zap.Logger) {
	s.tasksMutex.Lock()
	switch {
	case err == nil:
		task.Skipped = skipped
		task.Percent = 100
		_ = task.Transition(model.TaskStatusCompleted)
	case errors.Is(err, context.Canceled):
		_ = task.Transition(model.TaskStatusCancelled)
	default:
		task.LastError = err.Error()
		_ = task.Transition(model.TaskStatusFailed)
	}
	final := task.Clone()
	s.tasksMutex.Unlock()

	switch final.Status {
	case model.TaskStatusCompleted:
		logger.Info("Download completed",
			zap.Bool("skipped", final.Skipped),
			zap.Int64("bytes", final.BytesTransferred),
			zap.Duration("elapsed", final.FinishedAt.Sub(final.StartedAt)))
	case model.TaskStatusCancelled:
		logger.Info("Download cancelled", zap.Int64("bytes", final.BytesTransferred))
	default:
		logger.Error("Download failed", zap.Error(err))
	}

	s.notifyUpdate(task)
}

// snapshot returns a copy of task taken under the lock
func (s *Service) snapshot(task *model.DownloadTask) *model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return task.Clone()
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	snapshot := task.Clone()
	s.tasksMutex.RUnlock()

	if callback != nil {
		callback(snapshot)
	}
}

// ValidateFileName checks that name is a bare file name that cannot escape
// the destination directory
func ValidateFileName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidFileName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidFileName, name)
	}
	return nil
}

// progressReader reports the running byte count after every read
type progressReader struct {
	reader      io.Reader
	transferred int64
	onRead      func(transferred int64)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.transferred += int64(n)
		r.onRead(r.transferred)
	}
	return n, err
}
