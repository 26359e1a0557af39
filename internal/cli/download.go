package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bvget/bv-downloader/internal/download"
	"github.com/bvget/bv-downloader/internal/model"
	"github.com/bvget/bv-downloader/internal/platform"
	"github.com/bvget/bv-downloader/internal/ui"
)

// taskView is the download result
type taskView struct {
	File    string           `json:"file" yaml:"file"`
	Path    string           `json:"path" yaml:"path"`
	Status  model.TaskStatus `json:"status" yaml:"status"`
	Bytes   int64            `json:"bytes" yaml:"bytes"`
	Skipped bool             `json:"skipped" yaml:"skipped"`
}

func newDownloadCommand(a *app) *cobra.Command {
	var (
		verify bool
		reveal bool
	)

	cmd := &cobra.Command{
		Use:   "download <file>",
		Short: "Download one recording from the dash camera",
		Long: `Download a recording by its file name into the download directory.
A file that already exists there is never downloaded again or overwritten.
Press Ctrl-C to cancel the transfer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName := args[0]
			if err := download.ValidateFileName(fileName); err != nil {
				return err
			}

			ctx := cmd.Context()
			device, err := a.resolveDevice(ctx, "")
			if err != nil {
				return err
			}

			if verify {
				catalog, err := a.newCatalogClient(a.console.OnCatalogEntry).Fetch(ctx, device.IP)
				if err != nil {
					return err
				}
				if _, found := catalog.Find(fileName); !found {
					return errors.New(a.console.Localization().Format(ui.KeyFileNotInCatalog, fileName))
				}
			}

			dest := a.settings.GetDownloadDirectory()
			a.removePartialFiles(dest)

			service := download.NewService(a.client, a.logger, a.settings.GetDownloadTimeout())
			service.SetUpdateCallback(a.console.OnTaskUpdate)

			task, err := service.Download(ctx, device.IP, fileName, dest)
			if err != nil {
				return err
			}

			fmt.Fprint(a.stdout, a.formatter.Format(taskView{
				File:    task.FileName,
				Path:    task.DestinationPath,
				Status:  task.Status,
				Bytes:   task.BytesTransferred,
				Skipped: task.Skipped,
			}))

			if reveal {
				if err := platform.OpenFileInManager(task.DestinationPath); err != nil {
					a.logger.Warn("Failed to open file manager", zap.String("path", task.DestinationPath), zap.Error(err))
				}
			}
			return nil
		},
	}

	cmd.Flags().String("ip", "", "address of the dash camera; scan the subnet when empty")
	cmd.Flags().String("dest", "", "download directory (default: Desktop, then Downloads)")
	cmd.Flags().BoolVar(&verify, "verify", false, "check that the file is on the camera before downloading")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "show the downloaded file in the file manager")

	return cmd
}

// removePartialFiles clears partial files left by an interrupted run
func (a *app) removePartialFiles(dir string) {
	removed, err := platform.RemovePartialFiles(dir)
	switch {
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		a.logger.Warn("Failed to remove partial downloads", zap.String("dir", dir), zap.Error(err))
	case removed > 0:
		a.logger.Info("Removed partial downloads", zap.String("dir", dir), zap.Int("count", removed))
	}
}
