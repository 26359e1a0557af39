package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bvget/bv-downloader/internal/config"
	"github.com/bvget/bv-downloader/internal/model"
	"github.com/bvget/bv-downloader/internal/transport"
)

// recordingView is one listed recording
type recordingView struct {
	Index      int                  `json:"index" yaml:"index"`
	FileName   string               `json:"file_name" yaml:"file_name"`
	Type       model.RecordingType  `json:"type" yaml:"type"`
	Position   model.CameraPosition `json:"position" yaml:"position"`
	Timestamp  *time.Time           `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Attributes map[string]string    `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	URL        string               `json:"url,omitempty" yaml:"url,omitempty"`
}

// catalogView is the list result in json and yaml
type catalogView struct {
	DeviceIP   string          `json:"device_ip" yaml:"device_ip"`
	FetchedAt  time.Time       `json:"fetched_at" yaml:"fetched_at"`
	Total      int             `json:"total" yaml:"total"`
	Recordings []recordingView `json:"recordings" yaml:"recordings"`
}

// entryFilter selects listed recordings. Zero values match everything.
type entryFilter struct {
	recordingType model.RecordingType
	position      model.CameraPosition
}

func (f entryFilter) matches(entry *model.RecordingEntry) bool {
	if f.recordingType != "" && entry.Type != f.recordingType {
		return false
	}
	if f.position != "" && entry.Position != f.position {
		return false
	}
	return true
}

// parseRecordingType accepts a type name or its file name code, in any case
func parseRecordingType(value string) (model.RecordingType, error) {
	if value == "" {
		return "", nil
	}
	for _, t := range []model.RecordingType{
		model.RecordingTypeNormal,
		model.RecordingTypeEvent,
		model.RecordingTypeParking,
		model.RecordingTypeManual,
	} {
		if strings.EqualFold(value, string(t)) || strings.EqualFold(value, string(t.Code())) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown recording type %q (normal, event, parking, manual)", value)
}

// parseCameraPosition accepts a camera name or its file name code, in any case
func parseCameraPosition(value string) (model.CameraPosition, error) {
	if value == "" {
		return "", nil
	}
	for _, p := range []model.CameraPosition{model.CameraPositionFront, model.CameraPositionRear} {
		if strings.EqualFold(value, string(p)) || strings.EqualFold(value, string(p.Code())) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown camera %q (front, rear)", value)
}

func newListCommand(a *app) *cobra.Command {
	var (
		typeName   string
		cameraName string
		showURLs   bool
	)

	cmd := &cobra.Command{
		Use:   "list [ip]",
		Short: "List the recordings stored on the dash camera",
		Long: `Fetch the recording list of the camera at ip, the configured device_ip,
or the first camera found on the local subnet. In table output recordings are
printed as they are parsed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				filter entryFilter
				err    error
			)
			if filter.recordingType, err = parseRecordingType(typeName); err != nil {
				return err
			}
			if filter.position, err = parseCameraPosition(cameraName); err != nil {
				return err
			}

			var ip string
			if len(args) == 1 {
				ip = args[0]
			}

			ctx := cmd.Context()
			device, err := a.resolveDevice(ctx, ip)
			if err != nil {
				return err
			}

			streaming := a.settings.GetOutputFormat() == config.OutputTable
			client := a.newCatalogClient(func(entry *model.RecordingEntry) {
				a.console.OnCatalogEntry(entry)
				if !streaming || !filter.matches(entry) {
					return
				}
				line := a.console.EntryLine(entry)
				if showURLs {
					line += "  " + transport.RecordURL(device.IP, entry.FileName)
				}
				a.console.Print(a.stdout, line)
			})

			catalog, err := client.Fetch(ctx, device.IP)
			if err != nil {
				return err
			}
			if streaming {
				return nil
			}

			view := catalogView{
				DeviceIP:   catalog.DeviceIP,
				FetchedAt:  catalog.FetchedAt,
				Total:      catalog.Len(),
				Recordings: make([]recordingView, 0, catalog.Len()),
			}
			for _, entry := range catalog.Entries {
				if !filter.matches(entry) {
					continue
				}
				rv := recordingView{
					Index:      entry.Index,
					FileName:   entry.FileName,
					Type:       entry.Type,
					Position:   entry.Position,
					Timestamp:  entry.Timestamp,
					Attributes: entry.Attributes,
				}
				if showURLs {
					rv.URL = transport.RecordURL(device.IP, entry.FileName)
				}
				view.Recordings = append(view.Recordings, rv)
			}

			fmt.Fprint(a.stdout, a.formatter.Format(view))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "only list recordings of this type: normal, event, parking, manual")
	cmd.Flags().StringVarP(&cameraName, "camera", "c", "", "only list recordings of this camera: front, rear")
	cmd.Flags().BoolVar(&showURLs, "urls", false, "print the download URL of every recording")

	return cmd
}
