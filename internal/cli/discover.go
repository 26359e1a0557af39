package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bvget/bv-downloader/internal/discovery"
	"github.com/bvget/bv-downloader/internal/model"
)

// Device sources shown by discover
const (
	sourceScan   = "scan"
	sourceManual = "manual"
)

// deviceView is the discover result
type deviceView struct {
	IP      string    `json:"ip" yaml:"ip"`
	Source  string    `json:"source" yaml:"source"`
	FoundAt time.Time `json:"found_at" yaml:"found_at"`
}

func newDeviceView(device *model.DiscoveredDevice) deviceView {
	source := sourceScan
	if device.Manual {
		source = sourceManual
	}
	return deviceView{IP: device.IP, Source: source, FoundAt: device.FoundAt}
}

func newDiscoverCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "discover [ip]",
		Short: "Find the dash camera on the local subnet",
		Long: `Probe every address of the local /24 subnet for the camera's recording
list and print the first device that answers. With an address, only that
address is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scanner := a.newScanner()

			var (
				device *model.DiscoveredDevice
				err    error
			)
			if len(args) == 1 {
				device, err = scanner.FromAddress(args[0])
				if err == nil && !scanner.Probe(ctx, device.IP) {
					err = fmt.Errorf("%w: %s did not answer", discovery.ErrDeviceNotFound, device.IP)
				}
			} else {
				device, err = scanner.Discover(ctx)
			}
			if err != nil {
				return err
			}

			a.console.OnDeviceFound(device)
			fmt.Fprint(a.stdout, a.formatter.Format(newDeviceView(device)))
			return nil
		},
	}
}
