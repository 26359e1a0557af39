package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bvget/bv-downloader/internal/catalog"
	"github.com/bvget/bv-downloader/internal/config"
	"github.com/bvget/bv-downloader/internal/discovery"
	"github.com/bvget/bv-downloader/internal/model"
	"github.com/bvget/bv-downloader/internal/transport"
	"github.com/bvget/bv-downloader/internal/ui"
)

// AppName is the command name
const AppName = "bvget"

// flagAliases binds command flags whose names differ from their settings key
var flagAliases = map[string]string{
	"ip":   config.KeyDeviceIP,
	"dest": config.KeyDownloadDir,
	"lang": config.KeyLanguage,
}

// app holds the state shared by all commands of one invocation
type app struct {
	stdout      io.Writer
	stderr      io.Writer
	interactive bool
	client      transport.Doer // nil selects each component's default client
	envFile     string

	// Set during PersistentPreRunE
	settings  *config.Settings
	logger    *zap.Logger
	console   *ui.Console
	formatter Formatter
}

func newApp(stdout, stderr io.Writer, interactive bool) *app {
	return &app{
		stdout:      stdout,
		stderr:      stderr,
		interactive: interactive,
	}
}

// Execute runs the command line and returns the process exit code
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	a := newApp(os.Stdout, os.Stderr, interactive)
	return a.run(ctx, newRootCommand(a, version), os.Args[1:])
}

// run executes root with args and reports a failure the way the user reads it
func (a *app) run(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)

	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return 0
	}

	if a.console != nil {
		a.console.Finish()
		a.console.ReportError(err)
	} else {
		fmt.Fprintln(a.stderr, "Error:", err)
	}
	return 1
}

func newRootCommand(a *app, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   AppName,
		Short: "Find a BlackVue dash camera on the local network and download its recordings",
		Long: `bvget scans the local /24 subnet for a BlackVue dash camera, lists the
recordings stored on it and downloads them over the camera's HTTP interface.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.BoolP("verbose", "v", false, "enable verbose logging")
	flags.StringP("output", "o", config.DefaultOutput, "output format: table, json, yaml")
	flags.String("lang", config.DefaultLanguage, "message language: en, ru, pt")
	flags.StringVar(&a.envFile, "env-file", config.DefaultEnvFile, "file with BVGET_* variables")
	flags.Duration("probe-timeout", config.DefaultProbeTimeout, "timeout of one discovery probe")
	flags.Duration("catalog-timeout", config.DefaultCatalogTimeout, "timeout of the recording list request")
	flags.Int64("min-manifest-bytes", config.DefaultMinManifestBytes, "a probe is positive when the device list is longer than this")
	flags.Int("max-parallel-probes", config.DefaultMaxParallelProbes, "maximum number of probes in flight (1-255)")
	flags.String("manifest-path", config.DefaultManifestPath, "path of the recording list on the device")

	root.AddCommand(newDiscoverCommand(a))
	root.AddCommand(newListCommand(a))
	root.AddCommand(newDownloadCommand(a))
	root.AddCommand(newConfigCommand(a))

	return root
}

// setup loads settings, applies the command's flags and builds the logger,
// the console and the output formatter
func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.Load(a.envFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	flags := cmd.Flags()
	if err := settings.BindFlags(flags); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	for name, key := range flagAliases {
		if flag := flags.Lookup(name); flag != nil {
			if err := settings.BindFlag(key, flag); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	logger, err := newLogger(settings.IsVerbose())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	localization := ui.NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	a.settings = settings
	a.logger = logger
	a.console = ui.NewConsole(a.stderr, localization, a.interactive)
	a.formatter = NewFormatter(settings.GetOutputFormat())

	logger.Debug("Settings loaded", zap.Any("settings", settings.Effective()))
	return nil
}

// newLogger returns a development logger when verbose, otherwise a logger
// that only reports errors
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return cfg.Build()
}

// newScanner builds a scanner from the settings, reporting progress to the console
func (a *app) newScanner() *discovery.Scanner {
	s := a.settings
	return discovery.NewScanner(
		discovery.WithHTTPClient(a.client),
		discovery.WithLogger(a.logger),
		discovery.WithResolver(discovery.NewResolver(s.GetRouteProbeAddress())),
		discovery.WithProgressCallback(a.console.OnScanProgress),
		discovery.WithProbeTimeout(s.GetProbeTimeout()),
		discovery.WithMinBodyBytes(s.GetMinManifestBytes()),
		discovery.WithManifestPath(s.GetManifestPath()),
		discovery.WithMaxParallel(s.GetMaxParallelProbes()),
	)
}

// newCatalogClient builds a catalog client from the settings
func (a *app) newCatalogClient(onEntry catalog.EntryCallback) *catalog.Client {
	s := a.settings
	return catalog.NewClient(
		catalog.WithHTTPClient(a.client),
		catalog.WithLogger(a.logger),
		catalog.WithTimeout(s.GetCatalogTimeout()),
		catalog.WithManifestPath(s.GetManifestPath()),
		catalog.WithRecordPrefix(s.GetRecordPrefix()),
		catalog.WithStatusCallback(a.console.OnCatalogStage),
		catalog.WithEntryCallback(onEntry),
	)
}

// resolveDevice returns the device named by ip, the configured device_ip,
// or the first device found on the local subnet
func (a *app) resolveDevice(ctx context.Context, ip string) (*model.DiscoveredDevice, error) {
	if ip == "" {
		ip = a.settings.GetDeviceIP()
	}

	scanner := a.newScanner()
	var (
		device *model.DiscoveredDevice
		err    error
	)
	if ip != "" {
		device, err = scanner.FromAddress(ip)
	} else {
		device, err = scanner.Discover(ctx)
	}
	if err != nil {
		return nil, err
	}

	a.console.OnDeviceFound(device)
	return device, nil
}
