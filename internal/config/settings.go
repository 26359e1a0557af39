package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bvget/bv-downloader/internal/catalog"
	"github.com/bvget/bv-downloader/internal/discovery"
	"github.com/bvget/bv-downloader/internal/download"
	"github.com/bvget/bv-downloader/internal/model"
	"github.com/bvget/bv-downloader/internal/platform"
	"github.com/bvget/bv-downloader/internal/transport"
)

// EnvPrefix is prepended to every environment variable, e.g. BVGET_DEVICE_IP
const EnvPrefix = "BVGET"

// DefaultEnvFile is loaded when no other file is named
const DefaultEnvFile = ".env"

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Settings keys
const (
	KeyDownloadDir       = "download_directory"
	KeyDeviceIP          = "device_ip"
	KeyProbeTimeout      = "probe_timeout"
	KeyCatalogTimeout    = "catalog_timeout"
	KeyDownloadTimeout   = "download_timeout"
	KeyMinManifestBytes  = "min_manifest_bytes"
	KeyManifestPath      = "manifest_path"
	KeyRecordPrefix      = "record_prefix"
	KeyRouteProbeAddress = "route_probe_address"
	KeyMaxParallelProbes = "max_parallel_probes"
	KeyLanguage          = "language"
	KeyOutput            = "output"
	KeyVerbose           = "verbose"
)

// Default values
const (
	DefaultProbeTimeout      = discovery.DefaultProbeTimeout
	DefaultCatalogTimeout    = catalog.DefaultTimeout
	DefaultDownloadTimeout   = download.DefaultTimeout
	DefaultMinManifestBytes  = discovery.DefaultMinBodyBytes
	DefaultManifestPath      = transport.DefaultManifestPath
	DefaultRecordPrefix      = catalog.DefaultRecordPrefix
	DefaultRouteProbeAddress = discovery.DefaultRouteProbeAddress
	DefaultMaxParallelProbes = model.SubnetSize
	DefaultLanguage          = "en"
	DefaultOutput            = OutputTable
)

// Settings manages application configuration. Values come from bound
// command line flags, BVGET_* environment variables, an optional .env file
// and the defaults above, in that order. Nothing is persisted.
type Settings struct {
	v *viper.Viper
}

// NewSettings creates settings backed by defaults and the environment
func NewSettings() *Settings {
	v := viper.New()

	v.SetDefault(KeyProbeTimeout, DefaultProbeTimeout)
	v.SetDefault(KeyCatalogTimeout, DefaultCatalogTimeout)
	v.SetDefault(KeyDownloadTimeout, DefaultDownloadTimeout)
	v.SetDefault(KeyMinManifestBytes, DefaultMinManifestBytes)
	v.SetDefault(KeyManifestPath, DefaultManifestPath)
	v.SetDefault(KeyRecordPrefix, DefaultRecordPrefix)
	v.SetDefault(KeyRouteProbeAddress, DefaultRouteProbeAddress)
	v.SetDefault(KeyMaxParallelProbes, DefaultMaxParallelProbes)
	v.SetDefault(KeyLanguage, DefaultLanguage)
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return &Settings{v: v}
}

// Load reads envFile (DefaultEnvFile when empty) into the process
// environment and returns settings over it. A missing file only logs a warning.
func Load(envFile string, logger *zap.Logger) (*Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.Warn("env file not found, using environment variables only", zap.String("file", envFile))
	}

	return NewSettings(), nil
}

// BindFlag makes flag override key when the user sets it
func (s *Settings) BindFlag(key string, flag *pflag.Flag) error {
	return s.v.BindPFlag(key, flag)
}

// BindFlags binds every flag in flags whose name, with dashes turned into
// underscores, is a settings key
func (s *Settings) BindFlags(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(flag *pflag.Flag) {
		key := strings.ReplaceAll(flag.Name, "-", "_")
		if !isKnownKey(key) || err != nil {
			return
		}
		err = s.v.BindPFlag(key, flag)
	})
	return err
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.v.GetString(KeyDownloadDir)
	if dir == "" {
		return platform.GetDefaultDownloadDir()
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.v.Set(KeyDownloadDir, dir)
}

// GetDeviceIP returns the manually configured device address, if any
func (s *Settings) GetDeviceIP() string {
	return strings.TrimSpace(s.v.GetString(KeyDeviceIP))
}

// SetDeviceIP sets the device address
func (s *Settings) SetDeviceIP(ip string) {
	s.v.Set(KeyDeviceIP, ip)
}

// GetProbeTimeout returns the per-probe timeout used during discovery
func (s *Settings) GetProbeTimeout() time.Duration {
	return s.positiveDuration(KeyProbeTimeout, DefaultProbeTimeout)
}

// SetProbeTimeout sets the per-probe timeout
func (s *Settings) SetProbeTimeout(timeout time.Duration) {
	s.v.Set(KeyProbeTimeout, timeout)
}

// GetCatalogTimeout returns the manifest request timeout
func (s *Settings) GetCatalogTimeout() time.Duration {
	return s.positiveDuration(KeyCatalogTimeout, DefaultCatalogTimeout)
}

// GetDownloadTimeout returns the whole-transfer timeout
func (s *Settings) GetDownloadTimeout() time.Duration {
	return s.positiveDuration(KeyDownloadTimeout, DefaultDownloadTimeout)
}

// SetDownloadTimeout sets the whole-transfer timeout
func (s *Settings) SetDownloadTimeout(timeout time.Duration) {
	s.v.Set(KeyDownloadTimeout, timeout)
}

// GetMinManifestBytes returns the body size a probe answer must exceed
func (s *Settings) GetMinManifestBytes() int64 {
	value := s.v.GetInt64(KeyMinManifestBytes)
	if value < 0 {
		return DefaultMinManifestBytes
	}
	return value
}

// SetMinManifestBytes sets the discovery threshold
func (s *Settings) SetMinManifestBytes(n int64) {
	s.v.Set(KeyMinManifestBytes, n)
}

// GetManifestPath returns the manifest path, always with a leading slash
func (s *Settings) GetManifestPath() string {
	path := strings.TrimSpace(s.v.GetString(KeyManifestPath))
	if path == "" {
		return DefaultManifestPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// GetRecordPrefix returns the device-side path prefix stripped from entries
func (s *Settings) GetRecordPrefix() string {
	return s.v.GetString(KeyRecordPrefix)
}

// GetRouteProbeAddress returns the address used to pick the outbound route
func (s *Settings) GetRouteProbeAddress() string {
	addr := strings.TrimSpace(s.v.GetString(KeyRouteProbeAddress))
	if addr == "" {
		return DefaultRouteProbeAddress
	}
	return addr
}

// GetMaxParallelProbes returns how many probes may be outstanding at once
func (s *Settings) GetMaxParallelProbes() int {
	value := s.v.GetInt(KeyMaxParallelProbes)
	if value <= 0 {
		return DefaultMaxParallelProbes
	}
	if value > model.SubnetSize {
		return model.SubnetSize
	}
	return value
}

// SetMaxParallelProbes sets the probe concurrency, clamped to 1..255
func (s *Settings) SetMaxParallelProbes(count int) {
	if count < 1 {
		count = 1
	}
	if count > model.SubnetSize {
		count = model.SubnetSize
	}
	s.v.Set(KeyMaxParallelProbes, count)
}

// GetLanguage returns the configured language, falling back to English
func (s *Settings) GetLanguage() string {
	lang := strings.ToLower(s.v.GetString(KeyLanguage))
	if _, ok := s.GetLanguageOptions()[lang]; !ok {
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.v.Set(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// GetOutputFormat returns table, json or yaml
func (s *Settings) GetOutputFormat() string {
	switch format := strings.ToLower(s.v.GetString(KeyOutput)); format {
	case OutputTable, OutputJSON, OutputYAML:
		return format
	default:
		return DefaultOutput
	}
}

// IsVerbose reports whether debug logging is enabled
func (s *Settings) IsVerbose() bool {
	return s.v.GetBool(KeyVerbose)
}

// Effective returns every setting with its resolved value
func (s *Settings) Effective() map[string]any {
	return map[string]any{
		KeyDownloadDir:       s.GetDownloadDirectory(),
		KeyDeviceIP:          s.GetDeviceIP(),
		KeyProbeTimeout:      s.GetProbeTimeout().String(),
		KeyCatalogTimeout:    s.GetCatalogTimeout().String(),
		KeyDownloadTimeout:   s.GetDownloadTimeout().String(),
		KeyMinManifestBytes:  s.GetMinManifestBytes(),
		KeyManifestPath:      s.GetManifestPath(),
		KeyRecordPrefix:      s.GetRecordPrefix(),
		KeyRouteProbeAddress: s.GetRouteProbeAddress(),
		KeyMaxParallelProbes: s.GetMaxParallelProbes(),
		KeyLanguage:          s.GetLanguage(),
		KeyOutput:            s.GetOutputFormat(),
		KeyVerbose:           s.IsVerbose(),
	}
}

func (s *Settings) positiveDuration(key string, fallback time.Duration) time.Duration {
	value := s.v.GetDuration(key)
	if value <= 0 {
		return fallback
	}
	return value
}

func isKnownKey(key string) bool {
	switch key {
	case KeyDownloadDir, KeyDeviceIP, KeyProbeTimeout, KeyCatalogTimeout,
		KeyDownloadTimeout, KeyMinManifestBytes, KeyManifestPath, KeyRecordPrefix,
		KeyRouteProbeAddress, KeyMaxParallelProbes, KeyLanguage, KeyOutput, KeyVerbose:
		return true
	}
	return false
}
