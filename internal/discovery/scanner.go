package discovery

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bvget/bv-downloader/internal/model"
	"github.com/bvget/bv-downloader/internal/transport"
)

// Probe defaults
const (
	DefaultProbeTimeout = 5 * time.Second
	// DefaultMinBodyBytes is the manifest size a positive answer must exceed.
	// Devices that serve the path with an empty or placeholder body stay below it.
	DefaultMinBodyBytes int64 = 200
	DefaultMaxParallel        = model.SubnetSize
)

// ProgressCallback is called once per completed probe
type ProgressCallback func(progress model.ScanProgress)

// Scanner probes a /24 for the device. Every candidate gets an HTTP GET of
// the manifest path; the first positive answer wins and cancels the rest.
type Scanner struct {
	client       transport.Doer
	logger       *zap.Logger
	resolver     *Resolver
	onProgress   ProgressCallback
	probeTimeout time.Duration
	minBodyBytes int64
	manifestPath string
	maxParallel  int
}

// NewScanner creates a Scanner and applies the given options.
func NewScanner(options ...func(*Scanner)) *Scanner {
	s := &Scanner{
		logger:       zap.NewNop(),
		probeTimeout: DefaultProbeTimeout,
		minBodyBytes: DefaultMinBodyBytes,
		manifestPath: transport.DefaultManifestPath,
		maxParallel:  DefaultMaxParallel,
	}

	for _, option := range options {
		option(s)
	}

	if s.client == nil {
		s.client = transport.NewClient(transport.ClientOptions{DisableKeepAlives: true})
	}
	if s.resolver == nil {
		s.resolver = NewResolver(DefaultRouteProbeAddress)
	}

	return s
}

// WithHTTPClient specifies the client used for probes.
func WithHTTPClient(client transport.Doer) func(s *Scanner) {
	return func(s *Scanner) {
		s.client = client
	}
}

// WithLogger specifies the logger.
func WithLogger(logger *zap.Logger) func(s *Scanner) {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithResolver specifies how the local subnet is determined by Discover.
func WithResolver(resolver *Resolver) func(s *Scanner) {
	return func(s *Scanner) {
		s.resolver = resolver
	}
}

// WithProgressCallback specifies the function receiving per-probe progress.
func WithProgressCallback(cb ProgressCallback) func(s *Scanner) {
	return func(s *Scanner) {
		s.onProgress = cb
	}
}

// WithProbeTimeout specifies the per-probe request timeout.
func WithProbeTimeout(timeout time.Duration) func(s *Scanner) {
	return func(s *Scanner) {
		if timeout > 0 {
			s.probeTimeout = timeout
		}
	}
}

// WithMinBodyBytes specifies the size a manifest body must exceed for a
// probe to count as positive.
func WithMinBodyBytes(n int64) func(s *Scanner) {
	return func(s *Scanner) {
		if n >= 0 {
			s.minBodyBytes = n
		}
	}
}

// WithManifestPath specifies the path probed on each candidate.
func WithManifestPath(path string) func(s *Scanner) {
	return func(s *Scanner) {
		if path != "" {
			s.manifestPath = path
		}
	}
}

// WithMaxParallel caps the number of outstanding probes. The default keeps
// all candidates in flight at once.
func WithMaxParallel(n int) func(s *Scanner) {
	return func(s *Scanner) {
		if n > 0 {
			s.maxParallel = n
		}
	}
}

// FromAddress accepts a manually entered device address after IPv4
// validation. No network call is made.
func (s *Scanner) FromAddress(addr string) (*model.DiscoveredDevice, error) {
	if err := ValidateIPv4(addr); err != nil {
		return nil, err
	}
	return &model.DiscoveredDevice{
		IP:      addr,
		FoundAt: time.Now(),
		Manual:  true,
	}, nil
}

// Discover resolves the local subnet and scans it.
func (s *Scanner) Discover(ctx context.Context) (*model.DiscoveredDevice, error) {
	localIP, err := s.resolver.LocalAddress()
	if err != nil {
		return nil, err
	}

	prefix, err := SubnetPrefix(localIP)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Resolved local address",
		zap.String("local_ip", localIP),
		zap.String("subnet", prefix+".0/24"))

	return s.Scan(ctx, prefix)
}

type probeResult struct {
	target   model.ScanTarget
	positive bool
}

// Scan probes prefix.0 through prefix.254 concurrently. It returns the first
// positive candidate, or ErrDeviceNotFound once every candidate answered
// negatively. Cancelling ctx aborts all outstanding probes.
func (s *Scanner) Scan(ctx context.Context, prefix string) (*model.DiscoveredDevice, error) {
	start := time.Now()
	total := model.SubnetSize

	s.logger.Info("Starting subnet scan",
		zap.String("prefix", prefix),
		zap.Int("candidates", total),
		zap.Duration("probe_timeout", s.probeTimeout))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so probes finishing after the scan returned never block.
	results := make(chan probeResult, total)
	slots := make(chan struct{}, s.maxParallel)

	go func() {
		for octet := 0; octet < total; octet++ {
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				return
			}

			target := model.ScanTarget{Prefix: prefix, Octet: octet}
			go func() {
				defer func() { <-slots }()
				results <- probeResult{target: target, positive: s.Probe(ctx, target.Address())}
			}()
		}
	}()

	completed := 0
	for completed < total {
		select {
		case <-ctx.Done():
			s.logger.Info("Subnet scan cancelled", zap.Int("completed", completed))
			return nil, ctx.Err()
		case result := <-results:
			completed++
			s.reportProgress(model.ScanProgress{
				Completed: completed,
				Total:     total,
				Target:    result.target,
				Positive:  result.positive,
			})

			if result.positive {
				cancel()
				device := &model.DiscoveredDevice{
					IP:      result.target.Address(),
					FoundAt: time.Now(),
				}
				s.logger.Info("Found device",
					zap.String("ip", device.IP),
					zap.Int("probed", completed),
					zap.Duration("elapsed", time.Since(start)))
				return device, nil
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("Subnet scan finished without a match",
		zap.Int("probed", completed),
		zap.Duration("elapsed", time.Since(start)))

	return nil, ErrDeviceNotFound
}

// Probe reports whether the device at addr serves a manifest: a 2xx answer
// whose body exceeds the minimum size. Every failure counts as negative.
func (s *Scanner) Probe(ctx context.Context, addr string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, transport.ManifestURL(addr, s.manifestPath), nil)
	if err != nil {
		s.logger.Debug("Failed to build probe request", zap.String("addr", addr), zap.Error(err))
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("Probe failed", zap.String("addr", addr), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if !transport.IsSuccess(resp.StatusCode) {
		s.logger.Debug("Probe answered with error status",
			zap.String("addr", addr),
			zap.Int("status", resp.StatusCode))
		return false
	}

	n, err := io.Copy(io.Discard, io.LimitReader(resp.Body, s.minBodyBytes+1))
	if err != nil {
		s.logger.Debug("Probe body read failed", zap.String("addr", addr), zap.Error(err))
		return false
	}

	return n > s.minBodyBytes
}

// reportProgress calls the progress callback if set
func (s *Scanner) reportProgress(progress model.ScanProgress) {
	if s.onProgress != nil {
		s.onProgress(progress)
	}
}
