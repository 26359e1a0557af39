package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bvget/bv-downloader/internal/model"
	"github.com/bvget/bv-downloader/internal/transport"
)

// DefaultTimeout bounds the whole manifest request
const DefaultTimeout = 5 * time.Second

// ErrCatalogFetchFailed means the manifest could not be retrieved
var ErrCatalogFetchFailed = errors.New("catalog fetch failed")

// Stage is a step of catalog retrieval reported through the status callback
type Stage string

const (
	StageFetching Stage = "fetching"
	StageParsing  Stage = "parsing"
	StageDone     Stage = "done"
)

// StatusCallback receives stage changes during Fetch
type StatusCallback func(ip string, stage Stage)

// Client retrieves a device's recording catalog
type Client struct {
	client       transport.Doer
	logger       *zap.Logger
	timeout      time.Duration
	manifestPath string
	recordPrefix string
	onEntry      EntryCallback
	onStatus     StatusCallback
}

// NewClient creates a catalog client and applies the given options.
func NewClient(options ...func(*Client)) *Client {
	c := &Client{
		logger:       zap.NewNop(),
		timeout:      DefaultTimeout,
		manifestPath: transport.DefaultManifestPath,
		recordPrefix: DefaultRecordPrefix,
	}

	for _, option := range options {
		option(c)
	}

	if c.client == nil {
		c.client = transport.NewClient(transport.ClientOptions{})
	}

	return c
}

// WithHTTPClient specifies the client used to fetch the manifest.
func WithHTTPClient(client transport.Doer) func(c *Client) {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger specifies the logger.
func WithLogger(logger *zap.Logger) func(c *Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout specifies the manifest request timeout.
func WithTimeout(timeout time.Duration) func(c *Client) {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithManifestPath specifies the manifest path on the device.
func WithManifestPath(path string) func(c *Client) {
	return func(c *Client) {
		if path != "" {
			c.manifestPath = path
		}
	}
}

// WithRecordPrefix specifies the device-side prefix stripped from paths.
func WithRecordPrefix(prefix string) func(c *Client) {
	return func(c *Client) {
		c.recordPrefix = prefix
	}
}

// WithEntryCallback specifies the function receiving each parsed entry.
func WithEntryCallback(cb EntryCallback) func(c *Client) {
	return func(c *Client) {
		c.onEntry = cb
	}
}

// WithStatusCallback specifies the function receiving stage changes.
func WithStatusCallback(cb StatusCallback) func(c *Client) {
	return func(c *Client) {
		c.onStatus = cb
	}
}

// Fetch downloads and parses the manifest of the device at ip. Any network,
// HTTP or read error is returned wrapped in ErrCatalogFetchFailed and no
// entries are produced.
func (c *Client) Fetch(ctx context.Context, ip string) (*model.Catalog, error) {
	c.reportStatus(ip, StageFetching)

	body, err := c.fetchManifest(ctx, ip)
	if err != nil {
		c.logger.Error("Failed to fetch catalog", zap.String("ip", ip), zap.Error(err))
		return nil, err
	}

	c.reportStatus(ip, StageParsing)

	catalog := model.NewCatalog(ip)
	undated := 0
	ParseManifest(body, c.recordPrefix, func(entry *model.RecordingEntry) {
		if !entry.HasTimestamp() {
			undated++
			c.logger.Debug("Recording name did not decode",
				zap.String("file", entry.FileName))
		}
		catalog.AddEntry(entry)
		if c.onEntry != nil {
			c.onEntry(entry)
		}
	})

	c.logger.Info("Catalog retrieved",
		zap.String("ip", ip),
		zap.Int("entries", catalog.Len()),
		zap.Int("undated", undated),
		zap.Int("bytes", len(body)))

	c.reportStatus(ip, StageDone)
	return catalog, nil
}

func (c *Client) fetchManifest(ctx context.Context, ip string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, transport.ManifestURL(ip, c.manifestPath), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCatalogFetchFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCatalogFetchFailed, err)
	}
	defer resp.Body.Close()

	if !transport.IsSuccess(resp.StatusCode) {
		return "", fmt.Errorf("%w: HTTP %d", ErrCatalogFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCatalogFetchFailed, err)
	}

	return string(data), nil
}

// reportStatus calls the status callback if set
func (c *Client) reportStatus(ip string, stage Stage) {
	if c.onStatus != nil {
		c.onStatus(ip, stage)
	}
}
