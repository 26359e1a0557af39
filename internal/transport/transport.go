package transport

import (
	"net"
	"net/http"
	"net/url"
	"time"
)

// Device endpoints
const (
	Scheme              = "http://"
	DefaultManifestPath = "/blackvue_vod.cgi"
	RecordPath          = "/Record/"
)

// Connection tuning
const (
	DefaultDialTimeout     = 5 * time.Second
	DefaultIdleConnTimeout = 30 * time.Second
	DefaultMaxIdleConns    = 16
)

// Doer sends an HTTP request. *http.Client satisfies it; tests substitute
// fakes to simulate a whole subnet.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOptions configures NewClient
type ClientOptions struct {
	DialTimeout       time.Duration
	DisableKeepAlives bool
}

// NewClient creates an HTTP client for talking to devices on the local
// network. Request deadlines come from the caller's context, so the client
// itself has no overall timeout, and proxies from the environment are ignored.
func NewClient(opts ClientOptions) *http.Client {
	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy: nil,
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: DefaultIdleConnTimeout,
			}).DialContext,
			MaxIdleConns:        DefaultMaxIdleConns,
			MaxIdleConnsPerHost: DefaultMaxIdleConns,
			IdleConnTimeout:     DefaultIdleConnTimeout,
			DisableKeepAlives:   opts.DisableKeepAlives,
		},
	}
}

// ManifestURL returns the manifest URL on the device at ip
func ManifestURL(ip, manifestPath string) string {
	if manifestPath == "" {
		manifestPath = DefaultManifestPath
	}
	return Scheme + ip + manifestPath
}

// RecordURL returns the download (and playback) URL of fileName on the device at ip
func RecordURL(ip, fileName string) string {
	return Scheme + ip + RecordPath + url.PathEscape(fileName)
}

// IsSuccess reports whether code is a 2xx status
func IsSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
