package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/siteask"
)

// DefaultDownloadTimeout is the default timeout for a whole download.
const DefaultDownloadTimeout = 30 * time.Second

// DefaultMaxDownloadBytes is the default download size cap (50 MiB).
const DefaultMaxDownloadBytes = 50 << 20

// Ensure Downloader implements siteask.Downloader at compile time.
var _ siteask.Downloader = (*Downloader)(nil)

// Downloader copies response bodies with a size cap. It does not execute
// JavaScript and is meant for binary documents.
type Downloader struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithTimeout sets the timeout for a whole download.
// Defaults to DefaultDownloadTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(dl *Downloader) {
		dl.timeout = d
	}
}

// WithMaxBytes sets the largest body accepted.
// Defaults to DefaultMaxDownloadBytes if not specified.
func WithMaxBytes(n int64) Option {
	return func(dl *Downloader) {
		dl.maxBytes = n
	}
}

// WithClient sets the underlying HTTP client.
func WithClient(c *http.Client) Option {
	return func(dl *Downloader) {
		dl.client = c
	}
}

// NewDownloader creates a new Downloader.
func NewDownloader(opts ...Option) *Downloader {
	dl := &Downloader{
		timeout:  DefaultDownloadTimeout,
		maxBytes: DefaultMaxDownloadBytes,
	}
	for _, opt := range opts {
		opt(dl)
	}
	if dl.client == nil {
		dl.client = &http.Client{}
	}
	return dl
}

// Download streams the body of url into w. It returns ETOOLARGE as soon as
// more than the configured maximum has been read; bytes already written to
// w must then be discarded by the caller.
func (dl *Downloader) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	if dl.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dl.timeout)
		defer cancel()
	}

	body, err := get(ctx, dl.client, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, io.LimitReader(body, dl.maxBytes+1))
	if err != nil {
		return n, err
	}
	if n > dl.maxBytes {
		return n, siteask.Errorf(siteask.ETOOLARGE, "%s exceeds %d bytes", url, dl.maxBytes)
	}
	return n, nil
}
