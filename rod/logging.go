package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteask"
)

// Ensure LoggingFetcher implements siteask.Fetcher.
var _ siteask.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   siteask.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next siteask.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingBrowser implements siteask.Browser.
var _ siteask.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps every session it opens in a LoggingFetcher.
type LoggingBrowser struct {
	next   siteask.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next siteask.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Session opens a session on the wrapped browser and decorates it.
func (b *LoggingBrowser) Session(ctx context.Context) (siteask.Fetcher, error) {
	s, err := b.next.Session(ctx)
	if err != nil {
		b.logger.Warn("session", "err", err)
		return nil, err
	}
	return NewLoggingFetcher(s, b.logger), nil
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}
