package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/siteask"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single navigation.
const DefaultFetchTimeout = 30 * time.Second

var _ siteask.Browser = (*Browser)(nil)

// Browser hands out one rendering session per request on top of a recycling
// BrowserManager. Browser is safe for concurrent use; the sessions it returns
// are not.
type Browser struct {
	manager      *BrowserManager
	fetchTimeout time.Duration
	managerOpts  []ManagerOption
	closed       atomic.Bool
}

// Option configures a Browser.
type Option func(*Browser)

// WithFetchTimeout sets the per-navigation timeout. Defaults to 30s.
func WithFetchTimeout(d time.Duration) Option {
	return func(b *Browser) {
		b.fetchTimeout = d
	}
}

// WithManagerOptions passes options through to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(b *Browser) {
		b.managerOpts = append(b.managerOpts, opts...)
	}
}

// NewBrowser launches a headless Chrome browser.
// Close must be called when the Browser is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewBrowser(opts ...Option) (*Browser, error) {
	b := &Browser{fetchTimeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(b)
	}

	manager, err := NewBrowserManager(b.managerOpts...)
	if err != nil {
		return nil, err
	}
	b.manager = manager
	return b, nil
}

// Session opens a page with a desktop viewport and English Accept-Language
// header. The page is reused for every Fetch until the session is closed.
func (b *Browser) Session(ctx context.Context) (siteask.Fetcher, error) {
	if b.closed.Load() {
		return nil, siteask.Errorf(siteask.EINVALID, "browser closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := b.manager.OpenPage()
	if err != nil {
		return nil, err
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  1920,
		Height: 1080,
	}); err != nil {
		_ = b.manager.ReleasePage(page)
		return nil, fmt.Errorf("setting viewport: %w", err)
	}
	if _, err := page.SetExtraHeaders([]string{"Accept-Language", "en-US,en;q=0.9"}); err != nil {
		_ = b.manager.ReleasePage(page)
		return nil, fmt.Errorf("setting headers: %w", err)
	}

	return &Session{
		page:    page,
		manager: b.manager,
		timeout: b.fetchTimeout,
	}, nil
}

// Close shuts the browser down. Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (b *Browser) LauncherPID() int {
	return b.manager.LauncherPID()
}

var _ siteask.Fetcher = (*Session)(nil)

// Session is a single page reused for sequential navigations.
type Session struct {
	page    *rod.Page
	manager *BrowserManager
	timeout time.Duration
	closed  atomic.Bool
}

// Fetch navigates to the URL and returns the rendered HTML.
func (s *Session) Fetch(ctx context.Context, url string) (string, error) {
	if s.closed.Load() {
		return "", siteask.Errorf(siteask.EINVALID, "session closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	page := s.page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}

	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	return html, nil
}

// Close releases the page. Close is safe to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.manager.ReleasePage(s.page)
}
