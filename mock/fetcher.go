package mock

import (
	"context"

	"github.com/fwojciec/siteask"
)

var _ siteask.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of siteask.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ siteask.Browser = (*Browser)(nil)

// Browser is a mock implementation of siteask.Browser.
type Browser struct {
	SessionFn func(ctx context.Context) (siteask.Fetcher, error)
	CloseFn   func() error
}

func (b *Browser) Session(ctx context.Context) (siteask.Fetcher, error) {
	return b.SessionFn(ctx)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}
