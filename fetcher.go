package siteask

import "context"

// Fetcher retrieves rendered HTML from URLs through a single rendering
// session. A Fetcher is used sequentially by one request and is not safe for
// concurrent use.
type Fetcher interface {
	// Fetch navigates to the URL, waits for JavaScript to render,
	// and returns the rendered HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases the session. Close is safe to call more than once.
	Close() error
}

// Browser hands out rendering sessions. Each question gets its own session,
// which the caller must close on every exit path.
type Browser interface {
	Session(ctx context.Context) (Fetcher, error)
	Close() error
}
