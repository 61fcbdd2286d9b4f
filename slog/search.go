package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteask"
)

// Ensure LoggingSearchBackend implements siteask.SearchBackend.
var _ siteask.SearchBackend = (*LoggingSearchBackend)(nil)

// LoggingSearchBackend wraps a SearchBackend with logging.
type LoggingSearchBackend struct {
	next   siteask.SearchBackend
	logger *slog.Logger
}

// NewLoggingSearchBackend creates a new LoggingSearchBackend.
func NewLoggingSearchBackend(next siteask.SearchBackend, logger *slog.Logger) *LoggingSearchBackend {
	return &LoggingSearchBackend{next: next, logger: logger}
}

// Name returns the wrapped backend's name.
func (b *LoggingSearchBackend) Name() string {
	return b.next.Name()
}

// Search delegates to the wrapped backend and logs the query.
func (b *LoggingSearchBackend) Search(ctx context.Context, session siteask.Fetcher, query string) (results []siteask.SearchResult, err error) {
	defer func(begin time.Time) {
		b.logger.Info("search",
			"backend", b.next.Name(),
			"query", query,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Search(ctx, session, query)
}

// Ensure LoggingRetriever implements siteask.Retriever.
var _ siteask.Retriever = (*LoggingRetriever)(nil)

// LoggingRetriever wraps a Retriever with logging.
type LoggingRetriever struct {
	next   siteask.Retriever
	logger *slog.Logger
}

// NewLoggingRetriever creates a new LoggingRetriever.
func NewLoggingRetriever(next siteask.Retriever, logger *slog.Logger) *LoggingRetriever {
	return &LoggingRetriever{next: next, logger: logger}
}

// Retrieve delegates to the wrapped retriever and logs the link count.
func (r *LoggingRetriever) Retrieve(ctx context.Context, session siteask.Fetcher, question string) (links []siteask.SearchResult, err error) {
	defer func(begin time.Time) {
		r.logger.Info("retrieve",
			"links", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Retrieve(ctx, session, question)
}
