package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteask"
)

// Ensure LoggingDocumentProcessor implements siteask.DocumentProcessor.
var _ siteask.DocumentProcessor = (*LoggingDocumentProcessor)(nil)

// LoggingDocumentProcessor wraps a DocumentProcessor with logging.
type LoggingDocumentProcessor struct {
	next   siteask.DocumentProcessor
	logger *slog.Logger
}

// NewLoggingDocumentProcessor creates a new LoggingDocumentProcessor.
func NewLoggingDocumentProcessor(next siteask.DocumentProcessor, logger *slog.Logger) *LoggingDocumentProcessor {
	return &LoggingDocumentProcessor{next: next, logger: logger}
}

// Process delegates to the wrapped processor and logs the result size.
func (p *LoggingDocumentProcessor) Process(ctx context.Context, url, filename string) (src *siteask.ContentSource, err error) {
	defer func(begin time.Time) {
		var chars, pages int
		if src != nil {
			chars = len([]rune(src.Content))
			pages = src.Metadata.PageCount
		}
		p.logger.Info("process document",
			"url", url,
			"pages", pages,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Process(ctx, url, filename)
}
