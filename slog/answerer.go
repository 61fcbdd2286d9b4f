package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteask"
)

// Ensure LoggingAnswerer implements siteask.Answerer.
var _ siteask.Answerer = (*LoggingAnswerer)(nil)

// LoggingAnswerer wraps an Answerer with logging.
type LoggingAnswerer struct {
	next   siteask.Answerer
	logger *slog.Logger
}

// NewLoggingAnswerer creates a new LoggingAnswerer.
func NewLoggingAnswerer(next siteask.Answerer, logger *slog.Logger) *LoggingAnswerer {
	return &LoggingAnswerer{next: next, logger: logger}
}

// Answer delegates to the wrapped answerer. The question text is not logged.
func (a *LoggingAnswerer) Answer(ctx context.Context, req siteask.AnswerRequest) (answer string, err error) {
	defer func(begin time.Time) {
		a.logger.Info("answer",
			"language", req.Language,
			"sources", len(req.Sources),
			"chars", len([]rune(answer)),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Answer(ctx, req)
}

// Ensure LoggingPipeline implements siteask.Pipeline.
var _ siteask.Pipeline = (*LoggingPipeline)(nil)

// LoggingPipeline wraps a Pipeline with request-level logging.
type LoggingPipeline struct {
	next   siteask.Pipeline
	logger *slog.Logger
}

// NewLoggingPipeline creates a new LoggingPipeline.
func NewLoggingPipeline(next siteask.Pipeline, logger *slog.Logger) *LoggingPipeline {
	return &LoggingPipeline{next: next, logger: logger}
}

// Ask delegates to the wrapped pipeline and logs the outcome.
func (p *LoggingPipeline) Ask(ctx context.Context, question string) (resp *siteask.Response, err error) {
	defer func(begin time.Time) {
		var sources int
		var cached bool
		if resp != nil {
			sources = len(resp.Sources)
			cached = resp.Cached
		}
		p.logger.Info("ask",
			"sources", sources,
			"cached", cached,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Ask(ctx, question)
}
