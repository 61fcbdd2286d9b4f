package mock

import (
	"context"

	"github.com/fwojciec/siteask"
)

var _ siteask.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of siteask.Answerer.
type Answerer struct {
	AnswerFn func(ctx context.Context, req siteask.AnswerRequest) (string, error)
}

func (a *Answerer) Answer(ctx context.Context, req siteask.AnswerRequest) (string, error) {
	return a.AnswerFn(ctx, req)
}

var _ siteask.Pipeline = (*Pipeline)(nil)

// Pipeline is a mock implementation of siteask.Pipeline.
type Pipeline struct {
	AskFn func(ctx context.Context, question string) (*siteask.Response, error)
}

func (p *Pipeline) Ask(ctx context.Context, question string) (*siteask.Response, error) {
	return p.AskFn(ctx, question)
}

var _ siteask.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of siteask.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}
