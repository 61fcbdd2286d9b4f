package mock

import (
	"context"

	"github.com/fwojciec/siteask"
)

var _ siteask.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of siteask.Extractor.
type Extractor struct {
	ExtractFn func(html, url string) (*siteask.ContentSource, error)
}

func (e *Extractor) Extract(html, url string) (*siteask.ContentSource, error) {
	return e.ExtractFn(html, url)
}

var _ siteask.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of siteask.Classifier.
type Classifier struct {
	ClassifyFn func(ctx context.Context, url string) siteask.SourceKind
}

func (c *Classifier) Classify(ctx context.Context, url string) siteask.SourceKind {
	return c.ClassifyFn(ctx, url)
}
