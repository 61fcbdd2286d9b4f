package http

import (
	"context"
	"mime"
	"net/http"
	"time"

	"github.com/fwojciec/siteask"
)

// Ensure Classifier implements siteask.Classifier at compile time.
var _ siteask.Classifier = (*Classifier)(nil)

// Classifier decides how a link is processed by asking the server for its
// content type. Links whose type cannot be determined are classified by
// their URL suffix.
type Classifier struct {
	client  *http.Client
	timeout time.Duration
}

// NewClassifier creates a Classifier. If client is nil, http.DefaultClient
// is used. Each probe is bounded by timeout.
func NewClassifier(client *http.Client, timeout time.Duration) *Classifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &Classifier{client: client, timeout: timeout}
}

// Classify issues a HEAD request for url and maps application/pdf to
// KindDocument and HTML types to KindWebpage.
func (c *Classifier) Classify(ctx context.Context, url string) siteask.SourceKind {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := head(ctx, c.client, url)
	if err != nil || resp.StatusCode >= 400 {
		return siteask.ClassifyURL(url)
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return siteask.ClassifyURL(url)
	}
	switch mediaType {
	case "application/pdf", "application/x-pdf":
		return siteask.KindDocument
	case "text/html", "application/xhtml+xml":
		return siteask.KindWebpage
	}
	return siteask.ClassifyURL(url)
}
