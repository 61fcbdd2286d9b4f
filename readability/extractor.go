package readability

import (
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/siteask"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements siteask.Extractor at compile time.
var _ siteask.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	MaxContentLength int
	Now              func() time.Time
}

// NewExtractor creates a new Extractor.
func NewExtractor(maxContentLength int) *Extractor {
	return &Extractor{MaxContentLength: maxContentLength, Now: time.Now}
}

// Extract processes rendered HTML and returns the main content text.
// The article excerpt is reported as the description.
func (e *Extractor) Extract(rawHTML, pageURL string) (*siteask.ContentSource, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, siteask.Errorf(siteask.EUNAVAILABLE, "empty HTML input")
	}

	u, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, siteask.Errorf(siteask.EUNAVAILABLE, "extracting %s: %v", pageURL, err)
	}

	maxLen := e.MaxContentLength
	if maxLen <= 0 {
		maxLen = siteask.DefaultConfig().MaxContentLength
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	return siteask.NewWebpageSource(pageURL, article.TextContent, siteask.Metadata{
		Title:       article.Title,
		Description: article.Excerpt,
	}, maxLen, now())
}
