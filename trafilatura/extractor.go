package trafilatura

import (
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/siteask"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements siteask.Extractor at compile time.
var _ siteask.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	MaxContentLength int
	Now              func() time.Time
}

// NewExtractor creates a new Extractor.
func NewExtractor(maxContentLength int) *Extractor {
	return &Extractor{MaxContentLength: maxContentLength, Now: time.Now}
}

// Extract processes rendered HTML and returns the main content text.
func (e *Extractor) Extract(rawHTML, pageURL string) (*siteask.ContentSource, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, siteask.Errorf(siteask.EUNAVAILABLE, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(pageURL); err == nil {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, siteask.Errorf(siteask.EUNAVAILABLE, "extracting %s: %v", pageURL, err)
	}

	meta := siteask.Metadata{
		Title:       result.Metadata.Title,
		Description: result.Metadata.Description,
		Keywords:    strings.Join(result.Metadata.Tags, ", "),
	}

	maxLen := e.MaxContentLength
	if maxLen <= 0 {
		maxLen = siteask.DefaultConfig().MaxContentLength
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	return siteask.NewWebpageSource(pageURL, result.ContentText, meta, maxLen, now())
}
