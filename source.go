package siteask

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"
)

// SourceKind tags how a retrieved link is turned into content.
type SourceKind int

const (
	// KindWebpage is rendered in the browser session and run through an Extractor.
	KindWebpage SourceKind = iota

	// KindDocument is downloaded and run through a DocumentProcessor.
	KindDocument
)

// String returns the value reported as the source type in responses.
func (k SourceKind) String() string {
	if k == KindDocument {
		return "PDF"
	}
	return "webpage"
}

// ClassifyURL guesses the kind of a link from its path suffix.
func ClassifyURL(rawURL string) SourceKind {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	if strings.HasSuffix(strings.ToLower(p), ".pdf") {
		return KindDocument
	}
	return KindWebpage
}

// DocumentFilename returns the last path segment of a document URL, falling
// back to "document.pdf" when the URL has none.
func DocumentFilename(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "" || name == "." || name == "/" {
		return "document.pdf"
	}
	return name
}

// Classifier decides how a link should be processed.
type Classifier interface {
	Classify(ctx context.Context, url string) SourceKind
}

// Metadata describes where a ContentSource came from.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	PageCount   int    `json:"pages,omitempty"`
	Type        string `json:"type"`
}

// ContentSource is normalized evidence text taken from one in-domain URL.
type ContentSource struct {
	URL       string    `json:"url"`
	Content   string    `json:"content"`
	Metadata  Metadata  `json:"metadata"`
	Timestamp time.Time `json:"timestamp"`
}

// Title returns the metadata title, falling back to the last path segment
// of the URL.
func (s *ContentSource) Title() string {
	if s.Metadata.Title != "" {
		return s.Metadata.Title
	}
	p := s.URL
	if u, err := url.Parse(s.URL); err == nil && u.Path != "" && u.Path != "/" {
		p = u.Path
	}
	return path.Base(p)
}

// Useful reports whether the trimmed content is longer than minLength.
func (s *ContentSource) Useful(minLength int) bool {
	return s != nil && len([]rune(strings.TrimSpace(s.Content))) > minLength
}

// ExtractionResult is the outcome of turning one link into content.
// Exactly one of Source and Err is set.
type ExtractionResult struct {
	URL    string
	Kind   SourceKind
	Source *ContentSource
	Err    error
}

// NewWebpageSource normalizes extracted page text into a ContentSource.
// Whitespace is collapsed and the result capped at maxLength characters.
// It returns EUNAVAILABLE when no text remains.
func NewWebpageSource(url, text string, meta Metadata, maxLength int, now time.Time) (*ContentSource, error) {
	content := Truncate(CollapseWhitespace(text), maxLength)
	if content == "" {
		return nil, Errorf(EUNAVAILABLE, "no text content at %s", url)
	}
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Description = strings.TrimSpace(meta.Description)
	meta.Keywords = strings.TrimSpace(meta.Keywords)
	meta.Type = KindWebpage.String()
	return &ContentSource{
		URL:       url,
		Content:   content,
		Metadata:  meta,
		Timestamp: now,
	}, nil
}
