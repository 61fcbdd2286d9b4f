package goquery

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteask"
	"golang.org/x/net/html"
)

// Ensure Extractor implements siteask.Extractor at compile time.
var _ siteask.Extractor = (*Extractor)(nil)

// RemoveSelectors match regions that never carry page content.
var RemoveSelectors = []string{
	"script", "style", "noscript", "template", "nav", "header", "footer",
	".advertisement", ".ads", ".social-media", ".menu",
}

// ContentSelectors are tried in order; the first whose text is longer than
// MinMainContentLength wins.
var ContentSelectors = []string{
	"main", ".main-content", ".content", "article",
	".post-content", ".page-content", "#content",
	".container", ".wrapper",
}

// MinMainContentLength is the text length a content region must exceed to
// be preferred over the whole body.
const MinMainContentLength = 100

// Extractor picks the main content region of a page with CSS selectors.
type Extractor struct {
	// MaxContentLength caps the returned content. Zero means
	// siteask.DefaultConfig().MaxContentLength.
	MaxContentLength int

	Now func() time.Time
}

// NewExtractor creates a new Extractor.
func NewExtractor(maxContentLength int) *Extractor {
	return &Extractor{MaxContentLength: maxContentLength, Now: time.Now}
}

// Extract strips boilerplate and returns the main content text.
func (e *Extractor) Extract(rawHTML, pageURL string) (*siteask.ContentSource, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, siteask.Errorf(siteask.EUNAVAILABLE, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, siteask.Errorf(siteask.EINVALID, "failed to parse HTML: %v", err)
	}

	meta := siteask.Metadata{
		Title:       doc.Find("title").First().Text(),
		Description: doc.Find(`meta[name="description"]`).First().AttrOr("content", ""),
		Keywords:    doc.Find(`meta[name="keywords"]`).First().AttrOr("content", ""),
	}

	doc.Find(strings.Join(RemoveSelectors, ", ")).Remove()

	var text string
	for _, selector := range ContentSelectors {
		candidate := strings.TrimSpace(Text(doc.Find(selector).First()))
		if len([]rune(candidate)) > MinMainContentLength {
			text = candidate
			break
		}
	}
	if text == "" {
		text = Text(doc.Find("body"))
	}

	maxLen := e.MaxContentLength
	if maxLen <= 0 {
		maxLen = siteask.DefaultConfig().MaxContentLength
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	return siteask.NewWebpageSource(pageURL, text, meta, maxLen, now())
}

// inline elements do not separate words when their text is joined.
var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "cite": true, "code": true,
	"em": true, "i": true, "kbd": true, "mark": true, "q": true, "s": true,
	"small": true, "span": true, "strong": true, "sub": true, "sup": true,
	"time": true, "u": true,
}

// Text returns the visible text of the selection. Unlike Selection.Text it
// separates block-level elements with whitespace, so list items and table
// cells do not run together.
func Text(sel *goquery.Selection) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template", "svg":
				return
			}
		}
		block := n.Type == html.ElementNode && !inline[n.Data]
		if block {
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			sb.WriteByte(' ')
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return sb.String()
}
