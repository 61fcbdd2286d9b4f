package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteask"
)

// Ensure LinkHarvester implements siteask.LinkHarvester at compile time.
var _ siteask.LinkHarvester = (*LinkHarvester)(nil)

// LinkHarvester reads in-domain links from rendered pages for the crawl
// fallback.
type LinkHarvester struct{}

// NewLinkHarvester creates a new LinkHarvester.
func NewLinkHarvester() *LinkHarvester {
	return &LinkHarvester{}
}

// Harvest returns the page title and its in-domain links.
func (h *LinkHarvester) Harvest(html, pageURL string, domain siteask.Domain) (*siteask.Harvest, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, siteask.Errorf(siteask.EINVALID, "failed to parse HTML: %v", err)
	}

	links, err := extractLinks(doc, pageURL, domain)
	if err != nil {
		return nil, err
	}

	return &siteask.Harvest{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Links: links,
	}, nil
}

// ExtractLinks harvests anchors that point into domain and carry a label.
// The label is the anchor text, or its title attribute when the text is
// empty. Anchors with fragment or non-HTTP hrefs are skipped. Links are
// returned in document order without duplicates.
func ExtractLinks(html, baseURL string, domain siteask.Domain) ([]siteask.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, siteask.Errorf(siteask.EINVALID, "failed to parse HTML: %v", err)
	}
	return extractLinks(doc, baseURL, domain)
}

func extractLinks(doc *goquery.Document, baseURL string, domain siteask.Domain) ([]siteask.SearchResult, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, siteask.Errorf(siteask.EINVALID, "invalid base URL: %v", err)
	}

	seen := make(map[string]bool)
	var links []siteask.SearchResult

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.Contains(href, "#") || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || !domain.Contains(resolved) {
			return
		}

		title := siteask.CollapseWhitespace(sel.Text())
		if title == "" {
			title = strings.TrimSpace(sel.AttrOr("title", ""))
		}
		if title == "" {
			return
		}

		if seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, siteask.SearchResult{URL: resolved, Title: title})
	})

	return links, nil
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed or if the resolved URL
// is self-referential (same as base URL after stripping fragment).
// Fragments are stripped from the resolved URL for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
