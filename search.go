package siteask

import (
	"context"
	"regexp"
)

// SearchResult is a candidate link produced by a search backend or the crawl
// fallback.
type SearchResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// SearchBackend runs one query against a public web search engine through the
// request's rendering session.
type SearchBackend interface {
	// Name identifies the backend in logs.
	Name() string

	// Search returns results in engine relevance order. An error is returned
	// when the results page could not be loaded or contained no results, so
	// that callers can fall through to the next backend.
	Search(ctx context.Context, session Fetcher, query string) ([]SearchResult, error)
}

// Harvest is the link set read from one crawled page.
type Harvest struct {
	Title string
	Links []SearchResult
}

// LinkHarvester reads in-domain links from a rendered page.
type LinkHarvester interface {
	Harvest(html, pageURL string, domain Domain) (*Harvest, error)
}

// Retriever produces the deduplicated, domain-restricted candidate links for a
// question.
type Retriever interface {
	// Retrieve returns ENOTFOUND when neither search nor crawling yields a link.
	Retrieve(ctx context.Context, session Fetcher, question string) ([]SearchResult, error)
}

// DomainLimiter paces requests per host.
type DomainLimiter interface {
	Wait(ctx context.Context, domain string) error
}

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds all URLs from a site's sitemap.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml. Sitemap indexes are resolved recursively.
	//
	// If filter is nil, all URLs are returned.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}
