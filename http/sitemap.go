package http

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/siteask"
)

// DefaultMaxSitemapURLs caps how many page URLs one discovery returns.
const DefaultMaxSitemapURLs = 500

// Ensure SitemapService implements siteask.SitemapService.
var _ siteask.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from website sitemaps via HTTP.
type SitemapService struct {
	client  *http.Client
	maxURLs int
}

// SitemapOption configures a SitemapService.
type SitemapOption func(*SitemapService)

// WithMaxURLs caps how many URLs DiscoverURLs returns.
func WithMaxURLs(n int) SitemapOption {
	return func(s *SitemapService) {
		s.maxURLs = n
	}
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client, opts ...SitemapOption) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapService{client: client, maxURLs: DefaultMaxSitemapURLs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverURLs finds page URLs from the sitemaps of the site at baseURL.
// Returns an empty slice (not nil) if no sitemaps are found. A child sitemap
// that cannot be fetched or parsed is skipped; only context errors and a
// broken top-level sitemap fail the call.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *siteask.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	root := *base
	root.Path = ""
	root.RawQuery = ""

	sitemapURLs, err := s.findSitemapURLs(ctx, &root)
	if err != nil {
		return nil, err
	}

	c := &collector{filter: filter, max: s.maxURLs, seen: make(map[string]bool), visited: make(map[string]bool)}
	for _, sitemapURL := range sitemapURLs {
		if c.full() {
			break
		}
		if err := s.processSitemap(ctx, sitemapURL, c); err != nil {
			return nil, err
		}
	}

	if c.urls == nil {
		return []string{}, nil
	}
	return c.urls, nil
}

// collector accumulates unique, filtered URLs up to max.
type collector struct {
	filter  *siteask.URLFilter
	max     int
	seen    map[string]bool
	visited map[string]bool
	urls    []string
}

func (c *collector) add(u string) {
	if c.full() || c.seen[u] || !isHTTP(u) || !c.filter.Match(u) {
		return
	}
	c.seen[u] = true
	c.urls = append(c.urls, u)
}

func (c *collector) full() bool {
	return c.max > 0 && len(c.urls) >= c.max
}

// findSitemapURLs discovers sitemap URLs from robots.txt or falls back to /sitemap.xml.
func (s *SitemapService) findSitemapURLs(ctx context.Context, base *url.URL) ([]string, error) {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.parseSitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	sitemapURL := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	resp, err := head(ctx, s.client, sitemapURL.String())
	if err != nil {
		// Propagate context errors, treat other errors as "not found"
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if resp.StatusCode == http.StatusOK {
		return []string{sitemapURL.String()}, nil
	}

	return nil, nil
}

// parseSitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapService) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := get(ctx, s.client, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			sitemapURL := strings.TrimSpace(line[len("sitemap:"):])
			if sitemapURL != "" {
				sitemaps = append(sitemaps, sitemapURL)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}

	return sitemaps, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and
// sitemapindex documents.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, c *collector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.visited[sitemapURL] {
		return nil
	}
	c.visited[sitemapURL] = true

	body, err := get(ctx, s.client, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return fmt.Errorf("parsing sitemap XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return fmt.Errorf("empty sitemap XML")
	}

	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, root, c)
	}

	for _, urlEl := range root.SelectElements("url") {
		if loc := urlEl.SelectElement("loc"); loc != nil {
			c.add(strings.TrimSpace(loc.Text()))
		}
	}
	return nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (s *SitemapService) processSitemapIndex(ctx context.Context, root *etree.Element, c *collector) error {
	for _, sitemap := range root.SelectElements("sitemap") {
		if c.full() {
			return nil
		}
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" {
			continue
		}

		if err := s.processSitemap(ctx, sitemapURL, c); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
	}
	return nil
}

func isHTTP(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}
