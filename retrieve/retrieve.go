// Package retrieve finds candidate evidence links for a question. It asks
// search backends first and crawls the domain's seed pages when search comes
// back empty.
package retrieve

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/siteask"
	"github.com/fwojciec/siteask/search"
)

var _ siteask.Retriever = (*Retriever)(nil)

// Retriever implements siteask.Retriever.
type Retriever struct {
	Domain siteask.Domain

	// Backends are tried in order for every query until one succeeds.
	Backends []siteask.SearchBackend

	// Harvester and SeedPaths drive the crawl fallback.
	Harvester siteask.LinkHarvester
	SeedPaths []string

	// Sitemaps, when set, extends the crawl fallback with sitemap URLs.
	Sitemaps      siteask.SitemapService
	SitemapFilter *siteask.URLFilter

	// Limiter, when set, paces requests per host.
	Limiter siteask.DomainLimiter

	MaxLinks int
	Logger   *slog.Logger
}

// Retrieve returns up to MaxLinks deduplicated in-domain links, in the order
// they were found. It returns ENOTFOUND when search and crawl both come back
// empty.
func (r *Retriever) Retrieve(ctx context.Context, session siteask.Fetcher, question string) ([]siteask.SearchResult, error) {
	results, err := r.search(ctx, session, question)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		r.logger().Info("search empty, crawling", "domain", r.Domain.Host())
		results, err = r.crawl(ctx, session)
		if err != nil {
			return nil, err
		}
	}

	if len(results) == 0 {
		return nil, siteask.Errorf(siteask.ENOTFOUND, "no links found on %s", r.Domain.Host())
	}
	return results, nil
}

// search runs every query through the backends. A backend error falls
// through to the next backend; a query for which every backend fails is
// skipped. Only context cancellation aborts.
func (r *Retriever) search(ctx context.Context, session siteask.Fetcher, question string) ([]siteask.SearchResult, error) {
	var found []siteask.SearchResult

	for _, query := range search.Queries(r.Domain, question) {
		for _, backend := range r.Backends {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := r.wait(ctx, backend.Name()); err != nil {
				return nil, err
			}

			results, err := backend.Search(ctx, session, query)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				r.logger().Warn("search failed", "backend", backend.Name(), "query", query, "err", err)
				continue
			}
			found = append(found, results...)
			break
		}
	}

	return r.finish(found), nil
}

// crawl visits the seed pages and collects their links followed by the seed
// page itself. It stops early once enough distinct links are known, since
// later pages cannot change the leading MaxLinks.
func (r *Retriever) crawl(ctx context.Context, session siteask.Fetcher) ([]siteask.SearchResult, error) {
	var found []siteask.SearchResult
	base := r.Domain.BaseURL()

	for _, seed := range r.SeedPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.enough(found) {
			return r.finish(found), nil
		}

		pageURL := seedURL(base, seed)
		if err := r.wait(ctx, r.Domain.Host()); err != nil {
			return nil, err
		}

		html, err := session.Fetch(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger().Warn("crawl failed", "url", pageURL, "err", err)
			continue
		}

		h, err := r.Harvester.Harvest(html, pageURL, r.Domain)
		if err != nil {
			r.logger().Warn("harvest failed", "url", pageURL, "err", err)
			continue
		}
		found = append(found, h.Links...)
		found = append(found, siteask.SearchResult{URL: pageURL, Title: h.Title})
	}

	if r.Sitemaps != nil && !r.enough(found) {
		urls, err := r.Sitemaps.DiscoverURLs(ctx, base, r.SitemapFilter)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger().Warn("sitemap discovery failed", "url", base, "err", err)
		}
		for _, u := range urls {
			found = append(found, siteask.SearchResult{URL: u})
		}
	}

	return r.finish(found), nil
}

func (r *Retriever) finish(results []siteask.SearchResult) []siteask.SearchResult {
	out := siteask.DedupeResults(siteask.FilterResults(results, r.Domain))
	if r.MaxLinks > 0 && len(out) > r.MaxLinks {
		out = out[:r.MaxLinks]
	}
	return out
}

func (r *Retriever) enough(results []siteask.SearchResult) bool {
	return r.MaxLinks > 0 && len(r.finish(results)) >= r.MaxLinks
}

func (r *Retriever) wait(ctx context.Context, host string) error {
	if r.Limiter == nil {
		return nil
	}
	return r.Limiter.Wait(ctx, host)
}

func (r *Retriever) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// seedURL joins a seed path onto the domain root. Absolute seeds are used
// as given.
func seedURL(base, seed string) string {
	if u, err := url.Parse(seed); err == nil && u.IsAbs() {
		return seed
	}
	if seed == "" || seed == "/" {
		return base
	}
	return base + "/" + strings.TrimPrefix(seed, "/")
}
