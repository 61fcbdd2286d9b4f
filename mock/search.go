package mock

import (
	"context"

	"github.com/fwojciec/siteask"
)

var _ siteask.SearchBackend = (*SearchBackend)(nil)

// SearchBackend is a mock implementation of siteask.SearchBackend.
type SearchBackend struct {
	NameFn   func() string
	SearchFn func(ctx context.Context, session siteask.Fetcher, query string) ([]siteask.SearchResult, error)
}

func (b *SearchBackend) Name() string {
	return b.NameFn()
}

func (b *SearchBackend) Search(ctx context.Context, session siteask.Fetcher, query string) ([]siteask.SearchResult, error) {
	return b.SearchFn(ctx, session, query)
}

var _ siteask.LinkHarvester = (*LinkHarvester)(nil)

// LinkHarvester is a mock implementation of siteask.LinkHarvester.
type LinkHarvester struct {
	HarvestFn func(html, pageURL string, domain siteask.Domain) (*siteask.Harvest, error)
}

func (h *LinkHarvester) Harvest(html, pageURL string, domain siteask.Domain) (*siteask.Harvest, error) {
	return h.HarvestFn(html, pageURL, domain)
}

var _ siteask.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of siteask.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, session siteask.Fetcher, question string) ([]siteask.SearchResult, error)
}

func (r *Retriever) Retrieve(ctx context.Context, session siteask.Fetcher, question string) ([]siteask.SearchResult, error) {
	return r.RetrieveFn(ctx, session, question)
}

var _ siteask.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of siteask.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ siteask.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of siteask.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *siteask.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *siteask.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
