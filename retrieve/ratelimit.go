package retrieve

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/siteask"
	"golang.org/x/time/rate"
)

var _ siteask.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces requests per host using token buckets. Search engines
// and the crawled domain each get their own bucket, so concurrent questions
// share one request budget per host.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a new DomainLimiter allowing rps requests per
// second to each host, with a burst of 1.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until a request to domain is allowed. Host names are compared
// case-insensitively. Returns an error if the context is canceled first.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	domain = strings.ToLower(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
