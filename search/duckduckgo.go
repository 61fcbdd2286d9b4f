package search

import (
	"context"
	"net/url"

	"github.com/fwojciec/siteask"
	"github.com/fwojciec/siteask/goquery"
)

// DuckDuckGoSelector matches result anchors on both the JavaScript and the
// HTML-only DuckDuckGo layouts.
const DuckDuckGoSelector = `a[data-testid="result-title-a"], a.result__a`

var _ siteask.SearchBackend = (*DuckDuckGo)(nil)

// DuckDuckGo is the secondary search backend.
type DuckDuckGo struct {
	BaseURL string
	Limit   int
}

// NewDuckDuckGo creates a DuckDuckGo backend reading the first three results.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{BaseURL: "https://duckduckgo.com/", Limit: 3}
}

// Name returns "duckduckgo".
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search renders the results page for query and returns its result links
// with click-through redirects decoded.
func (d *DuckDuckGo) Search(ctx context.Context, session siteask.Fetcher, query string) ([]siteask.SearchResult, error) {
	u := d.BaseURL + "?q=" + url.QueryEscape(query)

	html, err := session.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	results, err := goquery.SelectResults(html, u, DuckDuckGoSelector, d.Limit)
	if err != nil {
		return nil, err
	}
	return unwrapAll(results), nil
}
