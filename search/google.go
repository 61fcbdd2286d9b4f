package search

import (
	"context"
	"net/url"

	"github.com/fwojciec/siteask"
	"github.com/fwojciec/siteask/goquery"
)

// GoogleSelector matches result headings on a Google results page.
const GoogleSelector = "div[data-ved] a h3, .yuRUbf a h3"

var _ siteask.SearchBackend = (*Google)(nil)

// Google is the primary search backend.
type Google struct {
	// BaseURL is the search endpoint.
	BaseURL string

	// Limit caps how many leading results are read.
	Limit int
}

// NewGoogle creates a Google backend reading the first five results.
func NewGoogle() *Google {
	return &Google{BaseURL: "https://www.google.com/search", Limit: 5}
}

// Name returns "google".
func (g *Google) Name() string { return "google" }

// Search renders the results page for query and returns its result links.
func (g *Google) Search(ctx context.Context, session siteask.Fetcher, query string) ([]siteask.SearchResult, error) {
	u := g.BaseURL + "?q=" + url.QueryEscape(query) + "&num=10"

	html, err := session.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	results, err := goquery.SelectResults(html, u, GoogleSelector, g.Limit)
	if err != nil {
		return nil, err
	}
	return unwrapAll(results), nil
}
