package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteask"
)

// SelectResults reads search-result entries from a rendered results page.
// Each element matched by selector is one entry: its title is the element
// text and its URL the href of the closest enclosing (or same) anchor,
// resolved against baseURL. Only the first limit matches are considered,
// in document order; a limit of zero or less means no limit.
//
// It returns ENOTFOUND when selector matches nothing, which means the page
// layout is not the one expected (or a consent/captcha page was served).
func SelectResults(html, baseURL, selector string, limit int) ([]siteask.SearchResult, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, siteask.Errorf(siteask.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, siteask.Errorf(siteask.EINVALID, "failed to parse HTML: %v", err)
	}

	matches := doc.Find(selector)
	if matches.Length() == 0 {
		return nil, siteask.Errorf(siteask.ENOTFOUND, "no elements match %q", selector)
	}
	if limit > 0 && matches.Length() > limit {
		matches = matches.Slice(0, limit)
	}

	var results []siteask.SearchResult
	matches.Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Closest("a[href]").Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		results = append(results, siteask.SearchResult{
			URL:   base.ResolveReference(ref).String(),
			Title: siteask.CollapseWhitespace(sel.Text()),
		})
	})

	return results, nil
}
