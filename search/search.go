// Package search implements siteask.SearchBackend by rendering public search
// engine result pages in the request's browser session and reading result
// anchors with CSS selectors.
package search

import (
	"net/url"
	"strings"

	"github.com/fwojciec/siteask"
)

// Queries builds the site-restricted queries issued for a question: an
// unquoted one for broad matching and an exact-phrase one.
func Queries(domain siteask.Domain, question string) []string {
	q := siteask.CollapseWhitespace(question)
	site := "site:" + domain.Host()
	return []string{
		site + " " + q,
		site + ` "` + strings.ReplaceAll(q, `"`, "") + `"`,
	}
}

// unwrapRedirect returns the destination of an engine click-through URL such
// as "https://duckduckgo.com/l/?uddg=..." or "https://www.google.com/url?q=...".
// Other URLs are returned unchanged.
func unwrapRedirect(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "duckduckgo.com" && strings.HasPrefix(u.Path, "/l/"):
		if dest := u.Query().Get("uddg"); dest != "" {
			return dest
		}
	case strings.HasPrefix(host, "google.") && u.Path == "/url":
		if dest := u.Query().Get("q"); dest != "" {
			return dest
		}
		if dest := u.Query().Get("url"); dest != "" {
			return dest
		}
	}
	return raw
}

func unwrapAll(results []siteask.SearchResult) []siteask.SearchResult {
	for i := range results {
		results[i].URL = unwrapRedirect(results[i].URL)
	}
	return results
}
