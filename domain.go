package siteask

import (
	"net/url"
	"strings"
)

// Domain is the restricted web domain all evidence must come from
// (e.g., "final.edu.tr").
type Domain string

// Host returns the domain lower-cased without a leading "www.".
func (d Domain) Host() string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(string(d))), "www.")
}

// BaseURL returns the https root URL of the domain.
func (d Domain) BaseURL() string {
	return "https://" + d.Host()
}

// Contains reports whether rawURL belongs to the domain. The URL host must be
// the domain itself or one of its subdomains. A PDF URL is also accepted when
// its literal string mentions the domain, which covers documents served
// through redirecting paths on other hosts.
func (d Domain) Contains(rawURL string) bool {
	host := d.Host()
	if host == "" {
		return false
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	h := strings.ToLower(u.Hostname())
	if h == host || strings.HasSuffix(h, "."+host) {
		return true
	}

	return ClassifyURL(rawURL) == KindDocument &&
		strings.Contains(strings.ToLower(rawURL), host)
}

// trackingParams are query parameters that never change page content.
var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"mc_cid": true,
	"mc_eid": true,
	"_ga":    true,
}

// NormalizeURL strips the fragment and tracking query parameters from rawURL
// so that links differing only by those parts compare equal.
// Unparseable input is returned trimmed but otherwise unchanged.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if trackingParams[strings.ToLower(key)] || strings.HasPrefix(strings.ToLower(key), "utm_") {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// DedupeResults returns results with duplicate URLs removed. URLs are compared
// after normalization; the first occurrence wins and order is preserved.
// Returned results carry the normalized URL.
func DedupeResults(results []SearchResult) []SearchResult {
	seen := make(map[string]bool, len(results))
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		key := NormalizeURL(r.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		r.URL = key
		out = append(out, r)
	}
	return out
}

// FilterResults keeps only results whose URL belongs to the domain.
func FilterResults(results []SearchResult, d Domain) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if d.Contains(r.URL) {
			out = append(out, r)
		}
	}
	return out
}
