package siteask_test

import (
	"testing"

	"github.com/fwojciec/siteask"
	"github.com/stretchr/testify/assert"
)

func TestDomain_Contains(t *testing.T) {
	t.Parallel()

	d := siteask.Domain("final.edu.tr")

	tests := []struct {
		url  string
		want bool
	}{
		{"https://final.edu.tr/en/fees", true},
		{"https://www.final.edu.tr/en/fees", true},
		{"http://library.final.edu.tr/", true},
		{"https://FINAL.EDU.TR/en", true},
		{"https://notfinal.edu.tr/en", false},
		{"https://final.edu.tr.evil.com/en", false},
		{"https://example.com/?q=final.edu.tr", false},
		{"https://cdn.example.com/final.edu.tr/fees.pdf", true},
		{"https://cdn.example.com/other/fees.pdf", false},
		{"javascript:alert('final.edu.tr')", false},
		{"", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, d.Contains(tc.url), tc.url)
	}
}

func TestDomain_EmptyNeverMatches(t *testing.T) {
	t.Parallel()

	assert.False(t, siteask.Domain("").Contains("https://final.edu.tr/"))
}

func TestDomain_BaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://final.edu.tr", siteask.Domain("www.final.edu.tr").BaseURL())
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://final.edu.tr/en/fees", siteask.NormalizeURL("https://final.edu.tr/en/fees#top"))
	assert.Equal(t, "https://final.edu.tr/en/fees", siteask.NormalizeURL("https://final.edu.tr/en/fees?utm_source=google&utm_medium=cpc"))
	assert.Equal(t, "https://final.edu.tr/en/fees?page=2", siteask.NormalizeURL("https://final.edu.tr/en/fees?page=2&gclid=abc#x"))
	assert.Equal(t, "https://final.edu.tr/en", siteask.NormalizeURL("  https://final.edu.tr/en  "))
}

func TestDedupeResults(t *testing.T) {
	t.Parallel()

	in := []siteask.SearchResult{
		{URL: "https://final.edu.tr/en/fees", Title: "Fees"},
		{URL: "https://final.edu.tr/en/admissions", Title: "Admissions"},
		{URL: "https://final.edu.tr/en/fees#tuition", Title: "Fees again"},
		{URL: "https://final.edu.tr/en/admissions?utm_source=x", Title: "Admissions again"},
		{URL: "https://final.edu.tr/en/programs", Title: "Programs"},
	}

	got := siteask.DedupeResults(in)

	assert.Equal(t, []siteask.SearchResult{
		{URL: "https://final.edu.tr/en/fees", Title: "Fees"},
		{URL: "https://final.edu.tr/en/admissions", Title: "Admissions"},
		{URL: "https://final.edu.tr/en/programs", Title: "Programs"},
	}, got)
}

func TestFilterResults(t *testing.T) {
	t.Parallel()

	in := []siteask.SearchResult{
		{URL: "https://final.edu.tr/en/fees"},
		{URL: "https://example.com/fees"},
		{URL: "https://final.edu.tr/docs/catalog.pdf"},
	}

	got := siteask.FilterResults(in, siteask.Domain("final.edu.tr"))

	assert.Len(t, got, 2)
	assert.Equal(t, "https://final.edu.tr/en/fees", got[0].URL)
	assert.Equal(t, "https://final.edu.tr/docs/catalog.pdf", got[1].URL)
}
