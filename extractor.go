package siteask

// Extractor turns a rendered HTML page into a ContentSource.
type Extractor interface {
	// Extract strips boilerplate from html, picks the main content region
	// and returns its normalized text with page metadata. It returns
	// EUNAVAILABLE when the page yields no text at all.
	Extract(html, url string) (*ContentSource, error)
}
