package siteask

import (
	"fmt"
	"strings"
)

// FormatSources formats evidence for an answer prompt. Each source gets a
// numbered header with its title (or URL) followed by the URL and content.
// Sources are separated by blank lines.
func FormatSources(sources []*ContentSource) string {
	if len(sources) == 0 {
		return ""
	}

	parts := make([]string, 0, len(sources))
	for i, s := range sources {
		header := s.Metadata.Title
		if header == "" {
			header = s.URL
		}
		parts = append(parts, fmt.Sprintf("--- Source %d: %s ---\nURL: %s\n%s", i+1, header, s.URL, s.Content))
	}

	return strings.Join(parts, "\n\n")
}
