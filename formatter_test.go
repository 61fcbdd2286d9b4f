package siteask_test

import (
	"testing"

	"github.com/fwojciec/siteask"
	"github.com/stretchr/testify/assert"
)

func TestFormatSources(t *testing.T) {
	t.Parallel()

	t.Run("formats single source with title", func(t *testing.T) {
		t.Parallel()

		sources := []*siteask.ContentSource{
			{URL: "https://final.edu.tr/en/fees", Content: "Tuition is listed per semester.", Metadata: siteask.Metadata{Title: "Fees"}},
		}

		result := siteask.FormatSources(sources)

		expected := "--- Source 1: Fees ---\nURL: https://final.edu.tr/en/fees\nTuition is listed per semester."
		assert.Equal(t, expected, result)
	})

	t.Run("uses URL when title is empty", func(t *testing.T) {
		t.Parallel()

		sources := []*siteask.ContentSource{
			{URL: "https://final.edu.tr/en", Content: "Welcome."},
		}

		result := siteask.FormatSources(sources)

		assert.Equal(t, "--- Source 1: https://final.edu.tr/en ---\nURL: https://final.edu.tr/en\nWelcome.", result)
	})

	t.Run("numbers multiple sources with blank line separator", func(t *testing.T) {
		t.Parallel()

		sources := []*siteask.ContentSource{
			{URL: "https://final.edu.tr/a", Content: "A", Metadata: siteask.Metadata{Title: "First"}},
			{URL: "https://final.edu.tr/b", Content: "B", Metadata: siteask.Metadata{Title: "Second"}},
		}

		result := siteask.FormatSources(sources)

		expected := "--- Source 1: First ---\nURL: https://final.edu.tr/a\nA\n\n--- Source 2: Second ---\nURL: https://final.edu.tr/b\nB"
		assert.Equal(t, expected, result)
	})

	t.Run("returns empty string for no sources", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, siteask.FormatSources(nil))
	})
}
