package pdf_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/siteask"
	"github.com/fwojciec/siteask/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextExtractor_ExtractText(t *testing.T) {
	t.Parallel()

	t.Run("reads embedded text", func(t *testing.T) {
		t.Parallel()

		got, err := pdf.NewTextExtractor().ExtractText(context.Background(), filepath.Join("testdata", "text.pdf"))

		require.NoError(t, err)
		assert.Equal(t, 1, got.Pages)
		assert.Contains(t, got.Text, "Final International University tuition fees")
	})

	t.Run("scanned document has pages but no text", func(t *testing.T) {
		t.Parallel()

		got, err := pdf.NewTextExtractor().ExtractText(context.Background(), filepath.Join("testdata", "scanned.pdf"))

		require.NoError(t, err)
		assert.Equal(t, 2, got.Pages)
		assert.Empty(t, got.Text)
	})

	t.Run("missing file is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := pdf.NewTextExtractor().ExtractText(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

		assert.Equal(t, siteask.EINVALID, siteask.ErrorCode(err))
	})

	t.Run("non-PDF content is invalid", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.pdf")
		require.NoError(t, os.WriteFile(path, []byte("<html>not a pdf</html>"), 0o600))

		_, err := pdf.NewTextExtractor().ExtractText(context.Background(), path)

		assert.Equal(t, siteask.EINVALID, siteask.ErrorCode(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pdf.NewTextExtractor().ExtractText(ctx, filepath.Join("testdata", "text.pdf"))

		assert.ErrorIs(t, err, context.Canceled)
	})
}
