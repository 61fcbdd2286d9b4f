// Package pdf reads embedded text from PDF files using ledongthuc/pdf.
package pdf

import (
	"context"
	"strings"

	"github.com/fwojciec/siteask"
	"github.com/ledongthuc/pdf"
)

// Ensure TextExtractor implements siteask.TextExtractor at compile time.
var _ siteask.TextExtractor = (*TextExtractor)(nil)

// TextExtractor extracts the text layer of a PDF page by page.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText returns the text of every readable page joined by blank lines,
// together with the document's page count. Unreadable pages are skipped.
// Scanned documents yield a page count with little or no text.
func (e *TextExtractor) ExtractText(ctx context.Context, path string) (result *siteask.PDFText, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, siteask.Errorf(siteask.EINVALID, "malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, siteask.Errorf(siteask.EINVALID, "open pdf: %v", err)
	}
	defer f.Close()

	var text strings.Builder
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)
	}

	return &siteask.PDFText{Text: text.String(), Pages: pages}, nil
}
