package siteask

import (
	"context"
	"io"
)

// DocumentProcessor turns a linked PDF into a ContentSource.
type DocumentProcessor interface {
	// Process downloads the document at url into a scoped temporary
	// location, extracts its text (with OCR when the embedded text is too
	// thin) and returns the normalized result. Temporary files are removed
	// before Process returns.
	Process(ctx context.Context, url, filename string) (*ContentSource, error)
}

// Downloader copies the body of a URL to w.
type Downloader interface {
	// Download returns ETOOLARGE when the body exceeds the configured limit.
	// Partial output written before the error must be discarded by the caller.
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

// PDFText is the embedded text of a PDF.
type PDFText struct {
	Text  string
	Pages int
}

// TextExtractor reads embedded text from a PDF file.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (*PDFText, error)
}

// Rasterizer renders one PDF page into an image inside dir and returns the
// image path. Pages are numbered from 1.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath string, page int, dir string) (string, error)
}

// Recognizer runs optical character recognition over an image.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string, languages []string) (string, error)
}
