package mock

import (
	"context"
	"io"

	"github.com/fwojciec/siteask"
)

var _ siteask.DocumentProcessor = (*DocumentProcessor)(nil)

// DocumentProcessor is a mock implementation of siteask.DocumentProcessor.
type DocumentProcessor struct {
	ProcessFn func(ctx context.Context, url, filename string) (*siteask.ContentSource, error)
}

func (p *DocumentProcessor) Process(ctx context.Context, url, filename string) (*siteask.ContentSource, error) {
	return p.ProcessFn(ctx, url, filename)
}

var _ siteask.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of siteask.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string, w io.Writer) (int64, error)
}

func (d *Downloader) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	return d.DownloadFn(ctx, url, w)
}

var _ siteask.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of siteask.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(ctx context.Context, path string) (*siteask.PDFText, error)
}

func (e *TextExtractor) ExtractText(ctx context.Context, path string) (*siteask.PDFText, error) {
	return e.ExtractTextFn(ctx, path)
}

var _ siteask.Rasterizer = (*Rasterizer)(nil)

// Rasterizer is a mock implementation of siteask.Rasterizer.
type Rasterizer struct {
	RasterizeFn func(ctx context.Context, pdfPath string, page int, dir string) (string, error)
}

func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath string, page int, dir string) (string, error) {
	return r.RasterizeFn(ctx, pdfPath, page, dir)
}

var _ siteask.Recognizer = (*Recognizer)(nil)

// Recognizer is a mock implementation of siteask.Recognizer.
type Recognizer struct {
	RecognizeFn func(ctx context.Context, imagePath string, languages []string) (string, error)
}

func (r *Recognizer) Recognize(ctx context.Context, imagePath string, languages []string) (string, error) {
	return r.RecognizeFn(ctx, imagePath, languages)
}
