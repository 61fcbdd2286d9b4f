// Package document turns linked PDF files into evidence text. The embedded
// text layer is used when it is rich enough; otherwise the leading pages are
// rendered and run through OCR.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/siteask"
)

// Defaults mirror siteask.DefaultConfig.
const (
	DefaultMaxContentLength = 8000
	DefaultMinTextLength    = 100
	DefaultOCRPages         = 3
)

// Ensure Processor implements siteask.DocumentProcessor at compile time.
var _ siteask.DocumentProcessor = (*Processor)(nil)

// Processor implements siteask.DocumentProcessor.
type Processor struct {
	Downloader siteask.Downloader
	Text       siteask.TextExtractor

	// Rasterizer and Recognizer enable OCR. When either is nil documents
	// without a usable text layer keep whatever text they have.
	Rasterizer siteask.Rasterizer
	Recognizer siteask.Recognizer

	MaxContentLength int
	MinTextLength    int
	OCRPages         int
	OCRLanguages     []string

	// TempDir is the parent of the per-document scratch directory.
	// Empty means os.TempDir().
	TempDir string

	Logger *slog.Logger
	Now    func() time.Time
}

// NewProcessor creates a Processor configured from cfg.
func NewProcessor(cfg siteask.Config, downloader siteask.Downloader, text siteask.TextExtractor) *Processor {
	return &Processor{
		Downloader:       downloader,
		Text:             text,
		MaxContentLength: cfg.MaxContentLength,
		MinTextLength:    cfg.MinPDFTextLength,
		OCRPages:         cfg.OCRPages,
		OCRLanguages:     cfg.OCRLanguages,
	}
}

// Process downloads url into a scratch directory and extracts its text.
// The scratch directory is removed on every path out of Process.
func (p *Processor) Process(ctx context.Context, url, filename string) (_ *siteask.ContentSource, err error) {
	dir, err := os.MkdirTemp(p.TempDir, "siteask-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			p.logger().Warn("scratch cleanup failed", "dir", dir, "err", rmErr)
		}
	}()

	// The remote filename is only used as a title; the local name is fixed.
	pdfPath := filepath.Join(dir, "document.pdf")
	if err := p.download(ctx, url, pdfPath); err != nil {
		return nil, err
	}

	extracted, err := p.Text.ExtractText(ctx, pdfPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger().Warn("pdf text extraction failed", "url", url, "err", err)
		extracted = &siteask.PDFText{}
	}

	text := extracted.Text
	if len([]rune(strings.TrimSpace(text))) < p.minTextLength() && p.ocrEnabled() {
		ocr, err := p.ocr(ctx, pdfPath, dir, extracted.Pages)
		if err != nil {
			return nil, err
		}
		if ocr != "" {
			text = ocr
		}
	}

	content := siteask.Truncate(strings.TrimSpace(text), p.maxContentLength())
	if content == "" {
		return nil, siteask.Errorf(siteask.EUNAVAILABLE, "no text in %s", url)
	}

	return &siteask.ContentSource{
		URL:     url,
		Content: content,
		Metadata: siteask.Metadata{
			Title:     filename,
			PageCount: extracted.Pages,
			Type:      siteask.KindDocument.String(),
		},
		Timestamp: p.now(),
	}, nil
}

func (p *Processor) download(ctx context.Context, url, path string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	if _, err := p.Downloader.Download(ctx, url, f); err != nil {
		return err
	}
	return nil
}

// ocr recognizes up to OCRPages leading pages. A page that fails to render
// or recognize is skipped. When the page count is unknown the full OCR page
// budget is attempted.
func (p *Processor) ocr(ctx context.Context, pdfPath, dir string, pages int) (string, error) {
	limit := p.ocrPages()
	if pages > 0 && pages < limit {
		limit = pages
	}

	var b strings.Builder
	for i := 1; i <= limit; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := p.ocrPage(ctx, pdfPath, dir, i)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			p.logger().Warn("ocr failed", "page", i, "err", err)
			continue
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s", i, text)
	}
	return b.String(), nil
}

func (p *Processor) ocrPage(ctx context.Context, pdfPath, dir string, page int) (string, error) {
	img, err := p.Rasterizer.Rasterize(ctx, pdfPath, page, dir)
	if err != nil {
		return "", err
	}
	defer os.Remove(img)

	return p.Recognizer.Recognize(ctx, img, p.OCRLanguages)
}

func (p *Processor) ocrEnabled() bool {
	return p.Rasterizer != nil && p.Recognizer != nil
}

func (p *Processor) minTextLength() int {
	if p.MinTextLength <= 0 {
		return DefaultMinTextLength
	}
	return p.MinTextLength
}

func (p *Processor) ocrPages() int {
	if p.OCRPages <= 0 {
		return DefaultOCRPages
	}
	return p.OCRPages
}

func (p *Processor) maxContentLength() int {
	if p.MaxContentLength <= 0 {
		return DefaultMaxContentLength
	}
	return p.MaxContentLength
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Processor) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
