// Package poppler renders PDF pages to images with the pdftoppm tool.
package poppler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/siteask"
	"github.com/fwojciec/siteask/exec"
)

// Defaults for rendering.
const (
	DefaultBinary = "pdftoppm"
	DefaultDPI    = 200
)

// Ensure Rasterizer implements siteask.Rasterizer at compile time.
var _ siteask.Rasterizer = (*Rasterizer)(nil)

// Rasterizer renders single PDF pages to PNG files.
type Rasterizer struct {
	Runner exec.Runner
	Binary string
	DPI    int
}

// NewRasterizer creates a Rasterizer that runs pdftoppm at 200 DPI.
func NewRasterizer(runner exec.Runner) *Rasterizer {
	return &Rasterizer{
		Runner: runner,
		Binary: DefaultBinary,
		DPI:    DefaultDPI,
	}
}

// Rasterize renders page of pdfPath into dir and returns the PNG path.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath string, page int, dir string) (string, error) {
	if page < 1 {
		return "", siteask.Errorf(siteask.EINVALID, "page must be positive, got %d", page)
	}

	prefix := filepath.Join(dir, fmt.Sprintf("page-%d", page))
	n := strconv.Itoa(page)
	args := []string{
		"-r", strconv.Itoa(r.DPI),
		"-png",
		"-f", n,
		"-l", n,
		"-singlefile",
		pdfPath,
		prefix,
	}
	if _, err := r.Runner.Run(ctx, r.Binary, args...); err != nil {
		return "", err
	}

	out := prefix + ".png"
	if _, err := os.Stat(out); err != nil {
		return "", siteask.Errorf(siteask.EINTERNAL, "%s produced no image for page %d", r.Binary, page)
	}
	return out, nil
}
