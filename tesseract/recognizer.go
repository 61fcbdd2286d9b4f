// Package tesseract performs optical character recognition with the
// tesseract command-line tool.
package tesseract

import (
	"context"
	"strings"

	"github.com/fwojciec/siteask"
	"github.com/fwojciec/siteask/exec"
)

// DefaultBinary is the tesseract executable name.
const DefaultBinary = "tesseract"

// Ensure Recognizer implements siteask.Recognizer at compile time.
var _ siteask.Recognizer = (*Recognizer)(nil)

// Recognizer reads text from page images.
type Recognizer struct {
	Runner exec.Runner
	Binary string
}

// NewRecognizer creates a Recognizer backed by the tesseract binary.
func NewRecognizer(runner exec.Runner) *Recognizer {
	return &Recognizer{Runner: runner, Binary: DefaultBinary}
}

// Recognize returns the trimmed text found in imagePath. Languages are
// tesseract language codes; when empty tesseract uses its default.
func (r *Recognizer) Recognize(ctx context.Context, imagePath string, languages []string) (string, error) {
	if imagePath == "" {
		return "", siteask.Errorf(siteask.EINVALID, "image path required")
	}

	args := []string{imagePath, "stdout"}
	if len(languages) > 0 {
		args = append(args, "-l", strings.Join(languages, "+"))
	}
	out, err := r.Runner.Run(ctx, r.Binary, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
