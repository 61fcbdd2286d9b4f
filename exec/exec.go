// Package exec runs external command-line tools such as pdftoppm and
// tesseract.
package exec

import (
	"bytes"
	"context"
	"errors"
	osexec "os/exec"
	"strings"

	"github.com/fwojciec/siteask"
)

// Runner executes a named program and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Ensure CommandRunner implements Runner at compile time.
var _ Runner = (*CommandRunner)(nil)

// CommandRunner runs programs with os/exec.
type CommandRunner struct{}

// Run executes name with args. A non-zero exit status is reported with the
// program's trimmed standard error.
func (r *CommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, osexec.ErrNotFound) {
			return nil, siteask.Errorf(siteask.EUNAVAILABLE, "%s is not installed", name)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, siteask.Errorf(siteask.EINTERNAL, "%s: %s", name, msg)
	}
	return stdout.Bytes(), nil
}

// CheckAvailable reports whether every named program is on PATH.
func CheckAvailable(names ...string) error {
	for _, name := range names {
		if _, err := osexec.LookPath(name); err != nil {
			return siteask.Errorf(siteask.EUNAVAILABLE, "%s is not installed", name)
		}
	}
	return nil
}
