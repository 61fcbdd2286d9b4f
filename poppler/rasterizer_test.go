package poppler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/siteask"
	"github.com/fwojciec/siteask/poppler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	run   func(name string, args []string) error
	name  string
	args  []string
	calls int
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls++
	f.name = name
	f.args = args
	if f.run != nil {
		return nil, f.run(name, args)
	}
	return nil, nil
}

// writesImage simulates pdftoppm by creating <prefix>.png.
func writesImage(_ string, args []string) error {
	prefix := args[len(args)-1]
	return os.WriteFile(prefix+".png", []byte("png"), 0o600)
}

func TestRasterizer_Rasterize(t *testing.T) {
	t.Parallel()

	t.Run("renders a single page", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		runner := &fakeRunner{run: writesImage}

		got, err := poppler.NewRasterizer(runner).Rasterize(context.Background(), "/tmp/doc.pdf", 2, dir)

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "page-2.png"), got)
		assert.Equal(t, "pdftoppm", runner.name)
		assert.Equal(t, []string{
			"-r", "200", "-png", "-f", "2", "-l", "2", "-singlefile",
			"/tmp/doc.pdf", filepath.Join(dir, "page-2"),
		}, runner.args)
	})

	t.Run("runner failure", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{run: func(string, []string) error {
			return errors.New("exit status 1")
		}}

		_, err := poppler.NewRasterizer(runner).Rasterize(context.Background(), "/tmp/doc.pdf", 1, t.TempDir())

		assert.Error(t, err)
	})

	t.Run("missing output image", func(t *testing.T) {
		t.Parallel()

		_, err := poppler.NewRasterizer(&fakeRunner{}).Rasterize(context.Background(), "/tmp/doc.pdf", 1, t.TempDir())

		assert.Equal(t, siteask.EINTERNAL, siteask.ErrorCode(err))
	})

	t.Run("page numbers start at one", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{}

		_, err := poppler.NewRasterizer(runner).Rasterize(context.Background(), "/tmp/doc.pdf", 0, t.TempDir())

		assert.Equal(t, siteask.EINVALID, siteask.ErrorCode(err))
		assert.Zero(t, runner.calls)
	})
}
