package main_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/siteask"
	main "github.com/fwojciec/siteask/cmd/siteask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}

	// Use kong.Exit to prevent os.Exit from being called during tests
	parser, err := kong.New(cli,
		kong.Writers(stdout, &bytes.Buffer{}),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range []string{"serve", "ask"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_Config(t *testing.T) {
	t.Parallel()

	t.Run("defaults match the built-in configuration", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)
		_, err = parser.Parse([]string{"ask", "What are the tuition fees?"})
		require.NoError(t, err)

		assert.Equal(t, siteask.DefaultConfig(), cli.Config())
	})

	t.Run("flags override limits", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)
		_, err = parser.Parse([]string{
			"--max-links=3", "--max-download-mb=5", "--cache-ttl=10m", "--fetch-timeout=5s",
			"ask", "What are the tuition fees?",
		})
		require.NoError(t, err)

		cfg := cli.Config()
		assert.Equal(t, 3, cfg.MaxLinks)
		assert.Equal(t, int64(5<<20), cfg.MaxDownloadBytes)
		assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
		assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
		assert.Equal(t, "final.edu.tr", cfg.Domain.Host())
	})
}
