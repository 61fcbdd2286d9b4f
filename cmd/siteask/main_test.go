package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/siteask"
	main "github.com/fwojciec/siteask/cmd/siteask"
	"github.com/fwojciec/siteask/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feesPage = `<html><head><title>Tuition Fees</title></head><body>
<nav>Home | About</nav>
<main>Annual tuition for undergraduate programs is 5000 EUR. Annual tuition for graduate programs is 6000 EUR. Dormitory fees are listed separately.</main>
</body></html>`

// newTestMain returns a Main whose browser, search engines and answerer are
// mocks, along with a pointer to the requests the answerer received.
func newTestMain(t *testing.T) (*main.Main, *[]siteask.AnswerRequest) {
	t.Helper()

	var mu sync.Mutex
	var reqs []siteask.AnswerRequest

	session := &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) {
			return feesPage, nil
		},
		CloseFn: func() error { return nil },
	}

	m := main.NewMain()
	m.Browser = &mock.Browser{
		SessionFn: func(context.Context) (siteask.Fetcher, error) { return session, nil },
		CloseFn:   func() error { return nil },
	}
	m.Backends = []siteask.SearchBackend{&mock.SearchBackend{
		NameFn: func() string { return "fake" },
		SearchFn: func(context.Context, siteask.Fetcher, string) ([]siteask.SearchResult, error) {
			return []siteask.SearchResult{{URL: "https://final.edu.tr/en/fees", Title: "Tuition Fees"}}, nil
		},
	}}
	m.Answerer = &mock.Answerer{
		AnswerFn: func(_ context.Context, req siteask.AnswerRequest) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			reqs = append(reqs, req)
			return "Undergraduate tuition is 5000 EUR per year.", nil
		},
	}
	t.Cleanup(func() { _ = m.Close() })
	return m, &reqs
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "serve")
	assert.Contains(t, stdout.String(), "ask")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	err := main.NewMain().Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_Ask(t *testing.T) {
	t.Parallel()

	t.Run("answers from domain pages", func(t *testing.T) {
		t.Parallel()

		m, reqs := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(),
			[]string{"--no-ocr", "--search-rate=100", "ask", "What are the tuition fees?"},
			stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Undergraduate tuition is 5000 EUR per year.")
		assert.Contains(t, stdout.String(), "https://final.edu.tr/en/fees")
		require.Len(t, *reqs, 1)
		req := (*reqs)[0]
		assert.Equal(t, "Final International University", req.Organization)
		require.Len(t, req.Sources, 1)
		assert.Contains(t, req.Sources[0].Content, "5000 EUR")
		assert.NotContains(t, req.Sources[0].Content, "Home | About")
	})

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(),
			[]string{"--no-ocr", "--search-rate=100", "ask", "--json", "What are the tuition fees?"},
			stdout, &bytes.Buffer{})

		require.NoError(t, err)
		var resp siteask.Response
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
		assert.Equal(t, "Undergraduate tuition is 5000 EUR per year.", resp.Answer)
		require.Len(t, resp.Sources, 1)
		assert.Equal(t, "final.edu.tr", resp.Sources[0].Domain)
		assert.False(t, resp.Cached)
	})

	t.Run("rejects off-topic questions without searching", func(t *testing.T) {
		t.Parallel()

		m, reqs := newTestMain(t)
		m.Backends = []siteask.SearchBackend{&mock.SearchBackend{
			NameFn: func() string { return "fake" },
			SearchFn: func(context.Context, siteask.Fetcher, string) ([]siteask.SearchResult, error) {
				t.Error("search must not run for rejected questions")
				return nil, nil
			},
		}}
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(),
			[]string{"--no-ocr", "ask", "What is the weather like today?"},
			stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, siteask.DefaultConfig().InvalidQuestionMessage(), strings.TrimSpace(stdout.String()))
		assert.Empty(t, *reqs)
	})

	t.Run("verbose prints progress", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestMain(t)
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(),
			[]string{"--no-ocr", "--search-rate=100", "--log-level=error", "ask", "-v", "What are the tuition fees?"},
			&bytes.Buffer{}, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "> retrieving")
		assert.Contains(t, stderr.String(), "ok   https://final.edu.tr/en/fees")
	})
}

func TestMain_Run_Serve_StopsOnCancel(t *testing.T) {
	t.Parallel()

	m, _ := newTestMain(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx, []string{"--no-ocr", "serve", "--addr=127.0.0.1:0"}, &bytes.Buffer{}, &bytes.Buffer{})

	require.NoError(t, err)
}

func TestMain_Run_InvalidFlag(t *testing.T) {
	t.Parallel()

	err := main.NewMain().Run(context.Background(),
		[]string{"--extractor=nope", "ask", "What are the tuition fees?"},
		&bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
}
