package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/siteask"
	"github.com/fwojciec/siteask/lru"
	"github.com/fwojciec/siteask/mock"
	"github.com/fwojciec/siteask/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	feesURL     = "https://final.edu.tr/en/fees"
	brochureURL = "https://final.edu.tr/docs/fees-2024.pdf"
	foreignURL  = "https://example.com/fees"
)

var feesText = strings.Repeat("Annual tuition for undergraduate programs is 5000 EUR. ", 3)

// fixture wires a Pipeline to mocks that record how they were used.
type fixture struct {
	mu            sync.Mutex
	sessions      int
	closed        int
	fetched       []string
	processed     []string
	answerReqs    []siteask.AnswerRequest
	retrieveCalls int

	browser   *mock.Browser
	session   *mock.Fetcher
	retriever *mock.Retriever
	extractor *mock.Extractor
	documents *mock.DocumentProcessor
	answerer  *mock.Answerer
	pipeline  *pipeline.Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	f.session = &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.fetched = append(f.fetched, url)
			return "<html><main>" + feesText + "</main></html>", nil
		},
		CloseFn: func() error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.closed++
			return nil
		},
	}
	f.browser = &mock.Browser{
		SessionFn: func(context.Context) (siteask.Fetcher, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.sessions++
			return f.session, nil
		},
	}
	f.retriever = &mock.Retriever{
		RetrieveFn: func(context.Context, siteask.Fetcher, string) ([]siteask.SearchResult, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.retrieveCalls++
			return []siteask.SearchResult{
				{URL: feesURL, Title: "Fees"},
				{URL: foreignURL, Title: "Elsewhere"},
				{URL: brochureURL, Title: "Brochure"},
			}, nil
		},
	}
	f.extractor = &mock.Extractor{
		ExtractFn: func(_ string, url string) (*siteask.ContentSource, error) {
			return &siteask.ContentSource{
				URL:      url,
				Content:  feesText,
				Metadata: siteask.Metadata{Title: "Tuition Fees", Type: "webpage"},
			}, nil
		},
	}
	f.documents = &mock.DocumentProcessor{
		ProcessFn: func(_ context.Context, url, filename string) (*siteask.ContentSource, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.processed = append(f.processed, url)
			return &siteask.ContentSource{
				URL:      url,
				Content:  "--- Page 1 ---\n" + feesText,
				Metadata: siteask.Metadata{Title: filename, PageCount: 2, Type: "PDF"},
			}, nil
		},
	}
	f.answerer = &mock.Answerer{
		AnswerFn: func(_ context.Context, req siteask.AnswerRequest) (string, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.answerReqs = append(f.answerReqs, req)
			return "  Annual tuition is 5000 EUR.\n", nil
		},
	}

	start := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	calls := 0
	f.pipeline = &pipeline.Pipeline{
		Config:    siteask.DefaultConfig(),
		Cache:     lru.NewCache(0, time.Hour),
		Browser:   f.browser,
		Retriever: f.retriever,
		Extractor: f.extractor,
		Documents: f.documents,
		Answerer:  f.answerer,
		Logger:    slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		// Each request reads the clock twice: at the start and when responding.
		Now: func() time.Time {
			calls++
			if calls%2 == 1 {
				return start
			}
			return start.Add(1500 * time.Millisecond)
		},
	}
	return f
}

func TestPipeline_Ask_AnswersFromDomainSources(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	resp, err := f.pipeline.Ask(context.Background(), "What are the tuition fees?")

	require.NoError(t, err)
	assert.Equal(t, "Annual tuition is 5000 EUR.", resp.Answer)
	assert.Equal(t, []siteask.SourceRef{
		{Title: "Tuition Fees", URL: feesURL, Type: "webpage", Domain: "final.edu.tr"},
		{Title: "fees-2024.pdf", URL: brochureURL, Type: "PDF", Domain: "final.edu.tr"},
	}, resp.Sources)
	assert.Equal(t, int64(1500), resp.ProcessingTime)
	assert.False(t, resp.Cached)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "Information extracted exclusively from final.edu.tr", resp.SourceRestriction)

	assert.Equal(t, []string{feesURL}, f.fetched)
	assert.Equal(t, []string{brochureURL}, f.processed)
	assert.Equal(t, 1, f.closed)

	require.Len(t, f.answerReqs, 1)
	req := f.answerReqs[0]
	assert.Equal(t, "What are the tuition fees?", req.Question)
	assert.Equal(t, "en", req.Language)
	assert.Equal(t, "Final International University", req.Organization)
	assert.Len(t, req.Sources, 2)
}

func TestPipeline_Ask_DetectsLocalLanguage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.pipeline.Ask(context.Background(), "Final Üniversitesi öğrenci yurdu ücreti nedir?")

	require.NoError(t, err)
	require.Len(t, f.answerReqs, 1)
	assert.Equal(t, "tr", f.answerReqs[0].Language)
}

func TestPipeline_Ask_RejectsInvalidQuestion(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.browser.SessionFn = func(context.Context) (siteask.Fetcher, error) {
		t.Error("unexpected session")
		return nil, errors.New("unexpected")
	}

	for _, question := range []string{"", "hi", "What is the weather like today?"} {
		resp, err := f.pipeline.Ask(context.Background(), question)

		require.NoError(t, err)
		assert.Contains(t, resp.Answer, "Please ask a question related to Final International University")
		assert.Nil(t, resp.Sources)
		assert.False(t, resp.Cached)
	}
	assert.Zero(t, f.retrieveCalls)
}

func TestPipeline_Ask_ServesRepeatQuestionsFromCache(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	first, err := f.pipeline.Ask(context.Background(), "What are the tuition fees?")
	require.NoError(t, err)

	second, err := f.pipeline.Ask(context.Background(), "  what are the TUITION fees? ")
	require.NoError(t, err)

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Sources, second.Sources)
	assert.Equal(t, 1, f.sessions)
	assert.Equal(t, 1, f.retrieveCalls)
	assert.Len(t, f.answerReqs, 1)
}

func TestPipeline_Ask_NoLinks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.retriever.RetrieveFn = func(context.Context, siteask.Fetcher, string) ([]siteask.SearchResult, error) {
		return nil, siteask.Errorf(siteask.ENOTFOUND, "no links found on final.edu.tr")
	}

	resp, err := f.pipeline.Ask(context.Background(), "When does the library open?")

	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "couldn't find specific information")
	assert.Contains(t, resp.Answer, "info@final.edu.tr")
	assert.Nil(t, resp.Sources)
	assert.Equal(t, 1, f.closed)
	assert.Empty(t, f.answerReqs)
}

func TestPipeline_Ask_NoUsableContent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.extractor.ExtractFn = func(_ string, url string) (*siteask.ContentSource, error) {
		return &siteask.ContentSource{URL: url, Content: "Menu Home Contact"}, nil
	}
	f.documents.ProcessFn = func(context.Context, string, string) (*siteask.ContentSource, error) {
		return nil, siteask.Errorf(siteask.ETOOLARGE, "document exceeds limit")
	}

	resp, err := f.pipeline.Ask(context.Background(), "What are the tuition fees?")

	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "couldn't extract meaningful content")
	assert.Nil(t, resp.Sources)
	assert.Empty(t, f.answerReqs)

	_, ok := f.pipeline.Cache.Get(siteask.CacheKey("What are the tuition fees?"))
	assert.False(t, ok)
}

func TestPipeline_Ask_IsolatesPerLinkFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.retriever.RetrieveFn = func(context.Context, siteask.Fetcher, string) ([]siteask.SearchResult, error) {
		return []siteask.SearchResult{
			{URL: "https://final.edu.tr/en/timeout"},
			{URL: "https://final.edu.tr/en/empty"},
			{URL: feesURL},
		}, nil
	}
	f.session.FetchFn = func(_ context.Context, url string) (string, error) {
		if strings.HasSuffix(url, "/timeout") {
			return "", siteask.Errorf(siteask.EUNAVAILABLE, "navigation timed out")
		}
		return "<html></html>", nil
	}
	f.extractor.ExtractFn = func(_ string, url string) (*siteask.ContentSource, error) {
		if strings.HasSuffix(url, "/empty") {
			return nil, siteask.Errorf(siteask.EUNAVAILABLE, "no text content at %s", url)
		}
		return &siteask.ContentSource{URL: url, Content: feesText, Metadata: siteask.Metadata{Type: "webpage"}}, nil
	}

	resp, err := f.pipeline.Ask(context.Background(), "What are the tuition fees?")

	require.NoError(t, err)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, feesURL, resp.Sources[0].URL)
	assert.Equal(t, "fees", resp.Sources[0].Title)
}

func TestPipeline_Ask_NeverExtractsOutOfDomainLinks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.retriever.RetrieveFn = func(context.Context, siteask.Fetcher, string) ([]siteask.SearchResult, error) {
		return []siteask.SearchResult{
			{URL: foreignURL},
			{URL: "https://final.edu.tr.evil.com/fees"},
			{URL: feesURL},
		}, nil
	}

	resp, err := f.pipeline.Ask(context.Background(), "What are the tuition fees?")

	require.NoError(t, err)
	assert.Equal(t, []string{feesURL}, f.fetched)
	for _, src := range resp.Sources {
		assert.True(t, siteask.Domain("final.edu.tr").Contains(src.URL), src.URL)
	}
}

func TestPipeline_Ask_AnswerFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.answerer.AnswerFn = func(context.Context, siteask.AnswerRequest) (string, error) {
		return "", siteask.Errorf(siteask.EINTERNAL, "ollama returned 500: model crashed")
	}

	resp, err := f.pipeline.Ask(context.Background(), "What are the tuition fees?")

	require.Error(t, err)
	assert.Equal(t, siteask.EINTERNAL, siteask.ErrorCode(err))
	assert.Contains(t, resp.Answer, "encountered an error")
	assert.Equal(t, "ollama returned 500: model crashed", resp.Error)
	assert.Nil(t, resp.Sources)
	assert.Equal(t, 1, f.closed)

	_, ok := f.pipeline.Cache.Get(siteask.CacheKey("What are the tuition fees?"))
	assert.False(t, ok)
}

func TestPipeline_Ask_SessionFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.browser.SessionFn = func(context.Context) (siteask.Fetcher, error) {
		return nil, errors.New("chrome failed to start")
	}

	resp, err := f.pipeline.Ask(context.Background(), "What are the tuition fees?")

	require.Error(t, err)
	assert.Equal(t, "chrome failed to start", resp.Error)
	assert.Zero(t, f.retrieveCalls)
}

func TestPipeline_Ask_ClosesSessionOnCancellation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.session.FetchFn = func(context.Context, string) (string, error) {
		cancel()
		return "", context.Canceled
	}

	_, err := f.pipeline.Ask(ctx, "What are the tuition fees?")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.closed)
	assert.Empty(t, f.processed)
	assert.Empty(t, f.answerReqs)
}

func TestPipeline_Ask_UsesClassifier(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.retriever.RetrieveFn = func(context.Context, siteask.Fetcher, string) ([]siteask.SearchResult, error) {
		return []siteask.SearchResult{{URL: "https://final.edu.tr/download?id=42"}}, nil
	}
	f.pipeline.Classifier = &mock.Classifier{
		ClassifyFn: func(context.Context, string) siteask.SourceKind { return siteask.KindDocument },
	}

	resp, err := f.pipeline.Ask(context.Background(), "What are the tuition fees?")

	require.NoError(t, err)
	assert.Equal(t, []string{"https://final.edu.tr/download?id=42"}, f.processed)
	assert.Empty(t, f.fetched)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "PDF", resp.Sources[0].Type)
}

func TestPipeline_Ask_ReportsProgress(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var stages []pipeline.Stage
	var failed []string
	f.pipeline.Progress = func(e pipeline.ProgressEvent) {
		if e.URL == "" {
			stages = append(stages, e.Stage)
		}
		if e.Err != nil {
			failed = append(failed, e.URL)
		}
	}
	f.documents.ProcessFn = func(context.Context, string, string) (*siteask.ContentSource, error) {
		return nil, errors.New("download failed")
	}

	_, err := f.pipeline.Ask(context.Background(), "What are the tuition fees?")

	require.NoError(t, err)
	assert.Equal(t, []pipeline.Stage{
		pipeline.StageValidating,
		pipeline.StageCacheCheck,
		pipeline.StageRetrieving,
		pipeline.StageExtracting,
		pipeline.StageAnswering,
		pipeline.StageResponding,
	}, stages)
	assert.Equal(t, []string{brochureURL}, failed)
}

func TestStage_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cache_check", pipeline.StageCacheCheck.String())
	assert.Equal(t, "no_evidence", pipeline.StageNoEvidence.String())
	assert.Equal(t, "unknown", pipeline.Stage(99).String())
}
