package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/siteask"
	"github.com/fwojciec/siteask/mock"
	sqslog "github.com/fwojciec/siteask/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingAnswerer_Answer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Answerer{
		AnswerFn: func(context.Context, siteask.AnswerRequest) (string, error) {
			return "Yes.", nil
		},
	}

	answer, err := sqslog.NewLoggingAnswerer(inner, logger).Answer(context.Background(), siteask.AnswerRequest{
		Question: "Is there a dormitory on campus?",
		Language: "en",
		Sources:  []*siteask.ContentSource{{URL: "https://final.edu.tr/en/dorms"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Yes.", answer)
	output := buf.String()
	assert.Contains(t, output, "msg=answer")
	assert.Contains(t, output, "language=en")
	assert.Contains(t, output, "sources=1")
	assert.Contains(t, output, "chars=4")
	assert.NotContains(t, output, "dormitory")
}

func TestLoggingPipeline_Ask(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Pipeline{
		AskFn: func(context.Context, string) (*siteask.Response, error) {
			return &siteask.Response{
				Answer:  "Yes.",
				Sources: []siteask.SourceRef{{URL: "https://final.edu.tr/en/dorms"}},
				Cached:  true,
			}, nil
		},
	}

	resp, err := sqslog.NewLoggingPipeline(inner, logger).Ask(context.Background(), "dorms?")

	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Contains(t, buf.String(), "msg=ask")
	assert.Contains(t, buf.String(), "cached=true")
	assert.Contains(t, buf.String(), "sources=1")
}
