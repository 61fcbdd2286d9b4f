// Package ollama generates answers with a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/siteask"
)

// Defaults for the generate endpoint.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "deepseek-llm:7b-chat"
	DefaultTimeout = 120 * time.Second
)

// Options are the sampling parameters sent with every request.
type Options struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	RepeatPenalty float64 `json:"repeat_penalty"`
	NumPredict    int     `json:"num_predict"`
}

// DefaultOptions favour focused, factual answers.
func DefaultOptions() Options {
	return Options{
		Temperature:   0.3,
		TopP:          0.9,
		RepeatPenalty: 1.1,
		NumPredict:    2000,
	}
}

type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Ensure Answerer implements siteask.Answerer at compile time.
var _ siteask.Answerer = (*Answerer)(nil)

// Answerer implements siteask.Answerer against Ollama's /api/generate.
type Answerer struct {
	BaseURL string
	Model   string
	Options Options
	Client  *http.Client
}

// NewAnswerer creates an Answerer for the server at baseURL.
func NewAnswerer(baseURL, model string) *Answerer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Answerer{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Options: DefaultOptions(),
		Client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// Answer sends the grounded prompt and returns the generated text.
func (a *Answerer) Answer(ctx context.Context, req siteask.AnswerRequest) (string, error) {
	if strings.TrimSpace(req.Question) == "" {
		return "", siteask.Errorf(siteask.EINVALID, "question required")
	}

	payload, err := json.Marshal(generateRequest{
		Model:   a.Model,
		Prompt:  BuildPrompt(req),
		Stream:  false,
		Options: a.Options,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", siteask.Errorf(siteask.EINTERNAL, "call %s: %v", a.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", siteask.Errorf(siteask.EINTERNAL, "ollama returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", siteask.Errorf(siteask.EINTERNAL, "decode ollama response: %v", err)
	}

	answer := strings.TrimSpace(out.Response)
	if answer == "" {
		return "", siteask.Errorf(siteask.EINTERNAL, "ollama returned an empty answer")
	}
	return answer, nil
}

// BuildPrompt assembles the instructions, evidence and question into a
// single completion prompt.
func BuildPrompt(req siteask.AnswerRequest) string {
	var b strings.Builder
	b.WriteString(req.Instructions())
	fmt.Fprintf(&b, "\n\nCONTEXT FROM OFFICIAL SOURCES (%s):\n", req.Domain.Host())
	b.WriteString(siteask.FormatSources(req.Sources))
	fmt.Fprintf(&b, "\n\nUSER QUESTION: %q\n\nANSWER:", req.Question)
	return b.String()
}
