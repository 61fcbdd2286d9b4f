// Package gemini generates answers with Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/siteask"
	"google.golang.org/genai"
)

// Defaults for generation.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTokenBudget = 200_000
)

// Ensure Answerer implements siteask.Answerer at compile time.
var _ siteask.Answerer = (*Answerer)(nil)

// Answerer implements siteask.Answerer using Google Gemini.
type Answerer struct {
	client *genai.Client
	model  string

	// Tokens, when set, limits the evidence sent to TokenBudget tokens.
	Tokens      siteask.TokenCounter
	TokenBudget int
}

// NewAnswerer creates a new Answerer.
func NewAnswerer(client *genai.Client, model string) *Answerer {
	if model == "" {
		model = DefaultModel
	}
	return &Answerer{client: client, model: model, TokenBudget: DefaultTokenBudget}
}

// Answer generates a grounded answer for req.
func (a *Answerer) Answer(ctx context.Context, req siteask.AnswerRequest) (string, error) {
	if strings.TrimSpace(req.Question) == "" {
		return "", siteask.Errorf(siteask.EINVALID, "question required")
	}
	if len(req.Sources) == 0 {
		return "", siteask.Errorf(siteask.EINVALID, "sources required")
	}

	if a.Tokens != nil {
		sources, err := FitSources(ctx, a.Tokens, req.Sources, a.TokenBudget)
		if err != nil {
			return "", err
		}
		req.Sources = sources
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(req)}},
		}},
		BuildConfig(req),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", siteask.Errorf(siteask.EINTERNAL, "gemini: %v", err)
	}
	if result == nil {
		return "", siteask.Errorf(siteask.EINTERNAL, "gemini returned nil result")
	}

	answer := strings.TrimSpace(result.Text())
	if answer == "" {
		return "", siteask.Errorf(siteask.EINTERNAL, "gemini returned an empty answer")
	}
	return answer, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(req siteask.AnswerRequest) *genai.GenerateContentConfig {
	temp := float32(0.3)
	topP := float32(0.9)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.Instructions()}},
		},
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: 2000,
	}
}

// BuildUserPrompt builds the user prompt containing the sources and question.
func BuildUserPrompt(req siteask.AnswerRequest) string {
	var sb strings.Builder
	sb.WriteString("<sources>\n")
	for i, s := range req.Sources {
		sb.WriteString("<source>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", s.Title())
		fmt.Fprintf(&sb, "<url>%s</url>\n", s.URL)
		fmt.Fprintf(&sb, "<type>%s</type>\n", s.Metadata.Type)
		fmt.Fprintf(&sb, "<content>%s</content>\n", s.Content)
		sb.WriteString("</source>\n")
	}
	sb.WriteString("</sources>\n\n")
	fmt.Fprintf(&sb, "Question: %s", req.Question)
	return sb.String()
}

// FitSources keeps the longest prefix of sources whose formatted text fits
// within budget tokens. The first source is always kept.
func FitSources(ctx context.Context, counter siteask.TokenCounter, sources []*siteask.ContentSource, budget int) ([]*siteask.ContentSource, error) {
	if budget <= 0 || len(sources) <= 1 {
		return sources, nil
	}

	used := 0
	for i, s := range sources {
		n, err := counter.CountTokens(ctx, siteask.FormatSources([]*siteask.ContentSource{s}))
		if err != nil {
			return nil, fmt.Errorf("count tokens: %w", err)
		}
		used += n
		if used > budget && i > 0 {
			return sources[:i], nil
		}
	}
	return sources, nil
}
