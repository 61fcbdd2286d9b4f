package siteask

import (
	"context"
	"fmt"
	"strings"
)

// AnswerRequest carries everything an answer backend needs to compose a
// grounded answer.
type AnswerRequest struct {
	Question     string
	Language     string
	Organization string
	Domain       Domain
	Sources      []*ContentSource
}

// Answerer generates a natural-language answer from retrieved evidence.
type Answerer interface {
	// Answer returns EINTERNAL when the backend fails or returns nothing.
	Answer(ctx context.Context, req AnswerRequest) (string, error)
}

// Instructions returns the standing rules for an answer backend: answer only
// from the supplied sources, cite them, and reply in the question's language.
func (r AnswerRequest) Instructions() string {
	host := r.Domain.Host()
	org := r.Organization
	if org == "" {
		org = host
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are the official assistant for %s. ", org)
	fmt.Fprintf(&b, "Answer questions using ONLY the official sources from %s provided with each question.\n\n", host)
	b.WriteString("Rules:\n")
	b.WriteString("- Start with a direct answer, then give details organized in short sections.\n")
	b.WriteString("- Include specific numbers, dates and requirements when the sources have them.\n")
	fmt.Fprintf(&b, "- Include relevant links from %s.\n", r.Domain.BaseURL())
	b.WriteString("- Do not guess or add information that is not in the sources.\n")
	fmt.Fprintf(&b, "- If the sources do not fully answer the question, say so, share what is available and suggest contacting %s directly.\n", org)
	fmt.Fprintf(&b, "- If the question is not about %s, politely ask for a related question instead.\n", org)
	b.WriteString("- ")
	b.WriteString(languageRule(r.Language))
	return b.String()
}

func languageRule(tag string) string {
	switch tag {
	case "", "en":
		return "Respond in English."
	case "tr":
		return "Respond in Turkish."
	default:
		return fmt.Sprintf("Respond in the language of the question (%s).", tag)
	}
}
