package siteask

import (
	"strings"
	"unicode"
)

// Vocabulary decides whether a question is relevant to the organization.
type Vocabulary struct {
	// MinLength is the minimum number of characters in a trimmed question.
	MinLength int

	// Keywords are organization-specific terms (names, abbreviations, places).
	Keywords []string

	// AcademicTerms are generic terms accepted when no keyword matches.
	AcademicTerms []string
}

// LocalLanguage describes the non-English language questions may be asked in.
type LocalLanguage struct {
	// Tag is the language tag reported for matching questions (e.g., "tr").
	Tag string

	// Markers are words that identify the language.
	Markers []string
}

// Query is a validated user question. It is immutable once constructed.
type Query struct {
	text     string
	language string
	reason   string
}

// NewQuery builds a Query from raw question text, checking it against the
// vocabulary and detecting its language.
func NewQuery(text string, vocab Vocabulary, local LocalLanguage) Query {
	q := Query{
		text:     strings.TrimSpace(text),
		language: DetectLanguage(text, local),
	}
	q.reason = validate(q.text, vocab)
	return q
}

// Text returns the trimmed question text.
func (q Query) Text() string { return q.text }

// Language returns the detected language tag.
func (q Query) Language() string { return q.language }

// Valid reports whether the question passed validation.
func (q Query) Valid() bool { return q.reason == "" }

// Validate returns an EINVALID error describing why the question was rejected.
func (q Query) Validate() error {
	if q.reason != "" {
		return Errorf(EINVALID, "%s", q.reason)
	}
	return nil
}

func validate(text string, vocab Vocabulary) string {
	if text == "" || len([]rune(text)) < vocab.MinLength {
		return "question too short"
	}

	lower := strings.ToLower(text)
	if containsAny(lower, vocab.Keywords) || containsAny(lower, vocab.AcademicTerms) {
		return ""
	}
	return "question not related to the organization"
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(s, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// DetectLanguage returns local.Tag when the text contains any of the local
// language markers as a whole word, and "en" otherwise.
func DetectLanguage(text string, local LocalLanguage) string {
	if local.Tag == "" || len(local.Markers) == 0 {
		return "en"
	}

	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}

	for _, marker := range local.Markers {
		if words[strings.ToLower(marker)] {
			return local.Tag
		}
	}
	return "en"
}
