package siteask

import (
	"context"
	"time"
)

// SourceRef is a citation attached to a Response.
type SourceRef struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Type   string `json:"type"`
	Domain string `json:"domain"`
}

// Response is the result of asking one question.
type Response struct {
	Answer            string      `json:"answer"`
	Sources           []SourceRef `json:"sources,omitempty"`
	ProcessingTime    int64       `json:"processingTime"`
	Cached            bool        `json:"cached"`
	Error             string      `json:"error,omitempty"`
	SourceRestriction string      `json:"sourceRestriction,omitempty"`
}

// SetProcessingTime records the elapsed time since begin in milliseconds.
func (r *Response) SetProcessingTime(begin, now time.Time) {
	r.ProcessingTime = now.Sub(begin).Milliseconds()
}

// Clone returns a copy of r that does not share the Sources slice.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	other := *r
	if r.Sources != nil {
		other.Sources = append([]SourceRef(nil), r.Sources...)
	}
	return &other
}

// SourceRefs builds the citation list for sources found in domain.
func SourceRefs(sources []*ContentSource, domain Domain) []SourceRef {
	refs := make([]SourceRef, 0, len(sources))
	for _, s := range sources {
		typ := s.Metadata.Type
		if typ == "" {
			typ = KindWebpage.String()
		}
		refs = append(refs, SourceRef{
			Title:  s.Title(),
			URL:    s.URL,
			Type:   typ,
			Domain: domain.Host(),
		})
	}
	return refs
}

// Pipeline answers questions end to end.
type Pipeline interface {
	// Ask returns a Response for every outcome. The error is non-nil only
	// when answer generation failed, in which case the Response still
	// carries a user-facing answer.
	Ask(ctx context.Context, question string) (*Response, error)
}
