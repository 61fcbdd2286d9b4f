// Package pipeline answers a question end to end. It validates the
// question, consults the cache, retrieves in-domain links, turns each link
// into content and hands the usable sources to an answer backend.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/siteask"
	"github.com/google/uuid"
)

// Stage is a step in answering one question.
type Stage int

const (
	StageValidating Stage = iota
	StageCacheCheck
	StageRetrieving
	StageExtracting
	StageAnswering
	StageResponding

	// Terminal stages for early exits.
	StageRejectedInvalid
	StageNoEvidence
)

var stageNames = [...]string{
	StageValidating:      "validating",
	StageCacheCheck:      "cache_check",
	StageRetrieving:      "retrieving",
	StageExtracting:      "extracting",
	StageAnswering:       "answering",
	StageResponding:      "responding",
	StageRejectedInvalid: "rejected_invalid",
	StageNoEvidence:      "no_evidence",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// ProgressEvent reports a stage transition or a per-link outcome.
type ProgressEvent struct {
	Stage Stage
	URL   string
	Err   error
}

// ProgressFunc is a callback for reporting pipeline progress.
type ProgressFunc func(event ProgressEvent)

// Ensure Pipeline implements siteask.Pipeline at compile time.
var _ siteask.Pipeline = (*Pipeline)(nil)

// Pipeline implements siteask.Pipeline. Config and Cache are supplied at
// construction; nothing is shared between requests except the Cache.
type Pipeline struct {
	Config siteask.Config

	// Cache is optional; nil disables caching.
	Cache siteask.Cache

	Browser   siteask.Browser
	Retriever siteask.Retriever

	// Classifier is optional; nil classifies links by URL suffix.
	Classifier siteask.Classifier
	Extractor  siteask.Extractor
	Documents  siteask.DocumentProcessor
	Answerer   siteask.Answerer

	Progress ProgressFunc
	Logger   *slog.Logger
	Now      func() time.Time
}

// Ask answers question. Every outcome produces a Response. The error is
// non-nil only when the request failed after validation, in which case the
// Response carries a user-facing explanation and the failure message.
func (p *Pipeline) Ask(ctx context.Context, question string) (*siteask.Response, error) {
	begin := p.now()
	logger := p.logger().With("request_id", uuid.NewString())

	p.report(ProgressEvent{Stage: StageValidating})
	q := siteask.NewQuery(question, p.Config.Vocabulary, p.Config.LocalLanguage)
	if !q.Valid() {
		logger.Info("question rejected", "reason", siteask.ErrorMessage(q.Validate()))
		p.report(ProgressEvent{Stage: StageRejectedInvalid})
		return p.respond(begin, &siteask.Response{Answer: p.Config.InvalidQuestionMessage()}), nil
	}

	p.report(ProgressEvent{Stage: StageCacheCheck})
	key := siteask.CacheKey(q.Text())
	if p.Cache != nil {
		if hit, ok := p.Cache.Get(key); ok {
			logger.Info("cache hit", "key", key)
			resp := hit.Clone()
			resp.Cached = true
			p.report(ProgressEvent{Stage: StageResponding})
			return p.respond(begin, resp), nil
		}
	}

	session, err := p.Browser.Session(ctx)
	if err != nil {
		return p.fail(begin, logger, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("session close failed", "err", err)
		}
	}()

	p.report(ProgressEvent{Stage: StageRetrieving})
	links, err := p.Retriever.Retrieve(ctx, session, q.Text())
	if siteask.ErrorCode(err) == siteask.ENOTFOUND && ctx.Err() == nil {
		logger.Info("no links found")
		p.report(ProgressEvent{Stage: StageNoEvidence})
		return p.respond(begin, &siteask.Response{Answer: p.Config.NotFoundMessage()}), nil
	} else if err != nil {
		return p.fail(begin, logger, err)
	}
	logger.Info("links retrieved", "count", len(links))

	p.report(ProgressEvent{Stage: StageExtracting})
	results, err := p.extract(ctx, session, links, logger)
	if err != nil {
		return p.fail(begin, logger, err)
	}
	sources := p.usable(results, logger)
	if len(sources) == 0 {
		logger.Info("no usable content", "links", len(links))
		p.report(ProgressEvent{Stage: StageNoEvidence})
		return p.respond(begin, &siteask.Response{Answer: p.Config.NoContentMessage()}), nil
	}

	p.report(ProgressEvent{Stage: StageAnswering})
	answer, err := p.Answerer.Answer(ctx, siteask.AnswerRequest{
		Question:     q.Text(),
		Language:     q.Language(),
		Organization: p.Config.Organization,
		Domain:       p.Config.Domain,
		Sources:      sources,
	})
	if err != nil {
		return p.fail(begin, logger, err)
	}

	p.report(ProgressEvent{Stage: StageResponding})
	resp := p.respond(begin, &siteask.Response{
		Answer:            strings.TrimSpace(answer),
		Sources:           siteask.SourceRefs(sources, p.Config.Domain),
		SourceRestriction: p.Config.SourceRestriction(),
	})
	if p.Cache != nil {
		p.Cache.Set(key, resp)
	}
	return resp, nil
}

// extract turns each link into an ExtractionResult, one at a time over the
// shared session. Per-link failures are recorded, not returned; only
// context cancellation stops the loop.
func (p *Pipeline) extract(ctx context.Context, session siteask.Fetcher, links []siteask.SearchResult, logger *slog.Logger) ([]siteask.ExtractionResult, error) {
	results := make([]siteask.ExtractionResult, 0, len(links))
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !p.Config.Domain.Contains(link.URL) {
			logger.Warn("skipping out-of-domain link", "url", link.URL)
			continue
		}

		res := p.extractOne(ctx, session, link.URL)
		if res.Err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.report(ProgressEvent{Stage: StageExtracting, URL: link.URL, Err: res.Err})
		results = append(results, res)
	}
	return results, nil
}

func (p *Pipeline) extractOne(ctx context.Context, session siteask.Fetcher, url string) siteask.ExtractionResult {
	res := siteask.ExtractionResult{URL: url, Kind: p.classify(ctx, url)}

	if res.Kind == siteask.KindDocument {
		res.Source, res.Err = p.Documents.Process(ctx, url, siteask.DocumentFilename(url))
		return res
	}

	html, err := session.Fetch(ctx, url)
	if err != nil {
		res.Err = err
		return res
	}
	res.Source, res.Err = p.Extractor.Extract(html, url)
	return res
}

// usable keeps sources that extracted cleanly and clear the minimum length.
func (p *Pipeline) usable(results []siteask.ExtractionResult, logger *slog.Logger) []*siteask.ContentSource {
	var sources []*siteask.ContentSource
	for _, r := range results {
		switch {
		case r.Err != nil:
			logger.Warn("source unavailable", "url", r.URL, "type", r.Kind.String(), "err", r.Err)
		case !r.Source.Useful(p.Config.MinSourceLength):
			logger.Info("source too short", "url", r.URL, "type", r.Kind.String())
		default:
			sources = append(sources, r.Source)
		}
	}
	return sources
}

func (p *Pipeline) classify(ctx context.Context, url string) siteask.SourceKind {
	if p.Classifier == nil {
		return siteask.ClassifyURL(url)
	}
	return p.Classifier.Classify(ctx, url)
}

func (p *Pipeline) fail(begin time.Time, logger *slog.Logger, err error) (*siteask.Response, error) {
	logger.Error("request failed", "err", err)
	return p.respond(begin, &siteask.Response{
		Answer: p.Config.FailureMessage(),
		Error:  errorText(err),
	}), err
}

func (p *Pipeline) respond(begin time.Time, resp *siteask.Response) *siteask.Response {
	resp.SetProcessingTime(begin, p.now())
	return resp
}

func (p *Pipeline) report(event ProgressEvent) {
	if p.Progress != nil {
		p.Progress(event)
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// errorText is the failure detail exposed to clients.
func errorText(err error) string {
	var e *siteask.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
