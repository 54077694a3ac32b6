package resolver

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"gstassist/internal/provider"
)

const (
	opQuery = "query"
	opDraft = "draft"
)

type Observer interface {
	RecordTierFailure(requestID, op, tier, kind string)
	RecordResolved(requestID, op, source string, failedTiers int, static bool)
}

// Resolver walks ordered provider tiers and returns the first success. The
// static tiers at the end of each chain cannot fail, so every call returns a
// result. A Resolver holds no mutable state and is safe for concurrent use.
type Resolver struct {
	queryTiers []provider.QueryProvider
	knowledge  *provider.KnowledgeBase
	draftTiers []provider.DraftProvider
	template   *provider.Template

	maxNoticeChars int
	observer       Observer
	logger         *log.Logger
}

type Option func(*Resolver)

func WithObserver(o Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMaxNoticeChars truncates notice content sent to remote drafting tiers.
// Zero or less disables truncation.
func WithMaxNoticeChars(n int) Option {
	return func(r *Resolver) { r.maxNoticeChars = n }
}

func New(queryTiers []provider.QueryProvider, knowledge *provider.KnowledgeBase, draftTiers []provider.DraftProvider, template *provider.Template, opts ...Option) *Resolver {
	if knowledge == nil {
		knowledge = provider.NewKnowledgeBase()
	}
	if template == nil {
		template = provider.NewTemplate()
	}
	r := &Resolver{
		queryTiers: append([]provider.QueryProvider(nil), queryTiers...),
		knowledge:  knowledge,
		draftTiers: append([]provider.DraftProvider(nil), draftTiers...),
		template:   template,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) ResolveQuery(ctx context.Context, question string) provider.AnswerResult {
	requestID := uuid.NewString()
	start := time.Now()
	var failures *multierror.Error
	for _, tier := range r.queryTiers {
		res, err := tier.Answer(ctx, question)
		if err == nil {
			r.resolved(requestID, opQuery, res.Source, failures, start, false)
			return res
		}
		failures = r.advance(requestID, opQuery, tier.Name(), err, failures)
	}
	res := r.knowledge.Resolve(question)
	r.resolved(requestID, opQuery, res.Source, failures, start, true)
	return res
}

func (r *Resolver) ResolveDraft(ctx context.Context, fileContent, additionalContext string) provider.DraftResult {
	requestID := uuid.NewString()
	start := time.Now()
	req := provider.DraftRequest{
		FileContent:       truncate(fileContent, r.maxNoticeChars),
		AdditionalContext: additionalContext,
	}
	var failures *multierror.Error
	for _, tier := range r.draftTiers {
		res, err := tier.Draft(ctx, req)
		if err == nil {
			r.resolved(requestID, opDraft, res.Source, failures, start, false)
			return res
		}
		failures = r.advance(requestID, opDraft, tier.Name(), err, failures)
	}
	res := r.template.Render()
	r.resolved(requestID, opDraft, res.Source, failures, start, true)
	return res
}

// advance records a failed tier. Every failure kind moves on to the next
// tier; the kind only decides how loudly it is logged.
func (r *Resolver) advance(requestID, op, tier string, err error, failures *multierror.Error) *multierror.Error {
	kind, ok := provider.KindOf(err)
	switch {
	case !ok:
		kind = "unexpected"
		r.logger.Printf("resolver warning request_id=%s op=%s tier=%s kind=%s err=%v", requestID, op, tier, kind, err)
	case kind == provider.KindUnconfigured:
		r.logger.Printf("resolver skip request_id=%s op=%s tier=%s reason=unconfigured", requestID, op, tier)
	case kind == provider.KindMalformed:
		r.logger.Printf("resolver warning request_id=%s op=%s tier=%s kind=%s err=%v (2xx with unexpected payload)", requestID, op, tier, kind, err)
	default:
		r.logger.Printf("resolver warning request_id=%s op=%s tier=%s kind=%s err=%v", requestID, op, tier, kind, err)
	}
	if r.observer != nil {
		r.observer.RecordTierFailure(requestID, op, tier, string(kind))
	}
	return multierror.Append(failures, err)
}

func (r *Resolver) resolved(requestID, op string, source provider.Source, failures *multierror.Error, start time.Time, static bool) {
	failed := 0
	if failures != nil {
		failed = len(failures.Errors)
	}
	if static && failed > 0 {
		failures.ErrorFormat = oneLine
		r.logger.Printf("resolver fallback request_id=%s op=%s source=%s elapsed=%s errors=%q", requestID, op, source, time.Since(start).Round(time.Millisecond), failures.Error())
	}
	if r.observer != nil {
		r.observer.RecordResolved(requestID, op, string(source), failed, static)
	}
}

func oneLine(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

func truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
