// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/scholar-id/pkg/types"
)

// Sentinel errors for the request-level failure taxonomy. Enrichment
// failures are deliberately absent: they degrade a single candidate and
// never surface as request errors.
var (
	// ErrInvalidQuery rejects a request before any network call.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnavailable wraps an upstream fetch failure. No partial
	// candidate list is fabricated when the fetch itself fails.
	ErrUnavailable = errors.New("metadata service unavailable")
)

const (
	// DefaultMaxCandidates applies when a query leaves MaxCandidates zero.
	DefaultMaxCandidates = 5

	// MaxCandidatesLimit is the hard cap on a result list, matching the
	// upstream per-page maximum for author records.
	MaxCandidatesLimit = 25

	// overfetchFactor controls how many extra candidates the fetch step
	// requests so re-ranking has room to reorder the upstream list.
	overfetchFactor = 2

	defaultWorkSampleSize    = 20
	defaultEnrichConcurrency = 4
)

// MetadataSource is the upstream collaborator: a bibliographic database
// offering candidate search by partial criteria and bounded publication
// samples per author. Upstream result ordering is not trusted; the
// resolver re-ranks.
type MetadataSource interface {
	SearchAuthors(ctx context.Context, filters types.AuthorFilters, count int) ([]types.AuthorCandidate, error)
	FetchWorkSamples(ctx context.Context, authorID string, limit int) ([]types.WorkSample, error)
}

// Options tune one disambiguation request.
type Options struct {
	// IncludeCareerAnalysis enables the enrichment stage: work-sample
	// fetch, authorship classification, and career staging per candidate.
	IncludeCareerAnalysis bool

	// WorkSampleSize bounds the publication sample per candidate
	// (default 20).
	WorkSampleSize int

	// EnrichConcurrency bounds the enrichment fan-out (default 4).
	EnrichConcurrency int
}

// Resolver orchestrates the disambiguation pipeline. It holds no
// per-request state; a single Resolver serves concurrent requests.
type Resolver struct {
	source MetadataSource
	log    zerolog.Logger
}

// NewResolver returns a Resolver backed by source. Logging is off until
// SetLogger is called.
func NewResolver(source MetadataSource) *Resolver {
	return &Resolver{source: source, log: zerolog.Nop()}
}

// SetLogger installs a structured logger for enrichment diagnostics.
func (r *Resolver) SetLogger(log zerolog.Logger) {
	r.log = log
}

// Disambiguate runs the pipeline for one query: validate, fetch, score,
// rank, truncate, optionally enrich. The returned list is sorted by
// confidence descending (ties broken by works count descending) and holds
// at most query.MaxCandidates entries — except on the identifier
// short-circuit, which returns exactly one.
func (r *Resolver) Disambiguate(ctx context.Context, query types.AuthorQuery, opts Options) ([]types.ScoredAuthor, error) {
	query, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	// Identifier-first branch: a supplied ORCID routes the fetch to an
	// identifier-keyed lookup before the usual overfetch. A single
	// verified hit ends the request; anything else falls through to the
	// ranked pipeline.
	if query.ORCID != "" {
		result, done, err := r.byIdentifier(ctx, query, opts)
		if err != nil {
			return nil, err
		}
		if done {
			return result, nil
		}
	}

	candidates, err := r.source.SearchAuthors(ctx, types.AuthorFilters{
		Name:        query.Name,
		Affiliation: query.Affiliation,
	}, overfetchCount(query.MaxCandidates))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	scored := scoreAll(query, candidates)
	rank(scored)
	if len(scored) > query.MaxCandidates {
		scored = scored[:query.MaxCandidates]
	}

	if opts.IncludeCareerAnalysis {
		r.enrichAll(ctx, scored, opts)
	}
	return scored, nil
}

// byIdentifier performs the identifier-keyed lookup. When exactly one
// returned candidate carries the queried ORCID as verified, that single
// candidate is the whole result regardless of MaxCandidates. done is
// false when zero or several candidates match.
func (r *Resolver) byIdentifier(ctx context.Context, query types.AuthorQuery, opts Options) ([]types.ScoredAuthor, bool, error) {
	candidates, err := r.source.SearchAuthors(ctx, types.AuthorFilters{
		Name:  query.Name,
		ORCID: query.ORCID,
	}, DefaultMaxCandidates)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	want := NormalizeORCID(query.ORCID)
	matched := -1
	for i, c := range candidates {
		if c.ORCID != "" && NormalizeORCID(c.ORCID) == want {
			if matched >= 0 {
				return nil, false, nil // ambiguous; use the ranked pipeline
			}
			matched = i
		}
	}
	if matched < 0 {
		return nil, false, nil
	}

	result := scoreAll(query, candidates[matched:matched+1])
	if opts.IncludeCareerAnalysis {
		r.enrichAll(ctx, result, opts)
	}
	return result, true, nil
}

// Enrich fetches a bounded work sample for one candidate and attaches
// authorship counts, career stage, and seniority score. On failure the
// candidate is left without career fields and the error is returned for
// logging; confidence is never touched.
func (r *Resolver) Enrich(ctx context.Context, sc *types.ScoredAuthor, sampleSize int) error {
	if sampleSize <= 0 {
		sampleSize = defaultWorkSampleSize
	}
	samples, err := r.source.FetchWorkSamples(ctx, sc.ID, sampleSize)
	if err != nil {
		return fmt.Errorf("fetching work sample for %s: %w", sc.ID, err)
	}

	counts := ClassifyPositions(samples)
	stage, seniority := ClassifyCareer(counts, sc.WorksCount, sc.HIndex)
	sc.Authorship = &counts
	sc.CareerStage = stage
	sc.SeniorityScore = &seniority
	return nil
}

// enrichAll fans out Enrich over the retained candidates with a bounded
// concurrency. Failures are isolated per candidate: they are logged and
// the candidate ships without career fields.
func (r *Resolver) enrichAll(ctx context.Context, scored []types.ScoredAuthor, opts Options) {
	limit := opts.EnrichConcurrency
	if limit <= 0 {
		limit = defaultEnrichConcurrency
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range scored {
		g.Go(func() error {
			if err := r.Enrich(ctx, &scored[i], opts.WorkSampleSize); err != nil {
				r.log.Warn().Str("author_id", scored[i].ID).Err(err).
					Msg("career enrichment failed; returning candidate without career fields")
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures degrade in place
}

// scoreAll produces scored stubs (no career data) for every candidate.
func scoreAll(query types.AuthorQuery, candidates []types.AuthorCandidate) []types.ScoredAuthor {
	scored := make([]types.ScoredAuthor, 0, len(candidates))
	for _, c := range candidates {
		confidence, reasons := ScoreCandidate(query, c)
		scored = append(scored, types.ScoredAuthor{
			AuthorCandidate: c,
			Confidence:      confidence,
			MatchReasons:    reasons,
		})
	}
	return scored
}

// rank sorts by confidence descending, breaking ties by works count
// descending. Stable so equal candidates keep their upstream order.
func rank(scored []types.ScoredAuthor) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Confidence != scored[j].Confidence {
			return scored[i].Confidence > scored[j].Confidence
		}
		return scored[i].WorksCount > scored[j].WorksCount
	})
}

// normalizeQuery validates the request and applies defaults. Validation
// failures are terminal and happen before any network call.
func normalizeQuery(query types.AuthorQuery) (types.AuthorQuery, error) {
	query.Name = strings.TrimSpace(query.Name)
	if query.Name == "" {
		return query, fmt.Errorf("%w: name is required", ErrInvalidQuery)
	}
	if query.MaxCandidates == 0 {
		query.MaxCandidates = DefaultMaxCandidates
	}
	if query.MaxCandidates < 1 || query.MaxCandidates > MaxCandidatesLimit {
		return query, fmt.Errorf("%w: max_candidates must be between 1 and %d", ErrInvalidQuery, MaxCandidatesLimit)
	}
	return query, nil
}

// overfetchCount requests extra candidates so local re-ranking has room,
// capped at the upstream page limit.
func overfetchCount(maxCandidates int) int {
	n := maxCandidates * overfetchFactor
	if n > MaxCandidatesLimit {
		return MaxCandidatesLimit
	}
	return n
}
