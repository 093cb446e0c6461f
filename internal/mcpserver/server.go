// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcpserver exposes the disambiguation pipeline and the raw
// metadata lookups as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/pdiddy/scholar-id/internal/disambig"
	"github.com/pdiddy/scholar-id/internal/institution"
	"github.com/pdiddy/scholar-id/pkg/types"
)

// institutionSearchCount bounds the candidate pool for name resolution.
const institutionSearchCount = 10

// MetadataAPI is the upstream surface the tool handlers need. The OpenAlex
// client satisfies it; tests substitute a fake.
type MetadataAPI interface {
	disambig.MetadataSource
	GetAuthor(ctx context.Context, id string) (types.AuthorCandidate, error)
	AutocompleteAuthors(ctx context.Context, query string, limit int) ([]types.AuthorSuggestion, error)
	SearchInstitutions(ctx context.Context, query string, count int) ([]types.InstitutionRecord, error)
	SearchWorks(ctx context.Context, filters types.WorkFilters, count int) ([]types.WorkRecord, error)
	GetWork(ctx context.Context, id string) (types.WorkDetail, error)
	SearchTopics(ctx context.Context, query string, level, count int) ([]types.TopicRecord, error)
}

// handlers holds the per-server dependencies shared by all tools.
type handlers struct {
	api      MetadataAPI
	resolver *disambig.Resolver
	cfg      types.ServiceConfig
	log      zerolog.Logger
}

func newHandlers(api MetadataAPI, cfg types.ServiceConfig, log zerolog.Logger) *handlers {
	resolver := disambig.NewResolver(api)
	resolver.SetLogger(log)
	return &handlers{api: api, resolver: resolver, cfg: cfg, log: log}
}

// New builds the MCP server with all tools registered. The caller runs it
// over a transport of its choice.
func New(api MetadataAPI, cfg types.ServiceConfig, log zerolog.Logger, version string) *mcp.Server {
	h := newHandlers(api, cfg, log)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "scholar-id",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name: "disambiguate_author",
		Description: "Identify the correct author among namesakes. Scores candidates " +
			"against the supplied affiliation, research field, and ORCID, and returns " +
			"them ranked by confidence with human-readable match reasons.",
	}, h.disambiguateAuthor)

	mcp.AddTool(server, &mcp.Tool{
		Name: "search_authors",
		Description: "Search author records by name, optionally narrowed by " +
			"institution. Returns raw candidates without confidence scoring.",
	}, h.searchAuthors)

	mcp.AddTool(server, &mcp.Tool{
		Name: "get_author_profile",
		Description: "Fetch one author's full profile by OpenAlex ID, including " +
			"bibliometric indicators, authorship-position analysis over recent works, " +
			"and a career stage classification.",
	}, h.getAuthorProfile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "autocomplete_authors",
		Description: "Fast type-ahead author name suggestions.",
	}, h.autocompleteAuthors)

	mcp.AddTool(server, &mcp.Tool{
		Name: "resolve_institution",
		Description: "Resolve a free-text institution name (including common " +
			"abbreviations) to its canonical record.",
	}, h.resolveInstitution)

	mcp.AddTool(server, &mcp.Tool{
		Name: "search_works",
		Description: "Search scholarly publications with optional author, " +
			"publication-year range, work-type, and topic filters. With no " +
			"criteria, returns recent works.",
	}, h.searchWorks)

	mcp.AddTool(server, &mcp.Tool{
		Name: "get_work_details",
		Description: "Fetch one publication's full record by OpenAlex ID: " +
			"authors with affiliations, venue, abstract, concept tags, citation " +
			"count, and the reference list.",
	}, h.getWorkDetails)

	mcp.AddTool(server, &mcp.Tool{
		Name: "search_topics",
		Description: "Search research topics by name, optionally filtered by " +
			"specificity level (0 general to 5 specific). With no query, lists " +
			"popular topics.",
	}, h.searchTopics)

	return server
}

type disambiguateIn struct {
	Name                  string `json:"name" jsonschema:"author name to disambiguate (required)"`
	Affiliation           string `json:"affiliation,omitempty" jsonschema:"institution name or fragment to match against"`
	ResearchField         string `json:"research_field,omitempty" jsonschema:"research field or topic to match against"`
	ORCID                 string `json:"orcid,omitempty" jsonschema:"ORCID identifier, bare or URL form"`
	MaxCandidates         int    `json:"max_candidates,omitempty" jsonschema:"maximum candidates to return (default 5, max 25)"`
	IncludeCareerAnalysis bool   `json:"include_career_analysis,omitempty" jsonschema:"attach authorship-position and career-stage analysis per candidate"`
}

type disambiguateOut struct {
	Query      string               `json:"query"`
	Count      int                  `json:"count"`
	Candidates []types.ScoredAuthor `json:"candidates"`
}

func (h *handlers) disambiguateAuthor(ctx context.Context, req *mcp.CallToolRequest, in disambiguateIn) (*mcp.CallToolResult, disambiguateOut, error) {
	query := types.AuthorQuery{
		Name:          in.Name,
		Affiliation:   in.Affiliation,
		ResearchField: in.ResearchField,
		ORCID:         in.ORCID,
		MaxCandidates: in.MaxCandidates,
	}
	opts := disambig.Options{
		IncludeCareerAnalysis: in.IncludeCareerAnalysis,
		WorkSampleSize:        h.cfg.Disambiguation.WorkSampleSize,
		EnrichConcurrency:     h.cfg.Disambiguation.EnrichConcurrency,
	}
	if query.MaxCandidates == 0 {
		query.MaxCandidates = h.cfg.Disambiguation.MaxCandidates
	}

	candidates, err := h.resolver.Disambiguate(ctx, query, opts)
	if err != nil {
		return nil, disambiguateOut{}, err
	}
	h.log.Info().Str("name", in.Name).Int("candidates", len(candidates)).
		Msg("disambiguation completed")
	return nil, disambiguateOut{
		Query:      in.Name,
		Count:      len(candidates),
		Candidates: candidates,
	}, nil
}

type searchAuthorsIn struct {
	Name        string `json:"name" jsonschema:"author name to search for (required)"`
	Affiliation string `json:"affiliation,omitempty" jsonschema:"institution name to narrow the search"`
	Limit       int    `json:"limit,omitempty" jsonschema:"maximum results (default 10, max 25)"`
}

type searchAuthorsOut struct {
	Count   int                     `json:"count"`
	Authors []types.AuthorCandidate `json:"authors"`
}

func (h *handlers) searchAuthors(ctx context.Context, req *mcp.CallToolRequest, in searchAuthorsIn) (*mcp.CallToolResult, searchAuthorsOut, error) {
	authors, err := h.api.SearchAuthors(ctx, types.AuthorFilters{
		Name:        in.Name,
		Affiliation: in.Affiliation,
	}, in.Limit)
	if err != nil {
		return nil, searchAuthorsOut{}, fmt.Errorf("searching authors: %w", err)
	}
	return nil, searchAuthorsOut{Count: len(authors), Authors: authors}, nil
}

type authorProfileIn struct {
	AuthorID       string `json:"author_id" jsonschema:"OpenAlex author ID, bare or URL form (required)"`
	WorkSampleSize int    `json:"work_sample_size,omitempty" jsonschema:"recent works to analyze (default 20)"`
}

type authorProfileOut struct {
	Author         types.AuthorCandidate  `json:"author"`
	CareerStage    string                 `json:"career_stage"`
	SeniorityScore float64                `json:"seniority_score"`
	Authorship     types.AuthorshipCounts `json:"authorship_counts"`
	RecentWorks    []types.WorkSample     `json:"recent_works"`
}

func (h *handlers) getAuthorProfile(ctx context.Context, req *mcp.CallToolRequest, in authorProfileIn) (*mcp.CallToolResult, authorProfileOut, error) {
	author, err := h.api.GetAuthor(ctx, in.AuthorID)
	if err != nil {
		return nil, authorProfileOut{}, fmt.Errorf("fetching author: %w", err)
	}

	sampleSize := in.WorkSampleSize
	if sampleSize <= 0 {
		sampleSize = h.cfg.Disambiguation.WorkSampleSize
	}
	samples, err := h.api.FetchWorkSamples(ctx, author.ID, sampleSize)
	if err != nil {
		return nil, authorProfileOut{}, fmt.Errorf("fetching work samples: %w", err)
	}

	counts := disambig.ClassifyPositions(samples)
	stage, seniority := disambig.ClassifyCareer(counts, author.WorksCount, author.HIndex)

	return nil, authorProfileOut{
		Author:         author,
		CareerStage:    stage,
		SeniorityScore: seniority,
		Authorship:     counts,
		RecentWorks:    samples,
	}, nil
}

type autocompleteIn struct {
	Query string `json:"query" jsonschema:"partial author name (required)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum suggestions (default 10)"`
}

type autocompleteOut struct {
	Suggestions []types.AuthorSuggestion `json:"suggestions"`
}

func (h *handlers) autocompleteAuthors(ctx context.Context, req *mcp.CallToolRequest, in autocompleteIn) (*mcp.CallToolResult, autocompleteOut, error) {
	suggestions, err := h.api.AutocompleteAuthors(ctx, in.Query, in.Limit)
	if err != nil {
		return nil, autocompleteOut{}, fmt.Errorf("autocompleting authors: %w", err)
	}
	return nil, autocompleteOut{Suggestions: suggestions}, nil
}

type resolveInstitutionIn struct {
	Name string `json:"name" jsonschema:"institution name or abbreviation (required)"`
}

type resolveInstitutionOut struct {
	Resolved   bool                      `json:"resolved"`
	Match      *institution.Match        `json:"match,omitempty"`
	Candidates []types.InstitutionRecord `json:"candidates,omitempty"`
}

type searchWorksIn struct {
	Query      string `json:"query,omitempty" jsonschema:"free-text search over titles and abstracts"`
	AuthorName string `json:"author_name,omitempty" jsonschema:"narrow to works by a matching author name"`
	FromYear   int    `json:"from_year,omitempty" jsonschema:"earliest publication year (inclusive)"`
	ToYear     int    `json:"to_year,omitempty" jsonschema:"latest publication year (inclusive)"`
	SourceType string `json:"source_type,omitempty" jsonschema:"work type, e.g. article, book-chapter, dataset"`
	Topic      string `json:"topic,omitempty" jsonschema:"narrow to works tagged with a matching topic"`
	SortBy     string `json:"sort_by,omitempty" jsonschema:"relevance (default), cited_by_count, or publication_date"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum results (default 20, max 100)"`
}

type searchWorksOut struct {
	Count int                `json:"count"`
	Works []types.WorkRecord `json:"works"`
}

func (h *handlers) searchWorks(ctx context.Context, req *mcp.CallToolRequest, in searchWorksIn) (*mcp.CallToolResult, searchWorksOut, error) {
	works, err := h.api.SearchWorks(ctx, types.WorkFilters{
		Query:      in.Query,
		AuthorName: in.AuthorName,
		FromYear:   in.FromYear,
		ToYear:     in.ToYear,
		SourceType: in.SourceType,
		Topic:      in.Topic,
		SortBy:     in.SortBy,
	}, in.Limit)
	if err != nil {
		return nil, searchWorksOut{}, fmt.Errorf("searching works: %w", err)
	}
	return nil, searchWorksOut{Count: len(works), Works: works}, nil
}

type workDetailsIn struct {
	WorkID string `json:"work_id" jsonschema:"OpenAlex work ID, bare or URL form (required)"`
}

type workDetailsOut struct {
	Work types.WorkDetail `json:"work"`
}

func (h *handlers) getWorkDetails(ctx context.Context, req *mcp.CallToolRequest, in workDetailsIn) (*mcp.CallToolResult, workDetailsOut, error) {
	work, err := h.api.GetWork(ctx, in.WorkID)
	if err != nil {
		return nil, workDetailsOut{}, fmt.Errorf("fetching work: %w", err)
	}
	return nil, workDetailsOut{Work: work}, nil
}

type searchTopicsIn struct {
	Query string `json:"query,omitempty" jsonschema:"topic name to search for; empty lists popular topics"`
	Level *int   `json:"level,omitempty" jsonschema:"specificity level filter, 0 (general) to 5 (specific)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum results (default 20, max 50)"`
}

type searchTopicsOut struct {
	Count  int                 `json:"count"`
	Topics []types.TopicRecord `json:"topics"`
}

func (h *handlers) searchTopics(ctx context.Context, req *mcp.CallToolRequest, in searchTopicsIn) (*mcp.CallToolResult, searchTopicsOut, error) {
	level := -1
	if in.Level != nil {
		level = *in.Level
	}
	topics, err := h.api.SearchTopics(ctx, in.Query, level, in.Limit)
	if err != nil {
		return nil, searchTopicsOut{}, fmt.Errorf("searching topics: %w", err)
	}
	return nil, searchTopicsOut{Count: len(topics), Topics: topics}, nil
}

func (h *handlers) resolveInstitution(ctx context.Context, req *mcp.CallToolRequest, in resolveInstitutionIn) (*mcp.CallToolResult, resolveInstitutionOut, error) {
	candidates, err := h.api.SearchInstitutions(ctx, in.Name, institutionSearchCount)
	if err != nil {
		return nil, resolveInstitutionOut{}, fmt.Errorf("searching institutions: %w", err)
	}

	match, ok := institution.Resolve(in.Name, candidates)
	if !ok {
		// Nothing matched lexically; surface the raw candidates so the
		// caller can pick.
		return nil, resolveInstitutionOut{Resolved: false, Candidates: candidates}, nil
	}
	return nil, resolveInstitutionOut{Resolved: true, Match: &match}, nil
}
