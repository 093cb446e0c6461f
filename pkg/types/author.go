// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared between the OpenAlex
// client, the disambiguation core, and the tool surfaces.
package types

// AuthorQuery describes one disambiguation request. It is built once per
// request and never mutated afterwards.
type AuthorQuery struct {
	// Name is the author name as supplied by the caller (required).
	Name string `json:"name"`

	// Affiliation is an optional institution name or fragment.
	Affiliation string `json:"affiliation,omitempty"`

	// ResearchField is an optional field, topic, or concept name.
	ResearchField string `json:"research_field,omitempty"`

	// ORCID is an optional persistent researcher identifier. Accepted in
	// bare ("0000-0002-1825-0097") or URL form.
	ORCID string `json:"orcid,omitempty"`

	// MaxCandidates bounds the result list. Zero means the default (5);
	// values outside [1,25] are rejected.
	MaxCandidates int `json:"max_candidates,omitempty"`
}

// AuthorFilters are the criteria the upstream search supports natively.
// ResearchField is deliberately absent: OpenAlex author search cannot
// filter on it, so it is scored locally instead.
type AuthorFilters struct {
	Name        string
	Affiliation string
	ORCID       string
}

// Institution is one affiliation attached to a candidate.
type Institution struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// AuthorCandidate is one raw author record as returned by the upstream
// metadata API. Owned by a single request; never persisted.
type AuthorCandidate struct {
	ID             string        `json:"id"`
	DisplayName    string        `json:"display_name"`
	AlternateNames []string      `json:"display_name_alternatives,omitempty"`
	ORCID          string        `json:"orcid,omitempty"`
	Institutions   []Institution `json:"institutions,omitempty"`
	WorksCount     int           `json:"works_count"`
	CitedByCount   int           `json:"cited_by_count"`
	HIndex         int           `json:"h_index"`
	I10Index       int           `json:"i10_index"`
	Topics         []string      `json:"topics,omitempty"`
}

// WorkSample is one publication record reduced to the fields needed for
// authorship-position analysis. AuthorPosition is the 1-based position of
// the subject author in the work's author list.
type WorkSample struct {
	Title          string `json:"title"`
	Year           int    `json:"year"`
	AuthorPosition int    `json:"author_position"`
	TotalAuthors   int    `json:"total_authors"`
	CitedByCount   int    `json:"cited_by_count"`
}

// AuthorshipCounts aggregates the first/middle/last classification of a
// work sample. Recomputed per request, never cached.
type AuthorshipCounts struct {
	First  int `json:"first"`
	Middle int `json:"middle"`
	Last   int `json:"last"`
}

// Total returns the number of classified samples.
func (c AuthorshipCounts) Total() int {
	return c.First + c.Middle + c.Last
}

// ScoredAuthor is the externally visible result unit: a candidate plus its
// confidence score, the reasons that produced it, and optional career
// analysis. The career fields are omitted from JSON when enrichment was
// skipped or failed for this candidate.
type ScoredAuthor struct {
	AuthorCandidate

	// Confidence is in [0,1]; result lists are sorted by it descending.
	Confidence   float64  `json:"confidence"`
	MatchReasons []string `json:"match_reasons"`

	CareerStage    string            `json:"career_stage,omitempty"`
	SeniorityScore *float64          `json:"seniority_score,omitempty"`
	Authorship     *AuthorshipCounts `json:"authorship_counts,omitempty"`
}

// AuthorSuggestion is one autocomplete hit. Lighter than a full candidate
// record; the Hint is usually the author's current institution.
type AuthorSuggestion struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Hint         string `json:"hint,omitempty"`
	ORCID        string `json:"orcid,omitempty"`
	WorksCount   int    `json:"works_count"`
	CitedByCount int    `json:"cited_by_count"`
}

// InstitutionRecord is one institution as returned by the upstream search,
// used by institution name resolution.
type InstitutionRecord struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"display_name"`
	AlternateNames []string `json:"display_name_alternatives,omitempty"`
	CountryCode    string   `json:"country_code,omitempty"`
	Type           string   `json:"type,omitempty"`
	HomepageURL    string   `json:"homepage_url,omitempty"`
}
