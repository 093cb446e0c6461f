// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholar-id/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// OpenAlexConfig holds settings for the OpenAlex metadata client.
type OpenAlexConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey is an optional OpenAlex premium key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited
	// responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DisambiguationConfig holds settings for the disambiguation pipeline.
type DisambiguationConfig struct {
	// MaxCandidates is the default result list length when a query does
	// not specify one (default 5, hard cap 25).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// WorkSampleSize is the number of recent works fetched per candidate
	// for authorship-pattern analysis (default 20).
	WorkSampleSize int `json:"work_sample_size" yaml:"work_sample_size"`

	// EnrichConcurrency bounds the per-request fan-out of work-sample
	// fetches (default 4).
	EnrichConcurrency int `json:"enrich_concurrency" yaml:"enrich_concurrency"`
}

// ServiceConfig groups all component configurations.
type ServiceConfig struct {
	OpenAlex       OpenAlexConfig       `json:"openalex" yaml:"openalex"`
	Disambiguation DisambiguationConfig `json:"disambiguation" yaml:"disambiguation"`
}
