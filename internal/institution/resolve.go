// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package institution resolves a free-text institution name to the best
// matching canonical record. Matching is purely lexical; the upstream
// search has already narrowed the candidate set.
package institution

import (
	"strings"

	"github.com/pdiddy/scholar-id/pkg/types"
)

// Match pairs a candidate record with how well it matched.
type Match struct {
	types.InstitutionRecord

	// Score is in [0,100]; higher is a stronger lexical match.
	Score float64 `json:"match_score"`

	// MatchType names the rule that produced the score.
	MatchType string `json:"match_type"`
}

// Match types, strongest first.
const (
	MatchExact            = "exact"
	MatchAlternateExact   = "alternate_exact"
	MatchPartial          = "partial"
	MatchAlternatePartial = "alternate_partial"
	MatchPrefix           = "prefix"
	MatchWordOverlap      = "word_overlap"
)

// Resolve picks the best match for query among candidates. Returns false
// when no candidate matches under any rule.
func Resolve(query string, candidates []types.InstitutionRecord) (Match, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(candidates) == 0 {
		return Match{}, false
	}

	best := Match{Score: -1}
	for _, c := range candidates {
		score, matchType := scoreCandidate(q, c)
		if score > best.Score {
			best = Match{InstitutionRecord: c, Score: score, MatchType: matchType}
		}
	}
	if best.Score < 0 {
		return Match{}, false
	}
	return best, true
}

// scoreCandidate applies the rules in strength order and returns the first
// that fires. A score below zero means no rule matched.
func scoreCandidate(q string, c types.InstitutionRecord) (float64, string) {
	name := strings.ToLower(c.DisplayName)
	if name == q {
		return 100, MatchExact
	}
	for _, alt := range c.AlternateNames {
		if strings.ToLower(alt) == q {
			return 95, MatchAlternateExact
		}
	}
	if name != "" && (strings.Contains(name, q) || strings.Contains(q, name)) {
		return 80, MatchPartial
	}
	for _, alt := range c.AlternateNames {
		a := strings.ToLower(alt)
		if a != "" && (strings.Contains(a, q) || strings.Contains(q, a)) {
			return 75, MatchAlternatePartial
		}
	}
	if name != "" && strings.HasPrefix(name, firstWord(q)) {
		return 70, MatchPrefix
	}
	if overlap, total := wordOverlap(q, name); total > 0 && overlap > 0 {
		return 50 + float64(overlap)/float64(total)*20, MatchWordOverlap
	}
	return -1, ""
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i]
	}
	return s
}

// wordOverlap counts query words present in the candidate name. Returns the
// overlap and the query word total.
func wordOverlap(q, name string) (int, int) {
	queryWords := strings.Fields(q)
	nameWords := make(map[string]bool)
	for _, w := range strings.Fields(name) {
		nameWords[w] = true
	}
	matching := 0
	for _, w := range queryWords {
		if nameWords[w] {
			matching++
		}
	}
	return matching, len(queryWords)
}
