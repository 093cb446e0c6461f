// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"fmt"
	"strings"

	"github.com/pdiddy/scholar-id/pkg/types"
)

// baseConfidence is the floor for every candidate the upstream search
// returns. OpenAlex runs its own ML disambiguation, so a returned record
// is already a plausible match before any local boost applies.
const baseConfidence = 0.6

// matchContext carries the lowercased query fields plus the name-match
// flags the early rules compute and the later rules consult, so the same
// comparison is never counted twice.
type matchContext struct {
	query     types.AuthorQuery
	candidate types.AuthorCandidate

	queryName   string // lowercased, trimmed
	exactName   bool
	partialName bool
}

// boostRule is one independent scoring rule: a weight and a predicate
// that reports whether it triggered and with what reason text. Rules are
// applied in declaration order, summed, and clamped once at the end, so
// the reason list ordering is deterministic for identical inputs.
type boostRule struct {
	weight float64
	match  func(m *matchContext) (bool, string)
}

var boostRules = []boostRule{
	{0.3, func(m *matchContext) (bool, string) {
		m.exactName = m.queryName != "" && strings.ToLower(m.candidate.DisplayName) == m.queryName
		return m.exactName, "Exact name match"
	}},
	{0.2, func(m *matchContext) (bool, string) {
		if m.exactName {
			return false, ""
		}
		if containsEither(strings.ToLower(m.candidate.DisplayName), m.queryName) {
			m.partialName = true
			return true, "Partial name match"
		}
		for _, alt := range m.candidate.AlternateNames {
			if containsEither(strings.ToLower(alt), m.queryName) {
				m.partialName = true
				return true, "Partial name match"
			}
		}
		return false, ""
	}},
	{0.1, func(m *matchContext) (bool, string) {
		// Only credits an alternate-name hit not already counted by the
		// partial rule above.
		if m.partialName {
			return false, ""
		}
		for _, alt := range m.candidate.AlternateNames {
			if m.queryName != "" && strings.ToLower(alt) == m.queryName {
				return true, "Alternative name match"
			}
		}
		return false, ""
	}},
	{0.1, func(m *matchContext) (bool, string) {
		if m.query.ORCID == "" || m.candidate.ORCID == "" {
			return false, ""
		}
		return NormalizeORCID(m.query.ORCID) == NormalizeORCID(m.candidate.ORCID), "Identifier verified"
	}},
	{0.2, func(m *matchContext) (bool, string) {
		if m.query.Affiliation == "" {
			return false, ""
		}
		want := strings.ToLower(m.query.Affiliation)
		for _, inst := range m.candidate.Institutions {
			if containsEither(strings.ToLower(inst.Name), want) {
				return true, fmt.Sprintf("Affiliation match: %s", inst.Name)
			}
		}
		return false, ""
	}},
	{0.15, func(m *matchContext) (bool, string) {
		if m.query.ResearchField == "" {
			return false, ""
		}
		want := strings.ToLower(m.query.ResearchField)
		for _, topic := range m.candidate.Topics {
			if containsEither(strings.ToLower(topic), want) {
				return true, fmt.Sprintf("Research field match: %s", topic)
			}
		}
		return false, ""
	}},
	{0.05, func(m *matchContext) (bool, string) {
		return m.candidate.WorksCount > 10, "Active researcher"
	}},
}

// ScoreCandidate compares a query against one candidate record and
// returns a confidence in [0,1] plus the triggered match reasons in rule
// order. Absent query fields skip their rules; nothing penalizes.
func ScoreCandidate(query types.AuthorQuery, candidate types.AuthorCandidate) (float64, []string) {
	m := &matchContext{
		query:     query,
		candidate: candidate,
		queryName: strings.ToLower(strings.TrimSpace(query.Name)),
	}

	confidence := baseConfidence
	var reasons []string
	for _, rule := range boostRules {
		if ok, reason := rule.match(m); ok {
			confidence += rule.weight
			reasons = append(reasons, reason)
		}
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence, reasons
}

// containsEither reports whether either non-empty string contains the
// other. The emptiness guard keeps a blank upstream field from matching
// everything.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// NormalizeORCID reduces an ORCID to its bare, lowercased identifier so
// the URL and bare forms compare equal.
func NormalizeORCID(orcid string) string {
	s := strings.TrimSpace(strings.ToLower(orcid))
	s = strings.TrimPrefix(s, "https://orcid.org/")
	s = strings.TrimPrefix(s, "http://orcid.org/")
	return s
}
