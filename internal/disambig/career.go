// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import "github.com/pdiddy/scholar-id/pkg/types"

// Career stage labels. Trailing authorship conventionally signals a
// supervisory role, leading authorship a hands-on one; the labels follow
// that convention.
const (
	StageVeryEarly   = "Very Early Career"
	StageEarlyFirst  = "Early Career (First Author Focus)"
	StageSenior      = "Senior Researcher"
	StageLeadership  = "Mid-Career (Leadership Role)"
	StageEstablished = "Established Researcher"
	StageExperienced = "Experienced Researcher"
	StageMidCareer   = "Mid-Career"
)

// Seniority weights per authorship position.
const (
	firstAuthorWeight  = 0.2
	middleAuthorWeight = 0.5
	lastAuthorWeight   = 1.0
)

// careerMetrics are the precomputed inputs the stage rules test against.
// Ratios are zero when the position sample is empty, so no rule divides
// by a zero total.
type careerMetrics struct {
	counts     types.AuthorshipCounts
	worksCount int
	hIndex     int
	firstRatio float64
	lastRatio  float64
	seniority  float64
}

// careerRule pairs a stage label with its predicate. Rules are evaluated
// in declaration order and the first match wins; the categories are not
// mutually exclusive from the raw ratios alone, so order matters.
type careerRule struct {
	stage string
	match func(m careerMetrics) bool
}

var careerRules = []careerRule{
	{StageVeryEarly, func(m careerMetrics) bool {
		return m.counts.Total() == 0 || m.worksCount < 5
	}},
	{StageEarlyFirst, func(m careerMetrics) bool {
		return m.firstRatio > 0.6
	}},
	{StageSenior, func(m careerMetrics) bool {
		return m.lastRatio > 0.4 && m.hIndex > 15
	}},
	{StageLeadership, func(m careerMetrics) bool {
		return m.lastRatio > 0.4
	}},
	{StageEstablished, func(m careerMetrics) bool {
		return m.seniority > 0.6
	}},
	{StageExperienced, func(m careerMetrics) bool {
		return m.worksCount > 20
	}},
	{StageMidCareer, func(careerMetrics) bool {
		return true
	}},
}

// ClassifyCareer converts authorship-pattern aggregates plus publication
// metrics into a career stage and a seniority score in [0,1]. It never
// fails; the final rule is a catch-all.
func ClassifyCareer(counts types.AuthorshipCounts, worksCount, hIndex int) (string, float64) {
	m := careerMetrics{
		counts:     counts,
		worksCount: worksCount,
		hIndex:     hIndex,
		seniority:  SeniorityScore(counts),
	}
	if total := counts.Total(); total > 0 {
		m.firstRatio = float64(counts.First) / float64(total)
		m.lastRatio = float64(counts.Last) / float64(total)
	}

	for _, rule := range careerRules {
		if rule.match(m) {
			return rule.stage, m.seniority
		}
	}
	// Unreachable: the last rule always matches.
	return StageMidCareer, m.seniority
}

// SeniorityScore is the position-weighted average over the sample,
// clamped to [0,1]. An empty sample scores 0.
func SeniorityScore(counts types.AuthorshipCounts) float64 {
	total := counts.Total()
	if total < 1 {
		total = 1
	}
	weighted := firstAuthorWeight*float64(counts.First) +
		middleAuthorWeight*float64(counts.Middle) +
		lastAuthorWeight*float64(counts.Last)
	score := weighted / float64(total)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
