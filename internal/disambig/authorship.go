// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package disambig implements the author-disambiguation core: confidence
// scoring of candidate records against a query, authorship-pattern
// analysis, career-stage classification, and the orchestrator that ties
// them to the upstream metadata client.
package disambig

import "github.com/pdiddy/scholar-id/pkg/types"

// positionClass is the first/middle/last classification of one work sample.
type positionClass int

const (
	positionFirst positionClass = iota
	positionMiddle
	positionLast
)

// malformedPositionClass is the policy fallback for samples whose position
// index falls outside the author list (or whose author count is not
// positive). Such records exist in upstream data; counting them as middle
// keeps the totality invariant without guessing a role. Named so the
// policy is changed in one place.
const malformedPositionClass = positionMiddle

// ClassifyPositions aggregates the authorship position of each sample.
// The returned counts always sum to len(samples): every sample lands in
// exactly one bucket, malformed ones included.
func ClassifyPositions(samples []types.WorkSample) types.AuthorshipCounts {
	var counts types.AuthorshipCounts
	for _, s := range samples {
		switch classifyPosition(s) {
		case positionFirst:
			counts.First++
		case positionLast:
			counts.Last++
		default:
			counts.Middle++
		}
	}
	return counts
}

// classifyPosition places one sample. Position 1 is first (single-author
// works included); the final slot of a multi-author list is last;
// everything in between is middle.
func classifyPosition(s types.WorkSample) positionClass {
	if s.AuthorPosition < 1 || s.TotalAuthors < 1 || s.AuthorPosition > s.TotalAuthors {
		return malformedPositionClass
	}
	switch {
	case s.AuthorPosition == 1:
		return positionFirst
	case s.AuthorPosition == s.TotalAuthors:
		return positionLast
	default:
		return positionMiddle
	}
}
