// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import (
	"testing"

	"github.com/pdiddy/scholar-id/pkg/types"
)

func sample(pos, total int) types.WorkSample {
	return types.WorkSample{AuthorPosition: pos, TotalAuthors: total}
}

func TestClassifyPositions(t *testing.T) {
	tests := []struct {
		name    string
		samples []types.WorkSample
		want    types.AuthorshipCounts
	}{
		{
			name:    "empty input yields zero counts",
			samples: nil,
			want:    types.AuthorshipCounts{},
		},
		{
			name:    "first author",
			samples: []types.WorkSample{sample(1, 4)},
			want:    types.AuthorshipCounts{First: 1},
		},
		{
			name:    "last author",
			samples: []types.WorkSample{sample(4, 4)},
			want:    types.AuthorshipCounts{Last: 1},
		},
		{
			name:    "middle author",
			samples: []types.WorkSample{sample(2, 4), sample(3, 4)},
			want:    types.AuthorshipCounts{Middle: 2},
		},
		{
			name:    "single-author work counts as first, not last",
			samples: []types.WorkSample{sample(1, 1)},
			want:    types.AuthorshipCounts{First: 1},
		},
		{
			name:    "two-author work, second slot is last",
			samples: []types.WorkSample{sample(2, 2)},
			want:    types.AuthorshipCounts{Last: 1},
		},
		{
			name:    "position beyond author count falls back to middle",
			samples: []types.WorkSample{sample(7, 3)},
			want:    types.AuthorshipCounts{Middle: 1},
		},
		{
			name:    "zero position falls back to middle",
			samples: []types.WorkSample{sample(0, 3)},
			want:    types.AuthorshipCounts{Middle: 1},
		},
		{
			name:    "zero author count falls back to middle",
			samples: []types.WorkSample{sample(1, 0)},
			want:    types.AuthorshipCounts{Middle: 1},
		},
		{
			name: "mixed sample",
			samples: []types.WorkSample{
				sample(1, 5), sample(3, 5), sample(5, 5), sample(1, 1), sample(9, 2),
			},
			want: types.AuthorshipCounts{First: 2, Middle: 2, Last: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPositions(tt.samples)
			if got != tt.want {
				t.Errorf("ClassifyPositions() = %+v, want %+v", got, tt.want)
			}
			if got.Total() != len(tt.samples) {
				t.Errorf("counts sum to %d, want %d (totality)", got.Total(), len(tt.samples))
			}
		})
	}
}

// Totality over generated inputs: every sample lands in exactly one bucket
// no matter how malformed the positions are.
func TestClassifyPositionsTotality(t *testing.T) {
	var samples []types.WorkSample
	for pos := -2; pos <= 6; pos++ {
		for total := -1; total <= 5; total++ {
			samples = append(samples, sample(pos, total))
		}
	}
	got := ClassifyPositions(samples)
	if got.Total() != len(samples) {
		t.Errorf("counts sum to %d, want %d", got.Total(), len(samples))
	}
}
