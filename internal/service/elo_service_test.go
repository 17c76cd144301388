package service

import "testing"

func TestELOService_ComputeRatingDelta(t *testing.T) {
	eloService := NewELOService()

	tests := []struct {
		name     string
		ratingA  int
		ratingB  int
		scoreA   int
		scoreB   int
		expected int
	}{
		{
			name:     "Equal ratings, A wins",
			ratingA:  1000,
			ratingB:  1000,
			scoreA:   11,
			scoreB:   0,
			expected: 16,
		},
		{
			name:     "Equal ratings, A loses",
			ratingA:  1000,
			ratingB:  1000,
			scoreA:   0,
			scoreB:   11,
			expected: -16,
		},
		{
			name:     "Underdog win pays more than 16",
			ratingA:  900,
			ratingB:  1100,
			scoreA:   11,
			scoreB:   7,
			expected: 24,
		},
		{
			name:     "Favorite win pays less than 16",
			ratingA:  1100,
			ratingB:  900,
			scoreA:   11,
			scoreB:   7,
			expected: 8,
		},
		{
			name:     "Margin does not change the delta",
			ratingA:  1000,
			ratingB:  1000,
			scoreA:   11,
			scoreB:   9,
			expected: 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta := eloService.ComputeRatingDelta(tt.ratingA, tt.ratingB, tt.scoreA, tt.scoreB)
			if delta != tt.expected {
				t.Errorf("ComputeRatingDelta(%d, %d, %d, %d) = %d, want %d",
					tt.ratingA, tt.ratingB, tt.scoreA, tt.scoreB, delta, tt.expected)
			}
		})
	}
}

func TestELOService_ZeroSum(t *testing.T) {
	eloService := NewELOService()

	cases := []struct {
		ratingA, ratingB int
		scoreA, scoreB   int
	}{
		{1000, 1000, 11, 5},
		{900, 1100, 11, 7},
		{1500, 800, 3, 11},
		{1234, 1236, 12, 10},
	}

	for _, tc := range cases {
		deltaA := eloService.ComputeRatingDelta(tc.ratingA, tc.ratingB, tc.scoreA, tc.scoreB)
		deltaB := eloService.ComputeRatingDelta(tc.ratingB, tc.ratingA, tc.scoreB, tc.scoreA)

		if deltaA != -deltaB {
			t.Errorf("Zero-sum violated for %+v: deltaA=%d deltaB=%d", tc, deltaA, deltaB)
		}
	}
}

func TestELOService_SaturationBound(t *testing.T) {
	eloService := NewELOService()

	// Even absurd rating gaps cannot move a rating by more than K.
	extremes := []struct {
		ratingA, ratingB int
	}{
		{0, 3000},
		{3000, 0},
		{1000, 1000},
		{-500, 2500},
	}

	for _, tc := range extremes {
		for _, scores := range [][2]int{{11, 0}, {0, 11}} {
			delta := eloService.ComputeRatingDelta(tc.ratingA, tc.ratingB, scores[0], scores[1])
			if delta > 32 || delta < -32 {
				t.Errorf("ComputeRatingDelta(%d, %d, %d, %d) = %d, exceeds K bound",
					tc.ratingA, tc.ratingB, scores[0], scores[1], delta)
			}
		}
	}
}

func TestELOService_TieCaseDefined(t *testing.T) {
	eloService := NewELOService()

	// Ties are rejected by validation, but the formula still defines
	// the 0.5 case: equal ratings with a tie yields no change.
	if delta := eloService.ComputeRatingDelta(1000, 1000, 10, 10); delta != 0 {
		t.Errorf("Tie between equal ratings should yield 0, got %d", delta)
	}
}
