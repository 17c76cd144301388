package service

import "math"

// ELOService computes rating deltas for match outcomes. Ratings form
// a zero-sum system: the loser always gives up exactly what the
// winner gains.
type ELOService struct {
	kFactor float64
}

func NewELOService() *ELOService {
	return &ELOService{
		kFactor: 32, // fixed K-factor; rating change is bounded by +-32
	}
}

// ComputeRatingDelta returns player A's signed rating change for a
// match against B. Player B's change is the exact negation. Scores
// only decide the outcome; the margin does not affect the delta.
func (s *ELOService) ComputeRatingDelta(ratingA, ratingB, scoreA, scoreB int) int {
	expectedA := s.expectedScore(float64(ratingA), float64(ratingB))

	// Ties are rejected by match validation, but the formula still
	// defines the 0.5 case.
	var actualA float64
	switch {
	case scoreA > scoreB:
		actualA = 1.0
	case scoreA < scoreB:
		actualA = 0.0
	default:
		actualA = 0.5
	}

	return int(math.Round(s.kFactor * (actualA - expectedA)))
}

// expectedScore is the logistic win expectancy of A over B.
func (s *ELOService) expectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}
