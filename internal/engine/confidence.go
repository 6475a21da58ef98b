package engine

import (
	"math"

	"faraid/internal/types"
)

// Confidence penalties.
const (
	penaltyAwl            = 0.98
	penaltyRadd           = 0.97
	penaltyBloodRelatives = 0.95
	penaltyManyCases      = 0.96
	penaltyDrift          = 0.90
	confidenceFloor       = 0.80
	driftTolerance        = 1e-3
)

// confidence scores how settled the distribution is. The float sum is only a
// consistency probe; it never feeds back into the shares.
func confidence(r *types.Result, l ledger) (float64, ledger) {
	score := 1.0
	if r.AwlApplied {
		score *= penaltyAwl
	}
	if r.RaddApplied {
		score *= penaltyRadd
	}
	if r.BloodRelativesApplied {
		score *= penaltyBloodRelatives
	}
	if len(l.cases) > 2 {
		score *= penaltyManyCases
	}

	total := 0.0
	for _, s := range r.Shares {
		total += s.Fraction.Float64()
	}
	if math.Abs(1-total) > driftTolerance {
		score *= penaltyDrift
		l = l.warn("shares sum to %.2f%% rather than 100%%", total*100)
	}
	return math.Max(confidenceFloor, score), l
}
