package ranking

import "math"

// scoreInput carries everything an algorithm may use to score one occurrence
// of a hit under one variant.
type scoreInput struct {
	// rawScore is the backend-native score for this occurrence.
	rawScore float64
	// variantWeight is the owning variant's confidence weight.
	variantWeight float64
	// exactBoost, compoundBoost, and scriptBoost are effective multipliers;
	// 1.0 when the corresponding condition does not hold.
	exactBoost    float64
	compoundBoost float64
	scriptBoost   float64
	// backendRank is the 0-based position of the hit within its variant's
	// result list.
	backendRank int
}

// scoreFunc computes an occurrence score. All algorithms are pure functions
// over the same inputs; selection happens through the algorithms table, so
// adding an algorithm means adding a name and a function, nothing else.
type scoreFunc func(in scoreInput) float64

var algorithms = map[string]scoreFunc{
	AlgorithmWeighted:     weightedScore,
	AlgorithmOptimized:    optimizedScore,
	AlgorithmSimple:       simpleScore,
	AlgorithmExperimental: experimentalScore,
}

// weightedScore multiplies the raw score by the variant weight and every
// applicable boost.
func weightedScore(in scoreInput) float64 {
	return in.rawScore * in.variantWeight * in.exactBoost * in.compoundBoost * in.scriptBoost
}

// optimizedScore combines boost excesses additively on a log scale, so
// stacked boosts grow sub-linearly instead of compounding multiplicatively.
func optimizedScore(in scoreInput) float64 {
	excess := (in.exactBoost - 1) + (in.compoundBoost - 1) + (in.scriptBoost - 1)
	if excess < 0 {
		excess = 0
	}
	return in.rawScore * in.variantWeight * (1 + math.Log1p(excess))
}

// simpleScore is the baseline: the backend score untouched.
func simpleScore(in scoreInput) float64 {
	return in.rawScore
}

// rrfK is the reciprocal-rank constant (standard value from Cormack et al. 2009).
const rrfK = 60

// experimentalScore adds a reciprocal-rank term to the optimized score, so a
// hit's position in its variant's result list still matters when backend
// scores are flat.
func experimentalScore(in scoreInput) float64 {
	return optimizedScore(in) + 1.0/float64(rrfK+in.backendRank+1)
}
