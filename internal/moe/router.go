package moe

import (
	"math"

	"main/internal/feature"
	"main/internal/fixed"
)

// Selection is the router output: two distinct expert indices and their
// gating weights, which sum to 1.0 within one unit in the last place.
type Selection struct {
	Expert [TopK]int
	Gate   [TopK]fixed.Fixed
}

// Route scores all experts, selects the top two, and computes their gates.
func (r *RouterWeights) Route(v feature.Vector) Selection {
	scores := r.Scores(v)
	best, second := topTwo(scores)
	g0, g1 := gates(scores[best], scores[second])
	return Selection{
		Expert: [TopK]int{best, second},
		Gate:   [TopK]fixed.Fixed{g0, g1},
	}
}

// Scores computes the linear projection per expert. Accumulation stays in
// the widened Q16.16 type; scores are compared at that precision, never
// truncated first.
func (r *RouterWeights) Scores(v feature.Vector) [NumExperts]fixed.Acc {
	var scores [NumExperts]fixed.Acc
	for e := 0; e < NumExperts; e++ {
		sum := r.Biases[e].Acc()
		for f := 0; f < feature.Count; f++ {
			sum += fixed.MulAcc(r.Weights[e][f], v[f])
		}
		scores[e] = sum
	}
	return scores
}

// topTwo scans once, keeping (best, second). On an exact score tie the
// earlier index keeps its slot; this tie-break is part of the contract.
// Slot seeds sit below any attainable score so the first two experts
// always displace them.
func topTwo(scores [NumExperts]fixed.Acc) (best, second int) {
	bestScore, secondScore := int64(math.MinInt64), int64(math.MinInt64)
	best, second = 0, 1
	for e, s := range scores {
		sv := int64(s)
		if sv > bestScore {
			secondScore, second = bestScore, best
			bestScore, best = sv, e
		} else if sv > secondScore {
			secondScore, second = sv, e
		}
	}
	return best, second
}

// gates maps the score difference through a piecewise-linear sigmoid
// surrogate: 1 above +2, 0 below -2, else 0.5 + 0.25*diff. The linear
// segment is an intentional approximation of softmax with bounded error;
// it must not be replaced with the exact function.
func gates(bestScore, secondScore fixed.Acc) (g0, g1 fixed.Fixed) {
	const two = fixed.Acc(2) << fixed.AccFracBits

	diff := bestScore - secondScore
	var sig fixed.Acc
	switch {
	case diff > two:
		sig = fixed.AccOne
	case diff < -two:
		sig = 0
	default:
		sig = fixed.AccOne>>1 + diff>>2
	}

	return sig.Fixed(), (fixed.AccOne - sig).Fixed()
}
