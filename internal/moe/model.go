package moe

import (
	"main/internal/feature"
	"main/internal/fixed"
	"main/internal/schema"
)

const (
	// NumExperts is the total expert count.
	NumExperts = 8
	// TopK is the number of experts evaluated per event.
	TopK = 2
	// HiddenDim is the expert hidden layer width.
	HiddenDim = 16
)

// actionThreshold is the fixed decision boundary on the combined output.
const actionThreshold = 0.1

// RouterWeights is the gating network parameter set.
type RouterWeights struct {
	Weights [NumExperts][feature.Count]fixed.Fixed
	Biases  [NumExperts]fixed.Fixed
}

// ExpertWeights is one expert's 2-layer perceptron parameter set. Loaded
// once at startup and never mutated.
type ExpertWeights struct {
	W1 [HiddenDim][feature.Count]fixed.Fixed
	B1 [HiddenDim]fixed.Fixed
	W2 [HiddenDim]fixed.Fixed
	B2 fixed.Fixed
}

// Model bundles the router and the expert bank.
type Model struct {
	Router  RouterWeights
	Experts [NumExperts]ExpertWeights
}

// Infer runs one feature vector through the full sparse path: route,
// evaluate the two selected experts, combine. The two expert evaluations
// have no data dependency on each other; they run sequentially here and
// any parallel evaluation must produce identical results.
func (m *Model) Infer(v feature.Vector) schema.TradeSignal {
	sel := m.Router.Route(v)

	r0 := m.Experts[sel.Expert[0]].Infer(v)
	r1 := m.Experts[sel.Expert[1]].Infer(v)

	// Combine in float64 so the weighted sum is not re-truncated before
	// thresholding.
	combined := sel.Gate[0].Float()*r0.Float() + sel.Gate[1].Float()*r1.Float()

	signal := schema.TradeSignal{}
	switch {
	case combined > actionThreshold:
		signal.Action = schema.ActionBuy
		signal.Confidence = combined
	case combined < -actionThreshold:
		signal.Action = schema.ActionSell
		signal.Confidence = -combined
	default:
		signal.Action = schema.ActionHold
		if combined < 0 {
			signal.Confidence = -combined
		} else {
			signal.Confidence = combined
		}
	}
	return signal
}
