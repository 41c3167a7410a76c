package ops

import (
	"fmt"

	"main/internal/feature"
	"main/internal/fixed"
	"main/internal/moe"
)

// buildModel converts a raw parameter blob into a model, rejecting any
// shape that does not match the compiled dimensions.
func buildModel(cfg ModelConfig) (*moe.Model, error) {
	m := &moe.Model{}

	if len(cfg.RouterWeights) != moe.NumExperts {
		return nil, fmt.Errorf("router weights: %d rows, want %d", len(cfg.RouterWeights), moe.NumExperts)
	}
	if len(cfg.RouterBiases) != moe.NumExperts {
		return nil, fmt.Errorf("router biases: %d values, want %d", len(cfg.RouterBiases), moe.NumExperts)
	}
	for e, row := range cfg.RouterWeights {
		if len(row) != feature.Count {
			return nil, fmt.Errorf("router weights[%d]: %d values, want %d", e, len(row), feature.Count)
		}
		for f, w := range row {
			m.Router.Weights[e][f] = fixed.FromRaw(w)
		}
		m.Router.Biases[e] = fixed.FromRaw(cfg.RouterBiases[e])
	}

	if len(cfg.Experts) != moe.NumExperts {
		return nil, fmt.Errorf("experts: %d entries, want %d", len(cfg.Experts), moe.NumExperts)
	}
	for e, ec := range cfg.Experts {
		if len(ec.W1) != moe.HiddenDim {
			return nil, fmt.Errorf("expert %d w1: %d rows, want %d", e, len(ec.W1), moe.HiddenDim)
		}
		if len(ec.B1) != moe.HiddenDim {
			return nil, fmt.Errorf("expert %d b1: %d values, want %d", e, len(ec.B1), moe.HiddenDim)
		}
		if len(ec.W2) != moe.HiddenDim {
			return nil, fmt.Errorf("expert %d w2: %d values, want %d", e, len(ec.W2), moe.HiddenDim)
		}
		ew := &m.Experts[e]
		for h, row := range ec.W1 {
			if len(row) != feature.Count {
				return nil, fmt.Errorf("expert %d w1[%d]: %d values, want %d", e, h, len(row), feature.Count)
			}
			for f, w := range row {
				ew.W1[h][f] = fixed.FromRaw(w)
			}
			ew.B1[h] = fixed.FromRaw(ec.B1[h])
			ew.W2[h] = fixed.FromRaw(ec.W2[h])
		}
		ew.B2 = fixed.FromRaw(ec.B2)
	}

	return m, nil
}

// DemoModel builds the deterministic demonstration weight set. The
// pattern gives every expert a distinct response without training: small
// signed weights cycling through residue classes, biases staggered per
// expert so router scores rarely tie.
func DemoModel() *moe.Model {
	m := &moe.Model{}

	for e := 0; e < moe.NumExperts; e++ {
		for f := 0; f < feature.Count; f++ {
			m.Router.Weights[e][f] = fixed.FromFloat(0.1 * float64((e*8+f)%7-3) / 3.0)
		}
		m.Router.Biases[e] = fixed.FromFloat(0.01 * float64(e))

		ew := &m.Experts[e]
		for h := 0; h < moe.HiddenDim; h++ {
			for f := 0; f < feature.Count; f++ {
				ew.W1[h][f] = fixed.FromFloat(0.1 * float64((e*h+f)%11-5) / 5.0)
			}
			ew.B1[h] = 0
			ew.W2[h] = fixed.FromFloat(0.05 * float64((e+h)%5-2))
		}
		ew.B2 = 0
	}

	return m
}
