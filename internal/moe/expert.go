package moe

import (
	"main/internal/feature"
	"main/internal/fixed"
)

// Infer evaluates the expert on one feature vector. Both layers accumulate
// in the widened Q16.16 type and narrow once per unit: layer 1 truncates to
// Q8.8 then applies ReLU, layer 2 truncates the linear head with no
// activation.
func (w *ExpertWeights) Infer(v feature.Vector) fixed.Fixed {
	var hidden [HiddenDim]fixed.Fixed
	for h := 0; h < HiddenDim; h++ {
		sum := w.B1[h].Acc()
		for f := 0; f < feature.Count; f++ {
			sum += fixed.MulAcc(w.W1[h][f], v[f])
		}
		hidden[h] = relu(sum.Fixed())
	}

	out := w.B2.Acc()
	for h := 0; h < HiddenDim; h++ {
		out += fixed.MulAcc(w.W2[h], hidden[h])
	}
	return out.Fixed()
}

func relu(x fixed.Fixed) fixed.Fixed {
	if x > 0 {
		return x
	}
	return 0
}
