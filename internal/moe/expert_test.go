package moe

import (
	"testing"

	"main/internal/feature"
	"main/internal/fixed"
)

func TestExpertForwardPass(t *testing.T) {
	// One active hidden unit wired to the side indicator.
	var w ExpertWeights
	w.W1[0][1] = fixed.One
	w.W2[0] = fixed.One
	w.B2 = fixed.FromFloat(0.5)

	var v feature.Vector
	v[1] = fixed.One // buy
	if got := w.Infer(v); got != fixed.FromFloat(1.5) {
		t.Fatalf("buy pass: got raw %d want %d", got.Raw(), fixed.FromFloat(1.5).Raw())
	}

	// Sell flips the hidden pre-activation negative; ReLU zeroes it and
	// only the output bias survives.
	v[1] = -fixed.One
	if got := w.Infer(v); got != fixed.FromFloat(0.5) {
		t.Fatalf("sell pass: got raw %d want %d", got.Raw(), fixed.FromFloat(0.5).Raw())
	}
}

func TestExpertHiddenBias(t *testing.T) {
	var w ExpertWeights
	for h := 0; h < HiddenDim; h++ {
		w.B1[h] = fixed.FromFloat(0.125)
		w.W2[h] = fixed.One
	}
	// 16 hidden units each contribute 0.125 through a unit output weight.
	if got := w.Infer(feature.Vector{}); got != fixed.FromFloat(2.0) {
		t.Fatalf("bias-only pass: got raw %d want %d", got.Raw(), fixed.FromFloat(2.0).Raw())
	}
}

func TestExpertLinearHeadNoActivation(t *testing.T) {
	// A negative output must pass through the linear head unclamped.
	var w ExpertWeights
	w.B2 = fixed.FromFloat(-1.25)
	if got := w.Infer(feature.Vector{}); got != fixed.FromFloat(-1.25) {
		t.Fatalf("negative head: got raw %d want %d", got.Raw(), fixed.FromFloat(-1.25).Raw())
	}
}

func TestExpertAccumulatesBeforeTruncation(t *testing.T) {
	// Eight products of 1/16 * 1/16 sum to 8/256 in the accumulator. With
	// per-step truncation to Q8.8 each product would vanish; the widened
	// accumulator must keep them.
	var w ExpertWeights
	for f := 0; f < feature.Count; f++ {
		w.W1[0][f] = fixed.FromFloat(1.0 / 16)
	}
	w.W2[0] = fixed.One

	var v feature.Vector
	for f := range v {
		v[f] = fixed.FromFloat(1.0 / 16)
	}
	if got := w.Infer(v); got.Raw() != 8 {
		t.Fatalf("widened accumulation: got raw %d want 8", got.Raw())
	}
}
