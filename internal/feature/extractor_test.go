package feature

import (
	"testing"

	"main/internal/fixed"
	"main/internal/schema"
)

func order(side schema.Side, price, shares uint32) schema.AddOrder {
	return schema.AddOrder{Side: side, Price: price, Shares: shares}
}

func TestEmptyBookGuards(t *testing.T) {
	v := Extract(order(schema.SideBuy, 100000, 100), 0, 0)
	if v[0] != 0 {
		t.Fatalf("normalized price on empty book: got raw %d want 0", v[0].Raw())
	}
	if v[3] != 0 {
		t.Fatalf("spread on empty book: got raw %d want 0", v[3].Raw())
	}
	if v[4] != 0 {
		t.Fatalf("distance on empty book: got raw %d want 0", v[4].Raw())
	}
}

func TestSideIndicator(t *testing.T) {
	if v := Extract(order(schema.SideBuy, 1, 1), 0, 0); v[1] != fixed.One {
		t.Fatalf("buy indicator: got raw %d want %d", v[1].Raw(), fixed.One.Raw())
	}
	if v := Extract(order(schema.SideSell, 1, 1), 0, 0); v[1] != -fixed.One {
		t.Fatalf("sell indicator: got raw %d want %d", v[1].Raw(), (-fixed.One).Raw())
	}
}

func TestLogQuantity(t *testing.T) {
	// log2(256)/16 = 0.5 exactly.
	v := Extract(order(schema.SideBuy, 1, 256), 0, 0)
	if v[2] != fixed.FromFloat(0.5) {
		t.Fatalf("log quantity: got raw %d want %d", v[2].Raw(), fixed.FromFloat(0.5).Raw())
	}
	// Zero shares clamp to one: log2(1) = 0.
	v = Extract(order(schema.SideBuy, 1, 0), 0, 0)
	if v[2] != 0 {
		t.Fatalf("log quantity of zero shares: got raw %d want 0", v[2].Raw())
	}
}

func TestNormalizedPriceAndSpread(t *testing.T) {
	// bb=99000, ba=101000: mid=100000, spread=2000.
	v := Extract(order(schema.SideBuy, 105000, 100), 99000, 101000)
	if want := fixed.FromFloat(5000.0 / 100000.0); v[0] != want {
		t.Fatalf("normalized price: got raw %d want %d", v[0].Raw(), want.Raw())
	}
	if want := fixed.FromFloat(0.2); v[3] != want {
		t.Fatalf("spread: got raw %d want %d", v[3].Raw(), want.Raw())
	}

	// Crossed snapshot (ask below bid) clamps the spread to zero.
	v = Extract(order(schema.SideBuy, 100000, 100), 101000, 99000)
	if v[3] != 0 {
		t.Fatalf("crossed spread: got raw %d want 0", v[3].Raw())
	}
}

func TestDistanceFromBest(t *testing.T) {
	// Buy below best bid: positive distance (bb-p)/bb.
	v := Extract(order(schema.SideBuy, 90000, 100), 100000, 101000)
	if want := fixed.FromFloat(0.1); v[4] != want {
		t.Fatalf("buy distance: got raw %d want %d", v[4].Raw(), want.Raw())
	}
	// Buy above best bid: negative distance, not an unsigned wrap.
	v = Extract(order(schema.SideBuy, 110000, 100), 100000, 111000)
	if want := fixed.FromFloat(-0.1); v[4] != want {
		t.Fatalf("aggressive buy distance: got raw %d want %d", v[4].Raw(), want.Raw())
	}
	// Sell above best ask: (p-ba)/ba.
	v = Extract(order(schema.SideSell, 110000, 100), 90000, 100000)
	if want := fixed.FromFloat(0.1); v[4] != want {
		t.Fatalf("sell distance: got raw %d want %d", v[4].Raw(), want.Raw())
	}
}

func TestReservedSlotsZero(t *testing.T) {
	v := Extract(order(schema.SideSell, 123456, 789), 100000, 100100)
	for i := 5; i < Count; i++ {
		if v[i] != 0 {
			t.Fatalf("reserved slot %d: got raw %d want 0", i, v[i].Raw())
		}
	}
}
