package feature

import (
	"math"

	"main/internal/fixed"
	"main/internal/schema"
)

// Count is the feature vector dimension.
const Count = 8

// Vector is an ordered fixed-point feature vector. Slots 5-7 are reserved
// for rolling statistics and stay zero.
type Vector [Count]fixed.Fixed

// Extract builds the feature vector for one order against the current best
// bid/ask snapshot. Pure and stateless; intermediate math runs in float64
// and each element is quantized to Q8.8 independently, truncating toward
// zero.
func Extract(order schema.AddOrder, bestBid, bestAsk uint32) Vector {
	var v Vector

	// Price relative to the midpoint; zero when the book is empty.
	mid := (float64(bestBid) + float64(bestAsk)) / 2
	if mid > 0 {
		v[0] = fixed.FromFloat((float64(order.Price) - mid) / mid)
	}

	if order.Side == schema.SideBuy {
		v[1] = fixed.One
	} else {
		v[1] = -fixed.One
	}

	shares := order.Shares
	if shares < 1 {
		shares = 1
	}
	v[2] = fixed.FromFloat(math.Log2(float64(shares)) / 16)

	var spread float64
	if bestAsk > bestBid {
		spread = float64(bestAsk) - float64(bestBid)
	}
	v[3] = fixed.FromFloat(spread / 10000)

	// Distance from the same-side best, signed: negative when the order
	// improves the book.
	var dist float64
	if order.Side == schema.SideBuy {
		if bestBid > 0 {
			dist = (float64(bestBid) - float64(order.Price)) / float64(bestBid)
		}
	} else {
		if bestAsk > 0 {
			dist = (float64(order.Price) - float64(bestAsk)) / float64(bestAsk)
		}
	}
	v[4] = fixed.FromFloat(dist)

	return v
}
