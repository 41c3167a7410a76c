package itch

import (
	"main/internal/schema"
)

// EncodeAddOrder serializes an Add Order into the 36-byte wire layout,
// big-endian. The inverse of the decoder; used by the generator and tests.
func EncodeAddOrder(dst []byte, order schema.AddOrder) []byte {
	if cap(dst) < MessageLen {
		dst = make([]byte, MessageLen)
	} else {
		dst = dst[:MessageLen]
	}

	dst[0] = TypeAddOrder
	dst[1] = byte(order.StockLocate >> 8)
	dst[2] = byte(order.StockLocate)
	dst[3] = byte(order.TrackingNumber >> 8)
	dst[4] = byte(order.TrackingNumber)
	for i := 0; i < 6; i++ {
		dst[5+i] = byte(order.TimestampNs >> (40 - 8*i))
	}
	for i := 0; i < 8; i++ {
		dst[11+i] = byte(order.OrderRef >> (56 - 8*i))
	}
	if order.Side == schema.SideBuy {
		dst[19] = 'B'
	} else {
		dst[19] = 'S'
	}
	for i := 0; i < 4; i++ {
		dst[20+i] = byte(order.Shares >> (24 - 8*i))
	}
	copy(dst[24:32], order.Stock[:])
	for i := 0; i < 4; i++ {
		dst[32+i] = byte(order.Price >> (24 - 8*i))
	}
	return dst
}
