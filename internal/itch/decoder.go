package itch

import (
	"main/internal/schema"
)

const (
	// TypeAddOrder is the message type tag for Add Order ('A').
	TypeAddOrder = 0x41
	// MessageLen is the full Add Order message length in bytes.
	MessageLen = 36
	// DefaultChunkSize is the reference delivery unit of the byte stream.
	DefaultChunkSize = 8
)

// Config holds decoder options.
type Config struct {
	// ChunkSize is the nominal delivery unit callers split messages into.
	// The decoder itself consumes whatever it is handed; zero means
	// DefaultChunkSize.
	ChunkSize int
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	return c
}

// state is the decoder FSM stage. Transitions follow the byte offset within
// the message; skip swallows everything up to the end-of-message marker.
type state uint8

const (
	stateIdle state = iota
	stateHeader
	stateOrderRef
	stateStock
	statePrice
	stateSkip
)

// Stats counts decoder activity.
type Stats struct {
	Messages  uint64 // end-of-message markers observed
	AddOrders uint64 // complete Add Orders emitted
	Skipped   uint64 // messages with an unrecognized type byte
	Truncated uint64 // Add Orders cut off before the terminal field
}

// Decoder recognizes Add Order messages inside a chunked byte stream. It
// accumulates multi-byte fields into registers keyed by the byte offset
// within the message, big-endian, and never buffers more than one chunk.
// Construct one per stream; it carries no ambient global state.
type Decoder struct {
	cfg     Config
	st      state
	off     int
	order   schema.AddOrder
	emitted bool
	stats   Stats
}

// NewDecoder creates a decoder in the idle state.
func NewDecoder(cfg Config) *Decoder {
	return &Decoder{cfg: cfg.withDefaults()}
}

// Stats returns a copy of the decoder counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Feed consumes one chunk. last marks the chunk as the final one of the
// current message. Feed never blocks and never retains the chunk; it
// returns a decoded order with ok=true at most once per message, on the
// call whose byte completes the price field. Malformed or truncated
// messages produce no order and are counted, never surfaced as errors.
func (d *Decoder) Feed(chunk []byte, last bool) (schema.AddOrder, bool) {
	var out schema.AddOrder
	ok := false
	for _, b := range chunk {
		if d.st == stateSkip {
			d.off++
			continue
		}
		if d.step(b) {
			out = d.order
			ok = true
			d.emitted = true
			d.stats.AddOrders++
			d.st = stateSkip // ignore padding up to the marker
		}
	}

	if last {
		d.stats.Messages++
		if !d.emitted && d.st != stateIdle && d.st != stateSkip {
			d.stats.Truncated++
		}
		d.st = stateIdle
		d.off = 0
		d.emitted = false
	}
	return out, ok
}

// step advances the FSM by one byte and reports message completion.
func (d *Decoder) step(b byte) bool {
	off := d.off
	d.off++

	switch {
	case off == 0:
		if b != TypeAddOrder {
			d.stats.Skipped++
			d.st = stateSkip
			return false
		}
		d.order = schema.AddOrder{}
		d.st = stateHeader

	case off <= 2:
		d.order.StockLocate = d.order.StockLocate<<8 | uint16(b)

	case off <= 4:
		d.order.TrackingNumber = d.order.TrackingNumber<<8 | uint16(b)

	case off <= 10:
		d.order.TimestampNs = d.order.TimestampNs<<8 | uint64(b)
		if off == 10 {
			d.st = stateOrderRef
		}

	case off <= 18:
		d.order.OrderRef = d.order.OrderRef<<8 | uint64(b)
		if off == 18 {
			d.st = stateStock
		}

	case off == 19:
		// The wire is trusted here: anything other than 'B' reads as sell.
		if b == 'B' {
			d.order.Side = schema.SideBuy
		} else {
			d.order.Side = schema.SideSell
		}

	case off <= 23:
		d.order.Shares = d.order.Shares<<8 | uint32(b)

	case off <= 31:
		d.order.Stock[off-24] = b
		if off == 31 {
			d.st = statePrice
		}

	case off <= 35:
		d.order.Price = d.order.Price<<8 | uint32(b)
		if off == 35 {
			return true
		}
	}
	return false
}
