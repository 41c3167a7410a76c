package book

import (
	"fmt"

	"main/internal/schema"
)

const (
	// DefaultLevels is the bounded price-index range of each side.
	DefaultLevels = 4096
	// DefaultOffset is the tick index the center price maps to.
	DefaultOffset = 2048
)

// Config defines the book geometry. Wire prices map onto tick indices as
// idx = Offset + price - Center; indices outside [0, Levels) are a hard
// capacity limit, not an error to recover from.
type Config struct {
	Levels int
	Offset int
	Center uint32
}

func (c Config) withDefaults() Config {
	if c.Levels <= 0 {
		c.Levels = DefaultLevels
	}
	if c.Offset <= 0 {
		c.Offset = DefaultOffset
	}
	return c
}

// Validate checks the geometry.
func (c Config) Validate() error {
	if c.Offset >= c.Levels {
		return fmt.Errorf("book offset %d must be below levels %d", c.Offset, c.Levels)
	}
	return nil
}

// Book is a price-indexed limit order book: one aggregate quantity per
// tick level per side, with best-price registers. Tick index 0 doubles as
// the empty-side sentinel, mirroring the reference model. The book is the
// only state mutated across events and is owned by a single writer.
type Book struct {
	cfg Config

	bids []uint32
	asks []uint32

	bestBid int // tick index, 0 when the bid side is empty
	bestAsk int // tick index, 0 when the ask side is empty

	bidMaker []uint64 // ref that established each resting bid level
	askMaker []uint64
}

// New allocates an empty book.
func New(cfg Config) (*Book, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Book{
		cfg:      cfg,
		bids:     make([]uint32, cfg.Levels),
		asks:     make([]uint32, cfg.Levels),
		bidMaker: make([]uint64, cfg.Levels),
		askMaker: make([]uint64, cfg.Levels),
	}, nil
}

// tickIndex maps a wire price to a tick index; ok is false outside the
// configured range.
func (b *Book) tickIndex(price uint32) (int, bool) {
	idx := b.cfg.Offset + int(int64(price)-int64(b.cfg.Center))
	if idx < 0 || idx >= b.cfg.Levels {
		return 0, false
	}
	return idx, true
}

// priceAt is the inverse of tickIndex.
func (b *Book) priceAt(idx int) uint32 {
	return uint32(int64(b.cfg.Center) + int64(idx-b.cfg.Offset))
}

// InRange reports whether a wire price falls inside the book's bounded
// tick range.
func (b *Book) InRange(price uint32) bool {
	_, ok := b.tickIndex(price)
	return ok
}

// BestBid returns the highest resting bid price, or 0 when the side is
// empty.
func (b *Book) BestBid() uint32 {
	if b.bestBid == 0 {
		return 0
	}
	return b.priceAt(b.bestBid)
}

// BestAsk returns the lowest resting ask price, or 0 when the side is
// empty.
func (b *Book) BestAsk() uint32 {
	if b.bestAsk == 0 {
		return 0
	}
	return b.priceAt(b.bestAsk)
}

// BidAt returns the resting quantity at a bid price.
func (b *Book) BidAt(price uint32) uint32 {
	if idx, ok := b.tickIndex(price); ok {
		return b.bids[idx]
	}
	return 0
}

// AskAt returns the resting quantity at an ask price.
func (b *Book) AskAt(price uint32) uint32 {
	if idx, ok := b.tickIndex(price); ok {
		return b.asks[idx]
	}
	return 0
}

// Resting sums all resting quantity on both sides.
func (b *Book) Resting() uint64 {
	var total uint64
	for i := range b.bids {
		total += uint64(b.bids[i]) + uint64(b.asks[i])
	}
	return total
}

// Submit applies one order and reports the outcome. Only the single best
// opposite level is ever matched against; an order larger than the resting
// quantity there fills partially and the remainder rests at its own price
// rather than sweeping deeper levels. Out-of-range prices are rejected
// with no mutation.
func (b *Book) Submit(side schema.Side, price, quantity uint32, ref uint64) schema.MatchResult {
	result := schema.MatchResult{TakerRef: ref}

	idx, ok := b.tickIndex(price)
	if !ok {
		return result
	}

	if side == schema.SideBuy {
		if b.bestAsk != 0 && idx >= b.bestAsk {
			matchQty := quantity
			if resting := b.asks[b.bestAsk]; resting < matchQty {
				matchQty = resting
			}
			result.Matched = true
			result.Price = b.priceAt(b.bestAsk)
			result.Quantity = matchQty
			result.MakerRef = b.askMaker[b.bestAsk]

			b.asks[b.bestAsk] -= matchQty
			if b.asks[b.bestAsk] == 0 {
				b.bestAsk = b.nextAskAbove(b.bestAsk)
			}

			if remaining := quantity - matchQty; remaining > 0 {
				b.restBid(idx, remaining, ref)
			}
		} else {
			b.restBid(idx, quantity, ref)
		}
		return result
	}

	if b.bestBid != 0 && idx <= b.bestBid {
		matchQty := quantity
		if resting := b.bids[b.bestBid]; resting < matchQty {
			matchQty = resting
		}
		result.Matched = true
		result.Price = b.priceAt(b.bestBid)
		result.Quantity = matchQty
		result.MakerRef = b.bidMaker[b.bestBid]

		b.bids[b.bestBid] -= matchQty
		if b.bids[b.bestBid] == 0 {
			b.bestBid = b.nextBidBelow(b.bestBid)
		}

		if remaining := quantity - matchQty; remaining > 0 {
			b.restAsk(idx, remaining, ref)
		}
	} else {
		b.restAsk(idx, quantity, ref)
	}
	return result
}

// restBid adds quantity at a bid level and raises the best-bid register
// when the level improves it.
func (b *Book) restBid(idx int, quantity uint32, ref uint64) {
	if b.bids[idx] == 0 {
		b.bidMaker[idx] = ref
	}
	b.bids[idx] += quantity
	if idx > b.bestBid || b.bestBid == 0 {
		b.bestBid = idx
	}
}

func (b *Book) restAsk(idx int, quantity uint32, ref uint64) {
	if b.asks[idx] == 0 {
		b.askMaker[idx] = ref
	}
	b.asks[idx] += quantity
	if idx < b.bestAsk || b.bestAsk == 0 {
		b.bestAsk = idx
	}
}

// nextAskAbove scans upward for the next nonempty ask level, returning 0
// when the side is empty. Linear, bounded by the level range.
func (b *Book) nextAskAbove(from int) int {
	for i := from + 1; i < b.cfg.Levels; i++ {
		if b.asks[i] > 0 {
			return i
		}
	}
	return 0
}

// nextBidBelow scans downward for the next nonempty bid level.
func (b *Book) nextBidBelow(from int) int {
	for i := from - 1; i > 0; i-- {
		if b.bids[i] > 0 {
			return i
		}
	}
	return 0
}
