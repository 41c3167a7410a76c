package schema

// Side is the order side from the wire ('B' or 'S').
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

// ParseSide maps the wire byte to a Side.
func ParseSide(b byte) (Side, bool) {
	switch b {
	case 'B':
		return SideBuy, true
	case 'S':
		return SideSell, true
	default:
		return SideBuy, false
	}
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// SymbolLen is the fixed width of the stock symbol field on the wire.
const SymbolLen = 8

// AddOrder is one fully decoded Add Order message. It is immutable after
// the decoder emits it.
type AddOrder struct {
	StockLocate    uint16
	TrackingNumber uint16
	TimestampNs    uint64 // 48-bit nanoseconds since midnight
	OrderRef       uint64
	Side           Side
	Shares         uint32
	Stock          [SymbolLen]byte // ASCII, right-padded with spaces
	Price          uint32          // 4 implied decimal places
}

// Symbol returns the stock symbol with trailing spaces removed.
func (o AddOrder) Symbol() string {
	end := len(o.Stock)
	for end > 0 && o.Stock[end-1] == ' ' {
		end--
	}
	return string(o.Stock[:end])
}

// TradeAction is the ternary decision produced per order.
type TradeAction uint8

const (
	ActionHold TradeAction = iota
	ActionBuy
	ActionSell
)

func (a TradeAction) String() string {
	switch a {
	case ActionHold:
		return "hold"
	case ActionBuy:
		return "buy"
	case ActionSell:
		return "sell"
	default:
		return "unknown"
	}
}

// TradeSignal is the inference output for one order. It is not persisted;
// its fields are folded into the OrderRecord.
type TradeSignal struct {
	Action     TradeAction
	Confidence float64 // non-negative magnitude of the combined output
	Price      uint32
	Quantity   uint32
}

// MatchResult reports the book mutation caused by one order.
type MatchResult struct {
	Matched  bool
	Price    uint32 // execution price, always the resting best level
	Quantity uint32
	MakerRef uint64
	TakerRef uint64
}

// OrderRecord is the append-only output produced once per decoded order:
// the decision inputs, the decision, and the match outcome, suitable for
// replay comparison by external verification tooling.
type OrderRecord struct {
	Seq        uint64
	OrderRef   uint64
	Side       Side
	Price      uint32
	Shares     uint32
	BestBid    uint32 // book snapshot taken before the order was applied
	BestAsk    uint32
	Action     TradeAction
	Confidence float64
	Matched    bool
	MatchPrice uint32
	MatchQty   uint32
}
