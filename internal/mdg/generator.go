package mdg

import (
	"fmt"
	"math/rand"

	"main/internal/schema"
)

// PriceScale converts dollars to the wire price format with 4 implied
// decimal places.
const PriceScale = 10000

// defaultBaseTimestampNs is 9:30 AM in nanoseconds since midnight.
const defaultBaseTimestampNs = 34_200_000_000_000

var defaultSymbols = []string{"AAPL", "GOOG", "MSFT", "TSLA", "AMZN", "META", "NVDA", "AMD"}

// Config controls synthetic order flow generation.
type Config struct {
	Symbols         []string
	BasePrice       float64 // starting mid price in dollars
	Volatility      float64 // per-tick change stddev, fraction of price
	Seed            int64
	BaseTimestampNs uint64
}

func (c Config) withDefaults() Config {
	if len(c.Symbols) == 0 {
		c.Symbols = defaultSymbols
	}
	if c.BasePrice == 0 {
		c.BasePrice = 150.0
	}
	if c.Volatility == 0 {
		c.Volatility = 0.001
	}
	if c.BaseTimestampNs == 0 {
		c.BaseTimestampNs = defaultBaseTimestampNs
	}
	return c
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	for _, sym := range c.Symbols {
		if len(sym) == 0 || len(sym) > schema.SymbolLen {
			return fmt.Errorf("invalid generator config: symbol %q", sym)
		}
	}
	if c.BasePrice < 0 {
		return fmt.Errorf("invalid generator config: BasePrice must be >= 0")
	}
	if c.Volatility < 0 {
		return fmt.Errorf("invalid generator config: Volatility must be >= 0")
	}
	return nil
}

// Generator produces a seeded random walk of Add Order messages. Prices
// drift per symbol, sides lean against the last move, and inter-arrival
// gaps mix bursts with quiet periods. The same seed always yields the
// same sequence.
type Generator struct {
	cfg         Config
	rng         *rand.Rand
	prices      map[string]float64
	timestampNs uint64
	orderRef    uint64
}

// NewGenerator creates a generator from a validated config.
func NewGenerator(cfg Config) (*Generator, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(cfg.Symbols))
	for _, sym := range cfg.Symbols {
		prices[sym] = cfg.BasePrice
	}
	return &Generator{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		prices:      prices,
		timestampNs: cfg.BaseTimestampNs,
	}, nil
}

// Next produces the next synthetic order.
func (g *Generator) Next() schema.AddOrder {
	sym := g.cfg.Symbols[g.rng.Intn(len(g.cfg.Symbols))]

	change := g.rng.NormFloat64() * g.cfg.Volatility * g.prices[sym]
	mid := g.prices[sym] + change
	if mid < 1.0 {
		mid = 1.0
	}
	g.prices[sym] = mid

	// Lean against the last move: sells after an up tick, buys after a
	// down tick.
	buyProb := 0.5 - (change/mid)*10
	if buyProb < 0.3 {
		buyProb = 0.3
	} else if buyProb > 0.7 {
		buyProb = 0.7
	}
	side := schema.SideSell
	if g.rng.Float64() < buyProb {
		side = schema.SideBuy
	}

	// Buys sit below mid, sells above, 1 to 10 ticks out.
	ticks := float64(1 + g.rng.Intn(10))
	price := mid + ticks*0.01
	if side == schema.SideBuy {
		price = mid - ticks*0.01
	}

	lotSizes := [...]uint32{100, 100, 100, 200, 200, 300, 500, 1000}
	shares := lotSizes[g.rng.Intn(len(lotSizes))]

	if g.rng.Float64() < 0.2 {
		g.timestampNs += uint64(100 + g.rng.Intn(401))
	} else {
		g.timestampNs += uint64(1_000 + g.rng.Intn(9_001))
	}
	g.orderRef++

	order := schema.AddOrder{
		TimestampNs: g.timestampNs,
		OrderRef:    g.orderRef,
		Side:        side,
		Shares:      shares,
		Price:       uint32(price*PriceScale + 0.5),
	}
	copy(order.Stock[:], sym)
	for i := len(sym); i < schema.SymbolLen; i++ {
		order.Stock[i] = ' '
	}
	return order
}
