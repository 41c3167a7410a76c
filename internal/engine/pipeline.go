package engine

import (
	"time"

	"main/internal/book"
	"main/internal/feature"
	"main/internal/itch"
	"main/internal/moe"
	"main/internal/obs"
	"main/internal/schema"
)

// Config bundles the per-stage options.
type Config struct {
	Decoder itch.Config
	Book    book.Config
}

// Pipeline is the deterministic per-event path: decode, extract, route,
// infer, combine, match. One order's traversal completes before the next
// begins; the book is owned here and never touched by another stage.
type Pipeline struct {
	cfg     Config
	decoder *itch.Decoder
	model   *moe.Model
	book    *book.Book
	metrics *obs.Metrics
	seq     uint64
}

// New builds a pipeline around a loaded model. metrics may be nil.
func New(cfg Config, model *moe.Model, metrics *obs.Metrics) (*Pipeline, error) {
	b, err := book.New(cfg.Book)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:     cfg,
		decoder: itch.NewDecoder(cfg.Decoder),
		model:   model,
		book:    b,
		metrics: metrics,
	}, nil
}

// FeedChunk pushes one wire chunk through the decoder and, when a message
// completes, through the rest of the pipeline. Non-blocking: malformed
// input is dropped inside the decoder and surfaces only in the stats.
func (p *Pipeline) FeedChunk(chunk []byte, last bool) (schema.OrderRecord, bool) {
	order, ok := p.decoder.Feed(chunk, last)
	if !ok {
		return schema.OrderRecord{}, false
	}
	return p.ProcessOrder(order), true
}

// FeedMessage splits a whole message into configured-size chunks and feeds
// them with the end-of-message marker on the final chunk.
func (p *Pipeline) FeedMessage(msg []byte) (schema.OrderRecord, bool) {
	size := p.cfg.Decoder.ChunkSize
	if size <= 0 {
		size = itch.DefaultChunkSize
	}
	var (
		rec schema.OrderRecord
		ok  bool
	)
	for start := 0; start < len(msg); start += size {
		end := start + size
		if end > len(msg) {
			end = len(msg)
		}
		if r, emitted := p.FeedChunk(msg[start:end], end == len(msg)); emitted {
			rec, ok = r, true
		}
	}
	return rec, ok
}

// ProcessOrder runs one decoded order through inference and matching and
// returns its output record. The best bid/ask snapshot is taken before the
// order mutates the book, so the record reflects the decision inputs.
func (p *Pipeline) ProcessOrder(order schema.AddOrder) schema.OrderRecord {
	start := time.Now()

	bestBid, bestAsk := p.book.BestBid(), p.book.BestAsk()

	v := feature.Extract(order, bestBid, bestAsk)
	signal := p.model.Infer(v)
	signal.Price = order.Price
	signal.Quantity = order.Shares

	if !p.book.InRange(order.Price) {
		p.metrics.IncReject()
	}
	match := p.book.Submit(order.Side, order.Price, order.Shares, order.OrderRef)

	p.seq++
	rec := schema.OrderRecord{
		Seq:        p.seq,
		OrderRef:   order.OrderRef,
		Side:       order.Side,
		Price:      order.Price,
		Shares:     order.Shares,
		BestBid:    bestBid,
		BestAsk:    bestAsk,
		Action:     signal.Action,
		Confidence: signal.Confidence,
		Matched:    match.Matched,
		MatchPrice: match.Price,
		MatchQty:   match.Quantity,
	}

	p.metrics.ObserveRecord(rec)
	p.metrics.ObserveOrder(time.Since(start))
	return rec
}

// DecoderStats exposes the wire decoder counters.
func (p *Pipeline) DecoderStats() itch.Stats {
	return p.decoder.Stats()
}

// Book exposes the order book for inspection.
func (p *Pipeline) Book() *book.Book {
	return p.book
}
