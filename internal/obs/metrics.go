package obs

import (
	"sync/atomic"
	"time"

	"main/internal/schema"
)

const maxAction = int(schema.ActionSell)

// Metrics collects lightweight pipeline counters and latency stats.
type Metrics struct {
	records      uint64
	actionCounts [maxAction + 1]uint64
	matches      uint64
	rejects      uint64
	decodeDrops  uint64
	queueDrops   uint64

	orderLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Records      uint64
	ActionCounts map[schema.TradeAction]uint64
	Matches      uint64
	Rejects      uint64
	DecodeDrops  uint64
	QueueDrops   uint64
	OrderLatency LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveRecord counts one processed order and its outcome.
func (m *Metrics) ObserveRecord(rec schema.OrderRecord) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.records, 1)
	if idx := int(rec.Action); idx >= 0 && idx < len(m.actionCounts) {
		atomic.AddUint64(&m.actionCounts[idx], 1)
	}
	if rec.Matched {
		atomic.AddUint64(&m.matches, 1)
	}
}

// IncReject records an out-of-range order rejection.
func (m *Metrics) IncReject() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.rejects, 1)
}

// AddDecodeDrops accumulates skipped or truncated wire messages.
func (m *Metrics) AddDecodeDrops(n uint64) {
	if m == nil || n == 0 {
		return
	}
	atomic.AddUint64(&m.decodeDrops, n)
}

// IncQueueDrop records a dropped chunk on the feed queue.
func (m *Metrics) IncQueueDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueDrops, 1)
}

// ObserveOrder measures one order's full pipeline traversal.
func (m *Metrics) ObserveOrder(d time.Duration) {
	if m == nil {
		return
	}
	m.orderLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	actions := make(map[schema.TradeAction]uint64)
	for i := range m.actionCounts {
		if v := atomic.LoadUint64(&m.actionCounts[i]); v > 0 {
			actions[schema.TradeAction(i)] = v
		}
	}
	return Snapshot{
		Records:      atomic.LoadUint64(&m.records),
		ActionCounts: actions,
		Matches:      atomic.LoadUint64(&m.matches),
		Rejects:      atomic.LoadUint64(&m.rejects),
		DecodeDrops:  atomic.LoadUint64(&m.decodeDrops),
		QueueDrops:   atomic.LoadUint64(&m.queueDrops),
		OrderLatency: m.orderLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&l.min)),
		Max:   time.Duration(atomic.LoadUint64(&l.max)),
		Avg:   time.Duration(atomic.LoadUint64(&l.sum) / count),
	}
}
