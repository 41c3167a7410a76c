package bus

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/yanun0323/pkg/sys"
)

var (
	ErrQueueFull   = errors.New("chunk queue full")
	ErrQueueClosed = errors.New("chunk queue closed")
)

// Chunk is one wire delivery unit with its end-of-message marker.
type Chunk struct {
	Data []byte
	Last bool
}

// Queue is a bounded, non-blocking chunk queue. A single consumer drains
// it, which serializes every book mutation and preserves FIFO order even
// when producers run on multiple goroutines.
type Queue struct {
	ch     chan Chunk
	closed uint32
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan Chunk, capacity)}
}

// TryPublish enqueues a chunk without blocking.
func (q *Queue) TryPublish(c Chunk) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return ErrQueueClosed
	}
	select {
	case q.ch <- c:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the queue from accepting new chunks.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Run consumes chunks until the context is done, the process is shutting
// down, or the queue is closed.
func (q *Queue) Run(ctx context.Context, handler func(Chunk)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sys.Shutdown():
			return
		case c, ok := <-q.ch:
			if !ok {
				return
			}
			handler(c)
		}
	}
}
