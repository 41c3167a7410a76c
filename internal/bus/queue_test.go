package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePreservesOrder(t *testing.T) {
	q := NewQueue(16)
	for i := 0; i < 10; i++ {
		require.NoError(t, q.TryPublish(Chunk{Data: []byte{byte(i)}, Last: i == 9}))
	}
	q.Close()

	var got []byte
	q.Run(context.Background(), func(c Chunk) {
		got = append(got, c.Data[0])
	})
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestQueueFullDoesNotBlock(t *testing.T) {
	q := NewQueue(2)
	require.NoError(t, q.TryPublish(Chunk{}))
	require.NoError(t, q.TryPublish(Chunk{}))

	done := make(chan error, 1)
	go func() { done <- q.TryPublish(Chunk{}) }()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("TryPublish blocked on a full queue")
	}
}

func TestQueuePublishAfterClose(t *testing.T) {
	q := NewQueue(2)
	q.Close()
	assert.ErrorIs(t, q.TryPublish(Chunk{}), ErrQueueClosed)
}

func TestQueueRunStopsOnContext(t *testing.T) {
	q := NewQueue(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		q.Run(ctx, func(Chunk) {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}
