package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/bus"
	"main/internal/itch"
	"main/internal/obs"
)

func TestPublishMessageReturnsAfterCancel(t *testing.T) {
	queue := bus.NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// First chunk fills the queue; with no consumer and a dead context
	// the remaining chunks must give up instead of retrying forever.
	done := make(chan struct{})
	go func() {
		defer close(done)
		publishMessage(ctx, queue, obs.NewMetrics(), make([]byte, itch.MessageLen), itch.DefaultChunkSize)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publishMessage kept retrying after cancellation")
	}
}

func TestPublishMessageDropsWholeMessageWhenFull(t *testing.T) {
	queue := bus.NewQueue(1)
	metrics := obs.NewMetrics()
	require.NoError(t, queue.TryPublish(bus.Chunk{}))

	publishMessage(context.Background(), queue, metrics, make([]byte, itch.MessageLen), itch.DefaultChunkSize)
	assert.Equal(t, uint64(1), metrics.Snapshot().QueueDrops)
}

func TestFeedSyntheticStopsOnCancel(t *testing.T) {
	queue := bus.NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- feedSynthetic(ctx, queue, obs.NewMetrics(), 1<<30, 42, itch.DefaultChunkSize)
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("feedSynthetic did not stop after cancellation")
	}
}
