package recorder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/schema"
)

func testRecord(seq uint64) schema.OrderRecord {
	return schema.OrderRecord{
		Seq:        seq,
		OrderRef:   1000 + seq,
		Side:       schema.SideBuy,
		Price:      100000 + uint32(seq),
		Shares:     100,
		BestBid:    99990,
		BestAsk:    100010,
		Action:     schema.ActionHold,
		Confidence: 0.03125,
	}
}

func TestWriterScanRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	for seq := uint64(1); seq <= 10; seq++ {
		require.NoError(t, w.TryAppendRecord(testRecord(seq), int64(seq*100), int64(seq*100+1)))
	}
	require.NoError(t, w.Close())

	var got []schema.OrderRecord
	err = ScanDir(dir, ScanOptions{}, func(h schema.EventHeader, rec schema.OrderRecord) error {
		assert.Equal(t, schema.EventOrderRecord, h.Type)
		assert.Equal(t, schema.SchemaVersion, h.Version)
		assert.Equal(t, rec.Seq, h.Seq)
		got = append(got, rec)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 10)
	for i, rec := range got {
		assert.Equal(t, testRecord(uint64(i+1)), rec)
	}
}

func TestWriterRotatesSegments(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.SegmentMaxBytes = 200
	w, err := NewWriter(cfg)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	for seq := uint64(1); seq <= 20; seq++ {
		require.NoError(t, w.TryAppendRecord(testRecord(seq), 0, 0))
	}
	require.NoError(t, w.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Greater(t, len(entries), 1)

	var count int
	require.NoError(t, ScanDir(dir, ScanOptions{}, func(schema.EventHeader, schema.OrderRecord) error {
		count++
		return nil
	}))
	assert.Equal(t, 20, count)
}

func TestScanDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.TryAppendRecord(testRecord(1), 0, 0))
	require.NoError(t, w.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	path := filepath.Join(dir, entries[0].Name())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[recordHeaderSize+3] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	err = ScanDir(dir, ScanOptions{}, func(schema.EventHeader, schema.OrderRecord) error {
		return nil
	})
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestAppendAfterCloseFails(t *testing.T) {
	w, err := NewWriter(DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.TryAppendRecord(testRecord(1), 0, 0), ErrClosed)
}
