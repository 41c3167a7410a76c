package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/engine"
	"main/internal/itch"
	"main/internal/mdg"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/recorder"
	"main/internal/store"
	"main/pkg/conn"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	inputPath := flag.String("input", "", "Binary order feed file; empty means synthetic flow")
	orderCount := flag.Int("orders", 1000, "Synthetic order count when no input file is given")
	seed := flag.Int64("seed", 42, "Synthetic flow seed")
	chunkSize := flag.Int("chunk-size", 0, "Wire chunk size override (0=config)")
	traceDir := flag.String("trace-dir", "", "Trace log directory override")
	pgConn := flag.String("pg", "", "PostgreSQL connection string override")
	queueSize := flag.Int("queue-size", 4096, "Feed queue capacity")
	profileAddr := flag.String("pyroscope", "", "Pyroscope server address (empty=disabled)")
	flag.Parse()

	loaded := ops.Default()
	if *configPath != "" {
		var err error
		loaded, err = ops.Load(*configPath)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	}
	if *chunkSize > 0 {
		loaded.Engine.Decoder.ChunkSize = *chunkSize
	}
	if *traceDir != "" {
		loaded.TraceDir = *traceDir
	}
	if *pgConn != "" {
		loaded.Store.ConnString = *pgConn
	}

	if *profileAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "trade-engine",
			ServerAddress:   *profileAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer profiler.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, loaded, *inputPath, *orderCount, *seed, *queueSize); err != nil {
		log.Fatalf("engine failed: %v", err)
	}
}

func run(ctx context.Context, loaded ops.Loaded, inputPath string, orderCount int, seed int64, queueSize int) error {
	metrics := obs.NewMetrics()
	pipeline, err := engine.New(loaded.Engine, loaded.Model, metrics)
	if err != nil {
		return err
	}

	writer, err := recorder.NewWriter(recorder.DefaultConfig(loaded.TraceDir))
	if err != nil {
		return err
	}
	if err := writer.Start(ctx); err != nil {
		return err
	}

	var sink *store.Store
	if loaded.Store.ConnString != "" {
		sink, err = store.Open(conn.Option{ConnString: loaded.Store.ConnString})
		if err != nil {
			return fmt.Errorf("store open: %w", err)
		}
		defer func() {
			if err := sink.Close(); err != nil {
				logs.Errorf("store close, err: %+v", err)
			}
		}()
		logs.Info("record store enabled")
	}

	queue := bus.NewQueue(queueSize)
	done := make(chan struct{})
	go func() {
		defer close(done)
		queue.Run(ctx, func(c bus.Chunk) {
			rec, ok := pipeline.FeedChunk(c.Data, c.Last)
			if !ok {
				return
			}
			now := time.Now().UTC().UnixNano()
			if err := writer.TryAppendRecord(rec, now, now); err != nil {
				logs.Errorf("trace append seq %d, err: %+v", rec.Seq, err)
			}
			if sink != nil {
				if err := sink.Append(rec); err != nil {
					logs.Errorf("store append seq %d, err: %+v", rec.Seq, err)
				}
			}
		})
	}()

	if inputPath != "" {
		logs.Infof("feeding orders from %s", inputPath)
		err = feedFile(ctx, queue, metrics, inputPath, loaded.Engine.Decoder.ChunkSize)
	} else {
		logs.Infof("feeding %d synthetic orders, seed %d", orderCount, seed)
		err = feedSynthetic(ctx, queue, metrics, orderCount, seed, loaded.Engine.Decoder.ChunkSize)
	}
	queue.Close()
	<-done
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if err := writer.Close(); err != nil {
		return err
	}

	stats := pipeline.DecoderStats()
	metrics.AddDecodeDrops(stats.Skipped + stats.Truncated)
	report(metrics.Snapshot(), stats)
	return nil
}

// feedFile publishes a binary feed file as fixed-size message frames.
func feedFile(ctx context.Context, queue *bus.Queue, metrics *obs.Metrics, path string, chunkSize int) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	msg := make([]byte, itch.MessageLen)
	for ctx.Err() == nil {
		if _, err := io.ReadFull(file, msg); err != nil {
			if err == io.EOF {
				return nil
			}
			if err == io.ErrUnexpectedEOF {
				logs.Errorf("trailing partial message in %s", path)
				return nil
			}
			return err
		}
		publishMessage(ctx, queue, metrics, msg, chunkSize)
	}
	return ctx.Err()
}

// feedSynthetic publishes generated order flow.
func feedSynthetic(ctx context.Context, queue *bus.Queue, metrics *obs.Metrics, count int, seed int64, chunkSize int) error {
	gen, err := mdg.NewGenerator(mdg.Config{Seed: seed})
	if err != nil {
		return err
	}
	var msg [itch.MessageLen]byte
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		itch.EncodeAddOrder(msg[:], gen.Next())
		publishMessage(ctx, queue, metrics, msg[:], chunkSize)
	}
	return nil
}

// publishMessage enqueues one message as chunks. Messages are dropped
// whole when the queue is full: once the first chunk is accepted the rest
// must follow, or the consumer would see a spliced byte stream. The
// context bounds the wait for the consumer; after cancellation nothing
// drains the queue, so retrying would spin forever.
func publishMessage(ctx context.Context, queue *bus.Queue, metrics *obs.Metrics, msg []byte, chunkSize int) {
	if chunkSize <= 0 {
		chunkSize = itch.DefaultChunkSize
	}
	for start := 0; start < len(msg); start += chunkSize {
		end := start + chunkSize
		if end > len(msg) {
			end = len(msg)
		}
		chunk := bus.Chunk{Data: append([]byte(nil), msg[start:end]...), Last: end == len(msg)}
		for {
			err := queue.TryPublish(chunk)
			if err == nil {
				break
			}
			if err == bus.ErrQueueClosed || ctx.Err() != nil {
				return
			}
			if start == 0 {
				metrics.IncQueueDrop()
				return
			}
			time.Sleep(10 * time.Microsecond)
		}
	}
}

func report(snap obs.Snapshot, stats itch.Stats) {
	logs.Infof("wire: %d messages, %d add orders, %d skipped, %d truncated",
		stats.Messages, stats.AddOrders, stats.Skipped, stats.Truncated)
	logs.Infof("records: %d, matches: %d, rejects: %d, decode drops: %d, queue drops: %d",
		snap.Records, snap.Matches, snap.Rejects, snap.DecodeDrops, snap.QueueDrops)
	for action, count := range snap.ActionCounts {
		logs.Infof("action %s: %d", action, count)
	}
	if snap.OrderLatency.Count > 0 {
		logs.Infof("order latency: min %s avg %s max %s",
			snap.OrderLatency.Min, snap.OrderLatency.Avg, snap.OrderLatency.Max)
	}
}
