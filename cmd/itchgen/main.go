package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"main/internal/itch"
	"main/internal/mdg"
	"main/internal/schema"
)

func main() {
	outputPath := flag.String("output", "testdata/orders.bin", "Output binary file path")
	csvPath := flag.String("csv", "", "Also write a human-readable CSV (optional)")
	orderCount := flag.Int("orders", 1000, "Number of orders to generate")
	seed := flag.Int64("seed", 42, "Random seed for reproducibility")
	symbolList := flag.String("symbols", "", "Comma-separated ticker symbols (empty=defaults)")
	basePrice := flag.Float64("base-price", 150.0, "Starting price in dollars")
	volatility := flag.Float64("volatility", 0.001, "Per-tick price change stddev, fraction of price")
	flag.Parse()

	if *orderCount <= 0 {
		log.Fatalf("orders must be > 0")
	}

	cfg := mdg.Config{
		BasePrice:  *basePrice,
		Volatility: *volatility,
		Seed:       *seed,
	}
	if *symbolList != "" {
		cfg.Symbols = strings.Split(*symbolList, ",")
	}
	gen, err := mdg.NewGenerator(cfg)
	if err != nil {
		log.Fatalf("generator: %v", err)
	}

	if err := write(gen, *orderCount, *outputPath, *csvPath); err != nil {
		log.Fatalf("generate failed: %v", err)
	}

	info, err := os.Stat(*outputPath)
	if err != nil {
		log.Fatalf("stat output: %v", err)
	}
	fmt.Printf("generated %d orders (%d bytes) -> %s\n", *orderCount, info.Size(), *outputPath)
	if *csvPath != "" {
		fmt.Printf("csv log -> %s\n", *csvPath)
	}
}

func write(gen *mdg.Generator, count int, binPath, csvPath string) error {
	if err := os.MkdirAll(filepath.Dir(binPath), 0o755); err != nil {
		return err
	}
	binFile, err := os.Create(binPath)
	if err != nil {
		return err
	}
	defer binFile.Close()
	out := bufio.NewWriter(binFile)

	var csvWriter *csv.Writer
	if csvPath != "" {
		if err := os.MkdirAll(filepath.Dir(csvPath), 0o755); err != nil {
			return err
		}
		csvFile, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		defer csvFile.Close()
		csvWriter = csv.NewWriter(csvFile)
		defer csvWriter.Flush()
		if err := csvWriter.Write([]string{"order_ref", "timestamp_ns", "side", "shares", "stock", "price_raw"}); err != nil {
			return err
		}
	}

	var msg [itch.MessageLen]byte
	for i := 0; i < count; i++ {
		order := gen.Next()
		itch.EncodeAddOrder(msg[:], order)
		if _, err := out.Write(msg[:]); err != nil {
			return err
		}
		if csvWriter != nil {
			side := "S"
			if order.Side == schema.SideBuy {
				side = "B"
			}
			row := []string{
				strconv.FormatUint(order.OrderRef, 10),
				strconv.FormatUint(order.TimestampNs, 10),
				side,
				strconv.FormatUint(uint64(order.Shares), 10),
				order.Symbol(),
				strconv.FormatUint(uint64(order.Price), 10),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
	}
	return out.Flush()
}
