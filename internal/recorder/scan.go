package recorder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"main/internal/codec"
	"main/internal/schema"
)

// ScanOptions controls a trace directory scan.
type ScanOptions struct {
	FilePrefix      string
	DisableChecksum bool
	MaxPayloadSize  int
}

// ScanDir reads every trace segment under dir in filename order and calls
// fn for each decoded order record. Segment filenames embed the open
// timestamp and a monotonic id, so lexical order is write order.
func ScanDir(dir string, opts ScanOptions, fn func(schema.EventHeader, schema.OrderRecord) error) error {
	prefix := opts.FilePrefix
	if prefix == "" {
		prefix = defaultFilePrefix
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var segments []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix+"-") || !strings.HasSuffix(name, ".trc") {
			continue
		}
		segments = append(segments, name)
	}
	sort.Strings(segments)

	for _, name := range segments {
		if err := scanSegment(filepath.Join(dir, name), opts, fn); err != nil {
			return fmt.Errorf("segment %s: %w", name, err)
		}
	}
	return nil
}

func scanSegment(path string, opts ScanOptions, fn func(schema.EventHeader, schema.OrderRecord) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	r := NewReader(file, ReaderOptions{
		DisableChecksum: opts.DisableChecksum,
		MaxPayloadSize:  opts.MaxPayloadSize,
	})
	for {
		header, payload, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if header.Type != schema.EventOrderRecord {
			continue
		}
		rec, ok := codec.DecodeOrderRecord(payload)
		if !ok {
			return fmt.Errorf("order record payload truncated at seq %d", header.Seq)
		}
		if err := fn(header, rec); err != nil {
			return err
		}
	}
}
