package ops

import (
	"encoding/json"
	"fmt"
	"os"

	"main/internal/book"
	"main/internal/engine"
	"main/internal/feature"
	"main/internal/itch"
	"main/internal/moe"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Pipeline PipelineConfig `json:"pipeline"`
	Book     BookConfig     `json:"book"`
	Trace    TraceConfig    `json:"trace"`
	Store    StoreConfig    `json:"store"`
	Model    *ModelConfig   `json:"model"`
}

// PipelineConfig holds the per-event processing options. The model
// dimensions are compiled into the inference stage; configured values are
// validated against them rather than resized at runtime.
type PipelineConfig struct {
	ChunkSize  int `json:"chunkSize"`
	NumExperts int `json:"numExperts"`
	TopK       int `json:"topK"`
	Features   int `json:"features"`
	HiddenDim  int `json:"hiddenDim"`
}

// BookConfig describes the order book geometry.
type BookConfig struct {
	Levels int    `json:"levels"`
	Offset int    `json:"offset"`
	Center uint32 `json:"centerPrice"`
}

// TraceConfig points at the trace log output.
type TraceConfig struct {
	Dir string `json:"dir"`
}

// StoreConfig enables the optional Postgres record sink.
type StoreConfig struct {
	ConnString string `json:"connString"`
}

// ModelConfig carries the model parameter blob as raw Q8.8 integers.
// Missing or misshapen parameters are fatal at startup, before any event
// is processed.
type ModelConfig struct {
	RouterWeights [][]int16      `json:"routerWeights"`
	RouterBiases  []int16        `json:"routerBiases"`
	Experts       []ExpertConfig `json:"experts"`
}

// ExpertConfig is one expert's parameter set, raw Q8.8.
type ExpertConfig struct {
	W1 [][]int16 `json:"w1"`
	B1 []int16   `json:"b1"`
	W2 []int16   `json:"w2"`
	B2 int16     `json:"b2"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Engine   engine.Config
	Model    *moe.Model
	TraceDir string
	Store    StoreConfig
}

// Load reads a JSON config file and resolves it. A nil model section
// falls back to the demonstration weight set.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, err
	}
	return resolve(cfg)
}

// Default returns the configuration used when no file is given.
func Default() Loaded {
	loaded, _ := resolve(FileConfig{})
	return loaded
}

func resolve(cfg FileConfig) (Loaded, error) {
	if err := validateDimensions(cfg.Pipeline); err != nil {
		return Loaded{}, err
	}

	model := DemoModel()
	if cfg.Model != nil {
		built, err := buildModel(*cfg.Model)
		if err != nil {
			return Loaded{}, fmt.Errorf("model: %w", err)
		}
		model = built
	}

	bookCfg := book.Config{
		Levels: cfg.Book.Levels,
		Offset: cfg.Book.Offset,
		Center: cfg.Book.Center,
	}
	if bookCfg.Center == 0 {
		bookCfg.Center = DefaultCenterPrice
	}

	traceDir := cfg.Trace.Dir
	if traceDir == "" {
		traceDir = "testdata/trace"
	}

	return Loaded{
		Engine: engine.Config{
			Decoder: itch.Config{ChunkSize: cfg.Pipeline.ChunkSize},
			Book:    bookCfg,
		},
		Model:    model,
		TraceDir: traceDir,
		Store:    cfg.Store,
	}, nil
}

// DefaultCenterPrice maps $10.0000 onto the book's center offset.
const DefaultCenterPrice uint32 = 100000

func validateDimensions(cfg PipelineConfig) error {
	if cfg.NumExperts != 0 && cfg.NumExperts != moe.NumExperts {
		return fmt.Errorf("numExperts %d unsupported, built for %d", cfg.NumExperts, moe.NumExperts)
	}
	if cfg.TopK != 0 && cfg.TopK != moe.TopK {
		return fmt.Errorf("topK %d unsupported, built for %d", cfg.TopK, moe.TopK)
	}
	if cfg.Features != 0 && cfg.Features != feature.Count {
		return fmt.Errorf("features %d unsupported, built for %d", cfg.Features, feature.Count)
	}
	if cfg.HiddenDim != 0 && cfg.HiddenDim != moe.HiddenDim {
		return fmt.Errorf("hiddenDim %d unsupported, built for %d", cfg.HiddenDim, moe.HiddenDim)
	}
	return nil
}
