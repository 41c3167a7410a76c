package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/moe"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	loaded, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultCenterPrice, loaded.Engine.Book.Center)
	assert.Equal(t, 0, loaded.Engine.Decoder.ChunkSize)
	assert.NotNil(t, loaded.Model)
	assert.Equal(t, "testdata/trace", loaded.TraceDir)
}

func TestLoadFullConfig(t *testing.T) {
	loaded, err := Load(writeConfig(t, `{
		"pipeline": {"chunkSize": 4, "numExperts": 8, "topK": 2, "features": 8, "hiddenDim": 16},
		"book": {"levels": 1024, "offset": 512, "centerPrice": 200000},
		"trace": {"dir": "/tmp/trace"},
		"store": {"connString": "host=localhost"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 4, loaded.Engine.Decoder.ChunkSize)
	assert.Equal(t, 1024, loaded.Engine.Book.Levels)
	assert.Equal(t, 512, loaded.Engine.Book.Offset)
	assert.Equal(t, uint32(200000), loaded.Engine.Book.Center)
	assert.Equal(t, "/tmp/trace", loaded.TraceDir)
	assert.Equal(t, "host=localhost", loaded.Store.ConnString)
}

func TestLoadRejectsDimensionMismatch(t *testing.T) {
	_, err := Load(writeConfig(t, `{"pipeline": {"numExperts": 4}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numExperts")

	_, err = Load(writeConfig(t, `{"pipeline": {"hiddenDim": 32}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hiddenDim")
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load(writeConfig(t, `{"pipeline":`))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestBuildModelRejectsBadShapes(t *testing.T) {
	cfg := demoBlob()
	cfg.RouterBiases = cfg.RouterBiases[:7]
	_, err := buildModel(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "router biases")

	cfg = demoBlob()
	cfg.Experts[3].W1[5] = cfg.Experts[3].W1[5][:6]
	_, err = buildModel(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expert 3")

	cfg = demoBlob()
	cfg.Experts = cfg.Experts[:5]
	_, err = buildModel(cfg)
	require.Error(t, err)
}

func TestBuildModelMatchesRawValues(t *testing.T) {
	cfg := demoBlob()
	m, err := buildModel(cfg)
	require.NoError(t, err)

	demo := DemoModel()
	assert.Equal(t, demo, m)
}

func TestDemoModelDeterministic(t *testing.T) {
	m := DemoModel()

	// Spot checks against the closed-form weight pattern.
	assert.Equal(t, int16(-25), m.Router.Weights[0][0].Raw())
	assert.Equal(t, int16(2), m.Router.Biases[1].Raw())
	assert.Equal(t, int16(-25), m.Experts[0].W2[0].Raw())
	assert.Equal(t, int16(0), m.Experts[0].B2.Raw())

	assert.Equal(t, m, DemoModel())
}

// demoBlob serializes the demonstration weights into the raw config form.
func demoBlob() ModelConfig {
	demo := DemoModel()
	cfg := ModelConfig{
		RouterWeights: make([][]int16, moe.NumExperts),
		RouterBiases:  make([]int16, moe.NumExperts),
		Experts:       make([]ExpertConfig, moe.NumExperts),
	}
	for e := 0; e < moe.NumExperts; e++ {
		cfg.RouterWeights[e] = make([]int16, len(demo.Router.Weights[e]))
		for f, w := range demo.Router.Weights[e] {
			cfg.RouterWeights[e][f] = w.Raw()
		}
		cfg.RouterBiases[e] = demo.Router.Biases[e].Raw()

		ec := &cfg.Experts[e]
		ec.W1 = make([][]int16, moe.HiddenDim)
		ec.B1 = make([]int16, moe.HiddenDim)
		ec.W2 = make([]int16, moe.HiddenDim)
		for h := 0; h < moe.HiddenDim; h++ {
			ec.W1[h] = make([]int16, len(demo.Experts[e].W1[h]))
			for f, w := range demo.Experts[e].W1[h] {
				ec.W1[h][f] = w.Raw()
			}
			ec.B1[h] = demo.Experts[e].B1[h].Raw()
			ec.W2[h] = demo.Experts[e].W2[h].Raw()
		}
		ec.B2 = demo.Experts[e].B2.Raw()
	}
	return cfg
}
