package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akmonengine/unitworld"
	"github.com/akmonengine/unitworld/pose"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEngineConfig(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		path := writeConfig(t, "engine.json", `{
			"verify_delta": 0.01,
			"transit_magnitude": 0.5,
			"min_verify_delta": 1e-6,
			"workers": 3,
			"latitude": 30,
			"longitude": -45,
			"perturbation": [0.1, 0, 0, 1, 0, 0, 0],
			"oracle": "convex"
		}`)

		cfg, err := LoadEngineConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 0.01, cfg.GetVerifyDelta())
		assert.Equal(t, 0.5, cfg.GetTransitMagnitude())
		assert.Equal(t, 1e-6, cfg.GetMinVerifyDelta())
		assert.Equal(t, 3, cfg.GetWorkers())
		assert.Equal(t, 30.0, cfg.GetLatitude())
		assert.Equal(t, -45.0, cfg.GetLongitude())
		assert.Equal(t, pose.FromTranslation(mgl64.Vec3{0.1, 0, 0}), cfg.GetPerturbation())
		assert.Equal(t, OracleConvex, cfg.GetOracle())
	})

	t.Run("partial document keeps defaults", func(t *testing.T) {
		cfg, err := LoadEngineConfig(writeConfig(t, "engine.json", `{"workers": 2}`))
		require.NoError(t, err)

		defaults := DefaultEngineConfig()
		assert.Equal(t, *defaults.VerifyDelta, cfg.GetVerifyDelta())
		assert.Equal(t, *defaults.TransitMagnitude, cfg.GetTransitMagnitude())
		assert.Equal(t, unitworld.DefaultMinVerifyDelta, cfg.GetMinVerifyDelta())
		assert.Equal(t, pose.Identity(), cfg.GetPerturbation())
		assert.Equal(t, OracleMesh, cfg.GetOracle())
	})

	t.Run("wrong extension", func(t *testing.T) {
		_, err := LoadEngineConfig(writeConfig(t, "engine.yaml", `{}`))
		assert.ErrorContains(t, err, ".json extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadEngineConfig(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		big := `{"oracle": "mesh"` + strings.Repeat(" ", maxFileSize) + `}`
		_, err := LoadEngineConfig(writeConfig(t, "engine.json", big))
		assert.ErrorContains(t, err, "too large")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadEngineConfig(writeConfig(t, "engine.json", `{"verify_dleta": 0.1}`))
		assert.ErrorContains(t, err, "verify_dleta")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    EngineConfig
		errors int
	}{
		{"empty", EngineConfig{}, 0},
		{"defaults", *DefaultEngineConfig(), 0},
		{"zero verify delta", EngineConfig{VerifyDelta: ptrFloat64(0)}, 1},
		{"negative magnitude", EngineConfig{TransitMagnitude: ptrFloat64(-1)}, 1},
		{"negative workers", EngineConfig{Workers: ptrInt(-2)}, 1},
		{"short perturbation", EngineConfig{Perturbation: []float64{0, 0, 0}}, 1},
		{"non unit rotation", EngineConfig{Perturbation: []float64{0, 0, 0, 2, 0, 0, 0}}, 1},
		{"unknown oracle", EngineConfig{Oracle: ptrString("octree")}, 1},
		{
			"every error is reported",
			EngineConfig{VerifyDelta: ptrFloat64(-1), MinVerifyDelta: ptrFloat64(-1), Oracle: ptrString("x")},
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errors == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Len(t, multierr.Errors(err), tt.errors)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := &EngineConfig{Workers: ptrInt(3), MinVerifyDelta: ptrFloat64(1e-3)}
	w := unitworld.New(cfg.Options()...)
	assert.Equal(t, 3, w.Workers())

	convex := &EngineConfig{Oracle: ptrString(OracleConvex)}
	assert.Len(t, convex.Options(), 2)
}
