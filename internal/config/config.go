// Package config loads the tuning of a visibility run from a JSON document.
package config

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/akmonengine/unitworld"
	"github.com/akmonengine/unitworld/collide"
	"github.com/akmonengine/unitworld/pose"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	OracleMesh   = "mesh"
	OracleConvex = "convex"

	maxFileSize = 1 * 1024 * 1024
)

// EngineConfig is the JSON tuning document. Omitted fields fall back to the defaults of the
// Get methods.
type EngineConfig struct {
	VerifyDelta      *float64  `json:"verify_delta,omitempty"`
	TransitMagnitude *float64  `json:"transit_magnitude,omitempty"`
	MinVerifyDelta   *float64  `json:"min_verify_delta,omitempty"`
	Workers          *int      `json:"workers,omitempty"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	Perturbation     []float64 `json:"perturbation,omitempty"` // tx, ty, tz, qw, qx, qy, qz
	Oracle           *string   `json:"oracle,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// DefaultEngineConfig returns a config with every field set to its default.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		VerifyDelta:      ptrFloat64(0.0125),
		TransitMagnitude: ptrFloat64(0.25),
		MinVerifyDelta:   ptrFloat64(unitworld.DefaultMinVerifyDelta),
		Workers:          ptrInt(0),
		Latitude:         ptrFloat64(0),
		Longitude:        ptrFloat64(0),
		Perturbation:     []float64{0, 0, 0, 1, 0, 0, 0},
		Oracle:           ptrString(OracleMesh),
	}
}

// LoadEngineConfig reads a config from a .json file of at most 1 MiB. Unknown fields are
// rejected.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat config file")
	}
	if fileInfo.Size() > maxFileSize {
		return nil, errors.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	return ParseEngineConfig(data)
}

// ParseEngineConfig decodes and validates a config document.
func ParseEngineConfig(data []byte) (*EngineConfig, error) {
	cfg := &EngineConfig{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config JSON")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *EngineConfig) Validate() error {
	var err error

	positive := func(name string, v *float64) {
		if v != nil && !(*v > 0) {
			err = multierr.Append(err, errors.Errorf("%s must be positive, got %g", name, *v))
		}
	}
	finite := func(name string, v *float64) {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			err = multierr.Append(err, errors.Errorf("%s must be finite, got %g", name, *v))
		}
	}

	positive("verify_delta", c.VerifyDelta)
	positive("transit_magnitude", c.TransitMagnitude)
	if c.MinVerifyDelta != nil && !(*c.MinVerifyDelta >= 0) {
		err = multierr.Append(err, errors.Errorf("min_verify_delta must be non-negative, got %g", *c.MinVerifyDelta))
	}
	if c.Workers != nil && *c.Workers < 0 {
		err = multierr.Append(err, errors.Errorf("workers must be non-negative, got %d", *c.Workers))
	}
	finite("latitude", c.Latitude)
	finite("longitude", c.Longitude)

	if c.Perturbation != nil {
		if len(c.Perturbation) != len(pose.StateVector{}) {
			err = multierr.Append(err, errors.Errorf("perturbation must have %d values, got %d", len(pose.StateVector{}), len(c.Perturbation)))
		} else if q := c.GetPerturbation().Rotation(); math.Abs(q.Len()-1) > 1e-6 {
			err = multierr.Append(err, errors.Errorf("perturbation rotation must be a unit quaternion, norm %g", q.Len()))
		}
	}

	if c.Oracle != nil && *c.Oracle != OracleMesh && *c.Oracle != OracleConvex {
		err = multierr.Append(err, errors.Errorf("oracle must be %q or %q, got %q", OracleMesh, OracleConvex, *c.Oracle))
	}

	return err
}

func (c *EngineConfig) GetVerifyDelta() float64 {
	if c.VerifyDelta == nil {
		return *DefaultEngineConfig().VerifyDelta
	}
	return *c.VerifyDelta
}

func (c *EngineConfig) GetTransitMagnitude() float64 {
	if c.TransitMagnitude == nil {
		return *DefaultEngineConfig().TransitMagnitude
	}
	return *c.TransitMagnitude
}

func (c *EngineConfig) GetMinVerifyDelta() float64 {
	if c.MinVerifyDelta == nil {
		return unitworld.DefaultMinVerifyDelta
	}
	return *c.MinVerifyDelta
}

// GetWorkers returns the worker count, 0 meaning one per CPU.
func (c *EngineConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

func (c *EngineConfig) GetLatitude() float64 {
	if c.Latitude == nil {
		return 0
	}
	return *c.Latitude
}

func (c *EngineConfig) GetLongitude() float64 {
	if c.Longitude == nil {
		return 0
	}
	return *c.Longitude
}

// GetPerturbation returns the perturbation pose, identity when unset or malformed.
func (c *EngineConfig) GetPerturbation() pose.StateVector {
	var p pose.StateVector
	if len(c.Perturbation) != len(p) {
		return pose.Identity()
	}
	copy(p[:], c.Perturbation)
	return p
}

func (c *EngineConfig) GetOracle() string {
	if c.Oracle == nil {
		return OracleMesh
	}
	return *c.Oracle
}

// Options converts the engine part of the config into unitworld options.
func (c *EngineConfig) Options() []unitworld.Option {
	opts := []unitworld.Option{
		unitworld.WithMinVerifyDelta(c.GetMinVerifyDelta()),
	}

	switch c.GetOracle() {
	case OracleConvex:
		opts = append(opts, unitworld.WithOracle(collide.ConvexOracle{}))
	default:
		opts = append(opts, unitworld.WithOracle(collide.MeshOracle{}))
	}

	if workers := c.GetWorkers(); workers > 0 {
		opts = append(opts, unitworld.WithWorkers(workers))
	}

	return opts
}
