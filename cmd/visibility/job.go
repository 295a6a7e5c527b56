package main

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/akmonengine/unitworld"
	"github.com/akmonengine/unitworld/mesh"
	"github.com/akmonengine/unitworld/pose"
	"github.com/akmonengine/unitworld/scene"
	"github.com/deadsy/sdfx/sdf"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

const (
	ShapeBox    = "box"
	ShapeSphere = "sphere"
)

// Shape is one solid of a scene or robot description.
type Shape struct {
	Kind        string     `json:"kind"`
	Center      [3]float64 `json:"center"`
	HalfExtents [3]float64 `json:"half_extents,omitempty"`
	Radius      float64    `json:"radius,omitempty"`
	// Cells is the marching cubes resolution of curved shapes
	Cells int `json:"cells,omitempty"`
}

// Job describes a bipartite visibility computation.
type Job struct {
	Scene       []Shape      `json:"scene"`
	Robot       []Shape      `json:"robot"`
	RobotCenter *[3]float64  `json:"robot_center,omitempty"`
	A           [][7]float64 `json:"a"`
	AUnit       bool         `json:"a_unit"`
	B           [][7]float64 `json:"b"`
	BUnit       bool         `json:"b_unit"`
}

// BlockResult is the JSON output of calc.
type BlockResult struct {
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	RowStart int    `json:"row_start"`
	RowEnd   int    `json:"row_end"`
	ColStart int    `json:"col_start"`
	ColEnd   int    `json:"col_end"`
	Valid    int    `json:"valid"`
	Data     []int8 `json:"data"`
}

// TransitResult is the JSON output of transit: one entry per pose of A, in the frame of A.
type TransitResult struct {
	Action    int          `json:"action"`
	Magnitude float64      `json:"magnitude"`
	States    [][7]float64 `json:"states"`
	Progress  []float64    `json:"progress"`
	Done      []bool       `json:"done"`
}

func loadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read job")
	}
	return parseJob(data)
}

func parseJob(data []byte) (*Job, error) {
	job := &Job{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(job); err != nil {
		return nil, errors.Wrap(err, "failed to parse job JSON")
	}
	if len(job.Scene) == 0 {
		return nil, errors.New("job has no scene shapes")
	}
	if len(job.Robot) == 0 {
		return nil, errors.New("job has no robot shapes")
	}
	return job, nil
}

func (s Shape) mesh() (*mesh.Mesh, error) {
	center := mgl64.Vec3(s.Center)

	switch s.Kind {
	case ShapeBox, "":
		half := mgl64.Vec3(s.HalfExtents)
		if half.X() <= 0 || half.Y() <= 0 || half.Z() <= 0 {
			return nil, errors.Errorf("box half extents must be positive, got %v", half)
		}
		return mesh.Box(half).Transformed(mgl64.Translate3D(center.X(), center.Y(), center.Z())), nil
	case ShapeSphere:
		solid, err := sdf.Sphere3D(s.Radius)
		if err != nil {
			return nil, errors.Wrap(err, "invalid sphere")
		}
		cells := s.Cells
		if cells <= 0 {
			cells = mesh.DefaultCells
		}
		m, err := mesh.FromSDF(solid, cells)
		if err != nil {
			return nil, err
		}
		return m.Transformed(mgl64.Translate3D(center.X(), center.Y(), center.Z())), nil
	default:
		return nil, errors.Errorf("unknown shape kind %q", s.Kind)
	}
}

func buildScene(shapes []Shape) (*scene.Scene, error) {
	meshes := make([]*mesh.Mesh, 0, len(shapes))
	for i, shape := range shapes {
		m, err := shape.mesh()
		if err != nil {
			return nil, errors.Wrapf(err, "shape %d", i)
		}
		meshes = append(meshes, m)
	}
	return scene.New(mesh.Merge(meshes...))
}

func poses(raw [][7]float64) []pose.StateVector {
	out := make([]pose.StateVector, len(raw))
	for i, p := range raw {
		out[i] = pose.Normalize(pose.StateVector(p))
	}
	return out
}

// transitAll applies one action to every pose of A.
func transitAll(w *unitworld.UnitWorld, job *Job, action unitworld.Action, magnitude, verifyDelta float64) (TransitResult, error) {
	if !action.Valid() {
		return TransitResult{}, errors.Errorf("action %d out of range [0, %d)", action, unitworld.TotalNumberOfActions)
	}

	result := TransitResult{
		Action:    int(action),
		Magnitude: magnitude,
		States:    make([][7]float64, len(job.A)),
		Progress:  make([]float64, len(job.A)),
		Done:      make([]bool, len(job.A)),
	}
	for i, state := range poses(job.A) {
		if !job.AUnit {
			state = w.TranslateToUnitState(state)
		}

		tr, err := w.TransitState(state, action, magnitude, verifyDelta)
		if err != nil {
			return TransitResult{}, errors.Wrapf(err, "pose %d", i)
		}

		if !job.AUnit {
			tr.State = w.TranslateFromUnitState(tr.State)
		}
		result.States[i] = [7]float64(tr.State)
		result.Progress[i] = tr.Progress
		result.Done[i] = tr.Done
	}
	return result, nil
}
