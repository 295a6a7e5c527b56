package unitworld

import (
	"github.com/akmonengine/unitworld/collide"
	"github.com/akmonengine/unitworld/pose"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ErrNoContactDetails is returned when the oracle cannot report which faces are in contact.
var ErrNoContactDetails = errors.New("oracle does not report contact details")

// Segments lists where the robot surface crosses the scene surface, one entry per face pair.
// Begins and Ends are in the unit frame.
type Segments struct {
	Begins     []mgl64.Vec3
	Ends       []mgl64.Vec3
	Magnitudes []float64
	Faces      []collide.FacePair
}

func (s Segments) Len() int {
	return len(s.Faces)
}

// IntersectingSegments returns the intersection segments between the scene and the robot at
// the unit pose. Face pairs are scene face first.
func (w *UnitWorld) IntersectingSegments(unit pose.StateVector) (Segments, error) {
	if w.sceneModel == nil || w.robotModel == nil {
		return Segments{}, ErrModelsNotLoaded
	}
	detail, ok := w.oracle.(collide.DetailOracle)
	if !ok {
		return Segments{}, ErrNoContactDetails
	}

	robotTf := pose.ToTransform(unit)
	pairs := detail.CollideForDetails(w.sceneModel, w.perturbationTf, w.robotModel, robotTf)
	found := collide.IntersectingSegments(w.sceneModel, w.perturbationTf, w.robotModel, robotTf, pairs)

	segments := Segments{
		Begins:     make([]mgl64.Vec3, 0, len(found)),
		Ends:       make([]mgl64.Vec3, 0, len(found)),
		Magnitudes: make([]float64, 0, len(found)),
		Faces:      make([]collide.FacePair, 0, len(found)),
	}
	for _, s := range found {
		segments.Begins = append(segments.Begins, s.Begin)
		segments.Ends = append(segments.Ends, s.End)
		segments.Magnitudes = append(segments.Magnitudes, s.Length())
		segments.Faces = append(segments.Faces, s.Faces)
	}

	w.logger.Debugw("intersecting segments", "pairs", len(pairs), "segments", segments.Len())
	return segments, nil
}

// ForceDirectionFromIntersectingSegments turns each segment into a push applied at its
// midpoint. The direction is the segment crossed with the robot face normal, oriented to
// agree with the scene face normal. A direction orthogonal to the scene normal is zero.
func (w *UnitWorld) ForceDirectionFromIntersectingSegments(unit pose.StateVector, segments Segments) ([]mgl64.Vec3, []mgl64.Vec3, error) {
	if w.sceneModel == nil || w.robotModel == nil {
		return nil, nil, ErrModelsNotLoaded
	}
	if len(segments.Begins) != len(segments.Faces) || len(segments.Ends) != len(segments.Faces) {
		return nil, nil, errors.Errorf("segments mismatch: %d begins, %d ends, %d face pairs",
			len(segments.Begins), len(segments.Ends), len(segments.Faces))
	}

	sceneMesh := w.sceneModel.Mesh()
	robotMesh := w.robotModel.Mesh()
	_, sceneRotation := pose.Decompose(w.perturbation)
	_, robotRotation := pose.Decompose(unit)

	positions := make([]mgl64.Vec3, len(segments.Faces))
	directions := make([]mgl64.Vec3, len(segments.Faces))
	for i, pair := range segments.Faces {
		if pair.A < 0 || pair.A >= len(sceneMesh.Faces) || pair.B < 0 || pair.B >= len(robotMesh.Faces) {
			return nil, nil, errors.Errorf("face pair %d out of range: %v", i, pair)
		}

		begin, end := segments.Begins[i], segments.Ends[i]
		positions[i] = begin.Add(end).Mul(0.5)

		sceneNormal := sceneRotation.Rotate(sceneMesh.FaceNormal(pair.A))
		robotNormal := robotRotation.Rotate(robotMesh.FaceNormal(pair.B))

		direction := end.Sub(begin).Cross(robotNormal)
		switch agreement := direction.Dot(sceneNormal); {
		case agreement < 0:
			direction = direction.Mul(-1)
		case agreement == 0:
			direction = mgl64.Vec3{}
		}
		directions[i] = direction
	}

	return positions, directions, nil
}

// Forces pairs positions and directions with one magnitude each.
func Forces(positions, directions []mgl64.Vec3, magnitude float64) []Force {
	forces := make([]Force, 0, min(len(positions), len(directions)))
	for i := range min(len(positions), len(directions)) {
		forces = append(forces, Force{Position: positions[i], Direction: directions[i], Magnitude: magnitude})
	}
	return forces
}

// PushRobot advances the robot from the unit pose under forces for dt and returns where it
// ends up. The result is not checked for validity.
func (w *UnitWorld) PushRobot(unit pose.StateVector, forces []Force, mass, dt float64, resetVelocity bool) (pose.StateVector, error) {
	if w.robotModel == nil {
		return unit, ErrModelsNotLoaded
	}
	if w.stepper == nil {
		return unit, errors.New("no stepper configured")
	}
	if mass <= 0 || dt < 0 {
		return unit, errors.Errorf("invalid push: mass %g, dt %g", mass, dt)
	}

	next := pose.Normalize(w.stepper.Step(unit, forces, mass, dt, resetVelocity))
	w.logger.Debugw("robot pushed", "forces", len(forces), "from", unit, "to", next)
	return next, nil
}
