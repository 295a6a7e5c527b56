package unitworld

import (
	"math"

	"github.com/akmonengine/unitworld/pose"
	"github.com/go-gl/mathgl/mgl64"
)

// ScaleToUnit picks the scale that fits the largest of the scene and the robot into a unit
// span. The robot span counts as 1 when no robot is loaded.
func (w *UnitWorld) ScaleToUnit() error {
	if w.scene == nil {
		return ErrModelsNotLoaded
	}

	sceneSpan := w.scene.BoundingBox().Span()
	robotSpan := 1.0
	if w.robot != nil {
		robotSpan = w.robot.BoundingBox().Span()
	}

	span := math.Max(sceneSpan, robotSpan)
	if span <= 0 {
		span = 1
	}
	w.scale = 1 / span

	return nil
}

// AngleModel rebuilds the unit frame: scale, then latitude around X, then longitude around Y
// (degrees). The robot is first recentered on its own center. Collision models are rebuilt.
func (w *UnitWorld) AngleModel(latitude, longitude float64) error {
	if w.scene == nil {
		return ErrModelsNotLoaded
	}

	place := func(provider SceneProvider) {
		provider.Scale(mgl64.Vec3{w.scale, w.scale, w.scale})
		provider.Rotate(mgl64.DegToRad(latitude), mgl64.Vec3{1, 0, 0})
		provider.Rotate(mgl64.DegToRad(longitude), mgl64.Vec3{0, 1, 0})
	}

	w.scene.ResetTransform()
	place(w.scene)
	w.calib = w.scene.CalibrationTransform()
	w.invCalib = w.calib.Inv()
	w.sceneModel = w.buildModel(w.scene)

	if w.robot != nil {
		w.robot.ResetTransform()
		w.robot.MoveToCenter()
		place(w.robot)
		w.robotModel = w.buildModel(w.robot)
	}

	w.logger.Debugw("unit frame rebuilt", "scale", w.scale, "latitude", latitude, "longitude", longitude)
	return nil
}

// EnforceRobotCenter overrides the point the robot is recentered on by AngleModel.
func (w *UnitWorld) EnforceRobotCenter(center mgl64.Vec3) error {
	if w.robot == nil {
		return ErrModelsNotLoaded
	}
	w.robot.OverrideCenter(center)
	return nil
}

// TranslateToUnitState maps the translation through the calibration matrix, keeps the rotation
// and applies the perturbation.
func (w *UnitWorld) TranslateToUnitState(state pose.StateVector) pose.StateVector {
	t, q := pose.Decompose(state)
	return w.ApplyPerturbation(pose.Compose(mgl64.TransformCoordinate(t, w.calib), q))
}

// TranslateFromUnitState is the inverse of TranslateToUnitState.
func (w *UnitWorld) TranslateFromUnitState(state pose.StateVector) pose.StateVector {
	t, q := pose.Decompose(w.UnapplyPerturbation(state))
	return pose.Compose(mgl64.TransformCoordinate(t, w.invCalib), q)
}

// ApplyPerturbation composes the perturbation on the left of state.
func (w *UnitWorld) ApplyPerturbation(state pose.StateVector) pose.StateVector {
	t, q := pose.Decompose(state)
	pt, pq := pose.Decompose(w.perturbation)

	return pose.Compose(pt.Add(pq.Rotate(t)), pq.Mul(q))
}

func (w *UnitWorld) UnapplyPerturbation(state pose.StateVector) pose.StateVector {
	t, q := pose.Decompose(state)
	pt, pq := pose.Decompose(w.perturbation)
	inv := pq.Inverse()

	return pose.Compose(inv.Rotate(t.Sub(pt)), inv.Mul(q))
}

func (w *UnitWorld) SetPerturbation(perturbation pose.StateVector) {
	w.perturbation = perturbation
	w.perturbationTf = pose.ToTransform(perturbation)
}

func (w *UnitWorld) Perturbation() pose.StateVector {
	return w.perturbation
}

// SetRobotState stores a reference pose for the robot. It does not affect validity queries.
func (w *UnitWorld) SetRobotState(state pose.StateVector) {
	w.robotState = state
}

func (w *UnitWorld) RobotState() pose.StateVector {
	return w.robotState
}

// SceneMatrix is the calibration transform of the scene, identity when none is loaded.
func (w *UnitWorld) SceneMatrix() mgl64.Mat4 {
	if w.scene == nil {
		return mgl64.Ident4()
	}
	return w.scene.CalibrationTransform()
}

func (w *UnitWorld) RobotMatrix() mgl64.Mat4 {
	if w.robot == nil {
		return mgl64.Ident4()
	}
	return w.robot.CalibrationTransform()
}

// CalibrationMatrix is the world to unit frame transform cached by the last AngleModel.
func (w *UnitWorld) CalibrationMatrix() mgl64.Mat4 {
	return w.calib
}

func (w *UnitWorld) Scale() float64 {
	return w.scale
}
