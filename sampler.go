package unitworld

import (
	"math"

	"github.com/akmonengine/unitworld/pose"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Transition is the outcome of walking a path: the furthest sampled valid pose, whether the
// whole path was verified, and the fraction of the path reached.
type Transition struct {
	State    pose.StateVector
	Done     bool
	Progress float64
}

// TransitStateTo walks from toward to in steps of verifyDelta (pose distance units) and stops
// before the first invalid sample. A path no longer than one step is never verified: it
// returns from with no progress.
func (w *UnitWorld) TransitStateTo(from, to pose.StateVector, verifyDelta float64) Transition {
	dist := pose.Distance(from, to)
	if !(verifyDelta > 0) || verifyDelta >= dist {
		return Transition{State: from}
	}

	last := Transition{State: from}
	for delta := verifyDelta; ; delta += verifyDelta {
		delta = math.Min(delta, dist)
		tau := delta / dist

		state := pose.Interpolate(from, to, tau)
		if !w.IsValid(state) {
			return last
		}

		last = Transition{State: state, Progress: tau}
		if delta >= dist {
			last.Done = true
			return last
		}
	}
}

// TransitState applies a discrete action to a valid unit pose. Translations move magnitude
// along the action axis, rotations turn 2*magnitude radians around it.
//
// When no progress is made the resolution is halved and the walk retried, down to the
// minimum verify delta. An out of range action or an invalid start state is not an error:
// the state comes back unchanged with no progress.
func (w *UnitWorld) TransitState(state pose.StateVector, action Action, magnitude, verifyDelta float64) (Transition, error) {
	if !action.Valid() {
		return Transition{State: state}, nil
	}
	if !w.IsValid(state) {
		w.logger.Debugw("invalid initial state", "state", state)
		return Transition{State: state}, nil
	}

	target := actionTarget(state, action, magnitude)

	delta := verifyDelta
	for {
		result := w.TransitStateTo(state, target, delta)
		if !w.IsValid(result.State) {
			return result, errors.Wrapf(ErrSanityCheck, "action %d, verify delta %g", action, delta)
		}
		if result.Progress > 0 || !(delta > w.minVerifyDelta && delta > 0) {
			return result, nil
		}

		delta /= 2
		w.logger.Debugw("verify delta shrunk", "action", action, "delta", delta)
	}
}

func actionTarget(state pose.StateVector, action Action, magnitude float64) pose.StateVector {
	t, q := pose.Decompose(state)

	switch action.Type() {
	case Translation:
		t = t.Add(action.Direction().Mul(magnitude))
	case Rotation:
		q = mgl64.QuatRotate(2*magnitude, action.Direction()).Mul(q)
	}

	return pose.Compose(t, q)
}

// TransitStateBy walks from a pose to the pose translated by translation and then rotated by
// the axis-angle vector axisAngle (radians).
func (w *UnitWorld) TransitStateBy(from pose.StateVector, translation, axisAngle mgl64.Vec3, verifyDelta float64) Transition {
	t, q := pose.Decompose(from)
	t = t.Add(translation)
	if angle := axisAngle.Len(); angle > 0 {
		q = mgl64.QuatRotate(angle, axisAngle.Mul(1/angle)).Mul(q)
	}

	return w.TransitStateTo(from, pose.Compose(t, q), verifyDelta)
}

// IsValidTransition reports whether the straight motion between two unit poses is valid.
// The resolution is capped to half the path so at least two samples are taken.
func (w *UnitWorld) IsValidTransition(from, to pose.StateVector, initialVerifyDelta float64) bool {
	dist := pose.Distance(from, to)
	return w.TransitStateTo(from, to, math.Min(dist/2, initialVerifyDelta)).Done
}
