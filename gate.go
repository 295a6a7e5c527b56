package unitworld

import "github.com/akmonengine/unitworld/pose"

// IsValid reports whether the robot at the unit pose state does not touch the scene.
// Everything is valid until both the scene and the robot are loaded.
func (w *UnitWorld) IsValid(state pose.StateVector) bool {
	if w.sceneModel == nil || w.robotModel == nil {
		return true
	}
	return !w.oracle.Collide(w.sceneModel, w.perturbationTf, w.robotModel, pose.ToTransform(state))
}

// IsDisentangled is the bounding volume version of IsValid.
func (w *UnitWorld) IsDisentangled(state pose.StateVector) (bool, error) {
	if w.sceneModel == nil || w.robotModel == nil {
		return false, ErrModelsNotLoaded
	}
	return !w.oracle.CollideBB(w.sceneModel, w.perturbationTf, w.robotModel, pose.ToTransform(state)), nil
}
