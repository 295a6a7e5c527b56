package unitworld

import "github.com/go-gl/mathgl/mgl64"

const (
	// ActionPerTransformType is the number of actions of each kind: ± along X, Y and Z.
	ActionPerTransformType = 6
	TotalNumberOfActions   = 2 * ActionPerTransformType
)

type TransformType int

const (
	Translation TransformType = iota
	Rotation
)

// Action is a discrete move. Actions [0, 6) translate and [6, 12) rotate.
// Even actions move in the positive direction, odd ones in the negative direction.
type Action int

func (a Action) Valid() bool {
	return a >= 0 && a < TotalNumberOfActions
}

func (a Action) Type() TransformType {
	if a < ActionPerTransformType {
		return Translation
	}
	return Rotation
}

// Sign is +1 for even actions and -1 for odd ones.
func (a Action) Sign() float64 {
	if a%2 == 0 {
		return 1
	}
	return -1
}

// Axis returns 0, 1 or 2 for X, Y or Z.
func (a Action) Axis() int {
	return (int(a) - ActionPerTransformType*int(a.Type())) / 2
}

// Direction is the signed unit vector along Axis.
func (a Action) Direction() mgl64.Vec3 {
	var v mgl64.Vec3
	v[a.Axis()] = a.Sign()
	return v
}
