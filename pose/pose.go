// Package pose implements the 7-scalar rigid pose used across the engine.
//
// A StateVector stores a translation followed by a unit quaternion in W-first order:
//
//	(tx, ty, tz, qw, qx, qy, qz)
//
// Poses are plain values. Every function returns a new StateVector and never mutates
// its arguments.
package pose

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

// StateVector is a rigid pose: translation + W-first unit quaternion.
type StateVector [7]float64

// Identity returns the pose with zero translation and no rotation.
func Identity() StateVector {
	return StateVector{0, 0, 0, 1, 0, 0, 0}
}

// FromTranslation returns an unrotated pose located at t.
func FromTranslation(t mgl64.Vec3) StateVector {
	return Compose(t, mgl64.QuatIdent())
}

// FromAxisAngle returns a pose at t rotated by angle (radians) around axis.
func FromAxisAngle(t mgl64.Vec3, angle float64, axis mgl64.Vec3) StateVector {
	return Compose(t, mgl64.QuatRotate(angle, axis.Normalize()))
}

// Decompose splits the pose into its translation and rotation parts.
func Decompose(s StateVector) (mgl64.Vec3, mgl64.Quat) {
	return mgl64.Vec3{s[0], s[1], s[2]}, mgl64.Quat{W: s[3], V: mgl64.Vec3{s[4], s[5], s[6]}}
}

// Compose joins a translation and a rotation into a pose.
func Compose(t mgl64.Vec3, q mgl64.Quat) StateVector {
	return StateVector{t[0], t[1], t[2], q.W, q.V[0], q.V[1], q.V[2]}
}

// Translation returns the translation part of the pose.
func (s StateVector) Translation() mgl64.Vec3 {
	return mgl64.Vec3{s[0], s[1], s[2]}
}

// Rotation returns the quaternion part of the pose.
func (s StateVector) Rotation() mgl64.Quat {
	return mgl64.Quat{W: s[3], V: mgl64.Vec3{s[4], s[5], s[6]}}
}

// Normalize renormalizes the quaternion part.
func Normalize(s StateVector) StateVector {
	t, q := Decompose(s)
	return Compose(t, q.Normalize())
}

// ToTransform returns the rigid transform matrix of the pose: rotation first, then translation.
func ToTransform(s StateVector) mgl64.Mat4 {
	t, q := Decompose(s)
	m := q.Normalize().Mat4()
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}

// Interpolate moves from `from` toward `to` by tau in [0, 1].
// Translation is linear, rotation follows the shortest great arc.
func Interpolate(from, to StateVector, tau float64) StateVector {
	switch {
	case tau <= 0:
		return from
	case tau >= 1:
		return to
	}

	t0, q0 := Decompose(from)
	t1, q1 := Decompose(to)

	t := t0.Add(t1.Sub(t0).Mul(tau))

	// q and -q are the same orientation, pick the closer representative
	if q0.Dot(q1) < 0 {
		q1 = q1.Scale(-1)
	}

	return Compose(t, mgl64.QuatSlerp(q0, q1, tau))
}

// Distance is the translation length plus the shortest rotation angle (radians).
// It is the arc-length unit of every verify delta in the engine.
func Distance(from, to StateVector) float64 {
	t0, q0 := Decompose(from)
	t1, q1 := Decompose(to)

	return floats.Distance(t0[:], t1[:], 2) + AngularDistance(q0, q1)
}

// AngularDistance returns the shortest rotation angle between two orientations.
func AngularDistance(q0, q1 mgl64.Quat) float64 {
	d := q0.Normalize().Inverse().Mul(q1.Normalize())
	return 2 * math.Atan2(d.V.Len(), math.Abs(d.W))
}

// ApproxEqual compares two poses component-wise within eps, treating q and -q as equal.
func ApproxEqual(a, b StateVector, eps float64) bool {
	ta, qa := Decompose(a)
	tb, qb := Decompose(b)
	if !ta.ApproxEqualThreshold(tb, eps) {
		return false
	}
	if qa.Dot(qb) < 0 {
		qb = qb.Scale(-1)
	}
	return math.Abs(qa.W-qb.W) <= eps && qa.V.ApproxEqualThreshold(qb.V, eps)
}
