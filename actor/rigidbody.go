package actor

import (
	"math"

	"github.com/akmonengine/unitworld/pose"
	"github.com/go-gl/mathgl/mgl64"
)

type BodyType int

const (
	// BodyTypeDynamic bodies move under the forces applied to them
	BodyTypeDynamic BodyType = iota
	// BodyTypeStatic bodies have infinite mass and never move
	BodyTypeStatic
)

type Material struct {
	Density float64
	mass    float64

	// Damping rates per second, 0 keeps every velocity
	LinearDamping  float64
	AngularDamping float64
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody is the robot seen as a free floating body, used to push it out of contact.
type RigidBody struct {
	Transform Transform

	Velocity        mgl64.Vec3 // units/s
	AngularVelocity mgl64.Vec3 // rad/s

	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	force  mgl64.Vec3
	torque mgl64.Vec3

	Material Material
	BodyType BodyType
	Shape    ShapeInterface
}

// NewRigidBody places shape at transform. density is ignored for static bodies.
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		BodyType:  bodyType,
	}

	if bodyType == BodyTypeStatic {
		rb.Material = Material{mass: math.Inf(1)}
		rb.InertiaLocal = shape.ComputeInertia(rb.Material.mass)
		rb.InverseInertiaLocal = mgl64.Mat3{}
	} else {
		rb.SetDensity(density)
	}
	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

// SetDensity recomputes mass and inertia of a dynamic body, keeping its velocities.
func (rb *RigidBody) SetDensity(density float64) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.Material.Density = density
	rb.Material.mass = rb.Shape.ComputeMass(density)
	rb.InertiaLocal = rb.Shape.ComputeInertia(rb.Material.mass)
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
}

// SetState teleports the body to state, keeping its velocities.
func (rb *RigidBody) SetState(state pose.StateVector) {
	rb.Transform = TransformFromState(state)
	rb.Shape.ComputeAABB(rb.Transform)
}

func (rb *RigidBody) State() pose.StateVector {
	return rb.Transform.State()
}

func (rb *RigidBody) Center() mgl64.Vec3 {
	return rb.Transform.Position
}

func (rb *RigidBody) ResetVelocity() {
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
}

// AddForce pushes through the center of mass.
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	rb.AddForceAtPosition(force, rb.Center())
}

// AddForceAtPosition pushes at a world point, adding the matching torque around the center.
func (rb *RigidBody) AddForceAtPosition(force, position mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.force = rb.force.Add(force)
	rb.torque = rb.torque.Add(position.Sub(rb.Center()).Cross(force))
}

// Integrate advances the body by dt with semi-implicit Euler and consumes the accumulated
// force and torque.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	acceleration := gravity.Add(rb.force.Mul(1 / rb.Material.mass))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt)).Mul(math.Exp(-rb.Material.LinearDamping * dt))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	angularAcceleration := rb.GetInverseInertiaWorld().Mul3x1(rb.torque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAcceleration.Mul(dt)).Mul(math.Exp(-rb.Material.AngularDamping * dt))

	// dq/dt = 1/2 (ω, 0) q
	spin := mgl64.Quat{V: rb.AngularVelocity}.Mul(rb.Transform.Rotation).Scale(0.5 * dt)
	rb.Transform.Rotation = rb.Transform.Rotation.Add(spin).Normalize()
	rb.Transform.InverseRotation = rb.Transform.Rotation.Inverse()

	rb.Shape.ComputeAABB(rb.Transform)
	rb.force = mgl64.Vec3{}
	rb.torque = mgl64.Vec3{}
}

// GetInverseInertiaWorld is R I⁻¹ Rᵀ, zero for static bodies.
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{}
	}
	r := rb.Transform.Rotation.Mat4().Mat3()
	return r.Mul3(rb.InverseInertiaLocal).Mul3(r.Transpose())
}
