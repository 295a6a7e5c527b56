package unitworld

import (
	"sync"

	"github.com/akmonengine/unitworld/actor"
	"github.com/akmonengine/unitworld/pose"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_SUBSTEPS = 8

// Force is applied at Position along Direction, scaled by Magnitude.
type Force struct {
	Position  mgl64.Vec3
	Direction mgl64.Vec3
	Magnitude float64
}

// Stepper advances a free-floating robot under point forces and returns its new pose.
type Stepper interface {
	Step(state pose.StateVector, forces []Force, mass, dt float64, resetVelocity bool) pose.StateVector
}

// Physics simulates the robot as a rigid sphere with no gravity and no contact.
// Velocities carry over between steps unless reset.
type Physics struct {
	Gravity  mgl64.Vec3
	Substeps int

	mu   sync.Mutex
	body *actor.RigidBody
}

// NewPhysics builds the simulation body once. radius sets the inertia of the sphere.
func NewPhysics(radius float64) *Physics {
	return &Physics{
		Substeps: DEFAULT_SUBSTEPS,
		body:     actor.NewRigidBody(actor.NewTransform(), &actor.Sphere{Radius: radius}, actor.BodyTypeDynamic, 1),
	}
}

// Step moves the body to state, applies forces for dt split in substeps and returns the
// resulting pose. mass is used as the density of the sphere.
func (p *Physics) Step(state pose.StateVector, forces []Force, mass, dt float64, resetVelocity bool) pose.StateVector {
	p.mu.Lock()
	defer p.mu.Unlock()

	if resetVelocity {
		p.body.ResetVelocity()
	}
	p.body.SetDensity(mass)
	p.body.SetState(state)

	substeps := max(1, p.Substeps)
	h := dt / float64(substeps)
	for range substeps {
		for _, f := range forces {
			direction := f.Direction
			if direction.LenSqr() > 0 {
				direction = direction.Normalize()
			}
			p.body.AddForceAtPosition(direction.Mul(f.Magnitude), f.Position)
		}
		p.body.Integrate(h, p.Gravity)
	}

	return p.body.State()
}
