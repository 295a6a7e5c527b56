package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeInterface is a convex volume in its local frame.
type ShapeInterface interface {
	// ComputeAABB caches the world box of the shape placed by transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	ComputeMass(density float64) float64
	// ComputeInertia returns the local inertia tensor around the center of mass
	ComputeInertia(mass float64) mgl64.Mat3
	// Support returns the furthest local point of the shape along direction
	Support(direction mgl64.Vec3) mgl64.Vec3
}

func diagonal(x, y, z float64) mgl64.Mat3 {
	return mgl64.Mat3{
		x, 0, 0,
		0, y, 0,
		0, 0, z,
	}
}

// Box is centered on the origin, HalfExtents along each axis.
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) corners() [8]mgl64.Vec3 {
	var corners [8]mgl64.Vec3
	for i := range corners {
		for axis := 0; axis < 3; axis++ {
			corners[i][axis] = b.HalfExtents[axis]
			if i&(1<<axis) == 0 {
				corners[i][axis] = -corners[i][axis]
			}
		}
	}
	return corners
}

func (b *Box) ComputeAABB(transform Transform) {
	box := EmptyAABB()
	for _, corner := range b.corners() {
		box = box.Extend(transform.Apply(corner))
	}
	b.aabb = box
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

func (b *Box) ComputeMass(density float64) float64 {
	size := b.HalfExtents.Mul(2)
	return density * size.X() * size.Y() * size.Z()
}

// ComputeInertia is the solid cuboid tensor m/12 * (d1² + d2²).
func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	size := b.HalfExtents.Mul(2)
	x2, y2, z2 := size.X()*size.X(), size.Y()*size.Y(), size.Z()*size.Z()

	return diagonal(y2+z2, x2+z2, x2+y2).Mul(mass / 12)
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	support := b.HalfExtents
	for axis := 0; axis < 3; axis++ {
		if direction[axis] < 0 {
			support[axis] = -support[axis]
		}
	}
	return support
}

// Sphere is centered on the origin. PushRobot models the robot inertia with it.
type Sphere struct {
	Radius float64
	aabb   AABB
}

func (s *Sphere) ComputeAABB(transform Transform) {
	r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	s.aabb = AABB{Min: transform.Position.Sub(r), Max: transform.Position.Add(r)}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

func (s *Sphere) ComputeMass(density float64) float64 {
	return density * 4 / 3 * math.Pi * s.Radius * s.Radius * s.Radius
}

// ComputeInertia is the solid ball tensor 2/5 * m * r².
func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	i := 0.4 * mass * s.Radius * s.Radius
	return diagonal(i, i, i)
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() == 0 {
		return mgl64.Vec3{}
	}
	return direction.Normalize().Mul(s.Radius)
}

// ConvexHull is the convex envelope of a point cloud, typically the vertices of a mesh.
// Only the support mapping is needed by GJK so the hull faces are never built.
type ConvexHull struct {
	Points []mgl64.Vec3
	aabb   AABB
}

func (h *ConvexHull) ComputeAABB(transform Transform) {
	box := EmptyAABB()
	for _, p := range h.Points {
		box = box.Extend(transform.Apply(p))
	}
	h.aabb = box
}

func (h *ConvexHull) GetAABB() AABB {
	return h.aabb
}

func (h *ConvexHull) bounds() *Box {
	return &Box{HalfExtents: AABBFromPoints(h.Points...).Size().Mul(0.5)}
}

// ComputeMass approximates the hull volume with its local bounding box
func (h *ConvexHull) ComputeMass(density float64) float64 {
	return h.bounds().ComputeMass(density)
}

func (h *ConvexHull) ComputeInertia(mass float64) mgl64.Mat3 {
	return h.bounds().ComputeInertia(mass)
}

func (h *ConvexHull) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if len(h.Points) == 0 {
		return mgl64.Vec3{}
	}

	best := h.Points[0]
	bestDot := best.Dot(direction)
	for _, p := range h.Points[1:] {
		if d := p.Dot(direction); d > bestDot {
			best, bestDot = p, d
		}
	}
	return best
}
