package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will initialize
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// AABBFromPoints returns the smallest box enclosing all points
func AABBFromPoints(points ...mgl64.Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.Extend(p)
	}
	return box
}

// IsEmpty reports whether the box encloses nothing
func (a AABB) IsEmpty() bool {
	return a.Min.X() > a.Max.X() || a.Min.Y() > a.Max.Y() || a.Min.Z() > a.Max.Z()
}

// Extend grows the box to include point
func (a AABB) Extend(point mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = math.Min(a.Min[i], point[i])
		a.Max[i] = math.Max(a.Max[i], point[i])
	}
	return a
}

// Union returns the box enclosing both a and other
func (a AABB) Union(other AABB) AABB {
	if other.IsEmpty() {
		return a
	}
	return a.Extend(other.Min).Extend(other.Max)
}

// Size returns the extent of the box along each axis
func (a AABB) Size() mgl64.Vec3 {
	if a.IsEmpty() {
		return mgl64.Vec3{}
	}
	return a.Max.Sub(a.Min)
}

// Span is the length of the box diagonal
func (a AABB) Span() float64 {
	return a.Size().Len()
}

// Center returns the middle of the box
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// LongestAxis returns 0, 1 or 2 for the axis with the largest extent
func (a AABB) LongestAxis() int {
	size := a.Size()
	axis := 0
	for i := 1; i < 3; i++ {
		if size[i] > size[axis] {
			axis = i
		}
	}
	return axis
}

// Transformed returns the world box enclosing this box once moved by m
func (a AABB) Transformed(m mgl64.Mat4) AABB {
	if a.IsEmpty() {
		return a
	}

	box := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{a.Min.X(), a.Min.Y(), a.Min.Z()}
		if i&1 != 0 {
			corner[0] = a.Max.X()
		}
		if i&2 != 0 {
			corner[1] = a.Max.Y()
		}
		if i&4 != 0 {
			corner[2] = a.Max.Z()
		}
		box = box.Extend(mgl64.TransformCoordinate(corner, m))
	}
	return box
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}
