package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// planeEpsilon snaps vertex-to-plane distances to zero.
const planeEpsilon = 1e-12

type triangle [3]mgl64.Vec3

func (t triangle) normal() (mgl64.Vec3, bool) {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	l := n.Len()
	if l == 0 {
		return mgl64.Vec3{}, false
	}
	return n.Mul(1 / l), true
}

// signedDistances returns the distances of t's corners to the plane (n, p0), snapped to zero.
func (t triangle) signedDistances(n, p0 mgl64.Vec3) [3]float64 {
	var d [3]float64
	for i, v := range t {
		d[i] = n.Dot(v.Sub(p0))
		if math.Abs(d[i]) < planeEpsilon {
			d[i] = 0
		}
	}
	return d
}

func sameSide(d [3]float64) bool {
	return (d[0] > 0 && d[1] > 0 && d[2] > 0) || (d[0] < 0 && d[1] < 0 && d[2] < 0)
}

// planeCrossing returns the points where t meets the plane it was measured against.
func (t triangle) planeCrossing(d [3]float64) []mgl64.Vec3 {
	points := make([]mgl64.Vec3, 0, 3)
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			points = append(points, t[i])
		}
	}
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		if d[i]*d[j] < 0 {
			s := d[i] / (d[i] - d[j])
			points = append(points, t[i].Add(t[j].Sub(t[i]).Mul(s)))
		}
	}
	return points
}

type triTriResult struct {
	hit      bool
	coplanar bool
	// segment of intersection, only set when hit and not coplanar
	begin, end mgl64.Vec3
}

// intersectTriangles is an interval overlap test in the spirit of Möller (1997).
// Both triangles are cut by the other's plane, the two cuts lie on the line shared by
// the planes and the triangles touch iff the cuts overlap on it.
func intersectTriangles(a, b triangle) triTriResult {
	na, okA := a.normal()
	nb, okB := b.normal()
	if !okA || !okB {
		return triTriResult{}
	}

	da := a.signedDistances(nb, b[0])
	if sameSide(da) {
		return triTriResult{}
	}
	db := b.signedDistances(na, a[0])
	if sameSide(db) {
		return triTriResult{}
	}

	if da == [3]float64{} {
		return triTriResult{hit: coplanarOverlap(a, b, na), coplanar: true}
	}

	cutA := a.planeCrossing(da)
	cutB := b.planeCrossing(db)
	if len(cutA) == 0 || len(cutB) == 0 {
		return triTriResult{}
	}

	direction := na.Cross(nb)
	loA, hiA := extremes(cutA, direction)
	loB, hiB := extremes(cutB, direction)

	lo, hi := loA, hiA
	if direction.Dot(loB) > direction.Dot(lo) {
		lo = loB
	}
	if direction.Dot(hiB) < direction.Dot(hi) {
		hi = hiB
	}

	if direction.Dot(lo) > direction.Dot(hi)+planeEpsilon {
		return triTriResult{}
	}
	return triTriResult{hit: true, begin: lo, end: hi}
}

// extremes returns the points of smallest and largest projection on direction.
func extremes(points []mgl64.Vec3, direction mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		if direction.Dot(p) < direction.Dot(lo) {
			lo = p
		}
		if direction.Dot(p) > direction.Dot(hi) {
			hi = p
		}
	}
	return lo, hi
}

// coplanarOverlap tests two triangles lying in the same plane in 2D, dropping the
// coordinate along which the normal is largest.
func coplanarOverlap(a, b triangle, n mgl64.Vec3) bool {
	drop := 0
	for i := 1; i < 3; i++ {
		if math.Abs(n[i]) > math.Abs(n[drop]) {
			drop = i
		}
	}
	u, v := (drop+1)%3, (drop+2)%3

	var pa, pb [3]mgl64.Vec2
	for i := 0; i < 3; i++ {
		pa[i] = mgl64.Vec2{a[i][u], a[i][v]}
		pb[i] = mgl64.Vec2{b[i][u], b[i][v]}
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if segmentsIntersect2D(pa[i], pa[(i+1)%3], pb[j], pb[(j+1)%3]) {
				return true
			}
		}
	}

	return pointInTriangle2D(pa[0], pb) || pointInTriangle2D(pb[0], pa)
}

func orient2D(a, b, c mgl64.Vec2) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment2D(a, b, p mgl64.Vec2) bool {
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}

func segmentsIntersect2D(p1, p2, q1, q2 mgl64.Vec2) bool {
	d1 := orient2D(q1, q2, p1)
	d2 := orient2D(q1, q2, p2)
	d3 := orient2D(p1, p2, q1)
	d4 := orient2D(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment2D(q1, q2, p1):
		return true
	case d2 == 0 && onSegment2D(q1, q2, p2):
		return true
	case d3 == 0 && onSegment2D(p1, p2, q1):
		return true
	case d4 == 0 && onSegment2D(p1, p2, q2):
		return true
	}
	return false
}

func pointInTriangle2D(p mgl64.Vec2, t [3]mgl64.Vec2) bool {
	d0 := orient2D(t[0], t[1], p)
	d1 := orient2D(t[1], t[2], p)
	d2 := orient2D(t[2], t[0], p)

	hasNeg := d0 < 0 || d1 < 0 || d2 < 0
	hasPos := d0 > 0 || d1 > 0 || d2 > 0
	return !(hasNeg && hasPos)
}
