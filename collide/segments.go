package collide

import "github.com/go-gl/mathgl/mgl64"

// Segment is where two intersecting faces cross, in world coordinates.
type Segment struct {
	Begin, End mgl64.Vec3
	Faces      FacePair
}

func (s Segment) Length() float64 {
	return s.End.Sub(s.Begin).Len()
}

// IntersectingSegments computes the crossing segment of each face pair.
// Coplanar pairs have no single segment and are skipped, as are pairs that no longer touch.
func IntersectingSegments(a Model, ta mgl64.Mat4, b Model, tb mgl64.Mat4, pairs []FacePair) []Segment {
	segments := make([]Segment, 0, len(pairs))
	for _, pair := range pairs {
		if pair.A < 0 || pair.A >= len(a.Mesh().Faces) || pair.B < 0 || pair.B >= len(b.Mesh().Faces) {
			continue
		}

		ra := worldTriangle(a, pair.A, ta)
		rb := worldTriangle(b, pair.B, tb)
		result := intersectTriangles(ra, rb)
		if !result.hit || result.coplanar {
			continue
		}
		segments = append(segments, Segment{Begin: result.begin, End: result.end, Faces: pair})
	}
	return segments
}

func worldTriangle(m Model, face int, xform mgl64.Mat4) triangle {
	t := m.Mesh().Triangle(face)
	return triangle{
		mgl64.TransformCoordinate(t[0], xform),
		mgl64.TransformCoordinate(t[1], xform),
		mgl64.TransformCoordinate(t[2], xform),
	}
}
