package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAABBOverlaps(t *testing.T) {
	unit := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	shifted := func(x, y, z float64) AABB {
		offset := mgl64.Vec3{x, y, z}
		return AABB{Min: unit.Min.Add(offset), Max: unit.Max.Add(offset)}
	}

	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"separated on X", shifted(2, 0, 0), false},
		{"separated on -Y", shifted(0, -1.5, 0), false},
		{"separated on Z", shifted(0, 0, 1.01), false},
		{"separated on one axis only", shifted(0.5, 0.5, 3), false},
		{"partial overlap", shifted(0.5, 0.5, 0.5), true},
		{"identical", unit, true},
		{"contained", AABB{Min: mgl64.Vec3{0.25, 0.25, 0.25}, Max: mgl64.Vec3{0.75, 0.75, 0.75}}, true},
		{"touching face", shifted(1, 0, 0), true},
		{"touching corner", shifted(1, 1, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.other.Overlaps(unit); got != tt.want {
				t.Errorf("Overlaps() is not symmetric")
			}
		})
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 2, 3}}

	tests := []struct {
		point mgl64.Vec3
		want  bool
	}{
		{mgl64.Vec3{0, 0, 0}, true},
		{mgl64.Vec3{1, 2, 3}, true},
		{mgl64.Vec3{-1, 0, 0}, true},
		{mgl64.Vec3{1.001, 0, 0}, false},
		{mgl64.Vec3{0, 0, -2}, false},
	}

	for _, tt := range tests {
		if got := box.ContainsPoint(tt.point); got != tt.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", tt.point, got, tt.want)
		}
	}
}

func TestAABBUnion(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	b := AABB{Min: mgl64.Vec3{-2, 0.5, 0}, Max: mgl64.Vec3{0, 3, 0.5}}

	u := a.Union(b)
	if !vec3Equal(u.Min, mgl64.Vec3{-2, 0, 0}, 1e-12) || !vec3Equal(u.Max, mgl64.Vec3{1, 3, 1}, 1e-12) {
		t.Errorf("Union = %v", u)
	}
	if got := a.Union(EmptyAABB()); got != a {
		t.Errorf("Union with an empty box = %v, want %v", got, a)
	}
	if got := EmptyAABB().Union(a); got != a {
		t.Errorf("empty Union = %v, want %v", got, a)
	}
	if !vec3Equal(b.Size(), mgl64.Vec3{2, 2.5, 0.5}, 1e-12) {
		t.Errorf("Size = %v", b.Size())
	}
	if math.IsInf(EmptyAABB().Size().X(), 0) {
		t.Error("empty box must have a zero size")
	}
}

func TestAABBExtendAndEmpty(t *testing.T) {
	box := EmptyAABB()
	if !box.IsEmpty() {
		t.Fatal("EmptyAABB should be empty")
	}
	if box.Overlaps(AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}) {
		t.Error("empty box should never overlap")
	}

	box = AABBFromPoints(mgl64.Vec3{1, -2, 3}, mgl64.Vec3{-1, 4, 0})
	if !vec3Equal(box.Min, mgl64.Vec3{-1, -2, 0}, 1e-12) || !vec3Equal(box.Max, mgl64.Vec3{1, 4, 3}, 1e-12) {
		t.Errorf("AABBFromPoints = %v", box)
	}
	if box.LongestAxis() != 1 {
		t.Errorf("LongestAxis = %d, want 1", box.LongestAxis())
	}
	if !vec3Equal(box.Center(), mgl64.Vec3{0, 1, 1.5}, 1e-12) {
		t.Errorf("Center = %v", box.Center())
	}
}

func TestAABBSpan(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 2, 2}}
	if !floatEqual(box.Span(), 3, 1e-12) {
		t.Errorf("Span = %v, want 3", box.Span())
	}
	if EmptyAABB().Span() != 0 {
		t.Error("empty box must have zero span")
	}
}

func TestAABBTransformed(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{-1, -2, -3}, Max: mgl64.Vec3{1, 2, 3}}

	t.Run("translation", func(t *testing.T) {
		moved := box.Transformed(mgl64.Translate3D(10, 0, 0))
		if !vec3Equal(moved.Min, mgl64.Vec3{9, -2, -3}, 1e-12) || !vec3Equal(moved.Max, mgl64.Vec3{11, 2, 3}, 1e-12) {
			t.Errorf("Transformed = %v", moved)
		}
	})

	t.Run("quarter turn about Z swaps X and Y extents", func(t *testing.T) {
		moved := box.Transformed(mgl64.HomogRotate3DZ(math.Pi / 2))
		if !vec3Equal(moved.Max, mgl64.Vec3{2, 1, 3}, 1e-9) {
			t.Errorf("Transformed = %v", moved)
		}
	})
}
