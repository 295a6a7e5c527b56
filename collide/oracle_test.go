package collide

import (
	"math"
	"math/rand"
	"testing"

	"github.com/akmonengine/unitworld/mesh"
	"github.com/akmonengine/unitworld/pose"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lShape is a concave mesh made of two boxes.
func lShape() *mesh.Mesh {
	return mesh.Merge(
		mesh.Box(mgl64.Vec3{2, 0.5, 0.5}),
		mesh.Box(mgl64.Vec3{0.5, 2, 0.5}).Transformed(mgl64.Translate3D(1.5, 1.5, 0)),
	)
}

// bruteForce tests every face pair in a's frame, the frame the BVH traversal works in.
func bruteForce(a *mesh.Mesh, ta mgl64.Mat4, b *mesh.Mesh, tb mgl64.Mat4) []FacePair {
	moved := b.Transformed(ta.Inv().Mul4(tb))

	var pairs []FacePair
	for i := range a.Faces {
		for j := range moved.Faces {
			if intersectTriangles(triangle(a.Triangle(i)), triangle(moved.Triangle(j))).hit {
				pairs = append(pairs, FacePair{A: i, B: j})
			}
		}
	}
	return pairs
}

func randomPose(r *rand.Rand, extent float64) pose.StateVector {
	t := mgl64.Vec3{r.Float64()*2*extent - extent, r.Float64()*2*extent - extent, r.Float64()*2*extent - extent}
	axis := mgl64.Vec3{r.Float64() - 0.5, r.Float64() - 0.5, r.Float64() - 0.5}
	if axis.Len() < 1e-3 {
		axis = mgl64.Vec3{0, 0, 1}
	}
	return pose.FromAxisAngle(t, r.Float64()*2*math.Pi, axis)
}

func TestMeshOracle_MatchesBruteForce(t *testing.T) {
	var oracle MeshOracle
	a := lShape()
	b := mesh.Box(mgl64.Vec3{0.3, 0.3, 0.3})
	ma, mb := oracle.NewModel(a), oracle.NewModel(b)

	r := rand.New(rand.NewSource(7))
	hits := 0
	for i := 0; i < 200; i++ {
		ta := pose.ToTransform(randomPose(r, 0.5))
		tb := pose.ToTransform(randomPose(r, 3))

		want := bruteForce(a, ta, b, tb)
		got := oracle.CollideForDetails(ma, ta, mb, tb)
		assert.ElementsMatch(t, want, got, "iteration %d", i)
		assert.Equal(t, len(want) > 0, oracle.Collide(ma, ta, mb, tb), "iteration %d", i)
		if len(want) > 0 {
			hits++
		}
	}
	assert.Greater(t, hits, 0, "the sampled poses never collide")
}

func TestMeshOracle(t *testing.T) {
	var oracle MeshOracle
	box := oracle.NewModel(mesh.Box(mgl64.Vec3{1, 1, 1}))
	identity := pose.ToTransform(pose.Identity())

	tests := []struct {
		name  string
		state pose.StateVector
		hit   bool
		bb    bool
	}{
		{"overlapping", pose.FromTranslation(mgl64.Vec3{1.5, 0, 0}), true, true},
		{"separated", pose.FromTranslation(mgl64.Vec3{3, 0, 0}), false, false},
		{"rotated into contact", pose.FromAxisAngle(mgl64.Vec3{2.2, 0, 0}, math.Pi/4, mgl64.Vec3{0, 0, 1}), true, true},
		{"corner gap", pose.FromAxisAngle(mgl64.Vec3{2.5, 2.5, 0}, math.Pi/4, mgl64.Vec3{0, 0, 1}), false, false},
		{"same pose", pose.Identity(), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := pose.ToTransform(tt.state)
			assert.Equal(t, tt.hit, oracle.Collide(box, identity, box, tb))
			assert.Equal(t, tt.hit, oracle.Collide(box, tb, box, identity), "not symmetric")
			assert.Equal(t, tt.bb, oracle.CollideBB(box, identity, box, tb))
		})
	}

	t.Run("enclosed mesh", func(t *testing.T) {
		small := oracle.NewModel(mesh.Box(mgl64.Vec3{0.1, 0.1, 0.1}))
		assert.False(t, oracle.Collide(box, identity, small, identity))
		assert.True(t, oracle.CollideBB(box, identity, small, identity))
	})
}

func TestConvexOracle(t *testing.T) {
	var oracle ConvexOracle
	box := oracle.NewModel(mesh.Box(mgl64.Vec3{1, 1, 1}))
	l := oracle.NewModel(lShape())
	identity := pose.ToTransform(pose.Identity())

	assert.True(t, oracle.Collide(box, identity, box, pose.ToTransform(pose.FromTranslation(mgl64.Vec3{1.5, 0, 0}))))
	assert.False(t, oracle.Collide(box, identity, box, pose.ToTransform(pose.FromTranslation(mgl64.Vec3{3, 0, 0}))))

	// inside the notch of the L: the hull says contact, the surfaces do not
	notch := pose.ToTransform(pose.FromTranslation(mgl64.Vec3{0, 2, 0}))
	small := mesh.Box(mgl64.Vec3{0.3, 0.3, 0.3})
	assert.True(t, oracle.Collide(l, identity, oracle.NewModel(small), notch))
	var exact MeshOracle
	assert.False(t, exact.Collide(exact.NewModel(lShape()), identity, exact.NewModel(small), notch))

	assert.True(t, oracle.CollideBB(l, identity, oracle.NewModel(small), notch))
}

func TestIntersectingSegments(t *testing.T) {
	var oracle MeshOracle
	a := oracle.NewModel(mesh.Box(mgl64.Vec3{1, 1, 1}))
	b := oracle.NewModel(mesh.Box(mgl64.Vec3{1, 1, 1}))
	ta := pose.ToTransform(pose.Identity())
	tb := pose.ToTransform(pose.FromAxisAngle(mgl64.Vec3{1.5, 0.3, 0.2}, 0.4, mgl64.Vec3{1, 2, 3}))

	pairs := oracle.CollideForDetails(a, ta, b, tb)
	require.NotEmpty(t, pairs)

	segments := IntersectingSegments(a, ta, b, tb, pairs)
	require.NotEmpty(t, segments)
	for _, s := range segments {
		// both ends lie on the surface of the first box
		for _, p := range []mgl64.Vec3{s.Begin, s.End} {
			onSurface := false
			for i := 0; i < 3; i++ {
				if math.Abs(math.Abs(p[i])-1) < 1e-9 {
					onSurface = true
				}
			}
			assert.True(t, onSurface, "point %v off the box surface", p)
		}
		assert.GreaterOrEqual(t, s.Length(), 0.0)
	}

	assert.Empty(t, IntersectingSegments(a, ta, b, tb, []FacePair{{A: 99, B: 0}}))
}
