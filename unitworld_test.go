package unitworld

import (
	"math"
	"math/rand"
	"testing"

	"github.com/akmonengine/unitworld/actor"
	"github.com/akmonengine/unitworld/collide"
	"github.com/akmonengine/unitworld/mesh"
	"github.com/akmonengine/unitworld/pose"
	"github.com/akmonengine/unitworld/scene"
	"github.com/edaniels/golog"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// gateOracle answers collisions from the robot transform alone, ignoring geometry.
type gateOracle struct {
	invalid func(robot pose.StateVector) bool
}

type gateModel struct {
	mesh *mesh.Mesh
}

func (m gateModel) Mesh() *mesh.Mesh        { return m.mesh }
func (m gateModel) BoundingBox() actor.AABB { return m.mesh.BoundingBox() }

func (g gateOracle) NewModel(m *mesh.Mesh) collide.Model {
	return gateModel{mesh: m}
}

func (g gateOracle) Collide(_ collide.Model, _ mgl64.Mat4, _ collide.Model, tb mgl64.Mat4) bool {
	q := mgl64.Mat4ToQuat(tb)
	return g.invalid(pose.Compose(tb.Col(3).Vec3(), q))
}

func (g gateOracle) CollideBB(a collide.Model, ta mgl64.Mat4, b collide.Model, tb mgl64.Mat4) bool {
	return g.Collide(a, ta, b, tb)
}

// slab is invalid while the robot x coordinate lies in [lo, hi].
func slab(lo, hi float64) func(pose.StateVector) bool {
	return func(s pose.StateVector) bool {
		x := s.Translation().X()
		return x >= lo && x <= hi
	}
}

func boxProvider(t *testing.T, halfExtents, center mgl64.Vec3) *scene.Scene {
	t.Helper()
	s, err := scene.New(mesh.Box(halfExtents).Transformed(mgl64.Translate3D(center[0], center[1], center[2])))
	require.NoError(t, err)
	return s
}

// newGateWorld loads two unit boxes behind a synthetic oracle.
func newGateWorld(t *testing.T, invalid func(pose.StateVector) bool, opts ...Option) *UnitWorld {
	t.Helper()
	opts = append([]Option{WithOracle(gateOracle{invalid: invalid}), WithLogger(golog.NewTestLogger(t))}, opts...)
	w := New(opts...)
	require.NoError(t, w.LoadScene(boxProvider(t, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{})))
	require.NoError(t, w.LoadRobot(boxProvider(t, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{})))
	return w
}

// newWallWorld puts a thin wall across x = 0.5 and a small cube robot around the origin.
func newWallWorld(t *testing.T, opts ...Option) *UnitWorld {
	t.Helper()
	opts = append([]Option{WithLogger(golog.NewTestLogger(t))}, opts...)
	w := New(opts...)
	require.NoError(t, w.LoadScene(boxProvider(t, mgl64.Vec3{0.02, 1, 1}, mgl64.Vec3{0.5, 0, 0})))
	require.NoError(t, w.LoadRobot(boxProvider(t, mgl64.Vec3{0.03, 0.03, 0.03}, mgl64.Vec3{})))
	return w
}

func randomState(r *rand.Rand) pose.StateVector {
	t := mgl64.Vec3{r.Float64()*2 - 1, r.Float64()*2 - 1, r.Float64()*2 - 1}
	axis := mgl64.Vec3{r.Float64() - 0.5, r.Float64() - 0.5, r.Float64() - 0.5}
	if axis.Len() < 1e-6 {
		axis = mgl64.Vec3{0, 0, 1}
	}
	return pose.FromAxisAngle(t, r.Float64()*2*math.Pi, axis.Normalize())
}

func TestNew(t *testing.T) {
	w := New(WithWorkers(-3))
	assert.Equal(t, 1, w.Workers())
	assert.Equal(t, 1.0, w.Scale())
	assert.Equal(t, pose.Identity(), w.Perturbation())
	assert.Equal(t, mgl64.Ident4(), w.CalibrationMatrix())
	assert.NotNil(t, w.Logger())
}

func TestLoad(t *testing.T) {
	w := New(WithLogger(golog.NewTestLogger(t)))
	assert.Error(t, w.LoadScene(nil))
	assert.Error(t, w.LoadRobot(nil))

	require.NoError(t, w.LoadScene(boxProvider(t, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{})))
	robot := boxProvider(t, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{})
	w.SetRobotState(pose.FromTranslation(mgl64.Vec3{1, 2, 3}))
	require.NoError(t, w.LoadRobot(robot))
	assert.Equal(t, pose.Identity(), w.RobotState(), "loading a robot resets its state")
}

func TestIsValid(t *testing.T) {
	t.Run("everything is valid before loading", func(t *testing.T) {
		w := New(WithLogger(golog.NewTestLogger(t)))
		assert.True(t, w.IsValid(pose.Identity()))

		_, err := w.IsDisentangled(pose.Identity())
		assert.ErrorIs(t, err, ErrModelsNotLoaded)
	})

	t.Run("wall", func(t *testing.T) {
		w := newWallWorld(t)
		assert.True(t, w.IsValid(pose.Identity()))
		assert.False(t, w.IsValid(pose.FromTranslation(mgl64.Vec3{0.5, 0, 0})))
		assert.False(t, w.IsValid(pose.FromTranslation(mgl64.Vec3{0.46, 0, 0})))
		assert.True(t, w.IsValid(pose.FromTranslation(mgl64.Vec3{0.4, 0, 0})))
		assert.True(t, w.IsValid(pose.FromTranslation(mgl64.Vec3{0.5, 1.5, 0})), "past the edge of the wall")

		free, err := w.IsDisentangled(pose.Identity())
		require.NoError(t, err)
		assert.True(t, free)

		free, err = w.IsDisentangled(pose.FromTranslation(mgl64.Vec3{0.5, 0, 0}))
		require.NoError(t, err)
		assert.False(t, free)
	})

	t.Run("deterministic", func(t *testing.T) {
		w := newWallWorld(t)
		r := rand.New(rand.NewSource(3))
		for i := 0; i < 50; i++ {
			s := randomState(r)
			first := w.IsValid(s)
			for k := 0; k < 3; k++ {
				assert.Equal(t, first, w.IsValid(s))
			}
		}
	})

	t.Run("perturbation moves the scene", func(t *testing.T) {
		w := newWallWorld(t)
		at := pose.FromTranslation(mgl64.Vec3{0.5, 0, 0})
		require.False(t, w.IsValid(at))

		w.SetPerturbation(pose.FromTranslation(mgl64.Vec3{0, 3, 0}))
		assert.True(t, w.IsValid(at))
		assert.False(t, w.IsValid(w.ApplyPerturbation(at)))
	})
}

func TestClone(t *testing.T) {
	w := newWallWorld(t)
	c := w.Clone()

	c.SetPerturbation(pose.FromTranslation(mgl64.Vec3{0, 3, 0}))
	assert.Equal(t, pose.Identity(), w.Perturbation())

	at := pose.FromTranslation(mgl64.Vec3{0.5, 0, 0})
	assert.False(t, w.IsValid(at))
	assert.True(t, c.IsValid(at))

	calls := 0
	c.Events.Subscribe(MATRIX_DONE, func(Event) { calls++ })
	w.CalculateVisibilityMatrix([]pose.StateVector{pose.Identity()}, true, 0.1)
	assert.Zero(t, calls, "clones do not share listeners")
}

func TestClone_Placement(t *testing.T) {
	w := newWallWorld(t)
	require.NoError(t, w.ScaleToUnit())
	require.NoError(t, w.AngleModel(0, 0))

	r := rand.New(rand.NewSource(7))
	states := make([]pose.StateVector, 32)
	valid := make([]bool, len(states))
	for i := range states {
		states[i] = randomState(r)
		valid[i] = w.IsValid(states[i])
	}
	sceneBefore := w.SceneMatrix()
	robotBefore := w.RobotMatrix()

	c := w.Clone()
	require.NoError(t, c.AngleModel(45, 30))

	assert.Equal(t, sceneBefore, w.SceneMatrix())
	assert.Equal(t, robotBefore, w.RobotMatrix())
	assert.Equal(t, w.CalibrationMatrix(), w.SceneMatrix())
	assert.NotEqual(t, sceneBefore, c.SceneMatrix())
	assert.Equal(t, c.CalibrationMatrix(), c.SceneMatrix())
	for i, state := range states {
		assert.Equal(t, valid[i], w.IsValid(state), "state %d", i)
	}
}
