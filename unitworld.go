// Package unitworld decides whether rigid-body poses and straight motions between them are
// collision free, and builds pairwise visibility matrices over sampled pose sets.
//
// All reasoning happens in the unit frame: the scene is scaled so that its bounding span is
// one, rotated by the chosen latitude and longitude, and offset by a perturbation pose.
// Callers may hand poses in either the world or the unit frame.
package unitworld

import (
	"runtime"

	"github.com/akmonengine/unitworld/collide"
	"github.com/akmonengine/unitworld/pose"
	"github.com/akmonengine/unitworld/scene"
	"github.com/edaniels/golog"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// DefaultMinVerifyDelta is the smallest resolution the transition retry loop will try.
const DefaultMinVerifyDelta = 1e-12

var (
	// ErrModelsNotLoaded is returned by queries that need both the scene and the robot.
	ErrModelsNotLoaded = errors.New("scene or robot models not loaded")
	// ErrSanityCheck means the sampler produced a pose that fails its own validity check.
	ErrSanityCheck = errors.New("sanity check failed: sampler returned an invalid state")
)

// SceneProvider is a triangle mesh with a mutable placement, implemented by *scene.Scene.
type SceneProvider = scene.Provider

// UnitWorld is the motion validity engine for one scene and one robot.
//
// Setup methods (LoadScene, LoadRobot, ScaleToUnit, AngleModel, SetPerturbation) must not run
// concurrently with queries. Queries only read the engine and are safe from many goroutines.
type UnitWorld struct {
	scene      SceneProvider
	robot      SceneProvider
	sceneModel collide.Model
	robotModel collide.Model

	scale    float64
	calib    mgl64.Mat4
	invCalib mgl64.Mat4

	perturbation   pose.StateVector
	perturbationTf mgl64.Mat4
	robotState     pose.StateVector

	oracle         collide.Oracle
	stepper        Stepper
	workers        int
	minVerifyDelta float64
	logger         golog.Logger

	Events Events
}

type Option func(w *UnitWorld)

// WithOracle selects the collision oracle, collide.MeshOracle by default.
func WithOracle(oracle collide.Oracle) Option {
	return func(w *UnitWorld) {
		w.oracle = oracle
	}
}

// WithWorkers sets the number of goroutines used by batch queries.
func WithWorkers(workers int) Option {
	return func(w *UnitWorld) {
		w.workers = workers
	}
}

func WithLogger(logger golog.Logger) Option {
	return func(w *UnitWorld) {
		w.logger = logger
	}
}

// WithStepper replaces the physics used by PushRobot, a unit sphere Physics by default.
func WithStepper(stepper Stepper) Option {
	return func(w *UnitWorld) {
		w.stepper = stepper
	}
}

// WithMinVerifyDelta sets the resolution floor of TransitState.
func WithMinVerifyDelta(delta float64) Option {
	return func(w *UnitWorld) {
		w.minVerifyDelta = delta
	}
}

func New(opts ...Option) *UnitWorld {
	w := &UnitWorld{
		scale:          1,
		calib:          mgl64.Ident4(),
		invCalib:       mgl64.Ident4(),
		perturbation:   pose.Identity(),
		perturbationTf: mgl64.Ident4(),
		robotState:     pose.Identity(),
		oracle:         collide.MeshOracle{},
		stepper:        NewPhysics(1),
		workers:        runtime.NumCPU(),
		minVerifyDelta: DefaultMinVerifyDelta,
		logger:         golog.Global(),
		Events:         NewEvents(),
	}

	for _, opt := range opts {
		opt(w)
	}
	w.workers = max(1, w.workers)

	return w
}

// LoadScene replaces the scene and builds its collision model at the current placement.
func (w *UnitWorld) LoadScene(provider SceneProvider) error {
	if provider == nil || provider.Mesh() == nil {
		return errors.New("nil scene")
	}

	w.scene = provider
	w.sceneModel = w.buildModel(provider)
	w.calib = provider.CalibrationTransform()
	w.invCalib = w.calib.Inv()

	return nil
}

// LoadRobot replaces the robot, builds its collision model and resets the robot state.
func (w *UnitWorld) LoadRobot(robot SceneProvider) error {
	if robot == nil || robot.Mesh() == nil {
		return errors.New("nil robot")
	}

	w.robot = robot
	w.robotModel = w.buildModel(robot)
	w.robotState = pose.Identity()

	return nil
}

func (w *UnitWorld) buildModel(provider SceneProvider) collide.Model {
	return w.oracle.NewModel(provider.Mesh().Transformed(provider.CalibrationTransform()))
}

// Clone returns an engine sharing the meshes, collision models and stepper, with its own
// placements and frame state.
func (w *UnitWorld) Clone() *UnitWorld {
	c := *w
	if w.scene != nil {
		c.scene = w.scene.Clone()
	}
	if w.robot != nil {
		c.robot = w.robot.Clone()
	}
	c.Events = NewEvents()
	return &c
}

func (w *UnitWorld) Workers() int {
	return w.workers
}

func (w *UnitWorld) Logger() golog.Logger {
	return w.logger
}
