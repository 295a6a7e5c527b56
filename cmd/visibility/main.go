// Command visibility computes blocks of a bipartite visibility matrix between two pose sets.
//
//	visibility info -job job.json -block-size 64
//	visibility calc -job job.json -config engine.json -block-size 64 -index 3 -out block3.json
//	visibility transit -job job.json -config engine.json -action 6 -out moved.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/akmonengine/unitworld"
	"github.com/akmonengine/unitworld/internal/config"
	"github.com/edaniels/golog"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

var logger = golog.NewDevelopmentLogger("visibility")

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <info|calc|transit> [flags]\n", os.Args[0])
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "calc":
		err = runCalc(os.Args[2:])
	case "transit":
		err = runTransit(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		logger.Fatalw("visibility failed", "command", os.Args[1], "error", err)
	}
}

type commonFlags struct {
	job       string
	config    string
	blockSize int
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.job, "job", "", "Path to the JSON job")
	fs.StringVar(&c.config, "config", "", "Path to the JSON engine config (defaults when empty)")
	fs.IntVar(&c.blockSize, "block-size", -1, "Tile size, negative for bands of full rows")
}

func (c *commonFlags) load() (*config.EngineConfig, *Job, error) {
	if c.job == "" {
		return nil, nil, errors.New("-job is required")
	}

	cfg := config.DefaultEngineConfig()
	if c.config != "" {
		var err error
		if cfg, err = config.LoadEngineConfig(c.config); err != nil {
			return nil, nil, err
		}
	}

	job, err := loadJob(c.job)
	if err != nil {
		return nil, nil, err
	}
	return cfg, job, nil
}

func runInfo(args []string) error {
	var common commonFlags
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, job, err := common.load()
	if err != nil {
		return err
	}

	_, total, err := unitworld.BlockRanges(len(job.A), len(job.B), common.blockSize, 0)
	if err != nil && total != 0 {
		return err
	}

	fmt.Printf("rows: %d\ncols: %d\nblock size: %d\nblocks: %d\n", len(job.A), len(job.B), common.blockSize, total)
	return nil
}

func runCalc(args []string) error {
	var common commonFlags
	var index int
	var out string
	fs := flag.NewFlagSet("calc", flag.ExitOnError)
	common.register(fs)
	fs.IntVar(&index, "index", 0, "Block index")
	fs.StringVar(&out, "out", "", "Output file, stdout when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, job, err := common.load()
	if err != nil {
		return err
	}

	block, total, err := unitworld.BlockRanges(len(job.A), len(job.B), common.blockSize, index)
	if err != nil {
		return err
	}

	w, err := newWorld(cfg, job)
	if err != nil {
		return err
	}

	logger.Infow("computing block", "index", index, "total", total, "rows", block.Rows(), "cols", block.Cols())
	m, err := w.VisibilityBlock(poses(job.A), job.AUnit, poses(job.B), job.BUnit, cfg.GetVerifyDelta(), block)
	if err != nil {
		return err
	}

	result := BlockResult{
		Index:    block.Index,
		Total:    total,
		RowStart: block.RowStart,
		RowEnd:   block.RowEnd,
		ColStart: block.ColStart,
		ColEnd:   block.ColEnd,
		Valid:    m.CountValid(),
		Data:     m.Data,
	}
	return writeJSON(result, out)
}

func runTransit(args []string) error {
	var common commonFlags
	var action int
	var out string
	fs := flag.NewFlagSet("transit", flag.ExitOnError)
	common.register(fs)
	fs.IntVar(&action, "action", 0, "Action applied to every pose of a, [0, 6) translate and [6, 12) rotate")
	fs.StringVar(&out, "out", "", "Output file, stdout when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, job, err := common.load()
	if err != nil {
		return err
	}

	w, err := newWorld(cfg, job)
	if err != nil {
		return err
	}

	result, err := transitAll(w, job, unitworld.Action(action), cfg.GetTransitMagnitude(), cfg.GetVerifyDelta())
	if err != nil {
		return err
	}
	return writeJSON(result, out)
}

// newWorld loads the job geometry and builds the unit frame from the config.
func newWorld(cfg *config.EngineConfig, job *Job) (*unitworld.UnitWorld, error) {
	sceneProvider, err := buildScene(job.Scene)
	if err != nil {
		return nil, errors.Wrap(err, "scene")
	}
	robotProvider, err := buildScene(job.Robot)
	if err != nil {
		return nil, errors.Wrap(err, "robot")
	}

	w := unitworld.New(append(cfg.Options(), unitworld.WithLogger(logger))...)
	if err := w.LoadScene(sceneProvider); err != nil {
		return nil, err
	}
	if err := w.LoadRobot(robotProvider); err != nil {
		return nil, err
	}
	if job.RobotCenter != nil {
		if err := w.EnforceRobotCenter(mgl64.Vec3(*job.RobotCenter)); err != nil {
			return nil, err
		}
	}
	if err := w.ScaleToUnit(); err != nil {
		return nil, err
	}
	if err := w.AngleModel(cfg.GetLatitude(), cfg.GetLongitude()); err != nil {
		return nil, err
	}
	w.SetPerturbation(cfg.GetPerturbation())

	return w, nil
}

func writeJSON(result any, path string) error {
	data, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "failed to encode result")
	}

	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write result")
	}
	logger.Infow("result written", "path", path)
	return nil
}
