package cli

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/motioncore/constraint"
	"go.viam.com/motioncore/motionplan/ik"
	"go.viam.com/motioncore/referenceframe"
	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/statespace"
	"go.viam.com/motioncore/utils"
)

func loadModel(path string) (referenceframe.Model, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".urdf":
		return referenceframe.ParseURDFFile(path, "")
	case ".json":
		return referenceframe.ParseModelJSONFile(path, "")
	default:
		return nil, errors.Errorf("unsupported model file %q, expected .json or .urdf", path)
	}
}

func parseBox(s string) (r3.Vector, r3.Vector, error) {
	v := utils.SpaceDelimitedStringToFloatSlice(s, 6)
	if len(v) != 6 {
		return r3.Vector{}, r3.Vector{}, errors.Errorf("box needs 6 values, got %d", len(v))
	}
	for _, f := range v {
		if math.IsNaN(f) {
			return r3.Vector{}, r3.Vector{}, errors.Errorf("could not parse box %q", s)
		}
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, r3.Vector{X: v[3], Y: v[4], Z: v[5]}, nil
}

// SampleIKAction is the corresponding Action for 'sample-ik'.
func SampleIKAction(c *cli.Context) error {
	logger := newLogger(c)
	m, err := loadModel(c.String(sampleIKFlagModel))
	if err != nil {
		return err
	}
	frame := c.String(sampleIKFlagFrame)
	if frame == "" {
		names := m.FrameNames()
		if len(names) == 0 {
			return errors.Errorf("model %q has no frames", m.Name())
		}
		frame = names[len(names)-1]
	}
	numSamples := c.Int(sampleIKFlagSamples)
	if numSamples <= 0 {
		return errors.Errorf("number of samples must be positive, got %d", numSamples)
	}

	space, err := statespace.NewMetaSkeletonStateSpace(m)
	if err != nil {
		return err
	}
	seeds, err := constraint.NewBoundsSeedSource(space)
	if err != nil {
		return err
	}

	cfg := constraint.NewDefaultIkSampleGeneratorConfig()
	cfg.MaxNumTrials = c.Int(sampleIKFlagTrials)
	cfg.RandomSeed = c.Uint64(sampleIKFlagSeed)
	if err := cfg.Validate(); err != nil {
		return err
	}
	rng := cfg.Rand()

	var poses constraint.SampleGenerator[spatialmath.Pose]
	if box := c.String(sampleIKFlagBox); box != "" {
		lo, hi, err := parseBox(box)
		if err != nil {
			return err
		}
		if poses, err = constraint.NewRandomPoseSampler(lo, hi, rng); err != nil {
			return err
		}
	} else {
		// Poses of random configurations are reachable, so every sample should succeed.
		targets := make([]spatialmath.Pose, 0, numSamples)
		for i := 0; i < numSamples; i++ {
			positions, err := seeds.Seed(rng)
			if err != nil {
				return err
			}
			snap, err := m.Snapshot(positions)
			if err != nil {
				return err
			}
			pose, err := snap.Pose(frame)
			if err != nil {
				return err
			}
			targets = append(targets, pose)
		}
		poses = constraint.NewFinitePoseSampler(targets)
	}

	opts := ik.NewDefaultOptions()
	opts.RandomSeed = cfg.RandomSeed
	solver, err := ik.NewJacobianIK(m, frame, opts, logger.Sublogger("ik"))
	if err != nil {
		return err
	}
	gen, err := constraint.NewIkSampleGenerator(poses, solver, seeds, rng, cfg.MaxNumTrials, logger)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"#", "trials", "configuration", "position"})
	var trials stats.Float64Data
	found := 0
	for i := 0; i < numSamples; i++ {
		sample, ok := gen.Sample()
		trials = append(trials, float64(gen.Trials()))
		if !ok {
			t.AppendRow(table.Row{i, gen.Trials(), "none", ""})
			if !gen.CanSample() {
				break
			}
			continue
		}
		found++
		pose, err := m.Transform(sample)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{i, gen.Trials(), formatFloats(referenceframe.InputsToFloats(sample)), formatVector(pose.Point())})
	}
	t.Render()

	mean, err := stats.Mean(trials)
	if err != nil {
		return err
	}
	median, err := stats.Median(trials)
	if err != nil {
		return err
	}
	most, err := stats.Max(trials)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "found %d of %d samples for frame %q; trials mean %.2f median %.1f max %.0f",
		found, len(trials), frame, mean, median, most)
	bins := cfg.MaxNumTrials
	if bins > 10 {
		bins = 10
	}
	if err := histogram.Fprint(c.App.Writer, histogram.Hist(bins, trials), histogram.Linear(30)); err != nil {
		return err
	}
	if found < len(trials) {
		warningf(c.App.ErrWriter, "%d samples failed after %d trials each", len(trials)-found, cfg.MaxNumTrials)
	}
	return nil
}

func formatFloats(fs []float64) string {
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		parts = append(parts, formatFloat(f))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", v.X, v.Y, v.Z)
}
