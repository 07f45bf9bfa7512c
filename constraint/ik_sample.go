package constraint

import (
	"context"
	"math/rand/v2"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/motioncore/logging"
	"go.viam.com/motioncore/motionplan/ik"
	"go.viam.com/motioncore/referenceframe"
	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/statespace"
)

const defaultMaxNumTrials = 10

// SeedSource draws IK seed configurations from a random stream.
type SeedSource interface {
	Seed(rng *rand.Rand) ([]referenceframe.Input, error)
}

// SeedSourceFunc adapts a function to the SeedSource interface.
type SeedSourceFunc func(rng *rand.Rand) ([]referenceframe.Input, error)

// Seed calls f.
func (f SeedSourceFunc) Seed(rng *rand.Rand) ([]referenceframe.Input, error) {
	return f(rng)
}

type boundsSeedSource struct {
	space  *statespace.MetaSkeletonStateSpace
	bounds []bounds
}

// NewBoundsSeedSource returns a seed source drawing every joint uniformly from the bounds of its joint space.
func NewBoundsSeedSource(space *statespace.MetaSkeletonStateSpace) (SeedSource, error) {
	if space == nil {
		return nil, ErrNilStateSpace
	}
	src := &boundsSeedSource{space: space, bounds: make([]bounds, 0, space.NumSubspaces())}
	for i := 0; i < space.NumSubspaces(); i++ {
		b, err := newBounds(space.Subspace(i), "seed bounds")
		if err != nil {
			return nil, errors.Wrapf(err, "joint %d", i)
		}
		if err := b.checkSampleable(); err != nil {
			return nil, errors.Wrapf(err, "joint %d", i)
		}
		src.bounds = append(src.bounds, b)
	}
	return src, nil
}

func (src *boundsSeedSource) Seed(rng *rand.Rand) ([]referenceframe.Input, error) {
	s := src.space.NewState()
	substates, err := src.space.Substates(s)
	if err != nil {
		return nil, err
	}
	for i, b := range src.bounds {
		if err := b.sample(rng, substates[i]); err != nil {
			return nil, errors.Wrapf(err, "joint %d", i)
		}
	}
	return src.space.PositionsFromState(s)
}

// IkSampleGeneratorConfig configures an IkSampleGenerator.
type IkSampleGeneratorConfig struct {
	// Attempts per call to Sample before giving up.
	MaxNumTrials int `json:"max_num_trials"`

	// Seed of the generator's random stream.
	RandomSeed uint64 `json:"random_seed"`
}

// NewDefaultIkSampleGeneratorConfig returns the configuration used when nothing is configured.
func NewDefaultIkSampleGeneratorConfig() IkSampleGeneratorConfig {
	return IkSampleGeneratorConfig{MaxNumTrials: defaultMaxNumTrials}
}

// Validate reports every invalid field.
func (cfg IkSampleGeneratorConfig) Validate() error {
	var err error
	if cfg.MaxNumTrials <= 0 {
		err = multierr.Append(err, errors.Errorf("max_num_trials must be positive, got %d", cfg.MaxNumTrials))
	}
	return err
}

// Rand returns the random stream described by the configuration.
func (cfg IkSampleGeneratorConfig) Rand() *rand.Rand {
	//nolint:gosec
	return rand.New(rand.NewPCG(cfg.RandomSeed, cfg.RandomSeed))
}

// IkSampleGenerator produces configurations by drawing poses and solving IK for them. A failed solve is an
// expected outcome: Sample retries with a new pose up to maxNumTrials times and then reports no sample.
// It advances its random stream on every trial and must not be shared between goroutines.
type IkSampleGenerator struct {
	poseSampler  SampleGenerator[spatialmath.Pose]
	solver       ik.Solver
	seeds        SeedSource
	rng          *rand.Rand
	maxNumTrials int
	trials       int
	logger       logging.Logger
}

// NewIkSampleGenerator returns a generator solving solver for poses drawn from poseSampler, seeding each solve from
// seeds with rng.
func NewIkSampleGenerator(
	poseSampler SampleGenerator[spatialmath.Pose],
	solver ik.Solver,
	seeds SeedSource,
	rng *rand.Rand,
	maxNumTrials int,
	logger logging.Logger,
) (*IkSampleGenerator, error) {
	if poseSampler == nil {
		return nil, errors.New("pose sampler is nil")
	}
	if solver == nil {
		return nil, errors.New("IK solver is nil")
	}
	if seeds == nil {
		return nil, errors.New("seed source is nil")
	}
	if rng == nil {
		return nil, errors.New("random source is nil")
	}
	if maxNumTrials <= 0 {
		return nil, errors.Errorf("max number of trials must be positive, got %d", maxNumTrials)
	}
	if logger == nil {
		logger = logging.NewBlankLogger("ik_sample")
	}
	return &IkSampleGenerator{
		poseSampler:  poseSampler,
		solver:       solver,
		seeds:        seeds,
		rng:          rng,
		maxNumTrials: maxNumTrials,
		logger:       logger,
	}, nil
}

// Sample returns a configuration reaching a sampled pose, or false once maxNumTrials attempts have failed or the
// pose sampler is exhausted.
func (g *IkSampleGenerator) Sample() ([]referenceframe.Input, bool) {
	ctx := context.Background()
	g.trials = 0
	for g.trials < g.maxNumTrials {
		if !g.poseSampler.CanSample() {
			return nil, false
		}
		g.trials++
		pose, ok := g.poseSampler.Sample()
		if !ok {
			continue
		}
		seed, err := g.seeds.Seed(g.rng)
		if err != nil {
			g.logger.Debugw("failed to draw IK seed", "trial", g.trials, "error", err)
			continue
		}
		solution, err := g.solver.Solve(ctx, pose, seed)
		if err != nil {
			g.logger.Debugw("IK failed for sampled pose", "trial", g.trials, "error", err)
			continue
		}
		return solution, true
	}
	return nil, false
}

// CanSample reports whether the pose sampler can produce more poses. It says nothing about whether IK will succeed.
func (g *IkSampleGenerator) CanSample() bool {
	return g.poseSampler.CanSample()
}

// NumSamples forwards the pose sampler's count. It is not adjusted for IK failures.
func (g *IkSampleGenerator) NumSamples() int {
	return g.poseSampler.NumSamples()
}

// Trials returns the number of attempts made by the last call to Sample.
func (g *IkSampleGenerator) Trials() int {
	return g.trials
}

var _ SampleGenerator[[]referenceframe.Input] = (*IkSampleGenerator)(nil)
