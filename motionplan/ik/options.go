package ik

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// default values for the Jacobian solver.
const (
	defaultMaxIterations = 300
	defaultMaxRestarts   = 10

	// A solution scoring below this under the squared norm metric is returned.
	defaultGoalThreshold = 0.01

	defaultDamping            = 1.
	defaultMaxStepFraction    = 0.1
	defaultOrientationScaling = orientationDistanceScaling
)

// Options configures a JacobianIK solver. Zero values are not replaced by defaults; start from NewDefaultOptions.
type Options struct {
	// Iterations of damped least squares per attempt.
	MaxIterations int `json:"max_iterations"`

	// Number of random restarts after the attempt from the seed fails.
	MaxRestarts int `json:"max_restarts"`

	// Squared norm score under which the goal is considered reached.
	GoalThreshold float64 `json:"goal_threshold"`

	// Damping factor of the least squares step.
	Damping float64 `json:"damping"`

	// Largest joint change per iteration, as a fraction of the joint's range. Joints with infinite range use 2pi.
	MaxStepFraction float64 `json:"max_step_fraction"`

	// Weight of orientation error (radians) relative to position error (mm).
	OrientationScaling float64 `json:"orientation_scaling"`

	// Ignore orientation and solve for position only.
	PositionOnly bool `json:"position_only"`

	// Seed of the random restarts.
	RandomSeed uint64 `json:"random_seed"`
}

// NewDefaultOptions returns the options used when nothing is configured.
func NewDefaultOptions() Options {
	return Options{
		MaxIterations:      defaultMaxIterations,
		MaxRestarts:        defaultMaxRestarts,
		GoalThreshold:      defaultGoalThreshold,
		Damping:            defaultDamping,
		MaxStepFraction:    defaultMaxStepFraction,
		OrientationScaling: defaultOrientationScaling,
	}
}

// Validate reports every invalid field.
func (opts Options) Validate() error {
	var err error
	if opts.MaxIterations <= 0 {
		err = multierr.Append(err, errors.Errorf("max_iterations must be positive, got %d", opts.MaxIterations))
	}
	if opts.MaxRestarts < 0 {
		err = multierr.Append(err, errors.Errorf("max_restarts cannot be negative, got %d", opts.MaxRestarts))
	}
	if opts.GoalThreshold <= 0 {
		err = multierr.Append(err, errors.Errorf("goal_threshold must be positive, got %f", opts.GoalThreshold))
	}
	if opts.Damping < 0 {
		err = multierr.Append(err, errors.Errorf("damping cannot be negative, got %f", opts.Damping))
	}
	if opts.MaxStepFraction <= 0 || opts.MaxStepFraction > 1 {
		err = multierr.Append(err, errors.Errorf("max_step_fraction must be in (0, 1], got %f", opts.MaxStepFraction))
	}
	if opts.OrientationScaling < 0 {
		err = multierr.Append(err, errors.Errorf("orientation_scaling cannot be negative, got %f", opts.OrientationScaling))
	}
	return err
}
