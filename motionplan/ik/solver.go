// Package ik contains inverse kinematics solvers that find joint positions placing a skeleton frame at a goal pose.
package ik

import (
	"context"

	"go.viam.com/motioncore/referenceframe"
	"go.viam.com/motioncore/spatialmath"
)

// Solver finds a configuration placing a frame at a goal pose, starting the search from seed.
type Solver interface {
	Solve(ctx context.Context, goal spatialmath.Pose, seed []referenceframe.Input) ([]referenceframe.Input, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, goal spatialmath.Pose, seed []referenceframe.Input) ([]referenceframe.Input, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, goal spatialmath.Pose, seed []referenceframe.Input) ([]referenceframe.Input, error) {
	return f(ctx, goal, seed)
}
