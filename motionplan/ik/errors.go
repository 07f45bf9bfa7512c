package ik

import "github.com/pkg/errors"

// ErrNoSolution is returned when a solver exhausts its iterations and restarts without reaching the goal.
var ErrNoSolution = errors.New("no IK solution found")
