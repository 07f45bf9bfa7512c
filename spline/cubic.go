package spline

import (
	"github.com/pkg/errors"
)

// FitCubicWaypoints fits a clamped cubic spline that passes through one waypoint per knot time, starts and ends at
// rest, and is continuous in position, velocity and acceleration at every interior knot.
func FitCubicWaypoints(times []float64, waypoints [][]float64) (*Spline, error) {
	if len(times) != len(waypoints) {
		return nil, errors.Errorf("got %d knot times for %d waypoints", len(times), len(waypoints))
	}
	if len(waypoints) == 0 {
		return nil, errors.New("no waypoints to fit")
	}
	numOutputs := len(waypoints[0])
	problem, err := NewProblem(times, 4, numOutputs)
	if err != nil {
		return nil, err
	}
	zero := make([]float64, numOutputs)

	for knot, wp := range waypoints {
		if err := problem.AddConstantConstraint(knot, 0, wp); err != nil {
			return nil, errors.Wrapf(err, "waypoint %d", knot)
		}
	}
	if err := problem.AddConstantConstraint(0, 1, zero); err != nil {
		return nil, err
	}
	if err := problem.AddConstantConstraint(len(times)-1, 1, zero); err != nil {
		return nil, err
	}
	for knot := 1; knot < len(times)-1; knot++ {
		for derivative := 0; derivative < 3; derivative++ {
			if err := problem.AddContinuityConstraint(knot, derivative); err != nil {
				return nil, err
			}
		}
	}
	return problem.Fit()
}
