package spline

import (
	"math"

	"github.com/pkg/errors"
)

// Trajectory is a time parameterized path that an executor can sample without knowing how it was produced.
type Trajectory interface {
	NumOutputs() int
	NumDerivatives() int
	Duration() float64
	Evaluate(t float64, derivative int) []float64
}

// SplineTrajectory exposes a spline as a Trajectory whose time starts at zero.
type SplineTrajectory struct {
	spline *Spline
}

// NewSplineTrajectory wraps a fitted spline.
func NewSplineTrajectory(s *Spline) *SplineTrajectory {
	return &SplineTrajectory{spline: s}
}

// NumOutputs returns the number of output channels of the spline.
func (st *SplineTrajectory) NumOutputs() int {
	return st.spline.NumOutputs()
}

// NumDerivatives returns the highest non-trivial derivative of the spline.
func (st *SplineTrajectory) NumDerivatives() int {
	return st.spline.NumDerivatives()
}

// Duration returns the duration of the spline.
func (st *SplineTrajectory) Duration() float64 {
	return st.spline.Duration()
}

// Evaluate samples the spline t seconds after its first knot.
func (st *SplineTrajectory) Evaluate(t float64, derivative int) []float64 {
	return st.spline.Evaluate(st.spline.StartTime()+t, derivative)
}

// Sample is the state of a trajectory at one instant.
type Sample struct {
	Time     float64
	Position []float64
	Velocity []float64
}

// SampleTrajectory evaluates the trajectory every dt seconds from 0 up to and including its duration.
func SampleTrajectory(traj Trajectory, dt float64) ([]Sample, error) {
	if traj == nil {
		return nil, errors.New("cannot sample a nil trajectory")
	}
	if !(dt > 0) {
		return nil, errors.Errorf("sample period must be positive, got %f", dt)
	}
	duration := traj.Duration()
	steps := int(math.Ceil(duration/dt - 1e-9))
	samples := make([]Sample, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := math.Min(float64(i)*dt, duration)
		samples = append(samples, Sample{
			Time:     t,
			Position: traj.Evaluate(t, 0),
			Velocity: traj.Evaluate(t, 1),
		})
	}
	return samples, nil
}
