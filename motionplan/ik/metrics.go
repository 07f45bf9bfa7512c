package ik

import (
	"math"

	"go.viam.com/motioncore/referenceframe"
	spatial "go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/utils"
)

const orientationDistanceScaling = 10.

// State is a configuration of a skeleton together with the pose of the frame being solved for.
type State struct {
	Position      spatial.Pose
	Configuration []referenceframe.Input
}

// StateMetric are functions which, given a State, produces some score. Lower is better.
// This is used for gradient descent to converge upon a goal pose, for example.
type StateMetric func(*State) float64

type combinableStateMetric struct {
	metrics []StateMetric
}

func (m *combinableStateMetric) combinedDist(input *State) float64 {
	dist := 0.
	for _, metric := range m.metrics {
		dist += metric(input)
	}
	return dist
}

// CombineMetrics will take a variable number of Metrics and return a new Metric which will combine all given metrics
// into one, summing their distances.
func CombineMetrics(metrics ...StateMetric) StateMetric {
	cm := &combinableStateMetric{metrics: metrics}
	return cm.combinedDist
}

// OrientDist returns the arclength between two orientations in degrees.
func OrientDist(o1, o2 spatial.Orientation) float64 {
	return utils.RadToDeg(spatial.GeodesicAngle(o1, o2))
}

// NewSquaredNormMetric is the default distance function between two poses to be used for gradient descent.
func NewSquaredNormMetric(goal spatial.Pose) StateMetric {
	return NewScaledSquaredNormMetric(goal, orientationDistanceScaling)
}

// NewScaledSquaredNormMetric is the squared norm metric with the orientation weight chosen by the caller.
func NewScaledSquaredNormMetric(goal spatial.Pose, orientationScaling float64) StateMetric {
	return func(query *State) float64 {
		delta := spatial.PoseDelta(goal, query.Position)
		dist := 0.
		for i, d := range delta {
			if i >= 3 {
				// Increase weight for orientation since it's a small number
				d *= orientationScaling
			}
			dist += d * d
		}
		return dist
	}
}

// NewPositionOnlyMetric returns a Metric that reports the point-wise distance between two poses without regard for
// orientation. This is useful for scenarios where there are not enough DOF to control orientation, but arbitrary
// spatial points may still be arrived at.
func NewPositionOnlyMetric(goal spatial.Pose) StateMetric {
	return func(state *State) float64 {
		pDist := state.Position.Point().Distance(goal.Point())
		return pDist * pDist
	}
}

// NewJointTravelMetric scores a state by the summed absolute joint change from start.
func NewJointTravelMetric(start []referenceframe.Input) StateMetric {
	return func(state *State) float64 {
		jScore := 0.
		for i, f := range start {
			jScore += math.Abs(f.Value - state.Configuration[i].Value)
		}
		return jScore
	}
}
