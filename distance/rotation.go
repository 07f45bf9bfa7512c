package distance

import (
	"math"

	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/statespace"
	"go.viam.com/motioncore/utils"
)

// GeodesicMetric is the rotation angle between two spatial rotations, in [0, pi].
type GeodesicMetric struct {
	space *statespace.SO3
}

// NewGeodesicMetric returns the geodesic metric of SO3.
func NewGeodesicMetric(space *statespace.SO3) *GeodesicMetric {
	return &GeodesicMetric{space: space}
}

// StateSpace returns the SO3 space of the metric.
func (m *GeodesicMetric) StateSpace() statespace.StateSpace {
	return m.space
}

func so3States(a, b statespace.State) (*statespace.SO3State, *statespace.SO3State, error) {
	s1, ok := a.(*statespace.SO3State)
	if !ok {
		return nil, nil, utils.NewUnexpectedTypeError(s1, a)
	}
	s2, ok := b.(*statespace.SO3State)
	if !ok {
		return nil, nil, utils.NewUnexpectedTypeError(s2, b)
	}
	return s1, s2, nil
}

// Distance returns the angle of the rotation between a and b.
func (m *GeodesicMetric) Distance(a, b statespace.State) (float64, error) {
	s1, s2, err := so3States(a, b)
	if err != nil {
		return 0, err
	}
	return spatialmath.GeodesicAngle(s1.Orientation(), s2.Orientation()), nil
}

// Interpolate performs spherical linear interpolation along the shorter arc.
func (m *GeodesicMetric) Interpolate(from, to statespace.State, t float64, out statespace.State) error {
	s1, s2, err := so3States(from, to)
	if err != nil {
		return err
	}
	o, ok := out.(*statespace.SO3State)
	if !ok {
		return utils.NewUnexpectedTypeError(o, out)
	}
	o.SetQuaternion(spatialmath.Slerp(s1.Quaternion(), s2.Quaternion(), t))
	return nil
}

// AngularMetric is the shortest arc between two planar rotations, in [0, pi].
type AngularMetric struct {
	space *statespace.SO2
}

// NewAngularMetric returns the angular metric of SO2.
func NewAngularMetric(space *statespace.SO2) *AngularMetric {
	return &AngularMetric{space: space}
}

// StateSpace returns the SO2 space of the metric.
func (m *AngularMetric) StateSpace() statespace.StateSpace {
	return m.space
}

func so2States(a, b statespace.State) (*statespace.SO2State, *statespace.SO2State, error) {
	s1, ok := a.(*statespace.SO2State)
	if !ok {
		return nil, nil, utils.NewUnexpectedTypeError(s1, a)
	}
	s2, ok := b.(*statespace.SO2State)
	if !ok {
		return nil, nil, utils.NewUnexpectedTypeError(s2, b)
	}
	return s1, s2, nil
}

// Distance returns the absolute wrapped angle between a and b.
func (m *AngularMetric) Distance(a, b statespace.State) (float64, error) {
	s1, s2, err := so2States(a, b)
	if err != nil {
		return 0, err
	}
	return math.Abs(utils.WrapAngle(s2.Angle() - s1.Angle())), nil
}

// Interpolate moves along the shorter arc at constant angular speed.
func (m *AngularMetric) Interpolate(from, to statespace.State, t float64, out statespace.State) error {
	s1, s2, err := so2States(from, to)
	if err != nil {
		return err
	}
	o, ok := out.(*statespace.SO2State)
	if !ok {
		return utils.NewUnexpectedTypeError(o, out)
	}
	start := s1.Angle()
	o.SetAngle(start + t*utils.WrapAngle(s2.Angle()-start))
	return nil
}
