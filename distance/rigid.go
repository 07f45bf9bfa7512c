package distance

import (
	"github.com/golang/geo/r2"

	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/statespace"
	"go.viam.com/motioncore/utils"
)

// SE3Metric is a weighted sum of the translation distance and the rotation angle between two rigid transforms.
// Interpolation moves the translation along a straight line and the rotation along the geodesic.
type SE3Metric struct {
	space         *statespace.SE3
	linearWeight  float64
	angularWeight float64
}

// NewSE3Metric returns a rigid transform metric with the given weights on translation and rotation.
func NewSE3Metric(space *statespace.SE3, linearWeight, angularWeight float64) *SE3Metric {
	return &SE3Metric{space: space, linearWeight: linearWeight, angularWeight: angularWeight}
}

// StateSpace returns the SE3 space of the metric.
func (m *SE3Metric) StateSpace() statespace.StateSpace {
	return m.space
}

func se3States(a, b statespace.State) (*statespace.SE3State, *statespace.SE3State, error) {
	s1, ok := a.(*statespace.SE3State)
	if !ok {
		return nil, nil, utils.NewUnexpectedTypeError(s1, a)
	}
	s2, ok := b.(*statespace.SE3State)
	if !ok {
		return nil, nil, utils.NewUnexpectedTypeError(s2, b)
	}
	return s1, s2, nil
}

// Distance returns linearWeight * |p2 - p1| + angularWeight * angle(R1, R2).
func (m *SE3Metric) Distance(a, b statespace.State) (float64, error) {
	s1, s2, err := se3States(a, b)
	if err != nil {
		return 0, err
	}
	p1, p2 := s1.Pose(), s2.Pose()
	return m.linearWeight*p1.Point().Distance(p2.Point()) +
		m.angularWeight*spatialmath.GeodesicAngle(p1.Orientation(), p2.Orientation()), nil
}

// Interpolate writes the pose a fraction t between from and to.
func (m *SE3Metric) Interpolate(from, to statespace.State, t float64, out statespace.State) error {
	s1, s2, err := se3States(from, to)
	if err != nil {
		return err
	}
	o, ok := out.(*statespace.SE3State)
	if !ok {
		return utils.NewUnexpectedTypeError(o, out)
	}
	o.SetPose(spatialmath.Interpolate(s1.Pose(), s2.Pose(), t))
	return nil
}

// SE2Metric is the planar counterpart of SE3Metric.
type SE2Metric struct {
	space         *statespace.SE2
	linearWeight  float64
	angularWeight float64
}

// NewSE2Metric returns a planar transform metric with the given weights on translation and heading.
func NewSE2Metric(space *statespace.SE2, linearWeight, angularWeight float64) *SE2Metric {
	return &SE2Metric{space: space, linearWeight: linearWeight, angularWeight: angularWeight}
}

// StateSpace returns the SE2 space of the metric.
func (m *SE2Metric) StateSpace() statespace.StateSpace {
	return m.space
}

func se2States(a, b statespace.State) (*statespace.SE2State, *statespace.SE2State, error) {
	s1, ok := a.(*statespace.SE2State)
	if !ok {
		return nil, nil, utils.NewUnexpectedTypeError(s1, a)
	}
	s2, ok := b.(*statespace.SE2State)
	if !ok {
		return nil, nil, utils.NewUnexpectedTypeError(s2, b)
	}
	return s1, s2, nil
}

// Distance returns linearWeight * |t2 - t1| + angularWeight * |wrap(theta2 - theta1)|.
func (m *SE2Metric) Distance(a, b statespace.State) (float64, error) {
	s1, s2, err := se2States(a, b)
	if err != nil {
		return 0, err
	}
	dTheta := utils.WrapAngle(s2.Angle() - s1.Angle())
	if dTheta < 0 {
		dTheta = -dTheta
	}
	return m.linearWeight*s2.Translation().Sub(s1.Translation()).Norm() + m.angularWeight*dTheta, nil
}

// Interpolate writes the planar pose a fraction t between from and to.
func (m *SE2Metric) Interpolate(from, to statespace.State, t float64, out statespace.State) error {
	s1, s2, err := se2States(from, to)
	if err != nil {
		return err
	}
	o, ok := out.(*statespace.SE2State)
	if !ok {
		return utils.NewUnexpectedTypeError(o, out)
	}
	t1, t2 := s1.Translation(), s2.Translation()
	angle := s1.Angle() + t*utils.WrapAngle(s2.Angle()-s1.Angle())
	o.Set(angle, r2.Point{X: t1.X + t*(t2.X-t1.X), Y: t1.Y + t*(t2.Y-t1.Y)})
	return nil
}
