package statespace

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/motioncore/utils"
)

// SO2State is a planar rotation stored as an angle in (-pi, pi].
type SO2State struct {
	angle float64
}

// Kind returns KindSO2.
func (s *SO2State) Kind() Kind {
	return KindSO2
}

// Angle returns the rotation angle in radians.
func (s *SO2State) Angle() float64 {
	return s.angle
}

// SetAngle sets the rotation angle, wrapping it onto (-pi, pi].
func (s *SO2State) SetAngle(angle float64) {
	s.angle = utils.WrapAngle(angle)
}

// RotationMatrix returns the 2x2 rotation matrix of the state.
func (s *SO2State) RotationMatrix() *mat.Dense {
	return rotation2D(s.angle)
}

func rotation2D(theta float64) *mat.Dense {
	sin, cos := math.Sincos(theta)
	return mat.NewDense(2, 2, []float64{cos, -sin, sin, cos})
}

// SO2 is the group of planar rotations.
type SO2 struct{}

// NewSO2 returns the planar rotation group.
func NewSO2() *SO2 {
	return &SO2{}
}

func asSO2(s State) (*SO2State, error) {
	state, ok := s.(*SO2State)
	if !ok {
		return nil, utils.NewUnexpectedTypeError(state, s)
	}
	return state, nil
}

// Kind returns KindSO2.
func (space *SO2) Kind() Kind {
	return KindSO2
}

// Dimension is 1.
func (space *SO2) Dimension() int {
	return 1
}

// RepresentationDimension is 4, the entries of a 2x2 rotation matrix.
func (space *SO2) RepresentationDimension() int {
	return 4
}

// NewState returns the zero rotation.
func (space *SO2) NewState() State {
	return &SO2State{}
}

// Identity sets out to the zero rotation.
func (space *SO2) Identity(out State) error {
	o, err := asSO2(out)
	if err != nil {
		return err
	}
	o.angle = 0
	return nil
}

// CopyState copies src into dst.
func (space *SO2) CopyState(src, dst State) error {
	s, err := asSO2(src)
	if err != nil {
		return err
	}
	d, err := asSO2(dst)
	if err != nil {
		return err
	}
	*d = *s
	return nil
}

// Compose adds the two angles.
func (space *SO2) Compose(s1, s2, out State) error {
	a, err := asSO2(s1)
	if err != nil {
		return err
	}
	b, err := asSO2(s2)
	if err != nil {
		return err
	}
	o, err := asSO2(out)
	if err != nil {
		return err
	}
	o.SetAngle(a.angle + b.angle)
	return nil
}

// Inverse negates the angle.
func (space *SO2) Inverse(s, out State) error {
	a, err := asSO2(s)
	if err != nil {
		return err
	}
	o, err := asSO2(out)
	if err != nil {
		return err
	}
	o.SetAngle(-a.angle)
	return nil
}

// ExpMap sets out to the rotation by tangent[0] radians.
func (space *SO2) ExpMap(tangent []float64, out State) error {
	if err := checkTangent(tangent, 1); err != nil {
		return err
	}
	o, err := asSO2(out)
	if err != nil {
		return err
	}
	o.SetAngle(tangent[0])
	return nil
}

// LogMap returns the angle of s.
func (space *SO2) LogMap(s State) ([]float64, error) {
	a, err := asSO2(s)
	if err != nil {
		return nil, err
	}
	return []float64{a.angle}, nil
}
