package statespace

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/utils"
)

// SO3State is a spatial rotation stored as a unit quaternion.
type SO3State struct {
	q quat.Number
}

// NewSO3State returns the rotation of the given orientation.
func NewSO3State(o spatialmath.Orientation) *SO3State {
	return &SO3State{q: spatialmath.Normalize(o.Quaternion())}
}

// Kind returns KindSO3.
func (s *SO3State) Kind() Kind {
	return KindSO3
}

// Quaternion returns the unit quaternion of the state.
func (s *SO3State) Quaternion() quat.Number {
	return s.q
}

// SetQuaternion sets the rotation, normalizing q.
func (s *SO3State) SetQuaternion(q quat.Number) {
	s.q = spatialmath.Normalize(q)
}

// Orientation returns the rotation as a spatialmath orientation.
func (s *SO3State) Orientation() spatialmath.Orientation {
	q := spatialmath.Quaternion(s.q)
	return &q
}

// SO3 is the group of spatial rotations.
type SO3 struct{}

// NewSO3 returns the spatial rotation group.
func NewSO3() *SO3 {
	return &SO3{}
}

func asSO3(s State) (*SO3State, error) {
	state, ok := s.(*SO3State)
	if !ok {
		return nil, utils.NewUnexpectedTypeError(state, s)
	}
	return state, nil
}

// Kind returns KindSO3.
func (space *SO3) Kind() Kind {
	return KindSO3
}

// Dimension is 3.
func (space *SO3) Dimension() int {
	return 3
}

// RepresentationDimension is 4, the components of a quaternion.
func (space *SO3) RepresentationDimension() int {
	return 4
}

// NewState returns the identity rotation.
func (space *SO3) NewState() State {
	return &SO3State{q: quat.Number{Real: 1}}
}

// Identity sets out to the identity rotation.
func (space *SO3) Identity(out State) error {
	o, err := asSO3(out)
	if err != nil {
		return err
	}
	o.q = quat.Number{Real: 1}
	return nil
}

// CopyState copies src into dst.
func (space *SO3) CopyState(src, dst State) error {
	s, err := asSO3(src)
	if err != nil {
		return err
	}
	d, err := asSO3(dst)
	if err != nil {
		return err
	}
	*d = *s
	return nil
}

// Compose writes the rotation s1 followed, in its own frame, by s2.
func (space *SO3) Compose(s1, s2, out State) error {
	a, err := asSO3(s1)
	if err != nil {
		return err
	}
	b, err := asSO3(s2)
	if err != nil {
		return err
	}
	o, err := asSO3(out)
	if err != nil {
		return err
	}
	o.SetQuaternion(quat.Mul(a.q, b.q))
	return nil
}

// Inverse writes the conjugate rotation.
func (space *SO3) Inverse(s, out State) error {
	a, err := asSO3(s)
	if err != nil {
		return err
	}
	o, err := asSO3(out)
	if err != nil {
		return err
	}
	o.q = quat.Conj(a.q)
	return nil
}

// ExpMap sets out to the rotation of the rotation vector tangent.
func (space *SO3) ExpMap(tangent []float64, out State) error {
	if err := checkTangent(tangent, 3); err != nil {
		return err
	}
	o, err := asSO3(out)
	if err != nil {
		return err
	}
	o.q = spatialmath.ExpMapSO3(r3.Vector{X: tangent[0], Y: tangent[1], Z: tangent[2]})
	return nil
}

// LogMap returns the rotation vector of s, with norm at most pi.
func (space *SO3) LogMap(s State) ([]float64, error) {
	a, err := asSO3(s)
	if err != nil {
		return nil, err
	}
	v := spatialmath.LogMapSO3(a.q)
	return []float64{v.X, v.Y, v.Z}, nil
}
