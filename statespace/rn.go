package statespace

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/motioncore/referenceframe"
	"go.viam.com/motioncore/utils"
)

// RnState is a point of a real vector space.
type RnState struct {
	values []float64
}

// NewRnState returns a state holding a copy of values.
func NewRnState(values []float64) *RnState {
	return &RnState{values: append([]float64{}, values...)}
}

// Kind returns KindRn.
func (s *RnState) Kind() Kind {
	return KindRn
}

// Values returns a copy of the coordinates of the state.
func (s *RnState) Values() []float64 {
	return append([]float64{}, s.values...)
}

// At returns the i-th coordinate.
func (s *RnState) At(i int) float64 {
	return s.values[i]
}

// SetValues copies values into the state. The length must match the state's dimension.
func (s *RnState) SetValues(values []float64) error {
	if len(values) != len(s.values) {
		return utils.NewIncorrectDimensionError(len(values), len(s.values))
	}
	copy(s.values, values)
	return nil
}

// Rn is a real vector space of fixed dimension with optional per-coordinate bounds.
// Composition is vector addition.
type Rn struct {
	dim    int
	bounds []referenceframe.Limit
}

// NewRn returns an unbounded real vector space.
func NewRn(dim int) *Rn {
	bounds := make([]referenceframe.Limit, dim)
	for i := range bounds {
		bounds[i] = referenceframe.Limit{Min: math.Inf(-1), Max: math.Inf(1)}
	}
	return &Rn{dim: dim, bounds: bounds}
}

// NewBoundedRn returns a real vector space with one coordinate per limit.
func NewBoundedRn(bounds []referenceframe.Limit) (*Rn, error) {
	for i, b := range bounds {
		if b.Min > b.Max {
			return nil, errors.Errorf("lower bound %f of coordinate %d is greater than upper bound %f", b.Min, i, b.Max)
		}
	}
	return &Rn{dim: len(bounds), bounds: append([]referenceframe.Limit{}, bounds...)}, nil
}

// Bounds returns the per-coordinate bounds of the space.
func (space *Rn) Bounds() []referenceframe.Limit {
	return append([]referenceframe.Limit{}, space.bounds...)
}

// IsBounded reports whether every coordinate has finite bounds.
func (space *Rn) IsBounded() bool {
	for _, b := range space.bounds {
		if !b.IsFinite() {
			return false
		}
	}
	return true
}

// InBounds reports whether the state satisfies every bound.
func (space *Rn) InBounds(s State) (bool, error) {
	a, err := space.asRn(s)
	if err != nil {
		return false, err
	}
	return referenceframe.InputsWithinLimits(referenceframe.FloatsToInputs(a.values), space.bounds), nil
}

func (space *Rn) asRn(s State) (*RnState, error) {
	state, ok := s.(*RnState)
	if !ok {
		return nil, utils.NewUnexpectedTypeError(state, s)
	}
	if len(state.values) != space.dim {
		return nil, utils.NewIncorrectDimensionError(len(state.values), space.dim)
	}
	return state, nil
}

// Kind returns KindRn.
func (space *Rn) Kind() Kind {
	return KindRn
}

// Dimension is the number of coordinates.
func (space *Rn) Dimension() int {
	return space.dim
}

// RepresentationDimension is the number of coordinates.
func (space *Rn) RepresentationDimension() int {
	return space.dim
}

// NewState returns the origin.
func (space *Rn) NewState() State {
	return &RnState{values: make([]float64, space.dim)}
}

// Identity sets out to the origin.
func (space *Rn) Identity(out State) error {
	o, err := space.asRn(out)
	if err != nil {
		return err
	}
	for i := range o.values {
		o.values[i] = 0
	}
	return nil
}

// CopyState copies src into dst.
func (space *Rn) CopyState(src, dst State) error {
	s, err := space.asRn(src)
	if err != nil {
		return err
	}
	d, err := space.asRn(dst)
	if err != nil {
		return err
	}
	copy(d.values, s.values)
	return nil
}

// Compose adds the two vectors.
func (space *Rn) Compose(s1, s2, out State) error {
	a, err := space.asRn(s1)
	if err != nil {
		return err
	}
	b, err := space.asRn(s2)
	if err != nil {
		return err
	}
	o, err := space.asRn(out)
	if err != nil {
		return err
	}
	floats.AddTo(o.values, a.values, b.values)
	return nil
}

// Inverse negates the vector.
func (space *Rn) Inverse(s, out State) error {
	a, err := space.asRn(s)
	if err != nil {
		return err
	}
	o, err := space.asRn(out)
	if err != nil {
		return err
	}
	floats.ScaleTo(o.values, -1, a.values)
	return nil
}

// ExpMap sets out to the tangent vector itself.
func (space *Rn) ExpMap(tangent []float64, out State) error {
	if err := checkTangent(tangent, space.dim); err != nil {
		return err
	}
	o, err := space.asRn(out)
	if err != nil {
		return err
	}
	copy(o.values, tangent)
	return nil
}

// LogMap returns the coordinates of s.
func (space *Rn) LogMap(s State) ([]float64, error) {
	a, err := space.asRn(s)
	if err != nil {
		return nil, err
	}
	return a.Values(), nil
}
