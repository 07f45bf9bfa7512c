package constraint

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/statespace"
	"go.viam.com/motioncore/utils"
)

// NewTestableBounds returns the constraint checking a joint space's bounds.
func NewTestableBounds(space statespace.StateSpace) (Testable, error) {
	return newBounds(space, "testable bounds")
}

// NewProjectableBounds returns the constraint projecting states of a joint space into its bounds.
func NewProjectableBounds(space statespace.StateSpace) (Projectable, error) {
	return newBounds(space, "projectable bounds")
}

// NewDifferentiableBounds returns a joint space's bounds as inequality rows.
func NewDifferentiableBounds(space statespace.StateSpace) (Differentiable, error) {
	return newBounds(space, "differentiable bounds")
}

// NewSampleableBounds returns a constraint sampling uniformly within a joint space's bounds. Samples are drawn from
// rng, which must not be shared between goroutines.
func NewSampleableBounds(space statespace.StateSpace, rng *rand.Rand) (Sampleable, error) {
	b, err := newBounds(space, "sampleable bounds")
	if err != nil {
		return nil, err
	}
	if err := b.checkSampleable(); err != nil {
		return nil, err
	}
	return &sampleableBounds{bounds: b, rng: rng}, nil
}

// bounds covers the joint spaces: Rn is a box, SO2 and SO3 have nothing to bound.
type bounds interface {
	Testable
	Projectable
	Differentiable
	checkSampleable() error
	sample(rng *rand.Rand, out statespace.State) error
}

func newBounds(space statespace.StateSpace, what string) (bounds, error) {
	if space == nil {
		return nil, ErrNilStateSpace
	}
	switch space.Kind() {
	case statespace.KindRn:
		rn, ok := space.(*statespace.Rn)
		if !ok {
			return nil, utils.NewUnexpectedTypeError(rn, space)
		}
		return &rnBounds{space: rn}, nil
	case statespace.KindSO2, statespace.KindSO3:
		return &rotationBounds{space: space}, nil
	case statespace.KindSE2, statespace.KindSE3, statespace.KindCompound:
		return nil, newNotImplementedError(what, space.Kind())
	default:
		return nil, newNotImplementedError(what, space.Kind())
	}
}

type rnBounds struct {
	space *statespace.Rn
}

func (b *rnBounds) StateSpace() statespace.StateSpace {
	return b.space
}

func (b *rnBounds) values(s statespace.State) ([]float64, error) {
	state, ok := s.(*statespace.RnState)
	if !ok {
		return nil, utils.NewUnexpectedTypeError(state, s)
	}
	if len(state.Values()) != b.space.Dimension() {
		return nil, utils.NewIncorrectDimensionError(len(state.Values()), b.space.Dimension())
	}
	return state.Values(), nil
}

func (b *rnBounds) IsSatisfied(s statespace.State) (bool, error) {
	return b.space.InBounds(s)
}

func (b *rnBounds) Project(s, out statespace.State) error {
	values, err := b.values(s)
	if err != nil {
		return err
	}
	dst, ok := out.(*statespace.RnState)
	if !ok {
		return utils.NewUnexpectedTypeError(dst, out)
	}
	for i, lim := range b.space.Bounds() {
		values[i] = utils.Clamp(values[i], lim.Min, lim.Max)
	}
	return dst.SetValues(values)
}

func (b *rnBounds) ConstraintDimension() int {
	return b.space.Dimension()
}

func (b *rnBounds) ConstraintTypes() []Type {
	return uniformTypes(b.space.Dimension(), Inequality)
}

// Value is max(min - x, x - max) per coordinate, which is non-positive inside the box. Unbounded coordinates are 0.
func (b *rnBounds) Value(s statespace.State) ([]float64, error) {
	value, _, err := b.ValueAndJacobian(s)
	return value, err
}

func (b *rnBounds) Jacobian(s statespace.State) (*mat.Dense, error) {
	_, jac, err := b.ValueAndJacobian(s)
	return jac, err
}

func (b *rnBounds) ValueAndJacobian(s statespace.State) ([]float64, *mat.Dense, error) {
	values, err := b.values(s)
	if err != nil {
		return nil, nil, err
	}
	n := len(values)
	if n == 0 {
		return []float64{}, &mat.Dense{}, nil
	}
	value := make([]float64, n)
	jac := mat.NewDense(n, n, nil)
	for i, lim := range b.space.Bounds() {
		below := lim.Min - values[i]
		above := values[i] - lim.Max
		switch {
		case math.IsInf(lim.Min, -1) && math.IsInf(lim.Max, 1):
		case above >= below:
			value[i] = above
			jac.Set(i, i, 1)
		default:
			value[i] = below
			jac.Set(i, i, -1)
		}
	}
	return value, jac, nil
}

func (b *rnBounds) checkSampleable() error {
	if !b.space.IsBounded() {
		return ErrUnboundedSpace
	}
	return nil
}

func (b *rnBounds) sample(rng *rand.Rand, out statespace.State) error {
	dst, ok := out.(*statespace.RnState)
	if !ok {
		return utils.NewUnexpectedTypeError(dst, out)
	}
	limits := b.space.Bounds()
	values := make([]float64, len(limits))
	for i, lim := range limits {
		if lim.Min == lim.Max {
			values[i] = lim.Min
			continue
		}
		values[i] = distuv.Uniform{Min: lim.Min, Max: lim.Max, Src: rng}.Rand()
	}
	return dst.SetValues(values)
}

// rotationBounds bounds SO2 and SO3 joint spaces, which are always satisfied and have no constraint rows.
type rotationBounds struct {
	space statespace.StateSpace
}

func (b *rotationBounds) StateSpace() statespace.StateSpace {
	return b.space
}

func (b *rotationBounds) IsSatisfied(s statespace.State) (bool, error) {
	if s == nil || s.Kind() != b.space.Kind() {
		return false, statespace.ErrKindMismatch
	}
	return true, nil
}

func (b *rotationBounds) Project(s, out statespace.State) error {
	return b.space.CopyState(s, out)
}

func (b *rotationBounds) ConstraintDimension() int {
	return 0
}

func (b *rotationBounds) ConstraintTypes() []Type {
	return []Type{}
}

func (b *rotationBounds) Value(s statespace.State) ([]float64, error) {
	if _, err := b.IsSatisfied(s); err != nil {
		return nil, err
	}
	return []float64{}, nil
}

func (b *rotationBounds) Jacobian(s statespace.State) (*mat.Dense, error) {
	if _, err := b.IsSatisfied(s); err != nil {
		return nil, err
	}
	return &mat.Dense{}, nil
}

func (b *rotationBounds) ValueAndJacobian(s statespace.State) ([]float64, *mat.Dense, error) {
	if _, err := b.IsSatisfied(s); err != nil {
		return nil, nil, err
	}
	return []float64{}, &mat.Dense{}, nil
}

func (b *rotationBounds) checkSampleable() error {
	return nil
}

func (b *rotationBounds) sample(rng *rand.Rand, out statespace.State) error {
	switch dst := out.(type) {
	case *statespace.SO2State:
		if b.space.Kind() != statespace.KindSO2 {
			return statespace.ErrKindMismatch
		}
		dst.SetAngle(distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: rng}.Rand())
	case *statespace.SO3State:
		if b.space.Kind() != statespace.KindSO3 {
			return statespace.ErrKindMismatch
		}
		dst.SetQuaternion(spatialmath.RandomQuaternion(rng))
	default:
		return statespace.ErrKindMismatch
	}
	return nil
}

type sampleableBounds struct {
	bounds bounds
	rng    *rand.Rand
}

func (b *sampleableBounds) StateSpace() statespace.StateSpace {
	return b.bounds.StateSpace()
}

// SampleGenerator returns an unbounded generator of states inside the bounds. Generators share the constraint's
// random stream.
func (b *sampleableBounds) SampleGenerator() SampleGenerator[statespace.State] {
	return &boundsSampler{bounds: b.bounds, rng: b.rng}
}

type boundsSampler struct {
	bounds bounds
	rng    *rand.Rand
}

func (g *boundsSampler) Sample() (statespace.State, bool) {
	s := g.bounds.StateSpace().NewState()
	if err := g.bounds.sample(g.rng, s); err != nil {
		return nil, false
	}
	return s, true
}

func (g *boundsSampler) CanSample() bool {
	return true
}

func (g *boundsSampler) NumSamples() int {
	return NumSamplesUnbounded
}
