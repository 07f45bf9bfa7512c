package statespace

import (
	"github.com/pkg/errors"

	"go.viam.com/motioncore/utils"
)

// CompoundState holds one state per subspace of a Compound space.
type CompoundState struct {
	substates []State
}

// Kind returns KindCompound.
func (s *CompoundState) Kind() Kind {
	return KindCompound
}

// Substate returns the state of the i-th subspace. It aliases the compound state.
func (s *CompoundState) Substate(i int) State {
	return s.substates[i]
}

// NumSubstates returns the number of substates.
func (s *CompoundState) NumSubstates() int {
	return len(s.substates)
}

// Product is implemented by spaces built from positional subspaces.
type Product interface {
	StateSpace
	NumSubspaces() int
	Subspace(i int) StateSpace
	Substates(s State) ([]State, error)
}

// Compound is the cartesian product of its subspaces. Every operation acts on each subspace independently and
// tangent vectors are the positional concatenation of the subspace tangents.
type Compound struct {
	subspaces []StateSpace
}

// NewCompound returns the product of the given spaces.
func NewCompound(subspaces ...StateSpace) (*Compound, error) {
	for i, s := range subspaces {
		if s == nil {
			return nil, errors.Errorf("subspace %d is nil", i)
		}
	}
	return &Compound{subspaces: append([]StateSpace{}, subspaces...)}, nil
}

// NumSubspaces returns the number of subspaces.
func (space *Compound) NumSubspaces() int {
	return len(space.subspaces)
}

// Subspace returns the i-th subspace.
func (space *Compound) Subspace(i int) StateSpace {
	return space.subspaces[i]
}

// Substates returns the substates of s, checking that it belongs to this space. The substates alias s.
func (space *Compound) Substates(s State) ([]State, error) {
	state, err := space.asCompound(s)
	if err != nil {
		return nil, err
	}
	for i, sub := range state.substates {
		if sub.Kind() != space.subspaces[i].Kind() {
			return nil, errors.Wrapf(ErrKindMismatch, "substate %d is %v, subspace is %v", i, sub.Kind(), space.subspaces[i].Kind())
		}
	}
	return state.substates, nil
}

func (space *Compound) asCompound(s State) (*CompoundState, error) {
	state, ok := s.(*CompoundState)
	if !ok {
		return nil, utils.NewUnexpectedTypeError(state, s)
	}
	if len(state.substates) != len(space.subspaces) {
		return nil, errors.Errorf("compound state has %d substates but space has %d subspaces",
			len(state.substates), len(space.subspaces))
	}
	return state, nil
}

// Kind returns KindCompound.
func (space *Compound) Kind() Kind {
	return KindCompound
}

// Dimension is the sum of the subspace dimensions.
func (space *Compound) Dimension() int {
	dim := 0
	for _, s := range space.subspaces {
		dim += s.Dimension()
	}
	return dim
}

// RepresentationDimension is the sum of the subspace representation dimensions.
func (space *Compound) RepresentationDimension() int {
	dim := 0
	for _, s := range space.subspaces {
		dim += s.RepresentationDimension()
	}
	return dim
}

// NewState returns the identity of every subspace.
func (space *Compound) NewState() State {
	substates := make([]State, len(space.subspaces))
	for i, s := range space.subspaces {
		substates[i] = s.NewState()
	}
	return &CompoundState{substates: substates}
}

// Identity sets every substate of out to its identity.
func (space *Compound) Identity(out State) error {
	o, err := space.asCompound(out)
	if err != nil {
		return err
	}
	for i, s := range space.subspaces {
		if err := s.Identity(o.substates[i]); err != nil {
			return errors.Wrapf(err, "subspace %d", i)
		}
	}
	return nil
}

// CopyState copies src into dst substate by substate.
func (space *Compound) CopyState(src, dst State) error {
	return space.each2(src, dst, func(s StateSpace, a, b State) error {
		return s.CopyState(a, b)
	})
}

// Compose composes each pair of substates.
func (space *Compound) Compose(s1, s2, out State) error {
	a, err := space.asCompound(s1)
	if err != nil {
		return err
	}
	b, err := space.asCompound(s2)
	if err != nil {
		return err
	}
	o, err := space.asCompound(out)
	if err != nil {
		return err
	}
	for i, s := range space.subspaces {
		if err := s.Compose(a.substates[i], b.substates[i], o.substates[i]); err != nil {
			return errors.Wrapf(err, "subspace %d", i)
		}
	}
	return nil
}

// Inverse inverts each substate.
func (space *Compound) Inverse(s, out State) error {
	return space.each2(s, out, func(sub StateSpace, a, b State) error {
		return sub.Inverse(a, b)
	})
}

// ExpMap splits the tangent vector by subspace dimension and maps each part.
func (space *Compound) ExpMap(tangent []float64, out State) error {
	if err := checkTangent(tangent, space.Dimension()); err != nil {
		return err
	}
	o, err := space.asCompound(out)
	if err != nil {
		return err
	}
	idx := 0
	for i, s := range space.subspaces {
		dim := s.Dimension()
		if err := s.ExpMap(tangent[idx:idx+dim], o.substates[i]); err != nil {
			return errors.Wrapf(err, "subspace %d", i)
		}
		idx += dim
	}
	return nil
}

// LogMap concatenates the tangent vectors of every substate.
func (space *Compound) LogMap(s State) ([]float64, error) {
	a, err := space.asCompound(s)
	if err != nil {
		return nil, err
	}
	tangent := make([]float64, 0, space.Dimension())
	for i, sub := range space.subspaces {
		t, err := sub.LogMap(a.substates[i])
		if err != nil {
			return nil, errors.Wrapf(err, "subspace %d", i)
		}
		tangent = append(tangent, t...)
	}
	return tangent, nil
}

func (space *Compound) each2(s1, s2 State, f func(StateSpace, State, State) error) error {
	a, err := space.asCompound(s1)
	if err != nil {
		return err
	}
	b, err := space.asCompound(s2)
	if err != nil {
		return err
	}
	for i, s := range space.subspaces {
		if err := f(s, a.substates[i], b.substates[i]); err != nil {
			return errors.Wrapf(err, "subspace %d", i)
		}
	}
	return nil
}
