// Package statespace represents robot configurations as points on manifolds: rotation groups, rigid pose
// groups, real vector spaces and products of those. A space never retains the states it allocates.
package statespace

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/motioncore/utils"
)

// Kind tags the closed set of state space variants.
type Kind int

// The supported kinds of state space.
const (
	KindSO2 Kind = iota
	KindSO3
	KindSE2
	KindSE3
	KindRn
	KindCompound
)

func (k Kind) String() string {
	switch k {
	case KindSO2:
		return "SO2"
	case KindSO3:
		return "SO3"
	case KindSE2:
		return "SE2"
	case KindSE3:
		return "SE3"
	case KindRn:
		return "Rn"
	case KindCompound:
		return "Compound"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is a point on a state space. Only the space that allocated a state knows how to operate on it.
type State interface {
	Kind() Kind
}

// StateSpace describes a manifold with a group composition law and an exponential map from its tangent space.
type StateSpace interface {
	Kind() Kind

	// Dimension is the intrinsic (tangent) dimension of the space.
	Dimension() int

	// RepresentationDimension is the number of values used to store one state.
	RepresentationDimension() int

	// NewState allocates a state set to the identity element.
	NewState() State

	// Identity resets out to the identity element.
	Identity(out State) error

	// CopyState copies src into dst.
	CopyState(src, dst State) error

	// Compose writes the group product s1 * s2 into out. out may alias s1 or s2.
	Compose(s1, s2, out State) error

	// Inverse writes the group inverse of s into out. out may alias s.
	Inverse(s, out State) error

	// ExpMap writes the state reached by integrating the tangent vector from the identity into out.
	ExpMap(tangent []float64, out State) error

	// LogMap returns the tangent vector whose exponential is s.
	LogMap(s State) ([]float64, error)
}

// ErrKindMismatch is returned when two spaces of different kinds are combined.
var ErrKindMismatch = errors.New("state space kinds do not match")

func checkTangent(tangent []float64, dim int) error {
	if len(tangent) != dim {
		return utils.NewIncorrectDimensionError(len(tangent), dim)
	}
	return nil
}

// Between writes s1^-1 * s2 into out, the state that takes s1 to s2.
func Between(space StateSpace, s1, s2, out State) error {
	inv := space.NewState()
	if err := space.Inverse(s1, inv); err != nil {
		return err
	}
	return space.Compose(inv, s2, out)
}
