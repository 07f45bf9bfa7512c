// Package constraint defines constraints on state spaces and the adaptors that lift a constraint on a frame's pose
// into the configuration space of a skeleton.
package constraint

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/motioncore/statespace"
)

// Type is whether a constraint row is satisfied at zero or anywhere at or below zero.
type Type int

const (
	// Equality rows are satisfied when the value is zero.
	Equality Type = iota
	// Inequality rows are satisfied when the value is less than or equal to zero.
	Inequality
)

func (t Type) String() string {
	switch t {
	case Equality:
		return "equality"
	case Inequality:
		return "inequality"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Testable is a constraint that can report whether a state satisfies it.
type Testable interface {
	StateSpace() statespace.StateSpace
	IsSatisfied(s statespace.State) (bool, error)
}

// Projectable is a constraint that can move a state onto its feasible set.
type Projectable interface {
	StateSpace() statespace.StateSpace
	Project(s, out statespace.State) error
}

// Differentiable is a vector-valued constraint with a Jacobian with respect to the tangent space of its state space.
// Value has ConstraintDimension entries; the Jacobian is ConstraintDimension x StateSpace().Dimension().
type Differentiable interface {
	StateSpace() statespace.StateSpace
	ConstraintDimension() int
	ConstraintTypes() []Type
	Value(s statespace.State) ([]float64, error)
	Jacobian(s statespace.State) (*mat.Dense, error)
	ValueAndJacobian(s statespace.State) ([]float64, *mat.Dense, error)
}

// Sampleable is a constraint that can generate states satisfying it.
type Sampleable interface {
	StateSpace() statespace.StateSpace
	SampleGenerator() SampleGenerator[statespace.State]
}

// IsSatisfiedBy reports whether values satisfy constraint rows of the given types within tolerance.
func IsSatisfiedBy(values []float64, types []Type, tolerance float64) bool {
	for i, v := range values {
		switch types[i] {
		case Equality:
			if v > tolerance || v < -tolerance {
				return false
			}
		case Inequality:
			if v > tolerance {
				return false
			}
		}
	}
	return true
}

func uniformTypes(n int, t Type) []Type {
	types := make([]Type, n)
	for i := range types {
		types[i] = t
	}
	return types
}
