package constraint

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNilPoseConstraint is returned when an adaptor is given no pose constraint.
	ErrNilPoseConstraint = errors.New("pose constraint is nil")

	// ErrEmptyFrame is returned when an adaptor is given an empty frame name.
	ErrEmptyFrame = errors.New("frame name is empty")

	// ErrNilStateSpace is returned when a constraint is given no state space.
	ErrNilStateSpace = errors.New("state space is nil")

	// ErrNotSE3Constraint is returned when an adaptor's pose constraint is not defined on SE3.
	ErrNotSE3Constraint = errors.New("pose constraint is not defined on an SE3 state space")

	// ErrMissingSkeleton is returned when a configuration space has no skeleton.
	ErrMissingSkeleton = errors.New("state space has no skeleton")

	// ErrNotImplemented is returned by the bounds factories for state space kinds they do not cover.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnboundedSpace is returned when sampling is requested from a space with an infinite bound.
	ErrUnboundedSpace = errors.New("cannot sample from an unbounded space")
)

func newNotImplementedError(what string, kind fmt.Stringer) error {
	return errors.Wrapf(ErrNotImplemented, "%s for %s state spaces", what, kind)
}
