package statespace

import (
	"github.com/pkg/errors"

	"go.viam.com/motioncore/referenceframe"
)

// ErrNilSkeleton is returned when a configuration space is requested for a nil skeleton.
var ErrNilSkeleton = errors.New("skeleton is nil")

// MetaSkeletonStateSpace is the configuration space of a skeleton: a compound of one subspace per degree of
// freedom, in the skeleton's joint order. Revolute joints with finite limits and prismatic joints map to bounded
// one dimensional real spaces, continuous joints map to SO2.
type MetaSkeletonStateSpace struct {
	*Compound
	skeleton referenceframe.Skeleton
}

// NewJointSpace returns the subspace of a single joint.
func NewJointSpace(jointType referenceframe.JointType, limit referenceframe.Limit) (StateSpace, error) {
	switch jointType {
	case referenceframe.ContinuousJoint:
		return NewSO2(), nil
	case referenceframe.RevoluteJoint:
		if !limit.IsFinite() {
			return NewSO2(), nil
		}
		return NewBoundedRn([]referenceframe.Limit{limit})
	case referenceframe.PrismaticJoint:
		return NewBoundedRn([]referenceframe.Limit{limit})
	case referenceframe.FixedJoint:
		return nil, errors.New("fixed joints have no configuration space")
	default:
		return nil, referenceframe.NewUnsupportedJointTypeError(string(jointType))
	}
}

// NewMetaSkeletonStateSpace builds the configuration space of the skeleton.
func NewMetaSkeletonStateSpace(skeleton referenceframe.Skeleton) (*MetaSkeletonStateSpace, error) {
	if skeleton == nil {
		return nil, ErrNilSkeleton
	}
	types := skeleton.JointTypes()
	limits := skeleton.DoF()
	if len(types) != len(limits) {
		return nil, errors.Errorf("skeleton %q has %d joints but %d degrees of freedom", skeleton.Name(), len(types), len(limits))
	}
	subspaces := make([]StateSpace, 0, len(types))
	for i, jt := range types {
		sub, err := NewJointSpace(jt, limits[i])
		if err != nil {
			return nil, errors.Wrapf(err, "joint %d of %q", i, skeleton.Name())
		}
		subspaces = append(subspaces, sub)
	}
	compound, err := NewCompound(subspaces...)
	if err != nil {
		return nil, err
	}
	return &MetaSkeletonStateSpace{Compound: compound, skeleton: skeleton}, nil
}

// Skeleton returns the skeleton this space configures.
func (space *MetaSkeletonStateSpace) Skeleton() referenceframe.Skeleton {
	return space.skeleton
}

// PositionsFromState converts a configuration state to joint positions.
func (space *MetaSkeletonStateSpace) PositionsFromState(s State) ([]referenceframe.Input, error) {
	tangent, err := space.LogMap(s)
	if err != nil {
		return nil, err
	}
	return referenceframe.FloatsToInputs(tangent), nil
}

// StateFromPositions writes the configuration of the joint positions into out.
func (space *MetaSkeletonStateSpace) StateFromPositions(positions []referenceframe.Input, out State) error {
	return space.ExpMap(referenceframe.InputsToFloats(positions), out)
}

// NewStateFromPositions allocates a configuration state at the joint positions.
func (space *MetaSkeletonStateSpace) NewStateFromPositions(positions []referenceframe.Input) (State, error) {
	s := space.NewState()
	if err := space.StateFromPositions(positions, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot evaluates the skeleton at the configuration state.
func (space *MetaSkeletonStateSpace) Snapshot(s State) (*referenceframe.KinematicSnapshot, error) {
	positions, err := space.PositionsFromState(s)
	if err != nil {
		return nil, err
	}
	return space.skeleton.Snapshot(positions)
}
