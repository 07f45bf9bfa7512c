package constraint

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/motioncore/referenceframe"
	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/statespace"
)

func checkAdaptorArgs(space *statespace.MetaSkeletonStateSpace, poseConstraint Differentiable, frames ...string) error {
	if poseConstraint == nil {
		return ErrNilPoseConstraint
	}
	for _, frame := range frames {
		if frame == "" {
			return ErrEmptyFrame
		}
	}
	if space == nil {
		return ErrNilStateSpace
	}
	if cs := poseConstraint.StateSpace(); cs == nil || cs.Kind() != statespace.KindSE3 {
		return ErrNotSE3Constraint
	}
	skeleton := space.Skeleton()
	if skeleton == nil {
		return ErrMissingSkeleton
	}
	for _, frame := range frames {
		if !skeleton.HasFrame(frame) {
			return referenceframe.NewFrameMissingError(frame)
		}
	}
	return nil
}

// chainRule returns jc * j, or an empty matrix for a constraint with no rows.
func chainRule(jc, j *mat.Dense) *mat.Dense {
	if r, _ := jc.Dims(); r == 0 {
		return &mat.Dense{}
	}
	var out mat.Dense
	out.Mul(jc, j)
	return &out
}

// FrameConstraintAdaptor lifts a constraint on the world pose of one frame into the configuration space of a
// skeleton. Every evaluation takes a fresh snapshot of the skeleton, so an adaptor is safe for concurrent use when
// its pose constraint is.
type FrameConstraintAdaptor struct {
	space          *statespace.MetaSkeletonStateSpace
	frame          string
	poseConstraint Differentiable
}

// NewFrameConstraintAdaptor returns an adaptor evaluating poseConstraint at the world pose of frame.
func NewFrameConstraintAdaptor(
	space *statespace.MetaSkeletonStateSpace,
	frame string,
	poseConstraint Differentiable,
) (*FrameConstraintAdaptor, error) {
	if err := checkAdaptorArgs(space, poseConstraint, frame); err != nil {
		return nil, err
	}
	return &FrameConstraintAdaptor{space: space, frame: frame, poseConstraint: poseConstraint}, nil
}

// StateSpace returns the configuration space.
func (a *FrameConstraintAdaptor) StateSpace() statespace.StateSpace {
	return a.space
}

// ConstraintDimension forwards to the pose constraint.
func (a *FrameConstraintAdaptor) ConstraintDimension() int {
	return a.poseConstraint.ConstraintDimension()
}

// ConstraintTypes forwards to the pose constraint.
func (a *FrameConstraintAdaptor) ConstraintTypes() []Type {
	return a.poseConstraint.ConstraintTypes()
}

func (a *FrameConstraintAdaptor) evaluate(s statespace.State) (*referenceframe.KinematicSnapshot, statespace.State, error) {
	snap, err := a.space.Snapshot(s)
	if err != nil {
		return nil, nil, err
	}
	pose, err := snap.Pose(a.frame)
	if err != nil {
		return nil, nil, err
	}
	return snap, statespace.NewSE3State(pose), nil
}

// Value returns the pose constraint's value at the frame's world pose.
func (a *FrameConstraintAdaptor) Value(s statespace.State) ([]float64, error) {
	_, poseState, err := a.evaluate(s)
	if err != nil {
		return nil, err
	}
	return a.poseConstraint.Value(poseState)
}

// Jacobian returns Jc(pose) * J, with J the world Jacobian of the frame.
func (a *FrameConstraintAdaptor) Jacobian(s statespace.State) (*mat.Dense, error) {
	_, jac, err := a.ValueAndJacobian(s)
	return jac, err
}

// ValueAndJacobian evaluates both at a single snapshot.
func (a *FrameConstraintAdaptor) ValueAndJacobian(s statespace.State) ([]float64, *mat.Dense, error) {
	snap, poseState, err := a.evaluate(s)
	if err != nil {
		return nil, nil, err
	}
	value, jc, err := a.poseConstraint.ValueAndJacobian(poseState)
	if err != nil {
		return nil, nil, err
	}
	jw, err := snap.WorldJacobian(a.frame)
	if err != nil {
		return nil, nil, err
	}
	return value, chainRule(jc, jw), nil
}

// FramePairConstraintAdaptor lifts a constraint on the pose of frame1 relative to frame2 into the configuration
// space of a skeleton.
type FramePairConstraintAdaptor struct {
	space             *statespace.MetaSkeletonStateSpace
	frame1            string
	frame2            string
	relPoseConstraint Differentiable
}

// NewFramePairConstraintAdaptor returns an adaptor evaluating relPoseConstraint at the pose of frame1 expressed in
// frame2.
func NewFramePairConstraintAdaptor(
	space *statespace.MetaSkeletonStateSpace,
	frame1, frame2 string,
	relPoseConstraint Differentiable,
) (*FramePairConstraintAdaptor, error) {
	if err := checkAdaptorArgs(space, relPoseConstraint, frame1, frame2); err != nil {
		return nil, err
	}
	return &FramePairConstraintAdaptor{space: space, frame1: frame1, frame2: frame2, relPoseConstraint: relPoseConstraint}, nil
}

// StateSpace returns the configuration space.
func (a *FramePairConstraintAdaptor) StateSpace() statespace.StateSpace {
	return a.space
}

// ConstraintDimension forwards to the relative pose constraint.
func (a *FramePairConstraintAdaptor) ConstraintDimension() int {
	return a.relPoseConstraint.ConstraintDimension()
}

// ConstraintTypes forwards to the relative pose constraint.
func (a *FramePairConstraintAdaptor) ConstraintTypes() []Type {
	return a.relPoseConstraint.ConstraintTypes()
}

// RelativePose returns the pose of frame1 in frame2 at the configuration.
func (a *FramePairConstraintAdaptor) RelativePose(s statespace.State) (spatialmath.Pose, error) {
	_, rel, err := a.evaluate(s)
	return rel, err
}

func (a *FramePairConstraintAdaptor) evaluate(s statespace.State) (*referenceframe.KinematicSnapshot, spatialmath.Pose, error) {
	snap, err := a.space.Snapshot(s)
	if err != nil {
		return nil, nil, err
	}
	pose1, err := snap.Pose(a.frame1)
	if err != nil {
		return nil, nil, err
	}
	pose2, err := snap.Pose(a.frame2)
	if err != nil {
		return nil, nil, err
	}
	return snap, spatialmath.PoseBetween(pose2, pose1), nil
}

// Value returns the relative pose constraint's value at the pose of frame1 in frame2.
func (a *FramePairConstraintAdaptor) Value(s statespace.State) ([]float64, error) {
	_, rel, err := a.evaluate(s)
	if err != nil {
		return nil, err
	}
	return a.relPoseConstraint.Value(statespace.NewSE3State(rel))
}

// Jacobian returns Jc(rel) * Jrel.
func (a *FramePairConstraintAdaptor) Jacobian(s statespace.State) (*mat.Dense, error) {
	_, jac, err := a.ValueAndJacobian(s)
	return jac, err
}

// ValueAndJacobian evaluates both at a single snapshot.
func (a *FramePairConstraintAdaptor) ValueAndJacobian(s statespace.State) ([]float64, *mat.Dense, error) {
	snap, rel, err := a.evaluate(s)
	if err != nil {
		return nil, nil, err
	}
	relState := statespace.NewSE3State(rel)
	value, jc, err := a.relPoseConstraint.ValueAndJacobian(relState)
	if err != nil {
		return nil, nil, err
	}
	jrel, err := relativeJacobian(snap, a.frame1, a.frame2, rel.Point())
	if err != nil {
		return nil, nil, err
	}
	return value, chainRule(jc, jrel), nil
}

// relativeJacobian is the Jacobian of the pose of frame1 in frame2, in frame2 coordinates:
//
//	angular = R2^T (w1 - w2)
//	linear  = R2^T (v1 - v2) + [p] R2^T w2
//
// where p is the position of frame1 in frame2 and [p] its cross product matrix.
func relativeJacobian(snap *referenceframe.KinematicSnapshot, frame1, frame2 string, p r3.Vector) (*mat.Dense, error) {
	j1, err := snap.Jacobian(frame1, frame2)
	if err != nil {
		return nil, err
	}
	j2, err := snap.Jacobian(frame2, frame2)
	if err != nil {
		return nil, err
	}
	dof := snap.DoF()
	var jrel mat.Dense
	jrel.Sub(j1, j2)

	var transport mat.Dense
	transport.Mul(spatialmath.SkewSymmetric(p), j2.Slice(0, 3, 0, dof))
	linear := jrel.Slice(3, 6, 0, dof).(*mat.Dense)
	linear.Add(linear, &transport)
	return &jrel, nil
}
