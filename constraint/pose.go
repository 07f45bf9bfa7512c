package constraint

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/statespace"
	"go.viam.com/motioncore/utils"
)

// Below this rotation error the orientation tolerance Jacobian is zero.
const zeroRotationNorm = 1e-12

func asSE3Pose(s statespace.State) (spatialmath.Pose, error) {
	state, ok := s.(*statespace.SE3State)
	if !ok {
		return nil, utils.NewUnexpectedTypeError(state, s)
	}
	return state.Pose(), nil
}

// rotationError is log(R * Rt^T), the world-frame rotation vector taking the target orientation to the pose's.
func rotationError(pose, target spatialmath.Pose) r3.Vector {
	q := spatialmath.Normalize(pose.Orientation().Quaternion())
	qt := spatialmath.Normalize(target.Orientation().Quaternion())
	return spatialmath.LogMapSO3(quat.Mul(q, quat.Conj(qt)))
}

// PoseTargetConstraint holds a pose at a fixed target. Its value is the rotation vector of R * Rt^T followed by
// p - pt, all equality rows.
type PoseTargetConstraint struct {
	space  *statespace.SE3
	target spatialmath.Pose
}

// NewPoseTargetConstraint returns a constraint holding poses of space at target.
func NewPoseTargetConstraint(space *statespace.SE3, target spatialmath.Pose) (*PoseTargetConstraint, error) {
	if space == nil {
		return nil, ErrNilStateSpace
	}
	if target == nil {
		return nil, errors.New("target pose is nil")
	}
	return &PoseTargetConstraint{space: space, target: target}, nil
}

// Target returns the pose the constraint holds.
func (c *PoseTargetConstraint) Target() spatialmath.Pose {
	return c.target
}

// StateSpace returns the SE3 space of the constraint.
func (c *PoseTargetConstraint) StateSpace() statespace.StateSpace {
	return c.space
}

// ConstraintDimension is 6.
func (c *PoseTargetConstraint) ConstraintDimension() int {
	return 6
}

// ConstraintTypes are all Equality.
func (c *PoseTargetConstraint) ConstraintTypes() []Type {
	return uniformTypes(6, Equality)
}

// Value returns [r; p - pt].
func (c *PoseTargetConstraint) Value(s statespace.State) ([]float64, error) {
	pose, err := asSE3Pose(s)
	if err != nil {
		return nil, err
	}
	r := rotationError(pose, c.target)
	dp := pose.Point().Sub(c.target.Point())
	return []float64{r.X, r.Y, r.Z, dp.X, dp.Y, dp.Z}, nil
}

// Jacobian returns blockdiag(Jl^-1(r), I).
func (c *PoseTargetConstraint) Jacobian(s statespace.State) (*mat.Dense, error) {
	pose, err := asSE3Pose(s)
	if err != nil {
		return nil, err
	}
	jac := mat.NewDense(6, 6, nil)
	jac.Slice(0, 3, 0, 3).(*mat.Dense).Copy(spatialmath.LeftJacobianInverseSO3(rotationError(pose, c.target)))
	for i := 3; i < 6; i++ {
		jac.Set(i, i, 1)
	}
	return jac, nil
}

// ValueAndJacobian returns both Value and Jacobian.
func (c *PoseTargetConstraint) ValueAndJacobian(s statespace.State) ([]float64, *mat.Dense, error) {
	value, err := c.Value(s)
	if err != nil {
		return nil, nil, err
	}
	jac, err := c.Jacobian(s)
	if err != nil {
		return nil, nil, err
	}
	return value, jac, nil
}

// OrientationToleranceConstraint bounds the angle between a pose's orientation and a target orientation. Its single
// inequality row is |r| - epsilon, with r the rotation vector of R * Rt^T.
type OrientationToleranceConstraint struct {
	space   *statespace.SE3
	target  spatialmath.Orientation
	epsilon float64
}

// NewOrientationToleranceConstraint returns a constraint keeping orientations of space within epsilon radians of
// target.
func NewOrientationToleranceConstraint(
	space *statespace.SE3,
	target spatialmath.Orientation,
	epsilon float64,
) (*OrientationToleranceConstraint, error) {
	if space == nil {
		return nil, ErrNilStateSpace
	}
	if target == nil {
		return nil, errors.New("target orientation is nil")
	}
	if epsilon < 0 {
		return nil, errors.Errorf("orientation tolerance cannot be negative, got %f", epsilon)
	}
	return &OrientationToleranceConstraint{space: space, target: target, epsilon: epsilon}, nil
}

// StateSpace returns the SE3 space of the constraint.
func (c *OrientationToleranceConstraint) StateSpace() statespace.StateSpace {
	return c.space
}

// ConstraintDimension is 1.
func (c *OrientationToleranceConstraint) ConstraintDimension() int {
	return 1
}

// ConstraintTypes is a single Inequality.
func (c *OrientationToleranceConstraint) ConstraintTypes() []Type {
	return []Type{Inequality}
}

func (c *OrientationToleranceConstraint) rotationError(s statespace.State) (r3.Vector, error) {
	pose, err := asSE3Pose(s)
	if err != nil {
		return r3.Vector{}, err
	}
	return rotationError(pose, spatialmath.NewPoseFromOrientation(c.target)), nil
}

// Value returns |r| - epsilon.
func (c *OrientationToleranceConstraint) Value(s statespace.State) ([]float64, error) {
	r, err := c.rotationError(s)
	if err != nil {
		return nil, err
	}
	return []float64{r.Norm() - c.epsilon}, nil
}

// Jacobian returns the 1 x 6 row [r^T Jl^-1(r) / |r|, 0, 0, 0], which is zero at the target.
func (c *OrientationToleranceConstraint) Jacobian(s statespace.State) (*mat.Dense, error) {
	r, err := c.rotationError(s)
	if err != nil {
		return nil, err
	}
	jac := mat.NewDense(1, 6, nil)
	norm := r.Norm()
	if norm < zeroRotationNorm {
		return jac, nil
	}
	var row mat.VecDense
	row.MulVec(spatialmath.LeftJacobianInverseSO3(r).T(), mat.NewVecDense(3, []float64{r.X / norm, r.Y / norm, r.Z / norm}))
	for i := 0; i < 3; i++ {
		jac.Set(0, i, row.AtVec(i))
	}
	return jac, nil
}

// ValueAndJacobian returns both Value and Jacobian.
func (c *OrientationToleranceConstraint) ValueAndJacobian(s statespace.State) ([]float64, *mat.Dense, error) {
	value, err := c.Value(s)
	if err != nil {
		return nil, nil, err
	}
	jac, err := c.Jacobian(s)
	if err != nil {
		return nil, nil, err
	}
	return value, jac, nil
}
