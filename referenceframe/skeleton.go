package referenceframe

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/motioncore/spatialmath"
)

// Skeleton is the kinematics provider consumed by the constraint adaptors and the configuration state space.
// A skeleton never changes its own state: evaluating it at a configuration yields a KinematicSnapshot.
type Skeleton interface {
	Name() string
	DoF() []Limit
	JointTypes() []JointType
	FrameNames() []string
	HasFrame(name string) bool
	Snapshot(positions []Input) (*KinematicSnapshot, error)
}

// jointState is a joint's motion axis and origin in world coordinates at a snapshot.
type jointState struct {
	dofIndex   int
	chainIndex int
	jointType  JointType
	axis       r3.Vector
	origin     r3.Vector
}

// KinematicSnapshot holds the world pose of every frame of a skeleton at one configuration, together with what is
// needed to compute geometric Jacobians. It is immutable and safe to share.
type KinematicSnapshot struct {
	positions  []Input
	poses      map[string]spatialmath.Pose
	chainIndex map[string]int
	joints     []jointState
}

// Snapshot evaluates the model at the given joint positions. Positions outside the joint limits are evaluated
// anyway.
func (m *SimpleModel) Snapshot(positions []Input) (*KinematicSnapshot, error) {
	if len(positions) != len(m.limits) {
		return nil, NewIncorrectInputLengthError(len(positions), len(m.limits))
	}
	snap := &KinematicSnapshot{
		positions:  append([]Input{}, positions...),
		poses:      make(map[string]spatialmath.Pose, len(m.OrdTransforms)+1),
		chainIndex: make(map[string]int, len(m.OrdTransforms)+1),
		joints:     make([]jointState, 0, len(m.limits)),
	}
	snap.poses[World] = spatialmath.NewZeroPose()
	snap.chainIndex[World] = -1

	composed := spatialmath.NewZeroPose()
	posIdx := 0
	for i, transform := range m.OrdTransforms {
		dof := len(transform.DoF())
		pose, err := transform.Transform(positions[posIdx : posIdx+dof])
		if pose == nil {
			return nil, err
		}
		parent := composed
		composed = spatialmath.Compose(composed, pose)
		snap.poses[transform.Name()] = composed
		snap.chainIndex[transform.Name()] = i

		if j, ok := transform.(Joint); ok {
			q := parent.Orientation().Quaternion()
			snap.joints = append(snap.joints, jointState{
				dofIndex:   posIdx,
				chainIndex: i,
				jointType:  j.JointType(),
				axis:       spatialmath.RotateVector(q, j.Axis()),
				origin:     parent.Point(),
			})
		}
		posIdx += dof
	}
	return snap, nil
}

// DoF returns the number of joint positions the snapshot was evaluated at.
func (ks *KinematicSnapshot) DoF() int {
	return len(ks.positions)
}

// Positions returns a copy of the joint positions of the snapshot.
func (ks *KinematicSnapshot) Positions() []Input {
	return append([]Input{}, ks.positions...)
}

// Pose returns the world pose of the named frame.
func (ks *KinematicSnapshot) Pose(frame string) (spatialmath.Pose, error) {
	pose, ok := ks.poses[frame]
	if !ok {
		return nil, NewFrameMissingError(frame)
	}
	return pose, nil
}

// WorldJacobian returns the 6 x DoF geometric Jacobian of the named frame. Rows are [wx, wy, wz, vx, vy, vz]: the
// angular velocity of the frame and the linear velocity of its origin, both in world coordinates.
func (ks *KinematicSnapshot) WorldJacobian(frame string) (*mat.Dense, error) {
	pose, err := ks.Pose(frame)
	if err != nil {
		return nil, err
	}
	if len(ks.positions) == 0 {
		return nil, errors.New("cannot compute a jacobian for a skeleton with no degrees of freedom")
	}
	idx := ks.chainIndex[frame]
	p := pose.Point()

	jac := mat.NewDense(6, len(ks.positions), nil)
	for _, j := range ks.joints {
		if j.chainIndex > idx {
			break
		}
		var w, v r3.Vector
		switch j.jointType {
		case RevoluteJoint, ContinuousJoint:
			w = j.axis
			v = j.axis.Cross(p.Sub(j.origin))
		case PrismaticJoint:
			v = j.axis
		case FixedJoint:
		}
		jac.SetCol(j.dofIndex, []float64{w.X, w.Y, w.Z, v.X, v.Y, v.Z})
	}
	return jac, nil
}

// Jacobian returns the geometric Jacobian of frame with both its angular and linear rows expressed in the
// coordinates of the frame inCoordinatesOf.
func (ks *KinematicSnapshot) Jacobian(frame, inCoordinatesOf string) (*mat.Dense, error) {
	jac, err := ks.WorldJacobian(frame)
	if err != nil {
		return nil, err
	}
	ref, err := ks.Pose(inCoordinatesOf)
	if err != nil {
		return nil, err
	}
	if inCoordinatesOf == World {
		return jac, nil
	}
	rt := spatialmath.QuatToRotationMatrix(ref.Orientation().Quaternion()).Transpose().Dense()
	var angular, linear mat.Dense
	angular.Mul(rt, jac.Slice(0, 3, 0, ks.DoF()))
	linear.Mul(rt, jac.Slice(3, 6, 0, ks.DoF()))

	out := mat.NewDense(6, ks.DoF(), nil)
	out.Slice(0, 3, 0, ks.DoF()).(*mat.Dense).Copy(&angular)
	out.Slice(3, 6, 0, ks.DoF()).(*mat.Dense).Copy(&linear)
	return out, nil
}
