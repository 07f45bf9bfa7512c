package statespace

import (
	"gonum.org/v1/gonum/mat"

	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/utils"
)

// SE3State is a rigid body transform.
type SE3State struct {
	pose spatialmath.Pose
}

// NewSE3State returns the state of the given pose.
func NewSE3State(pose spatialmath.Pose) *SE3State {
	return &SE3State{pose: pose}
}

// Kind returns KindSE3.
func (s *SE3State) Kind() Kind {
	return KindSE3
}

// Pose returns the transform as a pose.
func (s *SE3State) Pose() spatialmath.Pose {
	if s.pose == nil {
		return spatialmath.NewZeroPose()
	}
	return s.pose
}

// SetPose replaces the transform.
func (s *SE3State) SetPose(pose spatialmath.Pose) {
	s.pose = pose
}

// Isometry returns the 4x4 homogeneous transform of the state.
func (s *SE3State) Isometry() *mat.Dense {
	pose := s.Pose()
	rot := pose.Orientation().RotationMatrix()
	pt := pose.Point()
	iso := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			iso.Set(i, j, rot.At(i, j))
		}
	}
	iso.SetCol(3, []float64{pt.X, pt.Y, pt.Z, 1})
	return iso
}

// SE3 is the group of rigid body transforms. Its tangent vectors are twists [wx, wy, wz, vx, vy, vz].
type SE3 struct{}

// NewSE3 returns the rigid body transform group.
func NewSE3() *SE3 {
	return &SE3{}
}

func asSE3(s State) (*SE3State, error) {
	state, ok := s.(*SE3State)
	if !ok {
		return nil, utils.NewUnexpectedTypeError(state, s)
	}
	return state, nil
}

// Kind returns KindSE3.
func (space *SE3) Kind() Kind {
	return KindSE3
}

// Dimension is 6.
func (space *SE3) Dimension() int {
	return 6
}

// RepresentationDimension is 16, the entries of a 4x4 homogeneous transform.
func (space *SE3) RepresentationDimension() int {
	return 16
}

// NewState returns the identity transform.
func (space *SE3) NewState() State {
	return &SE3State{pose: spatialmath.NewZeroPose()}
}

// Identity sets out to the identity transform.
func (space *SE3) Identity(out State) error {
	o, err := asSE3(out)
	if err != nil {
		return err
	}
	o.pose = spatialmath.NewZeroPose()
	return nil
}

// CopyState copies src into dst. Poses are immutable so the copy shares them.
func (space *SE3) CopyState(src, dst State) error {
	s, err := asSE3(src)
	if err != nil {
		return err
	}
	d, err := asSE3(dst)
	if err != nil {
		return err
	}
	d.pose = s.Pose()
	return nil
}

// Compose writes the transform s1 followed, in its own frame, by s2.
func (space *SE3) Compose(s1, s2, out State) error {
	a, err := asSE3(s1)
	if err != nil {
		return err
	}
	b, err := asSE3(s2)
	if err != nil {
		return err
	}
	o, err := asSE3(out)
	if err != nil {
		return err
	}
	o.pose = spatialmath.Compose(a.Pose(), b.Pose())
	return nil
}

// Inverse writes the inverse transform.
func (space *SE3) Inverse(s, out State) error {
	a, err := asSE3(s)
	if err != nil {
		return err
	}
	o, err := asSE3(out)
	if err != nil {
		return err
	}
	o.pose = spatialmath.PoseInverse(a.Pose())
	return nil
}

// ExpMap integrates the constant twist for unit time.
func (space *SE3) ExpMap(tangent []float64, out State) error {
	if err := checkTangent(tangent, 6); err != nil {
		return err
	}
	o, err := asSE3(out)
	if err != nil {
		return err
	}
	o.pose = spatialmath.ExpMapSE3(tangent)
	return nil
}

// LogMap returns the twist whose exponential is s.
func (space *SE3) LogMap(s State) ([]float64, error) {
	a, err := asSE3(s)
	if err != nil {
		return nil, err
	}
	return spatialmath.LogMapSE3(a.Pose()), nil
}
