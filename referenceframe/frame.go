// Package referenceframe models serial kinematic chains. A chain is parsed from JSON or URDF, acts as the
// skeleton the constraint adaptors differentiate through, and produces immutable kinematic snapshots
// for a given set of joint positions.
package referenceframe

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	spatial "go.viam.com/motioncore/spatialmath"
)

// JointType describes how a joint moves its child frame.
type JointType string

// The supported joint types.
const (
	RevoluteJoint   = JointType("revolute")
	ContinuousJoint = JointType("continuous")
	PrismaticJoint  = JointType("prismatic")
	FixedJoint      = JointType("fixed")
)

// Frame is a coordinate system placed relative to its parent by zero or more joint positions.
type Frame interface {
	Name() string

	// Transform returns the pose of the frame in its parent's coordinates for the given positions.
	// Out of range positions still produce a pose, together with an error.
	Transform([]Input) (spatial.Pose, error)

	// DoF returns one limit per position the frame takes. Static frames return an empty slice.
	DoF() []Limit

	// AlmostEquals reports whether otherFrame is the same frame up to floating point error.
	AlmostEquals(otherFrame Frame) bool
}

// Joint is a single degree of freedom frame that moves along or about an axis in its own coordinates.
type Joint interface {
	Frame
	JointType() JointType
	Axis() r3.Vector
}

// staticFrame is a fixed offset from its parent.
type staticFrame struct {
	name      string
	transform spatial.Pose
}

// NewStaticFrame creates a frame fixed at pose in its parent's coordinates.
func NewStaticFrame(name string, pose spatial.Pose) (Frame, error) {
	if pose == nil {
		return nil, errors.New("pose is not allowed to be nil")
	}
	return &staticFrame{name, pose}, nil
}

// NewZeroStaticFrame creates a frame coincident with its parent.
func NewZeroStaticFrame(name string) Frame {
	return &staticFrame{name, spatial.NewZeroPose()}
}

// FrameFromPoint creates a static frame translated to point.
func FrameFromPoint(name string, point r3.Vector) (Frame, error) {
	return NewStaticFrame(name, spatial.NewPoseFromPoint(point))
}

func (sf *staticFrame) Name() string {
	return sf.name
}

// Transform returns the fixed offset and takes no positions.
func (sf *staticFrame) Transform(input []Input) (spatial.Pose, error) {
	if len(input) != 0 {
		return nil, NewIncorrectInputLengthError(len(input), 0)
	}
	return sf.transform, nil
}

// DoF is always empty.
func (sf *staticFrame) DoF() []Limit {
	return []Limit{}
}

func (sf *staticFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*staticFrame)
	return ok && sf.name == other.name && spatial.PoseAlmostEqual(sf.transform, other.transform)
}

// translationalFrame is a prismatic joint sliding along transAxis.
type translationalFrame struct {
	name      string
	transAxis r3.Vector
	limit     []Limit
}

// NewTranslationalFrame creates a prismatic joint along axis, which is normalized.
func NewTranslationalFrame(name string, axis r3.Vector, limit Limit) (Joint, error) {
	if spatial.R3VectorAlmostEqual(r3.Vector{}, axis, 1e-8) {
		return nil, errors.New("cannot use zero vector as translation axis")
	}
	if limit.Min > limit.Max {
		return nil, NewInvalidLimitError(name, limit)
	}
	return &translationalFrame{name: name, transAxis: axis.Normalize(), limit: []Limit{limit}}, nil
}

func (pf *translationalFrame) Name() string {
	return pf.name
}

// Transform translates by the single position along the axis.
func (pf *translationalFrame) Transform(input []Input) (spatial.Pose, error) {
	if len(input) != 1 {
		return nil, NewIncorrectInputLengthError(len(input), 1)
	}
	pose := spatial.NewPoseFromPoint(pf.transAxis.Mul(input[0].Value))
	return pose, checkLimit(input[0].Value, pf.limit[0])
}

func (pf *translationalFrame) DoF() []Limit {
	return pf.limit
}

// JointType is always prismatic.
func (pf *translationalFrame) JointType() JointType {
	return PrismaticJoint
}

// Axis is the unit translation axis in the frame's own coordinates.
func (pf *translationalFrame) Axis() r3.Vector {
	return pf.transAxis
}

func (pf *translationalFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*translationalFrame)
	return ok && pf.name == other.name &&
		spatial.R3VectorAlmostEqual(pf.transAxis, other.transAxis, 1e-8) &&
		limitsAlmostEqual(pf.DoF(), other.DoF())
}

type rotationalFrame struct {
	name    string
	rotAxis r3.Vector
	limit   []Limit
}

// NewRotationalFrame creates a revolute joint about the axis of the given axis angle, whose Theta is ignored.
// Infinite limits make it a continuous joint.
func NewRotationalFrame(name string, axis spatial.R4AA, limit Limit) (Joint, error) {
	if limit.Min > limit.Max {
		return nil, NewInvalidLimitError(name, limit)
	}
	if axis.RX == 0 && axis.RY == 0 && axis.RZ == 0 {
		return nil, errors.New("cannot use zero vector as rotation axis")
	}
	axis.Normalize()
	return &rotationalFrame{
		name:    name,
		rotAxis: r3.Vector{X: axis.RX, Y: axis.RY, Z: axis.RZ},
		limit:   []Limit{limit},
	}, nil
}

// NewContinuousFrame creates a rotational frame with no joint limits.
func NewContinuousFrame(name string, axis spatial.R4AA) (Joint, error) {
	return NewRotationalFrame(name, axis, Limit{Min: math.Inf(-1), Max: math.Inf(1)})
}

// Transform rotates by the single position, in radians, about the axis.
func (rf *rotationalFrame) Transform(input []Input) (spatial.Pose, error) {
	if len(input) != 1 {
		return nil, NewIncorrectInputLengthError(len(input), 1)
	}
	pose := spatial.NewPoseFromOrientation(&spatial.R4AA{
		Theta: input[0].Value,
		RX:    rf.rotAxis.X,
		RY:    rf.rotAxis.Y,
		RZ:    rf.rotAxis.Z,
	})
	return pose, checkLimit(input[0].Value, rf.limit[0])
}

func (rf *rotationalFrame) DoF() []Limit {
	return rf.limit
}

func (rf *rotationalFrame) Name() string {
	return rf.name
}

// JointType is continuous when the joint has no finite limits, revolute otherwise.
func (rf *rotationalFrame) JointType() JointType {
	if !rf.limit[0].IsFinite() {
		return ContinuousJoint
	}
	return RevoluteJoint
}

// Axis is the unit rotation axis in the frame's own coordinates.
func (rf *rotationalFrame) Axis() r3.Vector {
	return rf.rotAxis
}

func (rf *rotationalFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*rotationalFrame)
	return ok && rf.name == other.name &&
		spatial.R3VectorAlmostEqual(rf.rotAxis, other.rotAxis, 1e-8) &&
		limitsAlmostEqual(rf.DoF(), other.DoF())
}

// checkLimit returns an error, but no panic, for a position outside limit.
func checkLimit(value float64, limit Limit) error {
	if limit.Contains(value) {
		return nil
	}
	return fmt.Errorf("%.5f %s [%.5f, %.5f]", value, OOBErrString, limit.Min, limit.Max)
}
