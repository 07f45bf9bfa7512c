package referenceframe

import (
	"encoding/json"

	"go.uber.org/multierr"

	"go.viam.com/motioncore/spatialmath"
)

// A Model is a serial kinematic chain that can be used both as a single Frame, whose transform is the pose of its
// end effector, and as a Skeleton that exposes every named frame along the chain.
type Model interface {
	Frame
	Skeleton
	json.Marshaler
	ChangeName(name string)
	// EndEffector is the name of the last frame of the chain, or World for an empty chain.
	EndEffector() string
}

// SimpleModel is a serial chain of frames rooted at the world frame.
// Generally speaking, a Joint will attach a Body to a Frame
// And a Fixed will attach a Frame to a Body
// Exceptions are the head of the tree where we are just starting the robot from World.
type SimpleModel struct {
	name string // the name of the arm
	// OrdTransforms is the list of transforms ordered from base to end effector
	OrdTransforms []Frame
	limits        []Limit
	modelConfig   *ModelConfigJSON
}

// NewSimpleModel constructs a new model.
func NewSimpleModel(name string) *SimpleModel {
	return &SimpleModel{name: name}
}

// NewSerialModel builds a model from frames ordered from the base outwards.
func NewSerialModel(name string, frames ...Frame) (*SimpleModel, error) {
	seen := map[string]bool{}
	var errAll error
	for _, f := range frames {
		switch {
		case f.Name() == World:
			multierr.AppendInto(&errAll, NewReservedWordError("frame", World))
		case seen[f.Name()]:
			multierr.AppendInto(&errAll, NewDuplicateFrameNameError(f.Name()))
		}
		seen[f.Name()] = true
	}
	if errAll != nil {
		return nil, errAll
	}
	m := NewSimpleModel(name)
	m.setOrdTransforms(frames)
	return m, nil
}

func (m *SimpleModel) setOrdTransforms(frames []Frame) {
	m.OrdTransforms = frames
	limits := make([]Limit, 0, len(frames))
	for _, transform := range frames {
		limits = append(limits, transform.DoF()...)
	}
	m.limits = limits
}

// Name returns the name of this model.
func (m *SimpleModel) Name() string {
	return m.name
}

// ChangeName changes the name of this model.
func (m *SimpleModel) ChangeName(name string) {
	m.name = name
}

// ModelConfig returns the config used to build this model, if any.
func (m *SimpleModel) ModelConfig() *ModelConfigJSON {
	return m.modelConfig
}

// Transform takes a model and a list of joint angles in radians and computes the dual quaternion representing the
// cartesian position of the end effector.
func (m *SimpleModel) Transform(inputs []Input) (spatialmath.Pose, error) {
	if len(inputs) != len(m.limits) {
		return nil, NewIncorrectInputLengthError(len(inputs), len(m.limits))
	}
	var err error
	composedTransformation := spatialmath.NewZeroPose()
	posIdx := 0
	for _, transform := range m.OrdTransforms {
		dof := len(transform.DoF()) + posIdx
		pose, errNew := transform.Transform(inputs[posIdx:dof])
		posIdx = dof
		// Fail if inputs are incorrect and pose is nil, but allow querying out-of-bounds positions
		if pose == nil {
			return nil, errNew
		}
		multierr.AppendInto(&err, errNew)
		composedTransformation = spatialmath.Compose(composedTransformation, pose)
	}
	return composedTransformation, err
}

// DoF returns the limits of every degree of freedom of the model, ordered from the base outwards.
func (m *SimpleModel) DoF() []Limit {
	return m.limits
}

// JointTypes returns the type of the joint driving each degree of freedom.
func (m *SimpleModel) JointTypes() []JointType {
	types := make([]JointType, 0, len(m.limits))
	for _, j := range m.Joints() {
		types = append(types, j.JointType())
	}
	return types
}

// Joints returns the moving frames of the model, ordered from the base outwards.
func (m *SimpleModel) Joints() []Joint {
	joints := make([]Joint, 0, len(m.limits))
	for _, f := range m.OrdTransforms {
		if j, ok := f.(Joint); ok {
			joints = append(joints, j)
		}
	}
	return joints
}

// FrameNames returns the names of all frames in the chain, starting with the world frame.
func (m *SimpleModel) FrameNames() []string {
	names := make([]string, 0, len(m.OrdTransforms)+1)
	names = append(names, World)
	for _, f := range m.OrdTransforms {
		names = append(names, f.Name())
	}
	return names
}

// EndEffector returns the name of the last frame of the chain.
func (m *SimpleModel) EndEffector() string {
	if len(m.OrdTransforms) == 0 {
		return World
	}
	return m.OrdTransforms[len(m.OrdTransforms)-1].Name()
}

// HasFrame reports whether a frame of this name is part of the chain.
func (m *SimpleModel) HasFrame(name string) bool {
	if name == World {
		return true
	}
	for _, f := range m.OrdTransforms {
		if f.Name() == name {
			return true
		}
	}
	return false
}

// AreJointPositionsValid checks whether the given array of joint positions violates any joint limits.
func (m *SimpleModel) AreJointPositionsValid(pos []float64) bool {
	return InputsWithinLimits(FloatsToInputs(pos), m.DoF())
}

// MarshalJSON serializes a Model. Models parsed from a config are serialized as that config.
func (m *SimpleModel) MarshalJSON() ([]byte, error) {
	if m.modelConfig != nil {
		cfg := *m.modelConfig
		cfg.Name = m.name
		return json.Marshal(cfg)
	}
	names := m.FrameNames()[1:]
	return json.Marshal(map[string]interface{}{
		"name":   m.name,
		"frames": names,
		"dof":    len(m.limits),
	})
}

// AlmostEquals returns true if the only difference between this model and another is floating point inprecision.
func (m *SimpleModel) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*SimpleModel)
	if !ok {
		return false
	}

	if m.name != other.name {
		return false
	}

	if len(m.OrdTransforms) != len(other.OrdTransforms) {
		return false
	}

	for idx, f := range m.OrdTransforms {
		if !f.AlmostEquals(other.OrdTransforms[idx]) {
			return false
		}
	}

	return true
}
