package referenceframe

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	spatial "go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/utils"
)

// ModelConfigJSON represents all supported fields in a kinematics JSON file.
type ModelConfigJSON struct {
	Name         string          `json:"name"`
	KinParamType string          `json:"kinematic_param_type,omitempty"`
	Links        []LinkConfig    `json:"links,omitempty"`
	Joints       []JointConfig   `json:"joints,omitempty"`
	DHParams     []DHParamConfig `json:"dhParams,omitempty"`
}

// LinkConfig is a fixed transform from a parent frame. Translations are in mm.
type LinkConfig struct {
	ID          string                     `json:"id"`
	Parent      string                     `json:"parent"`
	Translation r3.Vector                  `json:"translation"`
	Orientation *spatial.OrientationConfig `json:"orientation,omitempty"`
}

// JointConfig is a config for a joint. Limits are in degrees for revolute joints and mm for prismatic joints.
type JointConfig struct {
	ID     string    `json:"id"`
	Type   JointType `json:"type"`
	Parent string    `json:"parent"`
	Axis   r3.Vector `json:"axis"`
	Max    float64   `json:"max"`
	Min    float64   `json:"min"`
}

// DHParamConfig is a revolute joint followed by a link described by Denavit-Hartenberg parameters.
// a and d are in mm, alpha in radians, limits in degrees.
type DHParamConfig struct {
	ID     string  `json:"id"`
	Parent string  `json:"parent"`
	A      float64 `json:"a"`
	D      float64 `json:"d"`
	Alpha  float64 `json:"alpha"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
}

// ToStaticFrame converts a LinkConfig into a staticFrame.
func (cfg *LinkConfig) ToStaticFrame() (Frame, error) {
	orient := spatial.NewZeroOrientation()
	if cfg.Orientation != nil {
		var err error
		orient, err = cfg.Orientation.ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "link %q", cfg.ID)
		}
	}
	return NewStaticFrame(cfg.ID, spatial.NewPose(cfg.Translation, orient))
}

// ToFrame converts a JointConfig into a joint frame.
func (cfg *JointConfig) ToFrame() (Frame, error) {
	switch cfg.Type {
	case RevoluteJoint:
		return NewRotationalFrame(cfg.ID, spatial.R4AA{RX: cfg.Axis.X, RY: cfg.Axis.Y, RZ: cfg.Axis.Z},
			Limit{Min: utils.DegToRad(cfg.Min), Max: utils.DegToRad(cfg.Max)})
	case ContinuousJoint:
		return NewContinuousFrame(cfg.ID, spatial.R4AA{RX: cfg.Axis.X, RY: cfg.Axis.Y, RZ: cfg.Axis.Z})
	case PrismaticJoint:
		return NewTranslationalFrame(cfg.ID, cfg.Axis, Limit{Min: cfg.Min, Max: cfg.Max})
	case FixedJoint:
		return NewZeroStaticFrame(cfg.ID), nil
	default:
		return nil, NewUnsupportedJointTypeError(string(cfg.Type))
	}
}

// ToDHFrames converts a DHParamConfig into a joint frame and a link frame.
func (cfg *DHParamConfig) ToDHFrames() (Frame, Frame, error) {
	jointID := cfg.ID + "_j"
	rFrame, err := NewRotationalFrame(jointID, spatial.R4AA{RX: 0, RY: 0, RZ: 1},
		Limit{Min: utils.DegToRad(cfg.Min), Max: utils.DegToRad(cfg.Max)})
	if err != nil {
		return nil, nil, err
	}
	lFrame, err := NewStaticFrame(cfg.ID, spatial.NewPoseFromDH(cfg.A, cfg.D, cfg.Alpha))
	if err != nil {
		return nil, nil, err
	}
	return rFrame, lFrame, nil
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (Model, error) {
	// empty data means there is no model to parse
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	m := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, m); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}

	return m.ParseConfig(modelName)
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// Validate checks every link and joint, returning all problems found.
func (cfg *ModelConfigJSON) Validate() error {
	var errAll error
	for _, link := range cfg.Links {
		if link.ID == World {
			multierr.AppendInto(&errAll, NewReservedWordError("link", World))
		}
	}
	for _, joint := range cfg.Joints {
		if joint.ID == World {
			multierr.AppendInto(&errAll, NewReservedWordError("joint", World))
		}
		if joint.Min > joint.Max {
			multierr.AppendInto(&errAll, NewInvalidLimitError(joint.ID, Limit{joint.Min, joint.Max}))
		}
		if joint.Type != FixedJoint && joint.Axis.Norm() == 0 {
			multierr.AppendInto(&errAll, fmt.Errorf("joint %q has a zero axis", joint.ID))
		}
	}
	for _, dh := range cfg.DHParams {
		if dh.ID == World {
			multierr.AppendInto(&errAll, NewReservedWordError("DH link", World))
		}
		if dh.Min > dh.Max {
			multierr.AppendInto(&errAll, NewInvalidLimitError(dh.ID, Limit{dh.Min, dh.Max}))
		}
	}
	return errAll
}

// ParseConfig converts the ModelConfig struct into a full Model with the name modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model := NewSimpleModel(modelName)
	model.modelConfig = cfg
	transforms := map[string]Frame{}

	// Make a map of parents for each element for post-process, to allow items to be processed out of order
	parentMap := map[string]string{}

	switch cfg.KinParamType {
	case "SVA", "":
		for _, link := range cfg.Links {
			frame, err := link.ToStaticFrame()
			if err != nil {
				return nil, err
			}
			parentMap[link.ID] = link.Parent
			transforms[link.ID] = frame
		}

		// Now we add all of the transforms. Will eventually support: "cylindrical|fixed|helical|prismatic|revolute|spherical"
		for _, joint := range cfg.Joints {
			frame, err := joint.ToFrame()
			if err != nil {
				return nil, err
			}
			parentMap[joint.ID] = joint.Parent
			transforms[joint.ID] = frame
		}

	case "DH":
		for _, dh := range cfg.DHParams {
			rFrame, lFrame, err := dh.ToDHFrames()
			if err != nil {
				return nil, err
			}
			// Joint part of DH param
			jointID := rFrame.Name()
			parentMap[jointID] = dh.Parent
			transforms[jointID] = rFrame

			// Link part of DH param
			parentMap[dh.ID] = jointID
			transforms[dh.ID] = lFrame
		}

	default:
		return nil, errors.Errorf("unsupported param type: %s, supported params are SVA and DH", cfg.KinParamType)
	}

	// Create an ordered list of transforms
	ot, err := sortTransforms(transforms, parentMap)
	if err != nil {
		return nil, err
	}

	model.setOrdTransforms(ot)

	return model, nil
}

// Create an ordered list of transforms given a mapping of child to parent frames.
func sortTransforms(transforms map[string]Frame, parents map[string]string) ([]Frame, error) {
	// find the end effector first - determine which transforms have no children
	// copy the map of children -> parents
	ees := map[string]string{}
	for child, parent := range parents {
		ees[child] = parent
	}
	// now remove all parents
	for _, parent := range parents {
		delete(ees, parent)
	}
	// ensure there is only on end effector
	if len(ees) != 1 {
		if len(ees) == 0 {
			return nil, ErrCircularReference
		}
		return nil, fmt.Errorf("%w, have %v", ErrNeedOneEndEffector, ees)
	}

	// start the search from the end effector
	var curr string
	for ee := range ees {
		curr = ee
	}
	seen := map[string]bool{curr: true}
	orderedTransforms := []Frame{}
	for i := 0; i < len(parents); i++ {
		frame, ok := transforms[curr]
		if !ok {
			return nil, NewFrameNotInListOfTransformsError(curr)
		}
		orderedTransforms = append(orderedTransforms, frame)

		// find the parent of the current transform
		parent, ok := parents[curr]
		if !ok {
			return nil, NewParentFrameNotInMapOfParentsError(curr)
		}
		if parent == World {
			break
		}

		// make sure it wasn't seen, mark it seen, then add it to the list
		if seen[parent] {
			return nil, ErrCircularReference
		}
		seen[parent] = true

		// update the frame to add next
		curr = parent
	}
	if len(orderedTransforms) != len(transforms) {
		return nil, errors.Errorf("%d frames are not connected to the chain ending at the world frame",
			len(transforms)-len(orderedTransforms))
	}
	if parent := parents[orderedTransforms[len(orderedTransforms)-1].Name()]; parent != World {
		return nil, NewFrameNotInListOfTransformsError(parent)
	}

	// After the above loop, the transforms are in reverse order, so we reverse the list.
	for i, j := 0, len(orderedTransforms)-1; i < j; i, j = i+1, j-1 {
		orderedTransforms[i], orderedTransforms[j] = orderedTransforms[j], orderedTransforms[i]
	}

	return orderedTransforms, nil
}
