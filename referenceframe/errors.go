package referenceframe

import (
	"fmt"

	"github.com/pkg/errors"
)

// OOBErrString is a string that all OOB errors should contain, so that they can be checked for distinct from other Transform errors.
const OOBErrString = "input out of bounds"

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// ErrCircularReference is an error returned when the model's kinematic chain loops back on itself.
var ErrCircularReference = errors.New("infinite loop finding path from end effector to world")

// ErrNeedOneEndEffector is an error returned when a model does not have exactly one end effector.
var ErrNeedOneEndEffector = errors.New("need exactly one end effector")

// ErrUnknownFrame is returned when a frame name is not part of a skeleton.
var ErrUnknownFrame = errors.New("frame is not part of the skeleton")

// NewFrameMissingError returns an error indicating that the given frame is missing from the skeleton.
func NewFrameMissingError(frameName string) error {
	return errors.Wrapf(ErrUnknownFrame, "frame %q", frameName)
}

// NewReservedWordError is used when a model config has a link or joint named after a reserved word.
func NewReservedWordError(configType, reservedWord string) error {
	return fmt.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewFrameNotInListOfTransformsError returns an error indicating that a frame of the given name
// is missing from the provided list of transforms.
func NewFrameNotInListOfTransformsError(frameName string) error {
	return fmt.Errorf("frame named '%s' not in the list of transforms", frameName)
}

// NewParentFrameNotInMapOfParentsError returns an error indicating that the parent of the given frame is missing.
func NewParentFrameNotInMapOfParentsError(frameName string) error {
	return fmt.Errorf("parent frame for frame named '%s' not in the map of parents", frameName)
}

// NewUnsupportedJointTypeError returns an error indicating that a given joint type is not supported.
func NewUnsupportedJointTypeError(jointType string) error {
	return fmt.Errorf("unsupported joint type detected: %q", jointType)
}

// NewIncorrectInputLengthError returns an error indicating that the length of the Innput array
// passed to a frame's Transform method is incorrect.
func NewIncorrectInputLengthError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewInvalidLimitError is returned when a joint's lower limit exceeds its upper limit.
func NewInvalidLimitError(jointName string, limit Limit) error {
	return errors.Errorf("joint %q has min %.4f greater than max %.4f", jointName, limit.Min, limit.Max)
}

// NewDuplicateFrameNameError is returned when two frames of a chain share a name.
func NewDuplicateFrameNameError(frameName string) error {
	return errors.Errorf("cannot have more than one frame named %q", frameName)
}
