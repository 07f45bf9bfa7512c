package spatialmath

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/motioncore/utils"
)

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	NoOrientationType     = OrientationType("")
	AxisAnglesType        = OrientationType("axis_angles")
	EulerAnglesType       = OrientationType("euler_angles")
	QuaternionType        = OrientationType("quaternion")
	AxisAnglesDegreesType = OrientationType("axis_angles_degrees")
)

// OrientationConfig holds the underlying type of orientation, and the value.
type OrientationConfig struct {
	Type  OrientationType `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// quaternionJSON is the json form of a quaternion.
type quaternionJSON struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewOrientationConfig encodes an orientation interface to a config.
func NewOrientationConfig(o Orientation) (*OrientationConfig, error) {
	q := o.Quaternion()
	bytes, err := json.Marshal(quaternionJSON{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag})
	if err != nil {
		return nil, err
	}
	return &OrientationConfig{Type: QuaternionType, Value: json.RawMessage(bytes)}, nil
}

// ParseConfig will use the Type in OrientationConfig and convert into the correct struct that implements Orientation.
func (config *OrientationConfig) ParseConfig() (Orientation, error) {
	var err error
	switch config.Type {
	case NoOrientationType:
		return NewZeroOrientation(), nil
	case AxisAnglesType, AxisAnglesDegreesType:
		var o R4AA
		if err = json.Unmarshal(config.Value, &o); err != nil {
			return nil, err
		}
		if config.Type == AxisAnglesDegreesType {
			o.Theta = utils.DegToRad(o.Theta)
		}
		return &o, nil
	case EulerAnglesType:
		var o EulerAngles
		if err = json.Unmarshal(config.Value, &o); err != nil {
			return nil, err
		}
		return &o, nil
	case QuaternionType:
		var o quaternionJSON
		if err = json.Unmarshal(config.Value, &o); err != nil {
			return nil, err
		}
		q := Quaternion(Normalize(quat.Number{Real: o.W, Imag: o.X, Jmag: o.Y, Kmag: o.Z}))
		return &q, nil
	default:
		return nil, errors.Errorf("orientation type %q not recognized", config.Type)
	}
}
