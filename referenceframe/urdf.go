package referenceframe

import (
	"encoding/xml"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/utils"
)

// URDFConfig represents all supported fields in a Universal Robot Description Format (URDF) file.
type URDFConfig struct {
	XMLName xml.Name    `xml:"robot"`
	Name    string      `xml:"name,attr"`
	Links   []URDFLink  `xml:"link"`
	Joints  []URDFJoint `xml:"joint"`
}

// URDFLink is a struct which details the XML used in a URDF link element.
type URDFLink struct {
	XMLName xml.Name `xml:"link"`
	Name    string   `xml:"name,attr"`
}

// URDFLimit is the limit element of a URDF joint.
type URDFLimit struct {
	XMLName xml.Name `xml:"limit"`
	Lower   float64  `xml:"lower,attr"` // translation limits are in meters, revolute limits are in radians
	Upper   float64  `xml:"upper,attr"` // translation limits are in meters, revolute limits are in radians
}

// URDFFrame names the link on either side of a joint.
type URDFFrame struct {
	Link string `xml:"link,attr"`
}

// URDFPose is the origin element of a URDF joint.
type URDFPose struct {
	XMLName xml.Name `xml:"origin"`
	XYZ     string   `xml:"xyz,attr"`
	RPY     string   `xml:"rpy,attr"`
}

// URDFAxis is the axis element of a URDF joint.
type URDFAxis struct {
	XMLName xml.Name `xml:"axis"`
	XYZ     string   `xml:"xyz,attr"`
}

// URDFJoint is a struct which details the XML used in a URDF joint element.
type URDFJoint struct {
	XMLName xml.Name   `xml:"joint"`
	Name    string     `xml:"name,attr"`
	Type    string     `xml:"type,attr"`
	Parent  URDFFrame  `xml:"parent"`
	Child   URDFFrame  `xml:"child"`
	Origin  *URDFPose  `xml:"origin,omitempty"`
	Axis    *URDFAxis  `xml:"axis,omitempty"`
	Limit   *URDFLimit `xml:"limit,omitempty"`
}

// ParseURDFFile will read a given file and parse the contained URDF XML data into an equivalent Model.
func ParseURDFFile(filename, modelName string) (Model, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}

	mc, err := ConvertURDFToConfig(xmlData, modelName)
	if err != nil {
		return nil, err
	}

	return mc.ParseConfig(modelName)
}

// ConvertURDFToConfig will transfer the given URDF XML data into an equivalent ModelConfigJSON. Direct unmarshaling in
// the same fashion as ModelJSON is not possible, as URDF data will need to be evaluated to accommodate differences
// between the two kinematics encoding schemes. URDF joints carry the transform to their child link, so each URDF
// joint becomes a link holding that origin followed by the joint itself.
func ConvertURDFToConfig(xmlData []byte, modelName string) (*ModelConfigJSON, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}

	urdf := &URDFConfig{}
	if err := xml.Unmarshal(xmlData, urdf); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent URDFConfig struct")
	}

	if modelName == "" {
		modelName = urdf.Name
	}
	mc := &ModelConfigJSON{Name: modelName, KinParamType: "SVA"}

	// URDF children with no parent joint are attached to the world
	hasParentJoint := map[string]bool{}
	for _, jointElem := range urdf.Joints {
		hasParentJoint[jointElem.Child.Link] = true
	}
	for _, linkElem := range urdf.Links {
		if linkElem.Name == World || hasParentJoint[linkElem.Name] {
			continue
		}
		mc.Links = append(mc.Links, LinkConfig{ID: linkElem.Name, Parent: World})
	}

	for _, jointElem := range urdf.Joints {
		// Checking for reserved names in this or adjacent elements
		if jointElem.Name == World {
			return nil, NewReservedWordError("joint", World)
		}

		originLink, err := urdfOriginLink(jointElem)
		if err != nil {
			return nil, err
		}
		mc.Links = append(mc.Links, originLink)

		thisJoint := JointConfig{
			ID:     jointElem.Name,
			Type:   JointType(jointElem.Type),
			Parent: originLink.ID,
			Axis:   r3.Vector{X: 1},
		}
		if jointElem.Axis != nil {
			xyz := utils.SpaceDelimitedStringToFloatSlice(jointElem.Axis.XYZ, 3)
			thisJoint.Axis = r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}
		}

		// Slightly different limits handling for continuous, revolute, and prismatic joints
		switch thisJoint.Type {
		case ContinuousJoint, FixedJoint:
		case PrismaticJoint:
			if jointElem.Limit == nil {
				return nil, errors.Errorf("prismatic joint %q has no limit", jointElem.Name)
			}
			thisJoint.Min, thisJoint.Max = utils.MetersToMM(jointElem.Limit.Lower), utils.MetersToMM(jointElem.Limit.Upper)
		case RevoluteJoint:
			if jointElem.Limit == nil {
				return nil, errors.Errorf("revolute joint %q has no limit", jointElem.Name)
			}
			thisJoint.Min, thisJoint.Max = utils.RadToDeg(jointElem.Limit.Lower), utils.RadToDeg(jointElem.Limit.Upper)
		default:
			return nil, NewUnsupportedJointTypeError(jointElem.Type)
		}
		mc.Joints = append(mc.Joints, thisJoint)

		// the child link sits exactly at the joint
		mc.Links = append(mc.Links, LinkConfig{ID: jointElem.Child.Link, Parent: jointElem.Name})
	}
	return mc, nil
}

// urdfOriginLink converts a joint's origin, expressed in meters and roll-pitch-yaw, into a static link.
func urdfOriginLink(jointElem URDFJoint) (LinkConfig, error) {
	link := LinkConfig{ID: jointElem.Name + "_origin", Parent: jointElem.Parent.Link}
	if jointElem.Origin == nil {
		return link, nil
	}
	xyz := utils.SpaceDelimitedStringToFloatSlice(jointElem.Origin.XYZ, 3)
	rpy := utils.SpaceDelimitedStringToFloatSlice(jointElem.Origin.RPY, 3)
	ea := spatialmath.EulerAngles{Roll: rpy[0], Pitch: rpy[1], Yaw: rpy[2]}
	orient, err := spatialmath.NewOrientationConfig(&ea)
	if err != nil {
		return link, err
	}

	// Note the conversion from meters to mm
	link.Translation = r3.Vector{X: utils.MetersToMM(xyz[0]), Y: utils.MetersToMM(xyz[1]), Z: utils.MetersToMM(xyz[2])}
	link.Orientation = orient
	return link, nil
}
