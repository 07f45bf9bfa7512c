package referenceframe

import (
	"testing"

	"go.uber.org/multierr"
	"go.viam.com/test"

	"go.viam.com/motioncore/utils"
)

// Tests that json files are properly parsed and correctly loaded into the model
// Should not need to actually test the contained rotation/translation values
// since that will be caught by tests to the actual kinematics
// So we'll just check that we read in the right number of joints.
func TestParseJSONFile(t *testing.T) {
	goodFiles := map[string]int{
		"referenceframe/testjson/planar3r.json":   3,
		"referenceframe/testjson/ur5eDH.json":     6,
		"referenceframe/testjson/gantry_arm.json": 3,
	}

	badFiles := []string{
		"referenceframe/testjson/kinematicsloop.json",
		"referenceframe/testjson/worldjoint.json",
		"referenceframe/testjson/missinglink.json",
	}

	badFilesErrors := []error{
		ErrCircularReference,
		NewReservedWordError("joint", "world"),
		NewFrameNotInListOfTransformsError("base"),
	}

	for f, dof := range goodFiles {
		t.Run(f, func(t *testing.T) {
			model, err := ParseModelJSONFile(utils.ResolveFile(f), "")
			test.That(t, err, test.ShouldBeNil)
			test.That(t, len(model.DoF()), test.ShouldEqual, dof)

			data, err := model.MarshalJSON()
			test.That(t, err, test.ShouldBeNil)

			model2, err := UnmarshalModelJSON(data, "")
			test.That(t, err, test.ShouldBeNil)
			test.That(t, model2.AlmostEquals(model), test.ShouldBeTrue)

			data2, err := model2.MarshalJSON()
			test.That(t, err, test.ShouldBeNil)

			test.That(t, data, test.ShouldResemble, data2)
		})
	}

	for i, f := range badFiles {
		t.Run(f, func(t *testing.T) {
			_, err := ParseModelJSONFile(utils.ResolveFile(f), "")
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldEqual, badFilesErrors[i].Error())
		})
	}
}

func TestModelValidationCollectsAllErrors(t *testing.T) {
	_, err := ParseModelJSONFile(utils.ResolveFile("referenceframe/testjson/badjoints.json"), "")
	test.That(t, err, test.ShouldNotBeNil)
	errs := multierr.Errors(err)
	test.That(t, len(errs), test.ShouldEqual, 2)
	test.That(t, errs[0].Error(), test.ShouldContainSubstring, "greater than max")
	test.That(t, errs[1].Error(), test.ShouldContainSubstring, "zero axis")
}

func TestModelNameOverride(t *testing.T) {
	model, err := ParseModelJSONFile(utils.ResolveFile("referenceframe/testjson/planar3r.json"), "renamed")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.Name(), test.ShouldEqual, "renamed")

	_, err = UnmarshalModelJSON(nil, "")
	test.That(t, err, test.ShouldBeError, ErrNoModelInformation)

	_, err = UnmarshalModelJSON([]byte(`{"name":"x","kinematic_param_type":"quaternions"}`), "")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported param type")
}
