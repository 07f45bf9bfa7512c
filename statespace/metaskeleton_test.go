package statespace

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/motioncore/referenceframe"
	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/utils"
)

func TestMetaSkeletonStateSpace(t *testing.T) {
	model, err := referenceframe.ParseModelJSONFile(utils.ResolveFile("referenceframe/testjson/gantry_arm.json"), "")
	test.That(t, err, test.ShouldBeNil)

	space, err := NewMetaSkeletonStateSpace(model)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, space.Skeleton(), test.ShouldEqual, model)
	test.That(t, space.Dimension(), test.ShouldEqual, 3)
	test.That(t, space.Subspace(0).Kind(), test.ShouldEqual, KindRn)
	test.That(t, space.Subspace(1).Kind(), test.ShouldEqual, KindSO2)
	test.That(t, space.Subspace(2).Kind(), test.ShouldEqual, KindRn)
	test.That(t, space.Subspace(0).(*Rn).Bounds(), test.ShouldResemble, model.DoF()[:1])

	positions := referenceframe.FloatsToInputs([]float64{100, 1, 0.5})
	s, err := space.NewStateFromPositions(positions)
	test.That(t, err, test.ShouldBeNil)
	back, err := space.PositionsFromState(s)
	test.That(t, err, test.ShouldBeNil)
	for i, v := range []float64{100, 1, 0.5} {
		test.That(t, back[i].Value, test.ShouldAlmostEqual, v)
	}

	snap, err := space.Snapshot(s)
	test.That(t, err, test.ShouldBeNil)
	expected, err := model.Transform(positions)
	test.That(t, err, test.ShouldBeNil)
	actual, err := snap.Pose(model.EndEffector())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(actual, expected), test.ShouldBeTrue)

	err = space.StateFromPositions(referenceframe.FloatsToInputs([]float64{1}), s)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewMetaSkeletonStateSpace(nil)
	test.That(t, err, test.ShouldBeError, ErrNilSkeleton)
}

func TestNewJointSpace(t *testing.T) {
	lim := referenceframe.Limit{Min: -1, Max: 1}
	for _, tc := range []struct {
		jointType referenceframe.JointType
		kind      Kind
	}{
		{referenceframe.RevoluteJoint, KindRn},
		{referenceframe.ContinuousJoint, KindSO2},
		{referenceframe.PrismaticJoint, KindRn},
	} {
		space, err := NewJointSpace(tc.jointType, lim)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, space.Kind(), test.ShouldEqual, tc.kind)
	}
	_, err := NewJointSpace(referenceframe.FixedJoint, lim)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewJointSpace("ball", lim)
	test.That(t, err, test.ShouldBeError, referenceframe.NewUnsupportedJointTypeError("ball"))
}
