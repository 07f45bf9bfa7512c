package referenceframe

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/utils"
)

func loadModel(t *testing.T, file string) Model {
	t.Helper()
	m, err := ParseModelJSONFile(utils.ResolveFile("referenceframe/testjson/"+file), "")
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestPlanarTransform(t *testing.T) {
	m := loadModel(t, "planar3r.json")

	pose, err := m.Transform(FloatsToInputs([]float64{0, 0, 0}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{250, 0, 0}, 1e-9), test.ShouldBeTrue)

	pose, err = m.Transform(FloatsToInputs([]float64{math.Pi / 2, 0, 0}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{0, 250, 0}, 1e-9), test.ShouldBeTrue)

	pose, err = m.Transform(FloatsToInputs([]float64{0, math.Pi / 2, -math.Pi / 2}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(pose.Point(), r3.Vector{150, 100, 0}, 1e-9), test.ShouldBeTrue)
	test.That(t, pose.Orientation().EulerAngles().Yaw, test.ShouldAlmostEqual, 0)

	// out of bounds positions are evaluated but flagged
	pose, err = m.Transform(FloatsToInputs([]float64{0, math.Pi, 0}))
	test.That(t, pose, test.ShouldNotBeNil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, OOBErrString)

	_, err = m.Transform(FloatsToInputs([]float64{0}))
	test.That(t, err, test.ShouldBeError, NewIncorrectInputLengthError(1, 3))
}

func TestSnapshotPoses(t *testing.T) {
	m := loadModel(t, "planar3r.json")
	test.That(t, m.FrameNames(), test.ShouldResemble,
		[]string{World, "base", "shoulder", "link1", "elbow", "link2", "wrist", "ee"})

	snap, err := m.Snapshot(FloatsToInputs([]float64{math.Pi / 2, 0, 0}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, snap.DoF(), test.ShouldEqual, 3)

	world, err := snap.Pose(World)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(world, spatialmath.NewZeroPose()), test.ShouldBeTrue)

	link1, err := snap.Pose("link1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(link1.Point(), r3.Vector{0, 100, 0}, 1e-9), test.ShouldBeTrue)

	ee, err := snap.Pose("ee")
	test.That(t, err, test.ShouldBeNil)
	fromTransform, err := m.Transform(snap.Positions())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(ee, fromTransform), test.ShouldBeTrue)

	_, err = snap.Pose("gripper")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, ErrUnknownFrame.Error())

	_, err = m.Snapshot(FloatsToInputs([]float64{0, 0}))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPlanarJacobian(t *testing.T) {
	m := loadModel(t, "planar3r.json")
	snap, err := m.Snapshot(FloatsToInputs([]float64{0, 0, 0}))
	test.That(t, err, test.ShouldBeNil)

	jac, err := snap.WorldJacobian("ee")
	test.That(t, err, test.ShouldBeNil)
	rows, cols := jac.Dims()
	test.That(t, rows, test.ShouldEqual, 6)
	test.That(t, cols, test.ShouldEqual, 3)
	// every joint spins about world z
	for c := 0; c < 3; c++ {
		test.That(t, jac.At(2, c), test.ShouldAlmostEqual, 1)
	}
	// linear y velocity is the lever arm from each joint to the end effector
	test.That(t, jac.At(4, 0), test.ShouldAlmostEqual, 250)
	test.That(t, jac.At(4, 1), test.ShouldAlmostEqual, 150)
	test.That(t, jac.At(4, 2), test.ShouldAlmostEqual, 50)

	// frames before a joint are not moved by it
	jac, err = snap.WorldJacobian("link1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, jac.At(2, 1), test.ShouldEqual, 0)
	test.That(t, jac.At(4, 1), test.ShouldEqual, 0)
	test.That(t, jac.At(4, 0), test.ShouldAlmostEqual, 100)
}

// numericalJacobianColumn perturbs one joint and measures the world frame twist of the named frame.
func numericalJacobianColumn(t *testing.T, m Model, q []float64, frame string, col int) []float64 {
	t.Helper()
	const h = 1e-6
	plus := append([]float64{}, q...)
	minus := append([]float64{}, q...)
	plus[col] += h
	minus[col] -= h
	snapPlus, err := m.Snapshot(FloatsToInputs(plus))
	test.That(t, err, test.ShouldBeNil)
	snapMinus, err := m.Snapshot(FloatsToInputs(minus))
	test.That(t, err, test.ShouldBeNil)
	pPlus, err := snapPlus.Pose(frame)
	test.That(t, err, test.ShouldBeNil)
	pMinus, err := snapMinus.Pose(frame)
	test.That(t, err, test.ShouldBeNil)

	dRot := quat.Mul(pPlus.Orientation().Quaternion(), quat.Conj(pMinus.Orientation().Quaternion()))
	w := spatialmath.LogMapSO3(dRot).Mul(1 / (2 * h))
	v := pPlus.Point().Sub(pMinus.Point()).Mul(1 / (2 * h))
	return []float64{w.X, w.Y, w.Z, v.X, v.Y, v.Z}
}

func TestJacobianMatchesFiniteDifferences(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 11))
	for _, file := range []string{"ur5eDH.json", "gantry_arm.json"} {
		t.Run(file, func(t *testing.T) {
			m := loadModel(t, file)
			for trial := 0; trial < 5; trial++ {
				q := InputsToFloats(RestrictedRandomFrameInputs(m.DoF(), rng, 0.5))
				snap, err := m.Snapshot(FloatsToInputs(q))
				test.That(t, err, test.ShouldBeNil)

				frame := m.FrameNames()[len(m.FrameNames())-1]
				jac, err := snap.WorldJacobian(frame)
				test.That(t, err, test.ShouldBeNil)
				for col := range q {
					expected := numericalJacobianColumn(t, m, q, frame, col)
					for row := 0; row < 6; row++ {
						test.That(t, jac.At(row, col), test.ShouldAlmostEqual, expected[row], 1e-4)
					}
				}
			}
		})
	}
}

func TestJacobianInOtherCoordinates(t *testing.T) {
	m := loadModel(t, "planar3r.json")
	snap, err := m.Snapshot(FloatsToInputs([]float64{math.Pi / 2, 0, 0}))
	test.That(t, err, test.ShouldBeNil)

	world, err := snap.Jacobian("ee", World)
	test.That(t, err, test.ShouldBeNil)
	worldDirect, err := snap.WorldJacobian("ee")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, world.RawMatrix().Data, test.ShouldResemble, worldDirect.RawMatrix().Data)

	// link1 is rotated 90 degrees about z, so world -x velocity is +y in its coordinates
	local, err := snap.Jacobian("ee", "link1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, worldDirect.At(3, 0), test.ShouldAlmostEqual, -250)
	test.That(t, local.At(4, 0), test.ShouldAlmostEqual, 250)
	test.That(t, local.At(3, 0), test.ShouldAlmostEqual, 0)
	test.That(t, local.At(2, 0), test.ShouldAlmostEqual, 1)

	_, err = snap.Jacobian("ee", "camera")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSerialModel(t *testing.T) {
	j1, err := NewRotationalFrame("j1", spatialmath.R4AA{RZ: 1}, Limit{-math.Pi, math.Pi})
	test.That(t, err, test.ShouldBeNil)
	link, err := FrameFromPoint("link", r3.Vector{X: 10})
	test.That(t, err, test.ShouldBeNil)

	m, err := NewSerialModel("arm", j1, link)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.EndEffector(), test.ShouldEqual, "link")
	test.That(t, m.HasFrame(World), test.ShouldBeTrue)
	test.That(t, m.HasFrame("elbow"), test.ShouldBeFalse)
	test.That(t, m.AreJointPositionsValid([]float64{0.5}), test.ShouldBeTrue)
	test.That(t, m.AreJointPositionsValid([]float64{4}), test.ShouldBeFalse)

	_, err = NewSerialModel("arm", j1, link, link, NewZeroStaticFrame(World))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "more than one frame")
	test.That(t, err.Error(), test.ShouldContainSubstring, "reserved word")

	static, err := NewSerialModel("fixed", link)
	test.That(t, err, test.ShouldBeNil)
	snap, err := static.Snapshot(nil)
	test.That(t, err, test.ShouldBeNil)
	_, err = snap.WorldJacobian("link")
	test.That(t, err, test.ShouldNotBeNil)
}
