package constraint

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/motioncore/referenceframe"
	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/statespace"
	"go.viam.com/motioncore/utils"
)

func loadSpace(t *testing.T, file string) (referenceframe.Model, *statespace.MetaSkeletonStateSpace) {
	t.Helper()
	m, err := referenceframe.ParseModelJSONFile(utils.ResolveFile("referenceframe/testjson/"+file), "")
	test.That(t, err, test.ShouldBeNil)
	space, err := statespace.NewMetaSkeletonStateSpace(m)
	test.That(t, err, test.ShouldBeNil)
	return m, space
}

func endEffector(m referenceframe.Model) string {
	names := m.FrameNames()
	return names[len(names)-1]
}

func stateAt(t *testing.T, space *statespace.MetaSkeletonStateSpace, positions []float64) statespace.State {
	t.Helper()
	s, err := space.NewStateFromPositions(referenceframe.FloatsToInputs(positions))
	test.That(t, err, test.ShouldBeNil)
	return s
}

// numericalJacobian differentiates c by central differences in each joint position.
func numericalJacobian(t *testing.T, c Differentiable, space *statespace.MetaSkeletonStateSpace, positions []float64) *mat.Dense {
	t.Helper()
	const h = 1e-6
	jac := mat.NewDense(c.ConstraintDimension(), len(positions), nil)
	for j := range positions {
		plus := append([]float64{}, positions...)
		minus := append([]float64{}, positions...)
		plus[j] += h
		minus[j] -= h
		vPlus, err := c.Value(stateAt(t, space, plus))
		test.That(t, err, test.ShouldBeNil)
		vMinus, err := c.Value(stateAt(t, space, minus))
		test.That(t, err, test.ShouldBeNil)
		for i := range vPlus {
			jac.Set(i, j, (vPlus[i]-vMinus[i])/(2*h))
		}
	}
	return jac
}

func checkJacobian(t *testing.T, c Differentiable, space *statespace.MetaSkeletonStateSpace, positions []float64) {
	t.Helper()
	s := stateAt(t, space, positions)
	value, jac, err := c.ValueAndJacobian(s)
	test.That(t, err, test.ShouldBeNil)

	valueOnly, err := c.Value(s)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, utils.Float64SliceAlmostEqual(value, valueOnly, 1e-12), test.ShouldBeTrue)
	jacOnly, err := c.Jacobian(s)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.EqualApprox(jac, jacOnly, 1e-12), test.ShouldBeTrue)

	rows, cols := jac.Dims()
	test.That(t, rows, test.ShouldEqual, c.ConstraintDimension())
	test.That(t, cols, test.ShouldEqual, space.Dimension())

	numerical := numericalJacobian(t, c, space, positions)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			test.That(t, jac.At(i, j), test.ShouldAlmostEqual, numerical.At(i, j), 1e-4)
		}
	}
}

func offset(positions []float64, by float64) []float64 {
	out := make([]float64, len(positions))
	for i, p := range positions {
		out[i] = p + by
	}
	return out
}

func TestFrameConstraintAdaptorJacobian(t *testing.T) {
	for _, file := range []string{"ur5eDH.json", "gantry_arm.json"} {
		t.Run(file, func(t *testing.T) {
			m, space := loadSpace(t, file)
			ee := endEffector(m)
			positions := make([]float64, len(m.DoF()))
			for i := range positions {
				positions[i] = 0.3 - 0.1*float64(i)
			}

			target, err := m.Transform(referenceframe.FloatsToInputs(offset(positions, 0.2)))
			test.That(t, err, test.ShouldBeNil)
			poseTarget, err := NewPoseTargetConstraint(statespace.NewSE3(), target)
			test.That(t, err, test.ShouldBeNil)
			adaptor, err := NewFrameConstraintAdaptor(space, ee, poseTarget)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, adaptor.ConstraintDimension(), test.ShouldEqual, 6)
			test.That(t, adaptor.ConstraintTypes(), test.ShouldResemble, uniformTypes(6, Equality))
			test.That(t, adaptor.StateSpace(), test.ShouldEqual, space)
			checkJacobian(t, adaptor, space, positions)

			tolerance, err := NewOrientationToleranceConstraint(statespace.NewSE3(), target.Orientation(), 0.01)
			test.That(t, err, test.ShouldBeNil)
			adaptor, err = NewFrameConstraintAdaptor(space, ee, tolerance)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, adaptor.ConstraintTypes(), test.ShouldResemble, []Type{Inequality})
			checkJacobian(t, adaptor, space, positions)
		})
	}
}

func TestFrameConstraintAdaptorValue(t *testing.T) {
	m, space := loadSpace(t, "planar3r.json")
	positions := []float64{0, math.Pi / 2, -math.Pi / 2}
	target := spatialmath.NewPoseFromPoint(r3.Vector{X: 100, Y: 100})
	poseTarget, err := NewPoseTargetConstraint(statespace.NewSE3(), target)
	test.That(t, err, test.ShouldBeNil)
	adaptor, err := NewFrameConstraintAdaptor(space, endEffector(m), poseTarget)
	test.That(t, err, test.ShouldBeNil)

	// The end effector is at (150, 100, 0) with zero rotation.
	value, err := adaptor.Value(stateAt(t, space, positions))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, utils.Float64SliceAlmostEqual(value, []float64{0, 0, 0, 50, 0, 0}, 1e-9), test.ShouldBeTrue)
	test.That(t, IsSatisfiedBy(value, adaptor.ConstraintTypes(), 1e-6), test.ShouldBeFalse)

	value, err = adaptor.Value(stateAt(t, space, []float64{math.Pi / 2, 0, -math.Pi / 2}))
	test.That(t, err, test.ShouldBeNil)
	// (50, 200, 0) with zero net rotation
	test.That(t, utils.Float64SliceAlmostEqual(value, []float64{0, 0, 0, -50, 100, 0}, 1e-9), test.ShouldBeTrue)

	_, err = adaptor.Value(statespace.NewSE3().NewState())
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFramePairConstraintAdaptorJacobian(t *testing.T) {
	for _, file := range []string{"ur5eDH.json", "gantry_arm.json"} {
		t.Run(file, func(t *testing.T) {
			m, space := loadSpace(t, file)
			names := m.FrameNames()
			frame1 := names[len(names)-1]
			frame2 := names[len(names)/2]
			positions := make([]float64, len(m.DoF()))
			for i := range positions {
				positions[i] = 0.1*float64(i) - 0.25
			}

			ref := stateAt(t, space, offset(positions, -0.15))
			snap, err := space.Snapshot(ref)
			test.That(t, err, test.ShouldBeNil)
			p1, err := snap.Pose(frame1)
			test.That(t, err, test.ShouldBeNil)
			p2, err := snap.Pose(frame2)
			test.That(t, err, test.ShouldBeNil)

			relTarget, err := NewPoseTargetConstraint(statespace.NewSE3(), spatialmath.PoseBetween(p2, p1))
			test.That(t, err, test.ShouldBeNil)
			adaptor, err := NewFramePairConstraintAdaptor(space, frame1, frame2, relTarget)
			test.That(t, err, test.ShouldBeNil)

			// The relative pose is zero at the reference configuration.
			value, err := adaptor.Value(ref)
			test.That(t, err, test.ShouldBeNil)
			for _, v := range value {
				test.That(t, v, test.ShouldAlmostEqual, 0, 1e-6)
			}
			checkJacobian(t, adaptor, space, positions)

			// world as the reference frame matches the single frame adaptor
			worldTarget, err := NewPoseTargetConstraint(statespace.NewSE3(), p1)
			test.That(t, err, test.ShouldBeNil)
			adaptor, err = NewFramePairConstraintAdaptor(space, frame1, referenceframe.World, worldTarget)
			test.That(t, err, test.ShouldBeNil)
			checkJacobian(t, adaptor, space, positions)

			single, err := NewFrameConstraintAdaptor(space, frame1, worldTarget)
			test.That(t, err, test.ShouldBeNil)
			s := stateAt(t, space, positions)
			pairJac, err := adaptor.Jacobian(s)
			test.That(t, err, test.ShouldBeNil)
			singleJac, err := single.Jacobian(s)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, mat.EqualApprox(pairJac, singleJac, 1e-9), test.ShouldBeTrue)
		})
	}
}

func TestFramePairSameFrame(t *testing.T) {
	m, space := loadSpace(t, "ur5eDH.json")
	ee := endEffector(m)
	identity, err := NewPoseTargetConstraint(statespace.NewSE3(), spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeNil)
	adaptor, err := NewFramePairConstraintAdaptor(space, ee, ee, identity)
	test.That(t, err, test.ShouldBeNil)

	s := stateAt(t, space, []float64{0.4, -0.7, 1.1, 0.2, -0.3, 0.9})
	rel, err := adaptor.RelativePose(s)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(rel, spatialmath.NewZeroPose()), test.ShouldBeTrue)

	value, jac, err := adaptor.ValueAndJacobian(s)
	test.That(t, err, test.ShouldBeNil)
	for _, v := range value {
		test.That(t, v, test.ShouldAlmostEqual, 0, 1e-9)
	}
	test.That(t, mat.EqualApprox(jac, mat.NewDense(6, 6, nil), 1e-9), test.ShouldBeTrue)
}

type noSpaceConstraint struct {
	*PoseTargetConstraint
}

func (noSpaceConstraint) StateSpace() statespace.StateSpace {
	return nil
}

func TestAdaptorConstructorErrors(t *testing.T) {
	m, space := loadSpace(t, "planar3r.json")
	ee := endEffector(m)
	poseTarget, err := NewPoseTargetConstraint(statespace.NewSE3(), spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeNil)
	rnBounds, err := NewDifferentiableBounds(statespace.NewRn(6))
	test.That(t, err, test.ShouldBeNil)

	_, err = NewFrameConstraintAdaptor(space, ee, nil)
	test.That(t, err, test.ShouldEqual, ErrNilPoseConstraint)
	_, err = NewFrameConstraintAdaptor(space, "", poseTarget)
	test.That(t, err, test.ShouldEqual, ErrEmptyFrame)
	_, err = NewFrameConstraintAdaptor(nil, ee, poseTarget)
	test.That(t, err, test.ShouldEqual, ErrNilStateSpace)
	_, err = NewFrameConstraintAdaptor(space, ee, rnBounds)
	test.That(t, err, test.ShouldEqual, ErrNotSE3Constraint)
	_, err = NewFrameConstraintAdaptor(space, ee, noSpaceConstraint{poseTarget})
	test.That(t, err, test.ShouldEqual, ErrNotSE3Constraint)
	_, err = NewFrameConstraintAdaptor(&statespace.MetaSkeletonStateSpace{}, ee, poseTarget)
	test.That(t, err, test.ShouldEqual, ErrMissingSkeleton)
	_, err = NewFrameConstraintAdaptor(space, "missing", poseTarget)
	test.That(t, errors.Is(err, referenceframe.ErrUnknownFrame), test.ShouldBeTrue)

	// nil pose constraint is reported before the other arguments
	_, err = NewFramePairConstraintAdaptor(nil, "", "", nil)
	test.That(t, err, test.ShouldEqual, ErrNilPoseConstraint)
	_, err = NewFramePairConstraintAdaptor(space, ee, "", poseTarget)
	test.That(t, err, test.ShouldEqual, ErrEmptyFrame)
	_, err = NewFramePairConstraintAdaptor(nil, ee, ee, poseTarget)
	test.That(t, err, test.ShouldEqual, ErrNilStateSpace)
	_, err = NewFramePairConstraintAdaptor(space, ee, ee, rnBounds)
	test.That(t, err, test.ShouldEqual, ErrNotSE3Constraint)
	_, err = NewFramePairConstraintAdaptor(space, ee, "missing", poseTarget)
	test.That(t, errors.Is(err, referenceframe.ErrUnknownFrame), test.ShouldBeTrue)
}

func TestPoseConstraints(t *testing.T) {
	_, err := NewPoseTargetConstraint(nil, spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldEqual, ErrNilStateSpace)
	_, err = NewOrientationToleranceConstraint(statespace.NewSE3(), spatialmath.NewZeroOrientation(), -1)
	test.That(t, err, test.ShouldNotBeNil)

	target := spatialmath.NewPose(r3.Vector{X: 1, Y: 2, Z: 3}, &spatialmath.R4AA{Theta: 0.5, RZ: 1})
	poseTarget, err := NewPoseTargetConstraint(statespace.NewSE3(), target)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, poseTarget.Target(), test.ShouldEqual, target)

	value, err := poseTarget.Value(statespace.NewSE3State(target))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, utils.Float64SliceAlmostEqual(value, make([]float64, 6), 1e-9), test.ShouldBeTrue)

	// Rotating by 0.2 about z beyond the target gives r = (0, 0, 0.2).
	rotated := spatialmath.NewPose(r3.Vector{X: 1, Y: 2, Z: 4}, &spatialmath.R4AA{Theta: 0.7, RZ: 1})
	value, err = poseTarget.Value(statespace.NewSE3State(rotated))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, utils.Float64SliceAlmostEqual(value, []float64{0, 0, 0.2, 0, 0, 1}, 1e-9), test.ShouldBeTrue)

	tolerance, err := NewOrientationToleranceConstraint(statespace.NewSE3(), target.Orientation(), 0.1)
	test.That(t, err, test.ShouldBeNil)
	value, err = tolerance.Value(statespace.NewSE3State(rotated))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, value[0], test.ShouldAlmostEqual, 0.1)
	test.That(t, IsSatisfiedBy(value, tolerance.ConstraintTypes(), 1e-9), test.ShouldBeFalse)

	value, jac, err := tolerance.ValueAndJacobian(statespace.NewSE3State(target))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, value[0], test.ShouldAlmostEqual, -0.1)
	test.That(t, IsSatisfiedBy(value, tolerance.ConstraintTypes(), 1e-9), test.ShouldBeTrue)
	test.That(t, mat.Equal(jac, mat.NewDense(1, 6, nil)), test.ShouldBeTrue)

	_, err = tolerance.Value(statespace.NewSO3().NewState())
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTypeString(t *testing.T) {
	test.That(t, Equality.String(), test.ShouldEqual, "equality")
	test.That(t, Inequality.String(), test.ShouldEqual, "inequality")
	test.That(t, Type(7).String(), test.ShouldEqual, "Type(7)")
}
