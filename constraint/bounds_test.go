package constraint

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/motioncore/referenceframe"
	"go.viam.com/motioncore/spatialmath"
	"go.viam.com/motioncore/statespace"
)

func TestRnBounds(t *testing.T) {
	space, err := statespace.NewBoundedRn([]referenceframe.Limit{{Min: -1, Max: 1}, {Min: 0, Max: 2}})
	test.That(t, err, test.ShouldBeNil)

	testable, err := NewTestableBounds(space)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, testable.StateSpace(), test.ShouldEqual, space)
	ok, err := testable.IsSatisfied(statespace.NewRnState([]float64{0.5, 1}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	ok, err = testable.IsSatisfied(statespace.NewRnState([]float64{3, 1}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)

	projectable, err := NewProjectableBounds(space)
	test.That(t, err, test.ShouldBeNil)
	out := space.NewState()
	test.That(t, projectable.Project(statespace.NewRnState([]float64{3, -1}), out), test.ShouldBeNil)
	test.That(t, out.(*statespace.RnState).Values(), test.ShouldResemble, []float64{1, 0})

	differentiable, err := NewDifferentiableBounds(space)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, differentiable.ConstraintDimension(), test.ShouldEqual, 2)
	test.That(t, differentiable.ConstraintTypes(), test.ShouldResemble, []Type{Inequality, Inequality})
	value, jac, err := differentiable.ValueAndJacobian(statespace.NewRnState([]float64{0.5, 2.5}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, value, test.ShouldResemble, []float64{-0.5, 0.5})
	test.That(t, mat.Equal(jac, mat.NewDense(2, 2, []float64{1, 0, 0, 1})), test.ShouldBeTrue)
	test.That(t, IsSatisfiedBy(value, differentiable.ConstraintTypes(), 0), test.ShouldBeFalse)

	value, jac, err = differentiable.ValueAndJacobian(statespace.NewRnState([]float64{-0.75, 0.5}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, value, test.ShouldResemble, []float64{-0.25, -0.5})
	test.That(t, mat.Equal(jac, mat.NewDense(2, 2, []float64{-1, 0, 0, -1})), test.ShouldBeTrue)
	test.That(t, IsSatisfiedBy(value, differentiable.ConstraintTypes(), 0), test.ShouldBeTrue)

	_, err = differentiable.Value(statespace.NewRnState([]float64{1}))
	test.That(t, err, test.ShouldNotBeNil)
	_, err = differentiable.Value(statespace.NewSO2().NewState())
	test.That(t, err, test.ShouldNotBeNil)

	//nolint:gosec
	sampleable, err := NewSampleableBounds(space, rand.New(rand.NewPCG(1, 2)))
	test.That(t, err, test.ShouldBeNil)
	gen := sampleable.SampleGenerator()
	test.That(t, gen.CanSample(), test.ShouldBeTrue)
	test.That(t, gen.NumSamples(), test.ShouldEqual, NumSamplesUnbounded)
	for i := 0; i < 100; i++ {
		s, ok := gen.Sample()
		test.That(t, ok, test.ShouldBeTrue)
		in, err := space.InBounds(s)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, in, test.ShouldBeTrue)
	}
}

func TestUnboundedRn(t *testing.T) {
	space := statespace.NewRn(2)
	differentiable, err := NewDifferentiableBounds(space)
	test.That(t, err, test.ShouldBeNil)
	value, jac, err := differentiable.ValueAndJacobian(statespace.NewRnState([]float64{1e9, -1e9}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, value, test.ShouldResemble, []float64{0, 0})
	test.That(t, mat.Equal(jac, mat.NewDense(2, 2, nil)), test.ShouldBeTrue)

	half, err := statespace.NewBoundedRn([]referenceframe.Limit{{Min: math.Inf(-1), Max: 1}})
	test.That(t, err, test.ShouldBeNil)
	differentiable, err = NewDifferentiableBounds(half)
	test.That(t, err, test.ShouldBeNil)
	value, err = differentiable.Value(statespace.NewRnState([]float64{3}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, value, test.ShouldResemble, []float64{2.})

	//nolint:gosec
	_, err = NewSampleableBounds(space, rand.New(rand.NewPCG(1, 2)))
	test.That(t, err, test.ShouldEqual, ErrUnboundedSpace)
}

func TestRotationBounds(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewPCG(3, 4))
	for _, space := range []statespace.StateSpace{statespace.NewSO2(), statespace.NewSO3()} {
		t.Run(space.Kind().String(), func(t *testing.T) {
			differentiable, err := NewDifferentiableBounds(space)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, differentiable.ConstraintDimension(), test.ShouldEqual, 0)
			test.That(t, differentiable.ConstraintTypes(), test.ShouldBeEmpty)
			value, jac, err := differentiable.ValueAndJacobian(space.NewState())
			test.That(t, err, test.ShouldBeNil)
			test.That(t, value, test.ShouldBeEmpty)
			r, c := jac.Dims()
			test.That(t, r, test.ShouldEqual, 0)
			test.That(t, c, test.ShouldEqual, 0)
			_, err = differentiable.Value(statespace.NewRnState([]float64{1}))
			test.That(t, errors.Is(err, statespace.ErrKindMismatch), test.ShouldBeTrue)

			testable, err := NewTestableBounds(space)
			test.That(t, err, test.ShouldBeNil)
			sampleable, err := NewSampleableBounds(space, rng)
			test.That(t, err, test.ShouldBeNil)
			gen := sampleable.SampleGenerator()
			s, ok := gen.Sample()
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, s.Kind(), test.ShouldEqual, space.Kind())
			ok, err = testable.IsSatisfied(s)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, ok, test.ShouldBeTrue)

			projectable, err := NewProjectableBounds(space)
			test.That(t, err, test.ShouldBeNil)
			out := space.NewState()
			test.That(t, projectable.Project(s, out), test.ShouldBeNil)
			tangent, err := space.LogMap(out)
			test.That(t, err, test.ShouldBeNil)
			expected, err := space.LogMap(s)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, tangent, test.ShouldResemble, expected)
		})
	}

	s, ok := mustSampleable(t, statespace.NewSO3(), rng).SampleGenerator().Sample()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, quat.Abs(s.(*statespace.SO3State).Quaternion()), test.ShouldAlmostEqual, 1.)

	s, ok = mustSampleable(t, statespace.NewSO2(), rng).SampleGenerator().Sample()
	test.That(t, ok, test.ShouldBeTrue)
	angle := s.(*statespace.SO2State).Angle()
	test.That(t, angle, test.ShouldBeBetweenOrEqual, -math.Pi, math.Pi)
}

func mustSampleable(t *testing.T, space statespace.StateSpace, rng *rand.Rand) Sampleable {
	t.Helper()
	sampleable, err := NewSampleableBounds(space, rng)
	test.That(t, err, test.ShouldBeNil)
	return sampleable
}

func TestBoundsNotImplemented(t *testing.T) {
	compound, err := statespace.NewCompound(statespace.NewSO2(), statespace.NewRn(1))
	test.That(t, err, test.ShouldBeNil)
	for _, space := range []statespace.StateSpace{statespace.NewSE2(), statespace.NewSE3(), compound} {
		t.Run(space.Kind().String(), func(t *testing.T) {
			_, err := NewTestableBounds(space)
			test.That(t, errors.Is(err, ErrNotImplemented), test.ShouldBeTrue)
			_, err = NewProjectableBounds(space)
			test.That(t, errors.Is(err, ErrNotImplemented), test.ShouldBeTrue)
			_, err = NewDifferentiableBounds(space)
			test.That(t, errors.Is(err, ErrNotImplemented), test.ShouldBeTrue)
			//nolint:gosec
			_, err = NewSampleableBounds(space, rand.New(rand.NewPCG(1, 1)))
			test.That(t, errors.Is(err, ErrNotImplemented), test.ShouldBeTrue)
		})
	}

	_, err = NewTestableBounds(nil)
	test.That(t, err, test.ShouldEqual, ErrNilStateSpace)
}

func TestPoseSamplers(t *testing.T) {
	a := spatialmath.NewPoseFromPoint(r3.Vector{X: 1})
	b := spatialmath.NewPoseFromPoint(r3.Vector{X: 2})
	finite := NewFinitePoseSampler([]spatialmath.Pose{a, b})
	test.That(t, finite.NumSamples(), test.ShouldEqual, 2)
	pose, ok := finite.Sample()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pose, test.ShouldEqual, a)
	test.That(t, finite.NumSamples(), test.ShouldEqual, 1)
	pose, ok = finite.Sample()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pose, test.ShouldEqual, b)
	test.That(t, finite.CanSample(), test.ShouldBeFalse)
	_, ok = finite.Sample()
	test.That(t, ok, test.ShouldBeFalse)

	//nolint:gosec
	rng := rand.New(rand.NewPCG(5, 6))
	lo, hi := r3.Vector{X: -1, Y: 0, Z: 10}, r3.Vector{X: 1, Y: 0, Z: 20}
	random, err := NewRandomPoseSampler(lo, hi, rng)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, random.NumSamples(), test.ShouldEqual, NumSamplesUnbounded)
	for i := 0; i < 50; i++ {
		pose, ok := random.Sample()
		test.That(t, ok, test.ShouldBeTrue)
		pt := pose.Point()
		test.That(t, pt.X, test.ShouldBeBetweenOrEqual, lo.X, hi.X)
		test.That(t, pt.Y, test.ShouldAlmostEqual, 0.)
		test.That(t, pt.Z, test.ShouldBeBetweenOrEqual, lo.Z, hi.Z)
	}
	_, err = NewRandomPoseSampler(hi, lo, rng)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewRandomPoseSampler(lo, hi, nil)
	test.That(t, err, test.ShouldNotBeNil)

	mean := spatialmath.NewPose(r3.Vector{X: 5, Y: 6, Z: 7}, &spatialmath.R4AA{Theta: 1, RY: 1})
	still, err := NewGaussianPoseSampler(mean, 0, 0, rng)
	test.That(t, err, test.ShouldBeNil)
	pose, ok = still.Sample()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, spatialmath.PoseAlmostEqual(pose, mean), test.ShouldBeTrue)

	noisy, err := NewGaussianPoseSampler(mean, 1, 0.05, rng)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, noisy.NumSamples(), test.ShouldEqual, NumSamplesUnbounded)
	for i := 0; i < 50; i++ {
		pose, ok := noisy.Sample()
		test.That(t, ok, test.ShouldBeTrue)
		// ten standard deviations
		test.That(t, pose.Point().Distance(mean.Point()), test.ShouldBeLessThan, 10*math.Sqrt(3))
		test.That(t, spatialmath.GeodesicAngle(pose.Orientation(), mean.Orientation()), test.ShouldBeLessThan, 0.5*math.Sqrt(3))
	}
	_, err = NewGaussianPoseSampler(mean, -1, 0, rng)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewGaussianPoseSampler(nil, 1, 1, rng)
	test.That(t, err, test.ShouldNotBeNil)
}
