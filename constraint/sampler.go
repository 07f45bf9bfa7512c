package constraint

import (
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/stat/distuv"

	"go.viam.com/motioncore/spatialmath"
)

// NumSamplesUnbounded is reported by generators that never run out of samples.
const NumSamplesUnbounded = -1

// SampleGenerator produces a sequence of samples. Sample returns false when no sample could be produced.
type SampleGenerator[T any] interface {
	Sample() (T, bool)
	CanSample() bool
	// NumSamples is the number of samples left, or NumSamplesUnbounded.
	NumSamples() int
}

type finitePoseSampler struct {
	poses []spatialmath.Pose
	next  int
}

// NewFinitePoseSampler returns a generator yielding each pose once, in order.
func NewFinitePoseSampler(poses []spatialmath.Pose) SampleGenerator[spatialmath.Pose] {
	return &finitePoseSampler{poses: append([]spatialmath.Pose{}, poses...)}
}

func (s *finitePoseSampler) Sample() (spatialmath.Pose, bool) {
	if !s.CanSample() {
		return nil, false
	}
	pose := s.poses[s.next]
	s.next++
	return pose, true
}

func (s *finitePoseSampler) CanSample() bool {
	return s.next < len(s.poses)
}

func (s *finitePoseSampler) NumSamples() int {
	return len(s.poses) - s.next
}

type randomPoseSampler struct {
	lo, hi r3.Vector
	rng    *rand.Rand
}

// NewRandomPoseSampler returns an unbounded generator of poses with points uniform in the box [lo, hi] and
// orientations uniform over SO(3).
func NewRandomPoseSampler(lo, hi r3.Vector, rng *rand.Rand) (SampleGenerator[spatialmath.Pose], error) {
	if rng == nil {
		return nil, errors.New("pose sampler needs a random source")
	}
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		return nil, errors.Errorf("invalid sampling box: lower corner %v exceeds upper corner %v", lo, hi)
	}
	return &randomPoseSampler{lo: lo, hi: hi, rng: rng}, nil
}

func (s *randomPoseSampler) Sample() (spatialmath.Pose, bool) {
	return spatialmath.RandomPose(s.rng, s.lo, s.hi), true
}

func (s *randomPoseSampler) CanSample() bool {
	return true
}

func (s *randomPoseSampler) NumSamples() int {
	return NumSamplesUnbounded
}

type gaussianPoseSampler struct {
	mean         spatialmath.Pose
	linear       distuv.Normal
	angular      distuv.Normal
	angularNoise bool
}

// NewGaussianPoseSampler returns an unbounded generator of poses around mean. Each coordinate of the point is
// perturbed with standard deviation linearStdDev, and the orientation by a world-frame rotation vector with
// standard deviation angularStdDev per axis.
func NewGaussianPoseSampler(
	mean spatialmath.Pose,
	linearStdDev, angularStdDev float64,
	rng *rand.Rand,
) (SampleGenerator[spatialmath.Pose], error) {
	if mean == nil {
		return nil, errors.New("mean pose is nil")
	}
	if rng == nil {
		return nil, errors.New("pose sampler needs a random source")
	}
	if linearStdDev < 0 || angularStdDev < 0 {
		return nil, errors.Errorf("standard deviations cannot be negative, got %f and %f", linearStdDev, angularStdDev)
	}
	return &gaussianPoseSampler{
		mean:         mean,
		linear:       distuv.Normal{Mu: 0, Sigma: linearStdDev, Src: rng},
		angular:      distuv.Normal{Mu: 0, Sigma: angularStdDev, Src: rng},
		angularNoise: angularStdDev > 0,
	}, nil
}

func (s *gaussianPoseSampler) Sample() (spatialmath.Pose, bool) {
	pt := s.mean.Point().Add(r3.Vector{X: s.linear.Rand(), Y: s.linear.Rand(), Z: s.linear.Rand()})
	if !s.angularNoise {
		return spatialmath.NewPose(pt, s.mean.Orientation()), true
	}
	noise := spatialmath.ExpMapSO3(r3.Vector{X: s.angular.Rand(), Y: s.angular.Rand(), Z: s.angular.Rand()})
	q := spatialmath.Quaternion(quat.Mul(noise, s.mean.Orientation().Quaternion()))
	return spatialmath.NewPose(pt, &q), true
}

func (s *gaussianPoseSampler) CanSample() bool {
	return true
}

func (s *gaussianPoseSampler) NumSamples() int {
	return NumSamplesUnbounded
}
