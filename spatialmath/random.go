package spatialmath

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomQuaternion returns a quaternion drawn uniformly from the unit sphere in 4D, which is uniform over SO(3).
// Uses Shoemake's subgroup algorithm.
func RandomQuaternion(rng *rand.Rand) quat.Number {
	u1, u2, u3 := rng.Float64(), rng.Float64(), rng.Float64()
	a, b := math.Sqrt(1-u1), math.Sqrt(u1)
	q := quat.Number{
		Real: b * math.Cos(2*math.Pi*u3),
		Imag: a * math.Sin(2*math.Pi*u2),
		Jmag: a * math.Cos(2*math.Pi*u2),
		Kmag: b * math.Sin(2*math.Pi*u3),
	}
	if q.Real < 0 {
		q = Flip(q)
	}
	return q
}

// RandomPose returns a pose with a uniformly random orientation and a point drawn uniformly from the box
// [lo, hi].
func RandomPose(rng *rand.Rand, lo, hi r3.Vector) Pose {
	pt := r3.Vector{
		X: distuv.Uniform{Min: lo.X, Max: hi.X, Src: rng}.Rand(),
		Y: distuv.Uniform{Min: lo.Y, Max: hi.Y, Src: rng}.Rand(),
		Z: distuv.Uniform{Min: lo.Z, Max: hi.Z, Src: rng}.Rand(),
	}
	q := Quaternion(RandomQuaternion(rng))
	return NewPose(pt, &q)
}
