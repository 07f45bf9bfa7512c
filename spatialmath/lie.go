package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Below this rotation angle the closed forms are replaced by their Taylor expansions.
const smallAngle = 1e-8

// SkewSymmetric returns the 3x3 cross product matrix [v]x such that [v]x * u = v x u.
func SkewSymmetric(v r3.Vector) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -v.Z, v.Y,
		v.Z, 0, -v.X,
		-v.Y, v.X, 0,
	})
}

// ExpMapSO3 returns the unit quaternion of the rotation vector omega.
func ExpMapSO3(omega r3.Vector) quat.Number {
	theta := omega.Norm()
	if theta < smallAngle {
		return Normalize(quat.Number{Real: 1, Imag: omega.X / 2, Jmag: omega.Y / 2, Kmag: omega.Z / 2})
	}
	s := math.Sin(theta/2) / theta
	return quat.Number{Real: math.Cos(theta / 2), Imag: omega.X * s, Jmag: omega.Y * s, Kmag: omega.Z * s}
}

// LogMapSO3 returns the rotation vector, of norm at most pi, of the unit quaternion q.
func LogMapSO3(q quat.Number) r3.Vector {
	return QuatToR3AA(Normalize(q))
}

// LeftJacobianSO3 returns the left Jacobian of SO(3) at the rotation vector phi.
func LeftJacobianSO3(phi r3.Vector) *mat.Dense {
	theta := phi.Norm()
	var a, b float64
	if theta < 1e-4 {
		a, b = 0.5, 1./6.
	} else {
		a = (1 - math.Cos(theta)) / (theta * theta)
		b = (theta - math.Sin(theta)) / (theta * theta * theta)
	}
	return identityPlusSkew(phi, a, b)
}

// LeftJacobianInverseSO3 returns the inverse of the left Jacobian of SO(3) at the rotation vector phi.
// It maps a world frame angular perturbation of exp(phi) to the change in phi.
func LeftJacobianInverseSO3(phi r3.Vector) *mat.Dense {
	theta := phi.Norm()
	var b float64
	if theta < 1e-4 {
		b = 1. / 12.
	} else {
		b = 1/(theta*theta) - (1+math.Cos(theta))/(2*theta*math.Sin(theta))
	}
	return identityPlusSkew(phi, -0.5, b)
}

// identityPlusSkew returns I + a[phi]x + b[phi]x^2.
func identityPlusSkew(phi r3.Vector, a, b float64) *mat.Dense {
	skew := SkewSymmetric(phi)
	var skew2 mat.Dense
	skew2.Mul(skew, skew)

	out := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	skew.Scale(a, skew)
	skew2.Scale(b, &skew2)
	out.Add(out, skew)
	out.Add(out, &skew2)
	return out
}

// MulVec3 multiplies the 3x3 matrix m by v.
func MulVec3(m mat.Matrix, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

// ExpMapSE3 returns the pose of the twist [wx, wy, wz, vx, vy, vz].
func ExpMapSE3(tangent []float64) Pose {
	omega := r3.Vector{X: tangent[0], Y: tangent[1], Z: tangent[2]}
	v := r3.Vector{X: tangent[3], Y: tangent[4], Z: tangent[5]}
	q := Quaternion(ExpMapSO3(omega))
	return NewPose(MulVec3(LeftJacobianSO3(omega), v), &q)
}

// LogMapSE3 returns the twist [wx, wy, wz, vx, vy, vz] of the pose. It inverts ExpMapSE3.
func LogMapSE3(p Pose) []float64 {
	omega := LogMapSO3(p.Orientation().Quaternion())
	v := MulVec3(LeftJacobianInverseSO3(omega), p.Point())
	return []float64{omega.X, omega.Y, omega.Z, v.X, v.Y, v.Z}
}
