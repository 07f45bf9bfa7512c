package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// R4AA is a rotation of Theta radians about the axis (RX, RY, RZ). The axis is normalized before use.
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// NewR4AA returns the identity rotation about +Z.
func NewR4AA() *R4AA {
	return &R4AA{RZ: 1}
}

// AxisAngles returns r4.
func (r4 *R4AA) AxisAngles() *R4AA {
	return r4
}

// Quaternion returns the unit quaternion of the rotation.
func (r4 *R4AA) Quaternion() quat.Number {
	return r4.ToQuat()
}

// EulerAngles returns the rotation as Euler angles.
func (r4 *R4AA) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(r4.Quaternion())
}

// RotationMatrix returns the rotation as a matrix.
func (r4 *R4AA) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(r4.Quaternion())
}

// ToR3 returns the rotation vector, the axis scaled by the angle.
func (r4 *R4AA) ToR3() r3.Vector {
	return r3.Vector{X: r4.RX, Y: r4.RY, Z: r4.RZ}.Mul(r4.Theta)
}

// ToQuat normalizes the axis and returns cos(θ/2) + sin(θ/2)·axis.
func (r4 *R4AA) ToQuat() quat.Number {
	if r4.Theta == 0 {
		return quat.Number{Real: 1}
	}
	r4.Normalize()
	s, c := math.Sincos(r4.Theta / 2)
	return quat.Number{Real: c, Imag: s * r4.RX, Jmag: s * r4.RY, Kmag: s * r4.RZ}
}

// Normalize puts the axis on the unit sphere. A zero axis becomes +Z.
func (r4 *R4AA) Normalize() {
	axis := r3.Vector{X: r4.RX, Y: r4.RY, Z: r4.RZ}
	n := axis.Norm()
	if n == 0 {
		r4.RX, r4.RY, r4.RZ = 0, 0, 1
		return
	}
	r4.RX, r4.RY, r4.RZ = axis.X/n, axis.Y/n, axis.Z/n
}

// R3ToR4 splits a rotation vector into its angle and unit axis.
func R3ToR4(aa r3.Vector) *R4AA {
	theta := aa.Norm()
	if theta == 0 {
		return NewR4AA()
	}
	axis := aa.Mul(1 / theta)
	return &R4AA{Theta: theta, RX: axis.X, RY: axis.Y, RZ: axis.Z}
}
