package spatialmath

import (
	"encoding/json"
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/motioncore/utils"
)

// represent a 45 degree rotation around the x axis in all the representations
var (
	th    = math.Pi / 4.
	q45x  = quat.Number{math.Cos(th / 2.), math.Sin(th / 2.), 0, 0} // in quaternion representation
	aa45x = &R4AA{th, 1., 0., 0.}                                   // in axis-angle representation
	ea45x = &EulerAngles{Roll: th, Pitch: 0, Yaw: 0}                // in euler angle representation
)

func TestZeroOrientation(t *testing.T) {
	zero := NewZeroOrientation()
	test.That(t, zero.AxisAngles().Theta, test.ShouldEqual, 0)
	test.That(t, zero.Quaternion(), test.ShouldResemble, quat.Number{1, 0, 0, 0})
	test.That(t, zero.EulerAngles(), test.ShouldResemble, NewEulerAngles())
	test.That(t, zero.RotationMatrix(), test.ShouldResemble, IdentityRotationMatrix())
}

func TestQuaternions(t *testing.T) {
	qq45x := Quaternion(q45x)
	test.That(t, qq45x.AxisAngles().Theta, test.ShouldAlmostEqual, aa45x.Theta)
	test.That(t, qq45x.AxisAngles().RX, test.ShouldAlmostEqual, aa45x.RX)
	test.That(t, qq45x.AxisAngles().RY, test.ShouldAlmostEqual, aa45x.RY)
	test.That(t, qq45x.AxisAngles().RZ, test.ShouldAlmostEqual, aa45x.RZ)
	test.That(t, qq45x.EulerAngles().Roll, test.ShouldAlmostEqual, ea45x.Roll)
	test.That(t, qq45x.EulerAngles().Pitch, test.ShouldAlmostEqual, ea45x.Pitch)
	test.That(t, qq45x.EulerAngles().Yaw, test.ShouldAlmostEqual, ea45x.Yaw)
}

func TestEulerAngles(t *testing.T) {
	test.That(t, ea45x.Quaternion().Real, test.ShouldAlmostEqual, q45x.Real)
	test.That(t, ea45x.Quaternion().Imag, test.ShouldAlmostEqual, q45x.Imag)
	test.That(t, ea45x.Quaternion().Jmag, test.ShouldAlmostEqual, q45x.Jmag)
	test.That(t, ea45x.Quaternion().Kmag, test.ShouldAlmostEqual, q45x.Kmag)
	test.That(t, ea45x.AxisAngles().Theta, test.ShouldAlmostEqual, aa45x.Theta)
	test.That(t, ea45x.AxisAngles().RX, test.ShouldAlmostEqual, aa45x.RX)

	composite := &EulerAngles{Roll: 0.3, Pitch: -0.4, Yaw: 1.1}
	back := QuatToEulerAngles(composite.Quaternion())
	test.That(t, back.Roll, test.ShouldAlmostEqual, composite.Roll)
	test.That(t, back.Pitch, test.ShouldAlmostEqual, composite.Pitch)
	test.That(t, back.Yaw, test.ShouldAlmostEqual, composite.Yaw)
}

func TestAxisAngles(t *testing.T) {
	test.That(t, aa45x.Quaternion().Real, test.ShouldAlmostEqual, q45x.Real)
	test.That(t, aa45x.Quaternion().Imag, test.ShouldAlmostEqual, q45x.Imag)
	test.That(t, aa45x.EulerAngles().Roll, test.ShouldAlmostEqual, ea45x.Roll)

	r3aa := aa45x.ToR3()
	test.That(t, R3ToR4(r3aa).Theta, test.ShouldAlmostEqual, th)
	test.That(t, R3ToR4(r3aa.Mul(0)), test.ShouldResemble, NewR4AA())

	// a zero axis normalizes to +Z rather than dividing by zero
	zeroAxis := &R4AA{Theta: 1}
	test.That(t, zeroAxis.Quaternion().Kmag, test.ShouldAlmostEqual, math.Sin(0.5))
}

func TestRotationMatrix(t *testing.T) {
	rm := QuatToRotationMatrix(q45x)
	test.That(t, rm.At(1, 1), test.ShouldAlmostEqual, math.Cos(th))
	test.That(t, rm.At(1, 2), test.ShouldAlmostEqual, -math.Sin(th))
	test.That(t, rm.At(2, 1), test.ShouldAlmostEqual, math.Sin(th))
	test.That(t, QuaternionAlmostEqual(rm.Quaternion(), q45x, 1e-9), test.ShouldBeTrue)

	// R * R^T = I
	prod := rm.Mul(rm.Transpose())
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			expected := 0.
			if r == c {
				expected = 1
			}
			test.That(t, prod.At(r, c), test.ShouldAlmostEqual, expected)
		}
	}

	// 180 degree rotations exercise the non-trace branches of the conversion
	for _, q := range []quat.Number{{0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}} {
		test.That(t, QuaternionAlmostEqual(QuatToRotationMatrix(q).Quaternion(), q, 1e-9), test.ShouldBeTrue)
	}

	_, err := NewRotationMatrix([]float64{1, 2, 3})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestOrientationBetween(t *testing.T) {
	a := &EulerAngles{Yaw: 0.2}
	b := &EulerAngles{Yaw: 0.9}
	between := OrientationBetween(a, b)
	test.That(t, between.AxisAngles().Theta, test.ShouldAlmostEqual, 0.7)
	test.That(t, GeodesicAngle(a, b), test.ShouldAlmostEqual, 0.7)
	test.That(t, GeodesicAngle(b, a), test.ShouldAlmostEqual, 0.7)
	test.That(t, GeodesicAngle(a, a), test.ShouldAlmostEqual, 0)

	inv := OrientationInverse(b)
	test.That(t, inv.EulerAngles().Yaw, test.ShouldAlmostEqual, -0.9)
}

func TestSlerp(t *testing.T) {
	q1 := ExpMapSO3(r3Z(0.2))
	q2 := ExpMapSO3(r3Z(1.4))
	test.That(t, QuaternionAlmostEqual(Slerp(q1, q2, 0), q1, 1e-9), test.ShouldBeTrue)
	test.That(t, QuaternionAlmostEqual(Slerp(q1, q2, 1), q2, 1e-9), test.ShouldBeTrue)
	mid := Slerp(q1, q2, 0.5)
	test.That(t, LogMapSO3(mid).Z, test.ShouldAlmostEqual, 0.8)

	// the shortest arc is taken even when q2 is given in the opposite hemisphere
	midFlipped := Slerp(q1, Flip(q2), 0.5)
	test.That(t, QuaternionAlmostEqual(mid, midFlipped, 1e-9), test.ShouldBeTrue)
}

func TestOrientationConfig(t *testing.T) {
	for _, tc := range []struct {
		name   string
		config string
		yawDeg float64
	}{
		{"none", `{"type":""}`, 0},
		{"axis angles", `{"type":"axis_angles","value":{"th":1.5707963267948966,"x":0,"y":0,"z":1}}`, 90},
		{"axis angles degrees", `{"type":"axis_angles_degrees","value":{"th":45,"x":0,"y":0,"z":1}}`, 45},
		{"euler", `{"type":"euler_angles","value":{"roll":0,"pitch":0,"yaw":0.5235987755982988}}`, 30},
		{"quaternion", `{"type":"quaternion","value":{"w":0.9238795325112867,"x":0,"y":0,"z":0.3826834323650898}}`, 45},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var cfg OrientationConfig
			test.That(t, json.Unmarshal([]byte(tc.config), &cfg), test.ShouldBeNil)
			o, err := cfg.ParseConfig()
			test.That(t, err, test.ShouldBeNil)
			test.That(t, utils.RadToDeg(o.EulerAngles().Yaw), test.ShouldAlmostEqual, tc.yawDeg)
		})
	}

	bad := OrientationConfig{Type: "ov_degrees"}
	_, err := bad.ParseConfig()
	test.That(t, err, test.ShouldNotBeNil)

	cfg, err := NewOrientationConfig(ea45x)
	test.That(t, err, test.ShouldBeNil)
	o, err := cfg.ParseConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, OrientationAlmostEqual(o, ea45x), test.ShouldBeTrue)
}
