package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// MetersToMM converts meters to millimeters.
func MetersToMM(meters float64) float64 {
	return meters * 1000
}

// MMToMeters converts millimeters to meters.
func MMToMeters(mm float64) float64 {
	return mm / 1000
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return a == b || math.Abs(a-b) <= epsilon
}

// Float64SliceAlmostEqual compares two slices element-wise.
func Float64SliceAlmostEqual(a, b []float64, epsilon float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if !Float64AlmostEqual(v, b[i], epsilon) {
			return false
		}
	}
	return true
}

// Clamp restricts x to the closed interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// WrapAngle maps an angle in radians onto (-pi, pi].
func WrapAngle(theta float64) float64 {
	wrapped := math.Mod(theta+math.Pi, 2*math.Pi)
	if wrapped <= 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped - math.Pi
}

// Math.pow( x, 2 ) is slow, this is faster
func Square(n float64) float64 {
	return n * n
}

// Factorial returns n! as a float64. Negative inputs return 0.
func Factorial(n int) float64 {
	if n < 0 {
		return 0
	}
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// FallingFactorial returns n!/(n-k)!, the coefficient that appears when differentiating t^n k times.
func FallingFactorial(n, k int) float64 {
	if k > n || k < 0 {
		return 0
	}
	f := 1.
	for i := n - k + 1; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
