package spline

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Spline is an immutable piecewise polynomial. Segment i covers [times[i], times[i+1]] and stores a
// numOutputs x numCoefficients matrix of power basis coefficients in t - times[i].
type Spline struct {
	times        []float64
	coefficients []*mat.Dense
	derivatives  *mat.Dense
}

func newSpline(times []float64, coefficients []*mat.Dense) *Spline {
	_, n := coefficients[0].Dims()
	return &Spline{
		times:        append([]float64{}, times...),
		coefficients: coefficients,
		derivatives:  CreateCoefficientMatrix(n),
	}
}

// NumKnots returns the number of knots.
func (s *Spline) NumKnots() int {
	return len(s.times)
}

// NumSegments returns the number of polynomial segments.
func (s *Spline) NumSegments() int {
	return len(s.coefficients)
}

// NumOutputs returns the number of output channels.
func (s *Spline) NumOutputs() int {
	r, _ := s.coefficients[0].Dims()
	return r
}

// NumCoefficients returns the number of coefficients of each segment polynomial.
func (s *Spline) NumCoefficients() int {
	_, c := s.coefficients[0].Dims()
	return c
}

// NumDerivatives returns the highest derivative order that is not identically zero.
func (s *Spline) NumDerivatives() int {
	return s.NumCoefficients() - 1
}

// StartTime returns the time of the first knot.
func (s *Spline) StartTime() float64 {
	return s.times[0]
}

// EndTime returns the time of the last knot.
func (s *Spline) EndTime() float64 {
	return s.times[len(s.times)-1]
}

// Duration returns the time between the first and last knot.
func (s *Spline) Duration() float64 {
	return s.EndTime() - s.StartTime()
}

// Times returns a copy of the knot times.
func (s *Spline) Times() []float64 {
	return append([]float64{}, s.times...)
}

// Coefficients returns a copy of the coefficient matrix of a segment.
func (s *Spline) Coefficients(segment int) *mat.Dense {
	return mat.DenseCopyOf(s.coefficients[segment])
}

// SegmentIndex returns the segment containing t. A time exactly on an interior knot belongs to the segment that
// ends there. Times before the first knot map to the first segment and times after the last knot to the last.
func (s *Spline) SegmentIndex(t float64) int {
	if t <= s.times[0] {
		return 0
	}
	last := s.NumSegments() - 1
	if t >= s.times[len(s.times)-1] {
		return last
	}
	idx := sort.SearchFloat64s(s.times, t) - 1
	if idx > last {
		return last
	}
	return idx
}

// Evaluate returns the derivative-th time derivative of every output at time t. Derivatives of order greater than
// NumDerivatives are zero.
func (s *Spline) Evaluate(t float64, derivative int) []float64 {
	out := make([]float64, s.NumOutputs())
	n := s.NumCoefficients()
	if derivative < 0 || derivative >= n {
		return out
	}
	segment := s.SegmentIndex(t)
	tau := t - s.times[segment]

	basis := make([]float64, n)
	pow := 1.
	for j := derivative; j < n; j++ {
		basis[j] = s.derivatives.At(derivative, j) * pow
		pow *= tau
	}
	mat.NewVecDense(len(out), out).MulVec(s.coefficients[segment], mat.NewVecDense(n, basis))
	return out
}
