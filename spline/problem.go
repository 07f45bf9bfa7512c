// Package spline fits and evaluates piecewise polynomial trajectories. Each segment is a power basis polynomial
// in the time elapsed since its starting knot, fitted by solving a square linear system of value, derivative and
// continuity constraints.
package spline

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/motioncore/utils"
)

// Problem accumulates the constraints of a spline fit. It is a single owner builder: Fit consumes the
// accumulated rows and resets the problem.
type Problem struct {
	times           []float64
	numCoefficients int
	numOutputs      int

	rows [][]float64
	rhs  [][]float64
}

// NewProblem returns an empty problem over the knot times with numCoefficients coefficients per segment and
// numOutputs output channels.
func NewProblem(times []float64, numCoefficients, numOutputs int) (*Problem, error) {
	if len(times) < 2 {
		return nil, errors.Errorf("a spline needs at least 2 knots, got %d", len(times))
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return nil, errors.Errorf("knot times must be strictly increasing, got %f after %f", times[i], times[i-1])
		}
	}
	if numCoefficients < 1 {
		return nil, errors.Errorf("number of coefficients must be positive, got %d", numCoefficients)
	}
	if numOutputs < 1 {
		return nil, errors.Errorf("number of outputs must be positive, got %d", numOutputs)
	}
	return &Problem{
		times:           append([]float64{}, times...),
		numCoefficients: numCoefficients,
		numOutputs:      numOutputs,
	}, nil
}

// NumKnots returns the number of knots.
func (p *Problem) NumKnots() int {
	return len(p.times)
}

// NumSegments returns the number of polynomial segments, one fewer than the number of knots.
func (p *Problem) NumSegments() int {
	return len(p.times) - 1
}

// NumOutputs returns the number of output channels.
func (p *Problem) NumOutputs() int {
	return p.numOutputs
}

// Duration returns the time between the first and last knot.
func (p *Problem) Duration() float64 {
	return p.times[len(p.times)-1] - p.times[0]
}

// Dimension is the number of unknowns per output channel, and so the number of rows a square system needs.
func (p *Problem) Dimension() int {
	return p.NumSegments() * p.numCoefficients
}

// NumConstraints returns the number of rows added so far.
func (p *Problem) NumConstraints() int {
	return len(p.rows)
}

func (p *Problem) segmentDuration(segment int) float64 {
	return p.times[segment+1] - p.times[segment]
}

func (p *Problem) addRow(row, rhs []float64) error {
	if len(p.rows) >= p.Dimension() {
		return errors.Wrapf(ErrOverConstrained, "system already has %d rows", p.Dimension())
	}
	p.rows = append(p.rows, row)
	p.rhs = append(p.rhs, rhs)
	return nil
}

// AddConstantConstraint pins the derivative-th time derivative of every output at the knot to value. The first
// knots are constrained at the start of the segment they begin; the last knot at the end of the final segment.
func (p *Problem) AddConstantConstraint(knot, derivative int, value []float64) error {
	if knot < 0 || knot >= p.NumKnots() {
		return newKnotOutOfRangeError(knot, 0, p.NumKnots()-1)
	}
	if derivative < 0 {
		return newNegativeDerivativeError(derivative)
	}
	if len(value) != p.numOutputs {
		return utils.NewIncorrectDimensionError(len(value), p.numOutputs)
	}

	segment, tau := knot, 0.
	if knot == p.NumSegments() {
		segment = knot - 1
		tau = p.segmentDuration(segment)
	}
	row := make([]float64, p.Dimension())
	copy(row[segment*p.numCoefficients:], CreateTimeVector(tau, derivative, p.numCoefficients))
	return p.addRow(row, append([]float64{}, value...))
}

// AddContinuityConstraint requires the derivative-th time derivative at the end of the segment before an interior
// knot to equal the same derivative at the start of the segment after it.
func (p *Problem) AddContinuityConstraint(knot, derivative int) error {
	if knot < 1 || knot >= p.NumSegments() {
		return newKnotOutOfRangeError(knot, 1, p.NumSegments()-1)
	}
	if derivative < 0 {
		return newNegativeDerivativeError(derivative)
	}

	n := p.numCoefficients
	row := make([]float64, p.Dimension())
	copy(row[(knot-1)*n:], CreateTimeVector(p.segmentDuration(knot-1), derivative, n))
	start := CreateTimeVector(0, derivative, n)
	for i, v := range start {
		row[knot*n+i] = -v
	}
	return p.addRow(row, make([]float64, p.numOutputs))
}

// Fit solves the constraint system for every output channel and returns the fitted spline. The system must be
// square: exactly Dimension rows must have been added. The problem is reset whether or not the fit succeeds.
func (p *Problem) Fit() (*Spline, error) {
	rows, rhs := p.rows, p.rhs
	p.rows, p.rhs = nil, nil

	dim := p.Dimension()
	if len(rows) != dim {
		return nil, errors.Wrapf(ErrUnderConstrained, "have %d constraint rows, need %d", len(rows), dim)
	}

	a := mat.NewDense(dim, dim, nil)
	b := mat.NewDense(dim, p.numOutputs, nil)
	for i := range rows {
		a.SetRow(i, rows[i])
		b.SetRow(i, rhs[i])
	}

	var qr mat.QR
	qr.Factorize(a)
	var x mat.Dense
	if err := qr.SolveTo(&x, false, b); err != nil {
		return nil, errors.Wrap(ErrSingularSystem, err.Error())
	}

	n := p.numCoefficients
	coefficients := make([]*mat.Dense, p.NumSegments())
	for segment := range coefficients {
		c := mat.NewDense(p.numOutputs, n, nil)
		c.Copy(x.Slice(segment*n, (segment+1)*n, 0, p.numOutputs).T())
		coefficients[segment] = c
	}
	return newSpline(p.times, coefficients), nil
}

// CreateTimeVector returns the row that, dotted with a segment's coefficients, gives the i-th time derivative at
// local time t of a polynomial with n coefficients: element j is j!/(j-i)! * t^(j-i), zero for j < i.
func CreateTimeVector(t float64, i, n int) []float64 {
	v := make([]float64, n)
	if i < 0 || i >= n {
		return v
	}
	pow := 1.
	for j := i; j < n; j++ {
		v[j] = utils.FallingFactorial(j, i) * pow
		pow *= t
	}
	return v
}

// CreateCoefficientMatrix returns the n x n matrix whose row d holds the factors j!/(j-d)! applied to coefficient j
// by the d-th derivative.
func CreateCoefficientMatrix(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for d := 0; d < n; d++ {
		for j := d; j < n; j++ {
			m.Set(d, j, utils.FallingFactorial(j, d))
		}
	}
	return m
}
