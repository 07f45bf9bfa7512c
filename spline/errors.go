package spline

import "github.com/pkg/errors"

var (
	// ErrUnderConstrained is returned by Fit when fewer constraint rows than unknowns were added.
	ErrUnderConstrained = errors.New("spline problem is under-constrained")

	// ErrOverConstrained is returned when a constraint would add more rows than there are unknowns.
	ErrOverConstrained = errors.New("spline problem is over-constrained")

	// ErrSingularSystem is returned by Fit when the constraint rows are not linearly independent.
	ErrSingularSystem = errors.New("spline constraint system is singular")
)

func newKnotOutOfRangeError(knot, lo, hi int) error {
	return errors.Errorf("knot %d is out of range [%d, %d]", knot, lo, hi)
}

func newNegativeDerivativeError(derivative int) error {
	return errors.Errorf("derivative order must be non-negative, got %d", derivative)
}
