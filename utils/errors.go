package utils

import (
	"github.com/pkg/errors"
)

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError(expected interface{}, actual interface{}) error {
	return errors.Errorf("expected %T but got %T", expected, actual)
}

// NewUnimplementedInterfaceError is used when there is a failed interface check.
func NewUnimplementedInterfaceError(expected string, actual interface{}) error {
	return errors.Errorf("expected implementation of %s but got %T", expected, actual)
}

// NewIncorrectDimensionError is returned when a vector does not have the length a space or constraint expects.
func NewIncorrectDimensionError(actual, expected int) error {
	return errors.Errorf("number of values given (%d) does not match expected dimension (%d)", actual, expected)
}
