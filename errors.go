package rqm

import "github.com/pkg/errors"

// ErrInvalidInput is returned when a decimal (or rational) string cannot be
// parsed: an empty string, a lone sign, or a non-digit in the tail.
var ErrInvalidInput = errors.New("rqm: invalid input")

// ErrDivideByZero is returned by integer division/remainder with a zero
// divisor, by a rational with a zero denominator, and by a float conversion
// given NaN or an infinity.
var ErrDivideByZero = errors.New("rqm: divide by zero")

// ErrOverflow is returned when converting a Z value back to a fixed-width
// int64 and the value does not fit.
var ErrOverflow = errors.New("rqm: overflow")
