package rqm

import (
	"math"

	"github.com/pkg/errors"
)

// This file implements conversion between Rat and IEEE-754 binary
// floating-point (spec component E, float half): RatFromFloat64 builds an
// exact rational from a float64 via frexp; ratToFloatBits runs the
// bit-by-bit subtractive extraction, parameterised over exponent and
// mantissa width as plain integers so the same routine serves any
// IEEE-754 binary format, though only the float64 instantiation (11
// exponent bits, 52 mantissa bits) is exposed.

// RatFromFloat64 builds the exact rational value of f. It fails with
// ErrDivideByZero if f is NaN or infinite, reusing the divide-by-zero
// taxonomy for "no finite rational exists".
func RatFromFloat64(f float64) (*Rat, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.Wrapf(ErrDivideByZero, "converting %v to a rational", f)
	}
	if f == 0 {
		return canonicalize(NewInt(0), NewInt(1))
	}

	mantissa, exp := math.Frexp(f) // f == mantissa * 2^exp, mantissa in (-1,-0.5] U [0.5,1)
	scaled := math.Ldexp(mantissa, 53)
	m := int64(scaled)
	e := exp - 53

	var nom, denom *Int
	if e >= 0 {
		nom = NewInt(m).Lsh(uint(e))
		denom = NewInt(1)
	} else {
		nom = NewInt(m)
		denom = NewInt(1).Lsh(uint(-e))
	}
	return canonicalize(nom, denom)
}

// compareWithPow2 compares v against 2^exponent without materialising the
// power of two as a rational: nom<<negexp vs denom<<posexp.
func compareWithPow2(v *Rat, exponent int) int {
	posexp := max(exponent, 0)
	negexp := max(-exponent, 0)
	switch {
	case posexp > 0:
		return v.nom.Cmp(v.denom.Lsh(uint(posexp)))
	case negexp > 0:
		return v.nom.Lsh(uint(negexp)).Cmp(v.denom)
	default:
		return v.nom.Cmp(v.denom)
	}
}

// subtractPow2 returns v-2^exponent as a (deliberately non-canonical) Rat:
// canonicalisation is skipped here since every intermediate produced while
// scanning for mantissa bits is discarded after one more comparison.
func subtractPow2(v *Rat, exponent int) *Rat {
	posexp := max(exponent, 0)
	negexp := max(-exponent, 0)
	switch {
	case posexp > 0:
		return &Rat{nom: v.nom.Sub(v.denom.Lsh(uint(posexp))), denom: v.denom}
	case negexp > 0:
		return &Rat{nom: v.nom.Lsh(uint(negexp)).Sub(v.denom), denom: v.denom.Lsh(uint(negexp))}
	default:
		return &Rat{nom: v.nom.Sub(v.denom), denom: v.denom}
	}
}

func composeFloatBits(expBits, mantissaBits uint, sign, exponent, mantissa uint64) uint64 {
	signPos := expBits + mantissaBits
	exponentPos := mantissaBits
	return ((sign & 1) << signPos) |
		((exponent & ((1 << expBits) - 1)) << exponentPos) |
		(mantissa & ((1 << mantissaBits) - 1))
}

// ratToFloatBits runs the correctly-rounded (round-half-to-even)
// bit-by-bit subtractive extraction described in the spec, generic over
// the IEEE-754 format's exponent and mantissa widths.
func ratToFloatBits(v *Rat, expBits, mantissaBits uint) uint64 {
	maxExponent := int(1<<expBits) - 1
	expBias := int(1<<(expBits-1)) - 1

	if v.IsZero() {
		return composeFloatBits(expBits, mantissaBits, 0, 0, 0)
	}
	var sign uint64
	if v.Sign() < 0 {
		sign = 1
	}
	cur := &Rat{nom: v.nom.Abs(), denom: v.denom}

	exponent := cur.nom.BitLen() - cur.denom.BitLen() + 2
	for compareWithPow2(cur, exponent) < 0 {
		exponent--
	}

	if exponent+expBias >= maxExponent {
		return composeFloatBits(expBits, mantissaBits, sign, uint64(maxExponent), 0)
	}
	scale := exponent // the exponent that mantissa bit positions are measured from
	if exponent+expBias <= 0 {
		// Denormal: the biased exponent field is zero, there is no implicit
		// leading bit, and mantissa bits keep the smallest normal exponent's scale.
		exponent, scale = -expBias, 1-expBias
	} else {
		cur = subtractPow2(cur, exponent)
	}

	var mantissa uint64
	for pos := int(mantissaBits) - 1; pos >= 0; pos-- {
		e := scale + pos - int(mantissaBits)
		if compareWithPow2(cur, e) >= 0 {
			mantissa |= uint64(1) << uint(pos)
			cur = subtractPow2(cur, e)
		}
	}

	// Round half to even.
	switch half := compareWithPow2(cur, scale-int(mantissaBits)-1); {
	case half > 0:
		mantissa++
	case half == 0 && mantissa&1 == 1:
		mantissa++
	}
	beyondMantissaBit := uint64(1) << mantissaBits
	if mantissa&beyondMantissaBit != 0 {
		exponent++
		mantissa &= beyondMantissaBit - 1
	}
	if exponent+expBias >= maxExponent {
		return composeFloatBits(expBits, mantissaBits, sign, uint64(maxExponent), 0)
	}
	return composeFloatBits(expBits, mantissaBits, sign, uint64(exponent+expBias), mantissa)
}

// Float64 converts q to the nearest float64, rounding half to even, and
// produces a correctly signed infinity on overflow.
func (q *Rat) Float64() float64 {
	return math.Float64frombits(ratToFloatBits(q, 11, 52))
}
