package rqm

import (
	"math"

	"github.com/pkg/errors"
	"github.com/runehol/rqm/internal/trace"
)

// inlineLimbs is the number of limbs an Int can hold without a heap
// allocation, enough for any value whose absolute value fits in a uint64.
// Whether a given Int uses it depends on the capacity reserved for it (see
// reserve), not on its final magnitude.
const inlineLimbs = 2

// Int is an arbitrary-precision signed integer (Z), held as sign-magnitude:
// a sign in {-1, 0, +1} and a little-endian slice of limbs. An Int is stored
// inline in small when the capacity reserved for it is at most inlineLimbs
// (every NewInt value, and every result whose digit estimate is that small),
// and on heap otherwise. A result whose digit estimate exceeds inlineLimbs
// stays on heap even when its final magnitude fits in 64 bits; for example
// the sum of two 2-limb values is always heap-allocated. Which storage is live is
// tracked by the explicit inline flag rather than inferred from length, so
// that shrinking a value back below the inline threshold never has to
// silently reinterpret stale heap contents.
//
// Every exported operation returns a freshly constructed Int rather than
// mutating a receiver in place; inputs are therefore always read-only from
// the perspective of arithmetic, side-stepping the aliasing rules the
// underlying magnitude routines must otherwise observe.
type Int struct {
	sign   int8
	length int32
	inline bool
	small  [inlineLimbs]limb
	heap   []limb
}

// NewInt allocates a new Int set to v.
func NewInt(v int64) *Int {
	z := &Int{}
	var sign int8
	var mag uint64
	switch {
	case v > 0:
		sign = 1
		mag = uint64(v)
	case v < 0:
		sign = -1
		mag = uint64(0) - uint64(v) // two's-complement negation: handles math.MinInt64 correctly
	}
	buf := z.reserve(inlineLimbs)
	buf[0] = limb(mag)
	buf[1] = limb(mag >> limbBits)
	n := inlineLimbs
	for n > 0 && buf[n-1] == 0 {
		n--
	}
	z.length = int32(n)
	if n == 0 {
		sign = 0
	}
	z.sign = sign
	return z
}

// ParseInt parses a decimal string (optional leading '-', then one or more
// decimal digits) into an Int.
func ParseInt(s string) (*Int, error) {
	body := s
	sign := int8(1)
	if len(body) > 0 && body[0] == '-' {
		sign = -1
		body = body[1:]
	}
	if body == "" {
		return nil, errors.Wrapf(ErrInvalidInput, "parsing %q as an integer", s)
	}
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return nil, errors.Wrapf(ErrInvalidInput, "parsing %q as an integer", s)
		}
	}

	estimate := fromCharsDigitEstimate(len(body))
	z, dst := newIntWithCapacity(estimate)
	scratch := make([]limb, estimate)
	acc := parseMagnitude(dst, scratch, body)
	z.commitView(withSignUnlessZero(sign, acc))
	trace.Event("parsed integer").Str("input", s).Int("limbs", int(z.length)).Send()
	return z, nil
}

// Clone returns an independent copy of x.
func (x *Int) Clone() *Int {
	c := &Int{sign: x.sign, length: x.length, inline: x.inline}
	if x.inline {
		c.small = x.small
	} else {
		c.heap = append([]limb(nil), x.heap[:x.length]...)
	}
	return c
}

func (x *Int) numLimbs() int {
	if x == nil {
		return 0
	}
	return int(x.length)
}

// limbs returns x's significant limbs (read-only).
func (x *Int) limbs() []limb {
	if x == nil {
		return nil
	}
	if x.inline {
		return x.small[:x.length]
	}
	return x.heap[:x.length]
}

func (x *Int) toView() view {
	if x == nil {
		return view{}
	}
	return view{sign: x.sign, limbs: x.limbs()}
}

// reserve selects z's storage for a result of up to n limbs and returns a
// buffer of exactly n limbs backed by it (inline when n <= inlineLimbs, a
// freshly allocated heap slice otherwise). Inline limbs are not cleared. Magnitude routines write their result directly into this
// buffer; commitView then only has to record the resulting sign and length.
func (z *Int) reserve(n int) []limb {
	if n <= inlineLimbs {
		z.inline = true
		z.heap = nil
		return z.small[:n]
	}
	z.inline = false
	z.heap = make([]limb, n)
	trace.Event("escalated to heap storage").Int("limbs", n).Send()
	return z.heap
}

// commitView records the (sign, length) of a view that was just written
// into z's own reserved storage.
func (z *Int) commitView(v view) {
	z.sign = v.sign
	z.length = int32(len(v.limbs))
}

func newIntWithCapacity(n int) (*Int, []limb) {
	z := &Int{}
	return z, z.reserve(n)
}

func newIntFromView(v view) *Int {
	z, dst := newIntWithCapacity(len(v.limbs))
	z.commitView(copyInto(dst, v))
	return z
}

// Sign returns -1, 0, or +1 according to whether x is negative, zero, or
// positive.
func (x *Int) Sign() int {
	return int(x.sign)
}

// IsZero reports whether x is the unique zero value.
func (x *Int) IsZero() bool {
	return x.sign == 0
}

// NumLimbs returns the number of significant limbs in x's magnitude.
func (x *Int) NumLimbs() int {
	return x.numLimbs()
}

// BitLen returns the length of x's absolute value in bits. The bit length
// of zero is zero.
func (x *Int) BitLen() int {
	n := x.numLimbs()
	if n == 0 {
		return 0
	}
	top := x.limbs()[n-1]
	return (n-1)*limbBits + (limbBits - int(leadingZeros(top)))
}

// TrailingZeroBits returns the number of trailing zero bits in x's
// magnitude. Defined only for strictly positive x.
func (x *Int) TrailingZeroBits() uint {
	return trailingZeroCount(x.toView())
}

// Int64 converts x to an int64, failing with ErrOverflow if x is out of
// range.
func (x *Int) Int64() (int64, error) {
	if x.numLimbs() > inlineLimbs {
		return 0, errors.Wrapf(ErrOverflow, "%s does not fit in an int64", x.String())
	}
	var mag uint64
	for i, l := range x.limbs() {
		mag |= uint64(l) << (limbBits * i)
	}
	switch {
	case x.sign >= 0:
		if mag > math.MaxInt64 {
			return 0, errors.Wrapf(ErrOverflow, "%s does not fit in an int64", x.String())
		}
		return int64(mag), nil
	default:
		if mag > uint64(math.MaxInt64)+1 {
			return 0, errors.Wrapf(ErrOverflow, "%s does not fit in an int64", x.String())
		}
		if mag == uint64(math.MaxInt64)+1 {
			return math.MinInt64, nil
		}
		return -int64(mag), nil
	}
}

// String returns x formatted as a decimal string, per the spec's decimal
// grammar: an optional leading '-' followed by one or more digits.
func (x *Int) String() string {
	return decimalString(x.toView())
}

// Add returns x+y.
func (x *Int) Add(y *Int) *Int {
	z, dst := newIntWithCapacity(addDigitEstimate(x.numLimbs(), y.numLimbs()))
	z.commitView(add(dst, x.toView(), y.toView()))
	return z
}

// Sub returns x-y.
func (x *Int) Sub(y *Int) *Int {
	z, dst := newIntWithCapacity(addDigitEstimate(x.numLimbs(), y.numLimbs()))
	z.commitView(sub(dst, x.toView(), y.toView()))
	return z
}

// Mul returns x*y.
func (x *Int) Mul(y *Int) *Int {
	z, dst := newIntWithCapacity(multiplyDigitEstimate(x.numLimbs(), y.numLimbs()))
	z.commitView(mul(dst, x.toView(), y.toView()))
	return z
}

// QuoRem returns the quotient x/y and remainder x%y, both truncated toward
// zero (matching Go's native integer division). It fails with
// ErrDivideByZero if y is zero.
func (x *Int) QuoRem(y *Int) (*Int, *Int, error) {
	if y.IsZero() {
		return nil, nil, errors.Wrapf(ErrDivideByZero, "dividing %s by zero", x.String())
	}
	qCap := quotientDigitEstimate(x.numLimbs(), y.numLimbs())
	q, qDst := newIntWithCapacity(qCap)
	trace.Event("dividing").Int("dividend_limbs", x.numLimbs()).Int("divisor_limbs", y.numLimbs()).Send()
	qv, rv, err := divmod(qDst, x.toView(), y.toView())
	if err != nil {
		return nil, nil, err
	}
	q.commitView(qv)
	r := newIntFromView(rv)
	return q, r, nil
}

// Quo returns the truncated quotient x/y.
func (x *Int) Quo(y *Int) (*Int, error) {
	q, _, err := x.QuoRem(y)
	return q, err
}

// Rem returns the truncated remainder x%y: sign(Rem) is in {0, sign(x)}.
func (x *Int) Rem(y *Int) (*Int, error) {
	_, r, err := x.QuoRem(y)
	return r, err
}

// Lsh returns x<<n.
func (x *Int) Lsh(n uint) *Int {
	z, dst := newIntWithCapacity(shiftLeftDigitEstimate(x.numLimbs(), n))
	z.commitView(shiftLeft(dst, x.toView(), n))
	return z
}

// Rsh returns x>>n, an arithmetic (floor) shift: x>>n == floor(x / 2^n)
// holds for negative x too.
func (x *Int) Rsh(n uint) *Int {
	// A rounded-up negative result is returned in shiftRight's own buffer,
	// not in dst, so the result is copied instead of committed in place.
	r := shiftRight(make([]limb, shiftRightDigitEstimate(x.numLimbs(), n)), x.toView(), n)
	return newIntFromView(r)
}

// Neg returns -x.
func (x *Int) Neg() *Int {
	return newIntFromView(negateView(x.toView()))
}

// Abs returns |x|.
func (x *Int) Abs() *Int {
	return newIntFromView(absView(x.toView()))
}

// Cmp returns -1, 0, or +1 according to whether x is less than, equal to,
// or greater than y.
func (x *Int) Cmp(y *Int) int {
	return int(compare(x.toView(), y.toView()))
}

func (x *Int) Equal(y *Int) bool        { return x.Cmp(y) == 0 }
func (x *Int) Less(y *Int) bool         { return x.Cmp(y) < 0 }
func (x *Int) LessOrEqual(y *Int) bool  { return x.Cmp(y) <= 0 }
func (x *Int) Greater(y *Int) bool      { return x.Cmp(y) > 0 }
func (x *Int) GreaterOrEqual(y *Int) bool { return x.Cmp(y) >= 0 }

// GCD returns the greatest common divisor of |a| and |b|. gcd(a, 0) == |a|,
// gcd(0, b) == |b|, gcd(0, 0) == 0.
func GCD(a, b *Int) *Int {
	capacity := gcdDigitEstimate(a.numLimbs(), b.numLimbs())
	switch {
	case a.IsZero():
		capacity = b.numLimbs()
	case b.IsZero():
		capacity = a.numLimbs()
	}
	z, dst := newIntWithCapacity(capacity)
	trace.Event("computing gcd").Int("a_limbs", a.numLimbs()).Int("b_limbs", b.numLimbs()).Send()
	z.commitView(binaryGCD(dst, a.toView(), b.toView()))
	return z
}
