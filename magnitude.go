package rqm

// This file implements the sign-oblivious magnitude routines that back
// every Int operation: comparison, add/subtract, schoolbook multiply,
// single-limb and multi-limb (Knuth Algorithm D) divmod, shifts, trailing
// zero count, and binary GCD. Every routine here either takes a
// caller-provided destination buffer sized by the *DigitEstimate functions
// below, or returns a brand-new view backed by a freshly allocated slice
// when no caller buffer makes sense (the Knuth-D scratch, mainly).
//
// None of these routines look at the surrounding Int storage; they work
// entirely in terms of view. Sign combination for the signed operators
// lives here too (general add/subtract), since it is the magnitude layer
// that knows how to compare and subtract magnitudes when signs disagree.

func addDigitEstimate(aLen, bLen int) int {
	return max(aLen, bLen) + 1
}

func multiplyDigitEstimate(aLen, bLen int) int {
	return aLen + bLen
}

func multiplySingleDigitEstimate(aLen int) int {
	return aLen + 1
}

func quotientDigitEstimate(dividendLen, divisorLen int) int {
	return max(0, dividendLen-divisorLen+1)
}

func shiftLeftDigitEstimate(aLen int, n uint) int {
	return aLen + int((n+31)/32)
}

func shiftRightDigitEstimate(aLen int, n uint) int {
	return max(1, aLen-int(n/32))
}

func gcdDigitEstimate(aLen, bLen int) int {
	return min(aLen, bLen)
}

// absAdd adds a and b as if both were non-negative, ignoring sign, writing
// the result into dst (which must have capacity addDigitEstimate(len(a),
// len(b))).
func absAdd(dst []limb, a, b view) view {
	n := 0
	var carry doubleLimb
	ad, bd := a.limbs, b.limbs
	for len(ad) > 0 && len(bd) > 0 {
		v := doubleLimb(ad[0]) + doubleLimb(bd[0]) + carry
		dst[n] = limb(v)
		carry = v >> limbBits
		n++
		ad, bd = ad[1:], bd[1:]
	}
	for len(ad) > 0 {
		v := doubleLimb(ad[0]) + carry
		dst[n] = limb(v)
		carry = v >> limbBits
		n++
		ad = ad[1:]
	}
	for len(bd) > 0 {
		v := doubleLimb(bd[0]) + carry
		dst[n] = limb(v)
		carry = v >> limbBits
		n++
		bd = bd[1:]
	}
	if carry != 0 {
		dst[n] = limb(carry)
		n++
	}
	return view{sign: 1, limbs: dst[:n]}
}

// absAddSmall adds a single limb d to the magnitude of a, writing into dst
// (capacity len(a.limbs)+1). Used to round up a magnitude after an
// arithmetic right shift discards set bits.
func absAddSmall(dst []limb, a view, d limb) view {
	n := 0
	carry := doubleLimb(d)
	for _, ad := range a.limbs {
		v := doubleLimb(ad) + carry
		dst[n] = limb(v)
		carry = v >> limbBits
		n++
	}
	if carry != 0 {
		dst[n] = limb(carry)
		n++
	}
	return view{sign: 1, limbs: dst[:n]}
}

// absSubLargerMinusSmaller subtracts b from a assuming |a| >= |b|, ignoring
// sign. dst may alias a's storage (the one aliasing exception besides
// shift-right), as long as dst has capacity len(a.limbs).
func absSubLargerMinusSmaller(dst []limb, a, b view) view {
	n := 0
	var borrow signedDoubleLimb
	ad, bd := a.limbs, b.limbs
	if len(ad) < len(bd) {
		panic("rqm: absSubLargerMinusSmaller precondition violated: |a| < |b|")
	}
	for len(bd) > 0 {
		v := signedDoubleLimb(ad[0]) - signedDoubleLimb(bd[0]) + borrow
		dst[n] = limb(v)
		borrow = v >> limbBits
		n++
		ad, bd = ad[1:], bd[1:]
	}
	for len(ad) > 0 {
		v := signedDoubleLimb(ad[0]) + borrow
		dst[n] = limb(v)
		borrow = v >> limbBits
		n++
		ad = ad[1:]
	}
	if borrow != 0 {
		panic("rqm: absSubLargerMinusSmaller precondition violated: final borrow nonzero")
	}
	return normalize(view{sign: 1, limbs: dst[:n]})
}

// add implements general (signed) addition: zero shortcuts, equal-sign
// absolute add, opposite-sign compare-then-subtract.
func add(dst []limb, a, b view) view {
	if a.sign == 0 {
		return copyInto(dst, b)
	}
	if b.sign == 0 {
		return copyInto(dst, a)
	}
	if a.sign == b.sign {
		return withSignUnlessZero(a.sign, absAdd(dst, a, b))
	}
	switch absCompare(a, b) {
	case 0:
		return view{}
	case -1:
		return withSignUnlessZero(b.sign, absSubLargerMinusSmaller(dst, b, a))
	default:
		return withSignUnlessZero(a.sign, absSubLargerMinusSmaller(dst, a, b))
	}
}

// sub implements general subtraction as addition of the negated operand.
func sub(dst []limb, a, b view) view {
	return add(dst, a, negateView(b))
}

func zeroFill(dst []limb, n int) []limb {
	dst = dst[:n]
	for i := range dst {
		dst[i] = 0
	}
	return dst
}

// absMul multiplies a and b as if both were non-negative, writing into dst
// (capacity multiplyDigitEstimate(len(a), len(b))).
func absMul(dst []limb, a, b view) view {
	dst = zeroFill(dst, multiplyDigitEstimate(len(a.limbs), len(b.limbs)))
	for j, bj := range b.limbs {
		bv := doubleLimb(bj)
		var carry doubleLimb
		for i, ai := range a.limbs {
			v := doubleLimb(ai)*bv + carry + doubleLimb(dst[i+j])
			dst[i+j] = limb(v)
			carry = v >> limbBits
		}
		k := j + len(a.limbs)
		for carry != 0 {
			v := carry + doubleLimb(dst[k])
			dst[k] = limb(v)
			carry = v >> limbBits
			k++
		}
	}
	return normalize(view{sign: 1, limbs: dst})
}

func mul(dst []limb, a, b view) view {
	if a.sign == 0 || b.sign == 0 {
		return view{}
	}
	return withSignUnlessZero(a.sign*b.sign, absMul(dst, a, b))
}

// mulSingle multiplies a by the single limb d, writing into dst (capacity
// multiplySingleDigitEstimate(len(a.limbs))).
func mulSingle(dst []limb, a view, d limb) view {
	if a.sign == 0 || d == 0 {
		return view{}
	}
	n := 0
	dv := doubleLimb(d)
	var carry doubleLimb
	for _, av := range a.limbs {
		v := doubleLimb(av)*dv + carry
		dst[n] = limb(v)
		carry = v >> limbBits
		n++
	}
	if carry != 0 {
		dst[n] = limb(carry)
		n++
	}
	return view{sign: a.sign, limbs: dst[:n]}
}

// absDivmodSingle performs long division of the magnitude of dividend by
// the single limb divisor, most-significant limb first. quotientDst must
// have capacity len(dividend.limbs).
func absDivmodSingle(quotientDst []limb, dividend view, divisor limb) (view, limb) {
	quotientDst = zeroFill(quotientDst, len(dividend.limbs))
	var remainder doubleLimb
	d := doubleLimb(divisor)
	for i := len(dividend.limbs) - 1; i >= 0; i-- {
		remainder = (remainder << limbBits) | doubleLimb(dividend.limbs[i])
		quotientDst[i] = limb(remainder / d)
		remainder %= d
	}
	return normalize(view{sign: 1, limbs: quotientDst}), limb(remainder)
}

// divmodSingle divides dividend by the single limb divisor, truncating
// toward zero. The returned remainder is a plain int64 carrying the
// dividend's sign (truncated division, matching native int64 semantics).
func divmodSingle(quotientDst []limb, dividend view, divisor limb) (view, int64, error) {
	if divisor == 0 {
		return view{}, 0, ErrDivideByZero
	}
	if dividend.sign == 0 {
		return view{}, 0, nil
	}
	q, r := absDivmodSingle(quotientDst, dividend, divisor)
	q = withSignUnlessZero(dividend.sign, q)
	return q, int64(r) * int64(dividend.sign), nil
}

// divmod performs full (possibly multi-limb-divisor) divmod via Knuth
// Algorithm D (The Art of Computer Programming, Vol 2, §4.3.1). quotientDst
// must have capacity quotientDigitEstimate(len(dividend), len(divisor)).
func divmod(quotientDst []limb, dividend, divisor view) (view, view, error) {
	if divisor.sign == 0 {
		return view{}, view{}, ErrDivideByZero
	}
	if len(divisor.limbs) == 1 {
		q, r, err := divmodSingle(quotientDst, dividend, divisor.limbs[0])
		if err != nil {
			return view{}, view{}, err
		}
		var rv view
		if r != 0 {
			sign := int8(1)
			if r < 0 {
				sign = -1
				r = -r
			}
			rv = view{sign: sign, limbs: []limb{limb(r)}}
		}
		return q, rv, nil
	}
	if dividend.sign == 0 || len(divisor.limbs) > len(dividend.limbs) {
		return view{}, dividend, nil
	}

	shift := leadingZeros(divisor.limbs[len(divisor.limbs)-1])
	normDividend := make([]limb, len(dividend.limbs)+1)
	normDivisor := make([]limb, len(divisor.limbs))
	nd := shiftLeft(normDividend, absView(dividend), shift)
	nv := shiftLeft(normDivisor, absView(divisor), shift)
	if len(nd.limbs) == len(dividend.limbs) {
		nd.limbs = nd.limbs[:len(nd.limbs)+1]
		nd.limbs[len(nd.limbs)-1] = 0
	}

	q, r := divmodNormalized(quotientDst, nd, nv)
	q = withSignUnlessZero(dividend.sign*divisor.sign, q)
	remainderDst := make([]limb, len(r.limbs))
	r = shiftRight(remainderDst, view{sign: 1, limbs: r.limbs}, shift)
	r = withSignUnlessZero(dividend.sign, r)
	return q, r, nil
}

// divmodNormalized implements Algorithm D proper. Preconditions: divisor's
// top limb has its high bit set (normalized), dividend.limbs has exactly
// one more limb than is strictly needed so the j+n indexing below never
// runs past the end.
func divmodNormalized(quotientDst []limb, dividend, divisor view) (view, view) {
	n := len(divisor.limbs)
	m := len(dividend.limbs) - n - 1
	if m < 0 {
		panic("rqm: divmodNormalized precondition violated: dividend too short")
	}
	msbDivisor := doubleLimb(divisor.limbs[n-1])
	var nextDivisor doubleLimb
	if n >= 2 {
		nextDivisor = doubleLimb(divisor.limbs[n-2])
	}
	if msbDivisor&(1<<(limbBits-1)) == 0 {
		panic("rqm: divmodNormalized precondition violated: divisor not normalized")
	}

	const base doubleLimb = 1 << limbBits
	qv := make([]limb, multiplySingleDigitEstimate(n))
	dividendLimbs := append([]limb(nil), dividend.limbs...)

	quotientDst = quotientDst[:m+1]
	for j := m; j >= 0; j-- {
		top := (doubleLimb(dividendLimbs[j+n]) << limbBits) | doubleLimb(dividendLimbs[j+n-1])
		qHat := top / msbDivisor
		rHat := top % msbDivisor

		var ujn2 doubleLimb
		if j+n >= 2 {
			ujn2 = doubleLimb(dividendLimbs[j+n-2])
		}
		for qHat == base || qHat*nextDivisor > base*rHat+ujn2 {
			qHat--
			rHat += msbDivisor
			if rHat >= base {
				break
			}
		}

		window := view{sign: 1, limbs: dividendLimbs[j : j+n+1]}
		qvView := mulSingle(qv, divisor, limb(qHat))
		for absCompare(normalize(window), qvView) < 0 {
			qHat--
			rHat += msbDivisor
			qvView = mulSingle(qv, divisor, limb(qHat))
		}

		quotientDst[j] = limb(qHat)
		// absSubLargerMinusSmaller writes its result in place: dst here is the
		// same backing array as window, so dividendLimbs already holds the
		// new remainder digits once this call returns.
		absSubLargerMinusSmaller(dividendLimbs[j:j+n+1], window, qvView)
	}

	quotient := normalize(view{sign: 1, limbs: quotientDst})
	remainder := normalize(view{sign: 1, limbs: dividendLimbs})
	return quotient, remainder
}

// shiftLeft shifts a left by n bits, writing into dst (capacity
// shiftLeftDigitEstimate(len(a.limbs), n)). Sign is unchanged.
func shiftLeft(dst []limb, a view, n uint) view {
	if a.sign == 0 {
		return view{}
	}
	wholeLimbs := int(n / limbBits)
	bitShift := n % limbBits

	idx := 0
	for i := 0; i < wholeLimbs; i++ {
		dst[idx] = 0
		idx++
	}
	if bitShift == 0 {
		idx += copy(dst[idx:], a.limbs)
	} else {
		var extra limb
		downShift := limbBits - bitShift
		for _, av := range a.limbs {
			dst[idx] = extra | (av << bitShift)
			idx++
			extra = av >> downShift
		}
		if extra != 0 {
			dst[idx] = extra
			idx++
		}
	}
	return view{sign: a.sign, limbs: dst[:idx]}
}

// shiftRight performs an arithmetic (floor) right shift: (a >> n) ==
// floor(a / 2^n), which for a sign-magnitude negative value means rounding
// the magnitude up by one whenever a discarded bit was set. dst may alias
// a's storage (the shift-right aliasing exception).
func shiftRight(dst []limb, a view, n uint) view {
	if a.sign == 0 {
		return view{}
	}
	wholeLimbs := int(n / limbBits)
	bitShift := n % limbBits

	var anyDiscarded bool
	for i := 0; i < wholeLimbs && i < len(a.limbs); i++ {
		if a.limbs[i] != 0 {
			anyDiscarded = true
			break
		}
	}

	resultLen := max(0, len(a.limbs)-wholeLimbs)
	// Walk upward so that an in-place shift reads every source limb before
	// it is overwritten.
	if bitShift == 0 {
		for i := 0; i < resultLen; i++ {
			dst[i] = a.limbs[i+wholeLimbs]
		}
	} else {
		upShift := limbBits - bitShift
		if resultLen > 0 && a.limbs[wholeLimbs]<<upShift != 0 {
			anyDiscarded = true
		}
		for i := 0; i < resultLen; i++ {
			dv := a.limbs[i+wholeLimbs] >> bitShift
			if i+wholeLimbs+1 < len(a.limbs) {
				dv |= a.limbs[i+wholeLimbs+1] << upShift
			}
			dst[i] = dv
		}
	}

	result := view{sign: 1, limbs: dst[:resultLen]}
	if a.sign < 0 && anyDiscarded {
		roundBuf := make([]limb, resultLen+1)
		result = absAddSmall(roundBuf, result, 1)
	}
	return withSignUnlessZero(a.sign, normalize(result))
}

// trailingZeroCount returns the number of trailing zero bits. Defined only
// for strictly positive v.
func trailingZeroCount(v view) uint {
	if v.sign != 1 {
		panic("rqm: trailingZeroCount is defined only for strictly positive values")
	}
	var result uint
	for _, d := range v.limbs {
		if d != 0 {
			return result + trailingZerosLimb(d)
		}
		result += limbBits
	}
	panic("rqm: trailingZeroCount: positive view with no nonzero limb")
}

// binaryGCD computes gcd(|a|, |b|) via Stein's algorithm: strip common
// powers of two, then repeatedly subtract-and-strip until equal.
func binaryGCD(dst []limb, a, b view) view {
	a, b = absView(a), absView(b)
	if a.sign == 0 {
		return copyInto(dst, b)
	}
	if b.sign == 0 {
		return copyInto(dst, a)
	}

	aPow2 := trailingZeroCount(a)
	bPow2 := trailingZeroCount(b)
	common := min(aPow2, bPow2)

	aa := shiftRight(make([]limb, len(a.limbs)), a, aPow2)
	bb := shiftRight(make([]limb, len(b.limbs)), b, bPow2)

	for absCompare(aa, bb) != 0 {
		if absCompare(aa, bb) < 0 {
			aa, bb = bb, aa
		}
		aa = absSubLargerMinusSmaller(aa.limbs[:len(aa.limbs)], aa, bb)
		z := trailingZeroCount(aa)
		aa = shiftRight(aa.limbs, aa, z)
	}

	return shiftLeft(dst, aa, common)
}
