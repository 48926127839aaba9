package rqm

import "testing"

func TestAbsAddCarriesIntoNewLimb(t *testing.T) {
	dst := make([]limb, addDigitEstimate(1, 1))
	got := absAdd(dst, v(1, 0xFFFFFFFF), v(1, 1))
	if len(got.limbs) != 2 || got.limbs[0] != 0 || got.limbs[1] != 1 {
		t.Fatalf("absAdd overflow: got %+v, want [0 1]", got.limbs)
	}
}

func TestAbsSubLargerMinusSmallerBorrowsAcrossLimbs(t *testing.T) {
	dst := make([]limb, 2)
	// (1<<32) - 1 = 0xFFFFFFFF
	got := absSubLargerMinusSmaller(dst, v(1, 0, 1), v(1, 1))
	if len(got.limbs) != 1 || got.limbs[0] != 0xFFFFFFFF {
		t.Fatalf("absSubLargerMinusSmaller: got %+v, want [0xFFFFFFFF]", got.limbs)
	}
}

func TestAbsSubPrecondtionPanicsOnSmallerMinuend(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on |a| < |b|")
		}
	}()
	absSubLargerMinusSmaller(make([]limb, 1), v(1, 1), v(1, 1, 1))
}

func TestAddGeneral(t *testing.T) {
	cases := []struct {
		a, b       view
		wantSign   int8
		wantLimbs  []limb
	}{
		{v(0), v(1, 5), 1, []limb{5}},
		{v(1, 5), v(0), 1, []limb{5}},
		{v(1, 5), v(-1, 5), 0, nil},
		{v(1, 5), v(-1, 3), 1, []limb{2}},
		{v(-1, 5), v(1, 3), -1, []limb{2}},
		{v(1, 3), v(1, 5), 1, []limb{8}},
	}
	for _, c := range cases {
		dst := make([]limb, addDigitEstimate(len(c.a.limbs), len(c.b.limbs)))
		got := add(dst, c.a, c.b)
		if got.sign != c.wantSign || !limbsEqual(got.limbs, c.wantLimbs) {
			t.Errorf("add(%+v, %+v) = %+v, want sign %d limbs %v", c.a, c.b, got, c.wantSign, c.wantLimbs)
		}
	}
}

func limbsEqual(a, b []limb) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAbsMulSchoolbook(t *testing.T) {
	// 0xFFFFFFFF * 0xFFFFFFFF = 0xFFFFFFFE00000001
	dst := make([]limb, multiplyDigitEstimate(1, 1))
	got := absMul(dst, v(1, 0xFFFFFFFF), v(1, 0xFFFFFFFF))
	if !limbsEqual(got.limbs, []limb{1, 0xFFFFFFFE}) {
		t.Fatalf("absMul: got %v", got.limbs)
	}
}

func TestMulZeroPropagates(t *testing.T) {
	dst := make([]limb, multiplyDigitEstimate(1, 1))
	got := mul(dst, v(0), v(1, 5))
	if got.sign != 0 || len(got.limbs) != 0 {
		t.Fatalf("mul with zero operand: got %+v", got)
	}
}

func TestAbsDivmodSingle(t *testing.T) {
	dst := make([]limb, 1)
	q, r := absDivmodSingle(dst, v(1, 100), 7)
	if !limbsEqual(q.limbs, []limb{14}) || r != 2 {
		t.Fatalf("absDivmodSingle(100,7) = (%v, %d), want (14, 2)", q.limbs, r)
	}
}

func TestDivmodKnuthMultiLimbDivisor(t *testing.T) {
	// dividend = 0x234567890000000189ABCDEF23456789, divisor = 0x1234567889ABCDEF
	dividend := v(1, 0x23456789, 0x89ABCDEF, 0x00000001, 0x23456789)
	divisor := v(1, 0x89ABCDEF, 0x12345678)
	dst := make([]limb, quotientDigitEstimate(len(dividend.limbs), len(divisor.limbs)))
	q, r, err := divmod(dst, dividend, divisor)
	if err != nil {
		t.Fatalf("divmod: %v", err)
	}
	// Reconstruct q*divisor+r and compare against dividend using independent adds/muls.
	mdst := make([]limb, multiplyDigitEstimate(len(q.limbs), len(divisor.limbs)))
	prod := mul(mdst, q, divisor)
	adst := make([]limb, addDigitEstimate(len(prod.limbs), len(r.limbs)))
	sum := add(adst, prod, r)
	if compare(sum, dividend) != 0 {
		t.Fatalf("q*divisor+r = %+v, want %+v", sum, dividend)
	}
	if absCompare(r, divisor) >= 0 {
		t.Fatalf("remainder %+v not smaller than divisor %+v", r, divisor)
	}
}

func TestDivmodDividendShorterThanDivisor(t *testing.T) {
	dividend := v(1, 5)
	divisor := v(1, 1, 1)
	dst := make([]limb, quotientDigitEstimate(len(dividend.limbs), len(divisor.limbs)))
	q, r, err := divmod(dst, dividend, divisor)
	if err != nil {
		t.Fatalf("divmod: %v", err)
	}
	if q.sign != 0 || compare(r, dividend) != 0 {
		t.Fatalf("divmod shortcut: got q=%+v r=%+v, want q=0 r=dividend", q, r)
	}
}

func TestDivmodByZeroFails(t *testing.T) {
	dst := make([]limb, 1)
	_, _, err := divmod(dst, v(1, 5), view{})
	if err != ErrDivideByZero {
		t.Fatalf("divmod by zero: err = %v, want ErrDivideByZero", err)
	}
}

func TestShiftLeftRightRoundTrip(t *testing.T) {
	a := v(1, 0x89ABCDEF, 0x01234567)
	for n := uint(0); n < 96; n++ {
		ldst := make([]limb, shiftLeftDigitEstimate(len(a.limbs), n))
		shifted := shiftLeft(ldst, a, n)
		rdst := make([]limb, shiftRightDigitEstimate(len(shifted.limbs), n))
		back := shiftRight(rdst, shifted, n)
		if compare(back, a) != 0 {
			t.Fatalf("(a<<%d)>>%d = %+v, want %+v", n, n, back, a)
		}
	}
}

func TestShiftRightIsFloorForNegativeValues(t *testing.T) {
	// -7 >> 1 should floor to -4, not truncate to -3.
	dst := make([]limb, shiftRightDigitEstimate(1, 1))
	got := shiftRight(dst, v(-1, 7), 1)
	if got.sign != -1 || !limbsEqual(got.limbs, []limb{4}) {
		t.Fatalf("-7>>1 = %+v, want -4", got)
	}
}

func TestTrailingZeroCount(t *testing.T) {
	got := trailingZeroCount(v(1, 0, 0, 8))
	if got != 64+3 {
		t.Fatalf("trailingZeroCount = %d, want %d", got, 64+3)
	}
}

func TestBinaryGCD(t *testing.T) {
	cases := []struct {
		a, b view
		want limb
	}{
		{v(1, 12), v(1, 18), 6},
		{v(1, 17), v(1, 5), 1},
		{v(0), v(1, 9), 9},
		{v(1, 9), v(0), 9},
		{v(0), v(0), 0},
	}
	for _, c := range cases {
		dst := make([]limb, max(len(c.a.limbs), len(c.b.limbs), 1))
		got := binaryGCD(dst, c.a, c.b)
		if c.want == 0 {
			if got.sign != 0 {
				t.Errorf("gcd(%+v,%+v) = %+v, want 0", c.a, c.b, got)
			}
			continue
		}
		if got.sign != 1 || !limbsEqual(got.limbs, []limb{c.want}) {
			t.Errorf("gcd(%+v,%+v) = %+v, want %d", c.a, c.b, got, c.want)
		}
	}
}
