package rqm

import "testing"

func v(sign int8, limbs ...limb) view {
	if len(limbs) == 0 {
		return view{}
	}
	return view{sign: sign, limbs: limbs}
}

func TestNormalizeStripsHighZeros(t *testing.T) {
	got := normalize(view{sign: 1, limbs: []limb{1, 2, 0, 0}})
	if len(got.limbs) != 2 || got.limbs[0] != 1 || got.limbs[1] != 2 {
		t.Fatalf("normalize: got %+v", got)
	}
}

func TestNormalizeAllZeroGivesSignlessZero(t *testing.T) {
	got := normalize(view{sign: 1, limbs: []limb{0, 0}})
	if got.sign != 0 || len(got.limbs) != 0 {
		t.Fatalf("normalize of all-zero magnitude: got %+v, want zero", got)
	}
}

func TestCompareOrdersBySignThenMagnitude(t *testing.T) {
	cases := []struct {
		a, b view
		want int8
	}{
		{v(0), v(0), 0},
		{v(1, 1), v(-1, 1), 1},
		{v(-1, 1), v(1, 1), -1},
		{v(1, 1), v(1, 2), -1},
		{v(1, 1, 1), v(1, 0xFFFFFFFF), 1}, // longer magnitude wins regardless of low limbs
		{v(1, 5), v(1, 5), 0},
		{v(-1, 5), v(-1, 3), -1}, // among negatives, larger magnitude sorts first (more negative)
	}
	for _, c := range cases {
		if got := compare(c.a, c.b); got != c.want {
			t.Errorf("compare(%+v, %+v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCopyIntoPreservesSignAndMagnitude(t *testing.T) {
	dst := make([]limb, 4)
	got := copyInto(dst, v(-1, 7, 9))
	if got.sign != -1 || len(got.limbs) != 2 || got.limbs[0] != 7 || got.limbs[1] != 9 {
		t.Fatalf("copyInto: got %+v", got)
	}
}

func TestWithSignUnlessZeroForcesZeroSignOnEmptyMagnitude(t *testing.T) {
	got := withSignUnlessZero(-1, view{})
	if got.sign != 0 {
		t.Fatalf("withSignUnlessZero on empty magnitude: sign = %d, want 0", got.sign)
	}
	got = withSignUnlessZero(-1, v(1, 3))
	if got.sign != -1 {
		t.Fatalf("withSignUnlessZero: sign = %d, want -1", got.sign)
	}
}
