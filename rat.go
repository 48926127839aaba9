package rqm

import (
	"strings"

	"github.com/pkg/errors"
)

// Rat is an arbitrary-precision rational (Q), held in canonical form: the
// denominator is strictly positive, gcd(|nominator|, denominator) = 1, and
// a zero nominator always pairs with a denominator of 1. Canonicalisation
// runs after every constructor and every arithmetic operation, so any two
// equal rationals compare equal component-wise.
type Rat struct {
	nom   *Int
	denom *Int
}

// canonicalize reduces nom and denom to canonical form. The result may keep
// nom and denom themselves; that is safe because an Int is never mutated
// after construction.
func canonicalize(nom, denom *Int) (*Rat, error) {
	if denom.IsZero() {
		return nil, errors.Wrapf(ErrDivideByZero, "rational %s/%s has a zero denominator", nom, denom)
	}
	if denom.Sign() < 0 {
		nom, denom = nom.Neg(), denom.Neg()
	}
	g := GCD(nom, denom)
	if !g.Equal(NewInt(1)) {
		var err error
		nom, err = nom.Quo(g)
		if err != nil {
			return nil, err
		}
		denom, err = denom.Quo(g)
		if err != nil {
			return nil, err
		}
	}
	return &Rat{nom: nom, denom: denom}, nil
}

// NewRat builds a canonical Rat from a nominator and denominator, failing
// with ErrDivideByZero if denom is zero. Every Int operation returns a
// fresh value rather than mutating its receiver, so nom and denom are safe
// to keep using after this call.
func NewRat(nom, denom *Int) (*Rat, error) {
	return canonicalize(nom, denom)
}

// NewRatInt64 builds a canonical Rat from a pair of 64-bit integers.
func NewRatInt64(nom, denom int64) (*Rat, error) {
	return canonicalize(NewInt(nom), NewInt(denom))
}

// ParseRat parses the "nom/denom" format emitted by String: both parts
// follow the decimal integer grammar, with the denominator never elided.
func ParseRat(s string) (*Rat, error) {
	nomStr, denomStr, ok := strings.Cut(s, "/")
	if !ok {
		return nil, errors.Wrapf(ErrInvalidInput, "parsing %q as a rational", s)
	}
	nom, err := ParseInt(nomStr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "parsing %q as a rational", s)
	}
	denom, err := ParseInt(denomStr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "parsing %q as a rational", s)
	}
	return canonicalize(nom, denom)
}

// Nom returns q's nominator.
func (q *Rat) Nom() *Int {
	return q.nom
}

// Denom returns q's denominator, always strictly positive.
func (q *Rat) Denom() *Int {
	return q.denom
}

// Sign returns -1, 0, or +1 according to whether q is negative, zero, or
// positive.
func (q *Rat) Sign() int {
	return q.nom.Sign()
}

// IsZero reports whether q is the unique zero rational.
func (q *Rat) IsZero() bool {
	return q.nom.IsZero()
}

// String formats q as "nom/denom", per the canonical rational grammar.
func (q *Rat) String() string {
	return q.nom.String() + "/" + q.denom.String()
}

// Neg returns -q.
func (q *Rat) Neg() *Rat {
	return &Rat{nom: q.nom.Neg(), denom: q.denom}
}

// Add returns q+r: (q.nom·r.denom + r.nom·q.denom) / (q.denom·r.denom).
func (q *Rat) Add(r *Rat) *Rat {
	nom := q.nom.Mul(r.denom).Add(r.nom.Mul(q.denom))
	denom := q.denom.Mul(r.denom)
	out, err := canonicalize(nom, denom)
	if err != nil {
		panic("rqm: canonicalisation of a Rat sum failed despite both denominators being positive")
	}
	return out
}

// Sub returns q-r.
func (q *Rat) Sub(r *Rat) *Rat {
	return q.Add(r.Neg())
}

// Mul returns q*r: (q.nom·r.nom) / (q.denom·r.denom).
func (q *Rat) Mul(r *Rat) *Rat {
	nom := q.nom.Mul(r.nom)
	denom := q.denom.Mul(r.denom)
	out, err := canonicalize(nom, denom)
	if err != nil {
		panic("rqm: canonicalisation of a Rat product failed despite both denominators being positive")
	}
	return out
}

// Quo returns q/r: (q.nom·r.denom) / (q.denom·r.nom). Fails with
// ErrDivideByZero if r is zero.
func (q *Rat) Quo(r *Rat) (*Rat, error) {
	nom := q.nom.Mul(r.denom)
	denom := q.denom.Mul(r.nom)
	return canonicalize(nom, denom)
}

// Cmp returns -1, 0, or +1 according to whether q is less than, equal to,
// or greater than r: sign(q.nom·r.denom - r.nom·q.denom).
func (q *Rat) Cmp(r *Rat) int {
	lhs := q.nom.Mul(r.denom)
	rhs := r.nom.Mul(q.denom)
	return lhs.Sub(rhs).Sign()
}

// Equal reports whether q and r are the same canonical rational.
func (q *Rat) Equal(r *Rat) bool {
	return q.nom.Equal(r.nom) && q.denom.Equal(r.denom)
}

func (q *Rat) Less(r *Rat) bool           { return q.Cmp(r) < 0 }
func (q *Rat) LessOrEqual(r *Rat) bool    { return q.Cmp(r) <= 0 }
func (q *Rat) Greater(r *Rat) bool        { return q.Cmp(r) > 0 }
func (q *Rat) GreaterOrEqual(r *Rat) bool { return q.Cmp(r) >= 0 }
