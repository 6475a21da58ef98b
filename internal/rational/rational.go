// Package rational provides the exact fraction type used for every share
// computation. Values are immutable; arithmetic returns new values.
package rational

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFraction is returned when a fraction is built with a zero denominator
// or parsed from malformed text.
var ErrInvalidFraction = errors.New("invalid fraction")

// Rational is a reduced fraction with a positive denominator.
// The zero value is 0/1 once normalized; use Zero for clarity.
type Rational struct {
	num int64
	den int64
}

// Common law fractions.
var (
	Zero      = Rational{0, 1}
	One       = Rational{1, 1}
	Half      = Rational{1, 2}
	Third     = Rational{1, 3}
	Quarter   = Rational{1, 4}
	Sixth     = Rational{1, 6}
	Eighth    = Rational{1, 8}
	TwoThirds = Rational{2, 3}
)

// New builds num/den reduced by the greatest common divisor.
func New(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, fmt.Errorf("%w: %d/0", ErrInvalidFraction, num)
	}
	return normalize(num, den), nil
}

// MustNew is New for literal law constants; it panics on a zero denominator.
func MustNew(num, den int64) Rational {
	r, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

// FromInt returns n/1.
func FromInt(n int64) Rational {
	return Rational{n, 1}
}

// Parse reads "n/d" or "n".
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	numStr, denStr, found := strings.Cut(s, "/")
	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("%w: %q", ErrInvalidFraction, s)
	}
	if !found {
		return FromInt(num), nil
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("%w: %q", ErrInvalidFraction, s)
	}
	return New(num, den)
}

func normalize(num, den int64) Rational {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Rational{0, 1}
	}
	g := GCD(abs(num), den)
	return Rational{num / g, den / g}
}

// Num returns the reduced numerator.
func (r Rational) Num() int64 { return r.norm().num }

// Den returns the reduced, positive denominator.
func (r Rational) Den() int64 { return r.norm().den }

// norm maps the Go zero value to 0/1.
func (r Rational) norm() Rational {
	if r.den == 0 {
		return Zero
	}
	return r
}

// Add returns r + o.
func (r Rational) Add(o Rational) Rational {
	r, o = r.norm(), o.norm()
	l := LCM(r.den, o.den)
	return normalize(r.num*(l/r.den)+o.num*(l/o.den), l)
}

// Sub returns r - o.
func (r Rational) Sub(o Rational) Rational {
	o = o.norm()
	return r.Add(Rational{-o.num, o.den})
}

// Mul returns r * o, cross-reducing first to keep intermediates small.
func (r Rational) Mul(o Rational) Rational {
	r, o = r.norm(), o.norm()
	if r.num == 0 || o.num == 0 {
		return Zero
	}
	g1 := GCD(abs(r.num), o.den)
	g2 := GCD(abs(o.num), r.den)
	return normalize((r.num/g1)*(o.num/g2), (r.den/g2)*(o.den/g1))
}

// Div returns r / o. Dividing by zero yields ErrInvalidFraction.
func (r Rational) Div(o Rational) (Rational, error) {
	o = o.norm()
	if o.num == 0 {
		return Rational{}, fmt.Errorf("%w: division by zero", ErrInvalidFraction)
	}
	return r.Mul(Rational{o.den, o.num}.normSign()), nil
}

// MulInt returns r * n.
func (r Rational) MulInt(n int64) Rational {
	return r.Mul(FromInt(n))
}

// DivInt returns r / n for n != 0. Callers guarantee n is non-zero.
func (r Rational) DivInt(n int64) Rational {
	return r.Mul(MustNew(1, n))
}

func (r Rational) normSign() Rational {
	return normalize(r.num, r.den)
}

// Cmp returns -1, 0 or +1.
func (r Rational) Cmp(o Rational) int {
	d := r.Sub(o)
	switch {
	case d.num < 0:
		return -1
	case d.num > 0:
		return 1
	default:
		return 0
	}
}

// Equal reports exact equality.
func (r Rational) Equal(o Rational) bool { return r.Cmp(o) == 0 }

// Less reports r < o.
func (r Rational) Less(o Rational) bool { return r.Cmp(o) < 0 }

// Greater reports r > o.
func (r Rational) Greater(o Rational) bool { return r.Cmp(o) > 0 }

// IsZero reports r == 0.
func (r Rational) IsZero() bool { return r.norm().num == 0 }

// IsPositive reports r > 0.
func (r Rational) IsPositive() bool { return r.norm().num > 0 }

// Float64 converts to a float. Only for display and the confidence check.
func (r Rational) Float64() float64 {
	r = r.norm()
	return float64(r.num) / float64(r.den)
}

// String renders "n/d", or "n" when the denominator is 1.
func (r Rational) String() string {
	r = r.norm()
	if r.den == 1 {
		return strconv.FormatInt(r.num, 10)
	}
	return strconv.FormatInt(r.num, 10) + "/" + strconv.FormatInt(r.den, 10)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rational) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Sum adds all values.
func Sum(values ...Rational) Rational {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Max returns the largest value; ties keep the earliest. Panics on empty input.
func Max(values ...Rational) Rational {
	best := values[0]
	for _, v := range values[1:] {
		if v.Greater(best) {
			best = v
		}
	}
	return best
}

// Min returns the smaller of a and b.
func Min(a, b Rational) Rational {
	if b.Less(a) {
		return b
	}
	return a
}

// GCD returns the greatest common divisor of two non-negative integers.
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// LCM returns the least common multiple of two positive integers.
func LCM(a, b int64) int64 {
	return a / GCD(a, b) * b
}

// LCMAll folds LCM over the given denominators. An empty set yields 1.
func LCMAll(dens []int64) int64 {
	l := int64(1)
	for _, d := range dens {
		if d > 0 {
			l = LCM(l, d)
		}
	}
	return l
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
