// Package numeric implements the Smart Script dynamic numeric scalar:
// a value that is either an integer, a double, or a string known to
// denote one of those, with lazy string coercion and integer/double
// promotion.
package numeric

import (
	"strconv"

	"github.com/pkg/errors"
)

// Kind identifies which variant a Value currently holds.
type Kind int

const (
	KindInt Kind = iota
	KindDouble
	KindString
)

// Sentinel errors for the failure modes numeric operations can raise.
var (
	ErrBadType   = errors.New("numeric: operand is neither integer, double, nor string")
	ErrBadNumber = errors.New("numeric: string does not parse as integer or double")
	ErrDivByZero = errors.New("numeric: divisor magnitude below 1e-20")
)

// minDivisorMagnitude is the threshold below which division fails.
const minDivisorMagnitude = 1e-20

// Value is a dynamically-typed integer/double/string scalar.
// The zero Value is integer zero (an unset wrapper reads as 0).
type Value struct {
	kind Kind
	i    int64
	d    float64
	s    string
}

// Int constructs an integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Double constructs a double Value.
func Double(v float64) Value { return Value{kind: KindDouble, d: v} }

// String constructs a not-yet-parsed string Value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// coerced is the internal (tag, double) pair used for arithmetic.
type coerced struct {
	isDouble bool
	f        float64
}

// coerce resolves a Value to its (tag, double) pair, parsing strings lazily.
func coerce(v Value) (coerced, error) {
	switch v.kind {
	case KindInt:
		return coerced{isDouble: false, f: float64(v.i)}, nil
	case KindDouble:
		return coerced{isDouble: true, f: v.d}, nil
	case KindString:
		if n, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return coerced{isDouble: false, f: float64(n)}, nil
		}
		if f, err := strconv.ParseFloat(v.s, 64); err == nil {
			return coerced{isDouble: true, f: f}, nil
		}
		return coerced{}, errors.Wrapf(ErrBadNumber, "%q", v.s)
	default:
		return coerced{}, errors.Wrapf(ErrBadType, "kind %d", v.kind)
	}
}

func promote(a, b coerced, result float64) Value {
	if a.isDouble || b.isDouble {
		return Double(result)
	}
	// Truncating division semantics follow whole-number division of
	// doubles cast back to integer.
	return Int(int64(result))
}

// Increment mutates v to v + other, applying integer/double promotion.
func (v *Value) Increment(other Value) error {
	return v.binaryOp(other, func(a, b float64) float64 { return a + b })
}

// Decrement mutates v to v - other.
func (v *Value) Decrement(other Value) error {
	return v.binaryOp(other, func(a, b float64) float64 { return a - b })
}

// Multiply mutates v to v * other.
func (v *Value) Multiply(other Value) error {
	return v.binaryOp(other, func(a, b float64) float64 { return a * b })
}

// Divide mutates v to v / other. Fails with ErrDivByZero if |other| < 1e-20.
func (v *Value) Divide(other Value) error {
	oc, err := coerce(other)
	if err != nil {
		return err
	}
	if abs(oc.f) < minDivisorMagnitude {
		return ErrDivByZero
	}
	return v.binaryOp(other, func(a, b float64) float64 { return a / b })
}

func (v *Value) binaryOp(other Value, op func(a, b float64) float64) error {
	ac, err := coerce(*v)
	if err != nil {
		return err
	}
	bc, err := coerce(other)
	if err != nil {
		return err
	}
	*v = promote(ac, bc, op(ac.f, bc.f))
	return nil
}

// Compare returns <0, 0, or >0 as a - b, after coercing both to double.
func Compare(a, b Value) (int, error) {
	ac, err := coerce(a)
	if err != nil {
		return 0, err
	}
	bc, err := coerce(b)
	if err != nil {
		return 0, err
	}
	switch {
	case ac.f < bc.f:
		return -1, nil
	case ac.f > bc.f:
		return 1, nil
	default:
		return 0, nil
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Float64 returns the value coerced to float64, parsing strings lazily.
func (v Value) Float64() (float64, error) {
	c, err := coerce(v)
	if err != nil {
		return 0, err
	}
	return c.f, nil
}

// IsDouble reports whether the value (after coercion) is a double.
func (v Value) IsDouble() (bool, error) {
	c, err := coerce(v)
	if err != nil {
		return false, err
	}
	return c.isDouble, nil
}

// FormatString renders the value in the form the Response Context writes to the client.
func (v Value) FormatString() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return strconv.FormatFloat(v.d, 'f', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}
