package interp

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/smscr/smscrd/numeric"
)

// applyFunction dispatches a @name function call. Arguments are pushed by
// the script left to right, so the rightmost argument sits on top of the
// working stack and is popped first.
func (in *Interpreter) applyFunction(name string, pop func() (numeric.Value, error), push func(numeric.Value)) error {
	switch name {
	case "sin":
		x, err := pop()
		if err != nil {
			return err
		}
		xf, err := x.Float64()
		if err != nil {
			return err
		}
		push(numeric.Double(math.Sin(xf * math.Pi / 180)))
		return nil

	case "decfmt":
		fmtSpec, err := pop()
		if err != nil {
			return err
		}
		x, err := pop()
		if err != nil {
			return err
		}
		xf, err := x.Float64()
		if err != nil {
			return err
		}
		push(numeric.String(decimalFormat(xf, fmtSpec.FormatString())))
		return nil

	case "dup":
		v, err := in.peekWorking(pop, push)
		if err != nil {
			return err
		}
		push(v)
		return nil

	case "swap":
		a, err := pop()
		if err != nil {
			return err
		}
		b, err := pop()
		if err != nil {
			return err
		}
		push(a)
		push(b)
		return nil

	case "setMimeType":
		m, err := pop()
		if err != nil {
			return err
		}
		return in.ctx.SetMimeType(m.FormatString())

	case "paramGet":
		def, err := pop()
		if err != nil {
			return err
		}
		nameVal, err := pop()
		if err != nil {
			return err
		}
		v, ok := in.ctx.GetParameter(nameVal.FormatString())
		if !ok {
			v = def.FormatString()
		}
		push(numeric.String(v))
		return nil

	case "pparamGet":
		def, err := pop()
		if err != nil {
			return err
		}
		nameVal, err := pop()
		if err != nil {
			return err
		}
		v, ok := in.ctx.GetPersistentParameter(nameVal.FormatString())
		if !ok {
			v = def.FormatString()
		}
		push(numeric.String(v))
		return nil

	case "pparamSet":
		nameVal, err := pop()
		if err != nil {
			return err
		}
		value, err := pop()
		if err != nil {
			return err
		}
		return in.ctx.SetPersistentParameter(nameVal.FormatString(), value.FormatString())

	case "pparamDel":
		nameVal, err := pop()
		if err != nil {
			return err
		}
		return in.ctx.RemovePersistentParameter(nameVal.FormatString())

	case "tparamGet":
		def, err := pop()
		if err != nil {
			return err
		}
		nameVal, err := pop()
		if err != nil {
			return err
		}
		v, ok := in.ctx.GetTemporaryParameter(nameVal.FormatString())
		if !ok {
			v = def.FormatString()
		}
		push(numeric.String(v))
		return nil

	case "tparamSet":
		nameVal, err := pop()
		if err != nil {
			return err
		}
		value, err := pop()
		if err != nil {
			return err
		}
		return in.ctx.SetTemporaryParameter(nameVal.FormatString(), value.FormatString())

	case "tparamDel":
		nameVal, err := pop()
		if err != nil {
			return err
		}
		return in.ctx.RemoveTemporaryParameter(nameVal.FormatString())

	default:
		return errors.Wrapf(ErrInterp, "unknown function %q", name)
	}
}

// peekWorking is dup's helper: pop then immediately push back so the
// caller can push a second copy, without exposing the working slice itself.
func (in *Interpreter) peekWorking(pop func() (numeric.Value, error), push func(numeric.Value)) (numeric.Value, error) {
	v, err := pop()
	if err != nil {
		return numeric.Value{}, err
	}
	push(v)
	return v, nil
}

// decimalFormat renders f using a "#.0"-style pattern with a literal '.'
// decimal point, independent of runtime locale. The fractional digit count
// is taken from the number of digits after '.' in the pattern; an absent
// '.' means zero fractional digits.
func decimalFormat(f float64, pattern string) string {
	precision := 0
	if dot := strings.IndexByte(pattern, '.'); dot >= 0 {
		frac := pattern[dot+1:]
		precision = len(frac)
	}
	return strconv.FormatFloat(f, 'f', precision, 64)
}
