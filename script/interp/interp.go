// Package interp implements the Smart Script tree-walking interpreter. It
// visits a document tree, bracketing each ForLoop with a push/pop on a
// Named Multi-Stack and evaluating Echo elements on a per-evaluation
// working stack, writing results through a Response Context.
package interp

import (
	"math"

	"github.com/pkg/errors"

	"github.com/smscr/smscrd/httpctx"
	"github.com/smscr/smscrd/numeric"
	"github.com/smscr/smscrd/script/tree"
	"github.com/smscr/smscrd/stack"
)

// ErrInterp is the sentinel wrapped by every interpretation failure:
// unknown operator/function, or a wrong element type on the working stack.
var ErrInterp = errors.New("interp: script execution failed")

// Interpreter executes a Smart Script document tree against a Response Context.
type Interpreter struct {
	vars *stack.Multi
	ctx  *httpctx.Context
}

// New constructs an Interpreter writing into ctx.
func New(ctx *httpctx.Context) *Interpreter {
	return &Interpreter{vars: stack.New(), ctx: ctx}
}

// Run walks doc, a Document root node, executing its children in order.
func (in *Interpreter) Run(doc *tree.Node) error {
	return in.execChildren(doc.Children)
}

func (in *Interpreter) execChildren(children []*tree.Node) error {
	for _, child := range children {
		if err := in.execNode(child); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execNode(n *tree.Node) error {
	switch n.Kind {
	case tree.KindText:
		_, err := in.ctx.WriteString(n.Text)
		return err
	case tree.KindForLoop:
		return in.execForLoop(n)
	case tree.KindEcho:
		return in.execEcho(n)
	default:
		return errors.Wrapf(ErrInterp, "unexpected node kind %d", n.Kind)
	}
}

func (in *Interpreter) execForLoop(n *tree.Node) error {
	start, err := in.evalSimple(n.Start)
	if err != nil {
		return err
	}
	end, err := in.evalSimple(n.End)
	if err != nil {
		return err
	}
	step, err := in.evalSimple(n.Step)
	if err != nil {
		return err
	}

	in.vars.Push(n.Var, start)
	for {
		cur, err := in.vars.Peek(n.Var)
		if err != nil {
			return err
		}
		cmp, err := numeric.Compare(cur, end)
		if err != nil {
			return err
		}
		if cmp > 0 {
			break
		}

		if err := in.execChildren(n.Children); err != nil {
			return err
		}

		cur, err = in.vars.Pop(n.Var)
		if err != nil {
			return err
		}
		if err := cur.Increment(step); err != nil {
			return err
		}
		in.vars.Push(n.Var, cur)
	}
	// Discard the loop variable, restoring the pre-loop depth.
	_, err = in.vars.Pop(n.Var)
	return err
}

// evalSimple evaluates a ForLoop slot element: Variable, String, Int, or Double.
func (in *Interpreter) evalSimple(el tree.Element) (numeric.Value, error) {
	switch el.Kind {
	case tree.ElemVariable:
		return in.vars.Peek(el.Name)
	case tree.ElemString:
		return numeric.String(el.Str), nil
	case tree.ElemInt:
		return numeric.Int(el.Int), nil
	case tree.ElemDouble:
		return numeric.Double(el.Double), nil
	default:
		return numeric.Value{}, errors.Wrap(ErrInterp, "unexpected ForLoop slot element")
	}
}

func (in *Interpreter) execEcho(n *tree.Node) error {
	working := make([]numeric.Value, 0, len(n.Elements))

	push := func(v numeric.Value) { working = append(working, v) }
	pop := func() (numeric.Value, error) {
		if len(working) == 0 {
			return numeric.Value{}, errors.Wrap(stack.ErrEmpty, "echo working stack")
		}
		v := working[len(working)-1]
		working = working[:len(working)-1]
		return v, nil
	}

	for _, el := range n.Elements {
		switch el.Kind {
		case tree.ElemInt:
			push(numeric.Int(el.Int))
		case tree.ElemDouble:
			push(numeric.Double(el.Double))
		case tree.ElemString:
			push(numeric.String(el.Str))
		case tree.ElemVariable:
			v, err := in.vars.Peek(el.Name)
			if err != nil {
				return err
			}
			push(v)
		case tree.ElemOperator:
			if err := in.applyOperator(el.Name, pop, push); err != nil {
				return err
			}
		case tree.ElemFunction:
			if err := in.applyFunction(el.Name, pop, push); err != nil {
				return err
			}
		default:
			return errors.Wrapf(ErrInterp, "unexpected echo element kind %d", el.Kind)
		}
	}

	for _, v := range working {
		if _, err := in.ctx.WriteString(v.FormatString()); err != nil {
			return err
		}
	}
	return nil
}

// applyOperator pops the right-hand operand (top of stack) then the
// left-hand operand, computes lhs OP rhs, and pushes the result.
func (in *Interpreter) applyOperator(op string, pop func() (numeric.Value, error), push func(numeric.Value)) error {
	rhs, err := pop()
	if err != nil {
		return err
	}
	lhs, err := pop()
	if err != nil {
		return err
	}

	result := lhs
	switch op {
	case "+":
		err = result.Increment(rhs)
	case "-":
		err = result.Decrement(rhs)
	case "*":
		err = result.Multiply(rhs)
	case "/":
		err = result.Divide(rhs)
	case "^":
		lf, lerr := lhs.Float64()
		if lerr != nil {
			return lerr
		}
		rf, rerr := rhs.Float64()
		if rerr != nil {
			return rerr
		}
		result = numeric.Double(math.Pow(lf, rf))
	default:
		return errors.Wrapf(ErrInterp, "unknown operator %q", op)
	}
	if err != nil {
		return err
	}
	push(result)
	return nil
}
