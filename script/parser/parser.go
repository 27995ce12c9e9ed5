// Package parser builds a Smart Script document tree from a token stream,
// validating FOR/END matching and element shapes. It is a small state
// machine driven by a stack of in-progress nodes rather than a recursive
// descent over the grammar — FOR/END nesting is handled by pushing and
// popping the node stack as tokens arrive.
package parser

import (
	"github.com/pkg/errors"

	"github.com/smscr/smscrd/script/lexer"
	"github.com/smscr/smscrd/script/tree"
)

// ErrParse is the sentinel wrapped by every parse failure.
var ErrParse = errors.New("parser: invalid script")

// Parse consumes every token from l and returns the resulting document tree.
func Parse(l *lexer.Lexer) (*tree.Node, error) {
	root := tree.NewDocument()
	nodeStack := []*tree.Node{root}

	top := func() *tree.Node { return nodeStack[len(nodeStack)-1] }

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, errors.Wrapf(ErrParse, "%s", err)
		}

		switch tok.Kind {
		case lexer.TokenText:
			top().AppendChild(tree.NewText(tok.Literal))

		case lexer.TokenFor:
			node, err := parseForLoop(tok.Literal)
			if err != nil {
				return nil, err
			}
			top().AppendChild(node)
			nodeStack = append(nodeStack, node)

		case lexer.TokenEnd:
			if len(nodeStack) <= 1 {
				return nil, errors.Wrap(ErrParse, "more ENDs than FORs")
			}
			nodeStack = nodeStack[:len(nodeStack)-1]

		case lexer.TokenEcho:
			elements, err := parseEchoElements(tok.Literal)
			if err != nil {
				return nil, err
			}
			top().AppendChild(tree.NewEcho(elements))

		case lexer.TokenEOF:
			if len(nodeStack) > 1 {
				return nil, errors.Wrap(ErrParse, "unclosed FOR")
			}
			return root, nil
		}
	}
}

func parseForLoop(body string) (*tree.Node, error) {
	pieces, err := splitPreservingQuotes(body)
	if err != nil {
		return nil, err
	}
	if len(pieces) != 3 && len(pieces) != 4 {
		return nil, errors.Wrapf(ErrParse, "FOR requires 3 or 4 pieces, got %d", len(pieces))
	}

	if !isValidVariableName(pieces[0]) {
		return nil, errors.Wrapf(ErrParse, "%q is not a valid FOR variable name", pieces[0])
	}
	variable := pieces[0]

	start, err := parseForSlotElement(pieces[1])
	if err != nil {
		return nil, err
	}
	end, err := parseForSlotElement(pieces[2])
	if err != nil {
		return nil, err
	}

	var step tree.Element
	hasStep := len(pieces) == 4
	if hasStep {
		step, err = parseForSlotElement(pieces[3])
		if err != nil {
			return nil, err
		}
	} else {
		step = tree.IntLit(1)
	}

	return tree.NewForLoop(variable, start, end, step, hasStep), nil
}

func parseEchoElements(body string) ([]tree.Element, error) {
	pieces, err := splitPreservingQuotes(body)
	if err != nil {
		return nil, err
	}
	elements := make([]tree.Element, 0, len(pieces))
	for _, p := range pieces {
		el, err := parseEchoElement(p)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return elements, nil
}
