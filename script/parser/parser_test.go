package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smscr/smscrd/script/lexer"
	"github.com/smscr/smscrd/script/tree"
)

func parse(t *testing.T, src string) (*tree.Node, error) {
	t.Helper()
	return Parse(lexer.New(src))
}

func TestBasicForLoop(t *testing.T) {
	doc, err := parse(t, "{$ FOR i 1 3 1 $}i={$= i $}\n{$ END $}")
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)

	forNode := doc.Children[0]
	assert.Equal(t, tree.KindForLoop, forNode.Kind)
	assert.Equal(t, "i", forNode.Var)
	assert.Equal(t, tree.IntLit(1), forNode.Start)
	assert.Equal(t, tree.IntLit(3), forNode.End)
	assert.Equal(t, tree.IntLit(1), forNode.Step)
	require.Len(t, forNode.Children, 2)
	assert.Equal(t, tree.KindText, forNode.Children[0].Kind)
	assert.Equal(t, "i=", forNode.Children[0].Text)
	assert.Equal(t, tree.KindEcho, forNode.Children[1].Kind)
}

func TestForLoopDefaultStep(t *testing.T) {
	doc, err := parse(t, "{$ FOR i 1 3 $}{$ END $}")
	require.NoError(t, err)
	forNode := doc.Children[0]
	assert.False(t, forNode.HasStep)
	assert.Equal(t, tree.IntLit(1), forNode.Step)
}

func TestEndWithoutForFails(t *testing.T) {
	_, err := parse(t, "{$ END $}")
	assert.ErrorIs(t, err, ErrParse)
}

func TestUnclosedForFails(t *testing.T) {
	_, err := parse(t, "{$ FOR i 1 10 $}")
	assert.ErrorIs(t, err, ErrParse)
}

func TestEchoElementsParsed(t *testing.T) {
	doc, err := parse(t, `{$= "a+b=" a paramGet @paramGet b paramGet @paramGet + $}`)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	echo := doc.Children[0]
	require.Len(t, echo.Elements, 8)
	assert.Equal(t, tree.StringLit("a+b="), echo.Elements[0])
	assert.Equal(t, tree.Variable("a"), echo.Elements[1])
	assert.Equal(t, tree.Variable("paramGet"), echo.Elements[2])
	assert.Equal(t, tree.Function("paramGet"), echo.Elements[3])
	assert.Equal(t, tree.Operator("+"), echo.Elements[7])
}

func TestForSlotRejectsFunctionAndOperator(t *testing.T) {
	_, err := parse(t, "{$ FOR i 1 @sin $}{$ END $}")
	assert.ErrorIs(t, err, ErrParse)

	_, err = parse(t, "{$ FOR i 1 + $}{$ END $}")
	assert.ErrorIs(t, err, ErrParse)
}

func TestNestedForLoops(t *testing.T) {
	doc, err := parse(t, "{$ FOR i 1 3 $}{$ FOR j 1 2 $}x{$ END $}{$ END $}")
	require.NoError(t, err)
	outer := doc.Children[0]
	require.Len(t, outer.Children, 1)
	inner := outer.Children[0]
	assert.Equal(t, tree.KindForLoop, inner.Kind)
	assert.Equal(t, "j", inner.Var)
}

func TestInvalidVariableNameInFor(t *testing.T) {
	_, err := parse(t, "{$ FOR 1i 1 3 $}{$ END $}")
	assert.ErrorIs(t, err, ErrParse)
}

func TestQuotedStringWithEscapes(t *testing.T) {
	doc, err := parse(t, `{$= "line1\nline2\t\"q\"" $}`)
	require.NoError(t, err)
	echo := doc.Children[0]
	assert.Equal(t, tree.StringLit("line1\nline2\t\"q\""), echo.Elements[0])
}

func TestDoubleLiteral(t *testing.T) {
	doc, err := parse(t, "{$= 3.0 $}")
	require.NoError(t, err)
	assert.Equal(t, tree.DoubleLit(3.0), doc.Children[0].Elements[0])
}

func TestUnknownEchoElementFails(t *testing.T) {
	_, err := parse(t, "{$= %weird% $}")
	assert.ErrorIs(t, err, ErrParse)
}

func TestRenderRoundTripPreservesTree(t *testing.T) {
	sources := []string{
		"{$ FOR i 1 3 1 $}i={$= i $}\n{$ END $}",
		`plain text with \\ and \{ escapes`,
		`{$= "a+b=" "a" "0" @paramGet "b" "0" @paramGet + $}`,
		"{$ FOR i 1 10 $}{$ FOR j i 20 2 $}{$= i j * $}{$ END $}{$ END $}",
		`{$= 3.0 2 / "x" @dup $}`,
	}
	for _, src := range sources {
		first, err := parse(t, src)
		require.NoError(t, err, src)

		rendered := tree.Render(first)
		second, err := parse(t, rendered)
		require.NoError(t, err, rendered)

		assert.Equal(t, first, second, src)
	}
}

func TestEmptyDocument(t *testing.T) {
	doc, err := parse(t, "")
	require.NoError(t, err)
	assert.Empty(t, doc.Children)
}
