package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderEscapesText(t *testing.T) {
	doc := NewDocument()
	doc.AppendChild(NewText(`ab\cd{`))
	assert.Equal(t, `ab\\cd\{`, Render(doc))
}

func TestRenderForLoopWithoutStep(t *testing.T) {
	doc := NewDocument()
	doc.AppendChild(NewForLoop("i", IntLit(1), IntLit(3), IntLit(1), false))
	assert.Equal(t, "{$ FOR i 1 3 $}{$ END $}", Render(doc))
}

func TestRenderForLoopWithStep(t *testing.T) {
	doc := NewDocument()
	doc.AppendChild(NewForLoop("i", IntLit(1), IntLit(10), IntLit(2), true))
	assert.Equal(t, "{$ FOR i 1 10 2 $}{$ END $}", Render(doc))
}

func TestRenderEchoElements(t *testing.T) {
	doc := NewDocument()
	doc.AppendChild(NewEcho([]Element{
		StringLit("a+b="), Variable("a"), Function("paramGet"), Operator("+"),
	}))
	assert.Equal(t, `{$= "a+b=" a @paramGet + $}`, Render(doc))
}

func TestRenderDoubleKeepsDecimalPoint(t *testing.T) {
	assert.Equal(t, "3.0", renderElement(DoubleLit(3.0)))
	assert.Equal(t, "1.5", renderElement(DoubleLit(1.5)))
}

func TestRenderQuotedStringEscapes(t *testing.T) {
	assert.Equal(t, `"line1\nline2\t\"q\""`, renderElement(StringLit("line1\nline2\t\"q\"")))
}
