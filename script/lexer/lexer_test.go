package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var out []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return out
}

func TestEscapedBackslash(t *testing.T) {
	toks := tokens(t, `ab\\cd`)
	require.Len(t, toks, 2)
	assert.Equal(t, Token{Kind: TokenText, Literal: `ab\cd`}, toks[0])
}

func TestEscapedBrace(t *testing.T) {
	toks := tokens(t, `\{$FOR i 1 10 $}`)
	require.Len(t, toks, 2)
	assert.Equal(t, Token{Kind: TokenText, Literal: `{$FOR i 1 10 $}`}, toks[0])
}

func TestUnknownEscapeFails(t *testing.T) {
	l := New(`a\nb`)
	_, err := l.Next()
	assert.ErrorIs(t, err, ErrLexer)
}

func TestTrailingBackslashFails(t *testing.T) {
	l := New(`abc\`)
	_, err := l.Next()
	assert.ErrorIs(t, err, ErrLexer)
}

func TestForTag(t *testing.T) {
	toks := tokens(t, `{$ FOR i 1 10 $}`)
	assert.Equal(t, Token{Kind: TokenFor, Literal: "i 1 10"}, toks[0])
}

func TestForTagCaseInsensitive(t *testing.T) {
	toks := tokens(t, `{$for i 1 10$}`)
	assert.Equal(t, Token{Kind: TokenFor, Literal: "i 1 10"}, toks[0])
}

func TestEndTag(t *testing.T) {
	toks := tokens(t, `{$ END $}`)
	assert.Equal(t, Token{Kind: TokenEnd}, toks[0])
}

func TestEchoTag(t *testing.T) {
	toks := tokens(t, `{$= i $}`)
	assert.Equal(t, Token{Kind: TokenEcho, Literal: "i"}, toks[0])
}

func TestWhitespaceCollapsedOutsideQuotes(t *testing.T) {
	toks := tokens(t, "{$=   i     1   $}")
	assert.Equal(t, Token{Kind: TokenEcho, Literal: "i 1"}, toks[0])
}

func TestQuotedStringPreservedVerbatim(t *testing.T) {
	toks := tokens(t, `{$= "a   b" $}`)
	assert.Equal(t, Token{Kind: TokenEcho, Literal: `"a   b"`}, toks[0])
}

func TestQuotedStringWithDollarBrace(t *testing.T) {
	toks := tokens(t, `{$= "x$}y" $}`)
	assert.Equal(t, Token{Kind: TokenEcho, Literal: `"x$}y"`}, toks[0])
}

func TestUnclosedTagFails(t *testing.T) {
	l := New(`{$ FOR i 1 10`)
	_, err := l.Next()
	assert.ErrorIs(t, err, ErrLexer)
}

func TestUnrecognizedTagFails(t *testing.T) {
	l := New(`{$ bogus $}`)
	_, err := l.Next()
	assert.ErrorIs(t, err, ErrLexer)
}

func TestNextAfterEOFFails(t *testing.T) {
	l := New(``)
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenEOF, tok.Kind)

	_, err = l.Next()
	assert.Error(t, err)
}

func TestMultipleTagsInSequence(t *testing.T) {
	toks := tokens(t, "{$ FOR i 1 3 1 $}i={$= i $}\n{$ END $}")
	kinds := make([]TokenKind, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Equal(t, []TokenKind{
		TokenFor, TokenText, TokenEcho, TokenText, TokenEnd, TokenEOF,
	}, kinds)
}
