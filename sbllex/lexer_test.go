package sbllex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/snowballc/sbltoken"
)

func tokenTypes(t *testing.T, src string) []sbltoken.Type {
	t.Helper()
	l := New(src)
	var types []sbltoken.Type
	for {
		tok := l.Next()
		require.Nil(t, l.Err(), "unexpected lex error: %v", l.Err())
		types = append(types, tok.Type)
		if tok.Type == sbltoken.EOFToken {
			break
		}
	}
	return types
}

func TestLexer_Punctuation(t *testing.T) {
	types := tokenTypes(t, "( ) [ ] <- < <= > >= = + $ -")
	assert.Equal(t, []sbltoken.Type{
		sbltoken.LParenToken, sbltoken.RParenToken,
		sbltoken.LBracketToken, sbltoken.RBracketToken,
		sbltoken.ArrowToken,
		sbltoken.LessToken, sbltoken.LessEqToken,
		sbltoken.GreaterToken, sbltoken.GreaterEqToken,
		sbltoken.EqualToken, sbltoken.PlusToken, sbltoken.DollarToken,
		sbltoken.MinusToken,
		sbltoken.EOFToken,
	}, types)
}

func TestLexer_KeywordsVsIdents(t *testing.T) {
	l := New("define stemword")
	tok := l.Next()
	assert.Equal(t, sbltoken.KeywordToken, tok.Type)
	assert.Equal(t, "define", tok.Lit)

	tok = l.Next()
	assert.Equal(t, sbltoken.IdentToken, tok.Type)
	assert.Equal(t, "stemword", tok.Lit)
}

func TestLexer_Int(t *testing.T) {
	l := New("42")
	tok := l.Next()
	assert.Equal(t, sbltoken.IntToken, tok.Type)
	assert.Equal(t, 42, tok.IntValue())
}

func TestLexer_StringNoEscapes(t *testing.T) {
	l := New("'hello world'")
	tok := l.Next()
	require.Equal(t, sbltoken.StringToken, tok.Type)
	assert.Equal(t, "hello world", tok.Lit)
}

func TestLexer_StringEscapeExpansion(t *testing.T) {
	l := New("'a{ae}b'")
	l.DefineStringDef("ae", 'ä')
	tok := l.Next()
	require.Equal(t, sbltoken.StringToken, tok.Type)
	assert.Equal(t, "aäb", tok.Lit)
}

func TestLexer_UnknownEscapeName(t *testing.T) {
	l := New("'a{nope}b'")
	tok := l.Next()
	assert.Equal(t, sbltoken.InvalidEscapeErrorToken, tok.Type)
	require.NotNil(t, l.Err())
}

func TestLexer_UnterminatedString(t *testing.T) {
	l := New("'abc")
	tok := l.Next()
	assert.Equal(t, sbltoken.UnterminatedStringErrorToken, tok.Type)
	require.NotNil(t, l.Err())
}

func TestLexer_CustomStringEscapes(t *testing.T) {
	l := New("'a[ae]b'")
	l.SetStringEscapes('[', ']')
	l.DefineStringDef("ae", 'ä')
	tok := l.Next()
	require.Equal(t, sbltoken.StringToken, tok.Type)
	assert.Equal(t, "aäb", tok.Lit)
}

func TestLexer_ReadTwoEscapeChars(t *testing.T) {
	l := New("stringescapes { } rest")
	// consume the keyword the parser would have already consumed
	kw := l.Next()
	require.Equal(t, sbltoken.KeywordToken, kw.Type)
	require.Equal(t, "stringescapes", kw.Lit)

	open, closeCh, err := l.ReadTwoEscapeChars()
	require.Nil(t, err)
	assert.Equal(t, '{', open)
	assert.Equal(t, '}', closeCh)

	tok := l.Next()
	assert.Equal(t, sbltoken.IdentToken, tok.Type)
	assert.Equal(t, "rest", tok.Lit)
}

func TestLexer_LineAndColTracking(t *testing.T) {
	l := New("abc\ndefine")
	first := l.Next()
	assert.Equal(t, 1, first.Pos.Line)
	assert.Equal(t, 1, first.Pos.Col)

	second := l.Next()
	assert.Equal(t, 2, second.Pos.Line)
	assert.Equal(t, 1, second.Pos.Col)
}

func TestLexer_CommentsSkipped(t *testing.T) {
	types := tokenTypes(t, "// a line comment\n/* a block\ncomment */ define")
	assert.Equal(t, []sbltoken.Type{sbltoken.KeywordToken, sbltoken.EOFToken}, types)
}

func TestLexer_UnexpectedChar(t *testing.T) {
	l := New("@")
	tok := l.Next()
	assert.Equal(t, sbltoken.UnexpectedCharErrorToken, tok.Type)
	require.NotNil(t, l.Err())
}
