package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charmcc/internal/token"
)

func tokenStrs(t *testing.T, tok *token.Token) []string {
	var out []string
	for tok != nil {
		if tok.Kind == token.EOF {
			break
		}
		out = append(out, tok.Str)
		tok = tok.Next
	}
	return out
}

func TestLex(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"empty", "", nil},
		{"arithmetic", "1+2*3", []string{"1", "+", "2", "*", "3"}},
		{"keywords", "int x; return x;", []string{"int", "x", ";", "return", "x", ";"}},
		{"multichar punct", "a==b!=c<=d>=e", []string{"a", "==", "b", "!=", "c", "<=", "d", ">=", "e"}},
		{"pointer decl", "int *p;", []string{"int", "*", "p", ";"}},
		{"array decl", "int a[3];", []string{"int", "a", "[", "3", "]", ";"}},
		{"whitespace insensitive", "  int\tx\n=\r5 ;  ", []string{"int", "x", "=", "5", ";"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := Lex(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tokenStrs(t, tok))
		})
	}
}

func TestLexEndsInEOF(t *testing.T) {
	tok, err := Lex("1+1")
	require.NoError(t, err)
	for tok.Next != nil {
		tok = tok.Next
	}
	assert.True(t, tok.IsEOF())
}

func TestLexNumberValue(t *testing.T) {
	tok, err := Lex("1234")
	require.NoError(t, err)
	assert.Equal(t, token.NUM, tok.Kind)
	assert.Equal(t, 1234, tok.Val)
}

func TestLexKeywordIsReserved(t *testing.T) {
	tok, err := Lex("if")
	require.NoError(t, err)
	assert.Equal(t, token.RESERVED, tok.Kind)
}

func TestLexIdentNotKeywordIsIdent(t *testing.T) {
	tok, err := Lex("iffy")
	require.NoError(t, err)
	assert.Equal(t, token.IDENT, tok.Kind)
}

func TestLexUnrecognizedByte(t *testing.T) {
	_, err := Lex("int x = 1 $ 2;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized byte")
}

func TestLexOffsets(t *testing.T) {
	tok, err := Lex("ab cd")
	require.NoError(t, err)
	assert.Equal(t, 0, tok.Offset)
	assert.Equal(t, 3, tok.Next.Offset)
}
