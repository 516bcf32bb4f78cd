/*
File    : sync/internal/lexer/lexer_test.go
Package : lexer
*/

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synlang/sync/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_Arithmetic(t *testing.T) {
	toks, err := Tokenize("2 + 3 * 4", "t.syn")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.INT, token.PLUS, token.INT, token.STAR, token.INT, token.EOF}, kinds(toks))
}

func TestTokenize_TabColumnWidth(t *testing.T) {
	toks, err := Tokenize("\tx", "t.syn")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, 5, toks[0].Column)
}

func TestTokenize_DeclarationWithType(t *testing.T) {
	toks, err := Tokenize("x : i32;", "t.syn")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.IDENT, token.COLON, token.BUILTIN_TYPE, token.SEMI, token.EOF}, kinds(toks))
}

func TestTokenize_StructRegistersUserType(t *testing.T) {
	toks, err := Tokenize("struct P { x : i32; } y : P;", "t.syn")
	require.NoError(t, err)
	k := kinds(toks)
	// struct, P(user-type decl), {, x, :, i32, ;, }, y, :, P(user-type), ;, EOF
	assert.Equal(t, token.STRUCT, k[0])
	assert.Equal(t, token.USER_TYPE, k[1])
	assert.Equal(t, token.USER_TYPE, k[len(k)-3])
}

func TestTokenize_DocAndLineComment(t *testing.T) {
	toks, err := Tokenize("/// hello\n// world\n", "t.syn")
	require.NoError(t, err)
	assert.Equal(t, token.DOC_COMMENT, toks[0].Kind)
	assert.Equal(t, " hello", toks[0].Literal)
	assert.Equal(t, token.COMMENT, toks[1].Kind)
}

func TestTokenize_BlockCommentNormalisesWhitespace(t *testing.T) {
	toks, err := Tokenize("/* a   b\n  c */", "t.syn")
	require.NoError(t, err)
	assert.Equal(t, "a b c", toks[0].Literal)
}

func TestTokenize_StringEscapes(t *testing.T) {
	toks, err := Tokenize(`"hi\n"`, "t.syn")
	require.NoError(t, err)
	assert.Equal(t, `hi\n`, toks[0].Literal)
}

func TestTokenize_UnterminatedStringIsError(t *testing.T) {
	_, err := Tokenize(`"hi`, "t.syn")
	require.Error(t, err)
}

func TestTokenize_StrayCharacterIsError(t *testing.T) {
	_, err := Tokenize("@", "t.syn")
	require.Error(t, err)
}

func TestTokenize_ShiftAfterSemiStaysTwoGT(t *testing.T) {
	toks, err := Tokenize("a >> b;", "t.syn")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.IDENT, token.GT, token.GT, token.IDENT, token.SEMI, token.EOF}, kinds(toks))
}

func TestTokenize_NestedPointerAngleBracketsSplit(t *testing.T) {
	toks, err := Tokenize("p : ptr<ptr<i32>>;", "t.syn")
	require.NoError(t, err)
	k := kinds(toks)
	// No `=` precedes the `>>` here, so it splits into two `>` tokens
	// the same way the original's lexer_lexall does when encountered_equal
	// is still false — the parser's consumeTypeClose closes nested
	// pointer types on either a lone GT or a GT pair, so the split is
	// harmless to `ptr<ptr<i32>>`.
	assert.NotContains(t, k, token.SHR)
	count := 0
	for _, kind := range k {
		if kind == token.GT {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestTokenize_ShiftAfterAssignStaysTogether(t *testing.T) {
	toks, err := Tokenize("x = y >> 1;", "t.syn")
	require.NoError(t, err)
	// The `>>` follows a `=` within the same statement, so it lexes as
	// a genuine right-shift operator instead of being split.
	assert.Contains(t, kinds(toks), token.SHR)
}

func TestTokenize_FloatLiteral(t *testing.T) {
	toks, err := Tokenize("3.14", "t.syn")
	require.NoError(t, err)
	assert.Equal(t, token.FLOAT, toks[0].Kind)
	assert.Equal(t, "3.14", toks[0].Literal)
}
