package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/lexer"
	"github.com/aledsdavies/minlang/pkgs/source"
)

func tokenize(t *testing.T, text string) ([]lexer.Token, *diagnostics.Bag) {
	t.Helper()
	diag := diagnostics.NewBag()
	toks := lexer.New(source.New("test", text), diag).Tokenize()
	return toks, diag
}

func kinds(toks []lexer.Token) []lexer.Kind {
	var ks []lexer.Kind
	for _, tok := range toks {
		ks = append(ks, tok.Kind)
	}
	return ks
}

func TestDigraphsTakePrecedence(t *testing.T) {
	toks, diag := tokenize(t, "== != <= >= && || // line\n/* block */")
	require.False(t, diag.HasErrors())
	require.Equal(t, []lexer.Kind{
		lexer.EqualsEqualsToken,
		lexer.BangEqualsToken,
		lexer.LessOrEqualsToken,
		lexer.GreaterOrEqualsToken,
		lexer.AmpersandAmpersandToken,
		lexer.PipePipeToken,
		lexer.EndOfFileToken,
	}, kinds(toks))
}

func TestNumberFollowedByLetterIsBad(t *testing.T) {
	toks, diag := tokenize(t, "123abc")
	require.True(t, diag.HasErrors())
	require.Contains(t, diag.Items()[0].Message, "not valid")
	require.Equal(t, lexer.BadToken, toks[0].Kind)
	require.Equal(t, "123abc", toks[0].Lexeme)
}

func TestStringEscapes(t *testing.T) {
	toks, diag := tokenize(t, `"a\nb\t\"c\\"`)
	require.False(t, diag.HasErrors())
	require.Equal(t, lexer.StringToken, toks[0].Kind)
	require.Equal(t, "a\nb\t\"c\\", toks[0].Lexeme)
}

func TestUnterminatedStringReportsAndRecovers(t *testing.T) {
	toks, diag := tokenize(t, "\"abc\nrest")
	require.True(t, diag.HasErrors())
	require.Contains(t, diag.Items()[0].Message, "unterminated string")
	require.Equal(t, lexer.BadToken, toks[0].Kind)
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, diag := tokenize(t, "/* never closes")
	require.True(t, diag.HasErrors())
	require.Contains(t, diag.Items()[0].Message, "unterminated block comment")
}

func TestBadCharacterReportsAndAdvances(t *testing.T) {
	toks, diag := tokenize(t, "a $ b")
	require.True(t, diag.HasErrors())
	require.Contains(t, diag.Items()[0].Message, "bad character")
	require.Equal(t, []lexer.Kind{
		lexer.IdentifierToken,
		lexer.BadToken,
		lexer.IdentifierToken,
		lexer.EndOfFileToken,
	}, kinds(toks))
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks, diag := tokenize(t, "var let const if else while for to function break continue return true false foo")
	require.False(t, diag.HasErrors())
	require.Equal(t, []lexer.Kind{
		lexer.VarKeyword, lexer.LetKeyword, lexer.ConstKeyword, lexer.IfKeyword,
		lexer.ElseKeyword, lexer.WhileKeyword, lexer.ForKeyword, lexer.ToKeyword,
		lexer.FunctionKeyword, lexer.BreakKeyword, lexer.ContinueKeyword, lexer.ReturnKeyword,
		lexer.TrueKeyword, lexer.FalseKeyword, lexer.IdentifierToken, lexer.EndOfFileToken,
	}, kinds(toks))
}

func TestFloatLiteral(t *testing.T) {
	toks, diag := tokenize(t, "3.14")
	require.False(t, diag.HasErrors())
	require.Equal(t, lexer.NumberToken, toks[0].Kind)
	require.Equal(t, "3.14", toks[0].Lexeme)
}
