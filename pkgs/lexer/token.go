package lexer

import "github.com/aledsdavies/minlang/pkgs/source"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EndOfFileToken Kind = iota
	BadToken

	// Literals and names.
	NumberToken
	StringToken
	IdentifierToken
	TrueKeyword
	FalseKeyword

	// Keywords.
	VarKeyword
	LetKeyword
	ConstKeyword
	IfKeyword
	ElseKeyword
	WhileKeyword
	ForKeyword
	ToKeyword
	FunctionKeyword
	BreakKeyword
	ContinueKeyword
	ReturnKeyword

	// Punctuation.
	PlusToken
	MinusToken
	StarToken
	SlashToken
	OpenParenToken
	CloseParenToken
	OpenBraceToken
	CloseBraceToken
	OpenBracketToken
	CloseBracketToken
	CommaToken
	ColonToken
	SemicolonToken
	TildeToken
	HatToken
	AmpersandToken
	AmpersandAmpersandToken
	PipeToken
	PipePipeToken
	EqualsToken
	EqualsEqualsToken
	BangEqualsToken
	LessToken
	LessOrEqualsToken
	GreaterToken
	GreaterOrEqualsToken
	BangToken
)

var kindNames = map[Kind]string{
	EndOfFileToken:          "end of file",
	BadToken:                "bad token",
	NumberToken:             "number",
	StringToken:             "string",
	IdentifierToken:         "identifier",
	TrueKeyword:             "'true'",
	FalseKeyword:            "'false'",
	VarKeyword:              "'var'",
	LetKeyword:              "'let'",
	ConstKeyword:            "'const'",
	IfKeyword:               "'if'",
	ElseKeyword:             "'else'",
	WhileKeyword:            "'while'",
	ForKeyword:              "'for'",
	ToKeyword:               "'to'",
	FunctionKeyword:         "'function'",
	BreakKeyword:            "'break'",
	ContinueKeyword:         "'continue'",
	ReturnKeyword:           "'return'",
	PlusToken:               "'+'",
	MinusToken:              "'-'",
	StarToken:               "'*'",
	SlashToken:              "'/'",
	OpenParenToken:          "'('",
	CloseParenToken:         "')'",
	OpenBraceToken:          "'{'",
	CloseBraceToken:         "'}'",
	OpenBracketToken:        "'['",
	CloseBracketToken:       "']'",
	CommaToken:              "','",
	ColonToken:              "':'",
	SemicolonToken:          "';'",
	TildeToken:              "'~'",
	HatToken:                "'^'",
	AmpersandToken:          "'&'",
	AmpersandAmpersandToken: "'&&'",
	PipeToken:               "'|'",
	PipePipeToken:           "'||'",
	EqualsToken:             "'='",
	EqualsEqualsToken:       "'=='",
	BangEqualsToken:         "'!='",
	LessToken:               "'<'",
	LessOrEqualsToken:       "'<='",
	GreaterToken:            "'>'",
	GreaterOrEqualsToken:    "'>='",
	BangToken:               "'!'",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown token"
}

// keywords maps reserved identifiers to their keyword Kind.
var keywords = map[string]Kind{
	"var":      VarKeyword,
	"let":      LetKeyword,
	"const":    ConstKeyword,
	"if":       IfKeyword,
	"else":     ElseKeyword,
	"while":    WhileKeyword,
	"for":      ForKeyword,
	"to":       ToKeyword,
	"function": FunctionKeyword,
	"break":    BreakKeyword,
	"continue": ContinueKeyword,
	"return":   ReturnKeyword,
	"true":     TrueKeyword,
	"false":    FalseKeyword,
}

// LookupKeyword classifies an identifier as a keyword Kind, or
// IdentifierToken if it is not reserved.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return IdentifierToken
}

// Token is a single lexical unit: its kind, source span, and lexeme. For
// strings the lexeme is the decoded content, not the raw quoted text.
type Token struct {
	Kind   Kind
	Lexeme string
	Span   source.TextSpan
}

// IsMissing reports whether this is a zero-width token synthesized by the
// parser's error recovery rather than lexed from real source.
func (t Token) IsMissing() bool { return t.Span.Length == 0 && t.Kind != EndOfFileToken }
