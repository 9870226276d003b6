package parser

import "github.com/aledsdavies/minlang/pkgs/lexer"

// unaryPrecedence returns the binding power of a prefix unary operator, or
// 0 if kind is not one. Unary operators bind tighter than any binary one.
func unaryPrecedence(kind lexer.Kind) int {
	switch kind {
	case lexer.PlusToken, lexer.MinusToken, lexer.BangToken, lexer.TildeToken:
		return 8
	default:
		return 0
	}
}

// binaryPrecedence returns the binding power of a binary operator, or 0 if
// kind is not one. Listed high to low: "* /", "+ -", "== !=", "< <= > >=",
// "&& &", "|| |", "^".
func binaryPrecedence(kind lexer.Kind) int {
	switch kind {
	case lexer.StarToken, lexer.SlashToken:
		return 7
	case lexer.PlusToken, lexer.MinusToken:
		return 6
	case lexer.EqualsEqualsToken, lexer.BangEqualsToken:
		return 5
	case lexer.LessToken, lexer.LessOrEqualsToken, lexer.GreaterToken, lexer.GreaterOrEqualsToken:
		return 4
	case lexer.AmpersandAmpersandToken, lexer.AmpersandToken:
		return 3
	case lexer.PipePipeToken, lexer.PipeToken:
		return 2
	case lexer.HatToken:
		return 1
	default:
		return 0
	}
}
