package binder

import (
	"github.com/aledsdavies/minlang/pkgs/lexer"
	"github.com/aledsdavies/minlang/pkgs/symbols"
)

var unaryOperators = []struct {
	syntaxKind  lexer.Kind
	kind        UnaryOperatorKind
	operandType *symbols.Type
	resultType  *symbols.Type
}{
	{lexer.PlusToken, Identity, symbols.Int, symbols.Int},
	{lexer.PlusToken, Identity, symbols.Float, symbols.Float},
	{lexer.MinusToken, Negation, symbols.Int, symbols.Int},
	{lexer.MinusToken, Negation, symbols.Float, symbols.Float},
	{lexer.BangToken, LogicalNegation, symbols.Bool, symbols.Bool},
	{lexer.TildeToken, OnesComplement, symbols.Int, symbols.Int},
}

// bindUnaryOperator resolves which (if any) unary operator applies to a
// syntax kind and an operand type.
func bindUnaryOperator(syntaxKind lexer.Kind, operandType *symbols.Type) *UnaryOperator {
	for _, op := range unaryOperators {
		if op.syntaxKind == syntaxKind && op.operandType == operandType {
			return &UnaryOperator{Kind: op.kind, OperandType: op.operandType, ResultType: op.resultType}
		}
	}
	return nil
}

var binaryOperators = []struct {
	syntaxKind lexer.Kind
	kind       BinaryOperatorKind
	leftType   *symbols.Type
	rightType  *symbols.Type
	resultType *symbols.Type
}{
	{lexer.PlusToken, Addition, symbols.Int, symbols.Int, symbols.Int},
	{lexer.PlusToken, Addition, symbols.Float, symbols.Float, symbols.Float},
	{lexer.PlusToken, Addition, symbols.String, symbols.String, symbols.String},
	{lexer.PlusToken, Addition, symbols.String, symbols.Int, symbols.String},
	{lexer.PlusToken, Addition, symbols.Int, symbols.String, symbols.String},
	{lexer.PlusToken, Addition, symbols.String, symbols.Float, symbols.String},
	{lexer.PlusToken, Addition, symbols.Float, symbols.String, symbols.String},
	{lexer.MinusToken, Subtraction, symbols.Int, symbols.Int, symbols.Int},
	{lexer.MinusToken, Subtraction, symbols.Float, symbols.Float, symbols.Float},
	{lexer.StarToken, Multiplication, symbols.Int, symbols.Int, symbols.Int},
	{lexer.StarToken, Multiplication, symbols.Float, symbols.Float, symbols.Float},
	{lexer.SlashToken, Division, symbols.Int, symbols.Int, symbols.Int},
	{lexer.SlashToken, Division, symbols.Float, symbols.Float, symbols.Float},

	{lexer.AmpersandToken, BitwiseAnd, symbols.Int, symbols.Int, symbols.Int},
	{lexer.AmpersandToken, BitwiseAnd, symbols.Bool, symbols.Bool, symbols.Bool},
	{lexer.AmpersandAmpersandToken, LogicalAnd, symbols.Bool, symbols.Bool, symbols.Bool},
	{lexer.PipeToken, BitwiseOr, symbols.Int, symbols.Int, symbols.Int},
	{lexer.PipeToken, BitwiseOr, symbols.Bool, symbols.Bool, symbols.Bool},
	{lexer.PipePipeToken, LogicalOr, symbols.Bool, symbols.Bool, symbols.Bool},
	{lexer.HatToken, BitwiseXor, symbols.Int, symbols.Int, symbols.Int},
	{lexer.HatToken, BitwiseXor, symbols.Bool, symbols.Bool, symbols.Bool},

	{lexer.EqualsEqualsToken, Equals, symbols.Int, symbols.Int, symbols.Bool},
	{lexer.EqualsEqualsToken, Equals, symbols.Float, symbols.Float, symbols.Bool},
	{lexer.EqualsEqualsToken, Equals, symbols.Bool, symbols.Bool, symbols.Bool},
	{lexer.EqualsEqualsToken, Equals, symbols.String, symbols.String, symbols.Bool},
	{lexer.BangEqualsToken, NotEquals, symbols.Int, symbols.Int, symbols.Bool},
	{lexer.BangEqualsToken, NotEquals, symbols.Float, symbols.Float, symbols.Bool},
	{lexer.BangEqualsToken, NotEquals, symbols.Bool, symbols.Bool, symbols.Bool},
	{lexer.BangEqualsToken, NotEquals, symbols.String, symbols.String, symbols.Bool},

	{lexer.LessToken, Less, symbols.Int, symbols.Int, symbols.Bool},
	{lexer.LessToken, Less, symbols.Float, symbols.Float, symbols.Bool},
	{lexer.LessOrEqualsToken, LessOrEquals, symbols.Int, symbols.Int, symbols.Bool},
	{lexer.LessOrEqualsToken, LessOrEquals, symbols.Float, symbols.Float, symbols.Bool},
	{lexer.GreaterToken, Greater, symbols.Int, symbols.Int, symbols.Bool},
	{lexer.GreaterToken, Greater, symbols.Float, symbols.Float, symbols.Bool},
	{lexer.GreaterOrEqualsToken, GreaterOrEquals, symbols.Int, symbols.Int, symbols.Bool},
	{lexer.GreaterOrEqualsToken, GreaterOrEquals, symbols.Float, symbols.Float, symbols.Bool},
}

// bindBinaryOperator resolves which (if any) binary operator applies to
// a syntax kind and a pair of operand types.
func bindBinaryOperator(syntaxKind lexer.Kind, leftType, rightType *symbols.Type) *BinaryOperator {
	for _, op := range binaryOperators {
		if op.syntaxKind == syntaxKind && op.leftType == leftType && op.rightType == rightType {
			return &BinaryOperator{Kind: op.kind, LeftType: op.leftType, RightType: op.rightType, ResultType: op.resultType}
		}
	}
	return nil
}
