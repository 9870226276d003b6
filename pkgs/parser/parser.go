// Package parser is a Pratt-style precedence parser that turns a lexer
// token stream into a concrete syntax tree, reporting syntactic errors and
// recovering from them by synthesizing tokens and skipping input.
package parser

import (
	"strconv"
	"strings"

	"github.com/aledsdavies/minlang/pkgs/diagnostics"
	"github.com/aledsdavies/minlang/pkgs/lexer"
	"github.com/aledsdavies/minlang/pkgs/source"
	"github.com/aledsdavies/minlang/pkgs/syntax"
)

// Parser consumes a fixed token slice by index, building a syntax.Node
// tree. Use Parse to obtain a *syntax.CompilationUnit.
type Parser struct {
	text   *source.Text
	tokens []lexer.Token
	pos    int
	diag   *diagnostics.Bag
}

// Parse lexes text and parses the resulting tokens into a CompilationUnit,
// collecting diagnostics from both stages into diag.
func Parse(text *source.Text, diag *diagnostics.Bag) *syntax.CompilationUnit {
	toks := lexer.New(text, diag).Tokenize()
	p := &Parser{text: text, tokens: toks, diag: diag}
	return p.parseCompilationUnit()
}

func (p *Parser) current() lexer.Token { return p.peek(0) }

func (p *Parser) peek(offset int) lexer.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches kind; otherwise it
// reports "unexpected token, expected …" and returns a zero-width
// synthesized token of kind at the current position, without advancing.
func (p *Parser) expect(kind lexer.Kind) lexer.Token {
	if p.current().Kind == kind {
		return p.advance()
	}
	p.diag.ReportSyntax(p.loc(p.current()), "unexpected token %s, expected %s", p.current().Kind, kind)
	return lexer.Token{Kind: kind, Span: source.TextSpan{Start: p.current().Span.Start, Length: 0}}
}

func (p *Parser) loc(tok lexer.Token) source.Location {
	return source.Location{Text: p.text, Span: tok.Span}
}

// sameLine reports whether two spans start on the same source line, used
// to decide whether "return" is followed by an expression.
func (p *Parser) sameLine(a, b lexer.Token) bool {
	la, _ := p.text.LineColumn(a.Span.Start)
	lb, _ := p.text.LineColumn(b.Span.Start)
	return la == lb
}

func (p *Parser) parseCompilationUnit() *syntax.CompilationUnit {
	var members []syntax.Member
	for p.current().Kind != lexer.EndOfFileToken {
		start := p.pos
		members = append(members, p.parseMember())
		if p.pos == start {
			p.advance()
		}
	}
	return &syntax.CompilationUnit{Members: members, EOF: p.current()}
}

func (p *Parser) parseMember() syntax.Member {
	if p.current().Kind == lexer.FunctionKeyword {
		return p.parseFunctionDeclaration()
	}
	return &syntax.GlobalStatement{Statement: p.parseStatement()}
}

func (p *Parser) parseFunctionDeclaration() *syntax.FunctionDeclaration {
	keyword := p.advance()
	name := p.expect(lexer.IdentifierToken)
	open := p.expect(lexer.OpenParenToken)
	params := parseSeparated(p, lexer.CloseParenToken, p.parseParameter)
	closeParen := p.expect(lexer.CloseParenToken)

	var returnType *syntax.TypeClause
	if p.current().Kind == lexer.ColonToken {
		returnType = p.parseTypeClause()
	}

	body := p.parseBlockStatement()
	return &syntax.FunctionDeclaration{
		FunctionKeyword: keyword,
		Identifier:      name,
		OpenParen:       open,
		Parameters:      params,
		CloseParen:      closeParen,
		ReturnType:      returnType,
		Body:            body,
	}
}

func (p *Parser) parseParameter() syntax.Parameter {
	name := p.expect(lexer.IdentifierToken)
	typ := p.parseTypeClause()
	return syntax.Parameter{Identifier: name, Type: typ}
}

// parseTypeClause parses ": name" optionally followed by "[size?]".
func (p *Parser) parseTypeClause() *syntax.TypeClause {
	colon := p.expect(lexer.ColonToken)
	ident := p.expect(lexer.IdentifierToken)
	tc := &syntax.TypeClause{Colon: colon, Identifier: ident}
	if p.current().Kind == lexer.OpenBracketToken {
		open := p.advance()
		tc.OpenBracket = &open
		if p.current().Kind == lexer.NumberToken {
			size := p.advance()
			tc.Size = &size
		}
		closeTok := p.expect(lexer.CloseBracketToken)
		tc.CloseBracket = &closeTok
	}
	return tc
}

// parseSeparated parses a comma-separated list of T until the current
// token is stopAt or EndOfFile, recording every comma it consumes so
// callers can blame a specific separator for too-many-arguments errors.
func parseSeparated[T syntax.Node](p *Parser, stopAt lexer.Kind, parseItem func() T) syntax.Separated[T] {
	var sep syntax.Separated[T]
	for p.current().Kind != stopAt && p.current().Kind != lexer.EndOfFileToken {
		start := p.pos
		sep.Items = append(sep.Items, parseItem())
		if p.current().Kind == lexer.CommaToken {
			sep.Separators = append(sep.Separators, p.advance())
		} else {
			break
		}
		if p.pos == start {
			p.advance()
		}
	}
	return sep
}

func (p *Parser) parseStatement() syntax.Statement {
	switch p.current().Kind {
	case lexer.OpenBraceToken:
		return p.parseBlockStatement()
	case lexer.VarKeyword, lexer.LetKeyword, lexer.ConstKeyword:
		return p.parseVariableDeclaration()
	case lexer.IfKeyword:
		return p.parseIfStatement()
	case lexer.WhileKeyword:
		return p.parseWhileStatement()
	case lexer.ForKeyword:
		return p.parseForStatement()
	case lexer.BreakKeyword:
		return &syntax.BreakStatement{BreakKeyword: p.advance()}
	case lexer.ContinueKeyword:
		return &syntax.ContinueStatement{ContinueKeyword: p.advance()}
	case lexer.ReturnKeyword:
		return p.parseReturnStatement()
	default:
		return &syntax.ExpressionStatement{Expression: p.parseExpression()}
	}
}

func (p *Parser) parseBlockStatement() *syntax.BlockStatement {
	open := p.expect(lexer.OpenBraceToken)
	var statements []syntax.Statement
	for p.current().Kind != lexer.CloseBraceToken && p.current().Kind != lexer.EndOfFileToken {
		start := p.pos
		statements = append(statements, p.parseStatement())
		if p.pos == start {
			p.advance()
		}
	}
	closeBrace := p.expect(lexer.CloseBraceToken)
	return &syntax.BlockStatement{OpenBrace: open, Statements: statements, CloseBrace: closeBrace}
}

func (p *Parser) parseVariableDeclaration() *syntax.VariableDeclaration {
	keyword := p.advance()
	name := p.expect(lexer.IdentifierToken)

	var typeClause *syntax.TypeClause
	if p.current().Kind == lexer.ColonToken {
		typeClause = p.parseTypeClause()
	}

	var equals *lexer.Token
	var init syntax.Expression
	if p.current().Kind == lexer.EqualsToken {
		e := p.advance()
		equals = &e
		init = p.parseExpression()
	}

	return &syntax.VariableDeclaration{
		Keyword:     keyword,
		Identifier:  name,
		TypeClause:  typeClause,
		EqualsToken: equals,
		Initializer: init,
	}
}

func (p *Parser) parseIfStatement() *syntax.IfStatement {
	keyword := p.advance()
	cond := p.parseExpression()
	then := p.parseStatement()
	var elseClause *syntax.ElseClause
	if p.current().Kind == lexer.ElseKeyword {
		elseKeyword := p.advance()
		elseClause = &syntax.ElseClause{ElseKeyword: elseKeyword, Body: p.parseStatement()}
	}
	return &syntax.IfStatement{IfKeyword: keyword, Condition: cond, Then: then, Else: elseClause}
}

func (p *Parser) parseWhileStatement() *syntax.WhileStatement {
	keyword := p.advance()
	cond := p.parseExpression()
	body := p.parseStatement()
	return &syntax.WhileStatement{WhileKeyword: keyword, Condition: cond, Body: body}
}

func (p *Parser) parseForStatement() *syntax.ForStatement {
	keyword := p.advance()
	ident := p.expect(lexer.IdentifierToken)
	equals := p.expect(lexer.EqualsToken)
	lower := p.parseExpression()
	to := p.expect(lexer.ToKeyword)
	upper := p.parseExpression()
	body := p.parseStatement()
	return &syntax.ForStatement{
		ForKeyword: keyword, Identifier: ident, EqualsToken: equals,
		LowerBound: lower, ToKeyword: to, UpperBound: upper, Body: body,
	}
}

func (p *Parser) parseReturnStatement() *syntax.ReturnStatement {
	keyword := p.advance()
	var expr syntax.Expression
	next := p.current()
	hasExpr := next.Kind != lexer.CloseBraceToken && next.Kind != lexer.EndOfFileToken && p.sameLine(keyword, next)
	if hasExpr {
		expr = p.parseExpression()
	}
	return &syntax.ReturnStatement{ReturnKeyword: keyword, Expression: expr}
}

func (p *Parser) parseExpression() syntax.Expression {
	return p.parseAssignmentExpression()
}

// parseAssignmentExpression looks two tokens ahead for "identifier =" to
// distinguish a plain assignment from a primary/binary expression, and
// rewrites a binary-parsed array access followed by "=" into an array
// assignment.
func (p *Parser) parseAssignmentExpression() syntax.Expression {
	if p.current().Kind == lexer.IdentifierToken && p.peek(1).Kind == lexer.EqualsToken {
		identifier := p.advance()
		equals := p.advance()
		right := p.parseAssignmentExpression()
		return &syntax.AssignmentExpression{IdentifierToken: identifier, EqualsToken: equals, Expression: right}
	}

	left := p.parseBinaryExpression(0)

	if access, ok := left.(*syntax.ArrayAccessExpression); ok && p.current().Kind == lexer.EqualsToken {
		equals := p.advance()
		value := p.parseAssignmentExpression()
		return &syntax.ArrayAssignmentExpression{
			Receiver: access.Receiver, OpenBracket: access.OpenBracket,
			Index: access.Index, CloseBracket: access.CloseBracket,
			EqualsToken: equals, Value: value,
		}
	}
	return left
}

func (p *Parser) parseBinaryExpression(parentPrecedence int) syntax.Expression {
	var left syntax.Expression

	if prec := unaryPrecedence(p.current().Kind); prec != 0 && prec >= parentPrecedence {
		op := p.advance()
		operand := p.parseBinaryExpression(prec)
		left = &syntax.UnaryExpression{OperatorToken: op, Operand: operand}
	} else {
		left = p.parsePrimaryExpression()
	}

	for {
		prec := binaryPrecedence(p.current().Kind)
		if prec == 0 || prec <= parentPrecedence {
			break
		}
		op := p.advance()
		right := p.parseBinaryExpression(prec)
		left = &syntax.BinaryExpression{Left: left, OperatorToken: op, Right: right}
	}
	return left
}

func (p *Parser) parsePrimaryExpression() syntax.Expression {
	var expr syntax.Expression
	switch p.current().Kind {
	case lexer.OpenParenToken:
		expr = p.parseParenthesizedExpression()
	case lexer.OpenBracketToken:
		expr = p.parseArrayInitializerExpression()
	case lexer.NumberToken:
		expr = p.parseNumberLiteral()
	case lexer.StringToken:
		tok := p.advance()
		expr = &syntax.LiteralExpression{LiteralToken: tok, Value: tok.Lexeme}
	case lexer.TrueKeyword:
		tok := p.advance()
		expr = &syntax.LiteralExpression{LiteralToken: tok, Value: true}
	case lexer.FalseKeyword:
		tok := p.advance()
		expr = &syntax.LiteralExpression{LiteralToken: tok, Value: false}
	case lexer.IdentifierToken:
		if p.peek(1).Kind == lexer.OpenParenToken {
			expr = p.parseCallExpression()
		} else {
			expr = &syntax.NameExpression{IdentifierToken: p.advance()}
		}
	default:
		p.diag.ReportSyntax(p.loc(p.current()), "unexpected token %s, expected expression", p.current().Kind)
		synth := lexer.Token{Kind: lexer.IdentifierToken, Span: source.TextSpan{Start: p.current().Span.Start, Length: 0}}
		if p.current().Kind != lexer.EndOfFileToken {
			p.advance()
		}
		expr = &syntax.NameExpression{IdentifierToken: synth}
	}

	for p.current().Kind == lexer.OpenBracketToken {
		open := p.advance()
		index := p.parseExpression()
		closeTok := p.expect(lexer.CloseBracketToken)
		expr = &syntax.ArrayAccessExpression{Receiver: expr, OpenBracket: open, Index: index, CloseBracket: closeTok}
	}
	return expr
}

func (p *Parser) parseNumberLiteral() syntax.Expression {
	tok := p.advance()
	if strings.Contains(tok.Lexeme, ".") {
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.diag.ReportSyntax(p.loc(tok), "the number '%s' is not valid", tok.Lexeme)
		}
		return &syntax.LiteralExpression{LiteralToken: tok, Value: v}
	}
	v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		p.diag.ReportSyntax(p.loc(tok), "the number '%s' is not valid", tok.Lexeme)
	}
	return &syntax.LiteralExpression{LiteralToken: tok, Value: v}
}

func (p *Parser) parseParenthesizedExpression() syntax.Expression {
	open := p.advance()
	inner := p.parseExpression()
	closeTok := p.expect(lexer.CloseParenToken)
	return &syntax.ParenthesizedExpression{OpenParen: open, Expression: inner, CloseParen: closeTok}
}

func (p *Parser) parseArrayInitializerExpression() syntax.Expression {
	open := p.advance()
	elements := parseSeparated(p, lexer.CloseBracketToken, p.parseExpression)
	closeTok := p.expect(lexer.CloseBracketToken)
	return &syntax.ArrayInitializerExpression{OpenBracket: open, Elements: elements, CloseBracket: closeTok}
}

func (p *Parser) parseCallExpression() syntax.Expression {
	identifier := p.advance()
	open := p.advance() // OpenParenToken, already confirmed by caller
	args := parseSeparated(p, lexer.CloseParenToken, p.parseExpression)
	closeTok := p.expect(lexer.CloseParenToken)
	return &syntax.CallExpression{Identifier: identifier, OpenParen: open, Arguments: args, CloseParen: closeTok}
}
