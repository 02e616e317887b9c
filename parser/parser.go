// Package parser builds an *ast.Program from calc source text.
package parser

import (
	"github.com/podhmo/go-calc/ast"
	"github.com/podhmo/go-calc/lexer"
)

type (
	prefixParser func() ast.Expr
	infixParser  func(ast.Expr) ast.Expr
)

const (
	PREC_LOWEST  = iota
	PREC_TERNARY // ?:
	PREC_OR      // ||
	PREC_AND     // &&
	PREC_EQ      // ==, !=
	PREC_CMP     // <, <=, >, >=
	PREC_SUM     // +, -
	PREC_PRODUCT // *, /, %
	PREC_UNARY   // -, !
	PREC_POWER   // **
	PREC_POSTFIX // []
)

type Parser struct {
	filename      string
	tokens        []lexer.Token
	Errors        ErrorList
	curr          int // how many tokens have been consumed
	prefixParsers map[lexer.TokenType]prefixParser
	infixParsers  map[lexer.TokenType]infixParser
	precedences   map[lexer.TokenType]int
}

// New creates a parser over tokens, which must end with EOF.
func New(filename string, tokens []lexer.Token) *Parser {
	p := &Parser{
		filename: filename,
		tokens:   tokens,
	}
	p.prefixParsers = map[lexer.TokenType]prefixParser{
		lexer.NUMBER:       p.numeral,
		lexer.TRUE:         p.boolean,
		lexer.FALSE:        p.boolean,
		lexer.IDENTIFIER:   p.identifier,
		lexer.LEFT_PAREN:   p.grouping,
		lexer.LEFT_BRACKET: p.array,
		lexer.MINUS:        p.unary,
		lexer.BANG:         p.unary,
	}
	// every entry in infixParsers needs a matching entry in precedences.
	p.infixParsers = map[lexer.TokenType]infixParser{
		lexer.QUESTION:      p.conditional,
		lexer.OR_OR:         p.binary,
		lexer.AND_AND:       p.binary,
		lexer.EQUAL_EQUAL:   p.binary,
		lexer.BANG_EQUAL:    p.binary,
		lexer.LESS:          p.binary,
		lexer.LESS_EQUAL:    p.binary,
		lexer.GREATER:       p.binary,
		lexer.GREATER_EQUAL: p.binary,
		lexer.PLUS:          p.binary,
		lexer.MINUS:         p.binary,
		lexer.STAR:          p.binary,
		lexer.SLASH:         p.binary,
		lexer.PERCENT:       p.binary,
		lexer.STAR_STAR:     p.power,
		lexer.LEFT_BRACKET:  p.subscript,
	}
	p.precedences = map[lexer.TokenType]int{
		lexer.QUESTION:      PREC_TERNARY,
		lexer.OR_OR:         PREC_OR,
		lexer.AND_AND:       PREC_AND,
		lexer.EQUAL_EQUAL:   PREC_EQ,
		lexer.BANG_EQUAL:    PREC_EQ,
		lexer.LESS:          PREC_CMP,
		lexer.LESS_EQUAL:    PREC_CMP,
		lexer.GREATER:       PREC_CMP,
		lexer.GREATER_EQUAL: PREC_CMP,
		lexer.PLUS:          PREC_SUM,
		lexer.MINUS:         PREC_SUM,
		lexer.STAR:          PREC_PRODUCT,
		lexer.SLASH:         PREC_PRODUCT,
		lexer.PERCENT:       PREC_PRODUCT,
		lexer.STAR_STAR:     PREC_POWER,
		lexer.LEFT_BRACKET:  PREC_POSTFIX,
	}
	return p
}

// Parse lexes and parses src. The returned error is an ErrorList holding
// every lexing and parsing error; the program is nil in that case.
func Parse(filename string, src string) (*ast.Program, error) {
	l := lexer.New(src)
	l.ScanTokens()
	if len(l.Errors) > 0 {
		errs := make(ErrorList, len(l.Errors))
		for i, e := range l.Errors {
			errs[i] = &Error{Filename: filename, Pos: e.Pos, Message: e.Message}
		}
		return nil, errs
	}
	p := New(filename, l.Tokens)
	prog := p.ParseProgram()
	if err := p.Errors.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}

// ParseExpr parses a single expression, for tests and embedding.
func ParseExpr(src string) (ast.Expr, error) {
	tokens, lexErrs := lexer.Tokenize(src)
	if len(lexErrs) > 0 {
		return nil, &Error{Pos: lexErrs[0].Pos, Message: lexErrs[0].Message}
	}
	p := New("", tokens)
	var expr ast.Expr
	func() {
		defer p.recoverBailout()
		expr = p.expression(PREC_LOWEST)
		if !p.isAtEnd() {
			tok := p.peek()
			p.error(tok.Pos, "unexpected %s after expression", describe(tok))
		}
	}()
	if err := p.Errors.Err(); err != nil {
		return nil, err
	}
	return expr, nil
}

// =====
// utils
// =====

func (p *Parser) consume() lexer.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.curr++
	}
	return tok
}

func (p *Parser) peek() lexer.Token { return p.tokens[p.curr] }

func (p *Parser) peekNext() lexer.Token {
	if p.curr+1 < len(p.tokens) {
		return p.tokens[p.curr+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) previousIs(t lexer.TokenType) bool {
	return p.curr > 0 && p.tokens[p.curr-1].Type == t
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == lexer.EOF }

func (p *Parser) check(t lexer.TokenType) bool { return p.peek().Type == t }

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.consume()
		return true
	}
	return false
}

func (p *Parser) recoverBailout() {
	if r := recover(); r != nil {
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
	}
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.IDENTIFIER, lexer.NUMBER:
		return tok.Lexeme
	default:
		return "'" + tok.Type.String() + "'"
	}
}

// ==========
// statements
// ==========

// ParseProgram parses statements until EOF, recovering after each error.
func (p *Parser) ParseProgram() *ast.Program {
	body := &ast.Block{At: p.peek().Pos}
	for !p.isAtEnd() {
		if stmt := p.safeStatement(); stmt != nil {
			body.Statements = append(body.Statements, stmt)
		}
	}
	return &ast.Program{Filename: p.filename, Body: body}
}

func (p *Parser) safeStatement() (stmt ast.Stmt) {
	start := p.curr
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			stmt = nil
			if p.curr == start {
				p.consume()
			}
			p.synchronize()
		}
	}()
	return p.statement()
}

func (p *Parser) statement() ast.Stmt {
	tok := p.peek()
	switch tok.Type {
	case lexer.LET:
		return p.variableDeclaration()
	case lexer.FUNCTION:
		return p.functionDeclaration()
	case lexer.PRINT:
		return p.printStatement()
	case lexer.WHILE:
		return p.whileStatement()
	case lexer.IDENTIFIER:
		if p.peekNext().Type == lexer.EQUAL {
			return p.assignment()
		}
	}
	p.error(tok.Pos, "expected statement, found %s", describe(tok))
	return nil
}

// let → "let" IDENT "=" expr ";"
func (p *Parser) variableDeclaration() ast.Stmt {
	at := p.consume().Pos
	name := p.expect(lexer.IDENTIFIER, "after 'let'")
	p.expect(lexer.EQUAL, "after variable name")
	init := p.expression(PREC_LOWEST)
	p.expect(lexer.SEMICOLON, "after variable declaration")
	return &ast.VariableDeclaration{At: at, Name: name.Lexeme, Initializer: init}
}

// function → "function" IDENT "(" params? ")" "=" expr ";"
func (p *Parser) functionDeclaration() ast.Stmt {
	at := p.consume().Pos
	name := p.expect(lexer.IDENTIFIER, "after 'function'")
	p.expect(lexer.LEFT_PAREN, "after function name")
	params := []string{}
	seen := map[string]bool{}
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			param := p.expect(lexer.IDENTIFIER, "in parameter list")
			if seen[param.Lexeme] {
				p.error(param.Pos, "duplicate parameter %s in function %s", param.Lexeme, name.Lexeme)
			}
			seen[param.Lexeme] = true
			params = append(params, param.Lexeme)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RIGHT_PAREN, "after parameters")
	p.expect(lexer.EQUAL, "before function body")
	body := p.expression(PREC_LOWEST)
	p.expect(lexer.SEMICOLON, "after function body")
	return &ast.FunctionDeclaration{At: at, Name: name.Lexeme, Parameters: params, Body: body}
}

// assignment → IDENT "=" expr ";"
func (p *Parser) assignment() ast.Stmt {
	name := p.consume()
	p.consume() // =
	value := p.expression(PREC_LOWEST)
	p.expect(lexer.SEMICOLON, "after assignment")
	return &ast.Assignment{At: name.Pos, Name: name.Lexeme, Value: value}
}

// print → "print" expr ";"
func (p *Parser) printStatement() ast.Stmt {
	at := p.consume().Pos
	expr := p.expression(PREC_LOWEST)
	p.expect(lexer.SEMICOLON, "after print statement")
	return &ast.PrintStatement{At: at, Expr: expr}
}

// while → "while" expr block
func (p *Parser) whileStatement() ast.Stmt {
	at := p.consume().Pos
	test := p.expression(PREC_LOWEST)
	body := p.block()
	return &ast.WhileStatement{At: at, Test: test, Body: body}
}

// block → "{" statement* "}"
func (p *Parser) block() *ast.Block {
	open := p.expect(lexer.LEFT_BRACE, "to open block")
	block := &ast.Block{At: open.Pos}
	for !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() {
		if stmt := p.safeStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.expect(lexer.RIGHT_BRACE, "to close block")
	return block
}

// ===========
// expressions
// ===========

func (p *Parser) expression(precedence int) ast.Expr {
	tok := p.peek()
	prefix, ok := p.prefixParsers[tok.Type]
	if !ok {
		p.error(tok.Pos, "expected expression, found %s", describe(tok))
	}
	left := prefix()
	for precedence < p.precedences[p.peek().Type] {
		infix := p.infixParsers[p.peek().Type]
		left = infix(left)
	}
	return left
}

func (p *Parser) numeral() ast.Expr {
	tok := p.consume()
	return &ast.Numeral{At: tok.Pos, Value: tok.Value}
}

func (p *Parser) boolean() ast.Expr {
	tok := p.consume()
	return &ast.BooleanLiteral{At: tok.Pos, Value: tok.Type == lexer.TRUE}
}

// identifier also handles calls, since only names can be called.
func (p *Parser) identifier() ast.Expr {
	tok := p.consume()
	if !p.match(lexer.LEFT_PAREN) {
		return &ast.Identifier{At: tok.Pos, Name: tok.Lexeme}
	}
	args := p.expressionList(lexer.RIGHT_PAREN, "after arguments")
	return &ast.Call{At: tok.Pos, Callee: tok.Lexeme, Arguments: args}
}

func (p *Parser) grouping() ast.Expr {
	p.consume()
	expr := p.expression(PREC_LOWEST)
	p.expect(lexer.RIGHT_PAREN, "after expression")
	return expr
}

func (p *Parser) array() ast.Expr {
	open := p.consume()
	elems := p.expressionList(lexer.RIGHT_BRACKET, "after array elements")
	return &ast.ArrayLiteral{At: open.Pos, Elements: elems}
}

// expressionList parses `e1, e2, ...` and the closing token.
func (p *Parser) expressionList(end lexer.TokenType, context string) []ast.Expr {
	list := []ast.Expr{}
	if p.match(end) {
		return list
	}
	for {
		list = append(list, p.expression(PREC_LOWEST))
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(end, context)
	return list
}

func (p *Parser) unary() ast.Expr {
	op := p.consume()
	operand := p.expression(PREC_UNARY)
	return &ast.UnaryExpression{At: op.Pos, Operator: op.Type.String(), Operand: operand}
}

func (p *Parser) binary(left ast.Expr) ast.Expr {
	op := p.consume()
	right := p.expression(p.precedences[op.Type])
	return &ast.BinaryExpression{At: op.Pos, Operator: op.Type.String(), Left: left, Right: right}
}

// power is right associative: 2 ** 3 ** 2 == 2 ** (3 ** 2).
func (p *Parser) power(left ast.Expr) ast.Expr {
	op := p.consume()
	right := p.expression(PREC_POWER - 1)
	return &ast.BinaryExpression{At: op.Pos, Operator: op.Type.String(), Left: left, Right: right}
}

// conditional is right associative: a ? b : c ? d : e == a ? b : (c ? d : e).
func (p *Parser) conditional(test ast.Expr) ast.Expr {
	q := p.consume()
	consequent := p.expression(PREC_LOWEST)
	p.expect(lexer.COLON, "in conditional expression")
	alternate := p.expression(PREC_TERNARY - 1)
	return &ast.ConditionalExpression{At: q.Pos, Test: test, Consequent: consequent, Alternate: alternate}
}

func (p *Parser) subscript(array ast.Expr) ast.Expr {
	open := p.consume()
	index := p.expression(PREC_LOWEST)
	p.expect(lexer.RIGHT_BRACKET, "after subscript")
	return &ast.SubscriptExpression{At: open.Pos, Array: array, Index: index}
}
