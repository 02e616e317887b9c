package parser

import (
	"fmt"
	"strings"

	"github.com/podhmo/go-calc/ast"
	"github.com/podhmo/go-calc/lexer"
)

// Error is a syntax error at a position.
type Error struct {
	Filename string
	Pos      ast.Pos
	Message  string
}

func (e *Error) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("%s:%s: %s", e.Filename, e.Pos, e.Message)
}

// ErrorList collects every error reported while parsing one source.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Details returns every error, one per line.
func (l ErrorList) Details() string {
	lines := make([]string, len(l))
	for i, e := range l {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Err returns nil when the list is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// bailout unwinds the parser to the nearest statement boundary.
type bailout struct{}

func (p *Parser) error(pos ast.Pos, format string, args ...any) {
	p.Errors = append(p.Errors, &Error{
		Filename: p.filename,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
	panic(bailout{})
}

func (p *Parser) expect(typ lexer.TokenType, context string) lexer.Token {
	if p.check(typ) {
		return p.consume()
	}
	tok := p.peek()
	p.error(tok.Pos, "expected %s %s, found %s", typ, context, describe(tok))
	return tok
}

// synchronize discards tokens until a likely statement start, so that one
// mistake does not produce a cascade of errors.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previousIs(lexer.SEMICOLON) {
			return
		}
		switch p.peek().Type {
		case lexer.LET, lexer.FUNCTION, lexer.PRINT, lexer.WHILE, lexer.RIGHT_BRACE:
			return
		}
		p.consume()
	}
}
