// Package lexer turns calc source text into tokens.
package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/podhmo/go-calc/ast"
)

type TokenType uint8

const (
	ILLEGAL TokenType = iota
	EOF

	// single-character tokens
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	LEFT_BRACKET
	RIGHT_BRACKET
	COMMA
	SEMICOLON
	QUESTION
	COLON
	PLUS
	MINUS
	SLASH
	PERCENT

	// one or two-character tokens
	STAR
	STAR_STAR
	BANG
	BANG_EQUAL
	EQUAL
	EQUAL_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	AND_AND
	OR_OR

	// literals
	IDENTIFIER
	NUMBER

	// keywords
	LET
	FUNCTION
	PRINT
	WHILE
	TRUE
	FALSE
)

var tokenNames = [...]string{
	ILLEGAL:       "ILLEGAL",
	EOF:           "EOF",
	LEFT_PAREN:    "(",
	RIGHT_PAREN:   ")",
	LEFT_BRACE:    "{",
	RIGHT_BRACE:   "}",
	LEFT_BRACKET:  "[",
	RIGHT_BRACKET: "]",
	COMMA:         ",",
	SEMICOLON:     ";",
	QUESTION:      "?",
	COLON:         ":",
	PLUS:          "+",
	MINUS:         "-",
	SLASH:         "/",
	PERCENT:       "%",
	STAR:          "*",
	STAR_STAR:     "**",
	BANG:          "!",
	BANG_EQUAL:    "!=",
	EQUAL:         "=",
	EQUAL_EQUAL:   "==",
	LESS:          "<",
	LESS_EQUAL:    "<=",
	GREATER:       ">",
	GREATER_EQUAL: ">=",
	AND_AND:       "&&",
	OR_OR:         "||",
	IDENTIFIER:    "IDENTIFIER",
	NUMBER:        "NUMBER",
	LET:           "let",
	FUNCTION:      "function",
	PRINT:         "print",
	WHILE:         "while",
	TRUE:          "true",
	FALSE:         "false",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

var keywords = map[string]TokenType{
	"let":      LET,
	"function": FUNCTION,
	"print":    PRINT,
	"while":    WHILE,
	"true":     TRUE,
	"false":    FALSE,
}

// Token is a single lexeme. Value is set for NUMBER tokens only.
type Token struct {
	Type   TokenType
	Lexeme string
	Value  float64
	Pos    ast.Pos
}

func (t Token) String() string {
	switch t.Type {
	case IDENTIFIER, NUMBER:
		return fmt.Sprintf("%s(%s)", t.Type, t.Lexeme)
	default:
		return t.Type.String()
	}
}

// Error is a lexing error at a position.
type Error struct {
	Pos     ast.Pos
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }

// maxErrors stops scanning once this many errors are collected.
const maxErrors = 10

type Lexer struct {
	source   string
	Tokens   []Token
	Errors   []*Error
	current  int // byte offset of the next rune
	start    int // byte offset of the lexeme being scanned
	line     int
	column   int // in runes
	startPos ast.Pos
	stop     bool
}

func New(source string) *Lexer {
	return &Lexer{
		source:   source,
		line:     1,
		column:   1,
		startPos: ast.Pos{Line: 1, Column: 1},
	}
}

// Tokenize scans the whole source and returns the tokens and errors.
func Tokenize(source string) ([]Token, []*Error) {
	l := New(source)
	l.ScanTokens()
	return l.Tokens, l.Errors
}

// ScanTokens fills Tokens, always terminating with EOF.
func (l *Lexer) ScanTokens() {
	for !l.stop && !l.isAtEnd() && len(l.Errors) < maxErrors {
		l.ignore()
		l.scanToken()
	}
	l.Tokens = append(l.Tokens, Token{Type: EOF, Pos: ast.Pos{Line: l.line, Column: l.column}})
}

func (l *Lexer) scanToken() {
	ch := l.advance()
	if l.stop {
		return
	}
	switch ch {
	case ' ', '\t', '\r', '\n':
		for isWhiteSpace(l.peek()) {
			l.advance()
		}
	case '(':
		l.emit(LEFT_PAREN)
	case ')':
		l.emit(RIGHT_PAREN)
	case '{':
		l.emit(LEFT_BRACE)
	case '}':
		l.emit(RIGHT_BRACE)
	case '[':
		l.emit(LEFT_BRACKET)
	case ']':
		l.emit(RIGHT_BRACKET)
	case ',':
		l.emit(COMMA)
	case ';':
		l.emit(SEMICOLON)
	case '?':
		l.emit(QUESTION)
	case ':':
		l.emit(COLON)
	case '+':
		l.emit(PLUS)
	case '-':
		l.emit(MINUS)
	case '%':
		l.emit(PERCENT)
	case '*':
		if l.match('*') {
			l.emit(STAR_STAR)
		} else {
			l.emit(STAR)
		}
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.emit(SLASH)
		}
	case '!':
		l.emitEither('=', BANG_EQUAL, BANG)
	case '=':
		l.emitEither('=', EQUAL_EQUAL, EQUAL)
	case '<':
		l.emitEither('=', LESS_EQUAL, LESS)
	case '>':
		l.emitEither('=', GREATER_EQUAL, GREATER)
	case '&':
		if l.match('&') {
			l.emit(AND_AND)
		} else {
			l.error("unexpected character %q, did you mean &&?", ch)
		}
	case '|':
		if l.match('|') {
			l.emit(OR_OR)
		} else {
			l.error("unexpected character %q, did you mean ||?", ch)
		}
	default:
		switch {
		case isDigit(ch):
			l.lexNumber()
		case isAlpha(ch):
			l.lexIdentifier()
		default:
			l.error("unexpected character %U %q", ch, ch)
		}
	}
}

func (l *Lexer) lexIdentifier() {
	for isIdentifier(l.peek()) {
		l.advance()
	}
	word := l.source[l.start:l.current]
	if typ, ok := keywords[word]; ok {
		l.emit(typ)
		return
	}
	l.emit(IDENTIFIER)
}

func (l *Lexer) lexNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if p := l.peek(); p == 'e' || p == 'E' {
		n := l.peekNext()
		if isDigit(n) || n == '+' || n == '-' {
			l.advance()
			l.advance()
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	lexeme := l.source[l.start:l.current]
	num, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		l.error("invalid number literal %q", lexeme)
		return
	}
	l.Tokens = append(l.Tokens, Token{Type: NUMBER, Lexeme: lexeme, Value: num, Pos: l.startPos})
}

// utils

func (l *Lexer) isAtEnd() bool { return l.current >= len(l.source) }

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	r, w := utf8.DecodeRuneInString(l.source[l.current:])
	if r == utf8.RuneError && w <= 1 {
		l.error("invalid utf8 input at byte %d", l.current)
		l.stop = true
	}
	l.current += w
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) peek() rune {
	if l.stop || l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.stop || l.isAtEnd() {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+w >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current+w:])
	return r
}

func (l *Lexer) match(ch rune) bool {
	if l.peek() != ch {
		return false
	}
	l.advance()
	return true
}

// ignore starts a new lexeme at the current offset.
func (l *Lexer) ignore() {
	l.start = l.current
	l.startPos = ast.Pos{Line: l.line, Column: l.column}
}

func (l *Lexer) emitEither(next rune, matched, otherwise TokenType) {
	if l.match(next) {
		l.emit(matched)
	} else {
		l.emit(otherwise)
	}
}

func (l *Lexer) emit(typ TokenType) {
	l.Tokens = append(l.Tokens, Token{
		Type:   typ,
		Lexeme: l.source[l.start:l.current],
		Pos:    l.startPos,
	})
}

func (l *Lexer) error(format string, args ...any) {
	l.Errors = append(l.Errors, &Error{
		Pos:     l.startPos,
		Message: fmt.Sprintf(format, args...),
	})
}

func isWhiteSpace(ch rune) bool { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }
func isIdentifier(ch rune) bool { return isAlpha(ch) || isDigit(ch) }
func isAlpha(ch rune) bool      { return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') }
func isDigit(ch rune) bool      { return '0' <= ch && ch <= '9' }
