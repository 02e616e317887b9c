// Package ast declares the syntax tree consumed by the evaluator.
//
// Expressions and statements are closed sum types: only the node types in
// this package implement Expr or Stmt.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// IsValid reports whether the position was set by the parser.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Pos
	String() string
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// --- Expressions ---

// Numeral is a numeric literal.
type Numeral struct {
	At    Pos
	Value float64
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	At    Pos
	Value bool
}

// Identifier refers to a binding by name.
type Identifier struct {
	At   Pos
	Name string
}

// UnaryExpression is `-x` or `!x`.
type UnaryExpression struct {
	At       Pos
	Operator string
	Operand  Expr
}

// BinaryExpression is `left op right`.
type BinaryExpression struct {
	At       Pos
	Operator string
	Left     Expr
	Right    Expr
}

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	At         Pos
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	At       Pos
	Elements []Expr
}

// SubscriptExpression is `array[index]`.
type SubscriptExpression struct {
	At    Pos
	Array Expr
	Index Expr
}

// Call invokes the function bound to Callee.
type Call struct {
	At        Pos
	Callee    string
	Arguments []Expr
}

func (n *Numeral) Pos() Pos               { return n.At }
func (n *BooleanLiteral) Pos() Pos        { return n.At }
func (n *Identifier) Pos() Pos            { return n.At }
func (n *UnaryExpression) Pos() Pos       { return n.At }
func (n *BinaryExpression) Pos() Pos      { return n.At }
func (n *ConditionalExpression) Pos() Pos { return n.At }
func (n *ArrayLiteral) Pos() Pos          { return n.At }
func (n *SubscriptExpression) Pos() Pos   { return n.At }
func (n *Call) Pos() Pos                  { return n.At }

func (*Numeral) exprNode()               {}
func (*BooleanLiteral) exprNode()        {}
func (*Identifier) exprNode()            {}
func (*UnaryExpression) exprNode()       {}
func (*BinaryExpression) exprNode()      {}
func (*ConditionalExpression) exprNode() {}
func (*ArrayLiteral) exprNode()          {}
func (*SubscriptExpression) exprNode()   {}
func (*Call) exprNode()                  {}

// --- Statements ---

// VariableDeclaration is `let name = initializer;`.
type VariableDeclaration struct {
	At          Pos
	Name        string
	Initializer Expr
}

// FunctionDeclaration is `function name(params) = body;`.
type FunctionDeclaration struct {
	At         Pos
	Name       string
	Parameters []string
	Body       Expr
}

// Assignment is `name = value;`.
type Assignment struct {
	At    Pos
	Name  string
	Value Expr
}

// PrintStatement is `print expr;`.
type PrintStatement struct {
	At   Pos
	Expr Expr
}

// WhileStatement is `while test { body }`.
type WhileStatement struct {
	At   Pos
	Test Expr
	Body *Block
}

func (n *VariableDeclaration) Pos() Pos { return n.At }
func (n *FunctionDeclaration) Pos() Pos { return n.At }
func (n *Assignment) Pos() Pos          { return n.At }
func (n *PrintStatement) Pos() Pos      { return n.At }
func (n *WhileStatement) Pos() Pos      { return n.At }

func (*VariableDeclaration) stmtNode() {}
func (*FunctionDeclaration) stmtNode() {}
func (*Assignment) stmtNode()          {}
func (*PrintStatement) stmtNode()      {}
func (*WhileStatement) stmtNode()      {}

// --- Structure ---

// Block is an ordered list of statements.
type Block struct {
	At         Pos
	Statements []Stmt
}

func (b *Block) Pos() Pos { return b.At }

// Program is the root of a parsed source file.
type Program struct {
	Filename string
	Body     *Block
}

func (p *Program) Pos() Pos { return Pos{Line: 1, Column: 1} }

// --- Printing ---

func (n *Numeral) String() string        { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *BooleanLiteral) String() string { return strconv.FormatBool(n.Value) }
func (n *Identifier) String() string     { return n.Name }

func (n *UnaryExpression) String() string {
	return "(" + n.Operator + n.Operand.String() + ")"
}

func (n *BinaryExpression) String() string {
	return "(" + n.Left.String() + " " + n.Operator + " " + n.Right.String() + ")"
}

func (n *ConditionalExpression) String() string {
	return "(" + n.Test.String() + " ? " + n.Consequent.String() + " : " + n.Alternate.String() + ")"
}

func (n *ArrayLiteral) String() string {
	return "[" + joinExprs(n.Elements) + "]"
}

func (n *SubscriptExpression) String() string {
	return n.Array.String() + "[" + n.Index.String() + "]"
}

func (n *Call) String() string {
	return n.Callee + "(" + joinExprs(n.Arguments) + ")"
}

func (n *VariableDeclaration) String() string {
	return "let " + n.Name + " = " + n.Initializer.String() + ";"
}

func (n *FunctionDeclaration) String() string {
	return "function " + n.Name + "(" + strings.Join(n.Parameters, ", ") + ") = " + n.Body.String() + ";"
}

func (n *Assignment) String() string { return n.Name + " = " + n.Value.String() + ";" }

func (n *PrintStatement) String() string { return "print " + n.Expr.String() + ";" }

func (n *WhileStatement) String() string {
	return "while " + n.Test.String() + " " + n.Body.String()
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for _, s := range b.Statements {
		sb.WriteString(" ")
		sb.WriteString(s.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

func (p *Program) String() string {
	lines := make([]string, 0, len(p.Body.Statements))
	for _, s := range p.Body.Statements {
		lines = append(lines, s.String())
	}
	return strings.Join(lines, "\n")
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
