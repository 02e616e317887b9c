package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/go-calc/ast"
	"github.com/podhmo/go-calc/parser"
)

func TestParseExpr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "1"},
		{"2.5", "2.5"},
		{"true", "true"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b * c", "(a + (b * c))"},
		{"a - b / c % d", "(a - ((b / c) % d))"},
		{"-a * b", "((-a) * b)"},
		{"!a && b || c", "(((!a) && b) || c)"},
		{"a || b && c", "(a || (b && c))"},
		{"a + b >= c == true", "(((a + b) >= c) == true)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-2 ** 2", "(-(2 ** 2))"},
		{"2 ** -1", "(2 ** (-1))"},
		{"2 ** 3 * 4", "((2 ** 3) * 4)"},
		{"a ? b : c", "(a ? b : c)"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"x < 3 ? x + 1 : 0", "((x < 3) ? (x + 1) : 0)"},
		{"[1, 2, 3][1]", "[1, 2, 3][1]"},
		{"[]", "[]"},
		{"m[0][1]", "m[0][1]"},
		{"hypot(3, 4)", "hypot(3, 4)"},
		{"f()", "f()"},
		{"sqrt(x)[0] + 1", "(sqrt(x)[0] + 1)"},
		{"(a + b) * c", "((a + b) * c)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := parser.ParseExpr(tt.input)
			if err != nil {
				t.Fatalf("ParseExpr(%q) failed: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, expr.String()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseProgram(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "while loop",
			input: "let x = 0; while x < 3 { print x; x = x + 1; }",
			want:  "let x = 0;\nwhile (x < 3) { print x; x = (x + 1); }",
		},
		{
			name:  "function and call",
			input: "let z = 100; function h(z) = 1 + z; print(h(2)); print(z);",
			want:  "let z = 100;\nfunction h(z) = (1 + z);\nprint h(2);\nprint z;",
		},
		{
			name:  "zero parameters",
			input: "function answer() = 42;",
			want:  "function answer() = 42;",
		},
		{
			name:  "nested while",
			input: "while a { while b { print 1; } }",
			want:  "while a { while b { print 1; } }",
		},
		{
			name:  "comments",
			input: "// leading\nprint 1; // trailing\n",
			want:  "print 1;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.Parse("test.calc", tt.input)
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, prog.String()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseNodeShapes(t *testing.T) {
	prog, err := parser.Parse("test.calc", "function f(a, b) = a;\nwhile true { y = [1][0]; }")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	stmts := prog.Body.Statements
	if len(stmts) != 2 {
		t.Fatalf("want 2 statements, got %d", len(stmts))
	}

	fn, ok := stmts[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("stmts[0] is not *ast.FunctionDeclaration, got %T", stmts[0])
	}
	if diff := cmp.Diff([]string{"a", "b"}, fn.Parameters); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}

	loop, ok := stmts[1].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("stmts[1] is not *ast.WhileStatement, got %T", stmts[1])
	}
	if diff := cmp.Diff(ast.Pos{Line: 2, Column: 1}, loop.Pos()); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	assign, ok := loop.Body.Statements[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("loop body is not *ast.Assignment, got %T", loop.Body.Statements[0])
	}
	if _, ok := assign.Value.(*ast.SubscriptExpression); !ok {
		t.Errorf("assignment value is not *ast.SubscriptExpression, got %T", assign.Value)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantN   int
		wantMsg string
	}{
		{"missing semicolon", "let x = 1", 1, "expected ; after variable declaration"},
		{"missing expression", "print ;", 1, "expected expression, found ';'"},
		{"not a statement", "1 + 2;", 1, "expected statement, found 1"},
		{"unclosed block", "while true { print 1;", 1, "expected } to close block"},
		{"duplicate parameter", "function f(a, a) = a;", 1, "duplicate parameter a in function f"},
		{"recovers and reports all", "let = 1; print ; let y = 2;", 2, "expected IDENTIFIER after 'let'"},
		{"lexing error", "let x = 1 & 2;", 1, "did you mean &&?"},
		{"stray brace", "}", 1, "expected statement, found '}'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse("test.calc", tt.input)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			var list parser.ErrorList
			if !errors.As(err, &list) {
				t.Fatalf("error is not parser.ErrorList: %T", err)
			}
			if len(list) != tt.wantN {
				t.Errorf("want %d errors, got %d:\n%s", tt.wantN, len(list), list.Details())
			}
			if !strings.Contains(list[0].Error(), tt.wantMsg) {
				t.Errorf("first error %q does not contain %q", list[0].Error(), tt.wantMsg)
			}
			if !strings.HasPrefix(list[0].Error(), "test.calc:") {
				t.Errorf("error should carry the filename, got %q", list[0].Error())
			}
		})
	}
}
