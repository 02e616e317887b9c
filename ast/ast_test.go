package ast

import "testing"

func TestPos(t *testing.T) {
	if got := (Pos{Line: 3, Column: 7}).String(); got != "3:7" {
		t.Errorf("String() = %q, want 3:7", got)
	}
	if (Pos{}).IsValid() {
		t.Errorf("zero Pos must be invalid")
	}
	if got := (Pos{}).String(); got != "-" {
		t.Errorf("String() = %q, want -", got)
	}
}

func TestString(t *testing.T) {
	x := &Identifier{Name: "x"}
	one := &Numeral{Value: 1}
	cases := []struct {
		node Node
		want string
	}{
		{&BinaryExpression{Operator: "+", Left: x, Right: one}, "(x + 1)"},
		{&UnaryExpression{Operator: "-", Operand: x}, "(-x)"},
		{&ConditionalExpression{Test: &BooleanLiteral{Value: true}, Consequent: x, Alternate: one}, "(true ? x : 1)"},
		{&ArrayLiteral{Elements: []Expr{one, x}}, "[1, x]"},
		{&SubscriptExpression{Array: x, Index: one}, "x[1]"},
		{&Call{Callee: "f", Arguments: []Expr{x, one}}, "f(x, 1)"},
		{&VariableDeclaration{Name: "x", Initializer: one}, "let x = 1;"},
		{&FunctionDeclaration{Name: "h", Parameters: []string{"z"}, Body: x}, "function h(z) = x;"},
		{&Assignment{Name: "x", Value: one}, "x = 1;"},
		{&PrintStatement{Expr: x}, "print x;"},
	}
	for _, tc := range cases {
		if got := tc.node.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
