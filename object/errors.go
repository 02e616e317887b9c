package object

import (
	"fmt"

	"github.com/podhmo/go-calc/ast"
)

// ErrorKind classifies runtime errors.
type ErrorKind int

const (
	UndeclaredIdentifier ErrorKind = iota + 1
	RedeclaredIdentifier
	ReadOnlyViolation
	TypeMismatch
	WrongArity
	NotCallable
	NotAnArray
	InvalidSubscript
	Interrupted // the host cancelled evaluation through its context
)

var kindNames = map[ErrorKind]string{
	UndeclaredIdentifier: "undeclared identifier",
	RedeclaredIdentifier: "redeclared identifier",
	ReadOnlyViolation:    "read-only violation",
	TypeMismatch:         "type mismatch",
	WrongArity:           "wrong arity",
	NotCallable:          "not callable",
	NotAnArray:           "not an array",
	InvalidSubscript:     "invalid subscript",
	Interrupted:          "interrupted",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a runtime error. Every runtime error is fatal to the program.
type Error struct {
	Kind    ErrorKind
	Pos     ast.Pos
	Message string
	Err     error // underlying cause, set for Interrupted
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrUndeclaredIdentifier = &Error{Kind: UndeclaredIdentifier}
	ErrRedeclaredIdentifier = &Error{Kind: RedeclaredIdentifier}
	ErrReadOnlyViolation    = &Error{Kind: ReadOnlyViolation}
	ErrTypeMismatch         = &Error{Kind: TypeMismatch}
	ErrWrongArity           = &Error{Kind: WrongArity}
	ErrNotCallable          = &Error{Kind: NotCallable}
	ErrNotAnArray           = &Error{Kind: NotAnArray}
	ErrInvalidSubscript     = &Error{Kind: InvalidSubscript}
	ErrInterrupted          = &Error{Kind: Interrupted}
)

// NewError creates an error of the given kind without a position.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("runtime error: %s: %s: %s", e.Pos, e.Kind, e.Message)
	}
	return fmt.Sprintf("runtime error: %s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Unwrap() error { return e.Err }

// At sets the position if it is not already known and returns e.
func (e *Error) At(pos ast.Pos) *Error {
	if !e.Pos.IsValid() {
		e.Pos = pos
	}
	return e
}
