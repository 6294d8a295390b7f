// Package errors defines the structured, position-carrying errors raised
// by module loading and compilation. Runtime ⊥ and throw values are not
// errors in this sense — they travel through the reducer, not this type.
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind distinguishes the fatal, uncatchable error categories that can
// arise while bringing a module into the Machine.
type Kind string

const (
	SyntaxError   Kind = "SyntaxError"
	CompileError  Kind = "CompileError"
	ImportError   Kind = "ImportError"
	ReferenceErr  Kind = "ReferenceError"
	DuplicateErr  Kind = "DuplicateError"
)

// Position is a location in a source file.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// LoadError is the structured, fatal error raised by the module manager
// and the compiler front end: file not found, parse error, duplicate
// registration, or an import cycle. Never caught by user code.
type LoadError struct {
	Kind     Kind
	Message  string
	Position Position
	cause    error
}

func New(kind Kind, pos Position, format string, args ...interface{}) *LoadError {
	return &LoadError{Kind: kind, Message: fmt.Sprintf(format, args...), Position: pos}
}

// Wrap attaches a LoadError to a lower-level cause (I/O failure, driver
// error), recording the stack at the wrap point. Error() prints only the
// cause's message; formatting Unwrap() with %+v prints the stack.
func Wrap(cause error, kind Kind, pos Position, format string, args ...interface{}) *LoadError {
	return &LoadError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
		cause:    pkgerrors.WithStack(cause),
	}
}

func (e *LoadError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Kind, e.Message)
	if e.Position.File != "" {
		fmt.Fprintf(&sb, "\n  at %s", e.Position)
	}
	if e.cause != nil {
		fmt.Fprintf(&sb, "\n  caused by: %s", e.cause)
	}
	return sb.String()
}

func (e *LoadError) Unwrap() error { return e.cause }

// Cause returns the root cause via github.com/pkg/errors, or nil.
func (e *LoadError) Cause() error {
	if e.cause == nil {
		return nil
	}
	return pkgerrors.Cause(e.cause)
}
