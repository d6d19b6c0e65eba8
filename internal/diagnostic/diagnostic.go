// Package diagnostic defines Clot's canonical, language-neutral error
// kinds and the Diagnostic type every fallible stage of the pipeline
// (lexer, parser, interpreter, module loader) reports through.
package diagnostic

import "fmt"

// Kind is one of the closed set of canonical error kinds.
type Kind string

const (
	LexError           Kind = "LexError"
	ParseError         Kind = "ParseError"
	NameError          Kind = "NameError"
	TypeError          Kind = "TypeError"
	RangeError         Kind = "RangeError"
	ArityError         Kind = "ArityError"
	ReferenceError     Kind = "ReferenceError"
	ReturnContextError Kind = "ReturnContextError"
	ModuleError        Kind = "ModuleError"
	IOError            Kind = "IOError"
	InternalError      Kind = "InternalError"
)

// Diagnostic is the canonical error value propagated through the
// interpreter, captured by try/catch, and printed to stderr at the top
// level. It implements error so it composes with ordinary Go error
// handling at the boundaries (file I/O, module loading).
type Diagnostic struct {
	Kind    Kind
	Line    int
	Column  int
	Message string
}

// New builds a Diagnostic with the given kind and a formatted message.
func New(kind Kind, line, column int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: kind, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}

// Error renders the canonical, stable diagnostic string: "<Kind>: <message>
// (line L, column C)". This exact string is what try/catch binds to the
// caught error's name, and what the top-level loop writes to stderr.
func (d *Diagnostic) Error() string {
	if d.Line <= 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s (line %d, column %d)", d.Kind, d.Message, d.Line, d.Column)
}
