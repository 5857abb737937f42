package parser

import "fmt"

// ParseError reports a syntax error at a source position, in the style
// of goawk's parser.ParseError: an exported concrete type behind the
// error interface, built through newError so every call site formats
// consistently.
type ParseError struct {
	Line    int
	Col     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Message)
}

func newError(line, col int, format string, args ...interface{}) error {
	return &ParseError{Line: line, Col: col, Message: fmt.Sprintf(format, args...)}
}
