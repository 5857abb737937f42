package interp

import "fmt"

// Error reports a fatal runtime condition (§7): an exported concrete
// type behind the error interface, in the same shape as goawk's own
// interp.Error, built only through newError so every call site
// formats consistently. No panic/recover is used inside this package:
// every eval/exec call threads its (value, error) or error result back
// up the call stack exactly like goawk's p.eval / p.execute chains.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
