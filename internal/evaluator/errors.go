package evaluator

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUndefinedVariable     = errors.New("undefined variable in strict mode")
	ErrDuplicateDeclaration  = errors.New("duplicate variable declaration in strict mode")
	ErrUndefinedFunction     = errors.New("undefined function")
	ErrUnsupportedOperand    = errors.New("unsupported operand types")
	ErrUnsupportedOperator   = errors.New("unsupported operator")
	ErrDivisionByZero        = errors.New("division by zero")
	ErrInvalidRepeatCount    = errors.New("repeat count must be a number")
	ErrReturnOutsideFunction = errors.New("bounce outside of a function")
	ErrMaxDepthExceeded      = errors.New("maximum call depth exceeded")
)

// RuntimeError aborts the whole run. Err is one of the Err* sentinels above.
type RuntimeError struct {
	Err    error
	Detail string
}

func (e *RuntimeError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Cause lets errors.Cause see through to the sentinel.
func (e *RuntimeError) Cause() error { return e.Err }

func runtimeError(sentinel error, format string, args ...any) error {
	return &RuntimeError{Err: sentinel, Detail: fmt.Sprintf(format, args...)}
}
