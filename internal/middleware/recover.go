package middleware

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/ellarises/webapp/internal/web"
)

// stackSize is the maximum stack trace size captured on panic.
const stackSize = 4096

// PanicError represents a recovered panic.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// AsPanicError extracts the PanicError from an error if present.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Recover returns middleware that recovers from panics, logs them with
// the stack trace, and hands a PanicError to the global error handler.
func Recover() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, stackSize)
					n := runtime.Stack(stack, false)
					stack = stack[:n]

					c.LogError("panic recovered", "panic", r, "stack", string(stack))

					err = &PanicError{Value: r, Stack: stack}
				}
			}()

			return next(c)
		}
	}
}
