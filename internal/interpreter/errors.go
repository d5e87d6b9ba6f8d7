package interpreter

import (
	"errors"
	"fmt"
)

// The two resource-exhaustion failures. Both are terminal for the run, both
// record a trailing trace line before unwinding, and neither is retried. The
// driver decides whether tripping a limit is an expected outcome (a fuzzer
// probing runaway programs) or a test failure.
var (
	ErrStepLimitReached              = errors.New("interpreter execution step limit reached")
	ErrExpressionNestingLimitReached = errors.New("maximum expression nesting level reached")
)

// ErrExplicitlyTerminated reports that a builtin such as stop, return or
// revert ended the run. It is a normal outcome, not a failure.
var ErrExplicitlyTerminated = errors.New("execution explicitly terminated")

// InvariantError reports a condition that an analyzed, well-formed program
// cannot produce: an unresolved identifier, a redeclaration, an arity
// mismatch, an unresolvable function name or inconsistent scope state. It
// indicates a defect in the input program or an earlier stage, and aborts
// the run with no recovery attempt.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "interpreter invariant violated: " + e.Msg
}

func invariantf(format string, args ...interface{}) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
