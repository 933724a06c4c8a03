package nfa

import (
	"errors"
	"fmt"
)

// ErrStateLimitExceeded is the sentinel for spec §8 invariant 12: an NFA
// requiring more than MaxStates states fails compilation.
var ErrStateLimitExceeded = errors.New("nfa: state limit exceeded")

// LimitError reports how many states a pattern would have required, for
// diagnostics.
type LimitError struct {
	Requested int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("nfa: state limit exceeded: requested %d states, max %d", e.Requested, MaxStates)
}

func (e *LimitError) Unwrap() error { return ErrStateLimitExceeded }
