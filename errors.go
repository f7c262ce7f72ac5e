package qubobench

import "fmt"

// InputError reports a malformed knapsack instance or generator request.
// It is never retryable: the input must be fixed by the caller.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

func inputErrorf(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// SizeExceededError reports an exhaustive solve requested beyond the
// enumeration ceiling. The caller must pick a different validation
// strategy; the oracle never truncates.
type SizeExceededError struct {
	N   int
	Max int
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("problem too large for exhaustive search: n=%d (limit n≤%d, 2^%d assignments)",
		e.N, e.Max, e.Max)
}

// NumericDegeneracyError reports a matrix whose maximum absolute
// coefficient is zero or NaN, making normalization undefined.
type NumericDegeneracyError struct {
	MaxAbs float64
}

func (e *NumericDegeneracyError) Error() string {
	return fmt.Sprintf("matrix cannot be normalized: max |coefficient| = %v", e.MaxAbs)
}

// SolverErrorKind is the closed set of failure modes an external solver
// boundary can surface. Each must remain distinguishable so that callers
// can decide their own retry or fallback policy; the core never retries.
type SolverErrorKind int

const (
	// SolverAuth: the backend rejected the credentials.
	SolverAuth SolverErrorKind = iota
	// SolverValidity: the submitted matrix failed the backend's validity
	// constraint (see CheckRowSums).
	SolverValidity
	// SolverTimeout: the remote call exceeded its deadline.
	SolverTimeout
	// SolverRemote: any other failure reported by the backend.
	SolverRemote
)

func (k SolverErrorKind) String() string {
	switch k {
	case SolverAuth:
		return "auth"
	case SolverValidity:
		return "validity"
	case SolverTimeout:
		return "timeout"
	case SolverRemote:
		return "remote"
	}
	return fmt.Sprintf("SolverErrorKind(%d)", int(k))
}

// SolverError wraps a failure from an external solver backend with its
// kind. Use errors.As to recover the kind at the orchestration layer.
type SolverError struct {
	Kind SolverErrorKind
	Err  error
}

func (e *SolverError) Error() string {
	if e.Err == nil {
		return "solver " + e.Kind.String() + " failure"
	}
	return fmt.Sprintf("solver %s failure: %v", e.Kind, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }
