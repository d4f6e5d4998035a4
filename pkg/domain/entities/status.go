package entities

import "encoding/json"

// SolveStatus describes the outcome of one scenario solve.
type SolveStatus int

const (
	// StatusOptimal means the solver proved the solution optimal.
	StatusOptimal SolveStatus = iota
	// StatusTimeLimit means the time limit hit first; the result carries
	// the best incumbent found. Degraded success, not a failure.
	StatusTimeLimit
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
	// StatusFailed means the scenario produced no result (validation or
	// backend failure).
	StatusFailed
	// StatusCanceled means the sweep was canceled before this scenario
	// could produce a result.
	StatusCanceled
)

func (s SolveStatus) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusTimeLimit:
		return "time-limit"
	case StatusInfeasible:
		return "infeasible"
	case StatusFailed:
		return "failed"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Solved reports whether the status carries usable variable values
func (s SolveStatus) Solved() bool {
	return s == StatusOptimal || s == StatusTimeLimit
}

// MarshalJSON encodes the status as its string form
func (s SolveStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
