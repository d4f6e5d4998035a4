package solver

import (
	"context"
	"errors"
	"time"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
)

// DefaultTimeLimit bounds a solve when the caller does not set one
const DefaultTimeLimit = 30 * time.Second

// ErrUnavailable marks a solving backend that cannot be reached or loaded.
// Callers treat it as a recoverable per-scenario condition, not a crash.
var ErrUnavailable = errors.New("solver backend unavailable")

// InfeasibleModelError reports a model the backend could not find any
// feasible assignment for
type InfeasibleModelError struct{}

func (e *InfeasibleModelError) Error() string {
	return "model is infeasible: no feasible production plan exists"
}

// SolveOptions bounds a single solve
type SolveOptions struct {
	TimeLimit   time.Duration
	GapRelative float64
}

// Solution is the outcome of one solve. Values is indexed like
// Model.Variables. A time-limit status still carries the best incumbent
// found so far.
type Solution struct {
	Status         entities.SolveStatus
	ObjectiveValue float64
	Values         []float64
	Runtime        time.Duration
}

// Backend executes a prepared model on a concrete MIP solver
type Backend interface {
	Solve(ctx context.Context, model *Model, opts SolveOptions) (*Solution, error)
}
