// Package highs adapts the nextmv MIP toolkit's HiGHS provider to the
// solver backend port.
package highs

import (
	"context"
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/solver"
)

// DefaultProvider is the bundled HiGHS solver.
const DefaultProvider = "highs"

// Backend solves models with a nextmv MIP provider, HiGHS by default
type Backend struct {
	provider string
}

// Verify interface compliance
var _ solver.Backend = (*Backend)(nil)

// NewBackend creates a HiGHS-backed solver
func NewBackend() *Backend {
	return &Backend{provider: DefaultProvider}
}

// NewProviderBackend creates a backend on a different MIP provider. The
// provider must be linked into the binary; unknown names surface as
// ErrUnavailable at solve time.
func NewProviderBackend(provider string) *Backend {
	if provider == "" {
		provider = DefaultProvider
	}
	return &Backend{provider: provider}
}

// Solve translates the model, runs HiGHS, and maps the outcome. A proven
// optimum and a time-limited incumbent both come back as solutions; a model
// without feasible assignments returns InfeasibleModelError. Provider
// failures wrap ErrUnavailable so sweeps can record them per scenario.
func (b *Backend) Solve(ctx context.Context, model *solver.Model, opts solver.SolveOptions) (*solver.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := mip.NewModel()

	vars := make([]mip.Var, len(model.Variables))
	for i, v := range model.Variables {
		switch v.Kind {
		case solver.Integer:
			vars[i] = m.NewInt(int64(v.Lower), int64(v.Upper))
		case solver.Continuous:
			vars[i] = m.NewFloat(v.Lower, v.Upper)
		default:
			return nil, fmt.Errorf("unsupported variable kind for %s", v.Name)
		}
	}

	for _, c := range model.Constraints {
		sense := mip.LessThanOrEqual
		if c.Sense == solver.Equal {
			sense = mip.Equal
		}
		row := m.NewConstraint(sense, c.RHS)
		for _, term := range c.Terms {
			row.NewTerm(term.Coef, vars[term.Var])
		}
	}

	objective := m.Objective()
	if model.Objective.Maximize {
		objective.SetMaximize()
	} else {
		objective.SetMinimize()
	}
	for _, term := range model.Objective.Terms {
		objective.NewTerm(term.Coef, vars[term.Var])
	}

	runner, err := mip.NewSolver(b.provider, m)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", solver.ErrUnavailable, err)
	}

	solveOptions := mip.NewSolveOptions()
	if err := solveOptions.SetMaximumDuration(timeLimit(ctx, opts)); err != nil {
		return nil, fmt.Errorf("failed to set solver time limit: %w", err)
	}
	if err := solveOptions.SetMIPGapRelative(opts.GapRelative); err != nil {
		return nil, fmt.Errorf("failed to set solver gap: %w", err)
	}
	solveOptions.SetVerbosity(mip.Off)

	solution, err := runner.Solve(solveOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", solver.ErrUnavailable, err)
	}
	if solution == nil || !solution.HasValues() {
		return nil, &solver.InfeasibleModelError{}
	}

	status := entities.StatusTimeLimit
	if solution.IsOptimal() {
		status = entities.StatusOptimal
	}

	values := make([]float64, len(vars))
	for i, v := range vars {
		values[i] = solution.Value(v)
	}

	return &solver.Solution{
		Status:         status,
		ObjectiveValue: solution.ObjectiveValue(),
		Values:         values,
		Runtime:        solution.RunTime(),
	}, nil
}

// timeLimit bounds the solve by the option's limit and any context
// deadline, whichever comes first. Zero means the package default; HiGHS
// treats a zero duration as unlimited.
func timeLimit(ctx context.Context, opts solver.SolveOptions) time.Duration {
	limit := opts.TimeLimit
	if limit <= 0 {
		limit = solver.DefaultTimeLimit
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < limit {
			limit = max(remaining, time.Millisecond)
		}
	}
	return limit
}
