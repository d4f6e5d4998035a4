package testing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/solver"
)

const feasibilityEps = 1e-6

var errSearchStopped = errors.New("search stopped at time limit")

// ReferenceBackend solves small models by exhaustively enumerating the
// integer variables. Each continuous variable must be pinned by an equality
// row so its value follows from the integer assignment; that holds for
// every model the planner builds. It exists so everything above the solver
// port can be tested without a MIP runtime.
type ReferenceBackend struct {
	// Delay is waited out before each solve. Ordering tests use it to
	// force later submissions to finish first.
	Delay time.Duration
	// MaxAssignments caps the enumeration (default 1 << 20)
	MaxAssignments int
}

// Verify interface compliance
var _ solver.Backend = (*ReferenceBackend)(nil)

// Solve enumerates every integer assignment within variable bounds and
// returns the best feasible one
func (b *ReferenceBackend) Solve(
	ctx context.Context,
	model *solver.Model,
	opts solver.SolveOptions,
) (*solver.Solution, error) {
	start := time.Now()

	if b.Delay > 0 {
		select {
		case <-time.After(b.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var integers []int
	for i, variable := range model.Variables {
		if variable.Kind != solver.Integer {
			continue
		}
		if math.IsInf(variable.Upper, 1) {
			return nil, fmt.Errorf("integer variable %s is unbounded", variable.Name)
		}
		integers = append(integers, i)
	}

	definingRow, err := continuousDefinitions(model)
	if err != nil {
		return nil, err
	}

	limit := b.MaxAssignments
	if limit <= 0 {
		limit = 1 << 20
	}

	search := &exhaustiveSearch{
		model:       model,
		integers:    integers,
		definingRow: definingRow,
		values:      make([]float64, len(model.Variables)),
		limit:       limit,
	}
	if opts.TimeLimit > 0 {
		search.deadline = start.Add(opts.TimeLimit)
	}

	err = search.run(ctx, 0)
	stopped := errors.Is(err, errSearchStopped)
	if err != nil && !stopped {
		return nil, err
	}
	if !search.found {
		return nil, &solver.InfeasibleModelError{}
	}

	status := entities.StatusOptimal
	if stopped {
		status = entities.StatusTimeLimit
	}
	return &solver.Solution{
		Status:         status,
		ObjectiveValue: search.bestObjective,
		Values:         search.best,
		Runtime:        time.Since(start),
	}, nil
}

// continuousDefinitions maps each continuous variable to the equality row
// that determines it once the integers are fixed
func continuousDefinitions(model *solver.Model) (map[int]int, error) {
	defining := make(map[int]int)
	for rowIndex, constraint := range model.Constraints {
		if constraint.Sense != solver.Equal {
			continue
		}
		continuousVar := -1
		for _, term := range constraint.Terms {
			if term.Coef == 0 || model.Variables[term.Var].Kind != solver.Continuous {
				continue
			}
			if continuousVar >= 0 && term.Var != continuousVar {
				return nil, fmt.Errorf(
					"constraint %s couples multiple continuous variables", constraint.Name)
			}
			continuousVar = term.Var
		}
		if continuousVar < 0 {
			continue
		}
		if _, exists := defining[continuousVar]; !exists {
			defining[continuousVar] = rowIndex
		}
	}

	for i, variable := range model.Variables {
		if variable.Kind != solver.Continuous {
			continue
		}
		if _, exists := defining[i]; !exists {
			return nil, fmt.Errorf("continuous variable %s has no defining equality row", variable.Name)
		}
	}
	return defining, nil
}

type exhaustiveSearch struct {
	model       *solver.Model
	integers    []int
	definingRow map[int]int
	values      []float64
	deadline    time.Time

	visited       int
	limit         int
	found         bool
	best          []float64
	bestObjective float64
}

func (s *exhaustiveSearch) run(ctx context.Context, depth int) error {
	if depth == len(s.integers) {
		return s.evaluate(ctx)
	}
	index := s.integers[depth]
	variable := s.model.Variables[index]
	for v := math.Ceil(variable.Lower); v <= variable.Upper+feasibilityEps; v++ {
		s.values[index] = v
		if err := s.run(ctx, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *exhaustiveSearch) evaluate(ctx context.Context) error {
	s.visited++
	if s.visited > s.limit {
		return fmt.Errorf("model exceeds the enumeration limit of %d assignments", s.limit)
	}
	if s.visited%1024 == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if !s.deadline.IsZero() && s.found && s.visited%256 == 0 && time.Now().After(s.deadline) {
		return errSearchStopped
	}

	for varIndex, rowIndex := range s.definingRow {
		row := s.model.Constraints[rowIndex]
		sum := 0.0
		coef := 0.0
		for _, term := range row.Terms {
			if term.Var == varIndex {
				coef = term.Coef
				continue
			}
			sum += term.Coef * s.values[term.Var]
		}
		value := (row.RHS - sum) / coef
		variable := s.model.Variables[varIndex]
		if value < variable.Lower-feasibilityEps || value > variable.Upper+feasibilityEps {
			return nil
		}
		s.values[varIndex] = value
	}

	for _, constraint := range s.model.Constraints {
		sum := 0.0
		for _, term := range constraint.Terms {
			sum += term.Coef * s.values[term.Var]
		}
		switch constraint.Sense {
		case solver.Equal:
			if math.Abs(sum-constraint.RHS) > feasibilityEps {
				return nil
			}
		case solver.LessOrEqual:
			if sum > constraint.RHS+feasibilityEps {
				return nil
			}
		}
	}

	objective := 0.0
	for _, term := range s.model.Objective.Terms {
		objective += term.Coef * s.values[term.Var]
	}

	better := !s.found
	if s.found && s.model.Objective.Maximize {
		better = objective > s.bestObjective+1e-9
	} else if s.found {
		better = objective < s.bestObjective-1e-9
	}
	if better {
		s.found = true
		s.bestObjective = objective
		s.best = append(s.best[:0], s.values...)
	}
	return nil
}
