// Package solver defines a backend-agnostic model for the mixed integer
// programs built from production planning scenarios, plus the port that
// concrete solving backends implement.
package solver

// VarKind distinguishes integer decision variables from continuous
// auxiliary ones
type VarKind int

const (
	Integer VarKind = iota
	Continuous
)

// Variable is a single decision variable with inclusive bounds
type Variable struct {
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64
}

// Term applies a linear coefficient to the variable at index Var
type Term struct {
	Var  int
	Coef float64
}

// Sense is the relation of a constraint row to its right-hand side.
// Greater-or-equal rows are expressed by negating both sides.
type Sense int

const (
	LessOrEqual Sense = iota
	Equal
)

// Constraint is a linear row: sum of Terms related to RHS by Sense
type Constraint struct {
	Name  string
	Sense Sense
	Terms []Term
	RHS   float64
}

// Objective is the linear objective function
type Objective struct {
	Maximize bool
	Terms    []Term
}

// Model is a complete mixed integer program ready to hand to a Backend
type Model struct {
	Variables   []Variable
	Constraints []Constraint
	Objective   Objective
}

// AddVariable appends a variable and returns its index
func (m *Model) AddVariable(v Variable) int {
	m.Variables = append(m.Variables, v)
	return len(m.Variables) - 1
}

// AddConstraint appends a constraint row
func (m *Model) AddConstraint(c Constraint) {
	m.Constraints = append(m.Constraints, c)
}
