// Package proofctx implements the per-branch proof environment: an immutable-on-branch snapshot that every tactic
// receives and that every "mutation" turns into a fresh value sharing
// the previous one's data.
package proofctx

import (
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/trace"
)

// Tactic is the evaluate(context) capability of a tactic value. Parse-from-tokens and format-to-text live on the parser
// and ast sides; this is the only capability proofctx itself needs to
// store and invoke a tactic value.
type Tactic interface {
	Execute(ctx Context) (*proofstep.Step, error)
	String() string
}

// ParamKind is one of the four shapes a TacticDefinition's parameters
// may take.
type ParamKind int

const (
	ParamTactic ParamKind = iota
	ParamStatement
	ParamFormula
	ParamSubstitutionList
)

func (k ParamKind) String() string {
	switch k {
	case ParamTactic:
		return "tactic"
	case ParamStatement:
		return "statement"
	case ParamFormula:
		return "formula"
	case ParamSubstitutionList:
		return "substitution-list"
	default:
		return "unknown"
	}
}

// TacticExprNode is the evaluate(context)→Tactic capability a
// TacticDefinition's body needs. Declared here,
// not in the ast package, so proofctx never has to import ast — ast
// instead implements this interface.
type TacticExprNode interface {
	Evaluate(ctx Context) (Tactic, error)
}

// TacticDefinition is a user `tactics` declaration: a name,
// its declared parameter signature, and a body evaluated in a fresh
// sub-context when invoked via `use`.
type TacticDefinition struct {
	Name        string
	Description string
	ParamNames  []string
	ParamKinds  []ParamKind
	Body        TacticExprNode
}

// TacticDict is the set of user-defined tactics visible to `use`,
// immutable for the duration of execution. It is shared by
// every Context derived from the one built at load time — never copied.
type TacticDict map[string]*TacticDefinition

// Subgoal is one entry of Context.subgoals: a formula already
// discharged by a `subgoal` invocation, paired with its proof.
type Subgoal struct {
	Formula database.Formula
	Step    *proofstep.Step
}

// Context is the per-branch proof environment. All fields
// are logically immutable; every operation below returns a new Context
// value. Maps and slices are shared by reference across clones until an
// operation needs to extend them, at which point only that operation
// allocates a new backing collection — cheap structural sharing
// without explicit reference counting.
type Context struct {
	db          database.Database
	goal        database.Formula
	hypotheses  database.HypothesisList
	subgoals    []Subgoal
	variables   database.Substitution
	labelVars   map[string]database.Label
	tacticVars  map[string]Tactic
	formulaVars map[string]database.Formula
	substVars   map[string]database.Substitution
	tacticDefs  TacticDict
	depth       int
	tracer      *trace.Tracer
}

// New builds the root context for one proof obligation: a shared
// database handle, the
// theorem's goal and essential hypotheses, empty subgoals/variables/
// namespaces, the script's shared tactic dictionary, depth zero.
func New(db database.Database, goal database.Formula, hypotheses database.HypothesisList, tacticDefs TacticDict) Context {
	return Context{
		db:         db,
		goal:       goal,
		hypotheses: hypotheses,
		variables:  database.NewSubstitution(),
		tacticDefs: tacticDefs,
	}
}

func (c Context) Database() database.Database         { return c.db }
func (c Context) Goal() database.Formula              { return c.goal }
func (c Context) Hypotheses() database.HypothesisList { return c.hypotheses }
func (c Context) Subgoals() []Subgoal                 { return c.subgoals }
func (c Context) Variables() database.Substitution    { return c.variables }
func (c Context) TacticDefinitions() TacticDict       { return c.tacticDefs }
func (c Context) Depth() int                          { return c.depth }
func (c Context) Tracer() *trace.Tracer               { return c.tracer }

// WithTracer attaches a trace.Tracer that tactics.Dispatch pushes/pops
// frames onto as execution proceeds. A nil tracer
// disables tracing entirely at no cost.
func (c Context) WithTracer(t *trace.Tracer) Context {
	next := c
	next.tracer = t
	return next
}

// WithGoal replaces the active goal, cloning everything else, and
// increments depth.
func (c Context) WithGoal(g database.Formula) Context {
	next := c
	next.goal = g
	next.depth = c.depth + 1
	return next
}

// WithVariables extends variables by merging s (s wins on collision —
// the standard Substitution.Extend policy).
func (c Context) WithVariables(s database.Substitution) Context {
	next := c
	next.variables = c.variables.Extend(s)
	return next
}

// WithoutVariables resets variables to empty, used when entering a
// user-defined tactic body so it does not see the caller's unification
// state as its own.
func (c Context) WithoutVariables() Context {
	next := c
	next.variables = database.NewSubstitution()
	return next
}

// AddSubgoal appends a discharged subgoal to a local owned copy.
func (c Context) AddSubgoal(f database.Formula, step *proofstep.Step) Context {
	next := c
	next.subgoals = append(append([]Subgoal(nil), c.subgoals...), Subgoal{Formula: f, Step: step})
	return next
}

// AddLabelVariable binds name in the label_vars namespace on a local
// owned copy.
func (c Context) AddLabelVariable(name string, label database.Label) Context {
	next := c
	next.labelVars = cloneAndSet(c.labelVars, name, label)
	return next
}

// AddTacticVariable binds name in the tactic_vars namespace.
func (c Context) AddTacticVariable(name string, t Tactic) Context {
	next := c
	next.tacticVars = cloneAndSet(c.tacticVars, name, t)
	return next
}

// AddFormulaVariable binds name in the formula_vars namespace.
func (c Context) AddFormulaVariable(name string, f database.Formula) Context {
	next := c
	next.formulaVars = cloneAndSet(c.formulaVars, name, f)
	return next
}

// AddSubstVariable binds name in the subst_vars namespace.
func (c Context) AddSubstVariable(name string, s database.Substitution) Context {
	next := c
	next.substVars = cloneAndSet(c.substVars, name, s)
	return next
}

func (c Context) LookupLabelVariable(name string) (database.Label, bool) {
	v, ok := c.labelVars[name]
	return v, ok
}

func (c Context) LookupTacticVariable(name string) (Tactic, bool) {
	v, ok := c.tacticVars[name]
	return v, ok
}

func (c Context) LookupFormulaVariable(name string) (database.Formula, bool) {
	v, ok := c.formulaVars[name]
	return v, ok
}

func (c Context) LookupSubstVariable(name string) (database.Substitution, bool) {
	v, ok := c.substVars[name]
	return v, ok
}

// cloneAndSet copies m, inserts key/value, and returns the copy — the
// source map is left untouched for any other branch still holding it.
func cloneAndSet[V any](m map[string]V, key string, value V) map[string]V {
	next := make(map[string]V, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	next[key] = value
	return next
}
