package tactics

import (
	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/rerrors"
)

// Find implements both `find` and `findhyp`. findhyp
// restricts the search to hypotheses and discharged subgoals; find also
// searches every statement db.Statements(Filter) yields, discharging
// each candidate's essentials with T1 before accepting it.
type Find struct {
	// T1 discharges a database candidate's essential hypotheses. Unused
	// (may be nil) for findhyp, which never searches the database.
	T1 ast.TacticExpr

	Target ast.FormulaExpr
	Cont   ast.TacticExpr

	SearchDatabase bool
	Filter         database.StatementFilter // nil means AcceptAll

	// name is used only for error/trace annotation ("find" vs "findhyp").
	name string
}

// NewFind builds the `find` variant: T1 discharges essentials of
// candidate statements, Cont is the final continuation.
func NewFind(t1, cont ast.TacticExpr, target ast.FormulaExpr, filter database.StatementFilter) Find {
	return Find{T1: t1, Target: target, Cont: cont, SearchDatabase: true, Filter: filter, name: "find"}
}

// NewFindHyp builds the `findhyp` variant: searches only hypotheses and
// discharged subgoals, with cont as the sole continuation.
func NewFindHyp(target ast.FormulaExpr, cont ast.TacticExpr) Find {
	return Find{Target: target, Cont: cont, SearchDatabase: false, name: "findhyp"}
}

func (f Find) Execute(ctx proofctx.Context) (*proofstep.Step, error) {
	target, err := f.Target.Evaluate(ctx)
	if err != nil {
		return nil, annotate(f.label(), err)
	}
	target = target.Substitute(ctx.Variables())

	for _, h := range ctx.Hypotheses() {
		sigma := database.NewSubstitution()
		if err := target.Unify(h.Formula, &sigma); err != nil {
			continue
		}
		step1 := proofstep.Hyp(h.Label, h.Formula)
		if step, ok := f.tryContinuation(ctx, sigma, step1); ok {
			return step, nil
		}
	}

	for _, sg := range ctx.Subgoals() {
		sigma := database.NewSubstitution()
		if err := target.Unify(sg.Formula, &sigma); err != nil {
			continue
		}
		if step, ok := f.tryContinuation(ctx, sigma, sg.Step); ok {
			return step, nil
		}
	}

	if f.SearchDatabase {
		filter := f.Filter
		if filter == nil {
			filter = database.AcceptAll
		}
		for _, stmt := range ctx.Database().Statements(filter) {
			sigma := database.NewSubstitution()
			if err := target.Unify(stmt.Conclusion, &sigma); err != nil {
				continue
			}

			children := make([]*proofstep.Step, 0, len(stmt.Essentials))
			allOk := true
			for _, ess := range stmt.Essentials {
				subGoal := ess.Formula.Substitute(sigma)
				t1Val, err := f.T1.Evaluate(ctx)
				if err != nil {
					allOk = false
					break
				}
				branch := ctx.WithVariables(sigma).WithGoal(subGoal)
				step, err := Dispatch(branch, t1Val)
				if err != nil {
					allOk = false
					break
				}
				children = append(children, step)
			}
			if !allOk {
				continue
			}

			resultFormula := stmt.Conclusion.Substitute(sigma)
			step1 := proofstep.Apply(stmt.Label, children, resultFormula, sigma)
			if step, ok := f.tryContinuation(ctx, sigma, step1); ok {
				return step, nil
			}
		}
	}

	return nil, annotate(f.label(), rerrors.NoMatchFound(f.label()))
}

func (f Find) tryContinuation(ctx proofctx.Context, sigma database.Substitution, step1 *proofstep.Step) (*proofstep.Step, bool) {
	branch := ctx.WithVariables(sigma).AddSubgoal(step1.Result(), step1)
	contVal, err := f.Cont.Evaluate(ctx)
	if err != nil {
		return nil, false
	}
	result, err := Dispatch(branch, contVal)
	if err != nil {
		return nil, false
	}
	return result, true
}

func (f Find) label() string {
	if f.name == "" {
		return "find"
	}
	return f.name
}

func (f Find) String() string { return f.label() }
