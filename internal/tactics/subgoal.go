package tactics

import (
	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
)

// Subgoal is the `{ subgoal t1 formula t2 }` tactic:
// proves formula with t1, remembers it as a discharged subgoal, then
// runs t2 in that augmented context.
type Subgoal struct {
	T1      ast.TacticExpr
	Formula ast.FormulaExpr
	T2      ast.TacticExpr
}

func (s Subgoal) Execute(ctx proofctx.Context) (*proofstep.Step, error) {
	sg, err := s.Formula.Evaluate(ctx)
	if err != nil {
		return nil, annotate("subgoal", err)
	}
	sg = sg.Substitute(ctx.Variables())

	t1Val, err := s.T1.Evaluate(ctx)
	if err != nil {
		return nil, annotate("subgoal", err)
	}
	step1, err := Dispatch(ctx.WithGoal(sg), t1Val)
	if err != nil {
		return nil, annotate("subgoal", err)
	}

	augmented := ctx.AddSubgoal(sg, step1)
	t2Val, err := s.T2.Evaluate(augmented)
	if err != nil {
		return nil, annotate("subgoal", err)
	}
	step2, err := Dispatch(augmented, t2Val)
	return step2, annotate("subgoal", err)
}

func (Subgoal) String() string { return "subgoal" }
