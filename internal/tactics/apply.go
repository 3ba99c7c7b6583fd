package tactics

import (
	"fmt"

	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/rerrors"
)

// Apply is the `{ apply theorem tactics... [with substs] }` tactic.
type Apply struct {
	Theorem    ast.StatementExpr
	SubTactics []ast.TacticExpr
	With       ast.SubstitutionListExpr // Entries may be empty
}

func (a Apply) Execute(ctx proofctx.Context) (*proofstep.Step, error) {
	label, err := a.Theorem.Evaluate(ctx)
	if err != nil {
		return nil, annotate("apply", err)
	}

	pre, err := a.With.Evaluate(ctx)
	if err != nil {
		return nil, annotate("apply", err)
	}
	pre = substituteEach(pre, ctx.Variables())

	conclusion, essentials, ok := ctx.Database().GetTheoremFormulas(label)
	if !ok {
		return nil, annotate("apply", rerrors.UnknownLabel(string(label)))
	}

	sigma := database.NewSubstitution()
	if err := ctx.Goal().Unify(conclusion, &sigma); err != nil {
		return nil, annotate("apply", rerrors.UnificationFailed(ctx.Goal().String(), conclusion.String()))
	}
	sigma = sigma.Extend(pre) // pre wins: user-supplied override

	if len(essentials) != len(a.SubTactics) {
		return nil, annotate("apply", rerrors.WrongHypCount(len(essentials), len(a.SubTactics)))
	}

	children := make([]*proofstep.Step, len(essentials))
	for i, h := range essentials {
		subGoal := h.Formula.Substitute(sigma)
		tacticVal, err := a.SubTactics[i].Evaluate(ctx)
		if err != nil {
			return nil, annotate("apply", err)
		}
		step, err := Dispatch(ctx.WithGoal(subGoal), tacticVal)
		if err != nil {
			return nil, annotate("apply", err)
		}
		children[i] = step
	}

	return proofstep.Apply(label, children, ctx.Goal(), sigma), nil
}

func (a Apply) String() string { return fmt.Sprintf("apply(%d sub-tactics)", len(a.SubTactics)) }
