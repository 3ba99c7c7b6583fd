package tactics

import (
	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/rerrors"
)

// MatchArm is one `pattern body` pair of a `match` tactic.
type MatchArm struct {
	Pattern ast.FormulaExpr
	Body    ast.TacticExpr
}

// Match is the `{ match target pat1 body1 ... }` tactic: dispatches on the first pattern whose unification succeeds
// *and* whose body succeeds; when a pattern unifies but its body fails,
// the arm is skipped and the next pattern is tried (match backtracks
// across bodies).
type Match struct {
	Target ast.FormulaExpr
	Arms   []MatchArm
}

func (m Match) Execute(ctx proofctx.Context) (*proofstep.Step, error) {
	target, err := m.Target.Evaluate(ctx)
	if err != nil {
		return nil, annotate("match", err)
	}
	target = target.Substitute(ctx.Variables())

	for _, arm := range m.Arms {
		pattern, err := arm.Pattern.Evaluate(ctx)
		if err != nil {
			continue
		}
		pattern = pattern.Substitute(ctx.Variables())

		sigma := database.NewSubstitution()
		if err := target.Unify(pattern, &sigma); err != nil {
			continue
		}

		bodyVal, err := arm.Body.Evaluate(ctx)
		if err != nil {
			continue
		}
		step, err := Dispatch(ctx.WithVariables(sigma), bodyVal)
		if err == nil {
			return step, nil
		}
	}
	return nil, annotate("match", rerrors.NoMatchFound("match"))
}

func (Match) String() string { return "match" }
