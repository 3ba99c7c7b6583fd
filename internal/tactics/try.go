package tactics

import (
	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/rerrors"
)

// Try is the `{ try t1 t2 ... }` combinator: evaluates
// each sub-tactic against the caller's unchanged context and returns the
// first success; a failing sub-tactic's branch is simply discarded.
type Try struct {
	Subs []ast.TacticExpr
}

func (t Try) Execute(ctx proofctx.Context) (*proofstep.Step, error) {
	for _, sub := range t.Subs {
		tacticVal, err := sub.Evaluate(ctx)
		if err != nil {
			continue
		}
		step, err := Dispatch(ctx, tacticVal)
		if err == nil {
			return step, nil
		}
	}
	return nil, annotate("try", rerrors.NoMatchFound("try"))
}

func (Try) String() string { return "try" }
