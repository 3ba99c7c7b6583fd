package tactics

import (
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/rerrors"
)

// Hypothesis is the `!` tactic: scans hypotheses, then
// discharged subgoals, for a formula equal (not unifiable) to the goal.
type Hypothesis struct{}

func (Hypothesis) Execute(ctx proofctx.Context) (*proofstep.Step, error) {
	goal := ctx.Goal()
	for _, h := range ctx.Hypotheses() {
		if h.Formula.Eq(goal) {
			return proofstep.Hyp(h.Label, goal), nil
		}
	}
	for _, sg := range ctx.Subgoals() {
		if sg.Formula.Eq(goal) {
			return sg.Step, nil
		}
	}
	return nil, annotate("!", rerrors.NoMatchFound("hypothesis"))
}

func (Hypothesis) String() string { return "!" }
