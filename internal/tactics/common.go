// Package tactics implements the seven built-in tactic variants plus the
// `use` dispatch to user-defined tactics. Every type here
// satisfies proofctx.Tactic.
package tactics

import (
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/rerrors"
	"github.com/funvibe/rumm/internal/trace"
)

// substituteEach applies under to every formula bound in s, returning a
// new substitution.
func substituteEach(s database.Substitution, under database.Substitution) database.Substitution {
	out := database.NewSubstitution()
	s.Each(func(l database.Label, f database.Formula) {
		out.Insert(l, f.Substitute(under))
	})
	return out
}

// annotate pushes name onto a TacticError's display-only stack as it
// leaves this tactic's Execute, so a trace can show which combinators an
// error passed through (rerrors.TacticError.Stack). It never changes the
// error's Kind or Msg — propagation is otherwise unchanged: every
// tactic error surfaces unchanged to its caller.
func annotate(name string, err error) error {
	if err == nil {
		return nil
	}
	if te, ok := err.(*rerrors.TacticError); ok {
		return te.WithFrame(name)
	}
	return err
}

// Dispatch executes t against ctx, pushing a trace.Frame on entry and
// popping it with a terminal status on exit whenever ctx carries a
// tracer. Every tactic
// that invokes a sub-tactic goes through Dispatch rather than calling
// Execute directly, so the trace reflects the real call tree regardless
// of which combinator is doing the invoking.
func Dispatch(ctx proofctx.Context, t proofctx.Tactic) (*proofstep.Step, error) {
	tr := ctx.Tracer()
	if tr == nil {
		return t.Execute(ctx)
	}
	f := tr.Push(t.String(), ctx.Goal().String())
	step, err := t.Execute(ctx)
	tr.Pop(f, trace.StatusForError(err))
	return step, err
}
