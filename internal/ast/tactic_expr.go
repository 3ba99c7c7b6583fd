package ast

import (
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/rerrors"
)

// TacticExpr evaluates to a proofctx.Tactic value. It is
// the concrete implementation of proofctx.TacticExprNode, kept in this
// package (not proofctx) so proofctx never has to import ast.
type TacticExpr interface {
	proofctx.TacticExprNode
}

// LiteralTacticExpr wraps an already-parsed tactic value — `?`, `!`, or
// a `{ ... }` combinator form.
type LiteralTacticExpr struct {
	Tactic proofctx.Tactic
}

func (e LiteralTacticExpr) Evaluate(proofctx.Context) (proofctx.Tactic, error) {
	return e.Tactic, nil
}

// VarTacticExpr looks up a `@name` reference in tactic_vars.
type VarTacticExpr struct {
	Name string
}

func (e VarTacticExpr) Evaluate(ctx proofctx.Context) (proofctx.Tactic, error) {
	t, ok := ctx.LookupTacticVariable(e.Name)
	if !ok {
		return nil, rerrors.UnknownTacticsVariable(e.Name)
	}
	return t, nil
}
