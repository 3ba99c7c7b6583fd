package ast

import (
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/rerrors"
)

// StatementExpr evaluates to a statement Label.
type StatementExpr interface {
	Evaluate(ctx proofctx.Context) (database.Label, error)
}

// LiteralStatementExpr is a `~label` literal.
type LiteralStatementExpr struct {
	Label database.Label
}

func (e LiteralStatementExpr) Evaluate(proofctx.Context) (database.Label, error) {
	return e.Label, nil
}

// VarStatementExpr looks up a `≈name` reference in label_vars.
type VarStatementExpr struct {
	Name string
}

func (e VarStatementExpr) Evaluate(ctx proofctx.Context) (database.Label, error) {
	label, ok := ctx.LookupLabelVariable(e.Name)
	if !ok {
		return "", rerrors.UnknownLabelVariable(e.Name)
	}
	return label, nil
}
