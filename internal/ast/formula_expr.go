// Package ast holds the four expression kinds of the tactic script
// sublanguage and the two top-level definition shapes
// produced by the parser.
// Every expression evaluates against a proofctx.Context and may fail
// with a *rerrors.TacticError.
package ast

import (
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/rerrors"
)

// FormulaExpr evaluates to a database.Formula against a context.
type FormulaExpr interface {
	Evaluate(ctx proofctx.Context) (database.Formula, error)
}

// GoalExpr evaluates to the context's currently active goal.
type GoalExpr struct{}

func (GoalExpr) Evaluate(ctx proofctx.Context) (database.Formula, error) {
	return ctx.Goal(), nil
}

// LiteralFormulaExpr is a formula parsed directly from `$ ... $` source.
type LiteralFormulaExpr struct {
	Formula database.Formula
}

func (e LiteralFormulaExpr) Evaluate(proofctx.Context) (database.Formula, error) {
	return e.Formula, nil
}

// VarFormulaExpr looks up a `+name` reference in formula_vars.
type VarFormulaExpr struct {
	Name string
}

func (e VarFormulaExpr) Evaluate(ctx proofctx.Context) (database.Formula, error) {
	f, ok := ctx.LookupFormulaVariable(e.Name)
	if !ok {
		return database.Formula{}, rerrors.UnknownFormulaVariable(e.Name)
	}
	return f, nil
}

// OfStatementExpr evaluates to the conclusion formula of a named
// statement.
type OfStatementExpr struct {
	Statement StatementExpr
}

func (e OfStatementExpr) Evaluate(ctx proofctx.Context) (database.Formula, error) {
	label, err := e.Statement.Evaluate(ctx)
	if err != nil {
		return database.Formula{}, err
	}
	concl, _, ok := ctx.Database().GetTheoremFormulas(label)
	if !ok {
		return database.Formula{}, rerrors.UnknownLabel(string(label))
	}
	return concl, nil
}

// DirectSubstExpr evaluates `in`, applies context.variables, then
// textually replaces every occurrence of `what` (itself substituted
// under context.variables) with the evaluated-and-substituted `with`.
type DirectSubstExpr struct {
	What database.Formula
	With FormulaExpr
	In   FormulaExpr
}

func (e DirectSubstExpr) Evaluate(ctx proofctx.Context) (database.Formula, error) {
	inVal, err := e.In.Evaluate(ctx)
	if err != nil {
		return database.Formula{}, err
	}
	inVal = inVal.Substitute(ctx.Variables())

	withVal, err := e.With.Evaluate(ctx)
	if err != nil {
		return database.Formula{}, err
	}
	withVal = withVal.Substitute(ctx.Variables())

	what := e.What.Substitute(ctx.Variables())
	return inVal.Replace(what, withVal), nil
}

// ListSubstExpr evaluates `in`, applies context.variables, then applies
// the substitution-list variable named ListVarName.
type ListSubstExpr struct {
	ListVarName string
	In          FormulaExpr
}

func (e ListSubstExpr) Evaluate(ctx proofctx.Context) (database.Formula, error) {
	inVal, err := e.In.Evaluate(ctx)
	if err != nil {
		return database.Formula{}, err
	}
	inVal = inVal.Substitute(ctx.Variables())

	subst, ok := ctx.LookupSubstVariable(e.ListVarName)
	if !ok {
		return database.Formula{}, rerrors.UnknownSubstitutionVariable(e.ListVarName)
	}
	return inVal.Substitute(subst), nil
}
