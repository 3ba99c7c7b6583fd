package ast

import (
	"errors"

	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/rerrors"
)

// SubstEntry is one entry of a SubstitutionListExpr: either a literal
// (Label, FormulaExpr) pair or a `*name` substitution-list variable
// reference.
type SubstEntry struct {
	IsVar   bool
	Label   database.Label
	Formula FormulaExpr
	VarName string
}

// SubstitutionListExpr is an ordered list of entries evaluated into a
// single database.Substitution. Later entries override earlier ones on
// collision.
type SubstitutionListExpr struct {
	Entries []SubstEntry
}

func (e SubstitutionListExpr) Evaluate(ctx proofctx.Context) (database.Substitution, error) {
	acc := database.NewSubstitution()
	for _, entry := range e.Entries {
		if entry.IsVar {
			s, ok := ctx.LookupSubstVariable(entry.VarName)
			if !ok {
				return database.Substitution{}, rerrors.UnknownSubstitutionVariable(entry.VarName)
			}
			acc = acc.Extend(s)
			continue
		}

		f, err := entry.Formula.Evaluate(ctx)
		if err != nil {
			return database.Substitution{}, err
		}
		coerced, err := ctx.Database().EnsureType(f, entry.Label)
		if err != nil {
			var wt *database.WrongTypecodeError
			if errors.As(err, &wt) {
				return database.Substitution{}, rerrors.WrongTypecode(wt.Src, wt.Target, string(wt.Label))
			}
			return database.Substitution{}, rerrors.WrongTypecode(f.TypeCode, "?", string(entry.Label))
		}
		single := database.NewSubstitution()
		single.Insert(entry.Label, coerced)
		acc = acc.Extend(single)
	}
	return acc, nil
}
