package tactics

import (
	"fmt"

	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/rerrors"
)

// UseArg is one evaluated argument to a `use` call, tagged with the
// ParamKind the parser determined it to be from the argument's own
// syntax.
type UseArg struct {
	Kind      proofctx.ParamKind
	Formula   ast.FormulaExpr
	Statement ast.StatementExpr
	Tactic    ast.TacticExpr
	SubstList ast.SubstitutionListExpr
}

// Use is the `{ use name args... }` tactic: dispatches
// to a user-defined tactics declaration.
type Use struct {
	Name string
	Args []UseArg
}

func (u Use) Execute(ctx proofctx.Context) (*proofstep.Step, error) {
	def, ok := ctx.TacticDefinitions()[u.Name]
	if !ok {
		return nil, annotate("use", rerrors.UnknownTactics(u.Name))
	}
	if len(u.Args) != len(def.ParamKinds) {
		return nil, annotate("use", rerrors.WrongParameterCount(u.Name, len(def.ParamKinds), len(u.Args)))
	}

	sub := ctx.WithoutVariables()
	for i, arg := range u.Args {
		paramName := def.ParamNames[i]
		paramKind := def.ParamKinds[i]
		if arg.Kind != paramKind {
			return nil, annotate("use", rerrors.WrongParameterType(u.Name, i, paramKind.String(), arg.Kind.String()))
		}
		switch paramKind {
		case proofctx.ParamFormula:
			f, err := arg.Formula.Evaluate(ctx)
			if err != nil {
				return nil, annotate("use", err)
			}
			sub = sub.AddFormulaVariable(paramName, f)
		case proofctx.ParamStatement:
			l, err := arg.Statement.Evaluate(ctx)
			if err != nil {
				return nil, annotate("use", err)
			}
			sub = sub.AddLabelVariable(paramName, l)
		case proofctx.ParamTactic:
			t, err := arg.Tactic.Evaluate(ctx)
			if err != nil {
				return nil, annotate("use", err)
			}
			sub = sub.AddTacticVariable(paramName, t)
		case proofctx.ParamSubstitutionList:
			s, err := arg.SubstList.Evaluate(ctx)
			if err != nil {
				return nil, annotate("use", err)
			}
			sub = sub.AddSubstVariable(paramName, s)
		}
	}

	bodyVal, err := def.Body.Evaluate(sub)
	if err != nil {
		return nil, annotate("use", err)
	}
	step, err := Dispatch(sub, bodyVal)
	return step, annotate("use", err)
}

func (u Use) String() string { return fmt.Sprintf("use %s", u.Name) }
