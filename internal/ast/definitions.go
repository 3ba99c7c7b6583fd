package ast

import (
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofctx"
)

// ParamDef is one declared parameter of a `tactics` definition: a name and the namespace it binds into.
type ParamDef struct {
	Name string
	Kind proofctx.ParamKind
}

// TacticDefinition is a parsed `tactics name(params) body` declaration.
// Description is the `/** ... */` comment attached during
// parsing, if any.
type TacticDefinition struct {
	Name        string
	Description string
	Params      []ParamDef
	Body        TacticExpr
}

// ToProofCtxDefinition adapts a parsed TacticDefinition into the
// proofctx.TacticDefinition shape that Context.TacticDefinitions stores
// and that the `use` tactic looks up.
func (d *TacticDefinition) ToProofCtxDefinition() *proofctx.TacticDefinition {
	names := make([]string, len(d.Params))
	kinds := make([]proofctx.ParamKind, len(d.Params))
	for i, p := range d.Params {
		names[i] = p.Name
		kinds[i] = p.Kind
	}
	return &proofctx.TacticDefinition{
		Name:        d.Name,
		Description: d.Description,
		ParamNames:  names,
		ParamKinds:  kinds,
		Body:        d.Body,
	}
}

// ProofDefinition is a parsed `proof ~label body` declaration: one obligation the driver must discharge.
type ProofDefinition struct {
	Label database.Label
	Body  TacticExpr
}
