// Package parser implements the recursive-descent parser for the tactic
// script grammar. It consumes the token stream from
// internal/lexer and, for embedded `$ ... $` formulas, calls into a
// database.Database to build a concrete database.Formula — the same
// facade tactics execute against.
package parser

import "github.com/funvibe/rumm/internal/ast"

// Script is one parsed source file: an
// interleaving of load directives, tactic definitions, and proof
// obligations, kept as three ordered slices since a Loader resolves
// Loads before anything else runs and the driver needs Tactics built
// into a dictionary before any Proof executes.
type Script struct {
	Loads   []string
	Tactics []*ast.TacticDefinition
	Proofs  []*ast.ProofDefinition
}
