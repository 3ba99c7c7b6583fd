// Package database wraps the external formal-system library the core
// consumes. The core itself never constructs a
// Formula except by asking a Database to parse or look one up; Formula's
// Unify/Substitute/Eq/Replace are the only operations the tactic
// interpreter needs, and they are implemented here as a simple, clearly
// self-contained reference backend — not a port of any particular formal
// system's grammar.
package database

import (
	"fmt"
	"strings"
)

// Label is an opaque interned identifier for a named statement and,
// simultaneously, for a variable placeholder within formulas.
// It is a plain string under the hood; callers should treat it as opaque.
type Label string

// Symbol is a grammar token class: either a constant of the underlying
// formal system or a declared (floating) variable, tagged with the
// type-code it belongs to (e.g. "wff", "set", "class" in Metamath terms).
type Symbol struct {
	Name     string
	TypeCode string
	IsVar    bool
	VarLabel Label // populated when IsVar; the placeholder Label this symbol denotes
	Arity    int   // number of subformula arguments this token takes when used as an operator
}

// Term is one node of a Formula's concrete syntax tree: either a leaf
// (a constant token or a variable placeholder) or an application of an
// operator token to a fixed number of argument subtrees.
type Term struct {
	Head Label // operator/constant token, or the variable's Label when IsVar
	Args []Term
}

func (t Term) IsVar() bool { return len(t.Args) == 0 && isVarLabel(t.Head) }

// Formula is a concrete syntax tree of tokens together with the type-code
// under which it was parsed.
type Formula struct {
	TypeCode string
	Root     Term
}

// varPrefix marks a Label interned as a variable placeholder rather than a
// constant token; see Database.internVar. Kept unexported: callers never
// need to know the encoding, only IsVar()/Label equality.
const varPrefix = "\x00var:"

func isVarLabel(l Label) bool { return strings.HasPrefix(string(l), varPrefix) }

func varName(l Label) string { return strings.TrimPrefix(string(l), varPrefix) }

// String renders a Formula as its type-code followed by its term in
// parenthesized prefix form, for diagnostics and trace summaries only.
func (f Formula) String() string {
	var sb strings.Builder
	sb.WriteString(f.TypeCode)
	sb.WriteByte(' ')
	writeTerm(&sb, f.Root)
	return sb.String()
}

func writeTerm(sb *strings.Builder, t Term) {
	if t.IsVar() {
		sb.WriteString(varName(t.Head))
		return
	}
	if len(t.Args) == 0 {
		sb.WriteString(string(t.Head))
		return
	}
	sb.WriteByte('(')
	sb.WriteString(string(t.Head))
	for _, a := range t.Args {
		sb.WriteByte(' ')
		writeTerm(sb, a)
	}
	sb.WriteByte(')')
}

// Eq is structural equality under no substitution.
func (f Formula) Eq(other Formula) bool {
	if f.TypeCode != other.TypeCode {
		return false
	}
	return termEq(f.Root, other.Root)
}

func termEq(a, b Term) bool {
	if a.IsVar() || b.IsVar() {
		return a.IsVar() && b.IsVar() && a.Head == b.Head
	}
	if a.Head != b.Head || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !termEq(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

// Substitute performs capture-free substitution of every bound variable
// in f according to subst. rumm's formulas have no binders
// of their own, so substitution is a straightforward recursive replace.
func (f Formula) Substitute(subst Substitution) Formula {
	return Formula{TypeCode: f.TypeCode, Root: substituteTerm(f.Root, subst)}
}

func substituteTerm(t Term, subst Substitution) Term {
	if t.IsVar() {
		if bound, ok := subst.Get(t.Head); ok {
			return bound.Root
		}
		return t
	}
	if len(t.Args) == 0 {
		return t
	}
	args := make([]Term, len(t.Args))
	for i, a := range t.Args {
		args[i] = substituteTerm(a, subst)
	}
	return Term{Head: t.Head, Args: args}
}

// Replace performs textual sub-formula replacement: every occurrence of
// what anywhere within f's tree is replaced by with.
func (f Formula) Replace(what, with Formula) Formula {
	return Formula{TypeCode: f.TypeCode, Root: replaceTerm(f.Root, what.Root, with.Root)}
}

func replaceTerm(t, what, with Term) Term {
	if termEq(t, what) {
		return with
	}
	if len(t.Args) == 0 {
		return t
	}
	args := make([]Term, len(t.Args))
	for i, a := range t.Args {
		args[i] = replaceTerm(a, what, with)
	}
	return Term{Head: t.Head, Args: args}
}

// UnificationError is returned by Unify when no unifier exists.
type UnificationError struct {
	Lhs, Rhs Formula
}

func (e *UnificationError) Error() string {
	return fmt.Sprintf("cannot unify %q with %q", e.Lhs, e.Rhs)
}

// Unify extends subst in place with the most general unifier making f
// equal to other after substitution. It fails, leaving
// subst untouched, if no such extension exists.
func (f Formula) Unify(other Formula, subst *Substitution) error {
	if f.TypeCode != other.TypeCode {
		return &UnificationError{Lhs: f, Rhs: other}
	}
	trial := subst.clone()
	if !unifyTerm(f.Root, other.Root, &trial) {
		return &UnificationError{Lhs: f, Rhs: other}
	}
	*subst = trial
	return nil
}

// unifyTerm binds b's (the pattern side's) variables first: every caller
// passes the rule conclusion or match pattern as the second operand and
// then substitutes the learned bindings into that rule's essentials, so
// when both sides are unbound variables the pattern variable is the one
// that must end up in the substitution.
func unifyTerm(a, b Term, subst *Substitution) bool {
	a = resolveVar(a, *subst)
	b = resolveVar(b, *subst)

	if b.IsVar() {
		if occurs(b.Head, a) {
			return termEq(a, b)
		}
		subst.Insert(b.Head, Formula{Root: a})
		return true
	}
	if a.IsVar() {
		if occurs(a.Head, b) {
			return termEq(a, b)
		}
		subst.Insert(a.Head, Formula{Root: b})
		return true
	}
	if a.Head != b.Head || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !unifyTerm(a.Args[i], b.Args[i], subst) {
			return false
		}
	}
	return true
}

// resolveVar follows a (possibly chained) binding for a variable leaf.
func resolveVar(t Term, subst Substitution) Term {
	for t.IsVar() {
		bound, ok := subst.Get(t.Head)
		if !ok {
			return t
		}
		t = bound.Root
	}
	return t
}

func occurs(v Label, t Term) bool {
	if t.IsVar() {
		return t.Head == v
	}
	for _, a := range t.Args {
		if occurs(v, a) {
			return true
		}
	}
	return false
}
