// Package rerrors defines the typed error kinds tactic evaluation and
// script parsing can produce. Tactic errors carry an optional source
// position and a tactic stack used only for display, never for
// control flow; parse, lexer and end-of-file errors carry a position
// only, and a cyclic-load error carries the load stack.
package rerrors

import (
	"fmt"

	"github.com/funvibe/rumm/internal/token"
)

// TacticError is the common shape every tactic error satisfies. Each
// tactic error kind below is a TacticError told apart by its Kind.
type TacticError struct {
	Kind  string
	Msg   string
	Pos   token.Position
	Stack []string // tactic names active when the error originated, outermost first
}

func (e *TacticError) Error() string {
	if e.Pos.Line != 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// WithFrame returns a copy of e with name pushed onto the tactic stack.
// Used by tactics.Dispatch to annotate an error as it propagates outward.
func (e *TacticError) WithFrame(name string) *TacticError {
	cp := *e
	cp.Stack = append([]string{name}, cp.Stack...)
	return &cp
}

func newKind(kind, format string, args ...any) *TacticError {
	return &TacticError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Skipped is raised by the `?` tactic. Conceptually a proof hole, not a bug.
func Skipped() *TacticError { return newKind("Skipped", "proof hole (?)") }

// UnificationFailed means two formulas had no most general unifier.
func UnificationFailed(lhs, rhs string) *TacticError {
	return newKind("UnificationFailed", "cannot unify %s with %s", lhs, rhs)
}

// NoMatchFound means a backtracking combinator exhausted its alternatives.
func NoMatchFound(combinator string) *TacticError {
	return newKind("NoMatchFound", "%s: no alternative succeeded", combinator)
}

// WrongHypCount is an apply-tactic arity mismatch against a rule's essentials.
func WrongHypCount(expected, found int) *TacticError {
	return newKind("WrongHypCount", "expected %d essential hypotheses, got %d", expected, found)
}

// WrongParameterCount is a use-tactic arity mismatch against a tactic's signature.
func WrongParameterCount(name string, expected, found int) *TacticError {
	return newKind("WrongParameterCount", "tactic %q expects %d parameters, got %d", name, expected, found)
}

// WrongParameterType is a use-tactic parameter kind mismatch.
func WrongParameterType(name string, index int, expected, found string) *TacticError {
	return newKind("WrongParameterType", "tactic %q parameter %d: expected %s, got %s", name, index, expected, found)
}

// WrongTypecode is an ensure_type coercion failure.
func WrongTypecode(src, target, label string) *TacticError {
	return newKind("WrongTypecode", "formula of type %s cannot be coerced to type %s for %s", src, target, label)
}

func UnknownLabel(label string) *TacticError {
	return newKind("UnknownLabel", "unknown statement label %q", label)
}

func UnknownTactics(name string) *TacticError {
	return newKind("UnknownTactics", "unknown user-defined tactic %q", name)
}

func UnknownFormulaVariable(name string) *TacticError {
	return newKind("UnknownFormulaVariable", "unknown formula variable %q", name)
}

func UnknownLabelVariable(name string) *TacticError {
	return newKind("UnknownLabelVariable", "unknown statement variable %q", name)
}

func UnknownTacticsVariable(name string) *TacticError {
	return newKind("UnknownTacticsVariable", "unknown tactic variable %q", name)
}

func UnknownSubstitutionVariable(name string) *TacticError {
	return newKind("UnknownSubstitutionVariable", "unknown substitution-list variable %q", name)
}

// ParseError, LexerError and UnexpectedEndOfFile all carry a source
// position; WithPos attaches one to any TacticError-shaped kind below.

type ParseError struct {
	Msg string
	Pos token.Position
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %s (%s)", e.Msg, e.Pos) }

func NewParseError(pos token.Position, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

type LexerError struct {
	Msg string
	Pos token.Position
}

func (e *LexerError) Error() string { return fmt.Sprintf("lexer error: %s (%s)", e.Msg, e.Pos) }

func NewLexerError(pos token.Position, format string, args ...any) *LexerError {
	return &LexerError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

type UnexpectedEndOfFile struct {
	Pos token.Position
}

func (e *UnexpectedEndOfFile) Error() string {
	return fmt.Sprintf("unexpected end of file (%s)", e.Pos)
}

// CyclicLoadError is raised when a `load` directive's transitive closure
// loads a file already on the current load stack.
type CyclicLoadError struct {
	Path  string
	Stack []string // files currently being loaded, outermost first
}

func (e *CyclicLoadError) Error() string {
	return fmt.Sprintf("cyclic load: %q is already being loaded (stack: %v)", e.Path, e.Stack)
}

func NewCyclicLoadError(path string, stack []string) *CyclicLoadError {
	return &CyclicLoadError{Path: path, Stack: append([]string(nil), stack...)}
}

// WithPos returns a copy of e carrying pos as its source position.
func (e *TacticError) WithPos(pos token.Position) *TacticError {
	cp := *e
	cp.Pos = pos
	return &cp
}
