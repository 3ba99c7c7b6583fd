package database

import (
	"fmt"
	"io"
)

// Hypothesis is one (Label, Formula) pair of a theorem's essential
// hypotheses.
type Hypothesis struct {
	Label   Label
	Formula Formula
}

// HypothesisList is an ordered sequence of essential hypotheses.
type HypothesisList []Hypothesis

// TokenSym is one (Symbol, source-span) pair fed to ParseFormula.
// Span is left as a string for diagnostics; rumm does
// not need to re-derive file/line from it.
type TokenSym struct {
	Symbol Symbol
	Span   string
}

// Statement is one entry yielded by Database.Statements: a named axiom or
// theorem together with its conclusion and essential hypotheses.
type Statement struct {
	Label      Label
	IsAxiom    bool
	Conclusion Formula
	Essentials HypothesisList
}

// StatementFilter decides whether Statements should yield a given
// entry, given its axiom flag and label.
type StatementFilter func(isAxiom bool, label Label) bool

// AcceptAll is the trivial filter used by `find`'s unrestricted search.
func AcceptAll(bool, Label) bool { return true }

// ProofBuf and ProofArray are the scratch buffer and output array that
// BuildProofHyp/BuildProofStep append to, and that ultimately get handed
// to Export. Both are created per proof obligation
// and discarded with the result.
type ProofArray struct {
	Nodes []ProofNode
	Qed   int // index of the root node; -1 until set
}

// ProofNode is one entry of a ProofArray: either a hypothesis reference or
// an inference application resolved against a concrete index list.
type ProofNode struct {
	Label    Label
	Formula  Formula
	IsHyp    bool
	HypIdxs  []int // indices of mandatory-hypothesis sub-proofs, in rule order
	Floating []int // indices of synthesized floating-hypothesis sub-proofs
}

// ProofBuf is scratch state threaded through BuildProofStep calls; the
// reference backend does not need it for anything beyond bookkeeping, but
// it is kept as an explicit parameter to mirror the facade contract and
// give a real backend (e.g. one holding a floating-hypothesis resolver) a
// place to cache work across calls within one proof's construction.
type ProofBuf struct {
	scratch map[Label][]int
}

// NewProofBuf returns an empty scratch buffer for one proof obligation.
func NewProofBuf() *ProofBuf { return &ProofBuf{scratch: make(map[Label][]int)} }

func NewProofArray() *ProofArray { return &ProofArray{Qed: -1} }

// WrongTypecodeError is returned by EnsureType when f's type-code does not
// match target's and no grammar coercion applies.
type WrongTypecodeError struct {
	Src, Target string
	Label       Label
}

func (e *WrongTypecodeError) Error() string {
	return fmt.Sprintf("formula of type %s cannot be coerced to type %s required by %s", e.Src, e.Target, e.Label)
}

// Database is the facade the core consumes. It wraps
// a single long-lived handle to "the underlying formal-system library";
// implementations must make Clone cheap (a shared handle, not a deep
// copy) so that every Context can hold one.
type Database interface {
	// Parse loads a source file and runs the external grammar/statement
	// passes. Out of scope beyond this entry point.
	Parse(file string) error

	LookupSymbol(name string) (Symbol, bool)
	LookupLabel(name string) (Label, bool)

	// GetTheoremFormulas returns a statement's conclusion and essential
	// hypotheses.
	GetTheoremFormulas(label Label) (conclusion Formula, essentials HypothesisList, ok bool)

	// ParseFormula builds a Formula from an ordered token sequence.
	ParseFormula(tokens []TokenSym) (Formula, error)

	// EnsureType returns f unchanged if its type-code already matches the
	// type-code target expects; otherwise it attempts a grammar-driven
	// coercion, and fails if none applies.
	EnsureType(f Formula, target Label) (Formula, error)

	// Statements yields every axiom/theorem filter accepts, in
	// declaration order; the iteration is finite and restartable.
	Statements(filter StatementFilter) []Statement

	BuildProofHyp(label Label, formula Formula, buf *ProofBuf, arr *ProofArray) int
	BuildProofStep(label Label, formula Formula, mandHypIdxs []int, subst Substitution, buf *ProofBuf, arr *ProofArray) int

	// Export serializes a completed proof-tree array to the formal
	// system's native proof format.
	Export(theoremLabel Label, arr *ProofArray, w io.Writer) error

	// Clone returns a cheap handle sharing this Database's underlying
	// storage; safe to call from arbitrary contexts concurrently.
	Clone() Database
}
