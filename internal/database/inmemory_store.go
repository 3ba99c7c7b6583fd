package database

import (
	"fmt"
	"io"
	"sort"
)

// coercion is a registered grammar-driven type coercion rule: a formula of
// FromType can be rewritten to ToType by wrapping its root in Wrapper.
type coercion struct {
	FromType, ToType string
	Wrapper          string // operator token the formula's root gets wrapped in
}

// InMemoryStore is a minimal, in-process Database backend used by unit
// tests and as the default store when no sqlite file is configured. It
// holds everything in Go maps/slices; Clone shares the same underlying
// state.
type InMemoryStore struct {
	state *storeState
}

type storeState struct {
	grammar    *grammar
	symbols    map[string]Symbol
	statements []Statement // in declaration order
	byLabel    map[Label]int
	coercions  []coercion
}

// NewInMemoryStore returns an empty store ready for Declare* calls.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{state: &storeState{
		grammar: newGrammar(),
		symbols: make(map[string]Symbol),
		byLabel: make(map[Label]int),
	}}
}

func (s *InMemoryStore) Clone() Database { return &InMemoryStore{state: s.state} }

// DeclareOperator registers a constant token and its arity with the
// grammar and the symbol table.
func (s *InMemoryStore) DeclareOperator(token string, arity int) {
	s.state.grammar.DeclareOperator(token, arity)
	s.state.symbols[token] = Symbol{Name: token, Arity: arity}
}

// DeclareVariable registers a floating variable and its type-code.
func (s *InMemoryStore) DeclareVariable(name, typeCode string) Label {
	s.state.grammar.DeclareVariable(name, typeCode)
	label := s.state.grammar.internVar(name)
	s.state.symbols[name] = Symbol{Name: name, TypeCode: typeCode, IsVar: true, VarLabel: label}
	return label
}

// DeclareCoercion registers a grammar coercion path for EnsureType.
func (s *InMemoryStore) DeclareCoercion(from, to, wrapper string) {
	s.state.coercions = append(s.state.coercions, coercion{FromType: from, ToType: to, Wrapper: wrapper})
	s.state.grammar.DeclareOperator(wrapper, 1)
}

// DeclareStatement adds an axiom or theorem in declaration order.
func (s *InMemoryStore) DeclareStatement(label Label, isAxiom bool, conclusion Formula, essentials HypothesisList) {
	s.state.statements = append(s.state.statements, Statement{
		Label: label, IsAxiom: isAxiom, Conclusion: conclusion, Essentials: essentials,
	})
	s.state.byLabel[label] = len(s.state.statements) - 1
}

func (s *InMemoryStore) Parse(file string) error {
	return fmt.Errorf("InMemoryStore.Parse: loading %q from disk is not supported; use Declare* to build fixtures", file)
}

func (s *InMemoryStore) LookupSymbol(name string) (Symbol, bool) {
	sym, ok := s.state.symbols[name]
	return sym, ok
}

func (s *InMemoryStore) LookupLabel(name string) (Label, bool) {
	label := Label(name)
	if _, ok := s.state.byLabel[label]; ok {
		return label, true
	}
	return "", false
}

func (s *InMemoryStore) GetTheoremFormulas(label Label) (Formula, HypothesisList, bool) {
	idx, ok := s.state.byLabel[label]
	if !ok {
		return Formula{}, nil, false
	}
	stmt := s.state.statements[idx]
	return stmt.Conclusion, stmt.Essentials, true
}

func (s *InMemoryStore) ParseFormula(tokens []TokenSym) (Formula, error) {
	if len(tokens) == 0 {
		return Formula{}, fmt.Errorf("empty formula")
	}
	typeCode := tokens[0].Symbol.Name
	root, err := s.state.grammar.parseContent(tokens[1:])
	if err != nil {
		return Formula{}, err
	}
	return Formula{TypeCode: typeCode, Root: root}, nil
}

// EnsureType tries, in order: (1) identity if type codes already
// match, (2) a registered coercion, (3) failure.
func (s *InMemoryStore) EnsureType(f Formula, target Label) (Formula, error) {
	targetType := f.TypeCode
	if t, ok := s.state.grammar.typeOfVarLabel(target); ok {
		targetType = t
	}
	if f.TypeCode == targetType {
		return f, nil
	}
	for _, c := range s.state.coercions {
		if c.FromType == f.TypeCode && c.ToType == targetType {
			return Formula{TypeCode: targetType, Root: Term{Head: Label(c.Wrapper), Args: []Term{f.Root}}}, nil
		}
	}
	return Formula{}, &WrongTypecodeError{Src: f.TypeCode, Target: targetType, Label: target}
}

func (s *InMemoryStore) Statements(filter StatementFilter) []Statement {
	if filter == nil {
		filter = AcceptAll
	}
	out := make([]Statement, 0, len(s.state.statements))
	for _, stmt := range s.state.statements {
		if filter(stmt.IsAxiom, stmt.Label) {
			out = append(out, stmt)
		}
	}
	return out
}

func (s *InMemoryStore) BuildProofHyp(label Label, formula Formula, buf *ProofBuf, arr *ProofArray) int {
	arr.Nodes = append(arr.Nodes, ProofNode{Label: label, Formula: formula, IsHyp: true})
	return len(arr.Nodes) - 1
}

func (s *InMemoryStore) BuildProofStep(label Label, formula Formula, mandHypIdxs []int, subst Substitution, buf *ProofBuf, arr *ProofArray) int {
	node := ProofNode{Label: label, Formula: formula, HypIdxs: append([]int(nil), mandHypIdxs...)}
	arr.Nodes = append(arr.Nodes, node)
	return len(arr.Nodes) - 1
}

func (s *InMemoryStore) Export(theoremLabel Label, arr *ProofArray, w io.Writer) error {
	if arr.Qed < 0 || arr.Qed >= len(arr.Nodes) {
		return fmt.Errorf("proof array for %s has no qed step set", theoremLabel)
	}
	order := topoOrder(arr)
	for _, idx := range order {
		n := arr.Nodes[idx]
		if n.IsHyp {
			fmt.Fprintf(w, "%d hyp %s %s\n", idx, n.Label, n.Formula)
			continue
		}
		fmt.Fprintf(w, "%d step %s %v %s\n", idx, n.Label, n.HypIdxs, n.Formula)
	}
	fmt.Fprintf(w, "qed %d\n", arr.Qed)
	return nil
}

// topoOrder is a stable, deterministic emission order (index order is
// already a valid topological order, since children are always appended
// before their parent by ProofStep.ToProofArray).
func topoOrder(arr *ProofArray) []int {
	idxs := make([]int, len(arr.Nodes))
	for i := range idxs {
		idxs[i] = i
	}
	sort.Ints(idxs)
	return idxs
}
