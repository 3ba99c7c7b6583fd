package database

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Database backend that persists the statement table
// in SQLite via modernc.org/sqlite, a pure-Go driver.
// Grammar declarations (operator arities, variable type-codes, coercion
// rules) stay in memory, the way a real formal-system library would keep
// its parsed grammar resident; only the statement list, which must be
// enumerable in declaration order, is backed by a real queryable
// store, ordered by an autoincrement `seq` column.
type SQLiteStore struct {
	mu        *sync.Mutex
	db        *sql.DB
	grammar   *grammar
	symbols   map[string]Symbol
	coercions []coercion
}

// OpenSQLiteStore opens (creating if necessary) a statement database at
// path. Use ":memory:" for an ephemeral store.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS statements (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	label TEXT NOT NULL UNIQUE,
	is_axiom INTEGER NOT NULL,
	conclusion TEXT NOT NULL,
	essentials TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{
		mu:      &sync.Mutex{},
		db:      db,
		grammar: newGrammar(),
		symbols: make(map[string]Symbol),
	}, nil
}

// Clone returns a handle sharing the same *sql.DB connection pool and
// grammar tables; safe for concurrent use per database/sql's own
// guarantees.
func (s *SQLiteStore) Clone() Database { return s }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) DeclareOperator(token string, arity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grammar.DeclareOperator(token, arity)
	s.symbols[token] = Symbol{Name: token, Arity: arity}
}

func (s *SQLiteStore) DeclareVariable(name, typeCode string) Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grammar.DeclareVariable(name, typeCode)
	label := s.grammar.internVar(name)
	s.symbols[name] = Symbol{Name: name, TypeCode: typeCode, IsVar: true, VarLabel: label}
	return label
}

// DeclareCoercion registers a grammar coercion path for EnsureType.
func (s *SQLiteStore) DeclareCoercion(from, to, wrapper string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coercions = append(s.coercions, coercion{FromType: from, ToType: to, Wrapper: wrapper})
	s.grammar.DeclareOperator(wrapper, 1)
}

func (s *SQLiteStore) Parse(file string) error {
	return fmt.Errorf("SQLiteStore.Parse: loading %q from disk requires the external formal-system library, out of scope here", file)
}

func (s *SQLiteStore) LookupSymbol(name string) (Symbol, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sym, ok := s.symbols[name]
	return sym, ok
}

func (s *SQLiteStore) LookupLabel(name string) (Label, bool) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM statements WHERE label = ?`, name).Scan(&count)
	if err != nil || count == 0 {
		return "", false
	}
	return Label(name), true
}

func (s *SQLiteStore) GetTheoremFormulas(label Label) (Formula, HypothesisList, bool) {
	row := s.db.QueryRow(`SELECT conclusion, essentials FROM statements WHERE label = ?`, string(label))
	var conclText, essText string
	if err := row.Scan(&conclText, &essText); err != nil {
		return Formula{}, nil, false
	}
	concl, err := s.decodeFormula(conclText)
	if err != nil {
		return Formula{}, nil, false
	}
	essentials, err := s.decodeHypotheses(essText)
	if err != nil {
		return Formula{}, nil, false
	}
	return concl, essentials, true
}

func (s *SQLiteStore) ParseFormula(tokens []TokenSym) (Formula, error) {
	if len(tokens) == 0 {
		return Formula{}, fmt.Errorf("empty formula")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	typeCode := tokens[0].Symbol.Name
	root, err := s.grammar.parseContent(tokens[1:])
	if err != nil {
		return Formula{}, err
	}
	return Formula{TypeCode: typeCode, Root: root}, nil
}

// EnsureType tries, in order: (1) identity if type codes already match,
// (2) a registered coercion, (3) failure.
func (s *SQLiteStore) EnsureType(f Formula, target Label) (Formula, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	targetType := f.TypeCode
	if t, ok := s.grammar.typeOfVarLabel(target); ok {
		targetType = t
	}
	if f.TypeCode == targetType {
		return f, nil
	}
	for _, c := range s.coercions {
		if c.FromType == f.TypeCode && c.ToType == targetType {
			return Formula{TypeCode: targetType, Root: Term{Head: Label(c.Wrapper), Args: []Term{f.Root}}}, nil
		}
	}
	return Formula{}, &WrongTypecodeError{Src: f.TypeCode, Target: targetType, Label: target}
}

func (s *SQLiteStore) Statements(filter StatementFilter) []Statement {
	if filter == nil {
		filter = AcceptAll
	}
	rows, err := s.db.Query(`SELECT label, is_axiom, conclusion, essentials FROM statements ORDER BY seq ASC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []Statement
	for rows.Next() {
		var label string
		var isAxiom int
		var conclText, essText string
		if err := rows.Scan(&label, &isAxiom, &conclText, &essText); err != nil {
			continue
		}
		concl, err := s.decodeFormula(conclText)
		if err != nil {
			continue
		}
		essentials, err := s.decodeHypotheses(essText)
		if err != nil {
			continue
		}
		stmt := Statement{Label: Label(label), IsAxiom: isAxiom != 0, Conclusion: concl, Essentials: essentials}
		if filter(stmt.IsAxiom, stmt.Label) {
			out = append(out, stmt)
		}
	}
	return out
}

// DeclareStatement inserts an axiom or theorem, persisted immediately.
func (s *SQLiteStore) DeclareStatement(label Label, isAxiom bool, conclusion Formula, essentials HypothesisList) error {
	_, err := s.db.Exec(
		`INSERT INTO statements (label, is_axiom, conclusion, essentials) VALUES (?, ?, ?, ?)`,
		string(label), boolToInt(isAxiom), encodeFormula(conclusion), encodeHypotheses(essentials),
	)
	return err
}

func (s *SQLiteStore) BuildProofHyp(label Label, formula Formula, buf *ProofBuf, arr *ProofArray) int {
	arr.Nodes = append(arr.Nodes, ProofNode{Label: label, Formula: formula, IsHyp: true})
	return len(arr.Nodes) - 1
}

func (s *SQLiteStore) BuildProofStep(label Label, formula Formula, mandHypIdxs []int, subst Substitution, buf *ProofBuf, arr *ProofArray) int {
	arr.Nodes = append(arr.Nodes, ProofNode{Label: label, Formula: formula, HypIdxs: append([]int(nil), mandHypIdxs...)})
	return len(arr.Nodes) - 1
}

func (s *SQLiteStore) Export(theoremLabel Label, arr *ProofArray, w io.Writer) error {
	if arr.Qed < 0 || arr.Qed >= len(arr.Nodes) {
		return fmt.Errorf("proof array for %s has no qed step set", theoremLabel)
	}
	for idx, n := range arr.Nodes {
		if n.IsHyp {
			fmt.Fprintf(w, "%d hyp %s %s\n", idx, n.Label, n.Formula)
			continue
		}
		fmt.Fprintf(w, "%d step %s %v %s\n", idx, n.Label, n.HypIdxs, n.Formula)
	}
	fmt.Fprintf(w, "qed %d\n", arr.Qed)
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// encodeFormula/decodeFormula serialize a Formula to a reversible flat
// token string for SQLite storage: "<typecode> <token>...", vars
// rendered with a leading '&' the way formula literals spell them in
// script source.
func encodeFormula(f Formula) string {
	var sb strings.Builder
	sb.WriteString(f.TypeCode)
	encodeTerm(&sb, f.Root)
	return sb.String()
}

func encodeTerm(sb *strings.Builder, t Term) {
	sb.WriteByte(' ')
	if t.IsVar() {
		sb.WriteByte('&')
		sb.WriteString(varName(t.Head))
		return
	}
	sb.WriteString(string(t.Head))
	for _, a := range t.Args {
		encodeTerm(sb, a)
	}
}

func (s *SQLiteStore) decodeFormula(text string) (Formula, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Formula{}, fmt.Errorf("empty encoded formula")
	}
	typeCode := fields[0]
	s.mu.Lock()
	defer s.mu.Unlock()
	root, _, err := s.grammar.parseOne(tokensFromFields(fields[1:]))
	if err != nil {
		return Formula{}, err
	}
	return Formula{TypeCode: typeCode, Root: root}, nil
}

func tokensFromFields(fields []string) []TokenSym {
	out := make([]TokenSym, len(fields))
	for i, f := range fields {
		if strings.HasPrefix(f, "&") {
			out[i] = TokenSym{Symbol: Symbol{Name: strings.TrimPrefix(f, "&"), IsVar: true}}
		} else {
			out[i] = TokenSym{Symbol: Symbol{Name: f}}
		}
	}
	return out
}

func encodeHypotheses(hyps HypothesisList) string {
	parts := make([]string, len(hyps))
	for i, h := range hyps {
		parts[i] = string(h.Label) + "=" + encodeFormula(h.Formula)
	}
	return strings.Join(parts, "|")
}

func (s *SQLiteStore) decodeHypotheses(text string) (HypothesisList, error) {
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, "|")
	out := make(HypothesisList, 0, len(parts))
	for _, p := range parts {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed encoded hypothesis %q", p)
		}
		f, err := s.decodeFormula(kv[1])
		if err != nil {
			return nil, err
		}
		out = append(out, Hypothesis{Label: Label(kv[0]), Formula: f})
	}
	return out, nil
}
