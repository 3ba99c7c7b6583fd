package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/parser"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/rerrors"
	"github.com/funvibe/rumm/internal/tactics"
)

func emptyCtx(s *database.InMemoryStore) proofctx.Context {
	return proofctx.New(s, database.Formula{}, nil, nil)
}

func fixtureStore() *database.InMemoryStore {
	s := database.NewInMemoryStore()
	s.DeclareOperator("wff", 0)
	s.DeclareOperator("->", 2)
	s.DeclareVariable("ph", "wff")
	s.DeclareVariable("ps", "wff")
	s.DeclareStatement("ax-mp", true, mustFormula(s, "wff ps"),
		database.HypothesisList{
			{Label: "min", Formula: mustFormula(s, "wff ph")},
			{Label: "maj", Formula: mustFormula(s, "wff -> ph ps")},
		})
	return s
}

func mustFormula(s *database.InMemoryStore, text string) database.Formula {
	toks := tokenizeForTest(s, text)
	f, err := s.ParseFormula(toks)
	if err != nil {
		panic(err)
	}
	return f
}

// tokenizeForTest builds TokenSyms from a whitespace-separated string,
// the same shape the parser's own parseLiteralFormula assembles.
func tokenizeForTest(s *database.InMemoryStore, text string) []database.TokenSym {
	var toks []database.TokenSym
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == ' ' {
			if i > start {
				word := text[start:i]
				sym := database.Symbol{Name: word}
				if known, ok := s.LookupSymbol(word); ok {
					sym = known
				}
				toks = append(toks, database.TokenSym{Symbol: sym})
			}
			start = i + 1
		}
	}
	return toks
}

func TestParseScriptLoadsTacticsAndProofs(t *testing.T) {
	s := fixtureStore()
	src := `load "base.rmm"
tactics triv() !
proof ~ax-mp { apply ~ax-mp !  ! }
`
	p := parser.New(src, "t.rmm", s)
	script, err := p.ParseScript()
	require.NoError(t, err)
	require.Equal(t, []string{"base.rmm"}, script.Loads)
	require.Len(t, script.Tactics, 1)
	require.Equal(t, "triv", script.Tactics[0].Name)
	require.Len(t, script.Proofs, 1)
	require.Equal(t, database.Label("ax-mp"), script.Proofs[0].Label)
}

func TestParseTacticExprSkippedAndHypothesis(t *testing.T) {
	s := fixtureStore()
	p := parser.New("?", "t.rmm", s)
	expr, err := callParseTacticExpr(p)
	require.NoError(t, err)
	lit, ok := expr.(ast.LiteralTacticExpr)
	require.True(t, ok)
	require.IsType(t, tactics.Skipped{}, lit.Tactic)

	p2 := parser.New("!", "t.rmm", s)
	expr2, err := callParseTacticExpr(p2)
	require.NoError(t, err)
	lit2, ok := expr2.(ast.LiteralTacticExpr)
	require.True(t, ok)
	require.IsType(t, tactics.Hypothesis{}, lit2.Tactic)
}

func TestParseTacticExprVarReference(t *testing.T) {
	s := fixtureStore()
	p := parser.New("@k", "t.rmm", s)
	expr, err := callParseTacticExpr(p)
	require.NoError(t, err)
	require.Equal(t, ast.VarTacticExpr{Name: "k"}, expr)
}

func TestParseApplyCombinator(t *testing.T) {
	s := fixtureStore()
	p := parser.New("{ apply ~ax-mp ! ! }", "t.rmm", s)
	expr, err := callParseTacticExpr(p)
	require.NoError(t, err)
	lit, ok := expr.(ast.LiteralTacticExpr)
	require.True(t, ok)
	app, ok := lit.Tactic.(tactics.Apply)
	require.True(t, ok)
	require.Len(t, app.SubTactics, 2)
}

func TestParseTryCombinator(t *testing.T) {
	s := fixtureStore()
	p := parser.New("{ try ? ! }", "t.rmm", s)
	expr, err := callParseTacticExpr(p)
	require.NoError(t, err)
	lit := expr.(ast.LiteralTacticExpr)
	try, ok := lit.Tactic.(tactics.Try)
	require.True(t, ok)
	require.Len(t, try.Subs, 2)
}

func TestParseFindHypCombinator(t *testing.T) {
	s := fixtureStore()
	p := parser.New("{ findhyp goal ! }", "t.rmm", s)
	expr, err := callParseTacticExpr(p)
	require.NoError(t, err)
	lit := expr.(ast.LiteralTacticExpr)
	find, ok := lit.Tactic.(tactics.Find)
	require.True(t, ok)
	require.False(t, find.SearchDatabase)
}

func TestParseSubstListExprWithLiteralFormula(t *testing.T) {
	s := fixtureStore()
	p := parser.New(`{ apply ~ax-mp ! ! with (ph $ wff ph $) } `, "t.rmm", s)
	expr, err := callParseTacticExpr(p)
	require.NoError(t, err)
	lit := expr.(ast.LiteralTacticExpr)
	app := lit.Tactic.(tactics.Apply)
	require.Len(t, app.With.Entries, 1)
	phSym, ok := s.LookupSymbol("ph")
	require.True(t, ok)
	require.Equal(t, phSym.VarLabel, app.With.Entries[0].Label, "a bare variable target must resolve to its interned placeholder label")
}

func TestParseLiteralFormulaBuildsFormula(t *testing.T) {
	s := fixtureStore()
	p := parser.New("{ findhyp $ wff -> ph ps $ ! }", "t.rmm", s)
	expr, err := callParseTacticExpr(p)
	require.NoError(t, err)
	lit := expr.(ast.LiteralTacticExpr)
	find := lit.Tactic.(tactics.Find)
	f, err := find.Target.Evaluate(emptyCtx(s))
	require.NoError(t, err)
	require.Equal(t, "wff", f.TypeCode)
}

func TestParseDocCommentAttachesToTacticsDef(t *testing.T) {
	s := fixtureStore()
	src := `/** discharges the goal verbatim */
tactics triv() !
`
	p := parser.New(src, "t.rmm", s)
	script, err := p.ParseScript()
	require.NoError(t, err)
	require.Len(t, script.Tactics, 1)
	require.Equal(t, "discharges the goal verbatim", script.Tactics[0].Description)
}

func TestParseDirectSubstForm(t *testing.T) {
	s := fixtureStore()
	p := parser.New(`{ findhyp s/ $ wff ph $ / $ wff ps $ / goal ! }`, "t.rmm", s)
	expr, err := callParseTacticExpr(p)
	require.NoError(t, err)
	lit := expr.(ast.LiteralTacticExpr)
	find := lit.Tactic.(tactics.Find)
	ds, ok := find.Target.(ast.DirectSubstExpr)
	require.True(t, ok)
	require.Equal(t, "wff", ds.What.TypeCode)
	require.IsType(t, ast.GoalExpr{}, ds.In)
}

func TestParseListSubstForm(t *testing.T) {
	s := fixtureStore()
	p := parser.New(`{ findhyp s/ *sigma / goal ! }`, "t.rmm", s)
	expr, err := callParseTacticExpr(p)
	require.NoError(t, err)
	lit := expr.(ast.LiteralTacticExpr)
	find := lit.Tactic.(tactics.Find)
	ls, ok := find.Target.(ast.ListSubstExpr)
	require.True(t, ok)
	require.Equal(t, "sigma", ls.ListVarName)
	require.IsType(t, ast.GoalExpr{}, ls.In)
}

func TestParseRejectsUnknownTacticExpr(t *testing.T) {
	s := fixtureStore()
	p := parser.New("banana", "t.rmm", s)
	_, err := callParseTacticExpr(p)
	require.Error(t, err)
	var pe *rerrors.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseEOFMidProductionIsUnexpectedEndOfFile(t *testing.T) {
	s := fixtureStore()
	p := parser.New("{ try ?", "t.rmm", s)
	_, err := callParseTacticExpr(p)
	require.Error(t, err)
	var eof *rerrors.UnexpectedEndOfFile
	require.ErrorAs(t, err, &eof)
}

func TestParseIllegalRuneSurfacesLexerError(t *testing.T) {
	s := fixtureStore()
	p := parser.New("{ try # }", "t.rmm", s)
	_, err := callParseTacticExpr(p)
	require.Error(t, err)
	var le *rerrors.LexerError
	require.ErrorAs(t, err, &le)
	require.Contains(t, le.Error(), "illegal character")
}

func callParseTacticExpr(p *parser.Parser) (ast.TacticExpr, error) {
	return p.ParseTacticExpr()
}
