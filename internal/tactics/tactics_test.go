package tactics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/proofstep"
	"github.com/funvibe/rumm/internal/rerrors"
	"github.com/funvibe/rumm/internal/tactics"
)

func fixtureStore() *database.InMemoryStore {
	s := database.NewInMemoryStore()
	s.DeclareOperator("wff", 0)
	s.DeclareOperator("/\\", 2)
	s.DeclareVariable("ph", "wff")
	s.DeclareVariable("ps", "wff")
	return s
}

func tok(s *database.InMemoryStore, name string) database.TokenSym {
	sym, ok := s.LookupSymbol(name)
	if !ok {
		sym = database.Symbol{Name: name}
	}
	return database.TokenSym{Symbol: sym}
}

func parse(t *testing.T, s *database.InMemoryStore, typeTok string, contentToks ...string) database.Formula {
	t.Helper()
	toks := []database.TokenSym{tok(s, typeTok)}
	for _, c := range contentToks {
		toks = append(toks, tok(s, c))
	}
	f, err := s.ParseFormula(toks)
	require.NoError(t, err)
	return f
}

func lit(f database.Formula) ast.LiteralFormulaExpr { return ast.LiteralFormulaExpr{Formula: f} }

func tacticLit(t proofctx.Tactic) ast.LiteralTacticExpr { return ast.LiteralTacticExpr{Tactic: t} }

// Scenario 1: identity hypothesis.
func TestHypothesisIdentityScenario(t *testing.T) {
	s := fixtureStore()
	g := parse(t, s, "wff", "ph")
	ctx := proofctx.New(s, g, database.HypothesisList{{Label: "H1", Formula: g}}, nil)

	step, err := tactics.Hypothesis{}.Execute(ctx)
	require.NoError(t, err)
	require.True(t, step.IsHyp())
	require.Equal(t, database.Label("H1"), step.Label())
	require.True(t, step.Result().Eq(g))
}

// Scenario 2: skipped hole.
func TestSkippedHoleScenario(t *testing.T) {
	s := fixtureStore()
	ctx := proofctx.New(s, parse(t, s, "wff", "ph"), nil, nil)
	_, err := tactics.Skipped{}.Execute(ctx)
	require.Error(t, err)
	te, ok := err.(*rerrors.TacticError)
	require.True(t, ok)
	require.Equal(t, "Skipped", te.Kind)
}

// Scenario 3: trivial apply. Rule R: A ⊢ A.
func TestTrivialApplyScenario(t *testing.T) {
	s := fixtureStore()
	s.DeclareVariable("A", "wff")
	aFormula := parse(t, s, "wff", "A")
	s.DeclareStatement("R", true, aFormula, database.HypothesisList{{Label: "e1", Formula: aFormula}})

	g := parse(t, s, "wff", "ph")
	ctx := proofctx.New(s, g, database.HypothesisList{{Label: "hg", Formula: g}}, nil)

	apply := tactics.Apply{
		Theorem:    ast.LiteralStatementExpr{Label: "R"},
		SubTactics: []ast.TacticExpr{tacticLit(tactics.Hypothesis{})},
	}
	step, err := apply.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, database.Label("R"), step.Label())
	require.Len(t, step.Children(), 1)
	require.True(t, step.Result().Eq(g))
}

func TestApplyWrongHypCountFails(t *testing.T) {
	s := fixtureStore()
	s.DeclareVariable("A", "wff")
	aFormula := parse(t, s, "wff", "A")
	s.DeclareStatement("R", true, aFormula, database.HypothesisList{{Label: "e1", Formula: aFormula}})

	g := parse(t, s, "wff", "ph")
	ctx := proofctx.New(s, g, nil, nil)
	apply := tactics.Apply{Theorem: ast.LiteralStatementExpr{Label: "R"}}
	_, err := apply.Execute(ctx)
	require.Error(t, err)
	te := err.(*rerrors.TacticError)
	require.Equal(t, "WrongHypCount", te.Kind)
}

func TestApplyUnknownLabelFails(t *testing.T) {
	s := fixtureStore()
	ctx := proofctx.New(s, parse(t, s, "wff", "ph"), nil, nil)
	apply := tactics.Apply{Theorem: ast.LiteralStatementExpr{Label: "nope"}}
	_, err := apply.Execute(ctx)
	require.Error(t, err)
}

// Scenario 5: try backtracks.
func TestTryBacktracksPastSkipped(t *testing.T) {
	s := fixtureStore()
	s.DeclareVariable("A", "wff")
	aFormula := parse(t, s, "wff", "A")
	s.DeclareStatement("R", true, aFormula, nil)

	g := parse(t, s, "wff", "ph")
	ctx := proofctx.New(s, g, nil, nil)

	apply := tactics.Apply{Theorem: ast.LiteralStatementExpr{Label: "R"}}
	try := tactics.Try{Subs: []ast.TacticExpr{tacticLit(tactics.Skipped{}), tacticLit(apply)}}
	step, err := try.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, database.Label("R"), step.Label())
}

func TestTryTotalityEmptyFails(t *testing.T) {
	s := fixtureStore()
	ctx := proofctx.New(s, parse(t, s, "wff", "ph"), nil, nil)
	_, err := tactics.Try{}.Execute(ctx)
	require.Error(t, err)
	require.Equal(t, "NoMatchFound", err.(*rerrors.TacticError).Kind)
}

func TestTryTotalityReturnsFirstSucceedingChild(t *testing.T) {
	s := fixtureStore()
	g := parse(t, s, "wff", "ph")
	ctx := proofctx.New(s, g, database.HypothesisList{{Label: "h1", Formula: g}}, nil)
	try := tactics.Try{Subs: []ast.TacticExpr{tacticLit(tactics.Skipped{}), tacticLit(tactics.Hypothesis{})}}
	step, err := try.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, database.Label("h1"), step.Label())
}

// Scenario 6: match dispatch.
func TestMatchDispatchesOnShape(t *testing.T) {
	s := fixtureStore()
	goal := parse(t, s, "wff", "/\\", "ph", "ps")
	ctx := proofctx.New(s, goal, database.HypothesisList{
		{Label: "hph", Formula: parse(t, s, "wff", "ph")},
		{Label: "hps", Formula: parse(t, s, "wff", "ps")},
	}, nil)

	conjArm := tactics.MatchArm{
		Pattern: lit(parse(t, s, "wff", "/\\", "ph", "ps")),
		Body: tacticLit(tactics.Apply{
			Theorem: ast.LiteralStatementExpr{Label: "and-intro"},
			SubTactics: []ast.TacticExpr{
				tacticLit(tactics.Hypothesis{}),
				tacticLit(tactics.Hypothesis{}),
			},
		}),
	}
	phArm := tactics.MatchArm{Pattern: lit(parse(t, s, "wff", "ph")), Body: tacticLit(tactics.Hypothesis{})}

	s.DeclareStatement("and-intro", true, parse(t, s, "wff", "/\\", "ph", "ps"), database.HypothesisList{
		{Label: "e1", Formula: parse(t, s, "wff", "ph")},
		{Label: "e2", Formula: parse(t, s, "wff", "ps")},
	})

	m := tactics.Match{Target: ast.GoalExpr{}, Arms: []tactics.MatchArm{conjArm, phArm}}
	step, err := m.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, database.Label("and-intro"), step.Label())
}

func TestMatchFallsThroughToSecondArmOnDifferentShape(t *testing.T) {
	s := fixtureStore()
	goal := parse(t, s, "wff", "ph")
	ctx := proofctx.New(s, goal, database.HypothesisList{{Label: "hph", Formula: goal}}, nil)

	conjArm := tactics.MatchArm{Pattern: lit(parse(t, s, "wff", "/\\", "ph", "ps")), Body: tacticLit(tactics.Skipped{})}
	phArm := tactics.MatchArm{Pattern: lit(parse(t, s, "wff", "ph")), Body: tacticLit(tactics.Hypothesis{})}

	m := tactics.Match{Target: ast.GoalExpr{}, Arms: []tactics.MatchArm{conjArm, phArm}}
	step, err := m.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, database.Label("hph"), step.Label())
}

func TestMatchNoPatternSucceedsFails(t *testing.T) {
	s := fixtureStore()
	goal := parse(t, s, "wff", "ph")
	ctx := proofctx.New(s, goal, nil, nil)
	m := tactics.Match{Target: ast.GoalExpr{}, Arms: []tactics.MatchArm{
		{Pattern: lit(parse(t, s, "wff", "ps")), Body: tacticLit(tactics.Hypothesis{})},
	}}
	_, err := m.Execute(ctx)
	require.Error(t, err)
	require.Equal(t, "NoMatchFound", err.(*rerrors.TacticError).Kind)
}

// Scenario 4: subgoal chaining. R1: ⊢ X. R2: X ⊢ goal.
func TestSubgoalChainingScenario(t *testing.T) {
	s := fixtureStore()
	s.DeclareVariable("X", "wff")
	xFormula := parse(t, s, "wff", "X")
	goal := parse(t, s, "wff", "ph")

	s.DeclareStatement("R1", true, xFormula, nil)
	s.DeclareStatement("R2", true, goal, database.HypothesisList{{Label: "e1", Formula: xFormula}})

	ctx := proofctx.New(s, goal, nil, nil)

	sg := tactics.Subgoal{
		T1:      tacticLit(tactics.Apply{Theorem: ast.LiteralStatementExpr{Label: "R1"}}),
		Formula: lit(xFormula),
		T2: tacticLit(tactics.Apply{
			Theorem:    ast.LiteralStatementExpr{Label: "R2"},
			SubTactics: []ast.TacticExpr{tacticLit(tactics.Hypothesis{})},
		}),
	}
	step, err := sg.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, database.Label("R2"), step.Label())
	require.Len(t, step.Children(), 1)
	require.Equal(t, database.Label("R1"), step.Children()[0].Label())
}

func TestFindHypSearchesHypothesesThenSubgoals(t *testing.T) {
	s := fixtureStore()
	goal := parse(t, s, "wff", "ph")
	ctx := proofctx.New(s, goal, database.HypothesisList{{Label: "hph", Formula: goal}}, nil)

	f := tactics.NewFindHyp(ast.GoalExpr{}, tacticLit(tactics.Hypothesis{}))
	step, err := f.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, database.Label("hph"), step.Label())
}

func TestFindHypFailsWhenNothingMatches(t *testing.T) {
	s := fixtureStore()
	goal := parse(t, s, "wff", "ph")
	ctx := proofctx.New(s, goal, nil, nil)
	f := tactics.NewFindHyp(ast.GoalExpr{}, tacticLit(tactics.Hypothesis{}))
	_, err := f.Execute(ctx)
	require.Error(t, err)
	require.Equal(t, "NoMatchFound", err.(*rerrors.TacticError).Kind)
}

// Find order-sensitivity: an earlier-declared matching statement wins.
func TestFindOrderSensitivity(t *testing.T) {
	s := fixtureStore()
	goal := parse(t, s, "wff", "ph")
	s.DeclareStatement("later", true, goal, nil)

	ctx := proofctx.New(s, goal, nil, nil)
	find := tactics.NewFind(tacticLit(tactics.Skipped{}), tacticLit(tactics.Hypothesis{}), ast.GoalExpr{}, database.AcceptAll)
	step, err := find.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, database.Label("later"), step.Label())

	s2 := fixtureStore()
	s2.DeclareStatement("earlier", true, goal, nil)
	s2.DeclareStatement("later", true, goal, nil)
	ctx2 := proofctx.New(s2, goal, nil, nil)
	step2, err := find.Execute(ctx2)
	require.NoError(t, err)
	require.Equal(t, database.Label("earlier"), step2.Label(), "inserting an earlier-declared match must change find's chosen candidate")
}

func TestUseDispatchesToUserDefinedTactic(t *testing.T) {
	s := fixtureStore()
	goal := parse(t, s, "wff", "ph")
	ctx := proofctx.New(s, goal, database.HypothesisList{{Label: "hg", Formula: goal}}, proofctx.TacticDict{
		"id": {
			Name:       "id",
			ParamNames: nil,
			ParamKinds: nil,
			Body:       ast.LiteralTacticExpr{Tactic: tactics.Hypothesis{}},
		},
	})
	use := tactics.Use{Name: "id"}
	step, err := use.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, database.Label("hg"), step.Label())
}

func TestUseUnknownTacticFails(t *testing.T) {
	s := fixtureStore()
	ctx := proofctx.New(s, parse(t, s, "wff", "ph"), nil, proofctx.TacticDict{})
	_, err := tactics.Use{Name: "missing"}.Execute(ctx)
	require.Error(t, err)
	require.Equal(t, "UnknownTactics", err.(*rerrors.TacticError).Kind)
}

func TestUseWrongParameterCountFails(t *testing.T) {
	s := fixtureStore()
	ctx := proofctx.New(s, parse(t, s, "wff", "ph"), nil, proofctx.TacticDict{
		"id": {Name: "id", Body: ast.LiteralTacticExpr{Tactic: tactics.Hypothesis{}}},
	})
	use := tactics.Use{Name: "id", Args: []tactics.UseArg{{Kind: proofctx.ParamFormula, Formula: ast.GoalExpr{}}}}
	_, err := use.Execute(ctx)
	require.Error(t, err)
	require.Equal(t, "WrongParameterCount", err.(*rerrors.TacticError).Kind)
}

func TestUseIsolatesVariablesFromCaller(t *testing.T) {
	s := fixtureStore()
	phSym, _ := s.LookupSymbol("ph")
	goal := parse(t, s, "wff", "ph")
	callerSubst := database.NewSubstitution()
	callerSubst.Insert(phSym.VarLabel, parse(t, s, "wff", "ps"))

	captured := &captureCtxTactic{}

	ctx := proofctx.New(s, goal, nil, proofctx.TacticDict{
		"probe": {Name: "probe", Body: ast.LiteralTacticExpr{Tactic: captured}},
	}).WithVariables(callerSubst)

	require.Equal(t, 1, ctx.Variables().Len())
	_, err := tactics.Use{Name: "probe"}.Execute(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, captured.seen.Variables().Len(), "use must reset variables for the body's sub-context")
}

// captureCtxTactic records the Context it was invoked with, so tests can
// inspect what `use` actually passed to a definition's body.
type captureCtxTactic struct{ seen proofctx.Context }

func (c *captureCtxTactic) Execute(ctx proofctx.Context) (*proofstep.Step, error) {
	c.seen = ctx
	return proofstep.Hyp("probed", database.Formula{}), nil
}
func (c *captureCtxTactic) String() string { return "probe" }
