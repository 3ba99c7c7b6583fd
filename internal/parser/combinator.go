package parser

import (
	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/rerrors"
	"github.com/funvibe/rumm/internal/tactics"
	"github.com/funvibe/rumm/internal/token"
)

// parseCombinator parses the body of a `{ TacticName ... }` form.
func (p *Parser) parseCombinator() (ast.TacticExpr, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	if !token.TacticNames[p.cur.Type] {
		return nil, p.unexpected("a tactic name")
	}
	name := p.cur.Type
	p.advance()

	var t proofctx.Tactic
	var err error
	switch name {
	case token.USE:
		t, err = p.parseUseBody()
	case token.SUBGOAL:
		t, err = p.parseSubgoalBody()
	case token.APPLY:
		t, err = p.parseApplyBody()
	case token.TRY:
		t, err = p.parseTryBody()
	case token.MATCH:
		t, err = p.parseMatchBody()
	case token.FIND:
		t, err = p.parseFindBody()
	case token.FINDHYP:
		t, err = p.parseFindHypBody()
	default:
		return nil, rerrors.NewParseError(p.cur.Pos, "unhandled tactic name %s", name)
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.LiteralTacticExpr{Tactic: t}, nil
}

func (p *Parser) parseUseBody() (proofctx.Tactic, error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var args []tactics.UseArg
	for p.cur.Type != token.RBRACE {
		arg, err := p.parseUseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return tactics.Use{Name: name.Literal, Args: args}, nil
}

func (p *Parser) parseUseArg() (tactics.UseArg, error) {
	switch p.cur.Type {
	case token.SUBST_VAR:
		name := p.cur.Literal
		p.advance()
		return tactics.UseArg{
			Kind:      proofctx.ParamSubstitutionList,
			SubstList: ast.SubstitutionListExpr{Entries: []ast.SubstEntry{{IsVar: true, VarName: name}}},
		}, nil
	case token.STMT_LABEL, token.STMT_VAR:
		s, err := p.parseStatementExpr()
		if err != nil {
			return tactics.UseArg{}, err
		}
		return tactics.UseArg{Kind: proofctx.ParamStatement, Statement: s}, nil
	case token.QMARK, token.BANG, token.TACTIC_VAR, token.LBRACE:
		te, err := p.parseTacticExpr()
		if err != nil {
			return tactics.UseArg{}, err
		}
		return tactics.UseArg{Kind: proofctx.ParamTactic, Tactic: te}, nil
	default:
		f, err := p.parseFormulaExpr()
		if err != nil {
			return tactics.UseArg{}, err
		}
		return tactics.UseArg{Kind: proofctx.ParamFormula, Formula: f}, nil
	}
}

func (p *Parser) parseSubgoalBody() (proofctx.Tactic, error) {
	t1, err := p.parseTacticExpr()
	if err != nil {
		return nil, err
	}
	formula, err := p.parseFormulaExpr()
	if err != nil {
		return nil, err
	}
	t2, err := p.parseTacticExpr()
	if err != nil {
		return nil, err
	}
	return tactics.Subgoal{T1: t1, Formula: formula, T2: t2}, nil
}

func (p *Parser) parseApplyBody() (proofctx.Tactic, error) {
	theorem, err := p.parseStatementExpr()
	if err != nil {
		return nil, err
	}
	var subTactics []ast.TacticExpr
	for p.cur.Type != token.RBRACE && p.cur.Type != token.WITH {
		sub, err := p.parseTacticExpr()
		if err != nil {
			return nil, err
		}
		subTactics = append(subTactics, sub)
	}
	with := ast.SubstitutionListExpr{}
	if p.cur.Type == token.WITH {
		p.advance()
		with, err = p.parseSubstListExpr()
		if err != nil {
			return nil, err
		}
	}
	return tactics.Apply{Theorem: theorem, SubTactics: subTactics, With: with}, nil
}

func (p *Parser) parseTryBody() (proofctx.Tactic, error) {
	var subs []ast.TacticExpr
	for p.cur.Type != token.RBRACE {
		sub, err := p.parseTacticExpr()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return tactics.Try{Subs: subs}, nil
}

func (p *Parser) parseMatchBody() (proofctx.Tactic, error) {
	target, err := p.parseFormulaExpr()
	if err != nil {
		return nil, err
	}
	var arms []tactics.MatchArm
	for p.cur.Type != token.RBRACE {
		pattern, err := p.parseFormulaExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseTacticExpr()
		if err != nil {
			return nil, err
		}
		arms = append(arms, tactics.MatchArm{Pattern: pattern, Body: body})
	}
	return tactics.Match{Target: target, Arms: arms}, nil
}

func (p *Parser) parseFindBody() (proofctx.Tactic, error) {
	t1, err := p.parseTacticExpr()
	if err != nil {
		return nil, err
	}
	target, err := p.parseFormulaExpr()
	if err != nil {
		return nil, err
	}
	t2, err := p.parseTacticExpr()
	if err != nil {
		return nil, err
	}
	return tactics.NewFind(t1, t2, target, database.AcceptAll), nil
}

func (p *Parser) parseFindHypBody() (proofctx.Tactic, error) {
	target, err := p.parseFormulaExpr()
	if err != nil {
		return nil, err
	}
	t, err := p.parseTacticExpr()
	if err != nil {
		return nil, err
	}
	return tactics.NewFindHyp(target, t), nil
}
