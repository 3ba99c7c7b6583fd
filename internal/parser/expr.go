package parser

import (
	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/token"
)

// parseFormulaExpr parses a FormulaExpr: `goal`, a
// `+name` reference, a `statement`-prefixed StatementExpr, a `$ ... $`
// literal, or the `s/ ... / ... / ...` substitution forms.
func (p *Parser) parseFormulaExpr() (ast.FormulaExpr, error) {
	switch p.cur.Type {
	case token.GOAL:
		p.advance()
		return ast.GoalExpr{}, nil
	case token.FORMULA_VAR:
		name := p.cur.Literal
		p.advance()
		return ast.VarFormulaExpr{Name: name}, nil
	case token.DOLLAR:
		f, err := p.parseLiteralFormula()
		if err != nil {
			return nil, err
		}
		return ast.LiteralFormulaExpr{Formula: f}, nil
	case token.STATEMENT, token.STMT_LABEL, token.STMT_VAR:
		stmt, err := p.parseStatementExpr()
		if err != nil {
			return nil, err
		}
		return ast.OfStatementExpr{Statement: stmt}, nil
	case token.SUBST_PREFIX:
		return p.parseSubstFormula()
	default:
		return nil, p.unexpected("a formula expression")
	}
}

// parseSubstFormula parses the `s/` substitution forms:
// `s/ $what$ / with / in` is a direct textual replacement, and
// `s/ *list / in` applies a named substitution-list variable. The shape
// after `s/` decides which: a `*name` reference means the list form.
func (p *Parser) parseSubstFormula() (ast.FormulaExpr, error) {
	if _, err := p.expect(token.SUBST_PREFIX); err != nil {
		return nil, err
	}

	if p.cur.Type == token.SUBST_VAR {
		name := p.cur.Literal
		p.advance()
		if _, err := p.expect(token.SLASH); err != nil {
			return nil, err
		}
		in, err := p.parseFormulaExpr()
		if err != nil {
			return nil, err
		}
		return ast.ListSubstExpr{ListVarName: name, In: in}, nil
	}

	what, err := p.parseLiteralFormula()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SLASH); err != nil {
		return nil, err
	}
	with, err := p.parseFormulaExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SLASH); err != nil {
		return nil, err
	}
	in, err := p.parseFormulaExpr()
	if err != nil {
		return nil, err
	}
	return ast.DirectSubstExpr{What: what, With: with, In: in}, nil
}

// parseStatementExpr parses a StatementExpr: a bare `~label`/`≈var`, or
// the same prefixed with the optional `statement` keyword.
func (p *Parser) parseStatementExpr() (ast.StatementExpr, error) {
	if p.cur.Type == token.STATEMENT {
		p.advance()
	}
	switch p.cur.Type {
	case token.STMT_LABEL:
		label := p.cur.Literal
		p.advance()
		return ast.LiteralStatementExpr{Label: database.Label(label)}, nil
	case token.STMT_VAR:
		name := p.cur.Literal
		p.advance()
		return ast.VarStatementExpr{Name: name}, nil
	default:
		return nil, p.unexpected("a statement expression")
	}
}

// parseSubstListExpr parses a parenthesized SubstitutionListExpr: zero or
// more entries, each either a `~label $ ... $` literal pair or a bare
// `*name` reference.
func (p *Parser) parseSubstListExpr() (ast.SubstitutionListExpr, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return ast.SubstitutionListExpr{}, err
	}
	var entries []ast.SubstEntry
	for p.cur.Type != token.RPAREN {
		switch p.cur.Type {
		case token.SUBST_VAR:
			name := p.cur.Literal
			p.advance()
			entries = append(entries, ast.SubstEntry{IsVar: true, VarName: name})
		case token.IDENT, token.STMT_LABEL:
			name := p.cur.Literal
			label := database.Label(name)
			if sym, ok := p.db.LookupSymbol(name); ok && sym.IsVar {
				label = sym.VarLabel
			}
			p.advance()
			f, err := p.parseFormulaExpr()
			if err != nil {
				return ast.SubstitutionListExpr{}, err
			}
			entries = append(entries, ast.SubstEntry{Label: label, Formula: f})
		default:
			return ast.SubstitutionListExpr{}, p.unexpected("a target variable or *substvar in substitution list")
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return ast.SubstitutionListExpr{}, err
	}
	return ast.SubstitutionListExpr{Entries: entries}, nil
}

// parseLiteralFormula parses a `$ ... $` embedded formula: the first math token names the type-code, every subsequent
// &-prefixed token is a pattern variable, and the rest are resolved
// against the database's symbol table.
func (p *Parser) parseLiteralFormula() (database.Formula, error) {
	if _, err := p.expect(token.DOLLAR); err != nil {
		return database.Formula{}, err
	}
	if p.cur.Type != token.MM_TOKEN {
		return database.Formula{}, p.unexpected("a type-code token to start a formula")
	}
	typeCode := p.cur.Literal
	toks := []database.TokenSym{{Symbol: database.Symbol{Name: typeCode}, Span: p.cur.Pos.String()}}
	p.advance()

	for p.cur.Type == token.MM_TOKEN || p.cur.Type == token.MM_VAR {
		if p.cur.Type == token.MM_VAR {
			toks = append(toks, database.TokenSym{
				Symbol: database.Symbol{Name: p.cur.Literal, IsVar: true, VarLabel: database.Label(p.cur.Literal)},
				Span:   p.cur.Pos.String(),
			})
			p.advance()
			continue
		}
		sym := database.Symbol{Name: p.cur.Literal}
		if known, ok := p.db.LookupSymbol(p.cur.Literal); ok {
			sym = known
		}
		toks = append(toks, database.TokenSym{Symbol: sym, Span: p.cur.Pos.String()})
		p.advance()
	}

	if _, err := p.expect(token.DOLLAR); err != nil {
		return database.Formula{}, err
	}
	return p.db.ParseFormula(toks)
}
