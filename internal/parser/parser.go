package parser

import (
	"github.com/funvibe/rumm/internal/ast"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/lexer"
	"github.com/funvibe/rumm/internal/proofctx"
	"github.com/funvibe/rumm/internal/rerrors"
	"github.com/funvibe/rumm/internal/tactics"
	"github.com/funvibe/rumm/internal/token"
)

// Parser turns one source file's token stream into a Script. It holds a
// database.Database handle only to resolve `$ ... $` literal formulas at
// parse time — it performs no unification
// or proof evaluation itself.
type Parser struct {
	l   *lexer.Lexer
	db  database.Database
	cur token.Token
}

// New builds a Parser over src (tagged file for diagnostics), resolving
// embedded formulas against db.
func New(src, file string, db database.Database) *Parser {
	p := &Parser{l: lexer.New(src, file), db: db}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.l.NextToken()
	for p.cur.Type == token.NEWLINE {
		p.cur = p.l.NextToken()
	}
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.cur.Type != t {
		return token.Token{}, p.unexpected(string(t))
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// unexpected classifies a token the grammar cannot accept where `want`
// was required: running out of input mid-production is an
// UnexpectedEndOfFile, an ILLEGAL token surfaces the lexer's complaint
// as a LexerError, and anything else is a plain ParseError.
func (p *Parser) unexpected(want string) error {
	switch p.cur.Type {
	case token.EOF:
		return &rerrors.UnexpectedEndOfFile{Pos: p.cur.Pos}
	case token.ILLEGAL:
		return rerrors.NewLexerError(p.cur.Pos, "illegal character %q", p.cur.Lexeme)
	}
	return rerrors.NewParseError(p.cur.Pos, "expected %s, got %s (%q)", want, p.cur.Type, p.cur.Lexeme)
}

// ParseScript parses a complete source file.
func (p *Parser) ParseScript() (*Script, error) {
	script := &Script{}
	for p.cur.Type != token.EOF {
		switch p.cur.Type {
		case token.LOAD:
			p.advance()
			str, err := p.expect(token.STRING)
			if err != nil {
				return nil, err
			}
			script.Loads = append(script.Loads, str.Literal)
		case token.TACTICS:
			def, err := p.parseTacticsDef()
			if err != nil {
				return nil, err
			}
			script.Tactics = append(script.Tactics, def)
		case token.PROOF:
			def, err := p.parseProofDef()
			if err != nil {
				return nil, err
			}
			script.Proofs = append(script.Proofs, def)
		default:
			return nil, p.unexpected("load/tactics/proof")
		}
	}
	return script, nil
}

// parseTacticsDef parses `tactics name(params) body`.
func (p *Parser) parseTacticsDef() (*ast.TacticDefinition, error) {
	doc := p.l.TakeDoc()
	if _, err := p.expect(token.TACTICS); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var params []ast.ParamDef
	for p.cur.Type != token.RPAREN {
		switch p.cur.Type {
		case token.TACTIC_VAR:
			params = append(params, ast.ParamDef{Name: p.cur.Literal, Kind: proofctx.ParamTactic})
			p.advance()
		case token.STMT_VAR:
			params = append(params, ast.ParamDef{Name: p.cur.Literal, Kind: proofctx.ParamStatement})
			p.advance()
		case token.FORMULA_VAR:
			params = append(params, ast.ParamDef{Name: p.cur.Literal, Kind: proofctx.ParamFormula})
			p.advance()
		case token.WITH:
			p.advance()
			sv, err := p.expect(token.SUBST_VAR)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.ParamDef{Name: sv.Literal, Kind: proofctx.ParamSubstitutionList})
		default:
			return nil, p.unexpected("a parameter declaration")
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseTacticExpr()
	if err != nil {
		return nil, err
	}
	return &ast.TacticDefinition{Name: name.Literal, Description: doc, Params: params, Body: body}, nil
}

// parseProofDef parses `proof ~label body`.
func (p *Parser) parseProofDef() (*ast.ProofDefinition, error) {
	p.l.TakeDoc() // a /** */ comment attaches to tactics definitions only
	if _, err := p.expect(token.PROOF); err != nil {
		return nil, err
	}
	label, err := p.expect(token.STMT_LABEL)
	if err != nil {
		return nil, err
	}
	body, err := p.parseTacticExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ProofDefinition{Label: database.Label(label.Literal), Body: body}, nil
}

// ParseTacticExpr parses a single standalone TacticExpr, the form a REPL
// or script fragment needs without a surrounding `proof`/`tactics`
// declaration.
func (p *Parser) ParseTacticExpr() (ast.TacticExpr, error) {
	return p.parseTacticExpr()
}

// parseTacticExpr parses a TacticExpr: `?`, `!`, a
// `@name` reference, or a `{ TacticName Arg* [with SubstListExpr] }`
// combinator form.
func (p *Parser) parseTacticExpr() (ast.TacticExpr, error) {
	switch p.cur.Type {
	case token.QMARK:
		p.advance()
		return ast.LiteralTacticExpr{Tactic: tactics.Skipped{}}, nil
	case token.BANG:
		p.advance()
		return ast.LiteralTacticExpr{Tactic: tactics.Hypothesis{}}, nil
	case token.TACTIC_VAR:
		name := p.cur.Literal
		p.advance()
		return ast.VarTacticExpr{Name: name}, nil
	case token.LBRACE:
		return p.parseCombinator()
	default:
		return nil, p.unexpected("a tactic expression")
	}
}
