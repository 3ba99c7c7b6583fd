package database

import "fmt"

// grammar is the small, explicitly-simplified reference "formal-system
// grammar" backing ParseFormula: every constant token has a fixed,
// registered arity (how many subformula arguments follow it in prefix
// position), and every variable has a declared type-code. This is not a
// port of any real formal system's context-free grammar; a production
// deployment swaps this out for the genuine external library.
type grammar struct {
	arities  map[string]int
	varTypes map[string]string
}

func newGrammar() *grammar {
	return &grammar{arities: make(map[string]int), varTypes: make(map[string]string)}
}

// DeclareOperator registers a constant token's arity. Arity 0 means the
// token is a nullary constant (a leaf).
func (g *grammar) DeclareOperator(token string, arity int) {
	g.arities[token] = arity
}

// DeclareVariable registers a floating variable's type-code.
func (g *grammar) DeclareVariable(name, typeCode string) {
	g.varTypes[name] = typeCode
}

func (g *grammar) internVar(name string) Label {
	return Label(varPrefix + name)
}

// typeOfVarLabel returns the declared type-code of a variable Label (as
// produced by internVar/DeclareVariable), used by EnsureType.
func (g *grammar) typeOfVarLabel(l Label) (string, bool) {
	if !isVarLabel(l) {
		return "", false
	}
	t, ok := g.varTypes[varName(l)]
	return t, ok
}

// parseContent builds a Term tree from content tokens (everything after
// the leading type-code token) via recursive-descent prefix parsing.
func (g *grammar) parseContent(tokens []TokenSym) (Term, error) {
	t, rest, err := g.parseOne(tokens)
	if err != nil {
		return Term{}, err
	}
	if len(rest) != 0 {
		return Term{}, fmt.Errorf("formula has %d trailing token(s) after a complete term", len(rest))
	}
	return t, nil
}

func (g *grammar) parseOne(tokens []TokenSym) (Term, []TokenSym, error) {
	if len(tokens) == 0 {
		return Term{}, nil, fmt.Errorf("unexpected end of formula")
	}
	head := tokens[0]
	rest := tokens[1:]

	if head.Symbol.IsVar {
		return Term{Head: g.internVar(head.Symbol.Name)}, rest, nil
	}

	arity, ok := g.arities[head.Symbol.Name]
	if !ok {
		arity = 0
	}
	args := make([]Term, 0, arity)
	for i := 0; i < arity; i++ {
		var arg Term
		var err error
		arg, rest, err = g.parseOne(rest)
		if err != nil {
			return Term{}, nil, err
		}
		args = append(args, arg)
	}
	return Term{Head: Label(head.Symbol.Name), Args: args}, rest, nil
}
