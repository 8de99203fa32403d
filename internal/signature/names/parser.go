package names

import (
	"github.com/typegraph-lang/typegraph/internal/errors"
	"github.com/typegraph-lang/typegraph/internal/model"
)

// Parse decodes a name signature into a parameter list. Parameter types are
// left nil; the caller attaches them from the decoded function type.
//
//	input      := parameters EOI
//	parameters := '(' (parameter (',' parameter)*)? ')'
//	parameter  := '!'? IDENT ('+' | '*')? parameters*
//
// '!' marks a functional parameter declared void, '+' a non-empty and '*'
// a possibly empty sequenced parameter. Trailing parameter groups are the
// parameter lists of a functional parameter.
func Parse(input string) (*model.ParameterList, error) {
	l := NewLexer(input)
	pl, err := parseParameters(l)
	if err != nil {
		return nil, err
	}
	if !l.LookingAt(TOKEN_EOI) {
		if l.LookingAt(TOKEN_ILLEGAL) {
			return nil, l.Eat()
		}
		return nil, errors.NewTrailingInput(input, l.Offset())
	}
	return pl, nil
}

func parseParameters(l *Lexer) (*model.ParameterList, error) {
	if err := l.EatToken(TOKEN_LEFT_PAREN); err != nil {
		return nil, err
	}
	pl := &model.ParameterList{}
	if l.LookingAt(TOKEN_RIGHT_PAREN) {
		return pl, l.Eat()
	}

	for {
		p, err := parseParameter(l)
		if err != nil {
			return nil, err
		}
		pl.Parameters = append(pl.Parameters, p)
		if !l.LookingAt(TOKEN_COMMA) {
			break
		}
		if err := l.Eat(); err != nil {
			return nil, err
		}
	}

	if err := l.EatToken(TOKEN_RIGHT_PAREN); err != nil {
		return nil, err
	}
	return pl, nil
}

func parseParameter(l *Lexer) (*model.Parameter, error) {
	p := &model.Parameter{}
	if l.LookingAt(TOKEN_BANG) {
		if err := l.Eat(); err != nil {
			return nil, err
		}
		p.DeclaredVoid = true
	}

	name, err := l.EatIdentifier()
	if err != nil {
		return nil, err
	}
	p.Name = name

	switch {
	case l.LookingAt(TOKEN_PLUS):
		p.Sequenced = true
		p.AtLeastOne = true
		if err := l.Eat(); err != nil {
			return nil, err
		}
	case l.LookingAt(TOKEN_STAR):
		p.Sequenced = true
		if err := l.Eat(); err != nil {
			return nil, err
		}
	}

	for l.LookingAt(TOKEN_LEFT_PAREN) {
		nested, err := parseParameters(l)
		if err != nil {
			return nil, err
		}
		p.ParameterLists = append(p.ParameterLists, nested)
	}
	return p, nil
}
