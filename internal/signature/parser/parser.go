// Package parser decodes type signatures into the model's type graph,
// resolving every name against the declaration universe as it goes.
//
// Grammar:
//
//	type                  := unionType
//	unionType             := intersectionType ('|' intersectionType)*
//	intersectionType      := qualifiedType ('&' qualifiedType)*
//	qualifiedType         := compoundQualifiedType | simpleQualifiedType
//	compoundQualifiedType := '<' unionType '>' '.' typeNameWithArgs ('.' typeNameWithArgs)*
//	simpleQualifiedType   := (packagePart '::')? typeNameWithArgs ('.' typeNameWithArgs)*
//	typeNameWithArgs      := WORD ('<' variance type (',' variance type)* '>')?
//	variance              := 'out ' | 'in ' | ε
package parser

import (
	"strings"

	"github.com/typegraph-lang/typegraph/internal/errors"
	"github.com/typegraph-lang/typegraph/internal/lazy"
	"github.com/typegraph-lang/typegraph/internal/model"
	"github.com/typegraph-lang/typegraph/internal/signature/lexer"
)

// Resolver finds declarations by name. It is implemented by the loader.
type Resolver interface {
	// GetDeclaration resolves name inside pkg of module. name is dotted and,
	// when pkg is not empty, starts with pkg. scope is the declaration the
	// signature belongs to and is searched for type parameters and relative
	// names. A nil declaration with a nil error means not found.
	GetDeclaration(module *model.Module, pkg, name string, scope model.Scope) (model.Declaration, error)

	// GetDirectMember returns the member of scope called name, or nil
	GetDirectMember(scope model.Scope, name string) model.Declaration
}

// Parser decodes signatures. A Parser holds no per-decode state and nested
// DecodeType calls on the same Parser are safe, but the resolver it calls
// decides whether concurrent use is.
type Parser struct {
	resolver Resolver
}

// New creates a Parser resolving names through resolver
func New(resolver Resolver) *Parser {
	return &Parser{resolver: resolver}
}

// context is the state of one DecodeType call
type context struct {
	lex      *lexer.Lexer
	resolver Resolver
	scope    model.Scope
	module   *model.Module
	unit     *model.Unit
}

// part is one typeNameWithArgs. variance stays nil until an argument
// carries use-site variance and is then kept aligned with args.
type part struct {
	name     string
	args     []model.Type
	variance []model.SiteVariance
}

// DecodeType parses signature in the context of scope, module and unit.
// The whole signature must be consumed.
func (p *Parser) DecodeType(signature string, scope model.Scope, module *model.Module, unit *model.Unit) (t model.Type, err error) {
	defer lazy.Recover(&err)

	c := &context{
		lex:      lexer.New(signature),
		resolver: p.resolver,
		scope:    scope,
		module:   module,
		unit:     unit,
	}

	t, err = c.parseType()
	if err != nil {
		return nil, err
	}
	if !c.lex.LookingAt(lexer.TOKEN_EOT) {
		if c.lex.LookingAt(lexer.TOKEN_ILLEGAL) {
			return nil, c.lex.Eat()
		}
		return nil, errors.NewTrailingInput(signature, c.lex.Offset())
	}
	return t, nil
}

func (c *context) parseType() (model.Type, error) {
	return c.parseUnionType()
}

func (c *context) parseUnionType() (model.Type, error) {
	first, err := c.parseIntersectionType()
	if err != nil {
		return nil, err
	}
	if !c.lex.LookingAt(lexer.TOKEN_OR) {
		return first, nil
	}

	cases := []model.Type{first}
	for c.lex.LookingAt(lexer.TOKEN_OR) {
		if err := c.lex.Eat(); err != nil {
			return nil, err
		}
		next, err := c.parseIntersectionType()
		if err != nil {
			return nil, err
		}
		cases = append(cases, next)
	}
	return model.NewUnionType(cases), nil
}

func (c *context) parseIntersectionType() (model.Type, error) {
	first, err := c.parseQualifiedType()
	if err != nil {
		return nil, err
	}
	if !c.lex.LookingAt(lexer.TOKEN_AND) {
		return first, nil
	}

	satisfied := []model.Type{first}
	for c.lex.LookingAt(lexer.TOKEN_AND) {
		if err := c.lex.Eat(); err != nil {
			return nil, err
		}
		next, err := c.parseQualifiedType()
		if err != nil {
			return nil, err
		}
		satisfied = append(satisfied, next)
	}
	return model.NewIntersectionType(satisfied), nil
}

func (c *context) parseQualifiedType() (model.Type, error) {
	if c.lex.LookingAt(lexer.TOKEN_LT) {
		return c.parseCompoundQualifiedType()
	}
	return c.parseSimpleQualifiedType()
}

// parseCompoundQualifiedType parses <A|B>.Inner
func (c *context) parseCompoundQualifiedType() (model.Type, error) {
	if err := c.lex.EatToken(lexer.TOKEN_LT); err != nil {
		return nil, err
	}
	qualifying, err := c.parseUnionType()
	if err != nil {
		return nil, err
	}
	if err := c.lex.EatToken(lexer.TOKEN_GT); err != nil {
		return nil, err
	}
	if err := c.lex.EatToken(lexer.TOKEN_DOT); err != nil {
		return nil, err
	}

	return c.parseQualifiedParts("", "", qualifying)
}

// parseSimpleQualifiedType parses pkg.sub::Outer<T>.Inner
func (c *context) parseSimpleQualifiedType() (model.Type, error) {
	pkg := ""
	if c.hasPackage() {
		var b strings.Builder
		word, err := c.lex.EatWord()
		if err != nil {
			return nil, err
		}
		b.WriteString(word)
		for c.lex.LookingAt(lexer.TOKEN_DOT) {
			if err := c.lex.Eat(); err != nil {
				return nil, err
			}
			word, err := c.lex.EatWord()
			if err != nil {
				return nil, err
			}
			b.WriteByte('.')
			b.WriteString(word)
		}
		if err := c.lex.EatToken(lexer.TOKEN_DBLCOLON); err != nil {
			return nil, err
		}
		pkg = b.String()
	}

	return c.parseQualifiedParts(pkg, pkg, nil)
}

// parseQualifiedParts parses typeNameWithArgs ('.' typeNameWithArgs)* and
// resolves each part against the previous one
func (c *context) parseQualifiedParts(pkg, prefix string, qualifying model.Type) (model.Type, error) {
	fullName := prefix
	for first := true; first || c.lex.LookingAt(lexer.TOKEN_DOT); first = false {
		if !first {
			if err := c.lex.Eat(); err != nil {
				return nil, err
			}
		}
		pt, err := c.parseTypeNameWithArguments()
		if err != nil {
			return nil, err
		}
		if fullName == "" {
			fullName = pt.name
		} else {
			fullName = fullName + "." + pt.name
		}
		qualifying, err = c.loadType(pkg, fullName, pt, qualifying)
		if err != nil {
			return nil, err
		}
	}

	if qualifying == nil {
		return nil, errors.NewNotFound(fullName)
	}
	if qualifying.Declaration() == nil && !qualifying.IsUnion() && !qualifying.IsIntersection() {
		return nil, errors.NewNotAType(fullName)
	}
	return qualifying, nil
}

// hasPackage probes for a package prefix: WORD/DOT runs followed by '::'.
// The lexer is always left where it started.
func (c *context) hasPackage() bool {
	c.lex.Mark()
	defer c.lex.Reset()

	for c.lex.LookingAt(lexer.TOKEN_WORD) || c.lex.LookingAt(lexer.TOKEN_DOT) {
		_ = c.lex.Eat()
	}
	return c.lex.LookingAt(lexer.TOKEN_DBLCOLON)
}

// loadType resolves one part of a qualified name. Not finding a name is
// tolerated only while there is no qualifying type and no type arguments,
// because the part may still be a segment of a dotted package name.
func (c *context) loadType(pkg, fullName string, pt *part, qualifying model.Type) (model.Type, error) {
	decl, err := c.resolve(pkg, fullName, pt, qualifying)
	if err != nil {
		if errors.IsResolution(err) && qualifying == nil && len(pt.args) == 0 {
			return nil, nil
		}
		return nil, err
	}
	if decl == nil {
		return nil, nil
	}

	var td model.TypeDeclaration
	switch d := decl.(type) {
	case model.TypeDeclaration:
		td = d
	case model.TypedDeclaration:
		td = model.NewTypedView(d)
	default:
		return nil, errors.NewNotAType(fullName)
	}

	ret := td.AppliedType(qualifying, pt.args)

	// use-site variance can only be attached once the type parameters are known
	if len(pt.variance) > 0 {
		if st, ok := ret.(*model.SimpleType); ok {
			tps := td.TypeParameters()
			for i := 0; i < len(tps) && i < len(pt.variance); i++ {
				if pt.variance[i] != model.VarianceNone {
					st.SetVariance(tps[i], pt.variance[i])
				}
			}
		}
	}
	return ret, nil
}

func (c *context) resolve(pkg, fullName string, pt *part, qualifying model.Type) (model.Declaration, error) {
	if qualifying == nil {
		var found *model.Package
		if c.module != nil {
			found = c.module.Package(pkg)
		}
		switch {
		case found != nil:
			return c.resolver.GetDeclaration(found.Module(), pkg, fullName, c.scope)
		case c.scope != nil:
			// no package: likely a type parameter or a relative name
			return c.resolver.GetDeclaration(c.module, pkg, fullName, c.scope)
		}
		return nil, nil
	}

	var decl model.Declaration
	var qualifier string
	if qualifying.IsUnion() || qualifying.IsIntersection() {
		qualifier = qualifying.String()
		if m, ok := qualifying.(interface{ Member(string) model.Declaration }); ok {
			decl = m.Member(pt.name)
		}
	} else {
		underlying := model.Unwrap(qualifying.Declaration())
		if underlying == nil {
			return nil, errors.NewMemberNotFound(pt.name, qualifying.String())
		}
		qualifier = underlying.QualifiedName()
		if s, ok := underlying.(model.Scope); ok {
			decl = c.resolver.GetDirectMember(s, pt.name)
		}
	}
	if decl == nil {
		return nil, errors.NewMemberNotFound(pt.name, qualifier)
	}
	return decl, nil
}

// parseTypeNameWithArguments parses WORD ('<' variance type (',' variance type)* '>')?
func (c *context) parseTypeNameWithArguments() (*part, error) {
	name, err := c.lex.EatWord()
	if err != nil {
		return nil, err
	}
	pt := &part{name: name}
	if !c.lex.LookingAt(lexer.TOKEN_LT) {
		return pt, nil
	}
	if err := c.lex.Eat(); err != nil {
		return nil, err
	}

	for {
		c.parseTypeArgumentVariance(pt)
		if c.lex.LookingAt(lexer.TOKEN_EOT) {
			// unterminated argument list
			return nil, c.lex.EatToken(lexer.TOKEN_GT)
		}
		arg, err := c.parseType()
		if err != nil {
			return nil, err
		}
		pt.args = append(pt.args, arg)

		if !c.lex.LookingAt(lexer.TOKEN_COMMA) {
			break
		}
		if err := c.lex.Eat(); err != nil {
			return nil, err
		}
	}

	if err := c.lex.EatToken(lexer.TOKEN_GT); err != nil {
		return nil, err
	}
	return pt, nil
}

// parseTypeArgumentVariance records the optional variance of the next
// argument. Nothing is recorded until some argument has variance; at that
// point earlier arguments are back-filled with VarianceNone.
func (c *context) parseTypeArgumentVariance(pt *part) {
	variance := model.VarianceNone
	switch {
	case c.lex.LookingAt(lexer.TOKEN_OUT):
		variance = model.VarianceOut
		_ = c.lex.Eat()
	case c.lex.LookingAt(lexer.TOKEN_IN):
		variance = model.VarianceIn
		_ = c.lex.Eat()
	}

	if variance != model.VarianceNone && pt.variance == nil {
		pt.variance = make([]model.SiteVariance, len(pt.args), len(pt.args)+1)
	}
	if pt.variance != nil {
		pt.variance = append(pt.variance, variance)
	}
}
