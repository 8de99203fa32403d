package lazy

import "github.com/typegraph-lang/typegraph/internal/model"

// ClassAlias is a lazily completed class alias. Its extended type is the
// aliased class type.
type ClassAlias struct {
	placement
	Lazy[model.ClassAlias]
	model.LocalDeclarations
}

var (
	_ Proxy                 = (*ClassAlias)(nil)
	_ model.TypeDeclaration = (*ClassAlias)(nil)
	_ model.LocalContainer  = (*ClassAlias)(nil)
)

// NewClassAlias creates an uncompleted class alias proxy
func NewClassAlias(p Placement, completer Completer) *ClassAlias {
	a := &ClassAlias{placement: p.placement()}
	inner := model.NewClassAlias(p.Name, p.Container)
	inner.SetUnit(p.Unit)
	a.init(a, inner, completer)
	return a
}

// Kind returns model.KindClassAlias
func (a *ClassAlias) Kind() model.DeclarationKind { return model.KindClassAlias }

// Annotations returns the decoded annotations
func (a *ClassAlias) Annotations() []*model.Annotation { return a.fullTier().Annotations() }

// TypeParameters returns the type parameters, completing only that tier
func (a *ClassAlias) TypeParameters() []*model.TypeParameter {
	return a.typeParameterTier().TypeParameters()
}

// AppliedType instantiates the alias, completing only the type parameters
func (a *ClassAlias) AppliedType(qualifying model.Type, args []model.Type) model.Type {
	a.typeParameterTier()
	return model.NewSimpleType(a, qualifying, args)
}

// ExtendedType returns the aliased class type
func (a *ClassAlias) ExtendedType() model.Type { return a.fullTier().ExtendedType() }

// SatisfiedTypes returns the satisfied types
func (a *ClassAlias) SatisfiedTypes() []model.Type { return a.fullTier().SatisfiedTypes() }

// ParameterList returns the initializer parameter list
func (a *ClassAlias) ParameterList() *model.ParameterList { return a.fullTier().ParameterList() }

// IsAbstract reports whether the alias is abstract
func (a *ClassAlias) IsAbstract() bool { return a.fullTier().IsAbstract() }

// DirectMember returns a member declared directly in the alias
func (a *ClassAlias) DirectMember(name string) model.Declaration {
	return a.fullTier().DirectMember(name)
}

// Members returns the members in declaration order
func (a *ClassAlias) Members() []model.Declaration { return a.fullTier().Members() }

// AddMember adds a member without completing
func (a *ClassAlias) AddMember(d model.Declaration) { a.Raw().AddMember(d) }

// Member looks name up through the aliased class
func (a *ClassAlias) Member(name string) model.Declaration { return model.LookupMember(a, name) }

func (a *ClassAlias) String() string {
	return describe(a.IsLoaded(), "class alias "+a.QualifiedName())
}

// TypeAlias is a lazily completed type alias. Its extended type is the
// aliased type.
type TypeAlias struct {
	placement
	Lazy[model.TypeAlias]
	model.LocalDeclarations
}

var (
	_ Proxy                 = (*TypeAlias)(nil)
	_ model.TypeDeclaration = (*TypeAlias)(nil)
	_ model.LocalContainer  = (*TypeAlias)(nil)
)

// NewTypeAlias creates an uncompleted type alias proxy
func NewTypeAlias(p Placement, completer Completer) *TypeAlias {
	a := &TypeAlias{placement: p.placement()}
	inner := model.NewTypeAlias(p.Name, p.Container)
	inner.SetUnit(p.Unit)
	a.init(a, inner, completer)
	return a
}

// Kind returns model.KindTypeAlias
func (a *TypeAlias) Kind() model.DeclarationKind { return model.KindTypeAlias }

// Annotations returns the decoded annotations
func (a *TypeAlias) Annotations() []*model.Annotation { return a.fullTier().Annotations() }

// TypeParameters returns the type parameters, completing only that tier
func (a *TypeAlias) TypeParameters() []*model.TypeParameter {
	return a.typeParameterTier().TypeParameters()
}

// AppliedType instantiates the alias itself, completing only the type
// parameters
func (a *TypeAlias) AppliedType(qualifying model.Type, args []model.Type) model.Type {
	a.typeParameterTier()
	return model.NewSimpleType(a, qualifying, args)
}

// ExtendedType returns the aliased type
func (a *TypeAlias) ExtendedType() model.Type { return a.fullTier().ExtendedType() }

// SatisfiedTypes returns nil
func (a *TypeAlias) SatisfiedTypes() []model.Type { return nil }

// DirectMember returns a member declared directly in the alias
func (a *TypeAlias) DirectMember(name string) model.Declaration {
	return a.fullTier().DirectMember(name)
}

// Members returns the members in declaration order
func (a *TypeAlias) Members() []model.Declaration { return a.fullTier().Members() }

// AddMember adds a member without completing
func (a *TypeAlias) AddMember(d model.Declaration) { a.Raw().AddMember(d) }

// Member looks name up through the aliased type
func (a *TypeAlias) Member(name string) model.Declaration { return model.LookupMember(a, name) }

func (a *TypeAlias) String() string {
	return describe(a.IsLoaded(), "alias "+a.QualifiedName())
}
