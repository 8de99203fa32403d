package lazy

import "github.com/typegraph-lang/typegraph/internal/model"

// Class is a lazily completed class.
type Class struct {
	placement
	Lazy[model.Class]
	model.LocalDeclarations
}

var (
	_ Proxy                 = (*Class)(nil)
	_ model.TypeDeclaration = (*Class)(nil)
	_ model.LocalContainer  = (*Class)(nil)
)

// NewClass creates an uncompleted class proxy
func NewClass(p Placement, completer Completer) *Class {
	c := &Class{placement: p.placement()}
	inner := model.NewClass(p.Name, p.Container)
	inner.SetUnit(p.Unit)
	c.init(c, inner, completer)
	return c
}

// Kind returns model.KindClass
func (c *Class) Kind() model.DeclarationKind { return model.KindClass }

// Annotations returns the decoded annotations
func (c *Class) Annotations() []*model.Annotation { return c.fullTier().Annotations() }

// TypeParameters returns the type parameters, completing only that tier
func (c *Class) TypeParameters() []*model.TypeParameter {
	return c.typeParameterTier().TypeParameters()
}

// AppliedType instantiates the class, completing only the type parameters
func (c *Class) AppliedType(qualifying model.Type, args []model.Type) model.Type {
	c.typeParameterTier()
	return model.NewSimpleType(c, qualifying, args)
}

// ExtendedType returns the superclass type
func (c *Class) ExtendedType() model.Type { return c.fullTier().ExtendedType() }

// SatisfiedTypes returns the satisfied interface types
func (c *Class) SatisfiedTypes() []model.Type { return c.fullTier().SatisfiedTypes() }

// ParameterList returns the initializer parameter list
func (c *Class) ParameterList() *model.ParameterList { return c.fullTier().ParameterList() }

// IsAbstract reports whether the class is abstract
func (c *Class) IsAbstract() bool { return c.fullTier().IsAbstract() }

// IsFinal reports whether the class is final
func (c *Class) IsFinal() bool { return c.fullTier().IsFinal() }

// DirectMember returns a member declared directly in the class
func (c *Class) DirectMember(name string) model.Declaration {
	return c.fullTier().DirectMember(name)
}

// Members returns the members in declaration order
func (c *Class) Members() []model.Declaration { return c.fullTier().Members() }

// AddMember adds a member without completing
func (c *Class) AddMember(d model.Declaration) { c.Raw().AddMember(d) }

// Member looks name up in the class hierarchy
func (c *Class) Member(name string) model.Declaration { return model.LookupMember(c, name) }

func (c *Class) String() string {
	return describe(c.IsLoaded(), "class "+c.QualifiedName())
}

// Interface is a lazily completed interface.
type Interface struct {
	placement
	Lazy[model.Interface]
	model.LocalDeclarations
}

var (
	_ Proxy                 = (*Interface)(nil)
	_ model.TypeDeclaration = (*Interface)(nil)
	_ model.LocalContainer  = (*Interface)(nil)
)

// NewInterface creates an uncompleted interface proxy
func NewInterface(p Placement, completer Completer) *Interface {
	i := &Interface{placement: p.placement()}
	inner := model.NewInterface(p.Name, p.Container)
	inner.SetUnit(p.Unit)
	i.init(i, inner, completer)
	return i
}

// Kind returns model.KindInterface
func (i *Interface) Kind() model.DeclarationKind { return model.KindInterface }

// Annotations returns the decoded annotations
func (i *Interface) Annotations() []*model.Annotation { return i.fullTier().Annotations() }

// TypeParameters returns the type parameters, completing only that tier
func (i *Interface) TypeParameters() []*model.TypeParameter {
	return i.typeParameterTier().TypeParameters()
}

// AppliedType instantiates the interface, completing only the type parameters
func (i *Interface) AppliedType(qualifying model.Type, args []model.Type) model.Type {
	i.typeParameterTier()
	return model.NewSimpleType(i, qualifying, args)
}

// ExtendedType returns nil
func (i *Interface) ExtendedType() model.Type { return nil }

// SatisfiedTypes returns the satisfied interface types
func (i *Interface) SatisfiedTypes() []model.Type { return i.fullTier().SatisfiedTypes() }

// DirectMember returns a member declared directly in the interface
func (i *Interface) DirectMember(name string) model.Declaration {
	return i.fullTier().DirectMember(name)
}

// Members returns the members in declaration order
func (i *Interface) Members() []model.Declaration { return i.fullTier().Members() }

// AddMember adds a member without completing
func (i *Interface) AddMember(d model.Declaration) { i.Raw().AddMember(d) }

// Member looks name up in the interface hierarchy
func (i *Interface) Member(name string) model.Declaration { return model.LookupMember(i, name) }

func (i *Interface) String() string {
	return describe(i.IsLoaded(), "interface "+i.QualifiedName())
}
