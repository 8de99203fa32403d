package model

// Class is an eagerly constructed class declaration. Lazy class proxies
// wrap one of these as their fully completed representation.
type Class struct {
	Element
	typeParameters []*TypeParameter
	extended       Type
	satisfied      []Type
	parameterList  *ParameterList
	abstract       bool
	final          bool
}

// NewClass creates a class inside container
func NewClass(name string, container Scope) *Class {
	return &Class{Element: Element{name: name, container: container}}
}

// Kind returns KindClass
func (c *Class) Kind() DeclarationKind { return KindClass }

// TypeParameters returns the declared type parameters
func (c *Class) TypeParameters() []*TypeParameter { return c.typeParameters }

// SetTypeParameters replaces the type parameters
func (c *Class) SetTypeParameters(tps []*TypeParameter) { c.typeParameters = tps }

// AppliedType instantiates the class
func (c *Class) AppliedType(qualifying Type, args []Type) Type {
	return NewSimpleType(c, qualifying, args)
}

// ExtendedType returns the superclass type
func (c *Class) ExtendedType() Type { return c.extended }

// SetExtendedType changes the superclass type
func (c *Class) SetExtendedType(t Type) { c.extended = t }

// SatisfiedTypes returns the satisfied interface types
func (c *Class) SatisfiedTypes() []Type { return c.satisfied }

// SetSatisfiedTypes replaces the satisfied interface types
func (c *Class) SetSatisfiedTypes(ts []Type) { c.satisfied = ts }

// ParameterList returns the initializer parameter list
func (c *Class) ParameterList() *ParameterList { return c.parameterList }

// SetParameterList changes the initializer parameter list
func (c *Class) SetParameterList(pl *ParameterList) { c.parameterList = pl }

// IsAbstract reports whether the class is abstract
func (c *Class) IsAbstract() bool { return c.abstract }

// SetAbstract marks the class abstract
func (c *Class) SetAbstract(abstract bool) { c.abstract = abstract }

// IsFinal reports whether the class is final
func (c *Class) IsFinal() bool { return c.final }

// SetFinal marks the class final
func (c *Class) SetFinal(final bool) { c.final = final }

// Member looks name up in the class hierarchy
func (c *Class) Member(name string) Declaration { return LookupMember(c, name) }

func (c *Class) String() string { return "class " + c.QualifiedName() }

// Interface is an eagerly constructed interface declaration.
type Interface struct {
	Element
	typeParameters []*TypeParameter
	satisfied      []Type
}

// NewInterface creates an interface inside container
func NewInterface(name string, container Scope) *Interface {
	return &Interface{Element: Element{name: name, container: container}}
}

// Kind returns KindInterface
func (i *Interface) Kind() DeclarationKind { return KindInterface }

// TypeParameters returns the declared type parameters
func (i *Interface) TypeParameters() []*TypeParameter { return i.typeParameters }

// SetTypeParameters replaces the type parameters
func (i *Interface) SetTypeParameters(tps []*TypeParameter) { i.typeParameters = tps }

// AppliedType instantiates the interface
func (i *Interface) AppliedType(qualifying Type, args []Type) Type {
	return NewSimpleType(i, qualifying, args)
}

// ExtendedType returns nil; interfaces only satisfy
func (i *Interface) ExtendedType() Type { return nil }

// SatisfiedTypes returns the satisfied interface types
func (i *Interface) SatisfiedTypes() []Type { return i.satisfied }

// SetSatisfiedTypes replaces the satisfied interface types
func (i *Interface) SetSatisfiedTypes(ts []Type) { i.satisfied = ts }

// Member looks name up in the interface hierarchy
func (i *Interface) Member(name string) Declaration { return LookupMember(i, name) }

func (i *Interface) String() string { return "interface " + i.QualifiedName() }

// ClassAlias is a class whose extended type is the aliased class type.
type ClassAlias struct {
	Class
}

// NewClassAlias creates a class alias inside container
func NewClassAlias(name string, container Scope) *ClassAlias {
	return &ClassAlias{Class: Class{Element: Element{name: name, container: container}}}
}

// Kind returns KindClassAlias
func (a *ClassAlias) Kind() DeclarationKind { return KindClassAlias }

// AppliedType instantiates the alias itself
func (a *ClassAlias) AppliedType(qualifying Type, args []Type) Type {
	return NewSimpleType(a, qualifying, args)
}

// Member looks name up through the aliased class
func (a *ClassAlias) Member(name string) Declaration { return LookupMember(a, name) }

func (a *ClassAlias) String() string { return "class alias " + a.QualifiedName() }

// TypeAlias is a named alias for an arbitrary type.
type TypeAlias struct {
	Element
	typeParameters []*TypeParameter
	aliased        Type
}

// NewTypeAlias creates a type alias inside container
func NewTypeAlias(name string, container Scope) *TypeAlias {
	return &TypeAlias{Element: Element{name: name, container: container}}
}

// Kind returns KindTypeAlias
func (a *TypeAlias) Kind() DeclarationKind { return KindTypeAlias }

// TypeParameters returns the declared type parameters
func (a *TypeAlias) TypeParameters() []*TypeParameter { return a.typeParameters }

// SetTypeParameters replaces the type parameters
func (a *TypeAlias) SetTypeParameters(tps []*TypeParameter) { a.typeParameters = tps }

// AppliedType instantiates the alias itself, not the aliased type
func (a *TypeAlias) AppliedType(qualifying Type, args []Type) Type {
	return NewSimpleType(a, qualifying, args)
}

// ExtendedType returns the aliased type
func (a *TypeAlias) ExtendedType() Type { return a.aliased }

// SetExtendedType changes the aliased type
func (a *TypeAlias) SetExtendedType(t Type) { a.aliased = t }

// SatisfiedTypes returns nil
func (a *TypeAlias) SatisfiedTypes() []Type { return nil }

// Member looks name up through the aliased type
func (a *TypeAlias) Member(name string) Declaration { return LookupMember(a, name) }

func (a *TypeAlias) String() string { return "alias " + a.QualifiedName() }

// TypeParameter is a type parameter of a class, interface, alias or function.
// Bounds are stored as satisfied types.
type TypeParameter struct {
	Element
	variance  SiteVariance
	satisfied []Type
}

// NewTypeParameter creates a type parameter declared by container
func NewTypeParameter(name string, container Scope, variance SiteVariance) *TypeParameter {
	return &TypeParameter{Element: Element{name: name, container: container}, variance: variance}
}

// Kind returns KindTypeParameter
func (tp *TypeParameter) Kind() DeclarationKind { return KindTypeParameter }

// Variance returns the declaration-site variance
func (tp *TypeParameter) Variance() SiteVariance { return tp.variance }

// IsToplevel returns false; type parameters belong to a declaration
func (tp *TypeParameter) IsToplevel() bool { return false }

// IsMember returns false; type parameters are not members
func (tp *TypeParameter) IsMember() bool { return false }

// TypeParameters returns nil
func (tp *TypeParameter) TypeParameters() []*TypeParameter { return nil }

// AppliedType returns the type parameter as a type
func (tp *TypeParameter) AppliedType(qualifying Type, args []Type) Type {
	return NewSimpleType(tp, qualifying, args)
}

// ExtendedType returns nil
func (tp *TypeParameter) ExtendedType() Type { return nil }

// SatisfiedTypes returns the upper bounds
func (tp *TypeParameter) SatisfiedTypes() []Type { return tp.satisfied }

// SetSatisfiedTypes replaces the upper bounds
func (tp *TypeParameter) SetSatisfiedTypes(ts []Type) { tp.satisfied = ts }

// Member looks name up through the upper bounds
func (tp *TypeParameter) Member(name string) Declaration { return LookupMember(tp, name) }

func (tp *TypeParameter) String() string { return "type parameter " + tp.name }

// FindTypeParameter returns the type parameter called name, or nil
func FindTypeParameter(tps []*TypeParameter, name string) *TypeParameter {
	for _, tp := range tps {
		if tp.Name() == name {
			return tp
		}
	}
	return nil
}

// Function is an eagerly constructed function or method.
type Function struct {
	Element
	typeParameters []*TypeParameter
	typ            Type
	parameterLists []*ParameterList
	declaredVoid   bool
	actual         bool
	formal         bool
	overloaded     bool
}

// NewFunction creates a function inside container
func NewFunction(name string, container Scope) *Function {
	return &Function{Element: Element{name: name, container: container}}
}

// Kind returns KindFunction
func (f *Function) Kind() DeclarationKind { return KindFunction }

// Type returns the return type
func (f *Function) Type() Type { return f.typ }

// SetType changes the return type
func (f *Function) SetType(t Type) { f.typ = t }

// TypeParameters returns the declared type parameters
func (f *Function) TypeParameters() []*TypeParameter { return f.typeParameters }

// SetTypeParameters replaces the type parameters
func (f *Function) SetTypeParameters(tps []*TypeParameter) { f.typeParameters = tps }

// ParameterLists returns the parameter lists
func (f *Function) ParameterLists() []*ParameterList { return f.parameterLists }

// AddParameterList appends a parameter list
func (f *Function) AddParameterList(pl *ParameterList) {
	f.parameterLists = append(f.parameterLists, pl)
}

// IsDeclaredVoid reports whether the function is declared void
func (f *Function) IsDeclaredVoid() bool { return f.declaredVoid }

// SetDeclaredVoid marks the function void
func (f *Function) SetDeclaredVoid(v bool) { f.declaredVoid = v }

// IsActual reports whether the function refines a supertype member
func (f *Function) IsActual() bool { return f.actual }

// SetActual marks the function as refining
func (f *Function) SetActual(v bool) { f.actual = v }

// IsFormal reports whether the function is abstract
func (f *Function) IsFormal() bool { return f.formal }

// SetFormal marks the function abstract
func (f *Function) SetFormal(v bool) { f.formal = v }

// IsOverloaded reports whether the function is one of several overloads
func (f *Function) IsOverloaded() bool { return f.overloaded }

// SetOverloaded marks the function as an overload
func (f *Function) SetOverloaded(v bool) { f.overloaded = v }

func (f *Function) String() string { return "function " + f.QualifiedName() }

// Value is an eagerly constructed value or attribute.
type Value struct {
	Element
	typ      Type
	variable bool
	setter   *Setter
}

// NewValue creates a value inside container
func NewValue(name string, container Scope) *Value {
	return &Value{Element: Element{name: name, container: container}}
}

// Kind returns KindValue
func (v *Value) Kind() DeclarationKind { return KindValue }

// Type returns the value type
func (v *Value) Type() Type { return v.typ }

// SetType changes the value type
func (v *Value) SetType(t Type) { v.typ = t }

// IsVariable reports whether the value is variable or has a setter
func (v *Value) IsVariable() bool { return v.variable || v.setter != nil }

// SetVariable marks the value variable
func (v *Value) SetVariable(variable bool) { v.variable = variable }

// Setter returns the setter, or nil
func (v *Value) Setter() *Setter { return v.setter }

// SetSetter attaches a setter
func (v *Value) SetSetter(s *Setter) { v.setter = s }

func (v *Value) String() string {
	if v.typ == nil {
		return "value " + v.QualifiedName()
	}
	return "value " + v.QualifiedName() + " => " + v.typ.String()
}

// Setter is the setter of a variable value. It can hold local declarations
// captured inside its body.
type Setter struct {
	Element
	LocalDeclarations
	getter *Value
}

// NewSetter creates the setter of getter inside container
func NewSetter(getter *Value, container Scope) *Setter {
	name := ""
	if getter != nil {
		name = getter.Name()
	}
	return &Setter{Element: Element{name: name, container: container}, getter: getter}
}

// Kind returns KindSetter
func (s *Setter) Kind() DeclarationKind { return KindSetter }

// Getter returns the value this setter assigns
func (s *Setter) Getter() *Value { return s.getter }

// Type returns the getter's type
func (s *Setter) Type() Type {
	if s.getter == nil {
		return nil
	}
	return s.getter.Type()
}

// ParameterList holds the parameters of one invocation step
type ParameterList struct {
	Parameters []*Parameter
}

// Parameter is a single parameter. Functional parameters carry their own
// parameter lists.
type Parameter struct {
	Name           string
	Type           Type
	Sequenced      bool
	AtLeastOne     bool
	Defaulted      bool
	DeclaredVoid   bool
	ParameterLists []*ParameterList
}

// IsFunctional reports whether the parameter is itself a function
func (p *Parameter) IsFunctional() bool { return len(p.ParameterLists) > 0 }
