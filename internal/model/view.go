package model

// TypedView presents a function or value as a type-like declaration so that
// local types declared inside it can be qualified through it. It is tagged
// KindTypedView and is not an interface declaration; callers unwrap it with
// Underlying before looking up members.
type TypedView struct {
	declaration TypedDeclaration
}

// NewTypedView wraps d
func NewTypedView(d TypedDeclaration) *TypedView {
	return &TypedView{declaration: d}
}

// Underlying returns the wrapped function or value
func (v *TypedView) Underlying() TypedDeclaration { return v.declaration }

// Name returns the underlying name
func (v *TypedView) Name() string { return v.declaration.Name() }

// Container returns the underlying container
func (v *TypedView) Container() Scope { return v.declaration.Container() }

// QualifiedName returns the underlying qualified name
func (v *TypedView) QualifiedName() string { return v.declaration.QualifiedName() }

// Unit returns the underlying unit
func (v *TypedView) Unit() *Unit { return v.declaration.Unit() }

// Kind returns KindTypedView
func (v *TypedView) Kind() DeclarationKind { return KindTypedView }

// IsToplevel reports the underlying placement
func (v *TypedView) IsToplevel() bool { return v.declaration.IsToplevel() }

// IsMember reports the underlying placement
func (v *TypedView) IsMember() bool { return v.declaration.IsMember() }

// Annotations returns nil; the view carries no annotations of its own
func (v *TypedView) Annotations() []*Annotation { return nil }

// TypeParameters returns the underlying type parameters when it is
// functional, otherwise none.
func (v *TypedView) TypeParameters() []*TypeParameter {
	if f, ok := v.declaration.(Functional); ok {
		return f.TypeParameters()
	}
	return nil
}

// AppliedType instantiates the view
func (v *TypedView) AppliedType(qualifying Type, args []Type) Type {
	return NewSimpleType(v, qualifying, args)
}

// ExtendedType returns nil
func (v *TypedView) ExtendedType() Type { return nil }

// SatisfiedTypes returns nil
func (v *TypedView) SatisfiedTypes() []Type { return nil }

// DirectMember delegates to the underlying declaration's scope
func (v *TypedView) DirectMember(name string) Declaration {
	if s, ok := v.declaration.(Scope); ok {
		return s.DirectMember(name)
	}
	return nil
}

// Members delegates to the underlying declaration's scope
func (v *TypedView) Members() []Declaration {
	if s, ok := v.declaration.(Scope); ok {
		return s.Members()
	}
	return nil
}

// AddMember delegates to the underlying declaration's scope
func (v *TypedView) AddMember(d Declaration) {
	if s, ok := v.declaration.(Scope); ok {
		s.AddMember(d)
	}
}

// Member is the same as DirectMember; typed declarations have no supertypes
func (v *TypedView) Member(name string) Declaration { return v.DirectMember(name) }

func (v *TypedView) String() string { return "view of " + v.QualifiedName() }

// Unwrap returns the underlying declaration when d is a TypedView, else d
func Unwrap(d Declaration) Declaration {
	if v, ok := d.(*TypedView); ok {
		return v.declaration
	}
	return d
}

// SameDeclaration compares declarations by identity, looking through views
func SameDeclaration(a, b Declaration) bool {
	return Unwrap(a) == Unwrap(b)
}
