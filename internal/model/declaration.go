// Package model implements the type graph shared by declarations read from
// source and declarations read from compiled artifacts: types, declarations,
// scopes, packages and modules.
package model

import (
	"strings"
	"sync"
)

// DeclarationKind tags the concrete shape of a declaration
type DeclarationKind int

const (
	// KindClass is a class declaration
	KindClass DeclarationKind = iota
	// KindInterface is an interface declaration
	KindInterface
	// KindFunction is a function or method declaration
	KindFunction
	// KindValue is a value or attribute declaration
	KindValue
	// KindSetter is the setter of a variable value
	KindSetter
	// KindTypeAlias is a type alias declaration
	KindTypeAlias
	// KindClassAlias is a class alias declaration
	KindClassAlias
	// KindTypeParameter is a type parameter of a generic declaration
	KindTypeParameter
	// KindTypedView is a function or value presented as a type-like qualifier
	KindTypedView
)

var kindNames = map[DeclarationKind]string{
	KindClass:         "class",
	KindInterface:     "interface",
	KindFunction:      "function",
	KindValue:         "value",
	KindSetter:        "setter",
	KindTypeAlias:     "alias",
	KindClassAlias:    "class alias",
	KindTypeParameter: "type parameter",
	KindTypedView:     "typed view",
}

// String returns the human-readable kind name
func (k DeclarationKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Declaration is a named, scoped model entity.
type Declaration interface {
	Name() string
	Container() Scope
	QualifiedName() string
	Unit() *Unit
	Kind() DeclarationKind

	// IsToplevel reports whether the container is a package
	IsToplevel() bool

	// IsMember reports whether the container is a class or interface
	IsMember() bool

	Annotations() []*Annotation
}

// TypeDeclaration is a declaration that can be instantiated as a type.
type TypeDeclaration interface {
	Declaration
	Scope

	TypeParameters() []*TypeParameter

	// AppliedType instantiates the declaration with the given qualifying
	// type and type arguments. Argument count is not validated.
	AppliedType(qualifying Type, args []Type) Type

	ExtendedType() Type
	SatisfiedTypes() []Type

	// Member looks a name up in this declaration and its supertypes
	Member(name string) Declaration
}

// TypedDeclaration is a declaration that has a type: functions and values.
type TypedDeclaration interface {
	Declaration
	Type() Type
}

// Functional is a typed declaration with type parameters and parameter lists.
type Functional interface {
	TypedDeclaration
	TypeParameters() []*TypeParameter
	ParameterLists() []*ParameterList
	IsDeclaredVoid() bool
}

// Annotation is a decoded annotation with positional arguments
type Annotation struct {
	Name      string
	Arguments []string
}

// Element holds the state shared by every concrete declaration: name,
// container, unit, annotations and members.
type Element struct {
	name      string
	container Scope
	unit      *Unit
	members   memberSet

	annMu       sync.RWMutex
	annotations []*Annotation
}

// Name returns the simple name
func (e *Element) Name() string { return e.name }

// SetName changes the simple name
func (e *Element) SetName(name string) { e.name = name }

// Container returns the enclosing scope
func (e *Element) Container() Scope { return e.container }

// SetContainer changes the enclosing scope
func (e *Element) SetContainer(s Scope) { e.container = s }

// QualifiedName returns pkg::Outer.Name
func (e *Element) QualifiedName() string { return Qualify(e.container, e.name) }

// Unit returns the compilation unit
func (e *Element) Unit() *Unit { return e.unit }

// SetUnit changes the compilation unit
func (e *Element) SetUnit(u *Unit) { e.unit = u }

// IsToplevel reports whether the container is a package
func (e *Element) IsToplevel() bool { return IsToplevelIn(e.container) }

// IsMember reports whether the container is a class or interface
func (e *Element) IsMember() bool { return IsMemberOf(e.container) }

// DirectMember returns the member declared directly in this element
func (e *Element) DirectMember(name string) Declaration { return e.members.get(name) }

// Members returns the members in insertion order
func (e *Element) Members() []Declaration { return e.members.list() }

// AddMember adds a member
func (e *Element) AddMember(d Declaration) { e.members.add(d) }

// Annotations returns the annotations
func (e *Element) Annotations() []*Annotation {
	e.annMu.RLock()
	defer e.annMu.RUnlock()
	return e.annotations
}

// AddAnnotation appends an annotation
func (e *Element) AddAnnotation(a *Annotation) {
	e.annMu.Lock()
	defer e.annMu.Unlock()
	e.annotations = append(e.annotations, a)
}

// Qualify builds the qualified name of name declared inside container.
// Toplevel names are written pkg::Name, nested ones Outer.Name.
func Qualify(container Scope, name string) string {
	if container == nil {
		return name
	}
	if p, ok := container.(*Package); ok {
		if p.name == "" {
			return name
		}
		return p.name + "::" + name
	}
	return container.QualifiedName() + "." + name
}

// IsToplevelIn reports whether a declaration inside container is toplevel
func IsToplevelIn(container Scope) bool {
	_, ok := container.(*Package)
	return ok
}

// IsMemberOf reports whether a declaration inside container is a class or
// interface member. It only inspects the container's kind, which is fixed
// at construction and never requires completion.
func IsMemberOf(container Scope) bool {
	d, ok := container.(Declaration)
	if !ok {
		return false
	}
	switch d.Kind() {
	case KindClass, KindInterface, KindClassAlias:
		return true
	}
	return false
}

// PackageOf walks the scope chain up to the enclosing package
func PackageOf(s Scope) *Package {
	for s != nil {
		if p, ok := s.(*Package); ok {
			return p
		}
		s = s.Container()
	}
	return nil
}

// LookupMember finds name in td or, failing that, in its extended and
// satisfied types. Cyclic hierarchies terminate.
func LookupMember(td TypeDeclaration, name string) Declaration {
	return lookupMember(td, name, make(map[TypeDeclaration]bool))
}

func lookupMember(td TypeDeclaration, name string, visited map[TypeDeclaration]bool) Declaration {
	if td == nil || visited[td] {
		return nil
	}
	visited[td] = true

	if d := td.DirectMember(name); d != nil {
		return d
	}
	supertypes := td.SatisfiedTypes()
	if ext := td.ExtendedType(); ext != nil {
		supertypes = append([]Type{ext}, supertypes...)
	}
	for _, st := range supertypes {
		if d := memberOfType(st, name, visited); d != nil {
			return d
		}
	}
	return nil
}

func memberOfType(t Type, name string, visited map[TypeDeclaration]bool) Declaration {
	switch tt := t.(type) {
	case *UnionType:
		return tt.Member(name)
	case *IntersectionType:
		return tt.Member(name)
	}
	if t == nil {
		return nil
	}
	return lookupMember(t.Declaration(), name, visited)
}

// MemberOfType finds name through t: union and intersection types use their
// own member lookup, other types look in their declaration's hierarchy.
func MemberOfType(t Type, name string) Declaration {
	return memberOfType(t, name, make(map[TypeDeclaration]bool))
}

// SplitQualifiedName splits "pkg::Outer.Inner" into the package name and the
// dotted declaration path.
func SplitQualifiedName(qualified string) (pkg string, path []string) {
	rest := qualified
	if i := strings.Index(qualified, "::"); i >= 0 {
		pkg = qualified[:i]
		rest = qualified[i+2:]
	}
	if rest == "" {
		return pkg, nil
	}
	return pkg, strings.Split(rest, ".")
}
