// Package mirror defines the capability-typed view of compiled declarations
// that the loader reads. A mirror exposes the shape of a compiled unit
// (names, modifiers, parameters, native types and metadata annotations)
// without decoding any type signature.
package mirror

// Metadata annotation names. Signatures stored under these keys use the
// grammar decoded by the signature parser.
const (
	// TypeInfo holds the full type signature of a method, field or parameter
	TypeInfo = "typegraph.TypeInfo"
	// Name holds the source name of a parameter or member
	Name = "typegraph.Name"
	// FunctionalParameter holds the name signature of a functional parameter
	FunctionalParameter = "typegraph.FunctionalParameter"
	// Alias holds the aliased type signature of a type or class alias
	Alias = "typegraph.Alias"
	// Kind holds the declaration kind of a toplevel unit
	Kind = "typegraph.Kind"
	// ExtendedType holds the extended type signature of a class
	ExtendedType = "typegraph.ExtendedType"
	// SatisfiedTypes holds the satisfied type signatures of a class or interface
	SatisfiedTypes = "typegraph.SatisfiedTypes"
	// Defaulted marks a parameter with a default argument
	Defaulted = "typegraph.Defaulted"
	// Sequenced marks a variadic parameter, Value is "+" or "*"
	Sequenced = "typegraph.Sequenced"
	// Variable marks a variable value
	Variable = "typegraph.Variable"
	// Ignore marks a member that has no model counterpart
	Ignore = "typegraph.Ignore"
)

// Unit kinds stored under the Kind annotation
const (
	KindClass      = "class"
	KindInterface  = "interface"
	KindFunction   = "function"
	KindValue      = "value"
	KindTypeAlias  = "alias"
	KindClassAlias = "classalias"
)

// AnnotationMirror is an annotation with a primary value and optional list
// of values
type AnnotationMirror interface {
	Name() string
	Value() string
	Values() []string
}

// Annotated is anything that carries annotations
type Annotated interface {
	// Annotation returns the annotation called name, or nil
	Annotation(name string) AnnotationMirror

	// Annotations returns every annotation in declaration order
	Annotations() []AnnotationMirror
}

// Modifiers are the access and inheritance modifiers of a compiled element
type Modifiers interface {
	IsStatic() bool
	IsPublic() bool
	IsProtected() bool
	IsDefaultAccess() bool
	IsAbstract() bool
	IsFinal() bool
}

// TypeMirror is an opaque native type handle
type TypeMirror interface {
	// QualifiedName returns the native name, e.g. platform.lang.String
	QualifiedName() string
	IsPrimitive() bool
}

// TypeParameterMirror is a type parameter of a class or method
type TypeParameterMirror interface {
	Name() string
	// Variance returns "in", "out" or ""
	Variance() string
	// Bounds returns upper bound signatures
	Bounds() []string
}

// VariableMirror is a method parameter
type VariableMirror interface {
	Annotated
	// Name returns the Name annotation value, or "unknown"
	Name() string
	Type() TypeMirror
}

// FieldMirror is a field of a compiled class
type FieldMirror interface {
	Annotated
	Modifiers
	Name() string
	Type() TypeMirror
}

// MethodMirror is a method or constructor of a compiled class
type MethodMirror interface {
	Annotated
	Modifiers
	Name() string
	IsConstructor() bool
	IsVariadic() bool
	IsDeclaredVoid() bool

	// Parameters returns the declared parameters with synthetic ones removed
	Parameters() []VariableMirror

	ReturnType() TypeMirror
	TypeParameters() []TypeParameterMirror
	EnclosingClass() ClassMirror

	// IsOverriding reports whether the method refines a supertype method
	IsOverriding() bool
	// IsOverloading reports whether another method of the same name exists
	IsOverloading() bool
}

// ClassMirror is a compiled unit: a class, interface, or the wrapper of a
// toplevel function or value
type ClassMirror interface {
	Annotated
	Modifiers

	// Name returns the simple name
	Name() string
	// QualifiedName returns the backing-store name, nested names joined by $
	QualifiedName() string
	PackageName() string

	IsInterface() bool
	IsEnum() bool
	IsAnonymous() bool
	IsLocal() bool
	// IsInner reports a nested class that is not static
	IsInner() bool
	IsLoadedFromSource() bool

	EnclosingClass() ClassMirror
	EnclosingMethod() MethodMirror

	TypeParameters() []TypeParameterMirror
	SuperClass() TypeMirror
	Interfaces() []TypeMirror

	Methods() []MethodMirror
	Fields() []FieldMirror
	DirectInnerClasses() []ClassMirror
}

// Source is the backing store: the set of compiled units of each module.
type Source interface {
	// PackageList returns the entry names of pkg in module, e.g.
	// "platform/lang/String.unit". It returns nil if the package is unknown.
	PackageList(module, pkg string) []string

	// PackageExists reports whether module contains pkg
	PackageExists(module, pkg string) bool

	// LookupClass returns the unit with the given backing-store name, or nil
	LookupClass(module, name string) (ClassMirror, error)
}

// StringValue returns the value of the annotation called name on a, or ""
func StringValue(a Annotated, name string) string {
	if ann := a.Annotation(name); ann != nil {
		return ann.Value()
	}
	return ""
}

// Has reports whether a carries the annotation called name
func Has(a Annotated, name string) bool {
	return a.Annotation(name) != nil
}
