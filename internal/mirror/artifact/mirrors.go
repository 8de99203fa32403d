package artifact

import (
	"strings"

	"github.com/typegraph-lang/typegraph/internal/mirror"
)

var primitives = map[string]bool{
	"boolean": true, "byte": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "char": true, "void": true,
}

type typeMirror string

func (t typeMirror) QualifiedName() string { return string(t) }
func (t typeMirror) IsPrimitive() bool     { return primitives[string(t)] }

func typeOf(name string) mirror.TypeMirror {
	if name == "" {
		return nil
	}
	return typeMirror(name)
}

type annotationMirror struct{ a *Annotation }

func (m annotationMirror) Name() string     { return m.a.Name }
func (m annotationMirror) Value() string    { return m.a.Value }
func (m annotationMirror) Values() []string { return m.a.Values }

type annotated []Annotation

func (as annotated) Annotation(name string) mirror.AnnotationMirror {
	for i := range as {
		if as[i].Name == name {
			return annotationMirror{&as[i]}
		}
	}
	return nil
}

func (as annotated) Annotations() []mirror.AnnotationMirror {
	out := make([]mirror.AnnotationMirror, len(as))
	for i := range as {
		out[i] = annotationMirror{&as[i]}
	}
	return out
}

type typeParameterMirror struct{ tp *TypeParameter }

func (m typeParameterMirror) Name() string     { return m.tp.Name }
func (m typeParameterMirror) Variance() string { return m.tp.Variance }
func (m typeParameterMirror) Bounds() []string { return m.tp.Bounds }

func typeParameters(tps []TypeParameter) []mirror.TypeParameterMirror {
	out := make([]mirror.TypeParameterMirror, len(tps))
	for i := range tps {
		out[i] = typeParameterMirror{&tps[i]}
	}
	return out
}

type variableMirror struct {
	annotated
	rec *Parameter
}

// Name returns the recorded source name; compiled parameters carry none
func (m *variableMirror) Name() string {
	if name := mirror.StringValue(m, mirror.Name); name != "" {
		return name
	}
	return "unknown"
}

func (m *variableMirror) Type() mirror.TypeMirror { return typeOf(m.rec.Type) }

type fieldMirror struct {
	annotated
	Flags
	rec *Field
}

func (m *fieldMirror) Name() string            { return m.rec.Name }
func (m *fieldMirror) Type() mirror.TypeMirror { return typeOf(m.rec.Type) }

type methodMirror struct {
	annotated
	Flags
	rec       *Method
	enclosing *classMirror
	params    []mirror.VariableMirror
}

func newMethodMirror(rec *Method, enclosing *classMirror) *methodMirror {
	m := &methodMirror{annotated: rec.Annotations, Flags: rec.Flags, rec: rec, enclosing: enclosing}
	start := 0
	if rec.Constructor {
		start = enclosing.syntheticParameters()
	}
	for i := start; i < len(rec.Parameters); i++ {
		p := &rec.Parameters[i]
		m.params = append(m.params, &variableMirror{annotated: p.Annotations, rec: p})
	}
	return m
}

func (m *methodMirror) Name() string         { return m.rec.Name }
func (m *methodMirror) IsConstructor() bool  { return m.rec.Constructor }
func (m *methodMirror) IsVariadic() bool     { return m.rec.Variadic }
func (m *methodMirror) IsDeclaredVoid() bool { return !m.rec.Constructor && m.rec.ReturnType == "void" }

func (m *methodMirror) Parameters() []mirror.VariableMirror { return m.params }

func (m *methodMirror) ReturnType() mirror.TypeMirror {
	if m.rec.Constructor {
		return nil
	}
	return typeOf(m.rec.ReturnType)
}

func (m *methodMirror) TypeParameters() []mirror.TypeParameterMirror {
	return typeParameters(m.rec.TypeParameters)
}

func (m *methodMirror) EnclosingClass() mirror.ClassMirror { return m.enclosing }

func (m *methodMirror) IsOverriding() bool {
	return !m.rec.Constructor && m.rec.Overriding
}

func (m *methodMirror) IsOverloading() bool {
	if m.rec.Constructor {
		return false
	}
	for i := range m.enclosing.rec.Methods {
		other := &m.enclosing.rec.Methods[i]
		if other != m.rec && !other.Constructor && other.Name == m.rec.Name {
			return true
		}
	}
	return false
}

type classMirror struct {
	annotated
	Flags
	rec       *Class
	pkg       string
	enclosing *classMirror
	methods   []mirror.MethodMirror
	fields    []mirror.FieldMirror
	inner     []mirror.ClassMirror
}

func newClassMirror(rec *Class, pkg string, enclosing *classMirror) *classMirror {
	c := &classMirror{annotated: rec.Annotations, Flags: rec.Flags, rec: rec, pkg: pkg, enclosing: enclosing}
	for i := range rec.Methods {
		c.methods = append(c.methods, newMethodMirror(&rec.Methods[i], c))
	}
	for i := range rec.Fields {
		f := &rec.Fields[i]
		c.fields = append(c.fields, &fieldMirror{annotated: f.Annotations, Flags: f.Flags, rec: f})
	}
	for _, in := range rec.Inner {
		c.inner = append(c.inner, newClassMirror(in, pkg, c))
	}
	return c
}

// syntheticParameters returns how many leading constructor parameters the
// compiler added: the name and ordinal of an enum constant, or the outer
// instance of a non-static nested class.
func (c *classMirror) syntheticParameters() int {
	if c.rec.Enum {
		return 2
	}
	if c.IsStatic() || c.enclosing == nil {
		return 0
	}
	if c.rec.Local {
		if m := c.enclosingMethod(); m != nil && m.IsStatic() {
			return 0
		}
	}
	return 1
}

func (c *classMirror) Name() string { return c.rec.Name }

// binaryName returns the nested name joined with $, without the package
func (c *classMirror) binaryName() string {
	if c.enclosing == nil {
		return c.rec.Name
	}
	return c.enclosing.binaryName() + "$" + c.rec.Name
}

func (c *classMirror) QualifiedName() string {
	if c.pkg == "" {
		return c.binaryName()
	}
	return c.pkg + "." + c.binaryName()
}

// entry returns the package-list entry of the unit
func (c *classMirror) entry() string {
	if c.pkg == "" {
		return c.binaryName() + ".unit"
	}
	return strings.ReplaceAll(c.pkg, ".", "/") + "/" + c.binaryName() + ".unit"
}

func (c *classMirror) PackageName() string      { return c.pkg }
func (c *classMirror) IsInterface() bool        { return c.rec.Interface }
func (c *classMirror) IsEnum() bool             { return c.rec.Enum }
func (c *classMirror) IsAnonymous() bool        { return c.rec.Anonymous }
func (c *classMirror) IsLocal() bool            { return c.rec.Local }
func (c *classMirror) IsInner() bool            { return c.enclosing != nil && !c.IsStatic() }
func (c *classMirror) IsLoadedFromSource() bool { return c.rec.FromSource }

func (c *classMirror) EnclosingClass() mirror.ClassMirror {
	if c.enclosing == nil {
		return nil
	}
	return c.enclosing
}

func (c *classMirror) EnclosingMethod() mirror.MethodMirror {
	if m := c.enclosingMethod(); m != nil {
		return m
	}
	return nil
}

func (c *classMirror) enclosingMethod() *methodMirror {
	if c.enclosing == nil || c.rec.EnclosingMethod == "" {
		return nil
	}
	for _, m := range c.enclosing.methods {
		if m.Name() == c.rec.EnclosingMethod {
			return m.(*methodMirror)
		}
	}
	return nil
}

func (c *classMirror) TypeParameters() []mirror.TypeParameterMirror {
	return typeParameters(c.rec.TypeParameters)
}

func (c *classMirror) SuperClass() mirror.TypeMirror { return typeOf(c.rec.SuperClass) }

func (c *classMirror) Interfaces() []mirror.TypeMirror {
	out := make([]mirror.TypeMirror, len(c.rec.Interfaces))
	for i, name := range c.rec.Interfaces {
		out[i] = typeMirror(name)
	}
	return out
}

func (c *classMirror) Methods() []mirror.MethodMirror           { return c.methods }
func (c *classMirror) Fields() []mirror.FieldMirror             { return c.fields }
func (c *classMirror) DirectInnerClasses() []mirror.ClassMirror { return c.inner }
