package lazy

import "github.com/typegraph-lang/typegraph/internal/model"

// Function is a lazily completed toplevel function.
type Function struct {
	placement
	Lazy[model.Function]
	model.LocalDeclarations
}

var (
	_ Proxy                = (*Function)(nil)
	_ model.Functional     = (*Function)(nil)
	_ model.Scope          = (*Function)(nil)
	_ model.LocalContainer = (*Function)(nil)
)

// NewFunction creates an uncompleted function proxy
func NewFunction(p Placement, completer Completer) *Function {
	f := &Function{placement: p.placement()}
	inner := model.NewFunction(p.Name, p.Container)
	inner.SetUnit(p.Unit)
	f.init(f, inner, completer)
	return f
}

// Kind returns model.KindFunction
func (f *Function) Kind() model.DeclarationKind { return model.KindFunction }

// Annotations returns the decoded annotations
func (f *Function) Annotations() []*model.Annotation { return f.fullTier().Annotations() }

// Type returns the return type
func (f *Function) Type() model.Type { return f.fullTier().Type() }

// TypeParameters returns the type parameters, completing only that tier
func (f *Function) TypeParameters() []*model.TypeParameter {
	return f.typeParameterTier().TypeParameters()
}

// ParameterLists returns the parameter lists
func (f *Function) ParameterLists() []*model.ParameterList {
	return f.fullTier().ParameterLists()
}

// IsDeclaredVoid reports whether the function is declared void
func (f *Function) IsDeclaredVoid() bool { return f.fullTier().IsDeclaredVoid() }

// IsActual reports whether the function refines a supertype member
func (f *Function) IsActual() bool { return f.fullTier().IsActual() }

// IsFormal reports whether the function is abstract
func (f *Function) IsFormal() bool { return f.fullTier().IsFormal() }

// IsOverloaded reports whether the function is one of several overloads
func (f *Function) IsOverloaded() bool { return f.fullTier().IsOverloaded() }

// DirectMember returns a member declared in the function body
func (f *Function) DirectMember(name string) model.Declaration {
	return f.fullTier().DirectMember(name)
}

// Members returns the members declared in the function body
func (f *Function) Members() []model.Declaration { return f.fullTier().Members() }

// AddMember adds a member without completing
func (f *Function) AddMember(d model.Declaration) { f.Raw().AddMember(d) }

func (f *Function) String() string {
	return describe(f.IsLoaded(), "function "+f.QualifiedName())
}
