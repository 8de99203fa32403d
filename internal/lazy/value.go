package lazy

import "github.com/typegraph-lang/typegraph/internal/model"

// Value is a lazily completed toplevel value.
type Value struct {
	placement
	Lazy[model.Value]
	model.LocalDeclarations
}

var (
	_ Proxy                  = (*Value)(nil)
	_ model.TypedDeclaration = (*Value)(nil)
	_ model.LocalContainer   = (*Value)(nil)
)

// NewValue creates an uncompleted value proxy
func NewValue(p Placement, completer Completer) *Value {
	v := &Value{placement: p.placement()}
	inner := model.NewValue(p.Name, p.Container)
	inner.SetUnit(p.Unit)
	v.init(v, inner, completer)
	return v
}

// Kind returns model.KindValue
func (v *Value) Kind() model.DeclarationKind { return model.KindValue }

// Annotations returns the decoded annotations
func (v *Value) Annotations() []*model.Annotation { return v.fullTier().Annotations() }

// Type returns the value type
func (v *Value) Type() model.Type { return v.fullTier().Type() }

// IsVariable reports whether the value is variable
func (v *Value) IsVariable() bool { return v.fullTier().IsVariable() }

// Setter returns the setter of a variable value, or nil
func (v *Value) Setter() *model.Setter { return v.fullTier().Setter() }

// DirectMember returns a member declared in the value's getter
func (v *Value) DirectMember(name string) model.Declaration {
	return v.fullTier().DirectMember(name)
}

// Members returns the members declared in the value's getter
func (v *Value) Members() []model.Declaration { return v.fullTier().Members() }

// AddMember adds a member without completing
func (v *Value) AddMember(d model.Declaration) { v.Raw().AddMember(d) }

func (v *Value) String() string {
	return describe(v.IsLoaded(), "value "+v.QualifiedName())
}
