package loader

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/typegraph-lang/typegraph/internal/lazy"
	"github.com/typegraph-lang/typegraph/internal/mirror"
	"github.com/typegraph-lang/typegraph/internal/model"
	"github.com/typegraph-lang/typegraph/internal/signature/names"
)

// Backing-store names of the two root supertypes whose equality and hash
// methods get special override treatment
const (
	IdentifiableClass = "lang.Identifiable"
	ObjectClass       = "lang.Object"
)

// typeParameterized is a declaration whose type parameters can be replaced
type typeParameterized interface {
	SetTypeParameters(tps []*model.TypeParameter)
}

// container is a lazy declaration that holds members and signatures
type container interface {
	lazy.Proxy
	model.Scope
}

// annotatable is a declaration that accepts decoded annotations
type annotatable interface {
	AddAnnotation(a *model.Annotation)
}

// CompleteTypeParameters implements lazy.Completer
func (l *Loader) CompleteTypeParameters(p lazy.Proxy) (err error) {
	defer lazy.Recover(&err)
	l.record(func(s *Stats) { s.TypeParameterCompletions++ })

	m := p.Mirror()
	if m == nil {
		return nil
	}

	var target typeParameterized
	var mirrors []mirror.TypeParameterMirror
	switch d := p.(type) {
	case *lazy.Class:
		target, mirrors = d.Raw(), m.TypeParameters()
	case *lazy.Interface:
		target, mirrors = d.Raw(), m.TypeParameters()
	case *lazy.ClassAlias:
		target, mirrors = d.Raw(), m.TypeParameters()
	case *lazy.TypeAlias:
		target, mirrors = d.Raw(), m.TypeParameters()
	case *lazy.Function:
		if method := functionMethod(m, p.Name()); method != nil {
			target, mirrors = d.Raw(), method.TypeParameters()
		}
	}
	if target == nil || len(mirrors) == 0 {
		return nil
	}

	target.SetTypeParameters(newTypeParameters(mirrors, p.(model.Scope)))
	return nil
}

func newTypeParameters(mirrors []mirror.TypeParameterMirror, container model.Scope) []*model.TypeParameter {
	tps := make([]*model.TypeParameter, len(mirrors))
	for i, tpm := range mirrors {
		tps[i] = model.NewTypeParameter(tpm.Name(), container, model.ParseVariance(tpm.Variance()))
	}
	return tps
}

// Complete implements lazy.Completer
func (l *Loader) Complete(p lazy.Proxy) (err error) {
	start := time.Now()
	defer func() {
		l.record(func(s *Stats) {
			s.Completions++
			s.CompletionDuration += time.Since(start)
			if err != nil {
				s.Failures++
			}
		})
		if err != nil {
			l.log.Warn("completion failed", zap.String("declaration", p.QualifiedName()), zap.Error(err))
		}
	}()
	defer lazy.Recover(&err)

	m := p.Mirror()
	if m == nil {
		return nil
	}
	l.log.Debug("completing", zap.String("declaration", p.QualifiedName()), zap.String("unit", m.QualifiedName()))

	c := &completion{loader: l, proxy: p, unit: p.Unit()}
	if pkg := model.PackageOf(p.Container()); pkg != nil {
		c.module = pkg.Module()
	}
	return c.run(m)
}

// completion holds the state of one Complete call
type completion struct {
	loader *Loader
	proxy  lazy.Proxy
	module *model.Module
	unit   *model.Unit
}

func (c *completion) decode(signature string, scope model.Scope) (model.Type, error) {
	t, err := c.loader.parser.DecodeType(signature, scope, c.module, c.unit)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", signature, err)
	}
	return t, nil
}

func (c *completion) decodeAll(signatures []string, scope model.Scope) ([]model.Type, error) {
	var out []model.Type
	for _, sig := range signatures {
		t, err := c.decode(sig, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *completion) run(m mirror.ClassMirror) error {
	switch d := c.proxy.(type) {
	case *lazy.Class:
		addAnnotations(d.Raw(), m)
		return c.completeClass(d.Raw(), d, m)
	case *lazy.ClassAlias:
		addAnnotations(d.Raw(), m)
		if err := c.completeClass(&d.Raw().Class, d, m); err != nil {
			return err
		}
		return c.completeAlias(d.Raw().SetExtendedType, d, m)
	case *lazy.Interface:
		addAnnotations(d.Raw(), m)
		return c.completeInterface(d.Raw(), d, m)
	case *lazy.TypeAlias:
		addAnnotations(d.Raw(), m)
		if err := c.completeBounds(d.Raw().TypeParameters(), m.TypeParameters(), d); err != nil {
			return err
		}
		return c.completeAlias(d.Raw().SetExtendedType, d, m)
	case *lazy.Function:
		addAnnotations(d.Raw(), m)
		if err := c.addLocals(d, m); err != nil {
			return err
		}
		method := functionMethod(m, d.Name())
		if method == nil {
			return fmt.Errorf("unit %s has no method %s", m.QualifiedName(), d.Name())
		}
		if err := c.completeBounds(d.Raw().TypeParameters(), method.TypeParameters(), d); err != nil {
			return err
		}
		return c.completeFunction(d.Raw(), d, method)
	case *lazy.Value:
		addAnnotations(d.Raw(), m)
		if err := c.addLocals(d, m); err != nil {
			return err
		}
		return c.completeValue(d.Raw(), d, m)
	}
	return fmt.Errorf("unsupported declaration %s", c.proxy.QualifiedName())
}

// functionMethod finds the method implementing a toplevel function unit
func functionMethod(m mirror.ClassMirror, name string) mirror.MethodMirror {
	for _, method := range m.Methods() {
		if !method.IsConstructor() && memberName(method, method.Name()) == name {
			return method
		}
	}
	return nil
}

// memberName returns the Name annotation value, or fallback
func memberName(a mirror.Annotated, fallback string) string {
	if name := mirror.StringValue(a, mirror.Name); name != "" {
		return name
	}
	return UnquoteName(fallback)
}

// addAnnotations copies the annotations that are not loader metadata
func addAnnotations(target annotatable, a mirror.Annotated) {
	for _, ann := range a.Annotations() {
		if strings.HasPrefix(ann.Name(), "typegraph.") {
			continue
		}
		args := ann.Values()
		if len(args) == 0 && ann.Value() != "" {
			args = []string{ann.Value()}
		}
		target.AddAnnotation(&model.Annotation{Name: ann.Name(), Arguments: args})
	}
}

func (c *completion) completeBounds(tps []*model.TypeParameter, mirrors []mirror.TypeParameterMirror, scope model.Scope) error {
	for i, tp := range tps {
		if i >= len(mirrors) {
			break
		}
		bounds, err := c.decodeAll(mirrors[i].Bounds(), scope)
		if err != nil {
			return fmt.Errorf("type parameter %s: %w", tp.Name(), err)
		}
		if len(bounds) > 0 {
			tp.SetSatisfiedTypes(bounds)
		}
	}
	return nil
}

func (c *completion) completeAlias(set func(model.Type), scope model.Scope, m mirror.ClassMirror) error {
	sig := mirror.StringValue(m, mirror.Alias)
	if sig == "" {
		return fmt.Errorf("alias unit %s has no aliased type", m.QualifiedName())
	}
	t, err := c.decode(sig, scope)
	if err != nil {
		return err
	}
	set(t)
	return nil
}

// completeTypeBody fills what classes and interfaces share. Nested types
// come first so that every signature decoded afterwards can refer to them;
// then bounds, the kind-specific part in header, satisfied types, methods
// and fields.
func (c *completion) completeTypeBody(satisfy func([]model.Type), scope container, m mirror.ClassMirror, header func() error) error {
	if err := c.addNested(scope, m); err != nil {
		return err
	}
	if err := c.completeBounds(scopeTypeParameters(scope), m.TypeParameters(), scope); err != nil {
		return err
	}
	if header != nil {
		if err := header(); err != nil {
			return err
		}
	}
	if ann := m.Annotation(mirror.SatisfiedTypes); ann != nil {
		satisfied, err := c.decodeAll(ann.Values(), scope)
		if err != nil {
			return err
		}
		satisfy(satisfied)
	}
	if err := c.addMethods(scope, m); err != nil {
		return err
	}
	return c.addFields(scope, m)
}

// scopeTypeParameters reads the type parameters already set on the inner
// value; the type-parameter tier is always done before the full tier
func scopeTypeParameters(s model.Scope) []*model.TypeParameter {
	if g, ok := s.(interface{ TypeParameters() []*model.TypeParameter }); ok {
		return g.TypeParameters()
	}
	return nil
}

func (c *completion) completeClass(cls *model.Class, scope container, m mirror.ClassMirror) error {
	cls.SetAbstract(m.IsAbstract())
	cls.SetFinal(m.IsFinal())

	return c.completeTypeBody(cls.SetSatisfiedTypes, scope, m, func() error {
		if sig := mirror.StringValue(m, mirror.ExtendedType); sig != "" {
			ext, err := c.decode(sig, scope)
			if err != nil {
				return err
			}
			cls.SetExtendedType(ext)
		}
		for _, method := range m.Methods() {
			if method.IsConstructor() && !mirror.Has(method, mirror.Ignore) {
				pl, err := c.parameterList(method, scope)
				if err != nil {
					return fmt.Errorf("initializer: %w", err)
				}
				cls.SetParameterList(pl)
				break
			}
		}
		return nil
	})
}

func (c *completion) completeInterface(iface *model.Interface, scope container, m mirror.ClassMirror) error {
	return c.completeTypeBody(iface.SetSatisfiedTypes, scope, m, nil)
}

// addNested adds member types as lazy proxies and local types as local
// declarations of scope
func (c *completion) addNested(scope container, m mirror.ClassMirror) error {
	for _, inner := range m.DirectInnerClasses() {
		if mirror.Has(inner, mirror.Ignore) {
			continue
		}
		proxy := c.loader.newProxy(inner, lazy.Placement{
			Name:      declarationName(inner),
			Container: scope,
			Unit:      c.unit,
			Mirror:    inner,
		})
		if inner.IsLocal() || inner.IsAnonymous() {
			lc, ok := scope.(model.LocalContainer)
			if !ok {
				return fmt.Errorf("%s cannot hold local declaration %s", scope.QualifiedName(), proxy.Name())
			}
			lc.AddLocalDeclaration(proxy)
			continue
		}
		scope.AddMember(proxy)
	}
	return nil
}

// addLocals adds the local types of a function or value unit
func (c *completion) addLocals(scope container, m mirror.ClassMirror) error {
	return c.addNested(scope, m)
}

func (c *completion) addMethods(s container, m mirror.ClassMirror) error {
	for _, method := range m.Methods() {
		if method.IsConstructor() || mirror.Has(method, mirror.Ignore) {
			continue
		}
		fn := model.NewFunction(memberName(method, method.Name()), s)
		fn.SetUnit(c.unit)
		fn.SetTypeParameters(newTypeParameters(method.TypeParameters(), fn))
		if err := c.completeBounds(fn.TypeParameters(), method.TypeParameters(), fn); err != nil {
			return fmt.Errorf("method %s: %w", fn.Name(), err)
		}
		addAnnotations(fn, method)
		if err := c.completeFunction(fn, fn, method); err != nil {
			return err
		}
		fn.SetFormal(method.IsAbstract())
		fn.SetActual(c.loader.isOverriding(method))
		fn.SetOverloaded(method.IsOverloading())
		s.AddMember(fn)
	}
	return nil
}

func (c *completion) addFields(s container, m mirror.ClassMirror) error {
	for _, field := range m.Fields() {
		if mirror.Has(field, mirror.Ignore) {
			continue
		}
		v := model.NewValue(memberName(field, field.Name()), s)
		v.SetUnit(c.unit)
		addAnnotations(v, field)
		if sig := mirror.StringValue(field, mirror.TypeInfo); sig != "" {
			t, err := c.decode(sig, s)
			if err != nil {
				return fmt.Errorf("field %s: %w", v.Name(), err)
			}
			v.SetType(t)
		}
		if mirror.Has(field, mirror.Variable) {
			v.SetVariable(true)
			v.SetSetter(model.NewSetter(v, s))
		}
		s.AddMember(v)
	}
	return nil
}

// completeFunction fills the type, void flag and parameter lists of fn from
// method. Signatures are decoded in scope.
func (c *completion) completeFunction(fn *model.Function, scope model.Scope, method mirror.MethodMirror) error {
	fn.SetDeclaredVoid(method.IsDeclaredVoid())
	if sig := mirror.StringValue(method, mirror.TypeInfo); sig != "" {
		t, err := c.decode(sig, scope)
		if err != nil {
			return fmt.Errorf("method %s: %w", fn.Name(), err)
		}
		fn.SetType(t)
	}

	pl, err := c.parameterList(method, scope)
	if err != nil {
		return fmt.Errorf("method %s: %w", fn.Name(), err)
	}
	fn.AddParameterList(pl)
	return nil
}

func (c *completion) completeValue(v *model.Value, scope model.Scope, m mirror.ClassMirror) error {
	if sig := mirror.StringValue(m, mirror.TypeInfo); sig != "" {
		t, err := c.decode(sig, scope)
		if err != nil {
			return err
		}
		v.SetType(t)
	}
	if mirror.Has(m, mirror.Variable) {
		v.SetVariable(true)
		v.SetSetter(model.NewSetter(v, v.Container()))
	}
	return nil
}

func (c *completion) parameterList(method mirror.MethodMirror, scope model.Scope) (*model.ParameterList, error) {
	pl := &model.ParameterList{}
	for _, param := range method.Parameters() {
		p := &model.Parameter{
			Name:      param.Name(),
			Defaulted: mirror.Has(param, mirror.Defaulted),
		}
		if ann := param.Annotation(mirror.Sequenced); ann != nil {
			p.Sequenced = true
			p.AtLeastOne = ann.Value() == "+"
		}
		if sig := mirror.StringValue(param, mirror.TypeInfo); sig != "" {
			t, err := c.decode(sig, scope)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
			}
			p.Type = t
		}
		if sig := mirror.StringValue(param, mirror.FunctionalParameter); sig != "" {
			nested, err := names.Parse(sig)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
			}
			p.ParameterLists = []*model.ParameterList{nested}
		}
		pl.Parameters = append(pl.Parameters, p)
	}
	return pl, nil
}

// isOverriding classifies a method relative to the two root supertypes:
// equality and hash on Identifiable refine Object's, while equality, hash
// and string on Object itself are the roots
func (l *Loader) isOverriding(m mirror.MethodMirror) bool {
	if enc := m.EnclosingClass(); enc != nil {
		switch enc.QualifiedName() {
		case IdentifiableClass:
			if m.Name() == "equals" || m.Name() == "hash" {
				return true
			}
		case ObjectClass:
			if m.Name() == "equals" || m.Name() == "hash" || m.Name() == "string" {
				return false
			}
		}
	}
	return m.IsOverriding()
}
