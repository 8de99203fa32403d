package loader

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/typegraph-lang/typegraph/internal/errors"
	"github.com/typegraph-lang/typegraph/internal/lazy"
	"github.com/typegraph-lang/typegraph/internal/mirror"
	"github.com/typegraph-lang/typegraph/internal/mirror/artifact"
	"github.com/typegraph-lang/typegraph/internal/model"
	"github.com/typegraph-lang/typegraph/internal/signature/parser"
)

func ann(name, value string, values ...string) artifact.Annotation {
	return artifact.Annotation{Name: name, Value: value, Values: values}
}

func kind(k string) artifact.Annotation { return ann(mirror.Kind, k) }

func param(name, sig string, extra ...artifact.Annotation) artifact.Parameter {
	anns := append([]artifact.Annotation{ann(mirror.Name, name), ann(mirror.TypeInfo, sig)}, extra...)
	return artifact.Parameter{Type: "platform.lang.Object", Annotations: anns}
}

func baseArtifact() *artifact.Artifact {
	a := artifact.New(BaseModule, "1.0")
	lang := a.Package("lang")
	lang.Classes = []*artifact.Class{
		{
			Name:        "Object",
			Flags:       artifact.FlagPublic | artifact.FlagAbstract,
			Annotations: []artifact.Annotation{kind(mirror.KindClass)},
			Methods: []artifact.Method{
				{Name: "equals", Overriding: true, Annotations: []artifact.Annotation{ann(mirror.TypeInfo, "lang::String")}},
				{Name: "hash", Overriding: true},
				{Name: "string", Overriding: true},
				{Name: "describe", Overriding: true},
			},
		},
		{
			Name:        "Identifiable",
			Interface:   true,
			Annotations: []artifact.Annotation{kind(mirror.KindInterface)},
			Methods: []artifact.Method{
				{Name: "equals"},
				{Name: "hash"},
				{Name: "identity"},
			},
		},
		{
			Name:        "String",
			Flags:       artifact.FlagPublic | artifact.FlagFinal,
			Annotations: []artifact.Annotation{kind(mirror.KindClass), ann(mirror.ExtendedType, "lang::Object")},
		},
	}
	a.Package(BasePackage)
	return a
}

func appArtifact() *artifact.Artifact {
	a := artifact.New("app", "1.0")
	core := a.Package("app.core")
	core.Classes = []*artifact.Class{
		{
			Name: "Box",
			Annotations: []artifact.Annotation{
				kind(mirror.KindClass),
				ann(mirror.ExtendedType, "lang::Object"),
				ann(mirror.SatisfiedTypes, "", "lang::Identifiable"),
				ann("app.Documented", "a box"),
			},
			TypeParameters: []artifact.TypeParameter{{Name: "T", Variance: "out", Bounds: []string{"lang::Object"}}},
			Methods: []artifact.Method{
				{Name: "<init>", Constructor: true, Parameters: []artifact.Parameter{param("item", "T")}},
				{Name: "get", Annotations: []artifact.Annotation{ann(mirror.TypeInfo, "T")}},
				{
					Name:           "map",
					TypeParameters: []artifact.TypeParameter{{Name: "U"}},
					Annotations:    []artifact.Annotation{ann(mirror.TypeInfo, "app.core::Box<U>")},
					Parameters: []artifact.Parameter{
						param("fn", "U", ann(mirror.FunctionalParameter, "(element,!done())")),
					},
				},
				{
					Name:       "put",
					ReturnType: "void",
					Parameters: []artifact.Parameter{param("items", "T", ann(mirror.Sequenced, "+"))},
				},
				{Name: "internal", Annotations: []artifact.Annotation{ann(mirror.Ignore, "")}},
			},
			Fields: []artifact.Field{
				{Name: "size", Type: "long", Annotations: []artifact.Annotation{ann(mirror.TypeInfo, "lang::String"), ann(mirror.Variable, "")}},
			},
			Inner: []*artifact.Class{
				{
					Name:        "Entry",
					Annotations: []artifact.Annotation{kind(mirror.KindClass)},
					Methods: []artifact.Method{{Name: "<init>", Constructor: true, Parameters: []artifact.Parameter{
						{Type: "app.core.Box"}, param("key", "lang::String"),
					}}},
				},
				{
					Name: "1Local", Local: true, EnclosingMethod: "get",
					Annotations: []artifact.Annotation{kind(mirror.KindClass)},
				},
			},
		},
		{
			Name:        "run_",
			Flags:       artifact.FlagFinal,
			Annotations: []artifact.Annotation{kind(mirror.KindFunction)},
			Methods: []artifact.Method{{
				Name: "run", Flags: artifact.FlagStatic,
				Annotations: []artifact.Annotation{ann(mirror.TypeInfo, "app.core::Box<lang::String>")},
				Parameters:  []artifact.Parameter{param("count", "lang::String", ann(mirror.Defaulted, ""))},
			}},
		},
		{
			Name:        "helper_",
			Annotations: []artifact.Annotation{kind(mirror.KindFunction)},
			Methods: []artifact.Method{{
				Name: "helper", Flags: artifact.FlagStatic,
				Annotations: []artifact.Annotation{ann(mirror.TypeInfo, "lang::String")},
			}},
		},
		{
			Name:        "counter_",
			Annotations: []artifact.Annotation{kind(mirror.KindValue), ann(mirror.TypeInfo, "lang::String"), ann(mirror.Variable, "")},
		},
		{
			Name:        "Text",
			Annotations: []artifact.Annotation{kind(mirror.KindTypeAlias), ann(mirror.Alias, "lang::String|app.core::Box<lang::String>")},
		},
		{Name: "Hidden", Annotations: []artifact.Annotation{kind(mirror.KindClass)}},
		{Name: "Source", Annotations: []artifact.Annotation{kind(mirror.KindClass)}},
		{Name: "script_", Annotations: []artifact.Annotation{kind(mirror.KindFunction)}},
		{Name: "$package_"},
		{
			Name:        "Broken",
			Annotations: []artifact.Annotation{kind(mirror.KindClass), ann(mirror.ExtendedType, "app.core::Missing")},
		},
		{
			Name:        "A",
			Annotations: []artifact.Annotation{kind(mirror.KindClass), ann(mirror.ExtendedType, "app.core::B.Node")},
			Inner:       []*artifact.Class{{Name: "Node", Flags: artifact.FlagStatic, Annotations: []artifact.Annotation{kind(mirror.KindClass)}}},
		},
		{
			Name:        "B",
			Annotations: []artifact.Annotation{kind(mirror.KindClass)},
			Methods:     []artifact.Method{{Name: "first", Annotations: []artifact.Annotation{ann(mirror.TypeInfo, "app.core::A.Node")}}},
			Inner:       []*artifact.Class{{Name: "Node", Flags: artifact.FlagStatic, Annotations: []artifact.Annotation{kind(mirror.KindClass)}}},
		},
	}
	quoted := a.Package("app.$new")
	quoted.Classes = []*artifact.Class{{Name: "Thing", Annotations: []artifact.Annotation{kind(mirror.KindInterface)}}}
	return a
}

type fixture struct {
	loader *Loader
	base   *model.Module
	app    *model.Module
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := artifact.NewRepository()
	require.NoError(t, repo.Add(baseArtifact()))
	require.NoError(t, repo.Add(appArtifact()))

	l := New(repo, Options{
		Logger:           zaptest.NewLogger(t),
		HiddenTypes:      []string{"app.core.Hidden", "app.core.helper_"},
		LoadedFromSource: []string{"app.core.Source", "app.core.script"},
	})
	base := l.AddModule(BaseModule, "1.0", []string{"lang", BasePackage})
	app := l.AddModule("app", "1.0", []string{"app.core", "app.new"}, base)
	return &fixture{loader: l, base: base, app: app}
}

func (f *fixture) decode(t *testing.T, signature string) model.Type {
	t.Helper()
	typ, err := parser.New(f.loader).DecodeType(signature, nil, f.app, nil)
	require.NoError(t, err)
	require.NotNil(t, typ)
	return typ
}

func (f *fixture) get(t *testing.T, pkg, name string) model.Declaration {
	t.Helper()
	d, err := f.loader.GetDeclaration(f.app, pkg, name, nil)
	require.NoError(t, err)
	require.NotNil(t, d, "declaration %s", name)
	return d
}

func memberNames(s model.Scope) []string {
	var out []string
	for _, d := range s.Members() {
		out = append(out, d.Name())
	}
	return out
}

func TestLoadPackage_FiltersAndMemoizes(t *testing.T) {
	f := newFixture(t)

	ok, err := f.loader.LoadPackage(f.app, "app.core", true)
	require.NoError(t, err)
	assert.True(t, ok)

	pkg := f.app.DirectPackage("app.core")
	require.NotNil(t, pkg)
	assert.ElementsMatch(t,
		[]string{"A", "B", "Box", "Broken", "Text", "counter", "run"},
		memberNames(pkg))
	assert.Nil(t, pkg.DirectMember("Hidden"))
	assert.Nil(t, pkg.DirectMember("Source"))
	assert.Nil(t, pkg.DirectMember("script"))
	assert.Nil(t, pkg.DirectMember("helper"))
	assert.Nil(t, pkg.DirectMember("Entry"))

	for _, d := range pkg.Members() {
		p, ok := d.(lazy.Proxy)
		require.True(t, ok)
		assert.False(t, p.IsLoaded(), "%s completed during enumeration", d.Name())
	}

	ok, err = f.loader.LoadPackage(f.app, "app.core", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, f.loader.Stats().PackagesLoaded)
	assert.Len(t, pkg.Members(), 7)

	ok, err = f.loader.LoadPackage(f.app, "app.core", false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.loader.LoadPackage(f.app, "app.missing", true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadPackage_HiddenStillResolvesByName(t *testing.T) {
	f := newFixture(t)

	// lowercase names fall back to the underscore unit
	d := f.get(t, "app.core", "app.core.helper")
	assert.Equal(t, model.KindFunction, d.Kind())
	assert.Equal(t, "app.core::helper", d.QualifiedName())
}

func TestLoadPackage_QuotedPackage(t *testing.T) {
	f := newFixture(t)

	typ := f.decode(t, "app.new::Thing")
	assert.Equal(t, "app.new::Thing", typ.Declaration().QualifiedName())
	assert.Equal(t, model.KindInterface, typ.Declaration().Kind())
}

func TestLoadPackage_SeedsArrays(t *testing.T) {
	f := newFixture(t)

	ok, err := f.loader.LoadPackage(f.base, BasePackage, true)
	require.NoError(t, err)
	require.True(t, ok)

	pkg := f.base.DirectPackage(BasePackage)
	for _, name := range ArrayTypes {
		assert.NotNil(t, pkg.DirectMember(name), name)
	}

	typ := f.decode(t, "platform.lang::ObjectArray<lang::String>")
	require.Len(t, typ.TypeArguments(), 1)
	assert.Equal(t, "lang::String", typ.TypeArguments()[0].String())
	assert.Len(t, typ.Declaration().TypeParameters(), 1)
}

func TestGetDeclaration_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.loader.GetDeclaration(f.app, "", "", nil)
	var rerr *errors.ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, errors.ErrInvalidName, rerr.Code)

	_, err = f.loader.GetDeclaration(f.app, "app.core", "lang.String", nil)
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, errors.ErrInvalidName, rerr.Code)

	d, err := f.loader.GetDeclaration(f.app, "app.core", "app.core.Nope", nil)
	assert.NoError(t, err)
	assert.Nil(t, d)

	d, err = f.loader.GetDeclaration(nil, "", "Anything", nil)
	assert.NoError(t, err)
	assert.Nil(t, d)
}

func TestGetDeclaration_DottedNameWithoutPackage(t *testing.T) {
	f := newFixture(t)

	d, err := f.loader.GetDeclaration(f.app, "", "app.core.Box.Entry", nil)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "app.core::Box.Entry", d.QualifiedName())
}

func TestComplete_Class(t *testing.T) {
	f := newFixture(t)

	typ := f.decode(t, "app.core::Box<lang::String>")
	box, ok := typ.Declaration().(*lazy.Class)
	require.True(t, ok)
	assert.True(t, box.IsTypeParametersLoaded())
	assert.False(t, box.IsLoaded())

	tps := box.TypeParameters()
	require.Len(t, tps, 1)
	assert.Equal(t, model.VarianceOut, tps[0].Variance())

	assert.Equal(t, "lang::Object", box.ExtendedType().String())
	require.Len(t, box.SatisfiedTypes(), 1)
	assert.Equal(t, "lang::Identifiable", box.SatisfiedTypes()[0].String())
	require.Len(t, tps[0].SatisfiedTypes(), 1)
	assert.Equal(t, "lang::Object", tps[0].SatisfiedTypes()[0].String())

	init := box.ParameterList()
	require.NotNil(t, init)
	require.Len(t, init.Parameters, 1)
	assert.Equal(t, "item", init.Parameters[0].Name)
	assert.Same(t, tps[0], init.Parameters[0].Type.Declaration())

	assert.Equal(t, []string{"Entry", "get", "map", "put", "size"}, memberNames(box))
	require.Len(t, box.Annotations(), 1)
	assert.Equal(t, "app.Documented", box.Annotations()[0].Name)
	assert.Equal(t, []string{"a box"}, box.Annotations()[0].Arguments)
}

func TestComplete_Members(t *testing.T) {
	f := newFixture(t)
	box := f.get(t, "app.core", "app.core.Box").(*lazy.Class)

	get := box.DirectMember("get").(*model.Function)
	assert.Same(t, box.TypeParameters()[0], get.Type().Declaration())

	mapFn := box.DirectMember("map").(*model.Function)
	require.Len(t, mapFn.TypeParameters(), 1)
	u := mapFn.TypeParameters()[0]
	assert.Same(t, box, mapFn.Type().Declaration())
	assert.Same(t, u, mapFn.Type().TypeArguments()[0].Declaration())

	fn := mapFn.ParameterLists()[0].Parameters[0]
	assert.True(t, fn.IsFunctional())
	require.Len(t, fn.ParameterLists[0].Parameters, 2)
	assert.Equal(t, "element", fn.ParameterLists[0].Parameters[0].Name)
	assert.True(t, fn.ParameterLists[0].Parameters[1].DeclaredVoid)

	put := box.DirectMember("put").(*model.Function)
	assert.True(t, put.IsDeclaredVoid())
	items := put.ParameterLists()[0].Parameters[0]
	assert.True(t, items.Sequenced)
	assert.True(t, items.AtLeastOne)

	size := box.DirectMember("size").(*model.Value)
	assert.True(t, size.IsVariable())
	require.NotNil(t, size.Setter())
	assert.Equal(t, "lang::String", size.Type().String())

	assert.Nil(t, box.DirectMember("internal"))

	entry := box.DirectMember("Entry").(*lazy.Class)
	assert.True(t, entry.IsMember())
	params := entry.ParameterList().Parameters
	require.Len(t, params, 1, "the outer instance parameter is synthetic")
	assert.Equal(t, "key", params[0].Name)
}

func TestComplete_LocalDeclaration(t *testing.T) {
	f := newFixture(t)

	typ := f.decode(t, "app.core::Box.$1Local")
	assert.Equal(t, "app.core::Box.$1Local", typ.Declaration().QualifiedName())

	box := f.get(t, "app.core", "app.core.Box").(*lazy.Class)
	assert.Nil(t, box.DirectMember("$1Local"))
	assert.Equal(t, []string{"$1Local"}, box.LocalNames())
}

func TestComplete_FunctionValueAndAlias(t *testing.T) {
	f := newFixture(t)

	run := f.get(t, "app.core", "app.core.run").(*lazy.Function)
	assert.False(t, run.IsLoaded())
	assert.Equal(t, "app.core::Box<lang::String>", run.Type().String())
	params := run.ParameterLists()[0].Parameters
	require.Len(t, params, 1)
	assert.Equal(t, "count", params[0].Name)
	assert.True(t, params[0].Defaulted)

	counter := f.get(t, "app.core", "app.core.counter").(*lazy.Value)
	assert.True(t, counter.IsVariable())
	assert.Equal(t, "lang::String", counter.Type().String())

	text := f.get(t, "app.core", "app.core.Text").(*lazy.TypeAlias)
	aliased := text.ExtendedType()
	require.True(t, aliased.IsUnion())
	assert.Equal(t, "lang::String|app.core::Box<lang::String>", aliased.String())
}

func TestComplete_OverrideClassification(t *testing.T) {
	f := newFixture(t)

	object := f.get(t, "lang", "lang.Object").(*lazy.Class)
	for _, name := range []string{"equals", "hash", "string"} {
		assert.False(t, object.DirectMember(name).(*model.Function).IsActual(), name)
	}
	assert.True(t, object.DirectMember("describe").(*model.Function).IsActual())
	assert.True(t, object.IsAbstract())
	assert.False(t, object.DirectMember("equals").(*model.Function).IsFormal())

	identifiable := f.get(t, "lang", "lang.Identifiable").(*lazy.Interface)
	assert.True(t, identifiable.DirectMember("equals").(*model.Function).IsActual())
	assert.True(t, identifiable.DirectMember("hash").(*model.Function).IsActual())
	assert.False(t, identifiable.DirectMember("identity").(*model.Function).IsActual())
}

func TestComplete_CycleSeesPartialDeclaration(t *testing.T) {
	f := newFixture(t)

	a := f.get(t, "app.core", "app.core.A").(*lazy.Class)
	ext := a.ExtendedType()
	require.NotNil(t, ext)
	assert.Equal(t, "app.core::B.Node", ext.Declaration().QualifiedName())

	b := f.get(t, "app.core", "app.core.B").(*lazy.Class)
	first := b.DirectMember("first").(*model.Function)
	assert.Equal(t, "app.core::A.Node", first.Type().Declaration().QualifiedName())
	assert.Zero(t, f.loader.Stats().Failures)
}

func TestComplete_FailureIsReported(t *testing.T) {
	f := newFixture(t)

	broken := f.get(t, "app.core", "app.core.Broken").(*lazy.Class)
	err := broken.Load()
	require.Error(t, err)
	assert.True(t, errors.IsCompletion(err))
	assert.True(t, errors.IsResolution(err))
	assert.Contains(t, err.Error(), "app.core.Missing")

	assert.NoError(t, broken.Load())
	assert.Error(t, broken.LoadError())
	assert.Equal(t, 1, f.loader.Stats().Failures)
}

func TestLoader_ConcurrentDecode(t *testing.T) {
	f := newFixture(t)

	const workers = 16
	decls := make([]model.TypeDeclaration, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			typ, err := parser.New(f.loader).DecodeType("app.core::Box<lang::String>|app.core::A", nil, f.app, nil)
			if !assert.NoError(t, err) {
				return
			}
			first := typ.(*model.UnionType).CaseTypes()[0].Declaration()
			_ = first.Members()
			decls[i] = first
		}(i)
	}
	wg.Wait()

	for _, d := range decls {
		assert.Same(t, decls[0], d)
	}
	assert.Zero(t, f.loader.Stats().Failures)
	assert.True(t, decls[0].(lazy.Proxy).IsLoaded())
	assert.Equal(t, 2, f.loader.Stats().PackagesLoaded)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "app.$new.$class", QuoteKeywords("app.new.class"))
	assert.Equal(t, "app.new.class", UnquoteKeywords("app.$new.$class"))
	assert.Equal(t, "", QuoteKeywords(""))
	assert.Equal(t, "$dollar", UnquoteName("$dollar"))
	assert.Equal(t, "pkg.Outer$Inner", AssembleName("pkg", "Outer.Inner"))
	assert.Equal(t, "Outer$Inner", AssembleName("", "Outer.Inner"))
}

func TestGetDirectMember_LocalNames(t *testing.T) {
	f := newFixture(t)
	box := f.get(t, "app.core", "app.core.Box").(*lazy.Class)

	local := f.loader.GetDirectMember(box, "$1Local")
	require.NotNil(t, local)
	assert.True(t, box.IsLoaded())
	assert.Nil(t, f.loader.GetDirectMember(box, "$2Other"))
	assert.Nil(t, f.loader.GetDirectMember(f.app.DirectPackage("app.core"), "$1Local"))
	assert.NotNil(t, f.loader.GetDirectMember(box, "Entry"))
}
