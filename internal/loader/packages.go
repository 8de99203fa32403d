package loader

import (
	"strings"

	"go.uber.org/zap"

	"github.com/typegraph-lang/typegraph/internal/lazy"
	"github.com/typegraph-lang/typegraph/internal/mirror"
	"github.com/typegraph-lang/typegraph/internal/model"
)

const (
	// BaseModule is the platform module every other module depends on
	BaseModule = "platform.base"
	// BasePackage is the package of BaseModule holding the built-in types
	BasePackage = "platform.lang"

	unitSuffix = ".unit"
)

// ArrayTypes are the built-in array declarations seeded into BasePackage
var ArrayTypes = []string{
	"ObjectArray", "BooleanArray", "ByteArray", "ShortArray", "IntArray",
	"LongArray", "FloatArray", "DoubleArray", "CharArray",
}

// keywords are reserved by the backing platform and quoted with $ in
// backing-store names
var keywords = toSet([]string{
	"abstract", "boolean", "break", "byte", "case", "catch", "char", "class",
	"const", "continue", "default", "do", "double", "else", "enum", "extends",
	"final", "finally", "float", "for", "goto", "if", "implements", "import",
	"instanceof", "int", "interface", "long", "native", "new", "package",
	"private", "protected", "public", "return", "short", "static", "strictfp",
	"super", "switch", "synchronized", "this", "throw", "throws", "transient",
	"try", "void", "volatile", "while",
})

// QuoteName prefixes name with $ if it is a reserved word
func QuoteName(name string) string {
	if keywords[name] {
		return "$" + name
	}
	return name
}

// UnquoteName strips the $ added by QuoteName
func UnquoteName(name string) string {
	if strings.HasPrefix(name, "$") && keywords[name[1:]] {
		return name[1:]
	}
	return name
}

// QuoteKeywords quotes every reserved segment of a dotted package name
func QuoteKeywords(pkg string) string {
	if pkg == "" {
		return pkg
	}
	parts := strings.Split(pkg, ".")
	for i, p := range parts {
		parts[i] = QuoteName(p)
	}
	return strings.Join(parts, ".")
}

// UnquoteKeywords reverses QuoteKeywords
func UnquoteKeywords(pkg string) string {
	if pkg == "" {
		return pkg
	}
	parts := strings.Split(pkg, ".")
	for i, p := range parts {
		parts[i] = UnquoteName(p)
	}
	return strings.Join(parts, ".")
}

// AssembleName builds the backing-store name of a declaration: the package,
// a dot, then the nested declaration path joined with $
func AssembleName(pkg, path string) string {
	path = strings.ReplaceAll(path, ".", "$")
	if pkg == "" {
		return path
	}
	return pkg + "." + path
}

func isDescriptorName(name string) bool {
	return name == "$module_" || name == "$package_"
}

// LoadPackage makes sure pkg of module exists and, if loadDeclarations is
// set, converts each of its toplevel units into a lazy declaration. It
// reports whether the package exists. Enumeration happens at most once per
// package; checking existence alone is never memoized.
func (l *Loader) LoadPackage(module *model.Module, pkgName string, loadDeclarations bool) (bool, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	quoted := QuoteKeywords(pkgName)
	key := module.Key() + "@" + quoted
	if loadDeclarations {
		if l.loadedPackages[key] {
			return true, nil
		}
		l.loadedPackages[key] = true
	}
	if !l.source.PackageExists(module.Name(), quoted) {
		return false, nil
	}
	if !loadDeclarations {
		return true, nil
	}

	pkg := module.DirectPackage(pkgName)
	if pkg == nil {
		pkg = model.NewPackage(pkgName, module)
	}

	entries := l.source.PackageList(module.Name(), quoted)
	converted := 0
	for _, entry := range entries {
		if !strings.HasSuffix(strings.ToLower(entry), unitSuffix) {
			continue
		}
		className := strings.ReplaceAll(entry[:len(entry)-len(unitSuffix)], "/", ".")
		last := className
		if i := strings.LastIndexByte(className, '.'); i >= 0 {
			last = className[i+1:]
		}
		// a $ after the first character marks a nested, local or anonymous unit
		if strings.IndexByte(last, '$') > 0 {
			continue
		}
		if isDescriptorName(last) {
			continue
		}
		if l.fromSource[className] ||
			(strings.HasSuffix(className, "_") && l.fromSource[strings.TrimSuffix(className, "_")]) ||
			l.hidden[className] {
			continue
		}

		decl, err := l.convertToDeclaration(module, className)
		if err != nil {
			return true, err
		}
		if decl != nil {
			converted++
		}
	}

	if module.Name() == BaseModule && pkgName == BasePackage {
		seedArrays(pkg)
	}

	l.record(func(s *Stats) { s.PackagesLoaded++ })
	l.log.Debug("package loaded",
		zap.String("module", module.Key()),
		zap.String("package", pkgName),
		zap.Int("entries", len(entries)),
		zap.Int("converted", converted))
	return true, nil
}

// seedArrays adds the built-in array classes. Their element type is fixed
// by the class, except for ObjectArray which takes it as a type argument.
func seedArrays(pkg *model.Package) {
	for _, name := range ArrayTypes {
		if pkg.DirectMember(name) != nil {
			continue
		}
		cls := model.NewClass(name, pkg)
		cls.SetUnit(model.NewUnit(name+unitSuffix, pkg))
		cls.SetFinal(true)
		if name == "ObjectArray" {
			cls.SetTypeParameters([]*model.TypeParameter{
				model.NewTypeParameter("Element", cls, model.VarianceNone),
			})
		}
		pkg.AddMember(cls)
	}
}

// convertToDeclaration returns the declaration for the backing-store name,
// creating a lazy proxy the first time. Nested names are reached through
// their toplevel declaration. It returns nil if the unit does not exist.
func (l *Loader) convertToDeclaration(module *model.Module, className string) (model.Declaration, error) {
	key := module.Key() + "@" + className
	if d, ok := l.converted[key]; ok {
		return d, nil
	}

	m, err := l.source.LookupClass(module.Name(), className)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	var decl model.Declaration
	if enclosing := m.EnclosingClass(); enclosing != nil {
		outer, err := l.convertToDeclaration(module, enclosing.QualifiedName())
		if err != nil {
			return nil, err
		}
		s, ok := outer.(model.Scope)
		if !ok {
			return nil, nil
		}
		decl = l.GetDirectMember(s, declarationName(m))
	} else {
		pkgName := UnquoteKeywords(m.PackageName())
		pkg := module.DirectPackage(pkgName)
		if pkg == nil {
			pkg = model.NewPackage(pkgName, module)
		}
		unit := model.NewUnit(strings.ReplaceAll(className, ".", "/")+unitSuffix, pkg)
		decl = l.newProxy(m, lazy.Placement{
			Name:      declarationName(m),
			Container: pkg,
			Unit:      unit,
			Mirror:    m,
		})
		pkg.AddMember(decl)
		l.record(func(s *Stats) { s.DeclarationsConverted++ })
	}

	if decl != nil {
		l.converted[key] = decl
	}
	return decl, nil
}

// declarationName returns the model name of a unit: reserved words are
// unquoted, function and value units drop their trailing underscore and
// local units get the $ prefix
func declarationName(m mirror.ClassMirror) string {
	name := UnquoteName(m.Name())
	switch mirror.StringValue(m, mirror.Kind) {
	case mirror.KindFunction, mirror.KindValue:
		name = strings.TrimSuffix(name, "_")
	}
	if (m.IsLocal() || m.IsAnonymous()) && !strings.HasPrefix(name, "$") {
		name = "$" + name
	}
	return name
}

// newProxy creates the lazy declaration matching the unit's kind
func (l *Loader) newProxy(m mirror.ClassMirror, p lazy.Placement) lazy.Proxy {
	switch mirror.StringValue(m, mirror.Kind) {
	case mirror.KindFunction:
		return lazy.NewFunction(p, l)
	case mirror.KindValue:
		return lazy.NewValue(p, l)
	case mirror.KindTypeAlias:
		return lazy.NewTypeAlias(p, l)
	case mirror.KindClassAlias:
		return lazy.NewClassAlias(p, l)
	case mirror.KindInterface:
		return lazy.NewInterface(p, l)
	case mirror.KindClass:
		return lazy.NewClass(p, l)
	}
	if m.IsInterface() {
		return lazy.NewInterface(p, l)
	}
	return lazy.NewClass(p, l)
}
