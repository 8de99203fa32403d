// Package loader builds the model from compiled units. It enumerates
// packages into lazy declaration proxies, resolves names for the signature
// parser and completes proxies from their mirrors on first use.
package loader

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/typegraph-lang/typegraph/internal/errors"
	"github.com/typegraph-lang/typegraph/internal/lazy"
	"github.com/typegraph-lang/typegraph/internal/mirror"
	"github.com/typegraph-lang/typegraph/internal/model"
	"github.com/typegraph-lang/typegraph/internal/signature/parser"
)

// Options configures a Loader
type Options struct {
	// Logger receives debug and warning output. Defaults to zap.NewNop().
	Logger *zap.Logger

	// HiddenTypes are backing-store names never converted during package
	// enumeration
	HiddenTypes []string

	// LoadedFromSource are backing-store names whose declarations come from
	// source and must not be read again from compiled units
	LoadedFromSource []string
}

// Stats tracks loader activity
type Stats struct {
	Completions              int
	TypeParameterCompletions int
	Failures                 int
	PackagesLoaded           int
	DeclarationsConverted    int
	CompletionDuration       time.Duration
}

// Loader resolves declarations against a mirror.Source. Every completion
// and every resolution runs under one reentrant lock.
type Loader struct {
	modules *model.Modules
	source  mirror.Source
	log     *zap.Logger
	session uuid.UUID
	parser  *parser.Parser

	lock lazy.ReentrantMutex

	// guarded by lock
	loadedPackages map[string]bool
	converted      map[string]model.Declaration

	hidden     map[string]bool
	fromSource map[string]bool

	statsMu sync.Mutex
	stats   Stats
}

var (
	_ parser.Resolver = (*Loader)(nil)
	_ lazy.Completer  = (*Loader)(nil)
)

// New creates a Loader reading compiled units from source
func New(source mirror.Source, opts Options) *Loader {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	session := uuid.New()

	l := &Loader{
		modules:        model.NewModules(),
		source:         source,
		log:            log.With(zap.String("session", session.String())),
		session:        session,
		loadedPackages: make(map[string]bool),
		converted:      make(map[string]model.Declaration),
		hidden:         toSet(opts.HiddenTypes),
		fromSource:     toSet(opts.LoadedFromSource),
	}
	l.parser = parser.New(l)
	return l
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Session returns the identifier attached to every log line
func (l *Loader) Session() uuid.UUID { return l.session }

// Modules returns the module registry
func (l *Loader) Modules() *model.Modules { return l.modules }

// Lock returns the lock shared by every proxy of this loader
func (l *Loader) Lock() sync.Locker { return &l.lock }

// Stats returns a snapshot of the loader statistics
func (l *Loader) Stats() Stats {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()
	return l.stats
}

func (l *Loader) record(update func(s *Stats)) {
	l.statsMu.Lock()
	update(&l.stats)
	l.statsMu.Unlock()
}

// AddModule registers a module and its packages. Packages are enumerated
// lazily, the first time a name inside them is resolved.
func (l *Loader) AddModule(name, version string, packages []string, imports ...*model.Module) *model.Module {
	l.lock.Lock()
	defer l.lock.Unlock()

	m := l.modules.Add(model.NewModule(name, version))
	for _, pkg := range packages {
		if m.DirectPackage(pkg) == nil {
			model.NewPackage(pkg, m)
		}
	}
	for _, imported := range imports {
		if imported != m {
			m.AddImport(imported)
		}
	}
	if name == BaseModule {
		l.modules.SetLanguageModule(m)
	}
	return m
}

// GetDeclaration implements parser.Resolver. A nil declaration with a nil
// error means not found.
func (l *Loader) GetDeclaration(module *model.Module, pkgName, name string, scope model.Scope) (model.Declaration, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if name == "" {
		return nil, errors.NewInvalidName(name, "empty name")
	}
	if pkgName != "" && !strings.HasPrefix(name, pkgName+".") {
		return nil, errors.NewInvalidName(name, "not inside package "+pkgName)
	}

	if pkgName == "" && !strings.Contains(name, ".") && scope != nil {
		if d := lookupInScope(scope, name); d != nil {
			return d, nil
		}
	}
	if module == nil {
		return nil, nil
	}

	var pkg *model.Package
	var rel string
	if pkgName != "" {
		pkg, rel = l.findPackage(module, pkgName), name[len(pkgName)+1:]
	} else {
		pkg, rel = l.splitPackage(module, name)
	}
	if pkg == nil {
		l.log.Debug("no package for name", zap.String("name", name), zap.String("module", module.Key()))
		return nil, nil
	}

	path := strings.Split(rel, ".")
	decl := pkg.DirectMember(path[0])
	if decl == nil {
		var err error
		decl, err = l.lookupToplevel(pkg, path[0])
		if err != nil {
			return nil, err
		}
	}
	for _, seg := range path[1:] {
		s, ok := decl.(model.Scope)
		if !ok {
			return nil, nil
		}
		if decl = l.GetDirectMember(s, seg); decl == nil {
			return nil, nil
		}
	}
	return decl, nil
}

// lookupInScope finds a type parameter or a member type named name in scope
// or one of its enclosing declarations
func lookupInScope(scope model.Scope, name string) model.Declaration {
	for s := scope; s != nil; s = s.Container() {
		if _, ok := s.(*model.Package); ok {
			return nil
		}
		if g, ok := s.(interface{ TypeParameters() []*model.TypeParameter }); ok {
			if tp := model.FindTypeParameter(g.TypeParameters(), name); tp != nil {
				return tp
			}
		}
		if d, ok := s.DirectMember(name).(model.TypeDeclaration); ok {
			return d
		}
	}
	return nil
}

// splitPackage splits a dotted name at the longest prefix naming a known
// package, falling back to the default package
func (l *Loader) splitPackage(module *model.Module, name string) (*model.Package, string) {
	for i := strings.LastIndexByte(name, '.'); i > 0; i = strings.LastIndexByte(name[:i], '.') {
		if pkg := l.findPackage(module, name[:i]); pkg != nil {
			return pkg, name[i+1:]
		}
	}
	return l.findPackage(module, ""), name
}

// findPackage returns the package called name visible from module, creating
// it when only the backing store knows it, and enumerates its declarations
func (l *Loader) findPackage(module *model.Module, name string) *model.Package {
	pkg := module.Package(name)
	if pkg == nil {
		for _, m := range append([]*model.Module{module}, module.Imports()...) {
			if l.source.PackageExists(m.Name(), QuoteKeywords(name)) {
				pkg = model.NewPackage(name, m)
				break
			}
		}
	}
	if pkg == nil {
		return nil
	}
	if _, err := l.LoadPackage(pkg.Module(), name, true); err != nil {
		l.log.Warn("package enumeration failed", zap.String("package", name), zap.Error(err))
	}
	return pkg
}

// lookupToplevel asks the backing store for a toplevel unit that package
// enumeration did not produce. Lowercase names are also tried with the
// trailing underscore used by function and value units.
func (l *Loader) lookupToplevel(pkg *model.Package, name string) (model.Declaration, error) {
	backing := AssembleName(QuoteKeywords(pkg.Name()), QuoteName(name))
	decl, err := l.convertToDeclaration(pkg.Module(), backing)
	if err != nil || decl != nil {
		return decl, err
	}
	if hasLowerInitial(name) && !strings.HasSuffix(name, "_") {
		l.log.Debug("retrying lowercase name", zap.String("name", backing+"_"))
		return l.convertToDeclaration(pkg.Module(), backing+"_")
	}
	return nil, nil
}

// GetDirectMember implements parser.Resolver. Names of the form $<digit>...
// are local declarations.
func (l *Loader) GetDirectMember(scope model.Scope, name string) model.Declaration {
	if !isLocalName(name) {
		return scope.DirectMember(name)
	}
	lc, ok := scope.(model.LocalContainer)
	if !ok {
		return nil
	}
	if p, ok := scope.(lazy.Proxy); ok {
		if err := p.Load(); err != nil {
			panic(err)
		}
	}
	return lc.LocalDeclaration(name)
}

func isLocalName(name string) bool {
	return len(name) > 1 && name[0] == '$' && name[1] >= '0' && name[1] <= '9'
}

func hasLowerInitial(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}
