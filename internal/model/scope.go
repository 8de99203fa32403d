package model

import (
	"sort"
	"sync"
)

// Scope is anything that contains declarations: packages, classes,
// interfaces, functions and values (for their nested local types).
type Scope interface {
	// Container returns the enclosing scope, or nil for a package
	Container() Scope

	// QualifiedName returns the fully-qualified name in signature form
	QualifiedName() string

	// DirectMember returns the member declared directly in this scope
	DirectMember(name string) Declaration

	// Members returns the members in insertion order
	Members() []Declaration

	// AddMember inserts a member. Implementations never trigger completion.
	AddMember(d Declaration)
}

// LocalContainer is a scope holding local declarations captured inside a
// body. Local declarations are keyed by their prefixed name.
type LocalContainer interface {
	Scope
	LocalDeclaration(name string) Declaration
	AddLocalDeclaration(d Declaration)
}

// memberSet is an ordered, name-indexed member list safe for concurrent use.
type memberSet struct {
	mu      sync.RWMutex
	members []Declaration
	index   map[string]Declaration
}

func (s *memberSet) add(d Declaration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		s.index = make(map[string]Declaration)
	}
	s.members = append(s.members, d)
	// first declaration wins, matching source order for overloads
	if _, exists := s.index[d.Name()]; !exists {
		s.index[d.Name()] = d
	}
}

func (s *memberSet) get(name string) Declaration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index[name]
}

func (s *memberSet) list() []Declaration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Declaration, len(s.members))
	copy(out, s.members)
	return out
}

// LocalDeclarations is a name-keyed store of local declarations. It is
// embedded by declarations that implement LocalContainer.
type LocalDeclarations struct {
	mu     sync.RWMutex
	locals map[string]Declaration
}

// LocalDeclaration returns the local declaration with the given prefixed name
func (l *LocalDeclarations) LocalDeclaration(name string) Declaration {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.locals == nil {
		return nil
	}
	return l.locals[name]
}

// AddLocalDeclaration stores d under its name, replacing any previous entry
func (l *LocalDeclarations) AddLocalDeclaration(d Declaration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locals == nil {
		l.locals = make(map[string]Declaration)
	}
	l.locals[d.Name()] = d
}

// LocalNames returns the sorted local declaration names
func (l *LocalDeclarations) LocalNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.locals))
	for name := range l.locals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unit is the compilation unit a declaration was read from.
type Unit struct {
	Filename string
	Package  *Package
}

// NewUnit creates a unit for the given file inside pkg
func NewUnit(filename string, pkg *Package) *Unit {
	return &Unit{Filename: filename, Package: pkg}
}

// Package is a named namespace inside a module.
type Package struct {
	name    string
	module  *Module
	members memberSet
}

// NewPackage creates a package and registers it with module
func NewPackage(name string, module *Module) *Package {
	p := &Package{name: name, module: module}
	if module != nil {
		module.AddPackage(p)
	}
	return p
}

// Name returns the dotted package name
func (p *Package) Name() string { return p.name }

// Module returns the owning module
func (p *Package) Module() *Module { return p.module }

// Container returns nil; packages are roots of the scope chain
func (p *Package) Container() Scope { return nil }

// QualifiedName returns the dotted package name
func (p *Package) QualifiedName() string { return p.name }

// DirectMember returns the toplevel declaration with the given name
func (p *Package) DirectMember(name string) Declaration { return p.members.get(name) }

// Members returns the toplevel declarations in insertion order
func (p *Package) Members() []Declaration { return p.members.list() }

// AddMember adds a toplevel declaration
func (p *Package) AddMember(d Declaration) { p.members.add(d) }

func (p *Package) String() string { return "package " + p.name }

// Module is a versioned set of packages with imports of other modules.
type Module struct {
	name    string
	version string

	mu       sync.RWMutex
	packages map[string]*Package
	order    []*Package
	imports  []*Module
}

// NewModule creates an empty module
func NewModule(name, version string) *Module {
	return &Module{
		name:     name,
		version:  version,
		packages: make(map[string]*Package),
	}
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Version returns the module version
func (m *Module) Version() string { return m.version }

// Key returns "name/version", used for memoization keys
func (m *Module) Key() string { return m.name + "/" + m.version }

// AddPackage registers p with this module
func (m *Module) AddPackage(p *Package) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.packages[p.name]; exists {
		return
	}
	m.packages[p.name] = p
	m.order = append(m.order, p)
}

// DirectPackage returns a package declared by this module only
func (m *Module) DirectPackage(name string) *Package {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.packages[name]
}

// Package returns the package declared by this module or, failing that,
// by one of its direct imports.
func (m *Module) Package(name string) *Package {
	if p := m.DirectPackage(name); p != nil {
		return p
	}
	for _, imported := range m.Imports() {
		if p := imported.DirectPackage(name); p != nil {
			return p
		}
	}
	return nil
}

// Packages returns the packages of this module in registration order
func (m *Module) Packages() []*Package {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Package, len(m.order))
	copy(out, m.order)
	return out
}

// AddImport records a dependency on other
func (m *Module) AddImport(other *Module) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.imports {
		if existing == other {
			return
		}
	}
	m.imports = append(m.imports, other)
}

// Imports returns the direct module dependencies
func (m *Module) Imports() []*Module {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Module, len(m.imports))
	copy(out, m.imports)
	return out
}

func (m *Module) String() string { return "module " + m.Key() }

// Modules is the registry of every module known to one model instance.
type Modules struct {
	mu       sync.RWMutex
	byName   map[string]*Module
	order    []*Module
	language *Module
}

// NewModules creates an empty registry
func NewModules() *Modules {
	return &Modules{byName: make(map[string]*Module)}
}

// Add registers m, returning the previously registered module of the same
// name if there was one.
func (ms *Modules) Add(m *Module) *Module {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if existing, ok := ms.byName[m.name]; ok {
		return existing
	}
	ms.byName[m.name] = m
	ms.order = append(ms.order, m)
	return m
}

// Find returns the module with the given name
func (ms *Modules) Find(name string) *Module {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.byName[name]
}

// List returns all modules in registration order
func (ms *Modules) List() []*Module {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]*Module, len(ms.order))
	copy(out, ms.order)
	return out
}

// SetLanguageModule records the language module, registering it if needed
func (ms *Modules) SetLanguageModule(m *Module) {
	m = ms.Add(m)
	ms.mu.Lock()
	ms.language = m
	ms.mu.Unlock()
}

// LanguageModule returns the language module, or nil
func (ms *Modules) LanguageModule() *Module {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.language
}
