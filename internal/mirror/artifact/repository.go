package artifact

import (
	"fmt"
	"sort"
	"sync"

	"github.com/typegraph-lang/typegraph/internal/mirror"
)

// Repository serves the units of a set of artifacts, one per module. It
// implements mirror.Source and is safe for concurrent use.
type Repository struct {
	mu      sync.RWMutex
	modules map[string]*moduleIndex
}

type moduleIndex struct {
	artifact *Artifact
	packages map[string][]string
	classes  map[string]*classMirror
}

// NewRepository creates an empty repository
func NewRepository() *Repository {
	return &Repository{modules: make(map[string]*moduleIndex)}
}

// OpenRepository reads every artifact in paths into a new repository
func OpenRepository(paths ...string) (*Repository, error) {
	r := NewRepository()
	for _, path := range paths {
		a, err := Open(path)
		if err != nil {
			return nil, err
		}
		if err := r.Add(a); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return r, nil
}

// Add indexes the units of a. A module can only be added once.
func (r *Repository) Add(a *Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[a.Module]; exists {
		return fmt.Errorf("module %s already added", a.Module)
	}

	idx := &moduleIndex{
		artifact: a,
		packages: make(map[string][]string),
		classes:  make(map[string]*classMirror),
	}
	var index func(c *classMirror)
	index = func(c *classMirror) {
		idx.classes[c.QualifiedName()] = c
		idx.packages[c.pkg] = append(idx.packages[c.pkg], c.entry())
		for _, in := range c.inner {
			index(in.(*classMirror))
		}
	}
	for _, p := range a.Packages {
		if _, ok := idx.packages[p.Name]; !ok {
			idx.packages[p.Name] = []string{}
		}
		for _, cls := range p.Classes {
			index(newClassMirror(cls, p.Name, nil))
		}
	}
	for _, entries := range idx.packages {
		sort.Strings(entries)
	}

	r.modules[a.Module] = idx
	return nil
}

// Modules returns the added artifacts sorted by module name
func (r *Repository) Modules() []*Artifact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Artifact, 0, len(r.modules))
	for _, idx := range r.modules {
		out = append(out, idx.artifact)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Module < out[j].Module })
	return out
}

// PackageList implements mirror.Source
func (r *Repository) PackageList(module, pkg string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.modules[module]
	if !ok {
		return nil
	}
	entries, ok := idx.packages[pkg]
	if !ok {
		return nil
	}
	return append([]string{}, entries...)
}

// PackageExists implements mirror.Source
func (r *Repository) PackageExists(module, pkg string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.modules[module]
	if !ok {
		return false
	}
	_, ok = idx.packages[pkg]
	return ok
}

// LookupClass implements mirror.Source. Unknown names yield (nil, nil).
func (r *Repository) LookupClass(module, name string) (mirror.ClassMirror, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.modules[module]
	if !ok {
		return nil, nil
	}
	if c, ok := idx.classes[name]; ok {
		return c, nil
	}
	return nil, nil
}
