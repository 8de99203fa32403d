// Package lazy implements declarations that are inserted into the model
// graph from compiled units before their bodies are known. Every proxy
// knows its name, container and placement from construction; everything
// else is populated by a Completer the first time it is read.
//
// Completion is claim-before-run: a tier is marked in progress before the
// completer runs, so a completion that reaches the same declaration again
// through a cycle returns immediately and sees partially populated data.
// All completions of one model share one reentrant lock.
package lazy

import (
	"sync"

	"github.com/typegraph-lang/typegraph/internal/mirror"
	"github.com/typegraph-lang/typegraph/internal/model"
)

// Completer populates lazy declarations from their mirrors.
type Completer interface {
	// CompleteTypeParameters populates the type parameters of p
	CompleteTypeParameters(p Proxy) error

	// Complete populates everything else. The type-parameter tier is always
	// done first.
	Complete(p Proxy) error

	// Lock returns the lock shared by every proxy of one model. It must be
	// reentrant for the holding goroutine.
	Lock() sync.Locker
}

// Proxy is a lazily completed declaration.
type Proxy interface {
	model.Declaration

	// Mirror returns the compiled unit the declaration is read from
	Mirror() mirror.ClassMirror

	Load() error
	LoadTypeParameters() error
	IsLoaded() bool
	IsTypeParametersLoaded() bool
	LoadError() error
}

// placement is what a proxy knows without completion
type placement struct {
	name      string
	container model.Scope
	unit      *model.Unit
	mirror    mirror.ClassMirror
}

// Name returns the simple name
func (p *placement) Name() string { return p.name }

// Container returns the enclosing scope
func (p *placement) Container() model.Scope { return p.container }

// QualifiedName returns the qualified name
func (p *placement) QualifiedName() string { return model.Qualify(p.container, p.name) }

// Unit returns the compilation unit
func (p *placement) Unit() *model.Unit { return p.unit }

// IsToplevel reports whether the container is a package
func (p *placement) IsToplevel() bool { return model.IsToplevelIn(p.container) }

// IsMember reports whether the container is a class or interface
func (p *placement) IsMember() bool { return model.IsMemberOf(p.container) }

// Mirror returns the compiled unit
func (p *placement) Mirror() mirror.ClassMirror { return p.mirror }

// Placement groups the construction-time data shared by every proxy kind.
type Placement struct {
	Name      string
	Container model.Scope
	Unit      *model.Unit
	Mirror    mirror.ClassMirror
}

func (p Placement) placement() placement {
	return placement{name: p.Name, container: p.Container, unit: p.Unit, mirror: p.Mirror}
}
