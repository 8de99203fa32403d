package lazy

import (
	"sync"
	"sync/atomic"

	"github.com/typegraph-lang/typegraph/internal/errors"
)

// State is the completion state of one tier of a lazy declaration
type State int32

const (
	// NotStarted means the tier has never been requested
	NotStarted State = iota
	// InProgress means the tier's completion is running. Only the goroutine
	// running it can observe this state; it sees partially populated data.
	InProgress
	// Done means the tier completed, successfully or not
	Done
)

var stateNames = map[State]string{
	NotStarted: "not started",
	InProgress: "in progress",
	Done:       "done",
}

// String returns the state name
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// tier is a claim-before-run once-only guard. The state only moves forward.
type tier struct {
	state atomic.Int32
	err   error
}

func (t *tier) get() State { return State(t.state.Load()) }

// ensure runs complete at most once. A caller that finds the tier claimed by
// its own goroutine returns immediately; callers on other goroutines wait on
// lock until the tier is done. Only the caller that ran complete receives
// its error.
func (t *tier) ensure(lock sync.Locker, name, tierName string, complete func() error) error {
	if t.get() == Done {
		return nil
	}

	lock.Lock()
	defer lock.Unlock()

	if t.get() != NotStarted {
		return nil
	}
	t.state.Store(int32(InProgress))
	// a panic escaping complete still finishes the tier
	defer t.state.Store(int32(Done))

	if err := complete(); err != nil {
		t.err = errors.NewCompletionError(name, tierName, err)
		return t.err
	}
	return nil
}

// Lazy holds the eagerly constructible representation of a declaration and
// the two completion tiers guarding it. Proxy kinds embed a Lazy and go
// through typeParameterTier or fullTier before reading body data from the
// inner value.
type Lazy[T any] struct {
	inner     *T
	self      Proxy
	completer Completer

	typeParams tier
	full       tier
}

func (l *Lazy[T]) init(self Proxy, inner *T, completer Completer) {
	l.self = self
	l.inner = inner
	l.completer = completer
}

// LoadTypeParameters completes the type-parameter tier
func (l *Lazy[T]) LoadTypeParameters() error {
	return l.typeParams.ensure(l.completer.Lock(), l.self.QualifiedName(), errors.TierTypeParameters, func() error {
		return l.completer.CompleteTypeParameters(l.self)
	})
}

// Load completes the type-parameter tier and then the full tier
func (l *Lazy[T]) Load() error {
	if l.full.get() == Done {
		return nil
	}

	lock := l.completer.Lock()
	lock.Lock()
	defer lock.Unlock()

	if err := l.LoadTypeParameters(); err != nil {
		return err
	}
	return l.full.ensure(lock, l.self.QualifiedName(), errors.TierFull, func() error {
		return l.completer.Complete(l.self)
	})
}

// IsLoaded reports whether the full tier has been claimed
func (l *Lazy[T]) IsLoaded() bool { return l.full.get() != NotStarted }

// IsTypeParametersLoaded reports whether the type-parameter tier has been
// claimed
func (l *Lazy[T]) IsTypeParametersLoaded() bool { return l.typeParams.get() != NotStarted }

// LoadState returns the state of the full tier
func (l *Lazy[T]) LoadState() State { return l.full.get() }

// LoadError returns the failure recorded by either tier, or nil
func (l *Lazy[T]) LoadError() error {
	if l.typeParams.get() == Done && l.typeParams.err != nil {
		return l.typeParams.err
	}
	if l.full.get() == Done {
		return l.full.err
	}
	return nil
}

// Raw returns the inner value without completing anything. The completer
// uses it to populate the declaration.
func (l *Lazy[T]) Raw() *T { return l.inner }

// typeParameterTier completes the type-parameter tier and returns the inner
// value. A completion failure panics with *errors.CompletionError.
func (l *Lazy[T]) typeParameterTier() *T {
	if err := l.LoadTypeParameters(); err != nil {
		panic(err)
	}
	return l.inner
}

// fullTier completes both tiers and returns the inner value. A completion
// failure panics with *errors.CompletionError.
func (l *Lazy[T]) fullTier() *T {
	if err := l.Load(); err != nil {
		panic(err)
	}
	return l.inner
}

// Recover converts a completion panic raised by a lazy accessor into an
// error. It must be deferred directly:
//
//	defer lazy.Recover(&err)
//
// Other panics are propagated.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ce, ok := r.(*errors.CompletionError); ok {
		*err = ce
		return
	}
	panic(r)
}

// unloadedPrefix marks String output of declarations whose full tier has
// not been claimed
const unloadedPrefix = "UNLOADED:"

func describe(loaded bool, s string) string {
	if loaded {
		return s
	}
	return unloadedPrefix + s
}
