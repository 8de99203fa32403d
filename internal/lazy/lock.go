package lazy

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// ReentrantMutex is a mutual exclusion lock that the owning goroutine may
// acquire again without blocking. Completing one declaration routinely
// completes others on the same goroutine while the lock is held.
//
// Each Lock must be paired with an Unlock on the same goroutine.
type ReentrantMutex struct {
	mu    sync.Mutex
	owner atomic.Uint64
	depth int
}

var _ sync.Locker = (*ReentrantMutex)(nil)

// Lock acquires the mutex, or increments the hold count if the calling
// goroutine already owns it
func (m *ReentrantMutex) Lock() {
	gid := goroutineID()
	if m.owner.Load() == gid {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(gid)
	m.depth = 1
}

// Unlock releases one hold. It panics if the calling goroutine is not the
// owner.
func (m *ReentrantMutex) Unlock() {
	if !m.HeldByCurrent() {
		panic("lazy: unlock of ReentrantMutex not held by this goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}

// HeldByCurrent reports whether the calling goroutine owns the mutex
func (m *ReentrantMutex) HeldByCurrent() bool {
	return m.owner.Load() == goroutineID()
}

// goroutineID extracts the current goroutine ID from the stack header
// "goroutine 123 [running]:".
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		panic("lazy: unexpected stack header")
	}

	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		panic("lazy: unexpected stack header")
	}

	gid, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		panic("lazy: unexpected stack header: " + err.Error())
	}
	return gid
}
