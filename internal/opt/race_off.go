//go:build !race

package opt

import (
	_ "unsafe" // for linkname
)

// Sema is a zero-allocation wakeup primitive: a direct wrapper around the
// runtime's goroutine parking semaphore, the same one sync.Mutex sleeps on.
// Release before Acquire banks the wakeup, so the pair is race-free in
// either order.
//
// The runtime establishes the happens-before edge here in a way the race
// detector cannot observe, so race builds substitute the conservative
// implementation in race_on.go.
type Sema uint32

// Acquire parks the calling goroutine until a Release is available.
func (s *Sema) Acquire() {
	runtime_semacquire((*uint32)(s))
}

// Release unparks one goroutine blocked in Acquire, or banks the wakeup
// for the next Acquire.
func (s *Sema) Release() {
	runtime_semrelease((*uint32)(s), false, 0)
}

//go:linkname runtime_semacquire sync.runtime_Semacquire
func runtime_semacquire(s *uint32)

//go:linkname runtime_semrelease sync.runtime_Semrelease
func runtime_semrelease(s *uint32, handoff bool, skipframes int)
