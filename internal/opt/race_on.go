//go:build race

package opt

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Sema under the race detector: a plain atomic counter with a yielding
// acquire loop, so every wakeup edge goes through instrumented atomics the
// detector can see. Slower than the runtime semaphore; only instrumented
// builds pay for it.
type Sema uint32

// Acquire blocks until a Release is available.
func (s *Sema) Acquire() {
	for spins := 0; ; spins++ {
		if v := atomic.LoadUint32((*uint32)(s)); v > 0 &&
			atomic.CompareAndSwapUint32((*uint32)(s), v, v-1) {
			return
		}
		if spins < 64 {
			runtime.Gosched()
			continue
		}
		// time.Sleep with non-zero duration (≈Millisecond level) works
		// effectively as backoff under high concurrency.
		// The 500µs duration is derived from Facebook/folly's implementation:
		// https://github.com/facebook/folly/blob/main/folly/synchronization/detail/Sleeper.h
		time.Sleep(500 * time.Microsecond)
	}
}

// Release banks one wakeup.
func (s *Sema) Release() {
	atomic.AddUint32((*uint32)(s), 1)
}
