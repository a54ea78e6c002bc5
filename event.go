package evx

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event state word values. Transitions into or out of evWaiting happen only
// with Event.mu held; every other transition is a lock-free compare-and-swap
// that must tolerate racing swaps.
const (
	evUnsignalled uint32 = iota // flag down, no waiters
	evSignalled                 // flag up, no waiters
	evWaiting                   // flag down, waiters queued
)

// Event is a boolean flag that goroutines can wait on, in the style of a
// Windows event object.
//
//   - Signal raises the flag. A manual-reset Event stays signalled and
//     releases every queued waiter; an autoreset Event hands the flag to
//     exactly one waiter in arrival order, or latches a single pending
//     signal when nobody is queued.
//   - Wait and WaitTimeout return immediately while the flag is up,
//     consuming it on an autoreset Event; otherwise they queue and sleep.
//   - Reset lowers a latched flag. It does nothing while waiters are
//     queued, since the flag is down by definition then.
//
// The flag is not a counter: signalling an already signalled Event with no
// waiters is a no-op, so a burst of signals collapses into one wakeup. A
// signal is never lost to a racing timeout, though; see WaitTimeout.
//
// The zero Event is an unsignalled manual-reset Event ready for use. Use
// NewEvent for autoreset semantics or an initially raised flag. An Event
// must not be copied after first use.
//
// Implementation:
// A single atomic word distinguishes unsignalled, signalled with no
// waiters, and unsignalled with waiters queued. The first two states carry
// all uncontended traffic on compare-and-swap alone; the mutex is taken
// only when the waiter queue must change. Queued waiters sit in an
// intrusive FIFO ring rooted in the Event, each parked on its own wakeup
// primitive, so an autoreset signal wakes exactly the front waiter and a
// broadcast wakes each waiter individually rather than stampeding a shared
// condition.
//
// Size: 48 bytes on 64-bit systems.
type Event struct {
	_         noCopy
	state     atomic.Uint32
	autoreset bool

	// mu guards list, each queued waiter's awoken flag, and every state
	// transition into or out of evWaiting.
	mu   sync.Mutex
	list waitList
}

// NewEvent returns an Event with the given dispatch mode and initial flag.
// autoreset selects whether a successful wait consumes the flag; signalled
// raises the flag before the Event is visible to anyone.
func NewEvent(autoreset, signalled bool) *Event {
	e := &Event{autoreset: autoreset}
	if signalled {
		e.state.Store(evSignalled)
	}
	return e
}

// IsSignalled reports whether the flag is up right now. It is a racy
// snapshot: a concurrent Signal or Reset may change the answer before the
// caller can act on it.
func (e *Event) IsSignalled() bool {
	return e.state.Load() == evSignalled
}

// Signal raises the flag and wakes waiters as described on Event. It does
// not block beyond a short critical section when waiters are queued.
func (e *Event) Signal() {
	for {
		switch s := e.state.Load(); s {
		case evUnsignalled:
			if e.state.CompareAndSwap(evUnsignalled, evSignalled) {
				return
			}
		case evSignalled:
			return
		case evWaiting:
			e.signalSlow()
			return
		default:
			badState(s)
		}
	}
}

// Reset lowers a latched flag. It is idempotent and never blocks; while
// waiters are queued the flag is already down and queued waiters stay
// queued.
func (e *Event) Reset() {
	for {
		switch s := e.state.Load(); s {
		case evSignalled:
			if e.state.CompareAndSwap(evSignalled, evUnsignalled) {
				return
			}
		case evUnsignalled, evWaiting:
			return
		default:
			badState(s)
		}
	}
}

// Wait blocks until the flag is up. On an autoreset Event the flag is
// consumed by exactly one waiter; on a manual-reset Event any number of
// waiters observe it and pass through.
func (e *Event) Wait() {
	if e.tryWait() {
		return
	}
	e.waitSlow(-1)
}

// WaitTimeout blocks until the flag is up or d elapses. It reports true
// when the flag ended the wait and false on timeout. A non-positive d
// polls: the flag is consumed or observed if up, and otherwise the call
// returns false without queueing.
//
// A signal that lands while the waiter is still queued wins over the
// timeout, even when the timer has already fired: the waiter then reports
// true and, on an autoreset Event, owns the flag it consumed. Once a
// timed-out waiter has left the queue it no longer takes signals; a signal
// sent after that is latched or delivered elsewhere as usual, never lost.
func (e *Event) WaitTimeout(d time.Duration) bool {
	if e.tryWait() {
		return true
	}
	if d <= 0 {
		return false
	}
	return e.waitSlow(d)
}

// tryWait is the lock-free wait fast path. It reports whether the flag was
// up, consuming it on an autoreset Event. On false the caller must either
// give up or queue through waitSlow.
func (e *Event) tryWait() bool {
	for {
		switch s := e.state.Load(); s {
		case evUnsignalled, evWaiting:
			return false
		case evSignalled:
			if !e.autoreset {
				return true
			}
			if e.state.CompareAndSwap(evSignalled, evUnsignalled) {
				return true
			}
		default:
			badState(s)
		}
	}
}

// waitSlow queues the caller and sleeps until a signal or the deadline.
// d < 0 means no deadline. It reports whether a signal woke the caller.
func (e *Event) waitSlow(d time.Duration) bool {
	e.mu.Lock()

	// Re-run the flag check under the mutex: the flag may have been raised
	// since the fast path gave up, and the state must reach evWaiting
	// before a waiter may be queued.
register:
	for {
		switch s := e.state.Load(); s {
		case evUnsignalled:
			// A lock-free Signal can still race this transition.
			if e.state.CompareAndSwap(evUnsignalled, evWaiting) {
				break register
			}
		case evSignalled:
			// A lock-free tryWait or Reset can still race the consume.
			if !e.autoreset || e.state.CompareAndSwap(evSignalled, evUnsignalled) {
				e.mu.Unlock()
				return true
			}
		case evWaiting:
			break register
		default:
			badState(s)
		}
	}

	w := &waiter{}
	if d >= 0 {
		// The wakeup mechanism is fixed before the waiter becomes visible;
		// the waker picks channel or semaphore by looking at ready.
		w.ready = make(chan struct{})
	}
	e.list.pushBack(w)
	e.mu.Unlock()

	if w.ready == nil {
		w.sema.Acquire()
	} else {
		t := time.NewTimer(d)
		select {
		case <-w.ready:
			t.Stop()
		case <-t.C:
		}
	}

	e.mu.Lock()
	awoken := w.awoken
	// No-op if a signal already unlinked w; unlinks on timeout.
	e.list.remove(w)
	if e.list.empty() && e.state.Load() == evWaiting {
		// Last waiter out lowers the waiting state. The plain store is
		// safe: leaving evWaiting is permitted only to mutex holders.
		e.state.Store(evUnsignalled)
	}
	e.mu.Unlock()
	return awoken
}

// signalSlow wakes queued waiters. Entered after the fast path observed
// evWaiting, but by the time the mutex is held the waiters may have timed
// out and drained, so the flag check is re-run under the lock.
func (e *Event) signalSlow() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for {
		switch s := e.state.Load(); s {
		case evUnsignalled:
			if e.state.CompareAndSwap(evUnsignalled, evSignalled) {
				return
			}
		case evSignalled:
			return
		case evWaiting:
			// Stable under the mutex: nothing else may leave evWaiting.
			if e.autoreset {
				e.wake(e.list.front())
				if e.list.empty() {
					e.state.Store(evUnsignalled)
				}
				return
			}
			for !e.list.empty() {
				e.wake(e.list.front())
			}
			// The queue is fully drained before the raised flag becomes
			// visible, so a fast-path wait that observes evSignalled can
			// never share the Event with a stale waiter.
			e.state.Store(evSignalled)
			return
		default:
			badState(s)
		}
	}
}

// wake marks w as taken by this signal, unlinks it, and releases its parked
// goroutine. Called with e.mu held. Unlinking here leaves w self-linked, so
// the owner's own removal on the way out finds nothing to do.
func (e *Event) wake(w *waiter) {
	w.awoken = true
	e.list.remove(w)
	if w.ready != nil {
		close(w.ready)
	} else {
		w.sema.Release()
	}
}

// CleanUp checks that the Event is safe to tear down and panics if
// goroutines are still queued on it. Waiters hold references into the
// Event, so the owner must drain them, by signalling or by letting timeouts
// expire, before releasing it.
//
// The Event holds no other resources; a drained Event can simply be
// dropped.
func (e *Event) CleanUp() {
	if e.state.Load() == evWaiting {
		panic("evx: event cleaned up with waiters still queued")
	}
}

// waiters reports how many goroutines are queued. Test hook.
func (e *Event) waiters() int {
	e.mu.Lock()
	n := e.list.len()
	e.mu.Unlock()
	return n
}
