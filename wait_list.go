package evx

import (
	"github.com/llxisdsh/evx/internal/opt"
)

// waiter is one queued wait: the registry links, the parked goroutine's
// wakeup primitive, and the flag that resolves timeout races.
//
// Each waiter belongs to exactly one WaitTimeout or Wait call and lives no
// longer than that call. While linked it is mutated by at most one other
// goroutine, the waker, and only with the owning Event's mutex held.
type waiter struct {
	prev, next *waiter

	// ready is the wakeup channel for timed waits, closed exactly once by
	// the waker. It is nil for untimed waits, which park on sema instead;
	// the channel exists only so a timed wait can select against its timer.
	ready chan struct{}
	sema  opt.Sema

	// awoken records that a signal chose this waiter. Written only by the
	// waker and read by the owner, both under the Event mutex, so a wait
	// whose timer fired can still tell whether a signal beat the timeout.
	awoken bool
}

// waitList is an intrusive circular doubly linked list of waiters rooted at
// a sentinel node. Waiters push at the tail and wake from the front, so the
// queue is served strictly in arrival order. All operations are O(1); the
// list allocates nothing and never owns a node.
//
// The zero waitList is an empty ring that closes itself on first push.
type waitList struct {
	root waiter
}

// empty reports whether no waiters are queued.
func (l *waitList) empty() bool {
	return l.root.next == nil || l.root.next == &l.root
}

// front returns the oldest waiter. The caller must know the list is
// non-empty.
func (l *waitList) front() *waiter {
	return l.root.next
}

// pushBack appends w behind the newest waiter.
func (l *waitList) pushBack(w *waiter) {
	if l.root.next == nil {
		l.root.next = &l.root
		l.root.prev = &l.root
	}
	at := l.root.prev
	w.prev = at
	w.next = &l.root
	at.next = w
	l.root.prev = w
}

// remove unlinks w and leaves it linked to itself, so removing it a second
// time is a harmless no-op. Both the waker and a timed-out owner unlink the
// same waiter; whichever runs second must find nothing to do. w must have
// been pushed at some point.
func (l *waitList) remove(w *waiter) {
	w.prev.next = w.next
	w.next.prev = w.prev
	w.prev = w
	w.next = w
}

// len counts the queued waiters. It is O(n) and exists for tests and
// teardown checks, not for the wait and signal paths.
func (l *waitList) len() int {
	n := 0
	if l.root.next == nil {
		return 0
	}
	for w := l.root.next; w != &l.root; w = w.next {
		n++
	}
	return n
}
