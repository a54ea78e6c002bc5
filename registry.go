package evx

import (
	"github.com/llxisdsh/pb"
)

// Registry is a concurrent namespace of Events addressed by name, in the
// spirit of named event objects: components that share a Registry can
// coordinate through a string instead of plumbing an *Event between them.
//
// The zero Registry is empty and ready for use. A Registry must not be
// copied after first use.
type Registry struct {
	_ noCopy
	m pb.MapOf[string, *Event]
}

// Open returns the Event registered under name, creating it when the name
// is new. The first creator fixes autoreset and the initial flag; a later
// Open of the same name returns the existing Event with both arguments
// ignored. existed reports which of the two happened.
func (r *Registry) Open(name string, autoreset, signalled bool) (ev *Event, existed bool) {
	return r.m.ProcessEntry(
		name,
		func(l *pb.EntryOf[string, *Event]) (*pb.EntryOf[string, *Event], *Event, bool) {
			if l != nil {
				return l, l.Value, true
			}
			e := NewEvent(autoreset, signalled)
			return &pb.EntryOf[string, *Event]{Value: e}, e, false
		},
	)
}

// Lookup returns the Event registered under name without creating one.
func (r *Registry) Lookup(name string) (*Event, bool) {
	return r.m.Load(name)
}

// Remove drops name from the Registry and runs the Event's teardown check.
// Removing a name whose Event still has queued waiters is the same contract
// violation as any other teardown with waiters and panics; removing an
// unknown name is a no-op.
//
// Goroutines already holding the *Event keep a usable Event. Remove only
// retires the name.
func (r *Registry) Remove(name string) {
	if e, ok := r.m.LoadAndDelete(name); ok {
		e.CleanUp()
	}
}

// Len reports the number of registered names.
func (r *Registry) Len() int {
	return r.m.Size()
}

// Range calls yield for each registered name and Event until yield returns
// false. It does not observe a consistent snapshot: names registered or
// removed during the walk may or may not be seen.
func (r *Registry) Range(yield func(name string, e *Event) bool) {
	r.m.Range(yield)
}
