package evx

import "testing"

func TestWaitListZeroValue(t *testing.T) {
	var l waitList
	if !l.empty() {
		t.Error("zero waitList is not empty")
	}
	if l.len() != 0 {
		t.Errorf("len = %d, want 0", l.len())
	}
}

func TestWaitListFIFO(t *testing.T) {
	var l waitList
	a, b, c := &waiter{}, &waiter{}, &waiter{}
	l.pushBack(a)
	l.pushBack(b)
	l.pushBack(c)

	if l.empty() || l.len() != 3 {
		t.Fatalf("empty=%v len=%d after three pushes", l.empty(), l.len())
	}
	for i, want := range []*waiter{a, b, c} {
		got := l.front()
		if got != want {
			t.Fatalf("position %d: got %p, want %p", i, got, want)
		}
		l.remove(got)
	}
	if !l.empty() {
		t.Error("list not empty after removing all")
	}
}

func TestWaitListRemoveInterior(t *testing.T) {
	var l waitList
	a, b, c := &waiter{}, &waiter{}, &waiter{}
	l.pushBack(a)
	l.pushBack(b)
	l.pushBack(c)

	l.remove(b)
	if l.len() != 2 {
		t.Fatalf("len = %d after interior remove, want 2", l.len())
	}
	if l.front() != a || a.next != c || c.prev != a {
		t.Error("ring broken around removed waiter")
	}
}

func TestWaitListDoubleRemove(t *testing.T) {
	var l waitList
	a, b := &waiter{}, &waiter{}
	l.pushBack(a)
	l.pushBack(b)

	l.remove(a)
	if a.next != a || a.prev != a {
		t.Error("removed waiter is not self-linked")
	}
	l.remove(a) // second remove must find nothing to do
	if l.len() != 1 || l.front() != b {
		t.Errorf("double remove damaged the list: len = %d", l.len())
	}
}

func TestWaitListReusesNode(t *testing.T) {
	var l waitList
	w := &waiter{}
	l.pushBack(w)
	l.remove(w)
	l.pushBack(w)
	if l.len() != 1 || l.front() != w {
		t.Error("node not linkable again after remove")
	}
}
