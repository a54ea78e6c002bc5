package opt

import (
	"sync"
	"testing"
	"time"
)

func TestSemaBlockUnblock(t *testing.T) {
	var s Sema

	done := make(chan struct{})
	go func() {
		s.Acquire()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Acquire returned before Release")
	case <-time.After(50 * time.Millisecond):
		// OK
	}

	s.Release()
	select {
	case <-done:
		// OK
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after Release")
	}
}

func TestSemaBankedRelease(t *testing.T) {
	var s Sema

	// Release before Acquire must not lose the wakeup.
	s.Release()

	done := make(chan struct{})
	go func() {
		s.Acquire()
		close(done)
	}()

	select {
	case <-done:
		// OK
	case <-time.After(time.Second):
		t.Fatal("Acquire did not consume a banked Release")
	}
}

func TestSemaManyWaiters(t *testing.T) {
	var s Sema

	var wg sync.WaitGroup
	n := 10
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			s.Acquire()
		}()
	}

	// Give them time to block
	time.Sleep(50 * time.Millisecond)

	// Wake them up one by one
	for range n {
		s.Release()
	}

	ch := make(chan struct{})
	go func() {
		wg.Wait()
		close(ch)
	}()

	select {
	case <-ch:
		// OK
	case <-time.After(time.Second):
		t.Fatal("Not all waiters woke up")
	}
}
