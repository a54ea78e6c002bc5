package evx

import "fmt"

// noCopy may be added to structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
//
// Note that it must not be embedded, due to the Lock and Unlock methods.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// badState reports a state word holding none of the legal values. That can
// only mean memory corruption or an Event copied after first use; neither
// is recoverable.
func badState(s uint32) {
	panic(fmt.Sprintf("evx: corrupt event state %d", s))
}
