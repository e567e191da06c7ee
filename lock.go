// Advisory locks on region files.
//
// A server appending to a region file holds it exclusively. Open holds a
// read lock for as long as it decodes, so it never sees a segment that is
// only half written. Any number of readers can hold the file at once.
package region

import (
	"os"
	"sync"
)

type lockMode uint8

const (
	lockRead lockMode = iota
	lockWrite
)

// heldLock is an advisory lock on an open file, released at most once.
type heldLock struct {
	f    *os.File
	once sync.Once
	err  error
}

// acquire blocks until f is locked in mode.
func acquire(f *os.File, mode lockMode) (*heldLock, error) {
	if err := flock(f, mode); err != nil {
		return nil, err
	}
	return &heldLock{f: f}, nil
}

// release drops the lock. Later calls return the first call's result.
func (l *heldLock) release() error {
	l.once.Do(func() { l.err = funlock(l.f) })
	return l.err
}
