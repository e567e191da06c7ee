//go:build windows

package region

import (
	"os"

	"golang.org/x/sys/windows"
)

// Whole-file range for LockFileEx.
const maxRange = ^uint32(0)

func flock(f *os.File, mode lockMode) error {
	var flags uint32
	if mode == lockWrite {
		flags = windows.LOCKFILE_EXCLUSIVE_LOCK
	}
	return windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, maxRange, maxRange, new(windows.Overlapped))
}

func funlock(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, maxRange, maxRange, new(windows.Overlapped))
}
