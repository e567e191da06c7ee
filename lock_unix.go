//go:build unix

package region

import (
	"os"

	"golang.org/x/sys/unix"
)

func flock(f *os.File, mode lockMode) error {
	how := unix.LOCK_SH
	if mode == lockWrite {
		how = unix.LOCK_EX
	}
	for {
		err := unix.Flock(int(f.Fd()), how)
		if err != unix.EINTR {
			return err
		}
	}
}

func funlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
