// Low-level read primitives.
//
// Everything is read with ReadAt so the decoder never depends on, or moves,
// a shared file position. This keeps a single *os.File usable from several
// goroutines and lets tests feed a bytes.Reader instead of a file.
package region

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// readFull fills buf from offset. A short read at end of file is reported
// as io.ErrUnexpectedEOF so callers can tell truncation from I/O failure.
func readFull(r io.ReaderAt, buf []byte, offset int64) error {
	n, err := r.ReadAt(buf, offset)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// readAt returns length bytes starting at offset.
func readAt(r io.ReaderAt, offset int64, length int) ([]byte, error) {
	buf := make([]byte, length)
	if err := readFull(r, buf, offset); err != nil {
		return nil, err
	}
	return buf, nil
}

func size(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat: %w", err)
	}
	return info.Size(), nil
}
