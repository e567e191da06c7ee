// Package region decodes Hytale-style indexed region files and recovers
// as much chunk data as possible when they are damaged.
//
// A region file is a fixed header, a table of blob indexes and a data area
// cut into fixed-size pages. Each stored chunk is a segment: an 8-byte
// header (source and compressed length) followed by a zstd-compressed BSON
// document, padded to the next page boundary. The reader decodes every
// segment the index table declares, then runs a recovery pass over the
// bytes nothing has claimed yet, looking for segments whose index entry was
// lost and classifying the rest as padding or unrecoverable corruption.
//
// The package is read-only. It never writes to the file it inspects.
package region

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic handling. ErrFormatMismatch,
// ErrCorruptHeader and ErrAllocatorInvariant abort the file; the segment
// errors (ErrInvalidHeader, ErrDecompress, ErrSizeMismatch,
// ErrMalformedDocument) only mark a single chunk as corrupted.
var (
	ErrFormatMismatch     = errors.New("not a region file")
	ErrCorruptHeader      = errors.New("corrupt region header")
	ErrInvalidHeader      = errors.New("invalid segment header")
	ErrDecompress         = errors.New("decompression failed")
	ErrSizeMismatch       = errors.New("decompressed size mismatch")
	ErrMalformedDocument  = errors.New("malformed document")
	ErrAllocatorInvariant = errors.New("byte space invariant violated")
)

// corrupt reports whether err is one of the segment-level corruption
// classes, as opposed to a fatal or I/O error.
func corrupt(err error) bool {
	return errors.Is(err, ErrInvalidHeader) ||
		errors.Is(err, ErrDecompress) ||
		errors.Is(err, ErrSizeMismatch) ||
		errors.Is(err, ErrMalformedDocument)
}

// AllocatorError describes a reservation that collided with bytes already
// claimed by a different span. It carries the full partition context so the
// failure can be diagnosed from the error alone.
type AllocatorError struct {
	Request   ByteSpace
	Colliding []ByteSpace
}

func (e *AllocatorError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: request %v collides with", ErrAllocatorInvariant, e.Request)
	if len(e.Colliding) == 0 {
		b.WriteString(" nothing")
	}
	for _, s := range e.Colliding {
		b.WriteString(" ")
		b.WriteString(s.String())
	}
	return b.String()
}

func (e *AllocatorError) Unwrap() error {
	return ErrAllocatorInvariant
}
