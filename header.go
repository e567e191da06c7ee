// Region header and blob index table.
//
//	Offset       Size         Description
//	-----------  -----------  ---------------------------------------
//	0            20           "HytaleIndexedStorage"
//	20           4            Version
//	24           4            Blob count
//	28           4            Segment (page) size
//	32           4*count      Blob index table
//	SegmentBase  remainder    Segment pages
//
// All integers are big-endian. A blob index of 0 means the slot stores
// nothing; index i points at SegmentBase + (i-1)*SegmentSize.
package region

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

// Magic is the marker every region file starts with.
const Magic = "HytaleIndexedStorage"

// Header layout constants.
const (
	MagicSize      = len(Magic)
	HeaderSize     = 32 // magic + version + blob count + segment size
	IndexEntrySize = 4
)

// Header holds the fixed fields following the magic marker.
type Header struct {
	Version     uint32 `json:"version" yaml:"version" cbor:"version"`
	BlobCount   uint32 `json:"blob_count" yaml:"blob_count" cbor:"blob_count"`
	SegmentSize uint32 `json:"segment_size" yaml:"segment_size" cbor:"segment_size"`
}

// SegmentBase is the offset of the first segment page, directly after the
// index table.
func (h Header) SegmentBase() uint64 {
	return HeaderSize + IndexEntrySize*uint64(h.BlobCount)
}

// Offset returns the file offset a nonzero blob index points at.
func (h Header) Offset(index uint32) (uint64, bool) {
	if index == 0 {
		return 0, false
	}
	rel := uint64(index-1) * uint64(h.SegmentSize)
	if rel > math.MaxUint64-h.SegmentBase() {
		return 0, false
	}
	return h.SegmentBase() + rel, true
}

// header reads and validates the fixed header of a stream of size bytes.
func header(r io.ReaderAt, size int64) (Header, error) {
	if size < int64(MagicSize) {
		return Header{}, ErrFormatMismatch
	}
	buf := make([]byte, HeaderSize)
	n, err := r.ReadAt(buf, 0)
	if n < MagicSize {
		if err == nil || err == io.EOF {
			return Header{}, ErrFormatMismatch
		}
		return Header{}, fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(buf[:MagicSize], []byte(Magic)) {
		return Header{}, ErrFormatMismatch
	}
	if n < HeaderSize {
		return Header{}, fmt.Errorf("%w: truncated at %d bytes", ErrCorruptHeader, n)
	}

	hdr := Header{
		Version:     be32(buf[20:24]),
		BlobCount:   be32(buf[24:28]),
		SegmentSize: be32(buf[28:32]),
	}
	if hdr.SegmentSize == 0 {
		return Header{}, fmt.Errorf("%w: segment size is zero", ErrCorruptHeader)
	}
	if hdr.SegmentBase() > uint64(size) {
		return Header{}, fmt.Errorf("%w: index table of %d entries runs past end of file",
			ErrCorruptHeader, hdr.BlobCount)
	}
	return hdr, nil
}

// indexes reads the blob index table.
func indexes(r io.ReaderAt, hdr Header) ([]uint32, error) {
	buf, err := readAt(r, HeaderSize, int(hdr.BlobCount)*IndexEntrySize)
	if err != nil {
		return nil, fmt.Errorf("%w: index table: %w", ErrCorruptHeader, err)
	}
	out := make([]uint32, hdr.BlobCount)
	for i := range out {
		out[i] = be32(buf[i*IndexEntrySize:])
	}
	return out, nil
}
