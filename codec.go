// Segment header codec.
//
// A segment header is two big-endian uint32 values: the decompressed
// (source) length followed by the compressed length. plausible is the cheap
// filter run before any decompression is attempted. It only checks bounds
// and the relationship between the two lengths, so it never costs more
// than one 8-byte read.
package region

import (
	"encoding/binary"
	"io"
	"math"
)

// SegmentHeaderSize is the size of the per-segment length header.
const SegmentHeaderSize = 8

// be32 converts a big-endian encoded uint32 to the host value. The format
// stores every integer big-endian regardless of platform.
func be32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// segmentHeader holds the two length fields at the start of a segment.
type segmentHeader struct {
	source     uint32
	compressed uint32
}

// onDisk returns the number of bytes the segment occupies before padding.
func (h segmentHeader) onDisk() uint64 {
	return SegmentHeaderSize + uint64(h.compressed)
}

// readSegmentHeader reads the length header at offset.
func readSegmentHeader(r io.ReaderAt, offset int64) (segmentHeader, error) {
	var buf [SegmentHeaderSize]byte
	if err := readFull(r, buf[:], offset); err != nil {
		return segmentHeader{}, err
	}
	return segmentHeader{
		source:     be32(buf[0:4]),
		compressed: be32(buf[4:8]),
	}, nil
}

// plausible reports whether offset could hold a segment header in a stream
// of size bytes. It does not decompress anything.
func plausible(r io.ReaderAt, size, offset int64) bool {
	if offset < 0 || offset+SegmentHeaderSize > size {
		return false
	}
	hdr, err := readSegmentHeader(r, offset)
	if err != nil {
		return false
	}
	if hdr.compressed > math.MaxInt32 {
		return false
	}
	if hdr.source < hdr.compressed {
		return false
	}
	return offset+int64(hdr.onDisk()) <= size
}
