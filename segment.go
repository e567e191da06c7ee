// Segment decoding.
//
// A segment is the unit stored at one blob offset: an 8-byte length header,
// then a zstd payload that decompresses to a BSON chunk document. decode
// runs the full pipeline and returns a classified error at the first step
// that fails, so callers can decide whether corruption is tolerable.
package region

import (
	"fmt"
	"io"
	"math"

	"go.mongodb.org/mongo-driver/bson"
)

// Segment is one decoded (or attempted) blob. Segments are never modified
// after construction.
type Segment struct {
	Offset           int64  // File offset of the segment header
	SourceLength     uint32 // Decompressed size declared by the header
	CompressedLength uint32 // Payload size declared by the header
	Digest           string // Digest of the decompressed payload
	Empty            bool
	Corrupted        bool
	raw              bson.Raw
}

// emptySegment is the canonical segment of a slot with blob index 0.
func emptySegment() *Segment {
	return &Segment{Empty: true}
}

// corruptSegment stands in for a slot whose declared segment failed to
// decode.
func corruptSegment() *Segment {
	return &Segment{Empty: true, Corrupted: true}
}

// OnDisk returns the bytes the segment occupies, header included, before
// padding.
func (s *Segment) OnDisk() uint64 {
	if s.Empty {
		return 0
	}
	return SegmentHeaderSize + uint64(s.CompressedLength)
}

// Raw returns the validated BSON bytes, nil for empty segments.
func (s *Segment) Raw() bson.Raw {
	return s.raw
}

// Document parses the chunk document. Parsing is repeated on every call so
// a reader holding many segments only pays for the graphs it inspects.
func (s *Segment) Document() (bson.D, error) {
	if s.Empty {
		return nil, nil
	}
	return parse(s.raw)
}

// decoder carries the per-session settings segment decoding needs.
type decoder struct {
	r         io.ReaderAt
	size      int64
	field     string
	digest    int
	maxSource uint32
}

// decode reads and validates the segment at offset. Any failure is returned
// as one of ErrInvalidHeader, ErrDecompress, ErrSizeMismatch or
// ErrMalformedDocument, or as the underlying I/O error.
func (d *decoder) decode(offset int64) (*Segment, error) {
	if offset < 0 || offset+SegmentHeaderSize > d.size {
		return nil, fmt.Errorf("%w: header at 0x%X past end of file", ErrInvalidHeader, offset)
	}
	hdr, err := readSegmentHeader(d.r, offset)
	if err != nil {
		return nil, fmt.Errorf("segment at 0x%X: %w", offset, err)
	}

	switch {
	case hdr.compressed == 0:
		return nil, fmt.Errorf("%w: compressed length is zero", ErrInvalidHeader)
	case hdr.compressed > math.MaxInt32:
		return nil, fmt.Errorf("%w: compressed length %d exceeds int32", ErrInvalidHeader, hdr.compressed)
	case hdr.source < hdr.compressed:
		return nil, fmt.Errorf("%w: compressed length %d greater than source length %d",
			ErrInvalidHeader, hdr.compressed, hdr.source)
	case hdr.source > d.maxSource:
		return nil, fmt.Errorf("%w: source length %d exceeds limit %d", ErrInvalidHeader, hdr.source, d.maxSource)
	case offset+int64(hdr.onDisk()) > d.size:
		return nil, fmt.Errorf("%w: compressed length %d runs past end of file", ErrInvalidHeader, hdr.compressed)
	}

	compressed, err := readAt(d.r, offset+SegmentHeaderSize, int(hdr.compressed))
	if err != nil {
		return nil, fmt.Errorf("segment at 0x%X: %w", offset, err)
	}
	data, err := decompress(compressed, int(hdr.source))
	if err != nil {
		return nil, err
	}
	raw, err := document(data, d.field)
	if err != nil {
		return nil, err
	}

	return &Segment{
		Offset:           offset,
		SourceLength:     hdr.source,
		CompressedLength: hdr.compressed,
		Digest:           hash(data, d.digest),
		raw:              raw,
	}, nil
}
