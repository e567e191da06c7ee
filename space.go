// Byte spaces: typed, non-overlapping intervals of the region file.
//
// Every byte of a decoded file belongs to exactly one ByteSpace. The kind
// says what the bytes are known to contain; Empty means nothing has
// claimed them yet.
package region

import (
	"fmt"
	"strings"
)

// Kind classifies what a ByteSpace is known to contain.
type Kind uint8

const (
	// Empty bytes have not been claimed. Any Empty span left after
	// recovery is either unused space or corruption too small to classify.
	Empty Kind = iota
	// KindSegment is a chunk decoded through its declared blob index.
	KindSegment
	// RegionHeader covers the fixed header and the blob index table.
	RegionHeader
	// PagePadding is the filler after a segment up to the next page.
	PagePadding
	// RecoveredIndexSegment is a chunk found by scanning for headers. Some
	// are discarded copies that were never overwritten.
	RecoveredIndexSegment
	// CorruptZstdHeader is a page whose segment header looks sane but whose
	// payload does not decode.
	CorruptZstdHeader
	// CorruptSegmentHeader is a page with no plausible segment header.
	CorruptSegmentHeader
)

var kindNames = map[Kind]string{
	Empty:                 "Empty",
	KindSegment:           "Segment",
	RegionHeader:          "RegionHeader",
	PagePadding:           "PagePadding",
	RecoveredIndexSegment: "RecoveredIndexSegment",
	CorruptZstdHeader:     "CorruptZstdHeader",
	CorruptSegmentHeader:  "CorruptSegmentHeader",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return name
}

// MarshalText renders the kind by name in JSON and YAML reports.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if strings.EqualFold(name, string(text)) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown byte space kind %q", text)
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{Empty, KindSegment, RegionHeader, PagePadding,
		RecoveredIndexSegment, CorruptZstdHeader, CorruptSegmentHeader}
}

// ByteSpace is the inclusive byte range [First, Last] of a file. Index is
// the blob index (or fixed index) the range is attributed to, 0 when the
// range belongs to no slot.
type ByteSpace struct {
	First uint64 `json:"first" yaml:"first" cbor:"first"`
	Last  uint64 `json:"last" yaml:"last" cbor:"last"`
	Kind  Kind   `json:"kind" yaml:"kind" cbor:"kind"`
	Index uint32 `json:"index,omitempty" yaml:"index,omitempty" cbor:"index,omitempty"`
}

// Len returns the number of bytes in the span.
func (b ByteSpace) Len() uint64 {
	return b.Last - b.First + 1
}

// Contains reports whether [first, last] lies entirely inside b.
func (b ByteSpace) Contains(first, last uint64) bool {
	return b.First <= first && last <= b.Last
}

// Overlaps reports whether [first, last] shares at least one byte with b.
func (b ByteSpace) Overlaps(first, last uint64) bool {
	return b.First <= last && first <= b.Last
}

func (b ByteSpace) String() string {
	return fmt.Sprintf("[%s] [0x%X-0x%X] {0x%X} (%d)", b.Kind, b.First, b.Last, b.Len(), b.Index)
}
