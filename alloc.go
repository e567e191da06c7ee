// Byte space allocator.
//
// The allocator keeps the partition of [0, fileLength-1] as ByteSpaces in
// a B-tree ordered by first byte. Because the spans never overlap, the span
// holding any byte is the one with the greatest First at or below it, which
// turns every lookup into a single descend instead of a linear search.
//
// New claims are always carved out of an Empty span. The matched span is
// removed and replaced by the claim plus whatever Empty remainder is left
// on either side, so the partition has no gaps or overlaps after every
// call.
package region

import (
	"fmt"
	"math"

	"github.com/google/btree"
)

// btreeDegree matches the degree used for ordered indexes elsewhere; files
// hold at most a few thousand spans so the exact value is not critical.
const btreeDegree = 32

type allocator struct {
	tree        *btree.BTreeG[ByteSpace]
	last        uint64 // last byte of the file
	segmentSize uint64
	placed      int // successful reservations, padding included
}

// newAllocator partitions a file of length bytes and reserves the region
// header plus index table, [0, segmentBase-1].
func newAllocator(length, segmentBase uint64, segmentSize uint32) (*allocator, error) {
	if length == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrAllocatorInvariant)
	}
	if segmentSize == 0 {
		return nil, fmt.Errorf("%w: zero segment size", ErrAllocatorInvariant)
	}
	a := &allocator{
		tree: btree.NewG(btreeDegree, func(x, y ByteSpace) bool {
			return x.First < y.First
		}),
		last:        length - 1,
		segmentSize: uint64(segmentSize),
	}
	a.tree.ReplaceOrInsert(ByteSpace{First: 0, Last: a.last, Kind: Empty})
	if segmentBase > 0 {
		if _, err := a.reserve(0, segmentBase, RegionHeader, 0); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// reserve claims [first, first+length-1] as kind. It returns whether the
// primary span was placed. Requests that end past EOF and exact duplicates
// of an existing claim are silent no-ops; any other collision is an
// *AllocatorError.
//
// Segment and RecoveredIndexSegment claims that do not end on a page
// boundary are followed by a PagePadding claim with the same index, up to
// the boundary or EOF, whichever comes first.
func (a *allocator) reserve(first, length uint64, kind Kind, index uint32) (bool, error) {
	if length == 0 {
		return false, fmt.Errorf("%w: zero-length %s reservation at 0x%X", ErrAllocatorInvariant, kind, first)
	}
	if length-1 > math.MaxUint64-first {
		return false, nil // cannot end inside the file
	}
	req := ByteSpace{First: first, Last: first + length - 1, Kind: kind, Index: index}
	placed, err := a.place(req)
	if err != nil || !placed {
		return placed, err
	}

	if kind != KindSegment && kind != RecoveredIndexSegment {
		return true, nil
	}
	rest := length % a.segmentSize
	if rest == 0 || req.Last >= a.last {
		return true, nil
	}
	pad := ByteSpace{
		First: req.Last + 1,
		Last:  min(req.Last+a.segmentSize-rest, a.last),
		Kind:  PagePadding,
		Index: index,
	}
	if _, err := a.place(pad); err != nil {
		return true, err
	}
	return true, nil
}

// padding returns the number of filler bytes that follow a claim of length
// bytes, ignoring EOF.
func (a *allocator) padding(length uint64) uint64 {
	rest := length % a.segmentSize
	if rest == 0 {
		return 0
	}
	return a.segmentSize - rest
}

func (a *allocator) place(req ByteSpace) (bool, error) {
	match, ok := a.at(req.First)
	if !ok || match.Kind != Empty || !match.Contains(req.First, req.Last) {
		// Outside the file: the caller computed an offset past EOF, which
		// is normal for the last page.
		if req.Last > a.last {
			return false, nil
		}
		// A corrupted index table can declare the same range twice. The
		// first registration wins.
		if ok && match == req {
			return false, nil
		}
		return false, &AllocatorError{Request: req, Colliding: a.overlapping(req.First, req.Last)}
	}

	a.tree.Delete(match)
	a.tree.ReplaceOrInsert(req)
	if match.First < req.First {
		a.tree.ReplaceOrInsert(ByteSpace{First: match.First, Last: req.First - 1, Kind: Empty})
	}
	if match.Last > req.Last {
		a.tree.ReplaceOrInsert(ByteSpace{First: req.Last + 1, Last: match.Last, Kind: Empty})
	}
	a.placed++
	return true, nil
}

// at returns the span containing byte x.
func (a *allocator) at(x uint64) (ByteSpace, bool) {
	var found ByteSpace
	ok := false
	a.tree.DescendLessOrEqual(ByteSpace{First: x}, func(s ByteSpace) bool {
		found, ok = s, true
		return false
	})
	if !ok || found.Last < x {
		return ByteSpace{}, false
	}
	return found, true
}

// overlapping returns every span sharing a byte with [first, last].
func (a *allocator) overlapping(first, last uint64) []ByteSpace {
	start := first
	if s, ok := a.at(first); ok {
		start = s.First
	}
	var out []ByteSpace
	a.tree.AscendGreaterOrEqual(ByteSpace{First: start}, func(s ByteSpace) bool {
		if s.First > last {
			return false
		}
		out = append(out, s)
		return true
	})
	return out
}

// emptySpans returns the unclaimed spans in ascending order.
func (a *allocator) emptySpans() []ByteSpace {
	var out []ByteSpace
	a.tree.Ascend(func(s ByteSpace) bool {
		if s.Kind == Empty {
			out = append(out, s)
		}
		return true
	})
	return out
}

// spans returns the whole partition in ascending order.
func (a *allocator) spans() []ByteSpace {
	out := make([]ByteSpace, 0, a.tree.Len())
	a.tree.Ascend(func(s ByteSpace) bool {
		out = append(out, s)
		return true
	})
	return out
}

// covers reports whether the spans tile [0, last] with no gap or overlap.
func (a *allocator) covers() bool {
	return Covers(a.spans(), a.last+1)
}

// Covers reports whether spans, sorted by First, tile [0, length-1]
// exactly.
func Covers(spans []ByteSpace, length uint64) bool {
	if length == 0 {
		return len(spans) == 0
	}
	var next uint64
	for i, s := range spans {
		if s.Last < s.First || s.First != next {
			return false
		}
		if s.Last == length-1 {
			return i == len(spans)-1
		}
		next = s.Last + 1
	}
	return false
}
