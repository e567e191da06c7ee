// Recovery of unclaimed byte ranges.
//
// Once every declared segment is registered, whatever is still Empty is
// either unused space or data the index table lost track of. Recovery
// alternates two passes until neither claims anything new:
//
//   - scan: walk each Empty span page by page from its start while a
//     plausible segment header sits at the cursor. Segments that decode
//     are claimed as RecoveredIndexSegment; pages whose payload does not
//     decode are claimed as CorruptZstdHeader.
//   - close: walk each remaining Empty span from its start while the page
//     has no plausible header, claiming whole pages as
//     CorruptSegmentHeader. It stops at the first plausible page, which the
//     next scan pass picks up.
//
// Each pass only ever claims bytes the allocator still holds as Empty, so
// the Empty total shrinks with every claim and the loop terminates.
package region

import (
	"log/slog"
)

type recovery struct {
	alloc *allocator
	dec   *decoder
	base  uint64 // segment base
	ss    uint64 // segment size
	found map[uint32]*Segment
	log   *slog.Logger
}

func newRecovery(alloc *allocator, dec *decoder, base uint64, segmentSize uint32, log *slog.Logger) *recovery {
	return &recovery{
		alloc: alloc,
		dec:   dec,
		base:  base,
		ss:    uint64(segmentSize),
		found: make(map[uint32]*Segment),
		log:   log,
	}
}

// fixedIndex is the blob index a byte offset would have under the fixed
// page stride.
func (rc *recovery) fixedIndex(offset uint64) uint32 {
	return uint32((offset-rc.base)/rc.ss + 1)
}

// run repeats scan and close until an iteration claims nothing.
func (rc *recovery) run() error {
	for pass := 1; ; pass++ {
		before := rc.alloc.placed

		for _, span := range rc.alloc.emptySpans() {
			if err := rc.scan(span); err != nil {
				return err
			}
		}
		for _, span := range rc.alloc.emptySpans() {
			if err := rc.close(span); err != nil {
				return err
			}
		}

		claimed := rc.alloc.placed - before
		rc.log.Debug("recovery pass", "pass", pass, "claimed", claimed, "recovered", len(rc.found))
		if claimed == 0 {
			return nil
		}
	}
}

func (rc *recovery) scan(span ByteSpace) error {
	cursor := span.First
	for cursor <= span.Last && plausible(rc.dec.r, rc.dec.size, int64(cursor)) {
		idx := rc.fixedIndex(cursor)

		seg, err := rc.dec.decode(int64(cursor))
		if err != nil && !corrupt(err) {
			return err
		}
		// A segment that decodes but runs into claimed bytes cannot be
		// live data; treat its page like any other undecodable one.
		if err == nil && cursor+seg.OnDisk()-1 <= span.Last {
			if _, err := rc.alloc.reserve(cursor, seg.OnDisk(), RecoveredIndexSegment, idx); err != nil {
				return err
			}
			if _, ok := rc.found[idx]; !ok {
				rc.found[idx] = seg
			}
			cursor += seg.OnDisk() + rc.alloc.padding(seg.OnDisk())
			continue
		}

		n := rc.ss
		if cursor+n-1 > span.Last && span.Last < rc.alloc.last {
			n = span.Last - cursor + 1
		}
		if _, err := rc.alloc.reserve(cursor, n, CorruptZstdHeader, idx); err != nil {
			return err
		}
		cursor += rc.ss
	}
	return nil
}

func (rc *recovery) close(span ByteSpace) error {
	cursor := span.First
	for cursor+rc.ss-1 <= span.Last && !plausible(rc.dec.r, rc.dec.size, int64(cursor)) {
		if _, err := rc.alloc.reserve(cursor, rc.ss, CorruptSegmentHeader, rc.fixedIndex(cursor)); err != nil {
			return err
		}
		cursor += rc.ss
	}
	return nil
}
