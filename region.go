// Region reading.
//
// Read is a straight pipeline: header, index table, one decode per declared
// slot, recovery over the bytes nothing claimed, then aggregation. Every
// step depends on the byte ranges the previous one resolved, so a single
// file is always decoded on one goroutine. Independent files share nothing
// and can be read in parallel (see ScanDir).
package region

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"os"
	"slices"
)

// Config holds reader options. The zero value is ready to use.
type Config struct {
	Logger          *slog.Logger // Destination for warnings (default: discard)
	RequiredField   string       // Top-level key every chunk must carry (default "Components")
	Digest          int          // Payload digest algorithm (default AlgXXHash3)
	MaxSourceLength int          // Largest accepted decompressed size (default 256MB)
	NoLock          bool         // Skip the shared advisory lock in Open
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.RequiredField == "" {
		c.RequiredField = DefaultRequiredField
	}
	if c.Digest == 0 {
		c.Digest = AlgXXHash3
	}
	if c.MaxSourceLength <= 0 {
		c.MaxSourceLength = 256 * 1024 * 1024
	}
	return c
}

// State is where a slot ended up after decoding and recovery.
type State uint8

const (
	StateUndetermined State = iota
	StateEmpty              // Blob index 0
	StateDeclaredValid      // Declared segment decoded
	StateDeclaredInvalid    // Declared segment failed, recovery not run yet
	StateRecoveredValid     // Declared segment failed, recovery found the chunk
	StateStillCorrupted     // Declared segment failed, nothing recovered
)

var stateNames = map[State]string{
	StateUndetermined:    "Undetermined",
	StateEmpty:           "Empty",
	StateDeclaredValid:   "DeclaredValid",
	StateDeclaredInvalid: "DeclaredInvalid",
	StateRecoveredValid:  "RecoveredValid",
	StateStillCorrupted:  "StillCorrupted",
}

func (s State) String() string {
	name, ok := stateNames[s]
	if !ok {
		return fmt.Sprintf("State(%d)", uint8(s))
	}
	return name
}

// MarshalText renders the state by name in reports.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Slot is the outcome for one entry of the blob index table.
type Slot struct {
	Slot      int      // Position in the index table
	Index     uint32   // Declared blob index
	State     State    // Terminal state
	Declared  *Segment // Segment read through the declared index
	Recovered *Segment // Segment recovery attributed to this slot, if any
	Err       error    // Why the declared segment was rejected
}

// Segment returns the segment a consumer should use for this slot.
func (s Slot) Segment() *Segment {
	if s.State == StateRecoveredValid {
		return s.Recovered
	}
	return s.Declared
}

// Recovered is a segment found by scanning rather than through the index
// table.
type Recovered struct {
	Index      uint32   // Fixed index of the page it starts on
	Segment    *Segment
	Slot       int      // Slot it was attributed to, valid when Attributed
	Attributed bool     // Replaces a corrupted declared slot
	Stale      bool     // Same payload as a declared segment: a discarded copy
}

// Health counts slots by outcome. Every slot is in exactly one bucket.
type Health struct {
	Empty     int `json:"empty" yaml:"empty" cbor:"empty"`
	Filled    int `json:"filled" yaml:"filled" cbor:"filled"`
	Corrupted int `json:"corrupted" yaml:"corrupted" cbor:"corrupted"`
}

// Add accumulates o into h.
func (h *Health) Add(o Health) {
	h.Empty += o.Empty
	h.Filled += o.Filled
	h.Corrupted += o.Corrupted
}

// Total returns the number of slots counted.
func (h Health) Total() int {
	return h.Empty + h.Filled + h.Corrupted
}

// Region is a decoded region file. It is immutable once Read returns.
type Region struct {
	Name   string // File name as given to Open or Read
	Size   int64  // File length in bytes
	Header        // Fixed header fields

	index     []uint32
	slots     []Slot
	recovered []Recovered
	spans     []ByteSpace
	health    Health
}

// Open reads and recovers the region file at path. The file is held under a
// shared advisory lock while it is read and closed before Open returns.
func Open(path string, config Config) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !config.NoLock {
		lock, err := acquire(f, lockRead)
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", path, err)
		}
		defer lock.release()
	}

	sz, err := size(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Read(f, sz, path, config)
}

// Read decodes the region file of size bytes available through r. name is
// only used for logging, reports and the region position.
//
// Damaged chunks never fail the call; they show up in the slot states and
// Health. Read fails with ErrFormatMismatch when r is not a region file,
// ErrCorruptHeader when the header or index table is unusable, and
// ErrAllocatorInvariant (as *AllocatorError) when claimed byte ranges
// contradict each other.
func Read(r io.ReaderAt, size int64, name string, config Config) (*Region, error) {
	config = config.withDefaults()
	log := config.Logger.With("file", name)

	hdr, err := header(r, size)
	if err != nil {
		return nil, err
	}
	index, err := indexes(r, hdr)
	if err != nil {
		return nil, err
	}

	alloc, err := newAllocator(uint64(size), hdr.SegmentBase(), hdr.SegmentSize)
	if err != nil {
		return nil, err
	}
	dec := &decoder{
		r:         r,
		size:      size,
		field:     config.RequiredField,
		digest:    config.Digest,
		maxSource: uint32(min(uint64(config.MaxSourceLength), math.MaxUint32)),
	}

	slots := make([]Slot, len(index))
	for s, idx := range index {
		slots[s], err = declared(alloc, dec, hdr, s, idx)
		if err != nil {
			return nil, err
		}
		if slots[s].State == StateDeclaredInvalid {
			log.Warn("chunk is corrupted", "slot", s, "index", idx, "error", slots[s].Err)
		}
	}

	rc := newRecovery(alloc, dec, hdr.SegmentBase(), hdr.SegmentSize, log)
	if err := rc.run(); err != nil {
		return nil, err
	}
	if !alloc.covers() {
		return nil, fmt.Errorf("%w: partition does not cover %d bytes", ErrAllocatorInvariant, size)
	}
	log.Info("recovery finished", "recovered", len(rc.found), "spans", alloc.tree.Len())

	reg := &Region{
		Name:   name,
		Size:   size,
		Header: hdr,
		index:  index,
		slots:  slots,
		spans:  alloc.spans(),
	}
	reg.resolve(rc.found)
	return reg, nil
}

// declared decodes the segment slot s points at and claims its bytes.
// Segment corruption is recorded on the slot; only I/O and allocator errors
// are returned.
func declared(alloc *allocator, dec *decoder, hdr Header, s int, idx uint32) (Slot, error) {
	slot := Slot{Slot: s, Index: idx}
	if idx == 0 {
		slot.State = StateEmpty
		slot.Declared = emptySegment()
		return slot, nil
	}

	invalid := func(err error) (Slot, error) {
		slot.State = StateDeclaredInvalid
		slot.Declared = corruptSegment()
		slot.Err = err
		return slot, nil
	}

	off, ok := hdr.Offset(idx)
	if !ok || off > uint64(dec.size) || !plausible(dec.r, dec.size, int64(off)) {
		return invalid(fmt.Errorf("%w: no plausible header at 0x%X", ErrInvalidHeader, off))
	}
	seg, err := dec.decode(int64(off))
	if err != nil {
		if !corrupt(err) {
			return slot, err
		}
		return invalid(err)
	}
	if _, err := alloc.reserve(off, seg.OnDisk(), KindSegment, idx); err != nil {
		return slot, err
	}
	slot.State = StateDeclaredValid
	slot.Declared = seg
	return slot, nil
}

// resolve settles DeclaredInvalid slots against the recovered segments and
// counts the outcome. Slot s sits on fixed index s+1 under the page
// stride, so that is where its substitute is looked up.
func (reg *Region) resolve(found map[uint32]*Segment) {
	live := make(map[string]bool)
	for _, slot := range reg.slots {
		if slot.State == StateDeclaredValid {
			live[slot.Declared.Digest] = true
		}
	}

	for s := range reg.slots {
		slot := &reg.slots[s]
		if slot.State != StateDeclaredInvalid {
			continue
		}
		if seg, ok := found[uint32(s)+1]; ok && !live[seg.Digest] {
			slot.State = StateRecoveredValid
			slot.Recovered = seg
		} else {
			slot.State = StateStillCorrupted
		}
	}

	for _, idx := range slices.Sorted(maps.Keys(found)) {
		rec := Recovered{Index: idx, Segment: found[idx], Stale: live[found[idx].Digest]}
		if s := int(idx) - 1; s < len(reg.slots) && reg.slots[s].State == StateRecoveredValid {
			rec.Slot, rec.Attributed = s, true
		}
		reg.recovered = append(reg.recovered, rec)
	}

	for _, slot := range reg.slots {
		switch slot.State {
		case StateEmpty:
			reg.health.Empty++
		case StateDeclaredValid, StateRecoveredValid:
			reg.health.Filled++
		default:
			reg.health.Corrupted++
		}
	}
}

// Index returns a copy of the blob index table.
func (reg *Region) Index() []uint32 {
	return slices.Clone(reg.index)
}

// Slots returns every slot in index table order.
func (reg *Region) Slots() []Slot {
	return slices.Clone(reg.slots)
}

// Slot returns the slot at position s.
func (reg *Region) Slot(s int) (Slot, bool) {
	if s < 0 || s >= len(reg.slots) {
		return Slot{}, false
	}
	return reg.slots[s], true
}

// Recovered returns the segments found by scanning, ordered by fixed index.
func (reg *Region) Recovered() []Recovered {
	return slices.Clone(reg.recovered)
}

// RecoveredAt returns the recovered segment starting on fixed index idx.
func (reg *Region) RecoveredAt(idx uint32) (Recovered, bool) {
	i, ok := slices.BinarySearchFunc(reg.recovered, idx, func(r Recovered, idx uint32) int {
		return cmp.Compare(r.Index, idx)
	})
	if !ok {
		return Recovered{}, false
	}
	return reg.recovered[i], true
}

// Spans returns the final byte space partition in file order.
func (reg *Region) Spans() []ByteSpace {
	return slices.Clone(reg.spans)
}

// Health returns the slot counts.
func (reg *Region) Health() Health {
	return reg.health
}

// Position returns the region position parsed from its name.
func (reg *Region) Position() (Position, bool) {
	return ParseName(reg.Name)
}
