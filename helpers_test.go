package region

import (
	"bytes"
	"slices"
	"testing"
)

// readBytes decodes data as a region file, failing the test on error.
func readBytes(t *testing.T, data []byte, config Config) *Region {
	t.Helper()
	reg, err := Read(bytes.NewReader(data), int64(len(data)), "0.0.region.bin", config)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return reg
}

// checkSpans compares the final partition against want and also checks
// that it tiles the file.
func checkSpans(t *testing.T, reg *Region, want []ByteSpace) {
	t.Helper()
	got := reg.Spans()
	if !slices.Equal(got, want) {
		t.Errorf("spans mismatch\n got: %v\nwant: %v", got, want)
	}
	if !Covers(got, uint64(reg.Size)) {
		t.Errorf("spans do not cover %d bytes: %v", reg.Size, got)
	}
}

func checkStates(t *testing.T, reg *Region, want ...State) {
	t.Helper()
	slots := reg.Slots()
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d", len(slots), len(want))
	}
	for i, s := range slots {
		if s.State != want[i] {
			t.Errorf("slot %d: state %v, want %v (err %v)", i, s.State, want[i], s.Err)
		}
	}
}

// end returns the last byte of a span of n bytes starting at first.
func end(first uint64, n int) uint64 {
	return first + uint64(n) - 1
}
