package region

import (
	"testing"
)

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if back != k {
			t.Errorf("round trip %v -> %s -> %v", k, text, back)
		}
	}

	var k Kind
	if err := k.UnmarshalText([]byte("Segment")); err != nil || k != KindSegment {
		t.Errorf("parse Segment = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("pagepadding")); err != nil || k != PagePadding {
		t.Errorf("case-insensitive parse = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("Nope")); err == nil {
		t.Error("unknown kind parsed")
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("unknown kind String = %q", got)
	}
}

func TestByteSpace(t *testing.T) {
	b := ByteSpace{First: 0x10, Last: 0x1F, Kind: KindSegment, Index: 3}

	if b.Len() != 16 {
		t.Errorf("Len = %d", b.Len())
	}
	if !b.Contains(0x10, 0x1F) || !b.Contains(0x12, 0x14) || b.Contains(0x0F, 0x12) || b.Contains(0x1E, 0x20) {
		t.Error("Contains")
	}
	if !b.Overlaps(0x1F, 0x30) || !b.Overlaps(0, 0x10) || b.Overlaps(0x20, 0x30) {
		t.Error("Overlaps")
	}
	if got, want := b.String(), "[Segment] [0x10-0x1F] {0x10} (3)"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
