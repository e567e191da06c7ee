package region

import (
	"testing"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		want Position
		ok   bool
	}{
		{"0.0.region.bin", Position{0, 0}, true},
		{"3.-2.region.bin", Position{X: -2, Z: 3}, true},
		{"/worlds/default/chunks/-1.7.region.bin", Position{X: 7, Z: -1}, true},
		{"backup.4.5.region.bin", Position{X: 5, Z: 4}, true},
		{"5.region.bin", Position{}, false},
		{"a.b.region.bin", Position{}, false},
		{"1.x.region.bin", Position{}, false},
		{"1.2.region", Position{}, false},
		{"1.2.region.bin.bak", Position{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseName(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseName(%q) = %+v, %v; want %+v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsRegionFile(t *testing.T) {
	if !IsRegionFile("dir/1.2.region.bin") {
		t.Error("region file not recognised")
	}
	for _, name := range []string{"1.2.region.bin.tmp", "level.dat", "region.bin.d/x"} {
		if IsRegionFile(name) {
			t.Errorf("IsRegionFile(%q) = true", name)
		}
	}
}

func TestChunkPosition(t *testing.T) {
	p := Position{X: 1, Z: -1}
	tests := []struct {
		slot int
		want Position
	}{
		{0, Position{X: 32, Z: -32}},
		{31, Position{X: 63, Z: -32}},
		{32, Position{X: 32, Z: -31}},
		{33, Position{X: 33, Z: -31}},
		{1023, Position{X: 63, Z: -1}},
	}
	for _, tt := range tests {
		if got := p.Chunk(tt.slot); got != tt.want {
			t.Errorf("Chunk(%d) = %+v, want %+v", tt.slot, got, tt.want)
		}
	}
}
