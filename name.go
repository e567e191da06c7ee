// Region file names and chunk coordinates.
//
// Region files are named "<a>.<b>.region.bin". The two numeric fields give
// the region's position on the world grid; the second is X and the first
// is Z. A region holds RegionSize x RegionSize chunks, laid out in the index
// table row by row along X.
package region

import (
	"path/filepath"
	"strconv"
	"strings"
)

// RegionSize is the number of chunks along each side of a region.
const RegionSize = 32

// Suffix is the file name suffix of region files.
const Suffix = ".region.bin"

// Position is a coordinate pair on the region or chunk grid.
type Position struct {
	X int `json:"x" yaml:"x" cbor:"x"`
	Z int `json:"z" yaml:"z" cbor:"z"`
}

// IsRegionFile reports whether name looks like a region file.
func IsRegionFile(name string) bool {
	return strings.HasSuffix(filepath.Base(name), Suffix)
}

// ParseName extracts the region position from a file name. The path is
// ignored. ok is false when the name does not carry two integer fields
// before the suffix.
func ParseName(name string) (Position, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, Suffix) {
		return Position{}, false
	}
	fields := strings.Split(strings.TrimSuffix(base, Suffix), ".")
	if len(fields) < 2 {
		return Position{}, false
	}
	x, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return Position{}, false
	}
	z, err := strconv.Atoi(fields[len(fields)-2])
	if err != nil {
		return Position{}, false
	}
	return Position{X: x, Z: z}, true
}

// Chunk returns the world chunk position of slot in the region at p.
func (p Position) Chunk(slot int) Position {
	return Position{
		X: p.X*RegionSize + slot%RegionSize,
		Z: p.Z*RegionSize + slot/RegionSize,
	}
}
