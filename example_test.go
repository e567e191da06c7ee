package region_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jpl-au/region"
	"github.com/jpl-au/region/internal/regiontest"
)

// writeExample writes a small damaged region: slot 0 lost its index entry
// (it points at a blank page) but its chunk survives on page 1, slot 1 is
// intact, and slot 2 is gone for good.
func writeExample(dir string) string {
	f := regiontest.New(4, 4096).
		Write(1, regiontest.Chunk(1, 0)).
		Put(1, 2, regiontest.Chunk(2, 0)).
		Put(2, 5, regiontest.Header(10, 20))
	f.Index[0] = 4
	f.Pages = 5
	path := filepath.Join(dir, "0.0.region.bin")
	if err := os.WriteFile(path, f.Bytes(), 0o644); err != nil {
		log.Fatal(err)
	}
	return path
}

func Example() {
	dir, _ := os.MkdirTemp("", "region-example")
	defer os.RemoveAll(dir)
	path := writeExample(dir)

	reg, err := region.Open(path, region.Config{})
	if err != nil {
		log.Fatal(err)
	}

	for _, slot := range reg.Slots() {
		fmt.Println(slot.Slot, slot.State)
	}
	fmt.Printf("%+v\n", reg.Health())
	// Output:
	// 0 RecoveredValid
	// 1 DeclaredValid
	// 2 StillCorrupted
	// 3 Empty
	// {Empty:1 Filled:2 Corrupted:1}
}

func ExampleRegion_Spans() {
	dir, _ := os.MkdirTemp("", "region-example")
	defer os.RemoveAll(dir)

	reg, err := region.Open(writeExample(dir), region.Config{})
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range reg.Spans() {
		if s.Kind != region.PagePadding {
			fmt.Println(s.Kind, s.Index)
		}
	}
	// Output:
	// RegionHeader 0
	// RecoveredIndexSegment 1
	// Segment 2
	// CorruptZstdHeader 3
	// CorruptZstdHeader 4
	// CorruptSegmentHeader 5
}

func ExampleScanDir() {
	dir, _ := os.MkdirTemp("", "region-example")
	defer os.RemoveAll(dir)
	writeExample(dir)

	scan, err := region.ScanDir(context.Background(), dir, region.ScanOptions{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(scan.Summary.Files, scan.Summary.Recovered, scan.Summary.Corrupted)
	// Output: 1 1 [0.0.region.bin]
}
