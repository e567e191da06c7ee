package main

import (
	"bytes"
	"testing"

	"github.com/jpl-au/region/internal/regiontest"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every package-level flag to its default between
// command runs.
func resetFlags() {
	verbose = false
	quiet = false
	outFormat = "text"
	noColor = false
	noLock = false
	scanJobs = 0
	infoEmpty = false
	spansKinds = nil
	dumpRecovered = false
}

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// testRegion writes a 4-slot region with one recovered, one intact, one
// corrupted and one empty slot, plus a healthy neighbour and a non-region
// file, and returns the directory and the damaged file's path.
func testRegion(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	f := regiontest.New(4, 256).
		Write(1, regiontest.Chunk(1, 0)).
		Put(1, 2, regiontest.Chunk(2, 0)).
		Put(2, 4, regiontest.Header(10, 20))
	f.Index[0] = 3
	f.Pages = 4
	path := regiontest.WriteFile(t, dir, "0.0.region.bin", f.Bytes())

	healthy := regiontest.New(1, 256).Put(0, 1, regiontest.Chunk(3, 0))
	regiontest.WriteFile(t, dir, "0.1.region.bin", healthy.Bytes())
	regiontest.WriteFile(t, dir, "notes.txt", []byte("not a region"))
	return dir, path
}

func requireContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		require.Contains(t, output, w)
	}
}
