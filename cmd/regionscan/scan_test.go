package main

import (
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/jpl-au/region"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScanCommand(t *testing.T) {
	dir, _ := testRegion(t)

	out, err := runCommand(t, "scan", dir)
	require.NoError(t, err)
	requireContains(t, out,
		"Files:      2 (0 unreadable)",
		"Filled:     3",
		"Corrupted:  1",
		"Recovered:  1 segments",
		"Regions with corrupted chunks:",
		"0.0.region.bin",
	)
	require.NotContains(t, out, "notes.txt")
}

func TestScanCommandJSON(t *testing.T) {
	dir, _ := testRegion(t)

	out, err := runCommand(t, "scan", dir, "--format", "json", "--jobs", "1")
	require.NoError(t, err)

	var sum region.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	require.Equal(t, 2, sum.Files)
	require.Equal(t, region.Health{Empty: 1, Filled: 3, Corrupted: 1}, sum.Health)
	require.Equal(t, []string{"0.0.region.bin"}, sum.Corrupted)
}

func TestScanCommandYAML(t *testing.T) {
	dir, _ := testRegion(t)

	out, err := runCommand(t, "scan", dir, "-f", "yaml")
	require.NoError(t, err)

	var sum region.Summary
	require.NoError(t, yaml.Unmarshal([]byte(out), &sum))
	require.Equal(t, 1, sum.Recovered)
}

func TestScanCommandErrors(t *testing.T) {
	_, err := runCommand(t, "scan", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	dir, _ := testRegion(t)
	_, err = runCommand(t, "scan", dir, "--format", "xml")
	require.ErrorContains(t, err, "unknown report format")

	_, err = runCommand(t, "scan")
	require.Error(t, err)
}

func TestScanCommandQuiet(t *testing.T) {
	dir, _ := testRegion(t)

	out, err := runCommand(t, "scan", dir, "--quiet")
	require.NoError(t, err)
	require.Empty(t, out)
}
