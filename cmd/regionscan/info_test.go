package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestInfoCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "text",
			wantContain: []string{
				"Region Information:",
				"Position:      x=0 z=0",
				"Blob count:    4",
				"Segment size:  256",
				"Segment base:  0x30",
				"RecoveredValid",
				"StillCorrupted",
				"-> slot 0",
			},
			wantNotContain: []string{"Empty          "},
		},
		{
			name:        "with empty slots",
			args:        []string{"--empty"},
			wantContain: []string{"   3  index 0     Empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, path := testRegion(t)
			out, err := runCommand(t, append([]string{"info", path}, tt.args...)...)
			require.NoError(t, err)
			requireContains(t, out, tt.wantContain...)
			for _, w := range tt.wantNotContain {
				require.NotContains(t, out, w)
			}
		})
	}
}

func TestInfoCommandJSON(t *testing.T) {
	_, path := testRegion(t)

	out, err := runCommand(t, "info", path, "--format", "json")
	require.NoError(t, err)

	var rep struct {
		Header struct {
			BlobCount int `json:"blob_count"`
		} `json:"header"`
		Slots []struct {
			Slot  int    `json:"slot"`
			State string `json:"state"`
			Error string `json:"error"`
		} `json:"slots"`
		Recovered []struct {
			Index int  `json:"index"`
			Slot  *int `json:"slot"`
		} `json:"recovered"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Equal(t, 4, rep.Header.BlobCount)
	require.Len(t, rep.Slots, 3)
	require.Equal(t, "RecoveredValid", rep.Slots[0].State)
	require.NotEmpty(t, rep.Slots[0].Error)
	require.Len(t, rep.Recovered, 1)
	require.NotNil(t, rep.Recovered[0].Slot)
	require.Equal(t, 0, *rep.Recovered[0].Slot)
}

func TestInfoCommandCBOR(t *testing.T) {
	_, path := testRegion(t)

	out, err := runCommand(t, "info", path, "--format", "cbor")
	require.NoError(t, err)

	var rep map[string]any
	require.NoError(t, cbor.NewDecoder(bytes.NewReader([]byte(out))).Decode(&rep))
	require.Equal(t, "0.0.region.bin", filepath.Base(rep["name"].(string)))
}

func TestInfoCommandErrors(t *testing.T) {
	dir, _ := testRegion(t)

	_, err := runCommand(t, "info", filepath.Join(dir, "notes.txt"))
	require.ErrorContains(t, err, "not a region file")

	_, err = runCommand(t, "info", filepath.Join(dir, "missing.region.bin"))
	require.Error(t, err)
}

func TestInfoCommandVerbose(t *testing.T) {
	_, path := testRegion(t)

	resetFlags()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"info", path, "--verbose"})
	require.NoError(t, rootCmd.Execute())
	require.Contains(t, errOut.String(), "chunk is corrupted")
	require.Contains(t, errOut.String(), "recovery finished")
}
