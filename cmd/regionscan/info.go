package main

import (
	"fmt"

	"github.com/jpl-au/region"
	"github.com/spf13/cobra"
)

var (
	infoEmpty bool
)

func init() {
	cmd := newInfoCmd()
	cmd.Flags().BoolVar(&infoEmpty, "empty", false, "Also list slots with no chunk")
	rootCmd.AddCommand(cmd)
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Report header, health and per-slot state of a region file",
		Long: `The info command decodes one region file, runs recovery and prints
the header fields, chunk health, the state of every slot and the segments
recovery found.

Example:
  regionscan info 0.0.region.bin
  regionscan info 0.0.region.bin --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args[0])
		},
	}
	return cmd
}

func runInfo(cmd *cobra.Command, path string) error {
	f, enc, err := structured()
	if err != nil {
		return err
	}

	reg, err := region.Open(path, readerConfig(cmd))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	rep := reg.Report(region.ReportOptions{Empty: infoEmpty})

	out := cmd.OutOrStdout()
	if enc {
		return region.Encode(out, rep, f)
	}

	printInfo(out, "\nRegion Information:\n")
	printInfo(out, "  File:          %s\n", path)
	if rep.Position != nil {
		printInfo(out, "  Position:      x=%d z=%d\n", rep.Position.X, rep.Position.Z)
	}
	printInfo(out, "  Size:          %s\n", formatSize(rep.Size))
	printInfo(out, "  Version:       %d\n", rep.Header.Version)
	printInfo(out, "  Blob count:    %d\n", rep.Header.BlobCount)
	printInfo(out, "  Segment size:  %d\n", rep.Header.SegmentSize)
	printInfo(out, "  Segment base:  0x%X\n", rep.SegmentBase)

	printInfo(out, "\nHealth:\n")
	printInfo(out, "  Filled:     %d\n", rep.Health.Filled)
	printInfo(out, "  Empty:      %d\n", rep.Health.Empty)
	printInfo(out, "  Corrupted:  %d\n", rep.Health.Corrupted)

	if len(rep.Slots) > 0 {
		printInfo(out, "\nSlots:\n")
	}
	for _, s := range rep.Slots {
		detail := s.Digest
		if s.Error != "" {
			detail += " " + s.Error
		}
		printInfo(out, "  %4d  index %-5d %-15s %s\n", s.Slot, s.Index, s.State, detail)
	}

	if len(rep.Recovered) > 0 {
		printInfo(out, "\nRecovered:\n")
	}
	for _, r := range rep.Recovered {
		note := ""
		switch {
		case r.Slot != nil:
			note = fmt.Sprintf(" -> slot %d", *r.Slot)
		case r.Stale:
			note = " (stale copy)"
		}
		printInfo(out, "  index %-5d 0x%08X  %s%s\n", r.Index, r.Offset, r.Digest, note)
	}
	return nil
}
