package main

import (
	"fmt"
	"strconv"

	"github.com/jpl-au/region"
	"github.com/spf13/cobra"
)

var (
	dumpRecovered bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().
		BoolVar(&dumpRecovered, "recovered", false, "Treat the number as a fixed index into the recovered segments")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file> <slot>",
		Short: "Print one chunk document as extended JSON",
		Long: `The dump command prints the BSON document of one chunk as relaxed
MongoDB extended JSON. By default the number is a slot in the index table;
slots recovery repaired print the recovered copy. With --recovered it is
the fixed page index of a segment recovery found, attributed or not.

Example:
  regionscan dump 0.0.region.bin 17
  regionscan dump 0.0.region.bin 3 --recovered`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args[0], args[1])
		},
	}
	return cmd
}

func runDump(cmd *cobra.Command, path, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid slot %q", arg)
	}

	reg, err := region.Open(path, readerConfig(cmd))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var seg *region.Segment
	if dumpRecovered {
		rec, ok := reg.RecoveredAt(uint32(n))
		if !ok {
			return fmt.Errorf("no recovered segment at fixed index %d", n)
		}
		seg = rec.Segment
	} else {
		slot, ok := reg.Slot(n)
		if !ok {
			return fmt.Errorf("slot %d out of range (region has %d slots)", n, reg.BlobCount)
		}
		seg = slot.Segment()
		if seg == nil || seg.Empty {
			return fmt.Errorf("slot %d has no document (%s)", n, slot.State)
		}
	}

	doc, err := region.ExtJSON(seg.Raw())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(doc))
	return nil
}
