package main

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/jpl-au/region"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	spansKinds []string
)

func init() {
	cmd := newSpansCmd()
	cmd.Flags().StringSliceVarP(&spansKinds, "kind", "k", nil, "Only show spans of these kinds")
	rootCmd.AddCommand(cmd)
}

func newSpansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spans <file>",
		Short: "Print the byte space map of a region file",
		Long: `The spans command prints how every byte of a region file was
classified: header, segments, padding, recovered segments and the two
kinds of corrupt pages. Offsets and lengths are in hex.

Example:
  regionscan spans 0.0.region.bin
  regionscan spans 0.0.region.bin --kind CorruptZstdHeader,CorruptSegmentHeader`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpans(cmd, args[0])
		},
	}
	return cmd
}

var kindColors = map[region.Kind]lipgloss.Color{
	region.Empty:                 "7",
	region.KindSegment:           "2",
	region.RegionHeader:          "4",
	region.PagePadding:           "8",
	region.RecoveredIndexSegment: "6",
	region.CorruptZstdHeader:     "1",
	region.CorruptSegmentHeader:  "3",
}

func runSpans(cmd *cobra.Command, path string) error {
	f, enc, err := structured()
	if err != nil {
		return err
	}

	var want []region.Kind
	for _, name := range spansKinds {
		var k region.Kind
		if err := k.UnmarshalText([]byte(name)); err != nil {
			return err
		}
		want = append(want, k)
	}

	reg, err := region.Open(path, readerConfig(cmd))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	spans := reg.Spans()
	if len(want) > 0 {
		spans = slices.DeleteFunc(spans, func(s region.ByteSpace) bool {
			return !slices.Contains(want, s.Kind)
		})
	}

	out := cmd.OutOrStdout()
	if enc {
		return region.Encode(out, spans, f)
	}

	renderer := lipgloss.NewRenderer(out)
	if noColor {
		renderer.SetColorProfile(termenv.Ascii)
	}
	styles := make(map[region.Kind]lipgloss.Style, len(kindColors))
	for k, c := range kindColors {
		styles[k] = renderer.NewStyle().Foreground(c)
	}

	count := make(map[region.Kind]int)
	size := make(map[region.Kind]uint64)
	for _, s := range spans {
		printInfo(out, "%s\n", styles[s.Kind].Render(s.String()))
		count[s.Kind]++
		size[s.Kind] += s.Len()
	}

	printInfo(out, "\n")
	for _, k := range region.Kinds() {
		if count[k] == 0 {
			continue
		}
		printInfo(out, "  %-22s %6d spans %10d bytes\n", styles[k].Render(k.String()), count[k], size[k])
	}
	return nil
}
