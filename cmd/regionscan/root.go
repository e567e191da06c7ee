package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jpl-au/region"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	outFormat string
	noColor   bool
	noLock    bool
)

var rootCmd = &cobra.Command{
	Use:   "regionscan",
	Short: "Inspect and recover Hytale region files",
	Long: `regionscan decodes Hytale region files (*.region.bin), reports which
chunks are intact, which were recovered from pages the index table lost
track of, and which are gone. It never modifies the files it reads.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every corrupted chunk and recovery pass")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().
		StringVarP(&outFormat, "format", "f", "text", "Output format: text, json, yaml or cbor")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noLock, "no-lock", false, "Do not take a shared lock on region files")
}

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the diagnostic logger. Library warnings only show with
// --verbose; --quiet keeps errors alone.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelError
	if verbose && !quiet {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// readerConfig maps the global flags onto a reader configuration.
func readerConfig(cmd *cobra.Command) region.Config {
	return region.Config{
		Logger: newLogger(cmd.ErrOrStderr()),
		NoLock: noLock,
	}
}

// structured returns the encoding for --format, ok false for plain text.
func structured() (region.Format, bool, error) {
	if outFormat == "" || outFormat == "text" {
		return "", false, nil
	}
	f, err := region.ParseFormat(outFormat)
	if err != nil {
		return "", false, err
	}
	return f, true, nil
}

// printInfo prints a text line unless in quiet mode
func printInfo(w io.Writer, format string, args ...any) {
	if !quiet {
		fmt.Fprintf(w, format, args...)
	}
}

// formatSize renders a byte count for humans.
func formatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
