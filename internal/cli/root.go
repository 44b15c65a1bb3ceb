package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/aul2madb/internal/archive"
	"github.com/roach88/aul2madb/internal/config"
	"github.com/roach88/aul2madb/internal/metrics"
	"github.com/roach88/aul2madb/internal/sink"
	"github.com/roach88/aul2madb/internal/unifiedlog"
	"github.com/roach88/aul2madb/internal/unifiedlog/decoded"
)

// Version is reported by --version.
var Version = "0.1.0"

// RootOptions holds the configuration shared by all commands.
type RootOptions struct {
	Config config.Config

	// Library allows overriding the log decoding library (for testing).
	// If nil, defaults to the decoded trace library.
	Library unifiedlog.Library

	envErr error
}

// NewRootOptions returns options seeded from the defaults and the
// AUL2MADB_* environment. An environment error is reported when a command runs.
func NewRootOptions() *RootOptions {
	cfg, err := config.Load(nil)
	return &RootOptions{Config: cfg, envErr: err}
}

// NewRootCommand creates the aul2madb command. A nil opts is replaced by
// NewRootOptions().
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts == nil {
		opts = NewRootOptions()
	}

	cmd := &cobra.Command{
		Use:   "aul2madb",
		Short: "Convert Apple Unified Logs to SQLite or TSV",
		Long: `Convert Apple Unified Logs into a UnifiedLogs table.

The input is either a .logarchive bundle or a directory holding an export
of /private/var/db/diagnostics and /private/var/db/uuidtext (as diagnostics/
and uuidtext/). Trace files are processed in the order Persist, Special,
Signpost, HighVolume, logdata.LiveData.tracev3. Entries whose oversize data
lives in another file are retried once every file has been read; entries
that still cannot be resolved are dropped and counted in the summary.

Exit codes:
  0 - Conversion finished
  1 - Input is not a directory, output already exists, or bad flags
  2 - Conversion aborted (references, output or trace file failure)

Environment:
  AUL2MADB_INPUT, AUL2MADB_OUTPUT_FORMAT, AUL2MADB_OUTPUT,
  AUL2MADB_VERBOSE, AUL2MADB_METRICS_FILE provide defaults for the flags.

Examples:
  aul2madb --input ./system_logs.logarchive
  aul2madb -i ./export -f tsv -o ./UnifiedLogs.tsv`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Config.Input, "input", "i", opts.Config.Input, "path to a logarchive or a directory that contains exported Unified Logs (required)")
	flags.StringVarP((*string)(&opts.Config.OutputFormat), "output-format", "f", string(opts.Config.OutputFormat), "output format (sqlite|tsv)")
	flags.StringVarP(&opts.Config.Output, "output", "o", opts.Config.Output, "path to output file")
	flags.StringVar(&opts.Config.MetricsFile, "metrics-file", opts.Config.MetricsFile, "write run statistics in Prometheus text format to this file")
	cmd.PersistentFlags().BoolVarP(&opts.Config.Verbose, "verbose", "v", opts.Config.Verbose, "verbose output")

	cmd.AddCommand(NewNDJSONCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// setupLogging installs the default slog handler for the run.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func runConvert(cmd *cobra.Command, opts *RootOptions) error {
	if opts.envErr != nil {
		return WrapExitError(ExitFailure, "invalid environment", opts.envErr)
	}
	cfg := opts.Config
	if cfg.Input == "" {
		return NewExitError(ExitFailure, `required flag(s) "input" not set`)
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitFailure, "invalid arguments", err)
	}

	setupLogging(cmd.ErrOrStderr(), cfg.Verbose)
	out := cmd.OutOrStdout()

	lib := opts.Library
	if lib == nil {
		d, err := decoded.New()
		if err != nil {
			return WrapExitError(ExitFatal, "failed to initialise log library", err)
		}
		lib = d
	}

	fmt.Fprintln(out, "Starting Unified Logs converter...")

	snk, err := sink.Open(cfg.OutputFormat, cfg.Output)
	if err != nil {
		return WrapExitError(ExitFatal, "failed to create output", err)
	}
	closed := false
	defer func() {
		if closed {
			return
		}
		if err := snk.Close(); err != nil {
			slog.Error("error closing output", "error", err)
		}
	}()

	layout := archive.DetectLayout(cfg.Input)
	if layout.Kind == archive.LayoutArchive {
		fmt.Fprintln(out, "Processing as a logarchive.")
	} else {
		fmt.Fprintln(out, "Processing as exported Unified Logs.")
	}

	refs, err := archive.LoadReferences(lib, layout)
	if err != nil {
		return WrapExitError(ExitFatal, "failed to load references", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	seq := archive.NewSequencer(lib, refs, snk, newProgress(out, cfg.Verbose))
	stats, err := seq.Run(ctx, layout.Traces)
	if err != nil {
		return WrapExitError(ExitFatal, "conversion aborted", err)
	}

	closed = true
	if err := snk.Close(); err != nil {
		return WrapExitError(ExitFatal, "failed to close output", err)
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, stats, string(cfg.OutputFormat)); err != nil {
			return WrapExitError(ExitFatal, "failed to write metrics", err)
		}
	}

	printSummary(out, stats, cfg.Output)
	return nil
}

func printSummary(w io.Writer, stats archive.Stats, output string) {
	fmt.Fprintf(w, "Parsed %d log entries\n", stats.Resolved)
	if stats.FilesSkipped > 0 {
		fmt.Fprintf(w, "%d trace files disappeared before they could be parsed\n", stats.FilesSkipped)
	}
	if stats.Dropped > 0 {
		// Expected when the file holding the oversize data rotated out
		// before the logs were collected.
		fmt.Fprintf(w, "%d entries could not be resolved and were left out\n", stats.Dropped)
	}
	fmt.Fprintf(w, "\nFinished parsing Unified Log data. Saved results to: %s\n", output)
}
