package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/aul2madb/internal/config"
	"github.com/roach88/aul2madb/internal/ndjson"
	"github.com/roach88/aul2madb/internal/sink"
)

// NDJSONOptions holds flags for the ndjson command.
type NDJSONOptions struct {
	*RootOptions
	Input     string
	Output    string
	BatchSize int
}

// NewNDJSONCommand creates the ndjson command.
func NewNDJSONCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NDJSONOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ndjson",
		Short: "Import a log show ndjson export",
		Long: `Import the output of 'log show --style ndjson' into a UnifiedLogs database.

Run log show with --timezone UTC. The export can be streamed:

  log show --info --debug --style ndjson --timezone UTC | zip logs.zip -
  unzip -q -c logs.zip | aul2madb ndjson -o ./UnifiedLogs.db

Examples:
  aul2madb ndjson -i ./unifiedlogs.ndjson -o ./UnifiedLogs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNDJSON(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "-", "path to an ndjson export (- for stdin)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "path to output database")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", ndjson.DefaultBatchSize, "rows per transaction")

	return cmd
}

func runNDJSON(cmd *cobra.Command, opts *NDJSONOptions) error {
	setupLogging(cmd.ErrOrStderr(), opts.Config.Verbose)

	if _, err := os.Stat(opts.Output); err == nil {
		return WrapExitError(ExitFailure, "invalid arguments", fmt.Errorf("%s: %w", opts.Output, config.ErrOutputExists))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return WrapExitError(ExitFailure, "invalid arguments", err)
	}

	var src io.Reader = cmd.InOrStdin()
	if opts.Input != "-" {
		f, err := os.Open(opts.Input)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to open input", err)
		}
		defer f.Close()
		src = f
	}

	db, err := sink.OpenSQLite(opts.Output)
	if err != nil {
		return WrapExitError(ExitFatal, "failed to create output", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	n, err := ndjson.Import(ctx, src, db, opts.BatchSize)
	if err != nil {
		return WrapExitError(ExitFatal, fmt.Sprintf("import aborted after %d entries", n), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d log entries into %s\n", n, opts.Output)
	return nil
}
