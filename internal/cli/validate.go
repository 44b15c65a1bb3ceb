package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/aul2madb/internal/archive"
	"github.com/roach88/aul2madb/internal/unifiedlog/decoded"
)

// FileError is a trace file that failed to parse.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool        `json:"valid"`
	Layout  string      `json:"layout"`
	Files   int         `json:"files"`
	Entries int         `json:"entries"`
	Errors  []FileError `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Input string
	JSON  bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a collection without converting it",
		Long: `Load the references of a collection and parse every trace file without
resolving or writing anything.

Reference failures abort the check. Trace files that fail to parse are
listed and the command exits with status 1.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", rootOpts.Config.Input, "path to a logarchive or a directory that contains exported Unified Logs")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the result as JSON")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	setupLogging(cmd.ErrOrStderr(), opts.Config.Verbose)
	out := cmd.OutOrStdout()

	if opts.Input == "" {
		return NewExitError(ExitFailure, `required flag(s) "input" not set`)
	}
	if info, err := os.Stat(opts.Input); err != nil || !info.IsDir() {
		return NewExitError(ExitFailure, fmt.Sprintf("%s is not a logarchive or a directory", opts.Input))
	}

	lib := opts.Library
	if lib == nil {
		d, err := decoded.New()
		if err != nil {
			return WrapExitError(ExitFatal, "failed to initialise log library", err)
		}
		lib = d
	}

	layout := archive.DetectLayout(opts.Input)
	if _, err := archive.LoadReferences(lib, layout); err != nil {
		return WrapExitError(ExitFatal, "failed to load references", err)
	}

	files, err := archive.TraceFiles(layout.Traces)
	if err != nil {
		return WrapExitError(ExitFatal, "failed to list trace files", err)
	}

	result := ValidationResult{Layout: layout.Kind.String()}
	for _, path := range files {
		data, err := lib.ParseLog(path)
		if err != nil {
			result.Errors = append(result.Errors, FileError{Path: path, Message: err.Error()})
			continue
		}
		result.Files++
		result.Entries += data.EntryCount()
	}
	result.Valid = len(result.Errors) == 0

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printValidation(cmd, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}
	return nil
}

func printValidation(cmd *cobra.Command, result ValidationResult) {
	out := cmd.OutOrStdout()
	if result.Valid {
		fmt.Fprintf(out, "✓ %d trace files valid (%d entries, %s layout)\n", result.Files, result.Entries, result.Layout)
		return
	}

	fmt.Fprintln(out, "✗ Validation failed")
	fmt.Fprintln(out)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "%s\n  %s\n\n", e.Path, e.Message)
	}
}
