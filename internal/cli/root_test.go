package cli

import (
	"bytes"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aul2madb/internal/config"
	"github.com/roach88/aul2madb/internal/testutil"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	if opts == nil {
		opts = &RootOptions{Config: config.Default()}
	}
	out := &bytes.Buffer{}
	cmd := NewRootCommand(opts)
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func sampleArchive(t *testing.T) *testutil.Archive {
	t.Helper()
	a := testutil.NewExported(t)
	a.AddStandardReferences()
	a.AddTrace("Persist", "0000000000000001.tracev3",
		testutil.Trace().Message(1000, "first").Oversize(3, "carried").Doc())
	a.AddTrace("Special", "0000000000000001.tracev3",
		testutil.Trace().OversizeMessage(2000, 3).Doc())
	return a
}

func countRows(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM UnifiedLogs").Scan(&n))
	return n
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{Config: config.Default()})
	require.NotNil(t, cmd)
	assert.Equal(t, "aul2madb", cmd.Use)
	assert.Contains(t, cmd.Long, "Persist, Special")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{Config: config.Default()})

	for _, name := range []string{"ndjson", "validate"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestFlags(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{Config: config.Default()})

	input := cmd.Flags().Lookup("input")
	require.NotNil(t, input)
	assert.Equal(t, "i", input.Shorthand)

	format := cmd.Flags().Lookup("output-format")
	require.NotNil(t, format)
	assert.Equal(t, "f", format.Shorthand)
	assert.Equal(t, "sqlite", format.DefValue)

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "./UnifiedLogs.db", output.DefValue)

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
}

func TestFlagsTakeEnvironmentDefaults(t *testing.T) {
	cfg, err := config.Load(map[string]string{"AUL2MADB_OUTPUT_FORMAT": "tsv"})
	require.NoError(t, err)

	cmd := NewRootCommand(&RootOptions{Config: cfg})
	assert.Equal(t, "tsv", cmd.Flags().Lookup("output-format").DefValue)
}

func TestConvert_SQLite(t *testing.T) {
	a := sampleArchive(t)
	output := filepath.Join(t.TempDir(), "UnifiedLogs.db")

	stdout, err := execute(t, nil, "--input", a.Root, "--output", output)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Starting Unified Logs converter...")
	assert.Contains(t, stdout, "Processing as exported Unified Logs.")
	assert.Contains(t, stdout, "Parsing: "+filepath.Join(a.TracesDir(), "Persist", "0000000000000001.tracev3"))
	assert.Contains(t, stdout, "Parsed 2 log entries")
	assert.Contains(t, stdout, "Saved results to: "+output)
	assert.Equal(t, 2, countRows(t, output))
}

func TestConvert_TSVWithMetrics(t *testing.T) {
	a := testutil.NewLogArchive(t)
	a.AddStandardReferences()
	a.AddTrace("Persist", "0000000000000001.tracev3",
		testutil.Trace().Message(1000, "kept").OversizeMessage(2000, 77).Doc())

	dir := t.TempDir()
	output := filepath.Join(dir, "out.tsv")
	metricsFile := filepath.Join(dir, "run.prom")

	stdout, err := execute(t, nil, "-i", a.Root, "-f", "tsv", "-o", output, "--metrics-file", metricsFile)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Processing as a logarchive.")
	assert.Contains(t, stdout, "Parsed 1 log entries")
	assert.Contains(t, stdout, "1 entries could not be resolved")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "File\tDecompFilePos\tContinuousTime\tTimeUtc\t"))
	assert.True(t, strings.HasSuffix(lines[1], "\tkept"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `aul2madb_entries_dropped{format="tsv"} 1`)
}

func TestConvert_InputNotDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	output := filepath.Join(dir, "out.db")

	_, err := execute(t, nil, "--input", file, "--output", output)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, config.ErrInputNotDir)

	_, statErr := os.Stat(output)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "output must not be created")
}

func TestConvert_OutputExistsIsLeftUntouched(t *testing.T) {
	a := sampleArchive(t)
	output := filepath.Join(t.TempDir(), "UnifiedLogs.db")
	require.NoError(t, os.WriteFile(output, []byte("previous run"), 0o644))

	stdout, err := execute(t, nil, "--input", a.Root, "--output", output)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, config.ErrOutputExists)
	assert.NotContains(t, stdout, "Parsing:")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous run", string(data))
}

func TestConvert_MissingInputFlag(t *testing.T) {
	_, err := execute(t, nil, "--output", filepath.Join(t.TempDir(), "out.db"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), `"input" not set`)
}

func TestConvert_InvalidFormat(t *testing.T) {
	a := sampleArchive(t)
	_, err := execute(t, nil, "-i", a.Root, "-f", "json", "-o", filepath.Join(t.TempDir(), "out.json"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, config.ErrInvalidFormat)
}

func TestConvert_UnknownFlag(t *testing.T) {
	_, err := execute(t, nil, "--bogus")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestConvert_EnvironmentError(t *testing.T) {
	opts := &RootOptions{Config: config.Default(), envErr: errors.New("bad AUL2MADB_VERBOSE")}
	_, err := execute(t, opts, "-i", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestConvert_MissingReferencesIsFatal(t *testing.T) {
	a := sampleArchive(t)
	require.NoError(t, os.RemoveAll(filepath.Join(a.Root, "uuidtext")))

	_, err := execute(t, nil, "-i", a.Root, "-o", filepath.Join(t.TempDir(), "out.db"))
	require.Error(t, err)
	assert.Equal(t, ExitFatal, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load references")
}

func TestConvert_CorruptTraceIsFatal(t *testing.T) {
	a := sampleArchive(t)
	bad := filepath.Join(a.TracesDir(), "Signpost", "0000000000000001.tracev3")
	require.NoError(t, os.MkdirAll(filepath.Dir(bad), 0o755))
	require.NoError(t, os.WriteFile(bad, []byte("oversize: nope\n"), 0o644))

	_, err := execute(t, nil, "-i", a.Root, "-o", filepath.Join(t.TempDir(), "out.db"))
	require.Error(t, err)
	assert.Equal(t, ExitFatal, GetExitCode(err))
	assert.Contains(t, err.Error(), "conversion aborted")
}
