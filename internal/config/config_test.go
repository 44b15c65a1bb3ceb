package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aul2madb/internal/sink"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, sink.FormatSQLite, cfg.OutputFormat)
	assert.Equal(t, "./UnifiedLogs.db", cfg.Output)
}

func TestLoad_Environment(t *testing.T) {
	cfg, err := Load(map[string]string{
		"AUL2MADB_INPUT":         "/cases/system_logs.logarchive",
		"AUL2MADB_OUTPUT_FORMAT": "tsv",
		"AUL2MADB_OUTPUT":        "/tmp/out.tsv",
		"AUL2MADB_VERBOSE":       "true",
		"AUL2MADB_METRICS_FILE":  "/tmp/run.prom",
		"OUTPUT":                 "/ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, Config{
		Input:        "/cases/system_logs.logarchive",
		OutputFormat: sink.FormatTSV,
		Output:       "/tmp/out.tsv",
		Verbose:      true,
		MetricsFile:  "/tmp/run.prom",
	}, cfg)
}

func TestLoad_BadBool(t *testing.T) {
	_, err := Load(map[string]string{"AUL2MADB_VERBOSE": "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load environment")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export")
	require.NoError(t, os.Mkdir(input, 0o755))
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"ok", Config{Input: input, OutputFormat: sink.FormatSQLite, Output: filepath.Join(dir, "out.db")}, nil},
		{"bad format", Config{Input: input, OutputFormat: "csv", Output: filepath.Join(dir, "out.db")}, ErrInvalidFormat},
		{"empty input", Config{OutputFormat: sink.FormatTSV, Output: filepath.Join(dir, "out.tsv")}, ErrInputNotDir},
		{"missing input", Config{Input: filepath.Join(dir, "nope"), OutputFormat: sink.FormatTSV, Output: filepath.Join(dir, "out.tsv")}, ErrInputNotDir},
		{"input is a file", Config{Input: file, OutputFormat: sink.FormatTSV, Output: filepath.Join(dir, "out.tsv")}, ErrInputNotDir},
		{"output exists", Config{Input: input, OutputFormat: sink.FormatSQLite, Output: file}, ErrOutputExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_CanonicalizesInput(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	cfg := Config{Input: link, OutputFormat: sink.FormatSQLite, Output: filepath.Join(dir, "out.db")}
	require.NoError(t, cfg.Validate())

	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, want, cfg.Input)
}
