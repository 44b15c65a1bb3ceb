package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidCollection(t *testing.T) {
	a := sampleArchive(t)

	stdout, err := execute(t, nil, "validate", "-i", a.Root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ 2 trace files valid (2 entries, exported layout)")
}

func TestValidate_ReportsBrokenFiles(t *testing.T) {
	a := sampleArchive(t)
	bad := filepath.Join(a.TracesDir(), "HighVolume", "0000000000000001.tracev3")
	require.NoError(t, os.MkdirAll(filepath.Dir(bad), 0o755))
	require.NoError(t, os.WriteFile(bad, []byte("catalogs:\n  - entries: [{process: -1}]\n"), 0o644))

	stdout, err := execute(t, nil, "validate", "-i", a.Root)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ Validation failed")
	assert.Contains(t, stdout, bad)
}

func TestValidate_JSON(t *testing.T) {
	a := sampleArchive(t)

	stdout, err := execute(t, nil, "validate", "-i", a.Root, "--json")
	require.NoError(t, err)

	var result ValidationResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, "exported", result.Layout)
	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 2, result.Entries)
	assert.Empty(t, result.Errors)
}

func TestValidate_NotADirectory(t *testing.T) {
	_, err := execute(t, nil, "validate", "-i", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidate_MissingReferences(t *testing.T) {
	a := sampleArchive(t)
	require.NoError(t, os.RemoveAll(filepath.Join(a.Root, "uuidtext", "dsc")))

	_, err := execute(t, nil, "validate", "-i", a.Root)
	require.Error(t, err)
	assert.Equal(t, ExitFatal, GetExitCode(err))
}
