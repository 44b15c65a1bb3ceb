package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestCreateTSV_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	s, err := CreateTSV(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	records := readTSV(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "TimeUtc", records[0][3])
}

func TestCreateTSV_RefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	_, err := CreateTSV(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestTSV_WriteFlushesEachBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	s, err := CreateTSV(path)
	require.NoError(t, err)
	defer s.Close()

	entries := sampleEntries(2)
	entries[1].Message = "tab\there"
	require.NoError(t, s.Write(context.Background(), entries))

	// Rows are on disk before Close.
	records := readTSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, "1000", records[2][2])
	assert.Equal(t, "tab\there", records[2][len(Columns)-1])
	assert.Equal(t, "B2C3D4E5-F607-1829-3A4B-5C6D7E8F90A1", records[1][19])
}

func TestTSV_CloseIdempotent(t *testing.T) {
	s, err := CreateTSV(filepath.Join(t.TempDir(), "out.tsv"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestOpen_SelectsFormat(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(FormatSQLite, filepath.Join(dir, "out.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	s, err = Open(FormatTSV, filepath.Join(dir, "out.tsv"))
	require.NoError(t, err)
	assert.IsType(t, &TSV{}, s)
	require.NoError(t, s.Close())

	_, err = Open("json", filepath.Join(dir, "out.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported output format "json"`)
}
