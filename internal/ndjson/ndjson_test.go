package ndjson

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aul2madb/internal/sink"
)

const sampleRecord = `{"timestamp":"2023-01-01 12:00:00.123456+0000","threadID":77,"messageType":"Default",` +
	`"activityIdentifier":5,"parentActivityIdentifier":4,"processID":42,` +
	`"processImagePath":"/usr/libexec/logd","senderImagePath":"/usr/lib/libSystem.B.dylib",` +
	`"subsystem":"com.example","category":"net",` +
	`"senderImageUUID":"C3D4E5F6-0718-293A-4B5C-6D7E8F90A1B2",` +
	`"processImageUUID":"B2C3D4E5-F607-1829-3A4B-5C6D7E8F90A1","eventMessage":"hello"}`

func TestRecord_Row(t *testing.T) {
	rec, err := NewReader(strings.NewReader(sampleRecord)).Next()
	require.NoError(t, err)

	assert.Equal(t, sink.Row{
		ContinuousTime:   "0",
		TimeUtc:          "2023-01-01T12:00:00.123456Z",
		Thread:           77,
		Type:             "Default",
		ActivityID:       5,
		ParentActivityID: 4,
		ProcessID:        42,
		ProcessName:      "logd",
		SenderName:       "libSystem.B.dylib",
		Subsystem:        "com.example",
		Category:         "net",
		SenderUUID:       "C3D4E5F6-0718-293A-4B5C-6D7E8F90A1B2",
		ProcessImageUUID: "B2C3D4E5-F607-1829-3A4B-5C6D7E8F90A1",
		SenderImagePath:  "/usr/lib/libSystem.B.dylib",
		ProcessImagePath: "/usr/libexec/logd",
		Message:          "hello",
	}, rec.Row())
}

func TestConvertTimestamp(t *testing.T) {
	assert.Equal(t, "2023-01-01T12:00:00.000001Z", convertTimestamp("2023-01-01 12:00:00.000001+0000"))
	assert.Equal(t, "2023-01-01T10:00:00.000000Z", convertTimestamp("2023-01-01 12:00:00.000000+0200"))
	assert.Equal(t, "yesterday", convertTimestamp("yesterday+0000"))
	assert.Equal(t, "", convertTimestamp(""))
}

func TestReader_Stream(t *testing.T) {
	r := NewReader(strings.NewReader(sampleRecord + "\n" + sampleRecord + "\n"))

	for i := 0; i < 2; i++ {
		_, err := r.Next()
		require.NoError(t, err)
	}
	_, err := r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_BadRecord(t *testing.T) {
	r := NewReader(strings.NewReader(sampleRecord + "\n{\"threadID\": \"x\"}\n"))

	_, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}

func TestImport_Batches(t *testing.T) {
	db, err := sink.OpenSQLite(filepath.Join(t.TempDir(), "out.db"))
	require.NoError(t, err)
	defer db.Close()

	input := strings.Repeat(sampleRecord+"\n", 5)
	n, err := Import(context.Background(), strings.NewReader(input), db, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	var count int
	require.NoError(t, db.DB().QueryRow("SELECT COUNT(*) FROM UnifiedLogs").Scan(&count))
	assert.Equal(t, 5, count)

	var ts, parent string
	require.NoError(t, db.DB().QueryRow("SELECT TimeUtc, ParentActivityID FROM UnifiedLogs LIMIT 1").Scan(&ts, &parent))
	assert.Equal(t, "2023-01-01T12:00:00.123456Z", ts)
	assert.Equal(t, "4", parent)
}

func TestImport_EmptyInput(t *testing.T) {
	db, err := sink.OpenSQLite(filepath.Join(t.TempDir(), "out.db"))
	require.NoError(t, err)
	defer db.Close()

	n, err := Import(context.Background(), strings.NewReader(""), db, 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImport_StopsAtBadRecord(t *testing.T) {
	db, err := sink.OpenSQLite(filepath.Join(t.TempDir(), "out.db"))
	require.NoError(t, err)
	defer db.Close()

	input := sampleRecord + "\n" + sampleRecord + "\nnot json\n"
	n, err := Import(context.Background(), strings.NewReader(input), db, 1)
	require.Error(t, err)
	assert.Equal(t, 2, n)
}
