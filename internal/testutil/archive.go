package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aul2madb/internal/unifiedlog/decoded"
)

// Fixed identifiers used by fixtures.
const (
	BootUUID    = "A1B2C3D4E5F60718293A4B5C6D7E8F90"
	ProcessUUID = "B2C3D4E5F60718293A4B5C6D7E8F90A1"
	LibraryUUID = "C3D4E5F60718293A4B5C6D7E8F90A1B2"
	SharedUUID  = "D4E5F60718293A4B5C6D7E8F90A1B2C3"

	ProcessPath = "/usr/libexec/logd"
	LibraryPath = "/usr/lib/libSystem.B.dylib"

	// BootWallTime is 2023-01-01T00:00:00Z in nanoseconds.
	BootWallTime int64 = 1672531200000000000

	// FormatOffset points at "%s" in the library string table.
	FormatOffset uint64 = 16
	// LiteralOffset points at "static message" in the library string table.
	LiteralOffset uint64 = 32
)

// Archive builds a decoded Unified Logs collection on disk.
type Archive struct {
	t    testing.TB
	Root string

	strings  string
	shared   string
	timesync string
	traces   string
}

// NewExported creates an empty exported-layout collection
// (diagnostics/ + uuidtext/) in a temporary directory.
func NewExported(t testing.TB) *Archive {
	t.Helper()
	root := filepath.Join(t.TempDir(), "export")
	a := &Archive{
		t:        t,
		Root:     root,
		strings:  filepath.Join(root, "uuidtext"),
		shared:   filepath.Join(root, "uuidtext", "dsc"),
		timesync: filepath.Join(root, "diagnostics", "timesync"),
		traces:   filepath.Join(root, "diagnostics"),
	}
	a.mkdirs()
	return a
}

// NewLogArchive creates an empty .logarchive bundle in a temporary directory.
func NewLogArchive(t testing.TB) *Archive {
	t.Helper()
	root := filepath.Join(t.TempDir(), "system_logs.logarchive")
	a := &Archive{
		t:        t,
		Root:     root,
		strings:  root,
		shared:   filepath.Join(root, "dsc"),
		timesync: filepath.Join(root, "timesync"),
		traces:   root,
	}
	a.mkdirs()
	return a
}

func (a *Archive) mkdirs() {
	a.t.Helper()
	for _, dir := range []string{a.strings, a.shared, a.timesync, a.traces} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			a.t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
}

// TracesDir returns the directory holding the trace categories.
func (a *Archive) TracesDir() string {
	return a.traces
}

// AddUUIDText writes a per-image string table for uuid.
func (a *Archive) AddUUIDText(uuid string, doc decoded.UUIDTextDoc) string {
	a.t.Helper()
	uuid = strings.ToUpper(uuid)
	return a.write(filepath.Join(a.strings, uuid[:2], uuid[2:]), doc)
}

// AddSharedStrings writes a shared-cache string table for uuid.
func (a *Archive) AddSharedStrings(uuid string, doc decoded.SharedStringsDoc) string {
	a.t.Helper()
	return a.write(filepath.Join(a.shared, strings.ToUpper(uuid)), doc)
}

// AddTimesync writes a timesync file.
func (a *Archive) AddTimesync(name string, doc decoded.TimesyncDoc) string {
	a.t.Helper()
	return a.write(filepath.Join(a.timesync, name), doc)
}

// AddTrace writes a trace document at category/name. An empty category
// writes name directly below the traces directory, as for live data.
func (a *Archive) AddTrace(category, name string, doc decoded.TraceDoc) string {
	a.t.Helper()
	return a.write(filepath.Join(a.traces, category, name), doc)
}

// AddStandardReferences writes string tables and timesync data that every
// trace built with Trace can resolve against.
func (a *Archive) AddStandardReferences() {
	a.t.Helper()
	a.AddUUIDText(ProcessUUID, decoded.UUIDTextDoc{LibraryPath: ProcessPath})
	a.AddUUIDText(LibraryUUID, decoded.UUIDTextDoc{
		LibraryPath: LibraryPath,
		Strings: []decoded.StringDoc{
			{Offset: FormatOffset, Value: "%s"},
			{Offset: LiteralOffset, Value: "static message"},
		},
	})
	a.AddSharedStrings(SharedUUID, decoded.SharedStringsDoc{
		Strings: []decoded.SharedStringDoc{
			{Offset: 100, Value: "shared %{public}s", ImageUUID: LibraryUUID, ImagePath: LibraryPath},
		},
	})
	a.AddTimesync("0000000000000001.timesync", decoded.TimesyncDoc{
		Boots: []decoded.BootDoc{{
			BootUUID:            BootUUID,
			TimebaseNumerator:   1,
			TimebaseDenominator: 1,
			Records:             []decoded.TimesyncRecordDoc{{ContinuousTime: 0, WallTime: BootWallTime}},
		}},
	})
}

// Remove deletes a file written by the builder.
func (a *Archive) Remove(path string) {
	a.t.Helper()
	if err := os.Remove(path); err != nil {
		a.t.Fatalf("remove %s: %v", path, err)
	}
}

func (a *Archive) write(path string, doc any) string {
	a.t.Helper()
	data, err := yaml.Marshal(doc)
	if err != nil {
		a.t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		a.t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.t.Fatalf("write %s: %v", path, err)
	}
	return path
}
