package unifiedlog

import "time"

// StringEntry is a format string stored at a fixed offset in a string table.
type StringEntry struct {
	Offset uint64
	Value  string
}

// UUIDText is a per-image string table loaded from the uuidtext directory.
// UUID is the 32 hex character image identifier.
type UUIDText struct {
	UUID        string
	LibraryPath string
	Entries     []StringEntry
}

// SharedString is a format string stored in a shared-cache string table,
// together with the image that contributed it.
type SharedString struct {
	Offset    uint64
	Value     string
	ImageUUID string
	ImagePath string
}

// SharedCacheStrings is one shared-cache (dsc) string table.
type SharedCacheStrings struct {
	UUID    string
	Entries []SharedString
}

// TimesyncRecord pins a continuous time to a wall-clock time.
type TimesyncRecord struct {
	ContinuousTime uint64
	WallTime       int64 // nanoseconds since the Unix epoch
}

// TimesyncBoot holds the timesync records of one boot session.
type TimesyncBoot struct {
	BootUUID            string
	TimebaseNumerator   uint32
	TimebaseDenominator uint32
	Records             []TimesyncRecord
}

// References bundles the three reference structures needed by BuildLog.
// It is loaded once per run and never mutated afterwards.
type References struct {
	Strings       []UUIDText
	SharedStrings []SharedCacheStrings
	Timesync      []TimesyncBoot
}

// Header describes the trace file a batch of catalogs came from.
type Header struct {
	BootUUID string
}

// Subsystem maps a catalog-local subsystem id to its names.
type Subsystem struct {
	ID        uint16
	Subsystem string
	Category  string
}

// ProcessInfo describes a process referenced by catalog entries.
type ProcessInfo struct {
	ID         uint64
	PID        uint64
	EUID       uint32
	MainUUID   string
	SharedUUID string
	Subsystems []Subsystem
}

// OversizeRef identifies an oversize record referenced by an entry.
type OversizeRef struct {
	DataRef    uint32
	FirstProc  uint64
	SecondProc uint32
}

// Entry is a raw, unresolved log entry.
type Entry struct {
	ProcessID      uint64
	ThreadID       uint64
	ContinuousTime uint64
	LogType        string
	ActivityID     uint64
	SubsystemID    uint16
	SenderUUID     string
	FormatOffset   uint64
	Shared         bool
	Arguments      []string
	Oversize       *OversizeRef
}

// Catalog groups entries with the processes they reference.
type Catalog struct {
	Processes []ProcessInfo
	Entries   []Entry
}

// Oversize is a payload stored outside of the entry that references it.
type Oversize struct {
	DataRef    uint32
	FirstProc  uint64
	SecondProc uint32
	Arguments  []string
}

// Ref returns the reference an entry uses to point at o.
func (o Oversize) Ref() OversizeRef {
	return OversizeRef{DataRef: o.DataRef, FirstProc: o.FirstProc, SecondProc: o.SecondProc}
}

// UnifiedLogData is the raw content of one trace file, or the residual of
// a BuildLog call.
type UnifiedLogData struct {
	Header   []Header
	Catalogs []Catalog
	Oversize []Oversize
}

// EntryCount returns the number of raw entries across all catalogs.
func (d *UnifiedLogData) EntryCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, c := range d.Catalogs {
		n += len(c.Entries)
	}
	return n
}

// LogData is a fully resolved log entry.
type LogData struct {
	Time           time.Time
	ContinuousTime uint64
	ThreadID       uint64
	LogType        string
	ActivityID     uint64
	PID            uint64
	EUID           uint32
	Process        string
	Library        string
	ProcessUUID    string
	LibraryUUID    string
	Subsystem      string
	Category       string
	Message        string
}

// Library is the unified log decoding collaborator.
type Library interface {
	CollectStrings(path string) ([]UUIDText, error)
	CollectSharedStrings(path string) ([]SharedCacheStrings, error)
	CollectTimesync(path string) ([]TimesyncBoot, error)
	ParseLog(path string) (*UnifiedLogData, error)
	BuildLog(data *UnifiedLogData, refs *References, excludeMissing bool) ([]LogData, *UnifiedLogData)
}
