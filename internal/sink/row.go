package sink

import (
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

// Columns is the output column layout shared by every format.
var Columns = []string{
	"File",
	"DecompFilePos",
	"ContinuousTime",
	"TimeUtc",
	"Thread",
	"Type",
	"ActivityID",
	"ParentActivityID",
	"ProcessID",
	"EffectiveUID",
	"TTL",
	"ProcessName",
	"SenderName",
	"Subsystem",
	"Category",
	"SignpostName",
	"SignpostInfo",
	"ImageOffset",
	"SenderUUID",
	"ProcessImageUUID",
	"SenderImagePath",
	"ProcessImagePath",
	"Message",
}

// TimeLayout is RFC 3339 with microsecond precision.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Row is one output record.
type Row struct {
	File             string
	DecompFilePos    int64
	ContinuousTime   string
	TimeUtc          string
	Thread           uint64
	Type             string
	ActivityID       uint64
	ParentActivityID uint64
	ProcessID        uint64
	EffectiveUID     uint32
	TTL              int64
	ProcessName      string
	SenderName       string
	Subsystem        string
	Category         string
	SignpostName     string
	SignpostInfo     string
	ImageOffset      int64
	SenderUUID       string
	ProcessImageUUID string
	SenderImagePath  string
	ProcessImagePath string
	Message          string
}

// NewRow renders a resolved entry. Text columns are NFC-normalised.
func NewRow(d unifiedlog.LogData) Row {
	return Row{
		ContinuousTime:   strconv.FormatUint(d.ContinuousTime, 10),
		TimeUtc:          FormatTime(d.Time),
		Thread:           d.ThreadID,
		Type:             d.LogType,
		ActivityID:       d.ActivityID,
		ProcessID:        d.PID,
		EffectiveUID:     d.EUID,
		ProcessName:      norm.NFC.String(baseName(d.Process)),
		SenderName:       norm.NFC.String(baseName(d.Library)),
		Subsystem:        norm.NFC.String(d.Subsystem),
		Category:         norm.NFC.String(d.Category),
		SenderUUID:       FormatUUID(d.LibraryUUID),
		ProcessImageUUID: FormatUUID(d.ProcessUUID),
		SenderImagePath:  norm.NFC.String(d.Library),
		ProcessImagePath: norm.NFC.String(d.Process),
		Message:          norm.NFC.String(d.Message),
	}
}

// Values returns the row in column order, for database inserts.
func (r Row) Values() []any {
	return []any{
		r.File,
		r.DecompFilePos,
		r.ContinuousTime,
		r.TimeUtc,
		r.Thread,
		r.Type,
		r.ActivityID,
		r.ParentActivityID,
		r.ProcessID,
		r.EffectiveUID,
		r.TTL,
		r.ProcessName,
		r.SenderName,
		r.Subsystem,
		r.Category,
		r.SignpostName,
		r.SignpostInfo,
		r.ImageOffset,
		r.SenderUUID,
		r.ProcessImageUUID,
		r.SenderImagePath,
		r.ProcessImagePath,
		r.Message,
	}
}

// Strings returns the row in column order as text, for delimited output.
func (r Row) Strings() []string {
	return []string{
		r.File,
		strconv.FormatInt(r.DecompFilePos, 10),
		r.ContinuousTime,
		r.TimeUtc,
		strconv.FormatUint(r.Thread, 10),
		r.Type,
		strconv.FormatUint(r.ActivityID, 10),
		strconv.FormatUint(r.ParentActivityID, 10),
		strconv.FormatUint(r.ProcessID, 10),
		strconv.FormatUint(uint64(r.EffectiveUID), 10),
		strconv.FormatInt(r.TTL, 10),
		r.ProcessName,
		r.SenderName,
		r.Subsystem,
		r.Category,
		r.SignpostName,
		r.SignpostInfo,
		strconv.FormatInt(r.ImageOffset, 10),
		r.SenderUUID,
		r.ProcessImageUUID,
		r.SenderImagePath,
		r.ProcessImagePath,
		r.Message,
	}
}

// FormatTime renders t in UTC with microsecond precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// FormatUUID hyphenates a 32 hex character UUID as 8-4-4-4-12, keeping the
// input's letter case. Empty input stays empty. Anything that is not a bare
// 32 hex character UUID is returned unchanged.
func FormatUUID(s string) string {
	if len(s) != 32 {
		return s
	}
	if _, err := uuid.Parse(s); err != nil {
		return s
	}
	return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:]
}

// baseName returns the last element of a slash-separated image path.
func baseName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(p)
}
