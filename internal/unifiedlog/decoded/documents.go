package decoded

import (
	"strings"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

// StringDoc is one offset/value pair in a string table document.
type StringDoc struct {
	Offset uint64 `yaml:"offset"`
	Value  string `yaml:"value"`
}

// UUIDTextDoc is the document stored at uuidtext/XX/<rest of uuid>.
type UUIDTextDoc struct {
	LibraryPath string      `yaml:"library_path"`
	Strings     []StringDoc `yaml:"strings,omitempty"`
}

// SharedStringDoc is one entry of a shared-cache string table document.
type SharedStringDoc struct {
	Offset    uint64 `yaml:"offset"`
	Value     string `yaml:"value"`
	ImageUUID string `yaml:"image_uuid,omitempty"`
	ImagePath string `yaml:"image_path,omitempty"`
}

// SharedStringsDoc is the document stored at uuidtext/dsc/<uuid>.
type SharedStringsDoc struct {
	Strings []SharedStringDoc `yaml:"strings,omitempty"`
}

// TimesyncRecordDoc pins a continuous time to a wall time in nanoseconds.
type TimesyncRecordDoc struct {
	ContinuousTime uint64 `yaml:"continuous_time"`
	WallTime       int64  `yaml:"wall_time"`
}

// BootDoc holds the records of one boot session.
type BootDoc struct {
	BootUUID            string              `yaml:"boot_uuid"`
	TimebaseNumerator   uint32              `yaml:"timebase_numerator,omitempty"`
	TimebaseDenominator uint32              `yaml:"timebase_denominator,omitempty"`
	Records             []TimesyncRecordDoc `yaml:"records,omitempty"`
}

// TimesyncDoc is the document stored at timesync/*.timesync.
type TimesyncDoc struct {
	Boots []BootDoc `yaml:"boots,omitempty"`
}

// HeaderDoc identifies the boot session of a trace file.
type HeaderDoc struct {
	BootUUID string `yaml:"boot_uuid"`
}

// SubsystemDoc maps a catalog-local subsystem id to names.
type SubsystemDoc struct {
	ID        uint16 `yaml:"id"`
	Subsystem string `yaml:"subsystem"`
	Category  string `yaml:"category,omitempty"`
}

// ProcessDoc describes a process referenced by entries of a catalog.
type ProcessDoc struct {
	ID         uint64         `yaml:"id"`
	PID        uint64         `yaml:"pid"`
	EUID       uint32         `yaml:"euid,omitempty"`
	MainUUID   string         `yaml:"main_uuid,omitempty"`
	SharedUUID string         `yaml:"shared_uuid,omitempty"`
	Subsystems []SubsystemDoc `yaml:"subsystems,omitempty"`
}

// OversizeRefDoc points an entry at an oversize record.
type OversizeRefDoc struct {
	DataRef    uint32 `yaml:"data_ref"`
	FirstProc  uint64 `yaml:"first_proc"`
	SecondProc uint32 `yaml:"second_proc,omitempty"`
}

// EntryDoc is one raw log entry.
type EntryDoc struct {
	Process        uint64          `yaml:"process"`
	Thread         uint64          `yaml:"thread,omitempty"`
	ContinuousTime uint64          `yaml:"continuous_time"`
	Type           string          `yaml:"type"`
	ActivityID     uint64          `yaml:"activity_id,omitempty"`
	Subsystem      uint16          `yaml:"subsystem,omitempty"`
	SenderUUID     string          `yaml:"sender_uuid,omitempty"`
	FormatOffset   uint64          `yaml:"format_offset,omitempty"`
	Shared         bool            `yaml:"shared,omitempty"`
	Arguments      []string        `yaml:"arguments,omitempty"`
	Oversize       *OversizeRefDoc `yaml:"oversize,omitempty"`
}

// CatalogDoc groups entries with their processes.
type CatalogDoc struct {
	Processes []ProcessDoc `yaml:"processes,omitempty"`
	Entries   []EntryDoc   `yaml:"entries,omitempty"`
}

// OversizeDoc is an oversize payload.
type OversizeDoc struct {
	DataRef    uint32   `yaml:"data_ref"`
	FirstProc  uint64   `yaml:"first_proc"`
	SecondProc uint32   `yaml:"second_proc,omitempty"`
	Arguments  []string `yaml:"arguments,omitempty"`
}

// TraceDoc is the document stored in place of a tracev3 file.
type TraceDoc struct {
	Header   []HeaderDoc   `yaml:"header,omitempty"`
	Catalogs []CatalogDoc  `yaml:"catalogs,omitempty"`
	Oversize []OversizeDoc `yaml:"oversize,omitempty"`
}

func (d UUIDTextDoc) toUUIDText(uuid string) unifiedlog.UUIDText {
	t := unifiedlog.UUIDText{UUID: strings.ToUpper(uuid), LibraryPath: d.LibraryPath}
	for _, s := range d.Strings {
		t.Entries = append(t.Entries, unifiedlog.StringEntry{Offset: s.Offset, Value: s.Value})
	}
	return t
}

func (d SharedStringsDoc) toSharedStrings(uuid string) unifiedlog.SharedCacheStrings {
	t := unifiedlog.SharedCacheStrings{UUID: strings.ToUpper(uuid)}
	for _, s := range d.Strings {
		t.Entries = append(t.Entries, unifiedlog.SharedString{
			Offset:    s.Offset,
			Value:     s.Value,
			ImageUUID: strings.ToUpper(s.ImageUUID),
			ImagePath: s.ImagePath,
		})
	}
	return t
}

func (d TimesyncDoc) toBoots() []unifiedlog.TimesyncBoot {
	boots := make([]unifiedlog.TimesyncBoot, 0, len(d.Boots))
	for _, b := range d.Boots {
		boot := unifiedlog.TimesyncBoot{
			BootUUID:            strings.ToUpper(b.BootUUID),
			TimebaseNumerator:   b.TimebaseNumerator,
			TimebaseDenominator: b.TimebaseDenominator,
		}
		for _, r := range b.Records {
			boot.Records = append(boot.Records, unifiedlog.TimesyncRecord{
				ContinuousTime: r.ContinuousTime,
				WallTime:       r.WallTime,
			})
		}
		boots = append(boots, boot)
	}
	return boots
}

func (d TraceDoc) toLogData() *unifiedlog.UnifiedLogData {
	data := &unifiedlog.UnifiedLogData{}
	for _, h := range d.Header {
		data.Header = append(data.Header, unifiedlog.Header{BootUUID: strings.ToUpper(h.BootUUID)})
	}
	for _, c := range d.Catalogs {
		var cat unifiedlog.Catalog
		for _, p := range c.Processes {
			proc := unifiedlog.ProcessInfo{
				ID:         p.ID,
				PID:        p.PID,
				EUID:       p.EUID,
				MainUUID:   strings.ToUpper(p.MainUUID),
				SharedUUID: strings.ToUpper(p.SharedUUID),
			}
			for _, s := range p.Subsystems {
				proc.Subsystems = append(proc.Subsystems, unifiedlog.Subsystem{
					ID:        s.ID,
					Subsystem: s.Subsystem,
					Category:  s.Category,
				})
			}
			cat.Processes = append(cat.Processes, proc)
		}
		for _, e := range c.Entries {
			entry := unifiedlog.Entry{
				ProcessID:      e.Process,
				ThreadID:       e.Thread,
				ContinuousTime: e.ContinuousTime,
				LogType:        e.Type,
				ActivityID:     e.ActivityID,
				SubsystemID:    e.Subsystem,
				SenderUUID:     strings.ToUpper(e.SenderUUID),
				FormatOffset:   e.FormatOffset,
				Shared:         e.Shared,
				Arguments:      e.Arguments,
			}
			if e.Oversize != nil {
				entry.Oversize = &unifiedlog.OversizeRef{
					DataRef:    e.Oversize.DataRef,
					FirstProc:  e.Oversize.FirstProc,
					SecondProc: e.Oversize.SecondProc,
				}
			}
			cat.Entries = append(cat.Entries, entry)
		}
		data.Catalogs = append(data.Catalogs, cat)
	}
	for _, o := range d.Oversize {
		data.Oversize = append(data.Oversize, unifiedlog.Oversize{
			DataRef:    o.DataRef,
			FirstProc:  o.FirstProc,
			SecondProc: o.SecondProc,
			Arguments:  o.Arguments,
		})
	}
	return data
}
