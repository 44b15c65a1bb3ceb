package decoded

import (
	"fmt"
	"sort"
	"time"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

// refIndex provides keyed access into a References value.
// It is rebuilt whenever BuildLog is called with a different References.
type refIndex struct {
	refs    *unifiedlog.References
	strings map[string]*unifiedlog.UUIDText
	shared  map[string]*unifiedlog.SharedCacheStrings
	boots   map[string]*unifiedlog.TimesyncBoot
}

func newRefIndex(refs *unifiedlog.References) *refIndex {
	idx := &refIndex{
		refs:    refs,
		strings: make(map[string]*unifiedlog.UUIDText, len(refs.Strings)),
		shared:  make(map[string]*unifiedlog.SharedCacheStrings, len(refs.SharedStrings)),
		boots:   make(map[string]*unifiedlog.TimesyncBoot, len(refs.Timesync)),
	}
	for i := range refs.Strings {
		idx.strings[refs.Strings[i].UUID] = &refs.Strings[i]
	}
	for i := range refs.SharedStrings {
		idx.shared[refs.SharedStrings[i].UUID] = &refs.SharedStrings[i]
	}
	for i := range refs.Timesync {
		b := &refs.Timesync[i]
		// A boot can be split across several timesync files; keep the first
		// occurrence and merge later records into it.
		if prev, ok := idx.boots[b.BootUUID]; ok {
			merged := *prev
			merged.Records = append(append([]unifiedlog.TimesyncRecord(nil), prev.Records...), b.Records...)
			idx.boots[b.BootUUID] = &merged
			continue
		}
		idx.boots[b.BootUUID] = b
	}
	for uuid, b := range idx.boots {
		sorted := *b
		sorted.Records = append([]unifiedlog.TimesyncRecord(nil), b.Records...)
		sort.SliceStable(sorted.Records, func(i, j int) bool {
			return sorted.Records[i].ContinuousTime < sorted.Records[j].ContinuousTime
		})
		idx.boots[uuid] = &sorted
	}
	return idx
}

// BuildLog resolves data against refs. See the unifiedlog package
// documentation for the meaning of excludeMissing.
func (l *Library) BuildLog(data *unifiedlog.UnifiedLogData, refs *unifiedlog.References, excludeMissing bool) ([]unifiedlog.LogData, *unifiedlog.UnifiedLogData) {
	residual := &unifiedlog.UnifiedLogData{}
	if data == nil {
		return nil, residual
	}
	if refs == nil {
		refs = &unifiedlog.References{}
	}
	if l.index == nil || l.index.refs != refs {
		l.index = newRefIndex(refs)
	}

	residual.Header = append(residual.Header, data.Header...)
	residual.Oversize = append(residual.Oversize, data.Oversize...)

	oversize := make(map[unifiedlog.OversizeRef]int, len(data.Oversize))
	for i, o := range data.Oversize {
		if _, ok := oversize[o.Ref()]; !ok {
			oversize[o.Ref()] = i
		}
	}

	var boot *unifiedlog.TimesyncBoot
	if len(data.Header) > 0 {
		boot = l.index.boots[data.Header[0].BootUUID]
	}

	var results []unifiedlog.LogData
	for _, cat := range data.Catalogs {
		procs := make(map[uint64]*unifiedlog.ProcessInfo, len(cat.Processes))
		for i := range cat.Processes {
			procs[cat.Processes[i].ID] = &cat.Processes[i]
		}

		var missing []unifiedlog.Entry
		for _, e := range cat.Entries {
			args := e.Arguments
			if e.Oversize != nil {
				i, ok := oversize[*e.Oversize]
				if !ok {
					if excludeMissing {
						missing = append(missing, e)
					}
					continue
				}
				args = data.Oversize[i].Arguments
			}
			results = append(results, l.resolve(e, procs[e.ProcessID], boot, args))
		}

		if len(missing) > 0 {
			residual.Catalogs = append(residual.Catalogs, unifiedlog.Catalog{
				Processes: cat.Processes,
				Entries:   missing,
			})
		}
	}
	return results, residual
}

func (l *Library) resolve(e unifiedlog.Entry, proc *unifiedlog.ProcessInfo, boot *unifiedlog.TimesyncBoot, args []string) unifiedlog.LogData {
	if proc == nil {
		proc = &unifiedlog.ProcessInfo{ID: e.ProcessID}
	}

	out := unifiedlog.LogData{
		Time:           wallTime(boot, e.ContinuousTime),
		ContinuousTime: e.ContinuousTime,
		ThreadID:       e.ThreadID,
		LogType:        e.LogType,
		ActivityID:     e.ActivityID,
		PID:            proc.PID,
		EUID:           proc.EUID,
		ProcessUUID:    proc.MainUUID,
	}

	if t, ok := l.index.strings[proc.MainUUID]; ok {
		out.Process = t.LibraryPath
	}
	for _, s := range proc.Subsystems {
		if s.ID == e.SubsystemID && e.SubsystemID != 0 {
			out.Subsystem = s.Subsystem
			out.Category = s.Category
			break
		}
	}

	var format string
	if e.Shared {
		format, out.Library, out.LibraryUUID = l.sharedFormat(proc.SharedUUID, e.FormatOffset)
	} else {
		sender := e.SenderUUID
		if sender == "" {
			sender = proc.MainUUID
		}
		format, out.Library = l.imageFormat(sender, e.FormatOffset)
		out.LibraryUUID = sender
	}
	out.Message = formatMessage(format, args)
	return out
}

func (l *Library) sharedFormat(uuid string, offset uint64) (format, path, imageUUID string) {
	t, ok := l.index.shared[uuid]
	if ok {
		for _, s := range t.Entries {
			if s.Offset == offset {
				return s.Value, s.ImagePath, s.ImageUUID
			}
		}
	}
	return fmt.Sprintf("Error: Invalid shared string offset: %d", offset), "", ""
}

func (l *Library) imageFormat(uuid string, offset uint64) (format, path string) {
	t, ok := l.index.strings[uuid]
	if !ok {
		return fmt.Sprintf("Error: Failed to get string message from UUIDText file: %s", uuid), ""
	}
	for _, s := range t.Entries {
		if s.Offset == offset {
			return s.Value, t.LibraryPath
		}
	}
	return fmt.Sprintf("Error: Invalid offset %d for UUID %s", offset, uuid), t.LibraryPath
}

// wallTime converts a continuous time to UTC using the closest timesync
// record at or before it. Without boot data the ticks are taken as
// nanoseconds since the Unix epoch.
func wallTime(boot *unifiedlog.TimesyncBoot, ct uint64) time.Time {
	if boot == nil || len(boot.Records) == 0 {
		return time.Unix(0, int64(ct)).UTC()
	}

	recs := boot.Records
	i := sort.Search(len(recs), func(i int) bool { return recs[i].ContinuousTime > ct }) - 1
	if i < 0 {
		i = 0
	}
	rec := recs[i]

	numer, denom := int64(boot.TimebaseNumerator), int64(boot.TimebaseDenominator)
	if numer == 0 || denom == 0 {
		numer, denom = 1, 1
	}
	delta := int64(ct) - int64(rec.ContinuousTime)
	ns := (delta/denom)*numer + (delta%denom)*numer/denom
	return time.Unix(0, rec.WallTime+ns).UTC()
}
