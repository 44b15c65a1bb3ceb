package testutil

import "github.com/roach88/aul2madb/internal/unifiedlog/decoded"

// ProcessID is the catalog process id used by fixture entries.
const ProcessID uint64 = 1

// TraceBuilder assembles a decoded trace document.
type TraceBuilder struct {
	doc decoded.TraceDoc
}

// Trace starts a trace for BootUUID with one catalog describing the
// fixture process.
func Trace() *TraceBuilder {
	return &TraceBuilder{doc: decoded.TraceDoc{
		Header: []decoded.HeaderDoc{{BootUUID: BootUUID}},
		Catalogs: []decoded.CatalogDoc{{
			Processes: []decoded.ProcessDoc{{
				ID:         ProcessID,
				PID:        42,
				EUID:       501,
				MainUUID:   ProcessUUID,
				SharedUUID: SharedUUID,
				Subsystems: []decoded.SubsystemDoc{{ID: 1, Subsystem: "com.example.test", Category: "default"}},
			}},
		}},
	}}
}

// Message adds an entry whose message is text.
func (b *TraceBuilder) Message(ct uint64, text string) *TraceBuilder {
	b.doc.Catalogs[0].Entries = append(b.doc.Catalogs[0].Entries, decoded.EntryDoc{
		Process:        ProcessID,
		Thread:         7,
		ContinuousTime: ct,
		Type:           "Default",
		Subsystem:      1,
		SenderUUID:     LibraryUUID,
		FormatOffset:   FormatOffset,
		Arguments:      []string{text},
	})
	return b
}

// OversizeMessage adds an entry whose message lives in oversize record ref.
func (b *TraceBuilder) OversizeMessage(ct uint64, ref uint32) *TraceBuilder {
	b.doc.Catalogs[0].Entries = append(b.doc.Catalogs[0].Entries, decoded.EntryDoc{
		Process:        ProcessID,
		Thread:         7,
		ContinuousTime: ct,
		Type:           "Default",
		Subsystem:      1,
		SenderUUID:     LibraryUUID,
		FormatOffset:   FormatOffset,
		Oversize:       &decoded.OversizeRefDoc{DataRef: ref, FirstProc: ProcessID},
	})
	return b
}

// Oversize adds an oversize record holding text.
func (b *TraceBuilder) Oversize(ref uint32, text string) *TraceBuilder {
	b.doc.Oversize = append(b.doc.Oversize, decoded.OversizeDoc{
		DataRef:   ref,
		FirstProc: ProcessID,
		Arguments: []string{text},
	})
	return b
}

// Doc returns the assembled document.
func (b *TraceBuilder) Doc() decoded.TraceDoc {
	return b.doc
}
