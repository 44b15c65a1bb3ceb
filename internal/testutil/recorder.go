package testutil

import (
	"context"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

// BuildCall records one BuildLog invocation.
type BuildCall struct {
	// Path is the trace file parsed just before the call, or empty for
	// reconciliation calls.
	Path           string
	Oversize       []unifiedlog.Oversize
	ExcludeMissing bool
	Entries        int
	Resolved       int
}

// RecordingLibrary wraps a Library and records every BuildLog call.
//
// Not safe for concurrent use; the sequencer never calls it concurrently.
type RecordingLibrary struct {
	unifiedlog.Library
	Calls []BuildCall

	lastPath string
}

// NewRecordingLibrary wraps lib.
func NewRecordingLibrary(lib unifiedlog.Library) *RecordingLibrary {
	return &RecordingLibrary{Library: lib}
}

// ParseLog delegates and remembers path for the next BuildLog call.
func (r *RecordingLibrary) ParseLog(path string) (*unifiedlog.UnifiedLogData, error) {
	r.lastPath = path
	return r.Library.ParseLog(path)
}

// BuildLog delegates and records the oversize list it was handed.
func (r *RecordingLibrary) BuildLog(data *unifiedlog.UnifiedLogData, refs *unifiedlog.References, excludeMissing bool) ([]unifiedlog.LogData, *unifiedlog.UnifiedLogData) {
	call := BuildCall{
		Path:           r.lastPath,
		Oversize:       append([]unifiedlog.Oversize(nil), data.Oversize...),
		ExcludeMissing: excludeMissing,
		Entries:        data.EntryCount(),
	}
	r.lastPath = ""

	results, residual := r.Library.BuildLog(data, refs, excludeMissing)
	call.Resolved = len(results)
	r.Calls = append(r.Calls, call)
	return results, residual
}

// CallFor returns the first recorded call for path.
func (r *RecordingLibrary) CallFor(path string) (BuildCall, bool) {
	for _, c := range r.Calls {
		if c.Path == path {
			return c, true
		}
	}
	return BuildCall{}, false
}

// MemorySink keeps every batch it receives.
type MemorySink struct {
	Batches [][]unifiedlog.LogData
	// Err, when set, is returned by Write instead of storing the batch.
	Err    error
	Closed bool
}

// Write stores a copy of entries as one batch.
func (m *MemorySink) Write(_ context.Context, entries []unifiedlog.LogData) error {
	if m.Err != nil {
		return m.Err
	}
	m.Batches = append(m.Batches, append([]unifiedlog.LogData(nil), entries...))
	return nil
}

// Close marks the sink closed.
func (m *MemorySink) Close() error {
	m.Closed = true
	return nil
}

// Entries returns every stored entry in write order.
func (m *MemorySink) Entries() []unifiedlog.LogData {
	var out []unifiedlog.LogData
	for _, b := range m.Batches {
		out = append(out, b...)
	}
	return out
}

// Messages returns the message of every stored entry in write order.
func (m *MemorySink) Messages() []string {
	var out []string
	for _, e := range m.Entries() {
		out = append(out, e.Message)
	}
	return out
}

// HookObserver runs callbacks on sequencer notifications.
type HookObserver struct {
	OnPhase func(name string)
	OnFile  func(path string)

	Phases  []string
	Started []string
	Skipped []string
}

func (h *HookObserver) PhaseStarted(name string) {
	h.Phases = append(h.Phases, name)
	if h.OnPhase != nil {
		h.OnPhase(name)
	}
}

func (h *HookObserver) FileStarted(path string) {
	h.Started = append(h.Started, path)
	if h.OnFile != nil {
		h.OnFile(path)
	}
}

func (h *HookObserver) FileSkipped(path string, _ error) {
	h.Skipped = append(h.Skipped, path)
}

func (h *HookObserver) BatchWritten(int, int) {}
