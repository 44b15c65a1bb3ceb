package archive

import "github.com/roach88/aul2madb/internal/unifiedlog"

// OversizeStore accumulates oversize records across trace files.
// It has a single owner, the Sequencer, and is never shared.
type OversizeStore struct {
	records []unifiedlog.Oversize
}

// Append adds records after the ones already held.
func (s *OversizeStore) Append(records ...unifiedlog.Oversize) {
	s.records = append(s.records, records...)
}

// Take moves the held records out, leaving the store empty.
func (s *OversizeStore) Take() []unifiedlog.Oversize {
	out := s.records
	s.records = nil
	return out
}

// Replace discards the held records and takes ownership of records.
func (s *OversizeStore) Replace(records []unifiedlog.Oversize) {
	s.records = records
}

// Snapshot returns a copy of the held records.
func (s *OversizeStore) Snapshot() []unifiedlog.Oversize {
	return append([]unifiedlog.Oversize(nil), s.records...)
}

// Len returns the number of held records.
func (s *OversizeStore) Len() int {
	return len(s.records)
}
