package archive

import "github.com/roach88/aul2madb/internal/unifiedlog"

// Deferred is the unresolved residue of one trace file.
type Deferred struct {
	Source string
	Data   *unifiedlog.UnifiedLogData
}

// Ledger collects deferred residues in file visitation order until
// reconciliation.
type Ledger struct {
	items []Deferred
}

// Add records the residue of source. Residues without entries carry nothing
// to retry and are not kept. Add reports whether the residue was kept.
func (l *Ledger) Add(source string, data *unifiedlog.UnifiedLogData) bool {
	if data.EntryCount() == 0 {
		return false
	}
	l.items = append(l.items, Deferred{Source: source, Data: data})
	return true
}

// Len returns the number of residues held.
func (l *Ledger) Len() int {
	return len(l.items)
}

// Pending returns the number of entries held across all residues.
func (l *Ledger) Pending() int {
	n := 0
	for _, d := range l.items {
		n += d.Data.EntryCount()
	}
	return n
}

// Drain returns the held residues and empties the ledger.
func (l *Ledger) Drain() []Deferred {
	out := l.items
	l.items = nil
	return out
}
