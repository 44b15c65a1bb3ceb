package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

func oversize(refs ...uint32) []unifiedlog.Oversize {
	out := make([]unifiedlog.Oversize, 0, len(refs))
	for _, r := range refs {
		out = append(out, unifiedlog.Oversize{DataRef: r, FirstProc: 1})
	}
	return out
}

func TestOversizeStore_AppendTakeReplace(t *testing.T) {
	var s OversizeStore
	assert.Equal(t, 0, s.Len())

	s.Append(oversize(1, 2)...)
	s.Append(oversize(3)...)
	assert.Equal(t, 3, s.Len())

	taken := s.Take()
	assert.Equal(t, oversize(1, 2, 3), taken)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Take())

	s.Replace(oversize(7))
	assert.Equal(t, oversize(7), s.Snapshot())
}

func TestOversizeStore_SnapshotIsACopy(t *testing.T) {
	var s OversizeStore
	s.Append(oversize(1)...)

	snap := s.Snapshot()
	snap[0].DataRef = 99
	snap = append(snap, oversize(2)...)

	assert.Equal(t, oversize(1), s.Snapshot())
	assert.Len(t, snap, 2)
}

func TestLedger_KeepsOnlyResiduesWithEntries(t *testing.T) {
	var l Ledger

	assert.False(t, l.Add("empty", &unifiedlog.UnifiedLogData{Oversize: oversize(1)}))
	assert.False(t, l.Add("nil", nil))

	residue := &unifiedlog.UnifiedLogData{Catalogs: []unifiedlog.Catalog{{
		Entries: []unifiedlog.Entry{{ContinuousTime: 1}, {ContinuousTime: 2}},
	}}}
	assert.True(t, l.Add("a.tracev3", residue))
	assert.True(t, l.Add("b.tracev3", residue))

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 4, l.Pending())

	drained := l.Drain()
	require.Len(t, drained, 2)
	assert.Equal(t, "a.tracev3", drained[0].Source)
	assert.Equal(t, "b.tracev3", drained[1].Source)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Drain())
}
