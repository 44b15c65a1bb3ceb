package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_PlainWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	p := newProgress(buf, false)

	p.PhaseStarted("Persist")
	p.FileStarted("/x/Persist/a.tracev3")
	p.BatchWritten(3, 3)
	p.FileSkipped("/x/Persist/b.tracev3", errors.New("gone"))

	assert.Equal(t, "Parsing: /x/Persist/a.tracev3\nFile /x/Persist/b.tracev3 skipped: gone\n", buf.String())
}

func TestProgress_VerbosePhases(t *testing.T) {
	buf := &bytes.Buffer{}
	p := newProgress(buf, true)

	p.PhaseStarted("reconcile")
	assert.Equal(t, "== reconcile\n", buf.String())
}

func TestProgress_TerminalCount(t *testing.T) {
	buf := &bytes.Buffer{}
	p := &progress{w: buf, tty: true}

	p.BatchWritten(5, 12)
	p.FileStarted("/x/Special/a.tracev3")
	assert.Equal(t, "Parsing: /x/Special/a.tracev3 (12 entries so far)\n", buf.String())
}
