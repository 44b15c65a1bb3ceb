package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

// TSV writes entries as tab-separated rows.
type TSV struct {
	f *os.File
	w *csv.Writer
}

// CreateTSV creates a new file at path and writes the header row.
// It fails if path already exists.
func CreateTSV(path string) (*TSV, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create tsv: %w", err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'
	t := &TSV{f: f, w: w}

	if err := w.Write(Columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("write tsv header: %w", err)
	}
	if err := t.flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("write tsv header: %w", err)
	}
	return t, nil
}

// Write appends one row per entry and flushes them to the file.
func (t *TSV) Write(_ context.Context, entries []unifiedlog.LogData) error {
	for _, e := range entries {
		if err := t.w.Write(NewRow(e).Strings()); err != nil {
			return fmt.Errorf("write tsv row: %w", err)
		}
	}
	if err := t.flush(); err != nil {
		return fmt.Errorf("write tsv rows: %w", err)
	}
	return nil
}

// Close flushes pending rows and closes the file.
func (t *TSV) Close() error {
	if t.f == nil {
		return nil
	}
	flushErr := t.flush()
	closeErr := t.f.Close()
	t.f = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func (t *TSV) flush() error {
	t.w.Flush()
	return t.w.Error()
}
