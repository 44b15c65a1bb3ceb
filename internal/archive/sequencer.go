package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

// ErrVanished is reported for a trace file that disappeared between the
// directory listing and the moment it was opened.
var ErrVanished = errors.New("file no longer on disk")

// CarryPolicy controls how a category exchanges oversize records with the
// store.
type CarryPolicy int

const (
	// CarryNone resolves files alone and leaves the store untouched.
	CarryNone CarryPolicy = iota
	// CarryAppend resolves files alone, then appends their oversize
	// records to the store.
	CarryAppend
	// CarryForward appends the store's records to the file before
	// resolving it, then replaces the store with the file's list.
	CarryForward
)

// Category is one source of trace files inside the traces directory.
type Category struct {
	Name   string
	Carry  CarryPolicy
	Single bool // Name is a file, not a directory
}

// LiveDataFile is only present when the logs were gathered with `log collect`.
const LiveDataFile = "logdata.LiveData.tracev3"

// Categories lists the trace sources in the order they must be visited.
var Categories = []Category{
	{Name: "Persist", Carry: CarryAppend},
	{Name: "Special", Carry: CarryForward},
	{Name: "Signpost", Carry: CarryNone},
	{Name: "HighVolume", Carry: CarryNone},
	{Name: LiveDataFile, Carry: CarryForward, Single: true},
}

// Sink receives batches of resolved entries.
type Sink interface {
	Write(ctx context.Context, entries []unifiedlog.LogData) error
}

// Sequencer walks the trace categories of a collection in order, threading
// oversize records between files and deferring what cannot be resolved yet.
// A Sequencer runs once and is not safe for concurrent use.
type Sequencer struct {
	lib      unifiedlog.Library
	refs     *unifiedlog.References
	sink     Sink
	observer Observer

	store  OversizeStore
	ledger Ledger
	stats  Stats
}

// NewSequencer creates a Sequencer. A nil observer is replaced by NopObserver.
func NewSequencer(lib unifiedlog.Library, refs *unifiedlog.References, sink Sink, observer Observer) *Sequencer {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Sequencer{
		lib:      lib,
		refs:     refs,
		sink:     sink,
		observer: observer,
	}
}

// Run processes every category below tracesDir and then reconciles the
// deferred entries. It returns the run statistics, which are valid up to the
// point of failure when an error is returned.
func (s *Sequencer) Run(ctx context.Context, tracesDir string) (Stats, error) {
	for _, cat := range Categories {
		if err := s.runCategory(ctx, tracesDir, cat); err != nil {
			return s.stats, err
		}
	}
	if err := s.reconcile(ctx); err != nil {
		return s.stats, err
	}
	s.stats.Oversize = s.store.Len()
	return s.stats, nil
}

// Stats returns the statistics gathered so far.
func (s *Sequencer) Stats() Stats {
	return s.stats
}

func (s *Sequencer) runCategory(ctx context.Context, tracesDir string, cat Category) error {
	paths, err := listCategory(tracesDir, cat)
	if err != nil {
		return err
	}
	if paths == nil {
		slog.Debug("category not present", "category", cat.Name)
		return nil
	}

	s.observer.PhaseStarted(cat.Name)
	for _, path := range paths {
		if err := s.processFile(ctx, cat, path); err != nil {
			return err
		}
	}
	return nil
}

// TraceFiles returns every trace file below tracesDir in the order Run
// visits them, without parsing any of them.
func TraceFiles(tracesDir string) ([]string, error) {
	var all []string
	for _, cat := range Categories {
		paths, err := listCategory(tracesDir, cat)
		if err != nil {
			return nil, err
		}
		all = append(all, paths...)
	}
	return all, nil
}

// listCategory returns the trace files of cat in lexical order, or nil when
// the category is absent.
func listCategory(tracesDir string, cat Category) ([]string, error) {
	path := filepath.Join(tracesDir, cat.Name)
	if cat.Single {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	paths := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tracev3") {
			continue
		}
		paths = append(paths, filepath.Join(path, e.Name()))
	}
	return paths, nil
}

func (s *Sequencer) processFile(ctx context.Context, cat Category, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.skip(path)
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	s.observer.FileStarted(path)
	data, err := s.lib.ParseLog(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.skip(path)
			return nil
		}
		return fmt.Errorf("parse %s: %w", path, err)
	}
	s.stats.FilesParsed++
	s.stats.RawEntries += data.EntryCount()

	// A file can only reference oversize records of earlier files through
	// the carry policy of its category.
	if cat.Carry == CarryForward {
		data.Oversize = append(data.Oversize, s.store.Take()...)
	}

	results, residual := s.lib.BuildLog(data, s.refs, true)

	switch cat.Carry {
	case CarryAppend:
		s.store.Append(data.Oversize...)
	case CarryForward:
		s.store.Replace(data.Oversize)
	}

	if s.ledger.Add(path, residual) {
		s.stats.Deferred += residual.EntryCount()
		slog.Debug("entries deferred", "path", path, "count", residual.EntryCount())
	}
	return s.flush(ctx, results)
}

func (s *Sequencer) skip(path string) {
	s.stats.FilesSkipped++
	slog.Warn("skipping trace file", "path", path, "reason", ErrVanished)
	s.observer.FileSkipped(path, ErrVanished)
}

// reconcile replays every deferred residue with the complete oversize store.
func (s *Sequencer) reconcile(ctx context.Context) error {
	deferred := s.ledger.Drain()
	if len(deferred) == 0 {
		return nil
	}

	s.observer.PhaseStarted("reconcile")
	all := s.store.Snapshot()
	for _, d := range deferred {
		d.Data.Oversize = append(d.Data.Oversize, all...)
		pending := d.Data.EntryCount()

		results, _ := s.lib.BuildLog(d.Data, s.refs, false)
		s.stats.Recovered += len(results)
		if dropped := pending - len(results); dropped > 0 {
			s.stats.Dropped += dropped
			slog.Debug("deferred entries dropped", "source", d.Source, "count", dropped)
		}
		if err := s.flush(ctx, results); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) flush(ctx context.Context, results []unifiedlog.LogData) error {
	if len(results) == 0 {
		return nil
	}
	if err := s.sink.Write(ctx, results); err != nil {
		return fmt.Errorf("write %d entries: %w", len(results), err)
	}
	s.stats.Resolved += len(results)
	s.stats.Batches++
	s.observer.BatchWritten(len(results), s.stats.Resolved)
	return nil
}
