package harness

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/aul2madb/internal/archive"
	"github.com/roach88/aul2madb/internal/sink"
	"github.com/roach88/aul2madb/internal/testutil"
	"github.com/roach88/aul2madb/internal/unifiedlog"
	"github.com/roach88/aul2madb/internal/unifiedlog/decoded"
)

// Run materialises the scenario's collection below t's temporary
// directory, converts it to TSV and evaluates the assertions.
//
// An error is returned when the run itself fails; assertion failures are
// reported through Result.Pass and Result.Errors.
func Run(t testing.TB, scenario *Scenario) (*Result, error) {
	t.Helper()

	var a *testutil.Archive
	if scenario.Layout == LayoutLogArchive {
		a = testutil.NewLogArchive(t)
	} else {
		a = testutil.NewExported(t)
	}
	a.AddStandardReferences()

	vanish := make(map[string][]string)
	for _, tr := range scenario.Traces {
		dir, name := path.Split(tr.Path)
		written := a.AddTrace(filepath.FromSlash(strings.TrimSuffix(dir, "/")), name, buildTrace(tr))
		for _, v := range scenario.Vanish {
			if v == tr.Path {
				phase := strings.SplitN(tr.Path, "/", 2)[0]
				vanish[phase] = append(vanish[phase], written)
			}
		}
	}

	lib, err := decoded.New()
	if err != nil {
		return nil, err
	}
	layout := archive.DetectLayout(a.Root)
	refs, err := archive.LoadReferences(lib, layout)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(t.TempDir(), scenario.Name+".tsv")
	tsv, err := sink.CreateTSV(out)
	if err != nil {
		return nil, err
	}
	mem := &testutil.MemorySink{}

	var removeErr error
	observer := &testutil.HookObserver{
		OnPhase: func(name string) {
			for _, p := range vanish[name] {
				if err := os.Remove(p); err != nil && removeErr == nil {
					removeErr = err
				}
			}
		},
	}

	seq := archive.NewSequencer(lib, refs, teeSink{tsv, mem}, observer)
	stats, runErr := seq.Run(context.Background(), layout.Traces)
	if err := tsv.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, runErr)
	}
	if removeErr != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, removeErr)
	}

	result := NewResult()
	result.Stats = stats
	result.Messages = append(result.Messages, mem.Messages()...)
	for _, p := range observer.Skipped {
		rel, err := filepath.Rel(layout.Traces, p)
		if err != nil {
			rel = p
		}
		result.Skipped = append(result.Skipped, filepath.ToSlash(rel))
	}
	result.TSV, err = os.ReadFile(out)
	if err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// buildTrace converts a scenario trace into a decoded trace document for
// the fixture process.
func buildTrace(tr TraceFile) decoded.TraceDoc {
	b := testutil.Trace()
	for _, e := range tr.Entries {
		if e.Oversize != nil {
			b.OversizeMessage(e.Time, *e.Oversize)
			continue
		}
		b.Message(e.Time, e.Message)
	}
	for _, o := range tr.Oversize {
		b.Oversize(o.Ref, o.Text)
	}
	return b.Doc()
}

// teeSink writes every batch to each of its sinks in turn.
type teeSink []archive.Sink

func (s teeSink) Write(ctx context.Context, entries []unifiedlog.LogData) error {
	for _, w := range s {
		if err := w.Write(ctx, entries); err != nil {
			return err
		}
	}
	return nil
}
