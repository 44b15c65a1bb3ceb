package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// progress prints one line per trace file as the walk reaches it.
// On a terminal the lines also carry the running entry count.
type progress struct {
	w       io.Writer
	verbose bool
	tty     bool
	total   int
}

func newProgress(w io.Writer, verbose bool) *progress {
	p := &progress{w: w, verbose: verbose}
	if f, ok := w.(*os.File); ok {
		p.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

func (p *progress) PhaseStarted(name string) {
	if p.verbose {
		fmt.Fprintf(p.w, "== %s\n", name)
	}
}

func (p *progress) FileStarted(path string) {
	if p.tty {
		fmt.Fprintf(p.w, "Parsing: %s (%d entries so far)\n", path, p.total)
		return
	}
	fmt.Fprintf(p.w, "Parsing: %s\n", path)
}

func (p *progress) FileSkipped(path string, reason error) {
	fmt.Fprintf(p.w, "File %s skipped: %v\n", path, reason)
}

func (p *progress) BatchWritten(_ int, total int) {
	p.total = total
}
