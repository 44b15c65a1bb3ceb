package sink

import (
	"context"
	"fmt"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

// Format names an output format.
type Format string

const (
	FormatSQLite Format = "sqlite"
	FormatTSV    Format = "tsv"
)

// ValidFormats lists the accepted output formats.
var ValidFormats = []Format{FormatSQLite, FormatTSV}

// Sink persists batches of resolved entries.
type Sink interface {
	Write(ctx context.Context, entries []unifiedlog.LogData) error
	Close() error
}

// Open creates the output at path in the given format, including its table
// or header. The path must not exist yet.
func Open(format Format, path string) (Sink, error) {
	switch format {
	case FormatSQLite:
		return OpenSQLite(path)
	case FormatTSV:
		return CreateTSV(path)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
