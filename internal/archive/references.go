package archive

import (
	"fmt"
	"log/slog"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

// LoadReferences loads the string tables, shared-cache string tables and
// timesync records of a collection. There is no partial mode: resolution
// assumes complete references, so any failure is returned to the caller.
func LoadReferences(lib unifiedlog.Library, layout Layout) (*unifiedlog.References, error) {
	strs, err := lib.CollectStrings(layout.Strings)
	if err != nil {
		return nil, fmt.Errorf("load string tables from %s: %w", layout.Strings, err)
	}

	shared, err := lib.CollectSharedStrings(layout.SharedStrings)
	if err != nil {
		return nil, fmt.Errorf("load shared strings from %s: %w", layout.SharedStrings, err)
	}

	boots, err := lib.CollectTimesync(layout.Timesync)
	if err != nil {
		return nil, fmt.Errorf("load timesync from %s: %w", layout.Timesync, err)
	}

	slog.Debug("references loaded",
		"layout", layout.Kind.String(),
		"string_tables", len(strs),
		"shared_tables", len(shared),
		"boots", len(boots))

	return &unifiedlog.References{
		Strings:       strs,
		SharedStrings: shared,
		Timesync:      boots,
	}, nil
}
