package decoded

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aul2madb/internal/unifiedlog"
)

// Library reads decoded trace documents from disk.
type Library struct {
	validator *validator
	index     *refIndex
}

var _ unifiedlog.Library = (*Library)(nil)

// New creates a Library with the embedded schema compiled.
func New() (*Library, error) {
	v, err := newValidator()
	if err != nil {
		return nil, err
	}
	return &Library{validator: v}, nil
}

// CollectStrings loads every per-image string table below path.
// Only two-hex-character subdirectories are considered, which skips dsc/
// and, in a logarchive, the trace category directories.
func (l *Library) CollectStrings(path string) ([]unifiedlog.UUIDText, error) {
	dirs, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("collect strings: %w", err)
	}

	var tables []unifiedlog.UUIDText
	for _, dir := range dirs {
		if !dir.IsDir() || !isHex(dir.Name(), 2) {
			continue
		}
		files, err := os.ReadDir(filepath.Join(path, dir.Name()))
		if err != nil {
			return nil, fmt.Errorf("collect strings: %w", err)
		}
		for _, f := range files {
			if !f.Type().IsRegular() || !isHex(f.Name(), 30) {
				continue
			}
			var doc UUIDTextDoc
			if err := l.readDoc(filepath.Join(path, dir.Name(), f.Name()), defUUIDText, &doc); err != nil {
				return nil, fmt.Errorf("collect strings: %w", err)
			}
			tables = append(tables, doc.toUUIDText(dir.Name()+f.Name()))
		}
	}
	return tables, nil
}

// CollectSharedStrings loads every shared-cache string table in path.
func (l *Library) CollectSharedStrings(path string) ([]unifiedlog.SharedCacheStrings, error) {
	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("collect shared strings: %w", err)
	}

	var tables []unifiedlog.SharedCacheStrings
	for _, f := range files {
		if !f.Type().IsRegular() || !isHex(f.Name(), 32) {
			continue
		}
		var doc SharedStringsDoc
		if err := l.readDoc(filepath.Join(path, f.Name()), defSharedStrings, &doc); err != nil {
			return nil, fmt.Errorf("collect shared strings: %w", err)
		}
		tables = append(tables, doc.toSharedStrings(f.Name()))
	}
	return tables, nil
}

// CollectTimesync loads the boot records of every .timesync file in path,
// in file name order.
func (l *Library) CollectTimesync(path string) ([]unifiedlog.TimesyncBoot, error) {
	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("collect timesync: %w", err)
	}

	var boots []unifiedlog.TimesyncBoot
	for _, f := range files {
		if !f.Type().IsRegular() || filepath.Ext(f.Name()) != ".timesync" {
			continue
		}
		var doc TimesyncDoc
		if err := l.readDoc(filepath.Join(path, f.Name()), defTimesync, &doc); err != nil {
			return nil, fmt.Errorf("collect timesync: %w", err)
		}
		boots = append(boots, doc.toBoots()...)
	}
	return boots, nil
}

// ParseLog reads the raw data of one trace file.
// A missing file yields an error wrapping fs.ErrNotExist.
func (l *Library) ParseLog(path string) (*unifiedlog.UnifiedLogData, error) {
	var doc TraceDoc
	if err := l.readDoc(path, defTrace, &doc); err != nil {
		return nil, fmt.Errorf("parse log: %w", err)
	}
	return doc.toLogData(), nil
}

// readDoc validates the document at path against def and decodes it into out.
func (l *Library) readDoc(path, def string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := l.validator.validate(def, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func isHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	return strings.Trim(s, "0123456789abcdefABCDEF") == ""
}
