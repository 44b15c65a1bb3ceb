package archive

import (
	"path/filepath"
	"strings"
)

// LayoutKind identifies how a Unified Logs collection is arranged on disk.
type LayoutKind int

const (
	// LayoutExported is a copy of /private/var/db/{diagnostics,uuidtext}.
	LayoutExported LayoutKind = iota
	// LayoutArchive is a .logarchive bundle produced by `log collect`.
	LayoutArchive
)

func (k LayoutKind) String() string {
	switch k {
	case LayoutArchive:
		return "logarchive"
	default:
		return "exported"
	}
}

// Layout holds the directories derived from the root of a collection.
type Layout struct {
	Kind          LayoutKind
	Root          string
	Strings       string
	SharedStrings string
	Timesync      string
	Traces        string
}

// DetectLayout derives the reference and trace directories from root.
// A root whose name ends in .logarchive is treated as a bundle, anything
// else as an exported diagnostics/uuidtext tree.
func DetectLayout(root string) Layout {
	root = filepath.Clean(root)
	if strings.HasSuffix(root, ".logarchive") {
		return Layout{
			Kind:          LayoutArchive,
			Root:          root,
			Strings:       root,
			SharedStrings: filepath.Join(root, "dsc"),
			Timesync:      filepath.Join(root, "timesync"),
			Traces:        root,
		}
	}
	return Layout{
		Kind:          LayoutExported,
		Root:          root,
		Strings:       filepath.Join(root, "uuidtext"),
		SharedStrings: filepath.Join(root, "uuidtext", "dsc"),
		Timesync:      filepath.Join(root, "diagnostics", "timesync"),
		Traces:        filepath.Join(root, "diagnostics"),
	}
}
