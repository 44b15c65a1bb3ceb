// Package decoded implements unifiedlog.Library over decoded trace documents.
//
// Decoding tracev3 containers is left to an external decoder. This package
// consumes what such a decoder produces: one YAML document per source file,
// laid out exactly like the original archive so that directory walking,
// file ordering and file disappearance behave as they would on real data.
//
//	uuidtext/XX/<30 hex>        per-image string table   (#UUIDText)
//	uuidtext/dsc/<32 hex>       shared-cache strings     (#SharedStrings)
//	diagnostics/timesync/*.timesync  boot records        (#Timesync)
//	diagnostics/<category>/*.tracev3 raw trace data      (#Trace)
//
// Every document is checked against the embedded CUE schema before it is
// decoded, so malformed input fails with a field path instead of a zero value.
//
// A Library is not safe for concurrent use.
package decoded
