// Package unifiedlog defines the boundary between the archive walker and the
// library that decodes Apple Unified Logging data.
//
// The walker never looks inside a tracev3 file. It only needs five
// primitives, captured by the Library interface:
//
//   - CollectStrings: per-boot string tables (uuidtext)
//   - CollectSharedStrings: shared-cache string tables (dsc)
//   - CollectTimesync: timesync boot records
//   - ParseLog: raw data of a single trace file
//   - BuildLog: resolve raw data into LogData entries
//
// # Oversize Records
//
// Payloads too large to be inlined are stored as Oversize records and
// referenced by id. The referenced record may live in a different trace file
// than the entry itself, so callers thread oversize records from file to file
// by appending to UnifiedLogData.Oversize before calling BuildLog.
//
// # Exclude-Missing Mode
//
// With excludeMissing set, BuildLog returns the entries it could fully
// resolve plus a residual UnifiedLogData holding only the entries whose
// oversize data was not found. The residual keeps the oversize list it was
// built with so it can be retried later. With excludeMissing unset, entries
// that still cannot be resolved are left out and the residual is empty.
package unifiedlog
