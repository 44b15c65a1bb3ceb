// Package sink writes resolved log entries to the UnifiedLogs output.
//
// Two formats share one column layout:
//
//   - SQLite: table UnifiedLogs, database in WAL journal mode
//   - TSV: tab-separated file with a header row
//
// Columns, in order:
//
//	File, DecompFilePos, ContinuousTime, TimeUtc, Thread, Type, ActivityID,
//	ParentActivityID, ProcessID, EffectiveUID, TTL, ProcessName, SenderName,
//	Subsystem, Category, SignpostName, SignpostInfo, ImageOffset, SenderUUID,
//	ProcessImageUUID, SenderImagePath, ProcessImagePath, Message
//
// File, DecompFilePos, ParentActivityID, TTL, SignpostName, SignpostInfo and
// ImageOffset are not populated from source data yet and are always written
// as empty strings or zero.
//
// Both sinks refuse to write over an existing file.
package sink
