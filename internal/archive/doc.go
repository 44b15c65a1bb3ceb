// Package archive walks a Unified Logs collection and drives resolution of
// every trace file in it.
//
// # Walk Order
//
// Trace files are visited category by category:
//
//  1. Persist      resolved alone; oversize appended to the store afterwards
//  2. Special      store handed in; store replaced by the file's list afterwards
//  3. Signpost     resolved alone; store untouched
//  4. HighVolume   resolved alone; store untouched
//  5. logdata.LiveData.tracev3  same as Special
//
// Later categories may reference oversize records produced by earlier ones,
// so the order is load-bearing. Files are never resolved concurrently.
//
// # Deferred Entries
//
// Entries whose oversize record is not known yet are parked in the Ledger.
// After the last category the ledger is replayed once with every oversize
// record seen during the run. Entries still unresolved at that point are
// dropped; this happens when the file holding the oversize payload rotated
// out before the logs were collected, and is reported only as a count.
package archive
