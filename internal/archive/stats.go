package archive

// Stats summarises a run.
//
// Resolved is the run counter: the number of entries handed to the sink,
// across every category and the reconciliation pass. It never exceeds
// RawEntries.
type Stats struct {
	FilesParsed  int `json:"files_parsed"`
	FilesSkipped int `json:"files_skipped"`
	RawEntries   int `json:"raw_entries"`
	Resolved     int `json:"resolved"`
	Deferred     int `json:"deferred"`
	Recovered    int `json:"recovered"`
	Dropped      int `json:"dropped"`
	Batches      int `json:"batches"`
	Oversize     int `json:"oversize"`
}
