// Package ndjson imports the output of `log show --style ndjson` into the
// UnifiedLogs table.
//
// This path does not need the tracev3 walker: `log show` has already
// resolved every entry on the Mac that produced the export. Run it with
// --timezone UTC; the timestamp offset is honoured but nothing else about
// the local zone is.
package ndjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/roach88/aul2madb/internal/sink"
)

// DefaultBatchSize is the number of rows inserted per transaction.
const DefaultBatchSize = 1000

// timestampLayout is the format of the `timestamp` field of log show.
const timestampLayout = "2006-01-02 15:04:05.000000-0700"

// Record is one entry of a log show ndjson export. Fields that log show
// does not emit for an entry keep their zero value.
type Record struct {
	Timestamp                string `json:"timestamp"`
	ThreadID                 uint64 `json:"threadID"`
	MessageType              string `json:"messageType"`
	ActivityIdentifier       uint64 `json:"activityIdentifier"`
	ParentActivityIdentifier uint64 `json:"parentActivityIdentifier"`
	ProcessID                uint64 `json:"processID"`
	ProcessImagePath         string `json:"processImagePath"`
	SenderImagePath          string `json:"senderImagePath"`
	Subsystem                string `json:"subsystem"`
	Category                 string `json:"category"`
	SenderImageUUID          string `json:"senderImageUUID"`
	ProcessImageUUID         string `json:"processImageUUID"`
	EventMessage             string `json:"eventMessage"`
}

// Row converts r to an output row.
func (r Record) Row() sink.Row {
	return sink.Row{
		ContinuousTime:   "0",
		TimeUtc:          convertTimestamp(r.Timestamp),
		Thread:           r.ThreadID,
		Type:             r.MessageType,
		ActivityID:       r.ActivityIdentifier,
		ParentActivityID: r.ParentActivityIdentifier,
		ProcessID:        r.ProcessID,
		ProcessName:      lastElement(r.ProcessImagePath),
		SenderName:       lastElement(r.SenderImagePath),
		Subsystem:        r.Subsystem,
		Category:         r.Category,
		SenderUUID:       r.SenderImageUUID,
		ProcessImageUUID: r.ProcessImageUUID,
		SenderImagePath:  r.SenderImagePath,
		ProcessImagePath: r.ProcessImagePath,
		Message:          r.EventMessage,
	}
}

// convertTimestamp renders a log show timestamp like the rest of the
// TimeUtc column. Timestamps that do not parse keep their text up to the
// zone offset.
func convertTimestamp(ts string) string {
	if t, err := time.Parse(timestampLayout, ts); err == nil {
		return sink.FormatTime(t)
	}
	before, _, _ := strings.Cut(ts, "+")
	return before
}

func lastElement(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// Reader decodes records from a stream of JSON objects.
type Reader struct {
	dec  *json.Decoder
	line int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: json.NewDecoder(r)}
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("record %d: %w", r.line+1, err)
	}
	r.line++
	return rec, nil
}

// Import copies every record of src into db in batches of batchSize rows
// and returns the number of rows written.
func Import(ctx context.Context, src io.Reader, db *sink.SQLite, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	r := NewReader(src)
	batch := make([]sink.Row, 0, batchSize)
	total := 0
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, err
		}

		batch = append(batch, rec.Row())
		if len(batch) == batchSize {
			if err := db.InsertRows(ctx, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}

	if err := db.InsertRows(ctx, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}
