package harness

import "github.com/roach88/aul2madb/internal/archive"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Stats are the sequencer statistics.
	Stats archive.Stats `json:"stats"`

	// Messages are the written messages in write order.
	Messages []string `json:"messages"`

	// Skipped lists the trace paths the sequencer skipped, relative to the
	// traces directory.
	Skipped []string `json:"skipped,omitempty"`

	// TSV is the complete output file.
	TSV []byte `json:"-"`

	// Errors contains assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Messages: []string{},
		Errors:   []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
