package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/aul2madb/internal/archive"
)

// statFields maps stat_count names onto Stats fields.
var statFields = map[string]func(archive.Stats) int{
	"files_parsed":  func(s archive.Stats) int { return s.FilesParsed },
	"files_skipped": func(s archive.Stats) int { return s.FilesSkipped },
	"raw_entries":   func(s archive.Stats) int { return s.RawEntries },
	"resolved":      func(s archive.Stats) int { return s.Resolved },
	"deferred":      func(s archive.Stats) int { return s.Deferred },
	"recovered":     func(s archive.Stats) int { return s.Recovered },
	"dropped":       func(s archive.Stats) int { return s.Dropped },
	"batches":       func(s archive.Stats) int { return s.Batches },
	"oversize":      func(s archive.Stats) int { return s.Oversize },
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Messages []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Messages) > 0 {
		fmt.Fprintf(&buf, "\nWritten messages:\n")
		for i, m := range e.Messages {
			fmt.Fprintf(&buf, "  [%d] %q\n", i+1, m)
		}
	}

	return buf.String()
}

func assertMessageContains(messages []string, a Assertion) error {
	if slices.Contains(messages, a.Message) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("message %q written", a.Message),
		Actual:   "not found",
		Messages: messages,
	}
}

func assertMessageAbsent(messages []string, a Assertion) error {
	i := slices.Index(messages, a.Message)
	if i < 0 {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("message %q not written", a.Message),
		Actual:   fmt.Sprintf("written at position %d", i+1),
		Messages: messages,
	}
}

// assertMessageOrder checks that the expected messages appear in order,
// allowing other messages in between.
func assertMessageOrder(messages []string, a Assertion) error {
	pos := 0
	for _, want := range a.Messages {
		i := slices.Index(messages[pos:], want)
		if i < 0 {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%q in order", a.Messages),
				Actual:   fmt.Sprintf("%q missing after position %d", want, pos),
				Messages: messages,
			}
		}
		pos += i + 1
	}
	return nil
}

func assertStatCount(stats archive.Stats, a Assertion) error {
	get, ok := statFields[a.Stat]
	if !ok {
		return fmt.Errorf("unknown stat %q", a.Stat)
	}
	if got := get(stats); got != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s = %d", a.Stat, a.Count),
			Actual:   fmt.Sprintf("%s = %d", a.Stat, got),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertMessageContains:
			err = assertMessageContains(result.Messages, assertion)
		case AssertMessageAbsent:
			err = assertMessageAbsent(result.Messages, assertion)
		case AssertMessageOrder:
			err = assertMessageOrder(result.Messages, assertion)
		case AssertStatCount:
			err = assertStatCount(result.Stats, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
