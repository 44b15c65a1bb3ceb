package harness

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conversion scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Layout is "exported" (the default) or "logarchive".
	Layout string `yaml:"layout,omitempty"`

	// Traces are written below the traces directory of the collection.
	Traces []TraceFile `yaml:"traces"`

	// Vanish lists trace paths deleted once their phase has listed them.
	Vanish []string `yaml:"vanish,omitempty"`

	// Assertions validate the outcome of the run.
	Assertions []Assertion `yaml:"assertions"`
}

// TraceFile is one trace document.
type TraceFile struct {
	// Path is slash separated and relative to the traces directory,
	// e.g. "Special/0000000000000001.tracev3" or "logdata.LiveData.tracev3".
	Path     string       `yaml:"path"`
	Entries  []TraceEntry `yaml:"entries,omitempty"`
	Oversize []Oversize   `yaml:"oversize,omitempty"`
}

// TraceEntry is a log entry of the fixture process. Exactly one of Message
// and Oversize is set.
type TraceEntry struct {
	Time     uint64  `yaml:"time"`
	Message  string  `yaml:"message,omitempty"`
	Oversize *uint32 `yaml:"oversize,omitempty"`
}

// Oversize is an oversize record of the fixture process.
type Oversize struct {
	Ref  uint32 `yaml:"ref"`
	Text string `yaml:"text"`
}

// Assertion validates the written messages or the run statistics.
type Assertion struct {
	// Type specifies the assertion type:
	// - "message_contains": Message was written
	// - "message_absent": Message was not written
	// - "message_order": Messages were written in this relative order
	// - "stat_count": Stat has exactly Count
	Type string `yaml:"type"`

	Message  string   `yaml:"message,omitempty"`
	Messages []string `yaml:"messages,omitempty"`
	Stat     string   `yaml:"stat,omitempty"`
	Count    int      `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertMessageContains = "message_contains"
	AssertMessageAbsent   = "message_absent"
	AssertMessageOrder    = "message_order"
	AssertStatCount       = "stat_count"
)

// Layout names.
const (
	LayoutExported   = "exported"
	LayoutLogArchive = "logarchive"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Layout {
	case "", LayoutExported, LayoutLogArchive:
	default:
		return fmt.Errorf("unknown layout %q", s.Layout)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	paths := make(map[string]bool, len(s.Traces))
	for i, tr := range s.Traces {
		if err := validateTracePath(tr.Path); err != nil {
			return fmt.Errorf("traces[%d]: %w", i, err)
		}
		if paths[tr.Path] {
			return fmt.Errorf("traces[%d]: duplicate path %s", i, tr.Path)
		}
		paths[tr.Path] = true

		for j, e := range tr.Entries {
			if (e.Message == "") == (e.Oversize == nil) {
				return fmt.Errorf("traces[%d].entries[%d]: exactly one of message and oversize is required", i, j)
			}
		}
	}

	for i, v := range s.Vanish {
		if !paths[v] {
			return fmt.Errorf("vanish[%d]: %s is not one of the traces", i, v)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateTracePath(p string) error {
	if p == "" {
		return fmt.Errorf("path is required")
	}
	if path.IsAbs(p) || strings.Contains(p, "..") || path.Clean(p) != p {
		return fmt.Errorf("path %q must be clean and relative", p)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertMessageContains, AssertMessageAbsent:
		if a.Message == "" {
			return fmt.Errorf("assertions[%d]: message is required for %s", index, a.Type)
		}
	case AssertMessageOrder:
		if len(a.Messages) == 0 {
			return fmt.Errorf("assertions[%d]: messages list is required for message_order", index)
		}
	case AssertStatCount:
		if _, ok := statFields[a.Stat]; !ok {
			return fmt.Errorf("assertions[%d]: unknown stat %q", index, a.Stat)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for stat_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
