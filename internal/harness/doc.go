// Package harness runs conversion scenarios against synthetic collections.
//
// A scenario describes a small Unified Logs collection as decoded trace
// documents, optional files to delete while the run is in progress, and
// assertions over the outcome. The harness materialises the collection in a
// temporary directory, runs the phase sequencer into a TSV sink and checks
// the assertions. The TSV output can be compared with a golden file.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	layout: exported          # or logarchive
//	traces:
//	  - path: Persist/0000000000000001.tracev3
//	    entries:
//	      - time: 1000
//	        message: "hello"
//	      - time: 2000
//	        oversize: 5
//	    oversize:
//	      - ref: 5
//	        text: "payload"
//	vanish:
//	  - Persist/0000000000000002.tracev3
//	assertions:
//	  - type: message_order
//	    messages: ["hello", "payload"]
//	  - type: stat_count
//	    stat: dropped
//	    count: 0
//
// Every trace resolves against the fixture string tables and timesync data
// of package testutil. Entry times are continuous ticks, which the fixture
// timebase maps one to one onto nanoseconds after 2023-01-01T00:00:00Z.
//
// A path listed under vanish is deleted when the sequencer starts the phase
// named by the path's first element, after the directory has been listed.
//
// # Assertion Types
//
//   - message_contains: a written entry has exactly this message
//   - message_absent: no written entry has this message
//   - message_order: the messages appear in this relative order
//   - stat_count: a run statistic has exactly this value
//
// # Golden Files
//
// RunWithGolden compares the TSV output with testdata/golden/{name}.golden.
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
