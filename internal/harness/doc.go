// Package harness runs hexlife conformance scenarios.
//
// A scenario describes a grid, a starting picture or seed, a tick budget
// and assertions over the resulting trace:
//
//	name: blinker
//	description: "Two cells trade places every generation"
//	pattern: |
//	  O.
//	  .O
//	ticks: 10
//	auto_reseed: false
//	assertions:
//	  - type: loop_detected_at
//	    tick: 3
//	  - type: final_alive
//	    count: 2
//
// # Assertion Types
//
//   - final_alive: the last tick's alive count equals count
//   - label_at: tick N carries label
//   - loop_detected_at: the first repeated state is detected at tick N
//   - final_pattern: the final grid renders as pattern
//   - never_label: no tick carries label
//   - reseed_count: the run reseeded exactly count times
//
// # Deterministic Testing
//
// Every scenario runs in a fresh in-memory store under a fixed run ID, so
// traces are identical across runs and can be compared with golden files
// via RunWithGolden.
package harness
