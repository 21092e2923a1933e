// Package engine implements the hexlife cellular-automaton engine.
//
// The engine owns one grid and advances it generation by generation under a
// birth/survival rule over hex neighbor counts. Around the stepper sit two
// observers and a bulk runner:
//
//   - CycleGuard: remembers fingerprints of states seen since the last reseed
//     and reports when one repeats.
//   - Classifier: keeps a bounded window of snapshots and labels the
//     trajectory Stable, Oscillating or Chaotic.
//   - BatchRunner: steps a grid a fixed number of times with no observers.
//
// Engine ties them together behind the operations a driver needs: toggle,
// clear, randomize, step, classify, cycle check and batch runs.
//
// # Determinism
//
// Step is a pure function of the previous grid and the rule. It reads only
// from the previous generation and writes only to a separate buffer, so the
// result does not depend on iteration order or on how many workers share the
// rows. Randomize draws from a PCG source seeded by the caller, so a seed
// always reproduces the same grid.
//
// # Ownership
//
// An Engine is single-writer: it is not safe for concurrent use and hosts
// must serialize calls. The grid never leaves the engine; callers receive
// immutable grid.Snapshot values.
package engine
