// Package session drives an engine.Engine one tick at a time.
//
// A tick checks the current grid against the cycle guard, then either steps
// it or, when the grid repeats, reseeds it (auto-reseed) or halts the
// session. Every tick is stamped with a logical sequence number so stored
// runs replay in a deterministic order.
package session
