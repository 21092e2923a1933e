// Package store provides SQLite-backed durable storage for hexlife runs.
//
// The store is an append-only log with three tables:
//   - runs: the parameters needed to re-simulate a run
//   - ticks: one row per session tick
//   - reseeds: one row per auto-reseed
//
// All ordering uses the tick seq (a logical clock), never timestamps, and
// every read is ORDER BY seq ASC so a stored run replays identically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
