// Package testutil holds fixtures shared by tests: small hex patterns with
// known trajectories and builders for grids, engines and sessions.
package testutil
