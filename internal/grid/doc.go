// Package grid provides the hexagonal cell grid shared by every hexlife package.
//
// This package contains the grid data model, offset-coordinate hex adjacency,
// content fingerprints and seeded randomization. All other internal packages
// import grid; grid imports nothing internal.
//
// Coordinates are (row, col), row-major and 0-indexed. Adjacency depends on
// column parity and never wraps at the edges, so interior cells have six
// neighbors and edge cells fewer.
//
// Key constraints:
//   - Dimensions never change after construction; only cell values mutate.
//   - Snapshot values are immutable. Callers that need to edit a snapshot
//     must take a copy with Snapshot.Grid().
//   - Fingerprints are a pure function of dimensions and cell values.
package grid
