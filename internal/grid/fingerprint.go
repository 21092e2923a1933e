package grid

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strconv"
)

// DomainGrid prefixes every grid fingerprint. The version suffix leaves room
// for a future change of algorithm or layout.
const DomainGrid = "hexlife/grid/v1"

// Fingerprint is a 64-bit content hash of a grid.
//
// Layout hashed with FNV-1a 64:
//
//	DomainGrid || 0x00 || uint32be(rows) || uint32be(cols) || cells...
//
// where each cell contributes one byte (0 dead, 1 alive) in row-major order.
// Equal grids always hash equal. Distinct grids colliding is treated as an
// accepted risk: with 64 bits the chance across a window of n states is
// about n^2 / 2^65.
type Fingerprint uint64

// String returns the fingerprint as 16 lowercase hex digits.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// ParseFingerprint parses the output of Fingerprint.String.
func ParseFingerprint(s string) (Fingerprint, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("parse fingerprint %q: want 16 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse fingerprint %q: %w", s, err)
	}
	return Fingerprint(v), nil
}

// Of computes the fingerprint of g.
func Of(g *Grid) Fingerprint {
	h := fnv.New64a()
	h.Write([]byte(DomainGrid))
	h.Write([]byte{0x00})

	var dims [8]byte
	binary.BigEndian.PutUint32(dims[0:4], uint32(g.rows))
	binary.BigEndian.PutUint32(dims[4:8], uint32(g.cols))
	h.Write(dims[:])

	buf := make([]byte, len(g.cells))
	for i, c := range g.cells {
		buf[i] = byte(c)
	}
	h.Write(buf)
	return Fingerprint(h.Sum64())
}

// Fingerprint computes the content hash of g.
func (g *Grid) Fingerprint() Fingerprint { return Of(g) }
