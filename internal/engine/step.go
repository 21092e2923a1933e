package engine

import (
	"golang.org/x/sync/errgroup"

	"github.com/roach88/hexlife/internal/grid"
)

// Step applies rule once to src and returns the next generation in a new grid.
// src is never modified.
func Step(src *grid.Grid, rule Rule) *grid.Grid {
	dst := grid.New(src.Rows(), src.Cols())
	StepInto(dst, src, rule, 1)
	return dst
}

// StepInto writes the next generation of src into dst.
//
// Every cell is computed from src alone, so no cell ever sees a neighbor
// that was already updated in the same generation. With workers > 1 the rows
// are split into contiguous bands stepped concurrently; bands share only
// read access to src and write disjoint rows of dst.
//
// Panics with a DIMENSION_MISMATCH RuntimeError if the shapes differ, and
// with INVALID_ARGUMENT if dst and src are the same grid.
func StepInto(dst, src *grid.Grid, rule Rule, workers int) {
	if !dst.SameShape(src) {
		panic(newDimensionMismatch("step", dst, src))
	}
	if dst == src {
		panic(NewInvalidArgumentError("step", "destination aliases source"))
	}

	rows := src.Rows()
	if workers <= 1 || rows < 2 {
		stepRows(dst, src, rule, 0, rows)
		return
	}

	workers = min(workers, rows)
	band := (rows + workers - 1) / workers

	var eg errgroup.Group
	for start := 0; start < rows; start += band {
		end := min(start+band, rows)
		eg.Go(func() error {
			stepRows(dst, src, rule, start, end)
			return nil
		})
	}
	_ = eg.Wait()
}

func stepRows(dst, src *grid.Grid, rule Rule, from, to int) {
	for r := from; r < to; r++ {
		in := src.Row(r)
		out := dst.Row(r)
		for c := range out {
			out[c] = rule.Next(in[c], src.AliveNeighbors(r, c))
		}
	}
}
