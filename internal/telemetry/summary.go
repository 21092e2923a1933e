package telemetry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/session"
)

// Summary describes an alive-count series.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes statistics of xs. StdDev is the sample standard
// deviation and is 0 for fewer than two values.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 || math.IsNaN(std) {
		std = 0
	}
	return Summary{
		Count:  len(xs),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.2f stddev=%.2f min=%.0f max=%.0f", s.Count, s.Mean, s.StdDev, s.Min, s.Max)
}

// Collector accumulates ticks for a run summary. Its Add method fits a
// session.Sink.
type Collector struct {
	alive   []float64
	labels  map[engine.Label]int
	reseeds int
	halted  bool
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{labels: make(map[engine.Label]int)}
}

// Add records t.
func (c *Collector) Add(t session.Tick) error {
	c.alive = append(c.alive, float64(t.Alive))
	c.labels[t.Label]++
	if t.Reseeded {
		c.reseeds++
	}
	if t.Halted {
		c.halted = true
	}
	return nil
}

// Alive returns the alive-count summary.
func (c *Collector) Alive() Summary { return Summarize(c.alive) }

// LabelCount returns how many ticks carried l.
func (c *Collector) LabelCount(l engine.Label) int { return c.labels[l] }

// Reseeds returns the number of reseeded ticks.
func (c *Collector) Reseeds() int { return c.reseeds }

// Halted reports whether a halting tick was seen.
func (c *Collector) Halted() bool { return c.halted }
