package engine

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/hexlife/internal/grid"
)

// AllAlive is reported in place of a ratio when no cell is dead.
const AllAlive = "all alive"

// SimulationStats summarizes a grid's population.
type SimulationStats struct {
	Alive int
	Dead  int
}

// StatsOf counts alive and dead cells in g.
func StatsOf(g *grid.Grid) SimulationStats {
	alive := g.AliveCount()
	return SimulationStats{Alive: alive, Dead: g.Len() - alive}
}

// Total returns the number of cells.
func (s SimulationStats) Total() int { return s.Alive + s.Dead }

// Ratio returns alive/dead. ok is false when Dead is 0 and the ratio is undefined.
func (s SimulationStats) Ratio() (ratio float64, ok bool) {
	if s.Dead == 0 {
		return 0, false
	}
	return float64(s.Alive) / float64(s.Dead), true
}

// RatioString formats the ratio with four decimals, or AllAlive.
func (s SimulationStats) RatioString() string {
	r, ok := s.Ratio()
	if !ok {
		return AllAlive
	}
	return fmt.Sprintf("%.4f", r)
}

// String implements fmt.Stringer.
func (s SimulationStats) String() string {
	return fmt.Sprintf("alive=%d dead=%d ratio=%s", s.Alive, s.Dead, s.RatioString())
}

// MarshalJSON encodes the ratio as a number, or as "all alive" when undefined.
func (s SimulationStats) MarshalJSON() ([]byte, error) {
	out := struct {
		Alive int `json:"alive"`
		Dead  int `json:"dead"`
		Ratio any `json:"ratio"`
	}{Alive: s.Alive, Dead: s.Dead, Ratio: AllAlive}
	if r, ok := s.Ratio(); ok {
		out.Ratio = r
	}
	return json.Marshal(out)
}
