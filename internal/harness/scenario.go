package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/grid"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rows and Cols size the grid. Both may be omitted when Pattern is set.
	Rows int `yaml:"rows,omitempty"`
	Cols int `yaml:"cols,omitempty"`

	// Rule is a B/S rule string. Empty selects B2/S34.
	Rule string `yaml:"rule,omitempty"`

	// Pattern is the starting picture ('O' alive, '.' dead). When empty the
	// grid is randomized from Seed and PAlive.
	Pattern string `yaml:"pattern,omitempty"`

	// Seed is the base seed for randomizing and reseeding. Default 1.
	Seed *int64 `yaml:"seed,omitempty"`

	// PAlive is the randomize probability. Default 0.2.
	PAlive *float64 `yaml:"p_alive,omitempty"`

	// Ticks is the tick budget.
	Ticks int `yaml:"ticks"`

	// AutoReseed reseeds on a repeated state instead of halting.
	AutoReseed bool `yaml:"auto_reseed"`

	// MaxReseeds halts after this many reseeds. Zero means unlimited.
	MaxReseeds int `yaml:"max_reseeds,omitempty"`

	// CycleGuard enables the per-tick cycle check. Default true.
	CycleGuard *bool `yaml:"cycle_guard,omitempty"`

	// HistoryLimit is the classifier window. Zero selects the default.
	HistoryLimit int `yaml:"history_limit,omitempty"`

	// Assertions validate the trace and the final grid.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the trace or the final grid.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is used by final_alive and reseed_count.
	Count int `yaml:"count,omitempty"`

	// Tick is the 1-based tick seq used by label_at and loop_detected_at.
	Tick int64 `yaml:"tick,omitempty"`

	// Label is used by label_at and never_label.
	Label string `yaml:"label,omitempty"`

	// Pattern is used by final_pattern.
	Pattern string `yaml:"pattern,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalAlive     = "final_alive"
	AssertLabelAt        = "label_at"
	AssertLoopDetectedAt = "loop_detected_at"
	AssertFinalPattern   = "final_pattern"
	AssertNeverLabel     = "never_label"
	AssertReseedCount    = "reseed_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml and *.yml file in dir, sorted by path.
func LoadScenarioDir(dir string) ([]*Scenario, []string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, paths, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Ticks < 1 {
		return fmt.Errorf("ticks must be at least 1")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Pattern != "" {
		g, err := grid.Parse(s.Pattern)
		if err != nil {
			return fmt.Errorf("pattern: %w", err)
		}
		if (s.Rows != 0 && s.Rows != g.Rows()) || (s.Cols != 0 && s.Cols != g.Cols()) {
			return fmt.Errorf("pattern is %dx%d but rows/cols say %dx%d", g.Rows(), g.Cols(), s.Rows, s.Cols)
		}
	} else if s.Rows < 1 || s.Cols < 1 {
		return fmt.Errorf("rows and cols are required without a pattern")
	}

	if s.Rule != "" {
		if _, err := engine.ParseRule(s.Rule); err != nil {
			return fmt.Errorf("rule: %w", err)
		}
	}
	if s.PAlive != nil && (*s.PAlive < 0 || *s.PAlive > 1) {
		return fmt.Errorf("p_alive %v outside [0, 1]", *s.PAlive)
	}
	if s.MaxReseeds < 0 {
		return fmt.Errorf("max_reseeds must be non-negative")
	}
	if s.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must be non-negative")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalAlive, AssertReseedCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertLabelAt, AssertNeverLabel:
		if _, err := engine.ParseLabel(a.Label); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Type == AssertLabelAt && a.Tick < 1 {
			return fmt.Errorf("assertions[%d]: tick is required for label_at", index)
		}
	case AssertLoopDetectedAt:
		if a.Tick < 1 {
			return fmt.Errorf("assertions[%d]: tick is required for loop_detected_at", index)
		}
	case AssertFinalPattern:
		if _, err := grid.Parse(a.Pattern); err != nil {
			return fmt.Errorf("assertions[%d]: pattern: %w", index, err)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
