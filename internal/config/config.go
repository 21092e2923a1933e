// Package config loads hexlife configuration from YAML and validates it
// against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/hexlife/internal/engine"
	"github.com/roach88/hexlife/internal/session"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed schema.cue
var schemaCUE []byte

// Config holds all hexlife configuration.
type Config struct {
	Grid       GridConfig       `yaml:"grid" json:"grid"`
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
}

// GridConfig holds grid dimensions.
type GridConfig struct {
	Rows int `yaml:"rows" json:"rows"`
	Cols int `yaml:"cols" json:"cols"`
}

// SimulationConfig holds engine and session parameters.
type SimulationConfig struct {
	Seed           int64   `yaml:"seed" json:"seed"`
	PAlive         float64 `yaml:"p_alive" json:"p_alive"`
	HistoryLimit   int     `yaml:"history_limit" json:"history_limit"`
	SurvivalCounts []int   `yaml:"survival_counts" json:"survival_counts"`
	BirthCounts    []int   `yaml:"birth_counts" json:"birth_counts"`
	BatchSteps     int     `yaml:"batch_steps" json:"batch_steps"`
	Workers        int     `yaml:"workers" json:"workers"`
	AutoReseed     bool    `yaml:"auto_reseed" json:"auto_reseed"`
	MaxReseeds     int     `yaml:"max_reseeds" json:"max_reseeds"` // 0 = unlimited
	CycleGuard     bool    `yaml:"cycle_guard" json:"cycle_guard"`
}

// ValidationError reports a configuration value rejected by the schema.
type ValidationError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("parsing embedded defaults: %v", err))
	}
	return cfg
}

// Load returns the embedded defaults overlaid with the file at path and
// validates the result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := cfg.overlay(data); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.overlay(data); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlay decodes data into cfg; only keys present in data change.
// Unknown keys are rejected so typos do not pass silently.
func (c *Config) overlay(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks c against the embedded CUE schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	val := ctx.Encode(c)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	first := errs[0]
	verr := &ValidationError{
		Field:   strings.Join(first.Path(), "."),
		Message: strings.TrimSpace(cueerrors.Details(first, nil)),
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		verr.Pos = positions[0]
	}
	return verr
}

// IsValidationError reports whether err is a schema violation.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// Rule builds the transition rule from the configured counts.
func (c *Config) Rule() (engine.Rule, error) {
	return engine.NewRule(c.Simulation.SurvivalCounts, c.Simulation.BirthCounts)
}

// EngineOptions maps the configuration to engine options.
func (c *Config) EngineOptions() ([]engine.Option, error) {
	rule, err := c.Rule()
	if err != nil {
		return nil, err
	}
	return []engine.Option{
		engine.WithRule(rule),
		engine.WithAliveProbability(c.Simulation.PAlive),
		engine.WithHistoryLimit(c.Simulation.HistoryLimit),
		engine.WithWorkers(c.Simulation.Workers),
		engine.WithBatchSteps(c.Simulation.BatchSteps),
	}, nil
}

// NewEngine creates an engine sized and tuned by c.
func (c *Config) NewEngine() (*engine.Engine, error) {
	opts, err := c.EngineOptions()
	if err != nil {
		return nil, err
	}
	return engine.New(c.Grid.Rows, c.Grid.Cols, opts...)
}

// SessionOptions maps the configuration to session options.
func (c *Config) SessionOptions() []session.Option {
	return []session.Option{
		session.WithSeed(c.Simulation.Seed),
		session.WithAutoReseed(c.Simulation.AutoReseed),
		session.WithMaxReseeds(c.Simulation.MaxReseeds),
		session.WithCycleGuard(c.Simulation.CycleGuard),
	}
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
