package termgrid

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes the initial shape of a [Grid], loaded from YAML by
// [LoadConfig] (SPEC_FULL.md §10 - the ambient config layer the
// distilled grid spec itself is silent on).
type Config struct {
	Columns      int `yaml:"columns"`
	Rows         int `yaml:"rows"`
	HistoryLimit int `yaml:"history_limit"`
}

// DefaultConfig mirrors a typical 80x24 terminal with a moderate
// scrollback, the same baseline size the teacher's own `WithSize`
// default assumes for a freshly constructed terminal.
func DefaultConfig() Config {
	return Config{Columns: 80, Rows: 24, HistoryLimit: 2000}
}

// LoadConfig reads and validates a YAML config file at path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("termgrid: read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("termgrid: parse config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("termgrid: invalid config %q: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects configs that would produce a degenerate or
// unreasonably large grid.
func (c Config) Validate() error {
	if c.Columns < 1 {
		return fmt.Errorf("columns must be >= 1, got %d", c.Columns)
	}
	if c.Rows < 1 {
		return fmt.Errorf("rows must be >= 1, got %d", c.Rows)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must be >= 0, got %d", c.HistoryLimit)
	}
	return nil
}

// NewGrid constructs a [Grid] sized per c.
func (c Config) NewGrid() *Grid {
	return Create(c.Columns, c.Rows, c.HistoryLimit)
}
