// Package config holds the run settings for the interpreter and their
// on-disk YAML form.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings controls a single interpreter run.
type Settings struct {
	// MaxSteps bounds the number of executed statements; 0 disables the
	// guard.
	MaxSteps uint64 `yaml:"max_steps"`
	// MaxExprNesting bounds expression nesting including nesting across
	// function calls; 0 disables the guard.
	MaxExprNesting uint64 `yaml:"max_expr_nesting"`
	// Dialect selects the builtin function set, "evm" or "wasm".
	Dialect string `yaml:"dialect"`
	// PrintAST echoes the parsed program before running it.
	PrintAST bool `yaml:"print_ast"`
}

// Default returns the settings used when no config file is given.
func Default() Settings {
	return Settings{
		MaxSteps:       DefaultMaxSteps,
		MaxExprNesting: DefaultMaxExprNesting,
		Dialect:        DialectEVM,
	}
}

// Load reads settings from a YAML file, filling unset fields from Default.
func Load(path string) (Settings, error) {
	settings := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Validate rejects settings no run can use.
func (s Settings) Validate() error {
	switch s.Dialect {
	case DialectEVM, DialectWasm:
		return nil
	default:
		return fmt.Errorf("unknown dialect %q", s.Dialect)
	}
}
