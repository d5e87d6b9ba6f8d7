package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FeiyangTan/solidity/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	s := config.Default()
	if s.MaxSteps != config.DefaultMaxSteps {
		t.Errorf("MaxSteps = %d", s.MaxSteps)
	}
	if s.MaxExprNesting != config.DefaultMaxExprNesting {
		t.Errorf("MaxExprNesting = %d", s.MaxExprNesting)
	}
	if s.Dialect != config.DialectEVM {
		t.Errorf("Dialect = %q", s.Dialect)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default settings invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "max_steps: 500\ndialect: wasm\n")
	s, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxSteps != 500 {
		t.Errorf("MaxSteps = %d, want 500", s.MaxSteps)
	}
	if s.Dialect != config.DialectWasm {
		t.Errorf("Dialect = %q, want wasm", s.Dialect)
	}
	// Unset fields keep their defaults.
	if s.MaxExprNesting != config.DefaultMaxExprNesting {
		t.Errorf("MaxExprNesting = %d, want default", s.MaxExprNesting)
	}
}

func TestLoad_ZeroDisablesLimits(t *testing.T) {
	path := writeConfig(t, "max_steps: 0\nmax_expr_nesting: 0\n")
	s, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxSteps != 0 || s.MaxExprNesting != 0 {
		t.Errorf("limits = %d/%d, want 0/0", s.MaxSteps, s.MaxExprNesting)
	}
}

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"prog.yul", true},
		{"dir/prog.YUL", true},
		{"prog.yulp", true},
		{"prog.txt", false},
		{"prog", false},
		{"yul", false},
	}
	for _, tt := range tests {
		if got := config.IsSourceFile(tt.path); got != tt.want {
			t.Errorf("IsSourceFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := config.Load(writeConfig(t, "max_steps: [not a number]\n")); err == nil {
		t.Error("expected error for malformed YAML")
	}
	if _, err := config.Load(writeConfig(t, "dialect: mips\n")); err == nil {
		t.Error("expected error for unknown dialect")
	}
}
