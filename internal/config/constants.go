package config

import (
	"path/filepath"
	"strings"
)

const SourceFileExt = ".yul"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{SourceFileExt, ".yulp"}

// IsSourceFile reports whether path carries a recognized source extension.
func IsSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range SourceFileExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Default resource limits for a single interpreter run. Zero disables the
// corresponding guard.
const (
	DefaultMaxSteps       = 10000
	DefaultMaxExprNesting = 64
)

// Dialect names accepted on the command line and in run settings.
const (
	DialectEVM  = "evm"
	DialectWasm = "wasm"
)
