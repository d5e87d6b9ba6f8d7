// Package dialect implements the target-specific builtin surfaces the
// interpreter dispatches to: an EVM-style dialect simulating a
// stack/storage/memory machine and a wasm-style dialect simulating a
// linear-memory machine. Exactly one dialect is active per run.
package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/FeiyangTan/solidity/internal/ast"
	"github.com/FeiyangTan/solidity/internal/interpreter"
)

// ForName returns the dialect registered under name ("evm" or "wasm").
func ForName(name string) (interpreter.Dialect, error) {
	switch name {
	case "evm":
		return NewEVMDialect(), nil
	case "wasm":
		return NewWasmDialect(), nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", name)
	}
}

// errMemoryAccess reports a simulated memory access too large to back with
// host memory. It terminates the run like an explicit invalid instruction.
var errMemoryAccess = errors.New("memory access outside reasonable bounds")

// asOffset narrows a word to a host-addressable offset.
func asOffset(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() || v.Uint64() > 1<<32 {
		return 0, errMemoryAccess
	}
	return v.Uint64(), nil
}

// maxRangeSize caps the size of a builtin memory range. Offsets get the
// looser asOffset bound; a range this long would already materialize more
// host memory than any sensible program touches.
const maxRangeSize = 0xffff

// asRange narrows an (offset, size) word pair to host-addressable bounds.
func asRange(offset, size *uint256.Int) (uint64, uint64, error) {
	o, err := asOffset(offset)
	if err != nil {
		return 0, 0, err
	}
	if !size.IsUint64() || size.Uint64() > maxRangeSize {
		return 0, 0, errMemoryAccess
	}
	return o, size.Uint64(), nil
}

// literalSource extracts the source text of a literal-argument position.
// The analyzer guarantees the node is a literal.
func literalSource(arg ast.Expression) (string, error) {
	lit, ok := arg.(*ast.Literal)
	if !ok {
		return "", fmt.Errorf("literal argument expected, got %T", arg)
	}
	return lit.Source, nil
}

func errLiteralExpected(builtin string) error {
	return fmt.Errorf("builtin %s requires a literal argument", builtin)
}

func invalidBuiltin(dialect, name string) error {
	return fmt.Errorf("%s dialect has no evaluation rule for builtin %q", dialect, name)
}

func setBool(out *uint256.Int, b bool) {
	if b {
		out.SetOne()
	}
}

func upper(s string) string {
	return strings.ToUpper(s)
}

// hexArgs renders evaluated argument words for the trace.
func hexArgs(args []uint256.Int) string {
	parts := make([]string, len(args))
	for i := range args {
		parts[i] = args[i].Hex()
	}
	return strings.Join(parts, ", ")
}
