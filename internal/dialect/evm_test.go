package dialect_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/holiman/uint256"

	"github.com/FeiyangTan/solidity/internal/analyzer"
	"github.com/FeiyangTan/solidity/internal/dialect"
	"github.com/FeiyangTan/solidity/internal/interpreter"
	"github.com/FeiyangTan/solidity/internal/parser"
	"github.com/FeiyangTan/solidity/internal/pipeline"
)

func runDialect(t *testing.T, name, source string) (*interpreter.State, error) {
	t.Helper()
	d, err := dialect.ForName(name)
	if err != nil {
		t.Fatal(err)
	}
	ctx := pipeline.New(
		&parser.Processor{},
		analyzer.NewProcessor(d),
	).Run(pipeline.NewContext(source, "test.yul"))
	if ctx.HasErrors() {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("diagnostics:\n%s\nsource: %s", strings.Join(msgs, "\n"), source)
	}
	state := interpreter.NewState(0, 0)
	return state, interpreter.Run(state, d, ctx.Program)
}

func runEVM(t *testing.T, source string) (*interpreter.State, error) {
	t.Helper()
	return runDialect(t, "evm", source)
}

// storedWord reads back the storage slot written by the program under test.
func storedWord(state *interpreter.State, slot uint64) uint256.Int {
	key := uint256.NewInt(slot).Bytes32()
	var out uint256.Int
	value := state.Storage[key]
	out.SetBytes(value[:])
	return out
}

func TestEVM_Arithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want uint64
	}{
		{"add(2, 3)", 5},
		{"sub(10, 4)", 6},
		{"mul(6, 7)", 42},
		{"div(42, 6)", 7},
		{"div(1, 0)", 0},
		{"mod(10, 3)", 1},
		{"mod(10, 0)", 0},
		{"exp(2, 10)", 1024},
		{"addmod(6, 5, 7)", 4},
		{"mulmod(6, 5, 7)", 2},
		{"and(12, 10)", 8},
		{"or(12, 10)", 14},
		{"xor(12, 10)", 6},
		{"byte(31, 0xff)", 0xff},
		{"byte(30, 0xff)", 0},
		{"shl(4, 1)", 16},
		{"shr(4, 16)", 1},
		{"shl(256, 1)", 0},
		{"shr(256, 16)", 0},
		{"lt(1, 2)", 1},
		{"lt(2, 1)", 0},
		{"gt(2, 1)", 1},
		{"eq(5, 5)", 1},
		{"eq(5, 6)", 0},
		{"iszero(0)", 1},
		{"iszero(3)", 0},
	}
	for _, tt := range tests {
		state, err := runEVM(t, "{ sstore(0, "+tt.expr+") }")
		if err != nil {
			t.Errorf("%s: %v", tt.expr, err)
			continue
		}
		if got := storedWord(state, 0); got.Uint64() != tt.want {
			t.Errorf("%s = %s, want %d", tt.expr, got.Hex(), tt.want)
		}
	}
}

func TestEVM_SubWrapsAround(t *testing.T) {
	state, err := runEVM(t, "{ sstore(0, sub(0, 1)) }")
	if err != nil {
		t.Fatal(err)
	}
	got := storedWord(state, 0)
	word := got.Bytes32()
	for _, b := range word {
		if b != 0xff {
			t.Fatalf("sub(0, 1) = %x", word)
		}
	}
}

func TestEVM_SignedOps(t *testing.T) {
	tests := []struct {
		expr string
		want uint64
	}{
		{"slt(sub(0, 1), 0)", 1}, // -1 < 0
		{"sgt(0, sub(0, 1))", 1},
		{"sdiv(sub(0, 6), 2)", 0}, // -3, checked separately
	}
	for _, tt := range tests[:2] {
		state, err := runEVM(t, "{ sstore(0, "+tt.expr+") }")
		if err != nil {
			t.Fatal(err)
		}
		if got := storedWord(state, 0); got.Uint64() != tt.want {
			t.Errorf("%s = %s, want %d", tt.expr, got.Hex(), tt.want)
		}
	}

	state, err := runEVM(t, "{ sstore(0, sdiv(sub(0, 6), 2)) }")
	if err != nil {
		t.Fatal(err)
	}
	// -6 / 2 = -3
	var minusThree uint256.Int
	minusThree.SetAllOne()
	minusThree.SubUint64(&minusThree, 2)
	if got := storedWord(state, 0); !got.Eq(&minusThree) {
		t.Fatalf("sdiv(-6, 2) = %s", got.Hex())
	}
}

func TestEVM_SarSignFill(t *testing.T) {
	state, err := runEVM(t, "{ sstore(0, sar(300, sub(0, 1))) }")
	if err != nil {
		t.Fatal(err)
	}
	got := storedWord(state, 0)
	var allOnes uint256.Int
	allOnes.SetAllOne()
	if !got.Eq(&allOnes) {
		t.Fatalf("sar(300, -1) = %s, want all ones", got.Hex())
	}

	state, err = runEVM(t, "{ sstore(0, sar(300, 1)) }")
	if err != nil {
		t.Fatal(err)
	}
	if got := storedWord(state, 0); !got.IsZero() {
		t.Fatalf("sar(300, 1) = %s, want 0", got.Hex())
	}
}

func TestEVM_MemoryRoundTrip(t *testing.T) {
	state, err := runEVM(t, `{
        mstore(0x40, 0x1234)
        sstore(0, mload(0x40))
        mstore8(0x60, 0xab)
        sstore(1, mload(0x41))
    }`)
	if err != nil {
		t.Fatal(err)
	}
	if got := storedWord(state, 0); got.Uint64() != 0x1234 {
		t.Fatalf("mload(0x40) = %s", got.Hex())
	}
	// The byte written at 0x60 lands at the end of the word read from 0x41.
	if got := storedWord(state, 1); got.Uint64()&0xff != 0xab {
		t.Fatalf("mload(0x41) = %s", got.Hex())
	}
}

func TestEVM_Msize(t *testing.T) {
	state, err := runEVM(t, `{
        sstore(0, msize())
        mstore8(100, 1)
        sstore(1, msize())
    }`)
	if err != nil {
		t.Fatal(err)
	}
	if got := storedWord(state, 0); !got.IsZero() {
		t.Fatalf("initial msize = %s", got.Hex())
	}
	if got := storedWord(state, 1); got.Uint64() != 128 {
		t.Fatalf("msize after mstore8(100) = %s, want 128", got.Hex())
	}
}

func TestEVM_StorageRoundTrip(t *testing.T) {
	state, err := runEVM(t, `{
        sstore(7, 99)
        sstore(8, sload(7))
        sstore(9, sload(12345))
    }`)
	if err != nil {
		t.Fatal(err)
	}
	if got := storedWord(state, 8); got.Uint64() != 99 {
		t.Fatalf("sload(7) = %s", got.Hex())
	}
	if got := storedWord(state, 9); !got.IsZero() {
		t.Fatalf("sload of untouched slot = %s", got.Hex())
	}
}

func TestEVM_Keccak256(t *testing.T) {
	// keccak256 of 32 zero bytes.
	state, err := runEVM(t, "{ sstore(0, keccak256(0, 32)) }")
	if err != nil {
		t.Fatal(err)
	}
	want, err := uint256.FromHex("0x290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563")
	if err != nil {
		t.Fatal(err)
	}
	if got := storedWord(state, 0); !got.Eq(want) {
		t.Fatalf("keccak256(0, 32) = %s", got.Hex())
	}
}

func TestEVM_TerminationBuiltins(t *testing.T) {
	tests := []struct {
		source string
		trace  string
	}{
		{"{ stop() sstore(0, 1) }", "STOP()"},
		{"{ return(0, 32) }", "RETURN(0x0, 0x20)"},
		{"{ revert(0, 0) }", "REVERT(0x0, 0x0)"},
		{"{ invalid() }", "INVALID()"},
		{"{ selfdestruct(caller()) }", "SELFDESTRUCT(0xccccc)"},
	}
	for _, tt := range tests {
		state, err := runEVM(t, tt.source)
		if !errors.Is(err, interpreter.ErrExplicitlyTerminated) {
			t.Errorf("%s: err = %v, want ErrExplicitlyTerminated", tt.source, err)
			continue
		}
		if len(state.Trace) != 1 || state.Trace[0] != tt.trace {
			t.Errorf("%s: trace = %v, want [%s]", tt.source, state.Trace, tt.trace)
		}
	}
}

func TestEVM_TerminationStopsExecution(t *testing.T) {
	state, err := runEVM(t, `{
        sstore(0, 1)
        stop()
        sstore(0, 2)
    }`)
	if !errors.Is(err, interpreter.ErrExplicitlyTerminated) {
		t.Fatalf("err = %v", err)
	}
	if got := storedWord(state, 0); got.Uint64() != 1 {
		t.Fatalf("slot 0 = %s, want 1", got.Hex())
	}
}

func TestEVM_CallsAreLoggedAndStubbed(t *testing.T) {
	state, err := runEVM(t, `{
        sstore(0, call(gas(), 1, 2, 3, 4, 5, 6))
        sstore(1, create(0, 0, 0))
    }`)
	if err != nil {
		t.Fatal(err)
	}
	if got := storedWord(state, 0); got.Uint64() != 1 {
		t.Fatalf("call result = %s, want 1", got.Hex())
	}
	if got := storedWord(state, 1); got.Uint64() != 0x0aaaaa {
		t.Fatalf("create result = %s", got.Hex())
	}
	if len(state.Trace) != 2 || !strings.HasPrefix(state.Trace[0], "CALL(") || !strings.HasPrefix(state.Trace[1], "CREATE(") {
		t.Fatalf("trace = %v", state.Trace)
	}
}

func TestEVM_LogBuiltins(t *testing.T) {
	state, err := runEVM(t, "{ log2(0, 32, 7, 8) }")
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Trace) != 1 || state.Trace[0] != "LOG2(0x0, 0x20, 0x7, 0x8)" {
		t.Fatalf("trace = %v", state.Trace)
	}
}

func TestEVM_Environment(t *testing.T) {
	state, err := runEVM(t, `{
        sstore(0, address())
        sstore(1, caller())
        sstore(2, callvalue())
        sstore(3, chainid())
    }`)
	if err != nil {
		t.Fatal(err)
	}
	if got := storedWord(state, 0); got.Uint64() != 0x0aaaaa {
		t.Fatalf("address() = %s", got.Hex())
	}
	if got := storedWord(state, 1); got.Uint64() != 0x0ccccc {
		t.Fatalf("caller() = %s", got.Hex())
	}
	if got := storedWord(state, 2); !got.IsZero() {
		t.Fatalf("callvalue() = %s", got.Hex())
	}
	if got := storedWord(state, 3); got.Uint64() != 1 {
		t.Fatalf("chainid() = %s", got.Hex())
	}
}

func TestEVM_CopyBuiltinsZeroFill(t *testing.T) {
	state, err := runEVM(t, `{
        mstore(0, not(0))
        calldatacopy(0, 0, 32)
        sstore(0, mload(0))
    }`)
	if err != nil {
		t.Fatal(err)
	}
	if got := storedWord(state, 0); !got.IsZero() {
		t.Fatalf("calldatacopy did not zero memory: %s", got.Hex())
	}
}

func TestEVM_ObjectBuiltins(t *testing.T) {
	state, err := runEVM(t, `{
        sstore(0, datasize("obj"))
        sstore(1, dataoffset("obj"))
        sstore(2, memoryguard(0x80))
    }`)
	if err != nil {
		t.Fatal(err)
	}
	// datasize and dataoffset derive the same pseudo value from the name.
	if a, b := storedWord(state, 0), storedWord(state, 1); !a.Eq(&b) || a.IsZero() {
		t.Fatalf("datasize = %s, dataoffset = %s", a.Hex(), b.Hex())
	}
	if got := storedWord(state, 2); got.Uint64() != 0x80 {
		t.Fatalf("memoryguard(0x80) = %s", got.Hex())
	}
	if len(state.Trace) < 2 || state.Trace[0] != `DATASIZE("obj")` {
		t.Fatalf("trace = %v", state.Trace)
	}
}

func TestEVM_Factorial(t *testing.T) {
	state, err := runEVM(t, `{
        function fact(n) -> r {
            switch n
            case 0 { r := 1 }
            default { r := mul(n, fact(sub(n, 1))) }
        }
        sstore(0, fact(5))
    }`)
	if err != nil {
		t.Fatal(err)
	}
	if got := storedWord(state, 0); got.Uint64() != 120 {
		t.Fatalf("fact(5) = %s, want 120", got.Hex())
	}
}

func TestEVM_PureLocalsLeaveStateClean(t *testing.T) {
	state, err := runEVM(t, "{ let x := 3 let y := add(x, 4) }")
	if err != nil {
		t.Fatal(err)
	}
	var dump strings.Builder
	if err := state.DumpTraceAndState(&dump); err != nil {
		t.Fatal(err)
	}
	want := "Trace:\nMemory dump:\nStorage dump:\n"
	if dump.String() != want {
		t.Fatalf("dump = %q, want %q", dump.String(), want)
	}
}

func TestEVM_LiteralArgumentRequired(t *testing.T) {
	d, err := dialect.ForName("evm")
	if err != nil {
		t.Fatal(err)
	}
	ctx := pipeline.New(
		&parser.Processor{},
		analyzer.NewProcessor(d),
	).Run(pipeline.NewContext(`{ let x := 1 let y := datasize(x) }`, "test.yul"))
	if !ctx.HasErrors() {
		t.Fatal("expected a diagnostic for non-literal datasize argument")
	}
}

func TestEVM_HugeMemoryOffsetFails(t *testing.T) {
	_, err := runEVM(t, "{ mstore(not(0), 1) }")
	if err == nil {
		t.Fatal("expected an error for an unbackable memory offset")
	}
	if errors.As(err, new(*interpreter.InvariantError)) {
		t.Fatalf("memory overflow must not be an invariant violation: %v", err)
	}
}

func TestEVM_HugeRangeSizeFails(t *testing.T) {
	// Sizes past the range cap must fail before any per-byte memory work.
	sources := []string{
		"{ calldatacopy(0, 0, 0xffffffff) }",
		"{ pop(keccak256(0, 0x10000)) }",
		"{ codecopy(0, 0, not(0)) }",
	}
	for _, source := range sources {
		_, err := runEVM(t, source)
		if err == nil {
			t.Errorf("%s: expected an error for an unbackable range size", source)
			continue
		}
		if errors.As(err, new(*interpreter.InvariantError)) {
			t.Errorf("%s: range overflow must not be an invariant violation: %v", source, err)
		}
	}
}
