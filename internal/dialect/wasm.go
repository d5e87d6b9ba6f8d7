package dialect

import (
	"encoding/binary"
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/FeiyangTan/solidity/internal/ast"
	"github.com/FeiyangTan/solidity/internal/interpreter"
)

const wasmPageSize = 65536

// WasmDialect is the builtin surface of the linear-memory (wasm) target.
// Values are typed i64/i32 in the source; the interpreter carries them in
// 256-bit words, so every builtin here operates on the low bits and wraps
// its result accordingly.
type WasmDialect struct {
	builtins map[string]*interpreter.BuiltinFunction
}

func NewWasmDialect() *WasmDialect {
	d := &WasmDialect{builtins: make(map[string]*interpreter.BuiltinFunction)}

	reg := func(name string, params, returns int) {
		d.builtins[name] = &interpreter.BuiltinFunction{Name: name, Params: params, Returns: returns}
	}

	for _, prefix := range []string{"i64", "i32"} {
		for _, op := range []string{"add", "sub", "mul", "div_u", "rem_u", "and", "or", "xor", "shl", "shr_u"} {
			reg(prefix+"."+op, 2, 1)
		}
		for _, op := range []string{"eq", "ne", "lt_u", "gt_u", "le_u", "ge_u"} {
			reg(prefix+"."+op, 2, 1)
		}
		reg(prefix+".eqz", 1, 1)
		reg(prefix+".clz", 1, 1)
		reg(prefix+".ctz", 1, 1)
		reg(prefix+".popcnt", 1, 1)
		reg(prefix+".store", 2, 0)
		reg(prefix+".load", 1, 1)
	}
	reg("i64.store8", 2, 0)
	reg("i64.load8_u", 1, 1)
	reg("i64.extend_i32_u", 1, 1)
	reg("i32.wrap_i64", 1, 1)
	reg("memory.size", 0, 1)
	reg("memory.grow", 1, 1)
	reg("drop", 1, 0)
	reg("nop", 0, 0)
	reg("unreachable", 0, 0)

	return d
}

func (d *WasmDialect) Builtin(name string) *interpreter.BuiltinFunction {
	return d.builtins[name]
}

func (d *WasmDialect) EvalBuiltin(
	state *interpreter.State,
	fn *interpreter.BuiltinFunction,
	rawArgs []ast.Expression,
	args []uint256.Int,
) (uint256.Int, error) {
	var out uint256.Int

	switch fn.Name {
	case "drop", "nop":
		return out, nil
	case "unreachable":
		state.Log("UNREACHABLE()")
		return out, interpreter.ErrExplicitlyTerminated
	case "memory.size":
		out.SetUint64(state.MemorySize() / wasmPageSize)
		return out, nil
	case "memory.grow":
		pages := state.MemorySize() / wasmPageSize
		grow, err := asOffset(&args[0])
		if err != nil {
			return out, err
		}
		// Touching the last byte of the new extent extends msize.
		if grow > 0 {
			state.ReadMemoryByte((pages+grow)*wasmPageSize - 1)
		}
		out.SetUint64(pages)
		return out, nil
	case "i64.store":
		return out, storeLE(state, &args[0], args[1].Uint64(), 8)
	case "i64.load":
		return loadLE(state, &args[0], 8)
	case "i64.store8":
		return out, storeLE(state, &args[0], args[1].Uint64(), 1)
	case "i64.load8_u":
		return loadLE(state, &args[0], 1)
	case "i32.store":
		return out, storeLE(state, &args[0], args[1].Uint64()&0xffffffff, 4)
	case "i32.load":
		return loadLE(state, &args[0], 4)
	case "i64.extend_i32_u":
		out.SetUint64(args[0].Uint64() & 0xffffffff)
		return out, nil
	case "i32.wrap_i64":
		out.SetUint64(args[0].Uint64() & 0xffffffff)
		return out, nil
	}

	// The remaining builtins are pure i64/i32 arithmetic on the low bits.
	a := args[0].Uint64()
	var b uint64
	if len(args) > 1 {
		b = args[1].Uint64()
	}
	wrap := uint64(0xffffffffffffffff)
	width := uint(64)
	name := fn.Name
	if len(name) > 4 && name[:4] == "i32." {
		wrap = 0xffffffff
		width = 32
		a &= wrap
		b &= wrap
		name = "i64." + name[4:]
	}

	switch name {
	case "i64.add":
		out.SetUint64((a + b) & wrap)
	case "i64.sub":
		out.SetUint64((a - b) & wrap)
	case "i64.mul":
		out.SetUint64((a * b) & wrap)
	case "i64.div_u":
		if b != 0 {
			out.SetUint64(a / b)
		}
	case "i64.rem_u":
		if b != 0 {
			out.SetUint64(a % b)
		}
	case "i64.and":
		out.SetUint64(a & b)
	case "i64.or":
		out.SetUint64(a | b)
	case "i64.xor":
		out.SetUint64(a ^ b)
	case "i64.shl":
		out.SetUint64((a << (b % uint64(width))) & wrap)
	case "i64.shr_u":
		out.SetUint64(a >> (b % uint64(width)))
	case "i64.eq":
		setBool(&out, a == b)
	case "i64.ne":
		setBool(&out, a != b)
	case "i64.lt_u":
		setBool(&out, a < b)
	case "i64.gt_u":
		setBool(&out, a > b)
	case "i64.le_u":
		setBool(&out, a <= b)
	case "i64.ge_u":
		setBool(&out, a >= b)
	case "i64.eqz":
		setBool(&out, a == 0)
	case "i64.clz":
		out.SetUint64(uint64(bits.LeadingZeros64(a)) - uint64(64-width))
	case "i64.ctz":
		if a == 0 {
			out.SetUint64(uint64(width))
		} else {
			out.SetUint64(uint64(bits.TrailingZeros64(a)))
		}
	case "i64.popcnt":
		out.SetUint64(uint64(bits.OnesCount64(a)))
	default:
		return out, invalidBuiltin("wasm", fn.Name)
	}
	return out, nil
}

func storeLE(state *interpreter.State, offset *uint256.Int, value uint64, size int) error {
	o, err := asOffset(offset)
	if err != nil {
		return err
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	state.WriteMemory(o, buf[:size])
	return nil
}

func loadLE(state *interpreter.State, offset *uint256.Int, size int) (uint256.Int, error) {
	var out uint256.Int
	o, err := asOffset(offset)
	if err != nil {
		return out, err
	}
	var buf [8]byte
	copy(buf[:], state.ReadMemory(o, uint64(size)))
	out.SetUint64(binary.LittleEndian.Uint64(buf[:]))
	return out, nil
}
