package dialect

import (
	"golang.org/x/crypto/sha3"

	"github.com/holiman/uint256"

	"github.com/FeiyangTan/solidity/internal/ast"
	"github.com/FeiyangTan/solidity/internal/interpreter"
)

// Fixed words returned by the environment builtins. The simulation has no
// real transaction context; distinct nonzero constants keep programs that
// branch on them deterministic and their traces readable.
var (
	evmAddress   = uint256.NewInt(0x0aaaaa)
	evmCaller    = uint256.NewInt(0x0ccccc)
	evmOrigin    = uint256.NewInt(0x000ccc)
	evmCoinbase  = uint256.NewInt(0x0bbbbb)
	evmGas       = uint256.NewInt(0x99)
	evmGasPrice  = uint256.NewInt(0x66)
	evmGasLimit  = uint256.NewInt(0x7fffffff)
	evmBlockNum  = uint256.NewInt(1024)
	evmTimestamp = uint256.NewInt(0x777777)
	evmChainID   = uint256.NewInt(0x01)
)

// EVMDialect is the builtin surface of the EVM target.
type EVMDialect struct {
	builtins map[string]*interpreter.BuiltinFunction
}

func NewEVMDialect() *EVMDialect {
	d := &EVMDialect{builtins: make(map[string]*interpreter.BuiltinFunction)}

	reg := func(name string, params, returns int) {
		d.builtins[name] = &interpreter.BuiltinFunction{Name: name, Params: params, Returns: returns}
	}
	regLiteral := func(name string, params, returns int, literal []bool) {
		d.builtins[name] = &interpreter.BuiltinFunction{Name: name, Params: params, Returns: returns, LiteralArguments: literal}
	}

	// Arithmetic and comparison.
	for _, name := range []string{"add", "sub", "mul", "div", "sdiv", "mod", "smod", "exp", "and", "or", "xor", "lt", "gt", "slt", "sgt", "eq", "byte", "shl", "shr", "sar", "signextend"} {
		reg(name, 2, 1)
	}
	reg("addmod", 3, 1)
	reg("mulmod", 3, 1)
	reg("not", 1, 1)
	reg("iszero", 1, 1)

	// Memory, storage, hashing.
	reg("keccak256", 2, 1)
	reg("mload", 1, 1)
	reg("mstore", 2, 0)
	reg("mstore8", 2, 0)
	reg("msize", 0, 1)
	reg("sload", 1, 1)
	reg("sstore", 2, 0)
	reg("pop", 1, 0)

	// Execution environment.
	reg("address", 0, 1)
	reg("origin", 0, 1)
	reg("caller", 0, 1)
	reg("callvalue", 0, 1)
	reg("calldataload", 1, 1)
	reg("calldatasize", 0, 1)
	reg("calldatacopy", 3, 0)
	reg("codesize", 0, 1)
	reg("codecopy", 3, 0)
	reg("extcodesize", 1, 1)
	reg("extcodecopy", 4, 0)
	reg("extcodehash", 1, 1)
	reg("returndatasize", 0, 1)
	reg("returndatacopy", 3, 0)
	reg("balance", 1, 1)
	reg("selfbalance", 0, 1)
	reg("blockhash", 1, 1)
	reg("coinbase", 0, 1)
	reg("timestamp", 0, 1)
	reg("number", 0, 1)
	reg("difficulty", 0, 1)
	reg("prevrandao", 0, 1)
	reg("gaslimit", 0, 1)
	reg("gasprice", 0, 1)
	reg("gas", 0, 1)
	reg("chainid", 0, 1)
	reg("basefee", 0, 1)

	// Calls and logs: logged to the trace, results stubbed.
	reg("create", 3, 1)
	reg("create2", 4, 1)
	reg("call", 7, 1)
	reg("callcode", 7, 1)
	reg("delegatecall", 6, 1)
	reg("staticcall", 6, 1)
	reg("selfdestruct", 1, 0)
	for n := 0; n <= 4; n++ {
		reg("log"+string(rune('0'+n)), 2+n, 0)
	}

	// Termination.
	reg("stop", 0, 0)
	reg("return", 2, 0)
	reg("revert", 2, 0)
	reg("invalid", 0, 0)

	// Object access; the name argument must be a literal.
	regLiteral("datasize", 1, 1, []bool{true})
	regLiteral("dataoffset", 1, 1, []bool{true})
	reg("datacopy", 3, 0)
	regLiteral("memoryguard", 1, 1, []bool{true})
	regLiteral("linkersymbol", 1, 1, []bool{true})

	return d
}

func (d *EVMDialect) Builtin(name string) *interpreter.BuiltinFunction {
	return d.builtins[name]
}

func (d *EVMDialect) EvalBuiltin(
	state *interpreter.State,
	fn *interpreter.BuiltinFunction,
	rawArgs []ast.Expression,
	args []uint256.Int,
) (uint256.Int, error) {
	var out uint256.Int

	switch fn.Name {
	case "add":
		out.Add(&args[0], &args[1])
	case "sub":
		out.Sub(&args[0], &args[1])
	case "mul":
		out.Mul(&args[0], &args[1])
	case "div":
		out.Div(&args[0], &args[1])
	case "sdiv":
		out.SDiv(&args[0], &args[1])
	case "mod":
		out.Mod(&args[0], &args[1])
	case "smod":
		out.SMod(&args[0], &args[1])
	case "exp":
		out.Exp(&args[0], &args[1])
	case "addmod":
		out.AddMod(&args[0], &args[1], &args[2])
	case "mulmod":
		out.MulMod(&args[0], &args[1], &args[2])
	case "signextend":
		out.ExtendSign(&args[1], &args[0])
	case "and":
		out.And(&args[0], &args[1])
	case "or":
		out.Or(&args[0], &args[1])
	case "xor":
		out.Xor(&args[0], &args[1])
	case "not":
		out.Not(&args[0])
	case "byte":
		out.Set(&args[1])
		out.Byte(&args[0])
	case "shl":
		if args[0].LtUint64(256) {
			out.Lsh(&args[1], uint(args[0].Uint64()))
		}
	case "shr":
		if args[0].LtUint64(256) {
			out.Rsh(&args[1], uint(args[0].Uint64()))
		}
	case "sar":
		if args[0].LtUint64(256) {
			out.SRsh(&args[1], uint(args[0].Uint64()))
		} else if args[1].Sign() < 0 {
			out.Not(&out) // all ones
		}
	case "lt":
		setBool(&out, args[0].Lt(&args[1]))
	case "gt":
		setBool(&out, args[0].Gt(&args[1]))
	case "slt":
		setBool(&out, args[0].Slt(&args[1]))
	case "sgt":
		setBool(&out, args[0].Sgt(&args[1]))
	case "eq":
		setBool(&out, args[0].Eq(&args[1]))
	case "iszero":
		setBool(&out, args[0].IsZero())

	case "keccak256":
		offset, size, err := asRange(&args[0], &args[1])
		if err != nil {
			return out, err
		}
		h := sha3.NewLegacyKeccak256()
		h.Write(state.ReadMemory(offset, size))
		out.SetBytes(h.Sum(nil))
	case "mload":
		offset, err := asOffset(&args[0])
		if err != nil {
			return out, err
		}
		out = state.ReadMemoryWord(offset)
	case "mstore":
		offset, err := asOffset(&args[0])
		if err != nil {
			return out, err
		}
		state.WriteMemoryWord(offset, args[1])
	case "mstore8":
		offset, err := asOffset(&args[0])
		if err != nil {
			return out, err
		}
		state.WriteMemoryByte(offset, byte(args[1].Uint64()))
	case "msize":
		out.SetUint64(state.MemorySize())
	case "sload":
		value := state.Storage[args[0].Bytes32()]
		out.SetBytes(value[:])
	case "sstore":
		state.Storage[args[0].Bytes32()] = args[1].Bytes32()
	case "pop":

	case "address":
		out.Set(evmAddress)
	case "origin":
		out.Set(evmOrigin)
	case "caller":
		out.Set(evmCaller)
	case "callvalue", "calldataload", "calldatasize", "returndatasize",
		"extcodesize", "extcodehash", "balance", "selfbalance", "blockhash",
		"difficulty", "prevrandao", "basefee":
		// Zero in the simulated environment.
	case "coinbase":
		out.Set(evmCoinbase)
	case "timestamp":
		out.Set(evmTimestamp)
	case "number":
		out.Set(evmBlockNum)
	case "gaslimit":
		out.Set(evmGasLimit)
	case "gasprice":
		out.Set(evmGasPrice)
	case "gas":
		out.Set(evmGas)
	case "chainid":
		out.Set(evmChainID)
	case "codesize":
		out.SetUint64(0x6000)

	case "calldatacopy", "codecopy", "returndatacopy":
		// The simulated call data and code are all zeros.
		offset, size, err := asRange(&args[0], &args[2])
		if err != nil {
			return out, err
		}
		state.WriteMemory(offset, make([]byte, size))
	case "extcodecopy":
		offset, size, err := asRange(&args[1], &args[3])
		if err != nil {
			return out, err
		}
		state.WriteMemory(offset, make([]byte, size))

	case "create", "create2", "call", "callcode", "delegatecall", "staticcall":
		state.Log("%s(%s)", upper(fn.Name), hexArgs(args))
		if fn.Name == "create" || fn.Name == "create2" {
			out.Set(evmAddress)
		} else {
			out.SetOne()
		}
	case "selfdestruct":
		state.Log("SELFDESTRUCT(%s)", hexArgs(args))
		return out, interpreter.ErrExplicitlyTerminated
	case "log0", "log1", "log2", "log3", "log4":
		state.Log("%s(%s)", upper(fn.Name), hexArgs(args))

	case "stop":
		state.Log("STOP()")
		return out, interpreter.ErrExplicitlyTerminated
	case "return":
		state.Log("RETURN(%s)", hexArgs(args))
		return out, interpreter.ErrExplicitlyTerminated
	case "revert":
		state.Log("REVERT(%s)", hexArgs(args))
		return out, interpreter.ErrExplicitlyTerminated
	case "invalid":
		state.Log("INVALID()")
		return out, interpreter.ErrExplicitlyTerminated

	case "datasize", "dataoffset", "linkersymbol":
		name, err := literalSource(rawArgs[0])
		if err != nil {
			return out, err
		}
		state.Log("%s(\"%s\")", upper(fn.Name), name)
		// Deterministic pseudo value derived from the name; the simulation
		// has no real object layout.
		h := sha3.NewLegacyKeccak256()
		h.Write([]byte(name))
		out.SetBytes(h.Sum(nil)[:4])
	case "memoryguard":
		lit, ok := rawArgs[0].(*ast.Literal)
		if !ok {
			return out, errLiteralExpected(fn.Name)
		}
		out = lit.Value
	case "datacopy":
		to, err := asOffset(&args[0])
		if err != nil {
			return out, err
		}
		from, size, err := asRange(&args[1], &args[2])
		if err != nil {
			return out, err
		}
		state.WriteMemory(to, state.ReadMemory(from, size))

	default:
		return out, invalidBuiltin("evm", fn.Name)
	}
	return out, nil
}
