package interpreter

import (
	"github.com/holiman/uint256"

	"github.com/FeiyangTan/solidity/internal/ast"
)

// exprEvaluator walks one expression tree. Every evaluation step (literal,
// identifier lookup, argument list) counts against the nesting budget, which
// it inherits from and hands on to the surrounding activation.
type exprEvaluator struct {
	state     *State
	dialect   Dialect
	scope     *Scope
	variables map[string]uint256.Int

	values  []uint256.Int
	nesting uint64
}

// evaluate evaluates an expression to exactly one word.
func (i *Interpreter) evaluate(expr ast.Expression) (uint256.Int, error) {
	ev := i.newEvaluator()
	if err := ev.visit(expr); err != nil {
		return uint256.Int{}, err
	}
	return ev.value()
}

// evaluateMulti evaluates an expression to a sequence of words, as needed at
// multi-return call sites in declarations and assignments.
func (i *Interpreter) evaluateMulti(expr ast.Expression) ([]uint256.Int, error) {
	ev := i.newEvaluator()
	if err := ev.visit(expr); err != nil {
		return nil, err
	}
	return ev.values, nil
}

func (i *Interpreter) newEvaluator() *exprEvaluator {
	return &exprEvaluator{
		state:     i.state,
		dialect:   i.dialect,
		scope:     i.scope,
		variables: i.variables,
		nesting:   i.exprNesting,
	}
}

func (ev *exprEvaluator) visit(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.Literal:
		if err := ev.incrementNesting(); err != nil {
			return err
		}
		ev.setValue(e.Value)
		return nil
	case *ast.Identifier:
		value, ok := ev.variables[e.Name]
		if !ok {
			return invariantf("reference to undeclared variable %q", e.Name)
		}
		if err := ev.incrementNesting(); err != nil {
			return err
		}
		ev.setValue(value)
		return nil
	case *ast.FunctionCall:
		return ev.visitCall(e)
	default:
		return invariantf("unknown expression node %T", expr)
	}
}

func (ev *exprEvaluator) visitCall(call *ast.FunctionCall) error {
	name := call.FunctionName.Name

	var builtin *BuiltinFunction
	if ev.dialect != nil {
		builtin = ev.dialect.Builtin(name)
	}
	var literalArguments []bool
	if builtin != nil && len(builtin.LiteralArguments) > 0 {
		literalArguments = builtin.LiteralArguments
	}
	if err := ev.evaluateArgs(call.Arguments, literalArguments); err != nil {
		return err
	}

	if builtin != nil {
		result, err := ev.dialect.EvalBuiltin(ev.state, builtin, call.Arguments, ev.values)
		if err != nil {
			return err
		}
		ev.setValue(result)
		return nil
	}

	scope, ok := ev.scope.lookupFunction(name)
	if !ok {
		return invariantf("call to unknown function %q", name)
	}
	funDef := scope.Names[name]
	if funDef == nil {
		return invariantf("%q is not a function", name)
	}
	if len(ev.values) != len(funDef.Parameters) {
		return invariantf("function %q called with %d arguments, expects %d",
			name, len(ev.values), len(funDef.Parameters))
	}

	// Fresh flat variable table for the activation: parameters bound to the
	// argument words, return variables zeroed.
	variables := make(map[string]uint256.Int, len(funDef.Parameters)+len(funDef.ReturnVariables))
	for idx, param := range funDef.Parameters {
		variables[param.Name] = ev.values[idx]
	}
	for _, ret := range funDef.ReturnVariables {
		variables[ret.Name] = uint256.Int{}
	}

	// The body runs under the definition's lexical scope, so nested function
	// resolution is lexical rather than dynamic. The control-flow signal is
	// reset on entry and again on exit: leave never escapes its own function.
	ev.state.ControlFlow = ControlFlowDefault
	frame := &Interpreter{
		state:       ev.state,
		dialect:     ev.dialect,
		scope:       scope,
		variables:   variables,
		exprNesting: ev.nesting,
	}
	if err := frame.execBlock(funDef.Body); err != nil {
		return err
	}
	ev.state.ControlFlow = ControlFlowDefault

	ev.values = ev.values[:0]
	for _, ret := range funDef.ReturnVariables {
		ev.values = append(ev.values, frame.variables[ret.Name])
	}
	return nil
}

// evaluateArgs evaluates a call's arguments in reverse (rightmost-first)
// order, then restores declaration order. This matches the target's
// evaluation-order contract; observable side effects depend on it, so it must
// not be "fixed" to left-to-right. Positions requiring literal arguments are
// not evaluated: a zero placeholder fills their slot and the builtin reads
// the raw node itself.
func (ev *exprEvaluator) evaluateArgs(args []ast.Expression, literalArguments []bool) error {
	if err := ev.incrementNesting(); err != nil {
		return err
	}
	values := make([]uint256.Int, 0, len(args))
	for idx := len(args) - 1; idx >= 0; idx-- {
		if idx >= len(literalArguments) || !literalArguments[idx] {
			if err := ev.visit(args[idx]); err != nil {
				return err
			}
		} else {
			ev.setValue(uint256.Int{})
		}
		value, err := ev.value()
		if err != nil {
			return err
		}
		values = append(values, value)
	}
	for l, r := 0, len(values)-1; l < r; l, r = l+1, r-1 {
		values[l], values[r] = values[r], values[l]
	}
	ev.values = values
	return nil
}

func (ev *exprEvaluator) incrementNesting() error {
	ev.nesting++
	if ev.state.MaxExprNesting > 0 && ev.nesting > ev.state.MaxExprNesting {
		ev.state.Trace = append(ev.state.Trace, "Maximum expression nesting level reached.")
		return ErrExpressionNestingLimitReached
	}
	return nil
}

func (ev *exprEvaluator) setValue(v uint256.Int) {
	ev.values = append(ev.values[:0], v)
}

func (ev *exprEvaluator) value() (uint256.Int, error) {
	if len(ev.values) != 1 {
		return uint256.Int{}, invariantf("expected a single value, got %d", len(ev.values))
	}
	return ev.values[0], nil
}
