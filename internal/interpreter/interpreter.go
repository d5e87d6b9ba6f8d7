package interpreter

import (
	"github.com/holiman/uint256"

	"github.com/FeiyangTan/solidity/internal/ast"
)

// Interpreter is one function activation: the statement executor plus the
// flat variable table of the owning function. Block-scoped names are tracked
// by the scope tree for cleanup, but their values live here.
type Interpreter struct {
	state     *State
	dialect   Dialect
	scope     *Scope
	variables map[string]uint256.Int

	// exprNesting is the expression nesting depth inherited from the call
	// site. Nested activations start counting from the caller's depth so the
	// nesting guard bounds IR recursion across function boundaries, not just
	// within one expression.
	exprNesting uint64
}

// Run executes a top-level program block against state. The dialect supplies
// the builtin surface; it may be nil, in which case every call must resolve
// to a user-defined function.
func Run(state *State, dialect Dialect, program *ast.Block) error {
	i := &Interpreter{
		state:     state,
		dialect:   dialect,
		scope:     newScope(nil),
		variables: make(map[string]uint256.Int),
	}
	return i.execBlock(program)
}

func (i *Interpreter) execStatement(stmt ast.Statement) error {
	switch st := stmt.(type) {
	case *ast.Block:
		return i.execBlock(st)
	case *ast.ExpressionStatement:
		_, err := i.evaluateMulti(st.Expression)
		return err
	case *ast.Assignment:
		return i.execAssignment(st)
	case *ast.VariableDeclaration:
		return i.execVariableDeclaration(st)
	case *ast.If:
		return i.execIf(st)
	case *ast.Switch:
		return i.execSwitch(st)
	case *ast.ForLoop:
		return i.execForLoop(st)
	case *ast.FunctionDefinition:
		// Registered at block entry; nothing to execute.
		return nil
	case *ast.Break:
		i.state.ControlFlow = ControlFlowBreak
		return nil
	case *ast.Continue:
		i.state.ControlFlow = ControlFlowContinue
		return nil
	case *ast.Leave:
		i.state.ControlFlow = ControlFlowLeave
		return nil
	default:
		return invariantf("unknown statement node %T", stmt)
	}
}

func (i *Interpreter) execBlock(block *ast.Block) error {
	i.enterScope(block)
	err := i.execBlockStatements(block)
	// The scope is left even when the block stopped early.
	if lerr := i.leaveScope(); err == nil {
		err = lerr
	}
	return err
}

func (i *Interpreter) execBlockStatements(block *ast.Block) error {
	// Pre-register every direct function definition so forward and mutual
	// calls resolve regardless of textual order.
	for _, stmt := range block.Statements {
		if fd, ok := stmt.(*ast.FunctionDefinition); ok {
			i.scope.Names[fd.Name] = fd
		}
	}

	for _, stmt := range block.Statements {
		if err := i.execStatement(stmt); err != nil {
			return err
		}
		if err := i.incrementStep(); err != nil {
			return err
		}
		if i.state.ControlFlow != ControlFlowDefault {
			break
		}
	}
	return nil
}

func (i *Interpreter) execAssignment(st *ast.Assignment) error {
	values, err := i.evaluateMulti(st.Value)
	if err != nil {
		return err
	}
	if len(values) != len(st.VariableNames) {
		return invariantf("assignment of %d values to %d variables", len(values), len(st.VariableNames))
	}
	for idx, name := range st.VariableNames {
		if _, ok := i.variables[name.Name]; !ok {
			return invariantf("assignment to undeclared variable %q", name.Name)
		}
		i.variables[name.Name] = values[idx]
	}
	return nil
}

func (i *Interpreter) execVariableDeclaration(st *ast.VariableDeclaration) error {
	values := make([]uint256.Int, len(st.Variables))
	if st.Value != nil {
		var err error
		values, err = i.evaluateMulti(st.Value)
		if err != nil {
			return err
		}
		if len(values) != len(st.Variables) {
			return invariantf("declaration of %d variables from %d values", len(st.Variables), len(values))
		}
	}
	for idx, v := range st.Variables {
		if _, exists := i.variables[v.Name]; exists {
			return invariantf("redeclaration of variable %q", v.Name)
		}
		i.variables[v.Name] = values[idx]
		i.scope.Names[v.Name] = nil
	}
	return nil
}

func (i *Interpreter) execIf(st *ast.If) error {
	cond, err := i.evaluate(st.Condition)
	if err != nil {
		return err
	}
	if cond.IsZero() {
		return nil
	}
	return i.execBlock(st.Body)
}

func (i *Interpreter) execSwitch(st *ast.Switch) error {
	value, err := i.evaluate(st.Expression)
	if err != nil {
		return err
	}
	// The default case has to be last; exactly one case body executes.
	for _, c := range st.Cases {
		if c.Value == nil {
			return i.execBlock(c.Body)
		}
		caseValue, err := i.evaluate(c.Value)
		if err != nil {
			return err
		}
		if caseValue.Eq(&value) {
			return i.execBlock(c.Body)
		}
	}
	return nil
}

func (i *Interpreter) execForLoop(st *ast.ForLoop) error {
	i.enterScope(st.Pre)
	err := i.runForLoop(st)
	if lerr := i.leaveScope(); err == nil {
		err = lerr
	}
	return err
}

func (i *Interpreter) runForLoop(st *ast.ForLoop) error {
	for _, stmt := range st.Pre.Statements {
		if err := i.execStatement(stmt); err != nil {
			return err
		}
		if err := i.incrementStep(); err != nil {
			return err
		}
		if i.state.ControlFlow == ControlFlowLeave {
			// A leave during pre aborts the loop immediately; the signal
			// keeps propagating toward the enclosing function boundary.
			return nil
		}
	}
	for {
		cond, err := i.evaluate(st.Condition)
		if err != nil {
			return err
		}
		if cond.IsZero() {
			break
		}

		// A loop whose body and post blocks are both empty never touches the
		// step counter; count one step per iteration so the limit still
		// bites.
		if len(st.Body.Statements) == 0 && len(st.Post.Statements) == 0 {
			if err := i.incrementStep(); err != nil {
				return err
			}
		}

		i.state.ControlFlow = ControlFlowDefault
		if err := i.execBlock(st.Body); err != nil {
			return err
		}
		if i.state.ControlFlow == ControlFlowBreak || i.state.ControlFlow == ControlFlowLeave {
			break
		}

		i.state.ControlFlow = ControlFlowDefault
		if err := i.execBlock(st.Post); err != nil {
			return err
		}
		if i.state.ControlFlow == ControlFlowLeave {
			break
		}
	}
	if i.state.ControlFlow != ControlFlowLeave {
		i.state.ControlFlow = ControlFlowDefault
	}
	return nil
}

func (i *Interpreter) enterScope(block *ast.Block) {
	sub, ok := i.scope.SubScopes[block]
	if !ok {
		sub = newScope(i.scope)
		i.scope.SubScopes[block] = sub
	}
	i.scope = sub
}

// leaveScope erases the value bindings of variables declared in the current
// scope and restores the parent. Function definitions stay registered: they
// have no value binding and remain resolvable for the scope's lifetime.
func (i *Interpreter) leaveScope() error {
	for name, funDef := range i.scope.Names {
		if funDef == nil {
			delete(i.variables, name)
		}
	}
	if i.scope.Parent == nil {
		return invariantf("cannot leave the root scope")
	}
	i.scope = i.scope.Parent
	return nil
}

func (i *Interpreter) incrementStep() error {
	i.state.NumSteps++
	if i.state.MaxSteps > 0 && i.state.NumSteps >= i.state.MaxSteps {
		i.state.Trace = append(i.state.Trace, "Interpreter execution step limit reached.")
		return ErrStepLimitReached
	}
	return nil
}
