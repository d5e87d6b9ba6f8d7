// Package analyzer validates a parsed Yul program before interpretation: it
// resolves every name, rejects redeclaration and shadowing, checks that
// break/continue/leave appear where the grammar allows them, and checks call
// and value-count arity wherever the callee is known. The interpreter treats
// any condition this pass accepts-but-should-not-have as an invariant
// violation, so the checks here define the boundary between user error and
// defect.
package analyzer

import (
	"fmt"

	"github.com/FeiyangTan/solidity/internal/ast"
	"github.com/FeiyangTan/solidity/internal/diagnostics"
	"github.com/FeiyangTan/solidity/internal/interpreter"
	"github.com/FeiyangTan/solidity/internal/pipeline"
	"github.com/FeiyangTan/solidity/internal/token"
)

type scope struct {
	// names maps identifiers declared in this scope to their function
	// definition, nil for variables.
	names map[string]*ast.FunctionDefinition
	// functionBoundary marks the scope introduced by a function definition.
	// Variable resolution stops here; function resolution and shadowing
	// checks do not.
	functionBoundary bool
}

type Analyzer struct {
	dialect interpreter.Dialect
	ctx     *pipeline.Context

	scopes    []*scope
	loopDepth int
	inFunc    int
}

func New(dialect interpreter.Dialect, ctx *pipeline.Context) *Analyzer {
	return &Analyzer{dialect: dialect, ctx: ctx}
}

// Check validates program and records diagnostics on the pipeline context.
func (a *Analyzer) Check(program *ast.Block) {
	a.scopes = []*scope{{names: make(map[string]*ast.FunctionDefinition)}}
	a.loopDepth = 0
	a.inFunc = 0
	a.checkBlock(program)
}

func (a *Analyzer) errorf(code string, tok token.Token, format string, args ...interface{}) {
	a.ctx.Errors = append(a.ctx.Errors, diagnostics.NewError(code, tok, fmt.Sprintf(format, args...)))
}

func (a *Analyzer) push(functionBoundary bool) {
	a.scopes = append(a.scopes, &scope{
		names:            make(map[string]*ast.FunctionDefinition),
		functionBoundary: functionBoundary,
	})
}

func (a *Analyzer) pop() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

func (a *Analyzer) top() *scope {
	return a.scopes[len(a.scopes)-1]
}

// declare registers a name in the current scope, rejecting any name already
// visible: Yul prohibits shadowing outright, including across function
// boundaries and of builtin names.
func (a *Analyzer) declare(tok token.Token, name string, funDef *ast.FunctionDefinition) {
	if a.dialect != nil && a.dialect.Builtin(name) != nil {
		a.errorf(diagnostics.ErrA002, tok, "%q shadows a builtin", name)
		return
	}
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if _, ok := a.scopes[i].names[name]; ok {
			a.errorf(diagnostics.ErrA002, tok, "%q is already declared", name)
			return
		}
	}
	a.top().names[name] = funDef
}

// resolveVariable walks the scope chain up to the nearest function boundary.
func (a *Analyzer) resolveVariable(name string) bool {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if funDef, ok := a.scopes[i].names[name]; ok {
			return funDef == nil
		}
		if a.scopes[i].functionBoundary {
			return false
		}
	}
	return false
}

// resolveFunction walks the whole scope chain.
func (a *Analyzer) resolveFunction(name string) (*ast.FunctionDefinition, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if funDef, ok := a.scopes[i].names[name]; ok {
			return funDef, funDef != nil
		}
	}
	return nil, false
}

func (a *Analyzer) checkBlock(block *ast.Block) {
	a.push(false)
	a.registerFunctions(block)
	for _, stmt := range block.Statements {
		a.checkStatement(stmt)
	}
	a.pop()
}

// registerFunctions declares the block's direct function definitions up
// front so forward and mutual references resolve.
func (a *Analyzer) registerFunctions(block *ast.Block) {
	for _, stmt := range block.Statements {
		if fd, ok := stmt.(*ast.FunctionDefinition); ok {
			a.declare(fd.Token, fd.Name, fd)
		}
	}
}

func (a *Analyzer) checkStatement(stmt ast.Statement) {
	switch st := stmt.(type) {
	case *ast.Block:
		a.checkBlock(st)
	case *ast.ExpressionStatement:
		a.checkExpression(st.Expression, 0)
	case *ast.VariableDeclaration:
		if st.Value != nil {
			a.checkExpression(st.Value, len(st.Variables))
		}
		for _, v := range st.Variables {
			a.declare(v.Token, v.Name, nil)
		}
	case *ast.Assignment:
		a.checkExpression(st.Value, len(st.VariableNames))
		for _, name := range st.VariableNames {
			if !a.resolveVariable(name.Name) {
				a.errorf(diagnostics.ErrA001, name.Token, "assignment to undeclared variable %q", name.Name)
			}
		}
	case *ast.If:
		a.checkExpression(st.Condition, 1)
		a.checkBlock(st.Body)
	case *ast.Switch:
		a.checkSwitch(st)
	case *ast.ForLoop:
		a.checkForLoop(st)
	case *ast.FunctionDefinition:
		a.checkFunctionDefinition(st)
	case *ast.Break:
		if a.loopDepth == 0 {
			a.errorf(diagnostics.ErrA003, st.Token, "break outside of loop body")
		}
	case *ast.Continue:
		if a.loopDepth == 0 {
			a.errorf(diagnostics.ErrA003, st.Token, "continue outside of loop body")
		}
	case *ast.Leave:
		if a.inFunc == 0 {
			a.errorf(diagnostics.ErrA003, st.Token, "leave outside of function body")
		}
	}
}

func (a *Analyzer) checkSwitch(st *ast.Switch) {
	a.checkExpression(st.Expression, 1)
	seen := make(map[[32]byte]bool)
	for idx, c := range st.Cases {
		if c.Value == nil {
			if idx != len(st.Cases)-1 {
				a.errorf(diagnostics.ErrA005, c.Token, "default case must be last")
			}
		} else {
			key := c.Value.Value.Bytes32()
			if seen[key] {
				a.errorf(diagnostics.ErrA005, c.Token, "duplicate case value")
			}
			seen[key] = true
		}
		a.checkBlock(c.Body)
	}
}

// checkForLoop opens the pre block's scope around the whole loop: names
// declared in pre stay visible in the condition, post and body. Break and
// continue are legal in the body only.
func (a *Analyzer) checkForLoop(st *ast.ForLoop) {
	a.push(false)
	a.registerFunctions(st.Pre)
	for _, stmt := range st.Pre.Statements {
		a.checkStatement(stmt)
	}
	a.checkExpression(st.Condition, 1)

	a.loopDepth++
	a.checkBlock(st.Body)
	a.loopDepth--

	a.checkBlock(st.Post)
	a.pop()
}

func (a *Analyzer) checkFunctionDefinition(fd *ast.FunctionDefinition) {
	// The definition itself was registered at block entry. Parameters and
	// return variables live in a boundary scope enclosing the body.
	a.push(true)
	for _, p := range fd.Parameters {
		a.declare(p.Token, p.Name, nil)
	}
	for _, r := range fd.ReturnVariables {
		a.declare(r.Token, r.Name, nil)
	}

	outerLoopDepth := a.loopDepth
	a.loopDepth = 0
	a.inFunc++
	a.checkBlock(fd.Body)
	a.inFunc--
	a.loopDepth = outerLoopDepth
	a.pop()
}

// checkExpression validates an expression expected to produce exactly
// expectedValues words.
func (a *Analyzer) checkExpression(expr ast.Expression, expectedValues int) {
	switch e := expr.(type) {
	case *ast.Literal:
		if expectedValues != 1 {
			a.errorf(diagnostics.ErrA004, e.Token, "literal produces 1 value, %d expected", expectedValues)
		}
	case *ast.Identifier:
		if expectedValues != 1 {
			a.errorf(diagnostics.ErrA004, e.Token, "identifier produces 1 value, %d expected", expectedValues)
		}
		if !a.resolveVariable(e.Name) {
			a.errorf(diagnostics.ErrA001, e.Token, "undeclared variable %q", e.Name)
		}
	case *ast.FunctionCall:
		a.checkCall(e, expectedValues)
	}
}

func (a *Analyzer) checkCall(call *ast.FunctionCall, expectedValues int) {
	name := call.FunctionName.Name

	var builtin *interpreter.BuiltinFunction
	if a.dialect != nil {
		builtin = a.dialect.Builtin(name)
	}
	if builtin != nil {
		if len(call.Arguments) != builtin.Params {
			a.errorf(diagnostics.ErrA004, call.Token, "builtin %q takes %d arguments, got %d",
				name, builtin.Params, len(call.Arguments))
		}
		if builtin.Returns != expectedValues {
			a.errorf(diagnostics.ErrA004, call.Token, "builtin %q returns %d values, %d expected",
				name, builtin.Returns, expectedValues)
		}
		for idx, arg := range call.Arguments {
			if builtin.NeedsLiteral(idx) {
				if _, ok := arg.(*ast.Literal); !ok {
					a.errorf(diagnostics.ErrA006, call.Token, "argument %d of %q must be a literal", idx+1, name)
				}
				continue
			}
			a.checkExpression(arg, 1)
		}
		return
	}

	funDef, ok := a.resolveFunction(name)
	if !ok {
		a.errorf(diagnostics.ErrA001, call.Token, "unknown function %q", name)
		for _, arg := range call.Arguments {
			a.checkExpression(arg, 1)
		}
		return
	}
	if len(call.Arguments) != len(funDef.Parameters) {
		a.errorf(diagnostics.ErrA004, call.Token, "function %q takes %d arguments, got %d",
			name, len(funDef.Parameters), len(call.Arguments))
	}
	if len(funDef.ReturnVariables) != expectedValues {
		a.errorf(diagnostics.ErrA004, call.Token, "function %q returns %d values, %d expected",
			name, len(funDef.ReturnVariables), expectedValues)
	}
	for _, arg := range call.Arguments {
		a.checkExpression(arg, 1)
	}
}
