// Package generators builds random but well-scoped Yul programs from a byte
// stream. The output always passes the analyzer: names are unique, every
// reference is in scope, break/continue stay inside loop bodies and leave
// inside functions. That lets the fuzz targets assert that the interpreter
// itself never reports an invariant violation on generated input.
package generators

import (
	"fmt"
	"math/rand"
	"strings"
)

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
}

// RandSource wraps math/rand.
type RandSource struct {
	*rand.Rand
}

// ByteSource uses a byte slice as a source of randomness; exhausted input
// yields zeros, which drives generation toward the smallest forms.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

type funcSig struct {
	name    string
	params  int
	returns int
}

// Generator generates random Yul code for the EVM dialect.
type Generator struct {
	src RandomSource

	counter   int
	vars      []string
	funcs     []funcSig
	loopDepth int
	inFunc    bool

	buf strings.Builder
}

const (
	MaxDepth      = 4
	MaxStatements = 6
	MaxFunctions  = 3
)

func New(seed int64) *Generator {
	return &Generator{src: &RandSource{rand.New(rand.NewSource(seed))}}
}

func NewFromData(data []byte) *Generator {
	return &Generator{src: &ByteSource{data: data}}
}

// Intn exposes the random source's Intn method.
func (g *Generator) Intn(n int) int {
	return g.src.Intn(n)
}

// GenerateProgram emits a complete top-level program.
func (g *Generator) GenerateProgram() string {
	g.buf.Reset()
	g.buf.WriteString("{\n")

	numFuncs := g.Intn(MaxFunctions + 1)
	for i := 0; i < numFuncs; i++ {
		g.funcs = append(g.funcs, funcSig{
			name:    fmt.Sprintf("f%d", i),
			params:  g.Intn(3),
			returns: g.Intn(2),
		})
	}
	for _, sig := range g.funcs {
		g.genFunction(sig)
	}

	g.genStatements(1, 0)
	g.buf.WriteString("}\n")
	return g.buf.String()
}

func (g *Generator) freshVar() string {
	name := fmt.Sprintf("v%d", g.counter)
	g.counter++
	return name
}

func (g *Generator) indent(level int) {
	g.buf.WriteString(strings.Repeat("    ", level))
}

func (g *Generator) genFunction(sig funcSig) {
	outerVars, outerLoop := g.vars, g.loopDepth
	g.vars, g.loopDepth, g.inFunc = nil, 0, true

	g.indent(1)
	g.buf.WriteString("function " + sig.name + "(")
	for i := 0; i < sig.params; i++ {
		if i > 0 {
			g.buf.WriteString(", ")
		}
		p := g.freshVar()
		g.buf.WriteString(p)
		g.vars = append(g.vars, p)
	}
	g.buf.WriteString(")")
	if sig.returns > 0 {
		r := g.freshVar()
		g.buf.WriteString(" -> " + r)
		g.vars = append(g.vars, r)
	}
	g.buf.WriteString(" {\n")
	g.genStatements(2, 0)
	g.indent(1)
	g.buf.WriteString("}\n")

	g.vars, g.loopDepth, g.inFunc = outerVars, outerLoop, false
}

func (g *Generator) genStatements(level, depth int) {
	n := g.Intn(MaxStatements + 1)
	mark := len(g.vars)
	for i := 0; i < n; i++ {
		g.genStatement(level, depth)
	}
	// Block-local declarations go out of scope with the block.
	g.vars = g.vars[:mark]
}

func (g *Generator) genStatement(level, depth int) {
	choice := g.Intn(10)
	if depth >= MaxDepth && choice >= 5 {
		// Too deep; stick to flat statements.
		choice = g.Intn(5)
	}
	switch choice {
	case 0, 1:
		name := g.freshVar()
		g.indent(level)
		g.buf.WriteString("let " + name + " := " + g.genExpr(0) + "\n")
		g.vars = append(g.vars, name)
	case 2:
		if len(g.vars) == 0 {
			g.indent(level)
			g.buf.WriteString("pop(" + g.genExpr(0) + ")\n")
			return
		}
		target := g.vars[g.Intn(len(g.vars))]
		g.indent(level)
		g.buf.WriteString(target + " := " + g.genExpr(0) + "\n")
	case 3:
		g.indent(level)
		g.buf.WriteString("sstore(" + g.genExpr(1) + ", " + g.genExpr(1) + ")\n")
	case 4:
		// Mask the offset so simulated memory stays backable.
		g.indent(level)
		g.buf.WriteString("mstore(and(" + g.genExpr(1) + ", 0xffff), " + g.genExpr(1) + ")\n")
	case 5:
		g.indent(level)
		g.buf.WriteString("if " + g.genExpr(0) + " {\n")
		g.genStatements(level+1, depth+1)
		g.indent(level)
		g.buf.WriteString("}\n")
	case 6:
		g.genSwitch(level, depth)
	case 7:
		g.genForLoop(level, depth)
	case 8:
		g.indent(level)
		g.buf.WriteString("{\n")
		g.genStatements(level+1, depth+1)
		g.indent(level)
		g.buf.WriteString("}\n")
	default:
		switch {
		case g.loopDepth > 0 && g.Intn(2) == 0:
			g.indent(level)
			if g.Intn(2) == 0 {
				g.buf.WriteString("break\n")
			} else {
				g.buf.WriteString("continue\n")
			}
		case g.inFunc && g.Intn(2) == 0:
			g.indent(level)
			g.buf.WriteString("leave\n")
		default:
			g.indent(level)
			g.buf.WriteString("pop(" + g.genExpr(0) + ")\n")
		}
	}
}

func (g *Generator) genSwitch(level, depth int) {
	g.indent(level)
	g.buf.WriteString("switch " + g.genExpr(1) + "\n")
	numCases := 1 + g.Intn(3)
	for i := 0; i < numCases; i++ {
		// Case values indexed by position, so they never collide.
		g.indent(level)
		fmt.Fprintf(&g.buf, "case %d {\n", i)
		g.genStatements(level+1, depth+1)
		g.indent(level)
		g.buf.WriteString("}\n")
	}
	if g.Intn(2) == 0 {
		g.indent(level)
		g.buf.WriteString("default {\n")
		g.genStatements(level+1, depth+1)
		g.indent(level)
		g.buf.WriteString("}\n")
	}
}

func (g *Generator) genForLoop(level, depth int) {
	counter := g.freshVar()
	bound := 1 + g.Intn(8)
	g.indent(level)
	fmt.Fprintf(&g.buf, "for { let %s := 0 } lt(%s, %d) { %s := add(%s, 1) } {\n",
		counter, counter, bound, counter, counter)
	g.vars = append(g.vars, counter)
	g.loopDepth++
	g.genStatements(level+1, depth+1)
	g.loopDepth--
	g.vars = g.vars[:len(g.vars)-1]
	g.indent(level)
	g.buf.WriteString("}\n")
}

func (g *Generator) genExpr(depth int) string {
	if depth >= MaxDepth {
		return g.genLeaf()
	}
	switch g.Intn(6) {
	case 0:
		return g.genLeaf()
	case 1:
		ops := []string{"add", "sub", "mul", "and", "or", "xor", "lt", "gt", "eq"}
		op := ops[g.Intn(len(ops))]
		return op + "(" + g.genExpr(depth+1) + ", " + g.genExpr(depth+1) + ")"
	case 2:
		return "iszero(" + g.genExpr(depth+1) + ")"
	case 3:
		return "mload(and(" + g.genExpr(depth+1) + ", 0xffff))"
	case 4:
		return "sload(" + g.genExpr(depth+1) + ")"
	default:
		// A call to a generated single-return function, when one exists.
		for _, sig := range g.funcs {
			if sig.returns != 1 {
				continue
			}
			args := make([]string, sig.params)
			for i := range args {
				args[i] = g.genExpr(depth + 1)
			}
			return sig.name + "(" + strings.Join(args, ", ") + ")"
		}
		return g.genLeaf()
	}
}

func (g *Generator) genLeaf() string {
	if len(g.vars) > 0 && g.Intn(2) == 0 {
		return g.vars[g.Intn(len(g.vars))]
	}
	return fmt.Sprintf("%d", g.Intn(256))
}
