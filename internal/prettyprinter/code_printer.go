// Package prettyprinter renders a Yul AST back to source text. The output is
// canonical (one statement per line, four-space indents) and reparses to an
// identical tree, which the parser tests rely on.
package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/FeiyangTan/solidity/internal/ast"
)

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func New() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a top-level block.
func (cp *CodePrinter) Print(block *ast.Block) string {
	cp.buf.Reset()
	cp.indent = 0
	cp.printBlock(block)
	cp.buf.WriteByte('\n')
	return cp.buf.String()
}

func (cp *CodePrinter) line(s string) {
	cp.buf.WriteString(strings.Repeat("    ", cp.indent))
	cp.buf.WriteString(s)
	cp.buf.WriteByte('\n')
}

func (cp *CodePrinter) printBlock(block *ast.Block) {
	if len(block.Statements) == 0 {
		cp.buf.WriteString("{ }")
		return
	}
	cp.buf.WriteString("{\n")
	cp.indent++
	for _, stmt := range block.Statements {
		cp.buf.WriteString(strings.Repeat("    ", cp.indent))
		cp.printStatement(stmt)
		cp.buf.WriteByte('\n')
	}
	cp.indent--
	cp.buf.WriteString(strings.Repeat("    ", cp.indent))
	cp.buf.WriteString("}")
}

func (cp *CodePrinter) printStatement(stmt ast.Statement) {
	switch st := stmt.(type) {
	case *ast.Block:
		cp.printBlock(st)
	case *ast.ExpressionStatement:
		cp.buf.WriteString(cp.Expression(st.Expression))
	case *ast.Assignment:
		names := make([]string, len(st.VariableNames))
		for i, n := range st.VariableNames {
			names[i] = n.Name
		}
		cp.buf.WriteString(strings.Join(names, ", "))
		cp.buf.WriteString(" := ")
		cp.buf.WriteString(cp.Expression(st.Value))
	case *ast.VariableDeclaration:
		cp.buf.WriteString("let ")
		cp.buf.WriteString(typedNames(st.Variables))
		if st.Value != nil {
			cp.buf.WriteString(" := ")
			cp.buf.WriteString(cp.Expression(st.Value))
		}
	case *ast.If:
		cp.buf.WriteString("if ")
		cp.buf.WriteString(cp.Expression(st.Condition))
		cp.buf.WriteByte(' ')
		cp.printBlock(st.Body)
	case *ast.Switch:
		cp.buf.WriteString("switch ")
		cp.buf.WriteString(cp.Expression(st.Expression))
		for _, c := range st.Cases {
			cp.buf.WriteByte('\n')
			cp.buf.WriteString(strings.Repeat("    ", cp.indent))
			if c.Value != nil {
				cp.buf.WriteString("case ")
				cp.buf.WriteString(cp.Expression(c.Value))
				cp.buf.WriteByte(' ')
			} else {
				cp.buf.WriteString("default ")
			}
			cp.printBlock(c.Body)
		}
	case *ast.FunctionDefinition:
		cp.buf.WriteString("function ")
		cp.buf.WriteString(st.Name)
		cp.buf.WriteByte('(')
		cp.buf.WriteString(typedNames(st.Parameters))
		cp.buf.WriteByte(')')
		if len(st.ReturnVariables) > 0 {
			cp.buf.WriteString(" -> ")
			cp.buf.WriteString(typedNames(st.ReturnVariables))
		}
		cp.buf.WriteByte(' ')
		cp.printBlock(st.Body)
	case *ast.ForLoop:
		cp.buf.WriteString("for ")
		cp.printBlock(st.Pre)
		cp.buf.WriteByte(' ')
		cp.buf.WriteString(cp.Expression(st.Condition))
		cp.buf.WriteByte(' ')
		cp.printBlock(st.Post)
		cp.buf.WriteByte(' ')
		cp.printBlock(st.Body)
	case *ast.Break:
		cp.buf.WriteString("break")
	case *ast.Continue:
		cp.buf.WriteString("continue")
	case *ast.Leave:
		cp.buf.WriteString("leave")
	}
}

// Expression renders a single expression to source text.
func (cp *CodePrinter) Expression(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalSource(e)
	case *ast.Identifier:
		return e.Name
	case *ast.FunctionCall:
		args := make([]string, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = cp.Expression(a)
		}
		return e.FunctionName.Name + "(" + strings.Join(args, ", ") + ")"
	}
	return ""
}

func literalSource(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.StringLiteral:
		return quoteString(lit.Source)
	case ast.BooleanLiteral:
		if lit.Value.IsZero() {
			return "false"
		}
		return "true"
	default:
		return lit.Token.Lexeme
	}
}

func quoteString(s string) string {
	var out strings.Builder
	out.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			out.WriteString(`\n`)
		case '\t':
			out.WriteString(`\t`)
		case '\r':
			out.WriteString(`\r`)
		case '\\':
			out.WriteString(`\\`)
		case '"':
			out.WriteString(`\"`)
		default:
			if c < 0x20 || c > 0x7e {
				fmt.Fprintf(&out, `\x%02x`, c)
			} else {
				out.WriteByte(c)
			}
		}
	}
	out.WriteByte('"')
	return out.String()
}

func typedNames(names []*ast.TypedName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if n.Type != "" {
			parts[i] = n.Name + ": " + n.Type
		} else {
			parts[i] = n.Name
		}
	}
	return strings.Join(parts, ", ")
}
