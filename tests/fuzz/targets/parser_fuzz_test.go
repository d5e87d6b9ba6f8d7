package targets

import (
	"testing"

	"github.com/FeiyangTan/solidity/internal/parser"
	"github.com/FeiyangTan/solidity/internal/pipeline"
	"github.com/FeiyangTan/solidity/internal/prettyprinter"
)

// FuzzParser feeds arbitrary bytes to the lexer and parser. Malformed input
// must surface as diagnostics, never as a panic; accepted input must survive
// a print/reparse/print round trip unchanged.
func FuzzParser(f *testing.F) {
	f.Add("{ let x := 1 }")
	f.Add("{ function f(a) -> b { b := a } pop(f(42)) }")
	f.Add("{ for { let i := 0 } lt(i, 3) { i := add(i, 1) } { } }")
	f.Add(`{ switch 1 case 1 { } default { } }`)
	f.Add(`{ let s := "\x41bc" }`)
	f.Add("{ broken")

	f.Fuzz(func(t *testing.T, source string) {
		ctx := (&parser.Processor{}).Process(pipeline.NewContext(source, "fuzz.yul"))
		if ctx.Program == nil {
			if len(ctx.Errors) == 0 {
				t.Fatalf("no program and no diagnostics for input %q", source)
			}
			return
		}
		if ctx.HasErrors() {
			return
		}

		first := prettyprinter.New().Print(ctx.Program)
		ctx2 := (&parser.Processor{}).Process(pipeline.NewContext(first, "fuzz.yul"))
		if ctx2.HasErrors() || ctx2.Program == nil {
			t.Fatalf("printed form does not reparse:\n%s\nerrors: %v", first, ctx2.Errors)
		}
		second := prettyprinter.New().Print(ctx2.Program)
		if first != second {
			t.Fatalf("print/reparse/print diverged\nfirst:\n%s\nsecond:\n%s", first, second)
		}
	})
}
