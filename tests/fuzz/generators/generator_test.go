package generators_test

import (
	"strings"
	"testing"

	"github.com/FeiyangTan/solidity/internal/analyzer"
	"github.com/FeiyangTan/solidity/internal/dialect"
	"github.com/FeiyangTan/solidity/internal/parser"
	"github.com/FeiyangTan/solidity/internal/pipeline"
	"github.com/FeiyangTan/solidity/tests/fuzz/generators"
)

// Generated programs must always be accepted by the parser and analyzer;
// that property is what the interpreter fuzz target builds on.
func TestGenerateProgram_AlwaysValid(t *testing.T) {
	d, err := dialect.ForName("evm")
	if err != nil {
		t.Fatal(err)
	}
	for seed := int64(0); seed < 200; seed++ {
		source := generators.New(seed).GenerateProgram()
		ctx := pipeline.New(
			&parser.Processor{},
			analyzer.NewProcessor(d),
		).Run(pipeline.NewContext(source, "generated.yul"))
		if ctx.HasErrors() {
			var msgs []string
			for _, e := range ctx.Errors {
				msgs = append(msgs, e.Error())
			}
			t.Fatalf("seed %d produced an invalid program:\n%s\n%s",
				seed, strings.Join(msgs, "\n"), source)
		}
	}
}

func TestGenerateProgram_ExhaustedInputStaysValid(t *testing.T) {
	source := generators.NewFromData(nil).GenerateProgram()
	if !strings.HasPrefix(source, "{") {
		t.Fatalf("unexpected program: %s", source)
	}
}

func TestGenerateProgram_Deterministic(t *testing.T) {
	data := []byte{7, 42, 3, 99, 250, 1, 18, 64, 5, 5, 5, 200}
	a := generators.NewFromData(data).GenerateProgram()
	b := generators.NewFromData(data).GenerateProgram()
	if a != b {
		t.Fatal("same input produced different programs")
	}
}
