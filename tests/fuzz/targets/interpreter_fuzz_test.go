package targets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/FeiyangTan/solidity/internal/analyzer"
	"github.com/FeiyangTan/solidity/internal/dialect"
	"github.com/FeiyangTan/solidity/internal/interpreter"
	"github.com/FeiyangTan/solidity/internal/parser"
	"github.com/FeiyangTan/solidity/internal/pipeline"
	"github.com/FeiyangTan/solidity/tests/fuzz/generators"
)

// saveArtifact writes a failing program to a temp file so the exact input
// survives the fuzzing session, and returns its path.
func saveArtifact(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(os.TempDir(), "yul-fuzz-"+uuid.NewString()+".yul")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Logf("could not save artifact: %v", err)
		return ""
	}
	return path
}

// FuzzInterpreter drives generated, analyzer-clean programs through the
// interpreter. The only acceptable failures are the resource limits and
// explicit termination; an invariant violation on checked input is a bug.
func FuzzInterpreter(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	f.Add([]byte{255, 254, 253, 0, 0, 9, 9, 9, 100, 50, 25})

	evm, err := dialect.ForName("evm")
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		source := generators.NewFromData(data).GenerateProgram()

		ctx := pipeline.New(
			&parser.Processor{},
			analyzer.NewProcessor(evm),
		).Run(pipeline.NewContext(source, "generated.yul"))
		if ctx.HasErrors() {
			t.Fatalf("generator emitted an invalid program (artifact %s): %v",
				saveArtifact(t, source), ctx.Errors)
		}

		state := interpreter.NewState(4096, 64)
		runErr := interpreter.Run(state, evm, ctx.Program)
		if runErr == nil {
			return
		}
		var invariant *interpreter.InvariantError
		if errors.As(runErr, &invariant) {
			t.Fatalf("invariant violation on checked input (artifact %s): %v",
				saveArtifact(t, source), runErr)
		}
		switch {
		case errors.Is(runErr, interpreter.ErrStepLimitReached),
			errors.Is(runErr, interpreter.ErrExpressionNestingLimitReached),
			errors.Is(runErr, interpreter.ErrExplicitlyTerminated):
			// Expected terminal outcomes.
		default:
			t.Fatalf("unexpected error (artifact %s): %v", saveArtifact(t, source), runErr)
		}
	})
}
