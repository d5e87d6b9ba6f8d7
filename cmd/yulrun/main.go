// Command yulrun parses a Yul program, checks it and interprets it, then
// prints the execution trace together with the final memory and storage.
//
// Exit codes: 0 on success (including runs stopped by a limit or by a
// terminating builtin), 1 when the program has diagnostics, 2 on usage or
// I/O errors, 3 when the interpreter detects an internal inconsistency.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/FeiyangTan/solidity/internal/analyzer"
	"github.com/FeiyangTan/solidity/internal/config"
	"github.com/FeiyangTan/solidity/internal/dialect"
	"github.com/FeiyangTan/solidity/internal/interpreter"
	"github.com/FeiyangTan/solidity/internal/parser"
	"github.com/FeiyangTan/solidity/internal/pipeline"
	"github.com/FeiyangTan/solidity/internal/prettyprinter"
)

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(3)
		}
	}()

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("yulrun", flag.ContinueOnError)
	flags.SetOutput(stderr)

	defaults := config.Default()
	maxSteps := flags.Uint64("max-steps", defaults.MaxSteps, "statement execution limit, 0 for unlimited")
	maxNesting := flags.Uint64("max-nesting", defaults.MaxExprNesting, "expression nesting limit, 0 for unlimited")
	dialectName := flags.String("dialect", defaults.Dialect, "builtin function set (evm or wasm)")
	printAST := flags.Bool("print-ast", false, "echo the parsed program before running it")
	configPath := flags.String("config", "", "YAML run settings, overridden by explicit flags")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	settings := defaults
	if *configPath != "" {
		var err error
		settings, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "yulrun: %s\n", err)
			return 2
		}
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-steps":
			settings.MaxSteps = *maxSteps
		case "max-nesting":
			settings.MaxExprNesting = *maxNesting
		case "dialect":
			settings.Dialect = *dialectName
		case "print-ast":
			settings.PrintAST = *printAST
		}
	})

	d, err := dialect.ForName(settings.Dialect)
	if err != nil {
		fmt.Fprintf(stderr, "yulrun: %s\n", err)
		return 2
	}

	source, filePath, err := readSource(flags.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "yulrun: %s\n", err)
		return 2
	}

	ctx := pipeline.New(
		&parser.Processor{},
		analyzer.NewProcessor(d),
	).Run(pipeline.NewContext(source, filePath))

	if ctx.HasErrors() {
		printDiagnostics(stderr, ctx)
		return 1
	}

	if settings.PrintAST {
		fmt.Fprintln(stdout, prettyprinter.New().Print(ctx.Program))
	}

	state := interpreter.NewState(settings.MaxSteps, settings.MaxExprNesting)
	runErr := interpreter.Run(state, d, ctx.Program)

	if err := state.DumpTraceAndState(stdout); err != nil {
		fmt.Fprintf(stderr, "yulrun: %s\n", err)
		return 2
	}

	var invariant *interpreter.InvariantError
	if errors.As(runErr, &invariant) {
		fmt.Fprintf(stderr, "yulrun: %s\n", invariant)
		return 3
	}
	// Limits and terminating builtins are ordinary outcomes; the trace
	// already records them.
	return 0
}

// readSource reads the program from the single file argument, or from stdin
// when no argument is given.
func readSource(args []string, stdin io.Reader) (source, filePath string, err error) {
	switch len(args) {
	case 0:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	case 1:
		if !config.IsSourceFile(args[0]) {
			return "", "", fmt.Errorf("%s: not a Yul source file (expected one of %s)",
				args[0], strings.Join(config.SourceFileExtensions, ", "))
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	default:
		return "", "", fmt.Errorf("expected at most one input file, got %d", len(args))
	}
}

func printDiagnostics(w io.Writer, ctx *pipeline.Context) {
	colored := false
	if f, ok := w.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	fmt.Fprintln(w, "Processing failed with errors:")
	for _, err := range ctx.Errors {
		if colored {
			fmt.Fprintf(w, "- \x1b[31m%s\x1b[0m\n", err.Error())
		} else {
			fmt.Fprintf(w, "- %s\n", err.Error())
		}
	}
}
