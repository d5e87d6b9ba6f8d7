package analyzer

import (
	"github.com/FeiyangTan/solidity/internal/interpreter"
	"github.com/FeiyangTan/solidity/internal/pipeline"
)

// Processor runs the semantic checks as a pipeline stage.
type Processor struct {
	Dialect interpreter.Dialect
}

func NewProcessor(dialect interpreter.Dialect) *Processor {
	return &Processor{Dialect: dialect}
}

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Program == nil || ctx.HasErrors() {
		return ctx
	}
	New(p.Dialect, ctx).Check(ctx.Program)
	return ctx
}
