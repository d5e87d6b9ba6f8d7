package parser

import (
	"github.com/FeiyangTan/solidity/internal/lexer"
	"github.com/FeiyangTan/solidity/internal/pipeline"
)

type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	l := lexer.New(ctx.SourceCode)
	p := New(l, ctx)
	ctx.Program = p.ParseProgram()
	return ctx
}
