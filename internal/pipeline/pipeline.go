// Package pipeline threads a source program through the front-end stages.
// Each stage reads and extends the shared context; later stages run even when
// earlier ones reported errors so that a single pass collects diagnostics
// from every stage.
package pipeline

import (
	"github.com/FeiyangTan/solidity/internal/ast"
	"github.com/FeiyangTan/solidity/internal/diagnostics"
)

// Context carries a program through the pipeline.
type Context struct {
	SourceCode string
	FilePath   string
	Program    *ast.Block
	Errors     []*diagnostics.Error
}

func NewContext(source, filePath string) *Context {
	return &Context{SourceCode: source, FilePath: filePath}
}

// HasErrors reports whether any stage recorded a diagnostic.
func (c *Context) HasErrors() bool {
	return len(c.Errors) > 0
}

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	// Ensure all errors carry the file path.
	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	return ctx
}
