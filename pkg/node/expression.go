package node

import (
	"context"

	"github.com/Skymel-Inc/SkymelADKPy/pkg/expression"
)

// ExpressionProcessor is a ProcessFunc backed by a declarative
// expression string, the concrete vehicle for "local-function" nodes
// described entirely in a graph's JSON rather than in Go code.
// Evaluation is delegated to the runtime's expr-lang adapter, which
// compiles and caches the program and supplies the string/array/math
// builtins declarative expressions rely on.
type ExpressionProcessor struct {
	source string
}

// NewExpressionProcessor returns a processor for the given expr-lang
// source. Compilation is deferred (and cached) by the underlying
// expression engine, so a malformed expression surfaces as a process
// error on the owning node rather than a construction-time panic.
func NewExpressionProcessor(source string) *ExpressionProcessor {
	return &ExpressionProcessor{source: source}
}

// Process evaluates the expression with inputs exposed as expression
// variables — an expression referencing "amount" reads inputs["amount"].
func (p *ExpressionProcessor) Process(ctx context.Context, inputs map[string]any) (any, error) {
	exprCtx := &expression.Context{Variables: inputs}
	return expression.EvaluateExpression(p.source, nil, exprCtx)
}

// AsProcessFunc adapts the processor to the node.ProcessFunc signature
// expected by DataProcessingConfig.
func (p *ExpressionProcessor) AsProcessFunc() ProcessFunc {
	return p.Process
}
