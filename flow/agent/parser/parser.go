// Package parser 将模型补全解析为智能体的下一步：调用工具或给出最终答案。
package parser

import (
	"context"

	"github.com/favbox/chainflow/schema"
)

// OutputParser 将一次补全解析为 *schema.AgentAction 或 *schema.AgentFinish。
// 两者都不是时必须返回 *agent.ParseError，不做任何猜测或修正。
type OutputParser interface {
	Parse(ctx context.Context, text string) (schema.AgentStep, error)
}

// Func 函数形式的 OutputParser。
type Func func(ctx context.Context, text string) (schema.AgentStep, error)

func (f Func) Parse(ctx context.Context, text string) (schema.AgentStep, error) {
	return f(ctx, text)
}
