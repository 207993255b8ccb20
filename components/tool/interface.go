package tool

import (
	"context"

	"github.com/favbox/chainflow/schema"
)

// Tool 可被智能体调用的工具。输入与输出都是纯文本。
type Tool interface {
	Info(ctx context.Context) (*schema.ToolInfo, error)
	// Run 执行工具。返回的 error 会被智能体转为观察文本，不会中止循环。
	Run(ctx context.Context, input string, opts ...Option) (string, error)
}

// RunFunc 工具的执行函数。
type RunFunc func(ctx context.Context, input string) (string, error)

// NewTool 由描述信息和函数构建 Tool。
func NewTool(info *schema.ToolInfo, fn RunFunc) Tool {
	return &funcTool{info: info, fn: fn}
}

type funcTool struct {
	info *schema.ToolInfo
	fn   RunFunc
}

func (t *funcTool) Info(context.Context) (*schema.ToolInfo, error) {
	return t.info, nil
}

func (t *funcTool) Run(ctx context.Context, input string, _ ...Option) (string, error) {
	return t.fn(ctx, input)
}

func (t *funcTool) GetType() string {
	return "FuncTool"
}
