package react

import (
	"github.com/favbox/chainflow/callbacks"
	"github.com/favbox/chainflow/components/model"
	"github.com/favbox/chainflow/components/tool"
	"github.com/favbox/chainflow/compose"
	"github.com/favbox/chainflow/flow/agent"
)

// Options 单次运行的选项，覆盖 AgentConfig 中的对应配置。
type Options struct {
	// Tools 本次运行允许调用的工具
	Tools *tool.Registry
	// MaxIterations 本次运行的最大循环次数
	MaxIterations int
	ModelOptions  []model.Option
	ToolOptions   []tool.Option
}

// WithTools 限定本次运行可用的工具。
func WithTools(r *tool.Registry) agent.AgentOption {
	return agent.WrapImplSpecificOptFn(func(o *Options) {
		o.Tools = r
	})
}

// WithMaxIterations 设置本次运行的最大循环次数。
func WithMaxIterations(n int) agent.AgentOption {
	return agent.WrapImplSpecificOptFn(func(o *Options) {
		o.MaxIterations = n
	})
}

// WithChatModelOptions 为本次运行的模型调用追加选项。
func WithChatModelOptions(opts ...model.Option) agent.AgentOption {
	return agent.WrapImplSpecificOptFn(func(o *Options) {
		o.ModelOptions = append(o.ModelOptions, opts...)
	})
}

// WithToolOptions 为本次运行的工具调用追加选项。
func WithToolOptions(opts ...tool.Option) agent.AgentOption {
	return agent.WrapImplSpecificOptFn(func(o *Options) {
		o.ToolOptions = append(o.ToolOptions, opts...)
	})
}

// WithCallbacks 观察本次运行中的模型、工具及智能体自身。
func WithCallbacks(handlers ...callbacks.Handler) agent.AgentOption {
	return agent.WithComposeOptions(compose.WithCallbacks(handlers...))
}
