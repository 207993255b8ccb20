package agent

import "github.com/favbox/chainflow/compose"

// AgentOption 单次调用的智能体选项：要么是下传给执行阶段的 compose 选项，
// 要么是只有具体智能体才认识的 func(*T)。
type AgentOption struct {
	implSpecificOptFn any
	composeOptions    []compose.Option
}

// WithComposeOptions 把 compose 选项带给智能体内部的执行阶段。
//
//	finish, err := a.Run(ctx, input, agent.WithComposeOptions(
//		compose.WithCallbacks(handler),
//		compose.WithRunID("req-42"),
//	))
func WithComposeOptions(opts ...compose.Option) AgentOption {
	return AgentOption{composeOptions: opts}
}

// GetComposeOptions 按出现顺序收集 opts 中的 compose 选项。
func GetComposeOptions(opts ...AgentOption) []compose.Option {
	var out []compose.Option
	for _, o := range opts {
		out = append(out, o.composeOptions...)
	}
	return out
}

// WrapImplSpecificOptFn 包装具体智能体的选项函数，如 react.Options 的修改器。
func WrapImplSpecificOptFn[T any](optFn func(*T)) AgentOption {
	return AgentOption{implSpecificOptFn: optFn}
}

// GetImplSpecificOptions 依次应用 opts 中类型为 func(*T) 的选项，其余忽略。
// base 为 nil 时从零值开始。
func GetImplSpecificOptions[T any](base *T, opts ...AgentOption) *T {
	if base == nil {
		base = new(T)
	}
	for _, o := range opts {
		if fn, ok := o.implSpecificOptFn.(func(*T)); ok {
			fn(base)
		}
	}
	return base
}
