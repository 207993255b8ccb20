package callbacks

import (
	"context"

	"github.com/favbox/chainflow/components"
)

// RunInfo 描述一次被观察的执行。
type RunInfo struct {
	// Name 阶段或组件的展示名，不保证唯一
	Name string
	// Type 实现类型，如 "Sequence"、"Lambda"、具体模型名
	Type string
	// Component 组件类别，组合算子为空
	Component components.Component
	// RunID 本次顶层调用的关联标识
	RunID string
	// Tag 并行分支路径，如 "retrieve/docs"
	Tag string
}

type CallbackInput any

type CallbackOutput any

// Handler 观察者接口。返回的 context 将传给后续处理器。
type Handler interface {
	OnStart(ctx context.Context, info *RunInfo, input CallbackInput) context.Context
	OnEnd(ctx context.Context, info *RunInfo, output CallbackOutput) context.Context
	OnError(ctx context.Context, info *RunInfo, err error) context.Context
}

// CallbackTiming 回调时机。
type CallbackTiming uint8

const (
	TimingOnStart CallbackTiming = iota
	TimingOnEnd
	TimingOnError
)

func (t CallbackTiming) String() string {
	switch t {
	case TimingOnStart:
		return "OnStart"
	case TimingOnEnd:
		return "OnEnd"
	case TimingOnError:
		return "OnError"
	default:
		return "Unknown"
	}
}

// TimingChecker 处理器可选实现，用于声明只关心部分时机。
type TimingChecker interface {
	Needed(ctx context.Context, info *RunInfo, timing CallbackTiming) bool
}
