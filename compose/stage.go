/*
 * stage.go - 阶段的核心抽象
 *
 * 核心组件：
 *   - stage: 类型擦除后的阶段，组合算子之间以 any 传值
 *   - Stage[I, O]: 对外暴露的强类型包装，构建后不可变
 *   - AnyStage: 组合算子接受的异构阶段接口
 *
 * 每次执行都会：
 *   1. 把 ExecutionConfig 写入 context，供 Lambda 读取
 *   2. 触发 OnStart / OnEnd / OnError 通知
 *   3. 不可流式的阶段在 Stream 调用时退化为一个最终块
 */

package compose

import (
	"context"
	"reflect"

	"github.com/favbox/chainflow/components"
	icb "github.com/favbox/chainflow/internal/callbacks"
	"github.com/favbox/chainflow/internal/generic"
)

type invokeFunc func(ctx context.Context, in any, cfg ExecutionConfig) (any, error)

type streamFunc func(ctx context.Context, in any, cfg ExecutionConfig, onChunk ChunkHandler) (any, error)

// stage 类型擦除后的阶段。
type stage struct {
	name      string
	typ       string
	component components.Component

	inputType  reflect.Type
	outputType reflect.Type

	invoke invokeFunc
	// stream 为 nil 表示不支持增量产出
	stream streamFunc
}

func (s *stage) runInfo(cfg ExecutionConfig) *icb.RunInfo {
	return &icb.RunInfo{
		Name:      s.name,
		Type:      s.typ,
		Component: s.component,
		RunID:     cfg.RunID,
		Tag:       cfg.Tag,
	}
}

func (s *stage) run(ctx context.Context, in any, cfg ExecutionConfig) (any, error) {
	ctx = withExecutionConfig(ctx, cfg)
	info := s.runInfo(cfg)

	ctx = icb.OnStartHandle(ctx, info, in, cfg.Handlers, cfg.Logger)
	out, err := s.invoke(ctx, in, cfg)
	if err != nil {
		icb.OnErrorHandle(ctx, info, err, cfg.Handlers, cfg.Logger)
		return nil, err
	}
	icb.OnEndHandle(ctx, info, out, cfg.Handlers, cfg.Logger)
	return out, nil
}

func (s *stage) runStream(ctx context.Context, in any, cfg ExecutionConfig, onChunk ChunkHandler) (any, error) {
	ctx = withExecutionConfig(ctx, cfg)
	info := s.runInfo(cfg)

	ctx = icb.OnStartHandle(ctx, info, in, cfg.Handlers, cfg.Logger)

	var (
		out any
		err error
	)
	if s.stream != nil {
		out, err = s.stream(ctx, in, cfg, onChunk)
	} else {
		out, err = s.invoke(ctx, in, cfg)
		if err == nil {
			onChunk.emit(ctx, &Chunk{Stage: s.name, Tag: cfg.Tag, Value: out}, cfg.Logger)
		}
	}
	if err != nil {
		icb.OnErrorHandle(ctx, info, err, cfg.Handlers, cfg.Logger)
		return nil, err
	}
	icb.OnEndHandle(ctx, info, out, cfg.Handlers, cfg.Logger)
	return out, nil
}

// AnyStage 组合算子接受的阶段，Stage[I, O] 均实现该接口。
type AnyStage interface {
	Name() string
	InputType() reflect.Type
	OutputType() reflect.Type
	Streamable() bool

	erased() *stage
}

// Stage 强类型阶段，零值不可用。
type Stage[I, O any] struct {
	s *stage
}

func (st Stage[I, O]) erased() *stage {
	return st.s
}

func (st Stage[I, O]) Name() string {
	if st.s == nil {
		return ""
	}
	return st.s.name
}

func (st Stage[I, O]) InputType() reflect.Type {
	return generic.TypeOf[I]()
}

func (st Stage[I, O]) OutputType() reflect.Type {
	return generic.TypeOf[O]()
}

// Streamable 报告阶段能否增量产出；组合阶段取决于其子阶段。
func (st Stage[I, O]) Streamable() bool {
	return st.s != nil && st.s.stream != nil
}

// WithName 返回改名后的新阶段，原阶段不变。
func (st Stage[I, O]) WithName(name string) Stage[I, O] {
	if st.s == nil {
		return st
	}
	cp := *st.s
	cp.name = name
	return Stage[I, O]{s: &cp}
}

// Invoke 阻塞执行并返回完整结果。
func (st Stage[I, O]) Invoke(ctx context.Context, in I, opts ...Option) (O, error) {
	return st.invokeWithConfig(ctx, in, newExecutionConfig(opts...))
}

// Stream 阻塞执行，返回前把增量输出交给 onChunk。返回值与 Invoke 一致；
// 文本阶段的各块按顺序拼接即为返回值。onChunk 可以为 nil。
func (st Stage[I, O]) Stream(ctx context.Context, in I, onChunk ChunkHandler, opts ...Option) (O, error) {
	return st.streamWithConfig(ctx, in, newExecutionConfig(opts...), onChunk)
}

func (st Stage[I, O]) invokeWithConfig(ctx context.Context, in I, cfg ExecutionConfig) (O, error) {
	if st.s == nil {
		var zero O
		return zero, ErrNilStage
	}
	out, err := st.s.run(ctx, in, cfg)
	if err != nil {
		var zero O
		return zero, err
	}
	return assertType[O](st.s.name, out)
}

func (st Stage[I, O]) streamWithConfig(ctx context.Context, in I, cfg ExecutionConfig, onChunk ChunkHandler) (O, error) {
	if st.s == nil {
		var zero O
		return zero, ErrNilStage
	}
	out, err := st.s.runStream(ctx, in, cfg, onChunk)
	if err != nil {
		var zero O
		return zero, err
	}
	return assertType[O](st.s.name, out)
}

// assertType 将擦除后的值还原为 T。nil 还原为零值。
func assertType[T any](stageName string, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, newUnexpectedInputTypeErr(stageName, generic.TypeOf[T](), v)
	}
	return t, nil
}

// compatible 报告 from 的值能否作为 to 的输入。
// from 为接口时只要 to 可能承载其动态值即视为兼容，具体值在运行时校验。
func compatible(from, to reflect.Type) bool {
	if from.AssignableTo(to) {
		return true
	}
	if from.Kind() == reflect.Interface {
		return to.Kind() == reflect.Interface || to.Implements(from)
	}
	return false
}
