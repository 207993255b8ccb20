package compose

import (
	"context"
	"errors"
	"sync"

	"github.com/favbox/chainflow/components"
	"github.com/favbox/chainflow/internal"
	"github.com/favbox/chainflow/internal/generic"
	"github.com/favbox/chainflow/internal/safe"
)

// InvokeFunc 一次性返回完整结果的函数。
type InvokeFunc[I, O any] func(ctx context.Context, in I) (O, error)

// StreamFunc 增量产出的函数，每个分片通过 emit 交出。
// 最终结果由分片合并得到：字符串按顺序拼接，消息按 schema.ConcatMessages 合并。
type StreamFunc[I, O any] func(ctx context.Context, in I, emit func(O)) error

type lambdaOptions struct {
	name      string
	typ       string
	component components.Component
}

// LambdaOpt Lambda 构建选项。
type LambdaOpt func(*lambdaOptions)

// WithLambdaName 设置阶段名，缺省时取函数名，匿名函数为 "Lambda"。
func WithLambdaName(name string) LambdaOpt {
	return func(o *lambdaOptions) {
		o.name = name
	}
}

// WithLambdaType 设置回调 RunInfo 中的实现类型。
func WithLambdaType(typ string) LambdaOpt {
	return func(o *lambdaOptions) {
		o.typ = typ
	}
}

func withComponent(c components.Component) LambdaOpt {
	return func(o *lambdaOptions) {
		o.component = c
	}
}

func newLambdaOptions(fn any, opts []LambdaOpt) *lambdaOptions {
	o := &lambdaOptions{typ: "Lambda"}
	for _, opt := range opts {
		opt(o)
	}
	if o.name == "" {
		o.name = generic.FuncName(fn)
	}
	if o.name == "" {
		o.name = o.typ
	}
	return o
}

// InvokableLambda 由普通函数构建阶段。Stream 调用时产出单个最终块。
func InvokableLambda[I, O any](fn InvokeFunc[I, O], opts ...LambdaOpt) Stage[I, O] {
	o := newLambdaOptions(fn, opts)
	return Stage[I, O]{s: &stage{
		name:       o.name,
		typ:        o.typ,
		component:  o.component,
		inputType:  generic.TypeOf[I](),
		outputType: generic.TypeOf[O](),
		invoke:     erasedInvoke(o.name, fn),
	}}
}

// StreamableLambda 由增量函数构建阶段。Invoke 调用时收集全部分片并合并。
func StreamableLambda[I, O any](fn StreamFunc[I, O], opts ...LambdaOpt) Stage[I, O] {
	o := newLambdaOptions(fn, opts)
	return Stage[I, O]{s: &stage{
		name:       o.name,
		typ:        o.typ,
		component:  o.component,
		inputType:  generic.TypeOf[I](),
		outputType: generic.TypeOf[O](),
		invoke: func(ctx context.Context, in any, cfg ExecutionConfig) (any, error) {
			return erasedStream(o.name, fn)(ctx, in, cfg, nil)
		},
		stream: erasedStream(o.name, fn),
	}}
}

// AnyLambda 同时提供两种实现，至少需要一种。
func AnyLambda[I, O any](invoke InvokeFunc[I, O], stream StreamFunc[I, O], opts ...LambdaOpt) (Stage[I, O], error) {
	switch {
	case invoke == nil && stream == nil:
		return Stage[I, O]{}, errors.New("at least one of invoke and stream is required")
	case invoke == nil:
		return StreamableLambda(stream, opts...), nil
	case stream == nil:
		return InvokableLambda(invoke, opts...), nil
	}

	o := newLambdaOptions(invoke, opts)
	return Stage[I, O]{s: &stage{
		name:       o.name,
		typ:        o.typ,
		component:  o.component,
		inputType:  generic.TypeOf[I](),
		outputType: generic.TypeOf[O](),
		invoke:     erasedInvoke(o.name, invoke),
		stream:     erasedStream(o.name, stream),
	}}, nil
}

func erasedInvoke[I, O any](name string, fn InvokeFunc[I, O]) invokeFunc {
	return func(ctx context.Context, in any, _ ExecutionConfig) (out any, err error) {
		input, err := assertType[I](name, in)
		if err != nil {
			return nil, err
		}
		err = safe.Call(func() error {
			var e error
			out, e = fn(ctx, input)
			return e
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func erasedStream[I, O any](name string, fn StreamFunc[I, O]) streamFunc {
	return func(ctx context.Context, in any, cfg ExecutionConfig, onChunk ChunkHandler) (any, error) {
		input, err := assertType[I](name, in)
		if err != nil {
			return nil, err
		}

		var (
			mu     sync.Mutex
			chunks []O
		)
		emit := func(v O) {
			mu.Lock()
			chunks = append(chunks, v)
			mu.Unlock()
			onChunk.emit(ctx, &Chunk{Stage: name, Tag: cfg.Tag, Value: v}, cfg.Logger)
		}

		if err = safe.Call(func() error { return fn(ctx, input, emit) }); err != nil {
			return nil, err
		}

		mu.Lock()
		defer mu.Unlock()
		out, err := internal.ConcatChunks(chunks)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}
