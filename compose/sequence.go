package compose

import (
	"context"
	"fmt"

	"github.com/favbox/chainflow/internal/generic"
)

// Sequence 串行组合 stages：第一个阶段接收外部输入，最后一个阶段的输出即组合的输出。
//
// 相邻阶段的类型在构建时检查；I 必须可作为第一个阶段的输入，最后一个阶段的输出必须可赋给 O。
// 流式调用时，前面的阶段完整执行后才开始下一个，只有最后一个阶段流式产出。
// 任一阶段失败，后续阶段不再执行，错误原样返回。
func Sequence[I, O any](stages ...AnyStage) (Stage[I, O], error) {
	const combinator = "Sequence"

	if len(stages) == 0 {
		return Stage[I, O]{}, &CompositionError{Combinator: combinator, Err: ErrEmptyComposition}
	}

	erased := make([]*stage, len(stages))
	prev := generic.TypeOf[I]()
	for i, st := range stages {
		pos := fmt.Sprintf("stage[%d]", i)
		if st == nil || st.erased() == nil {
			return Stage[I, O]{}, &CompositionError{Combinator: combinator, Position: pos, Err: ErrNilStage}
		}
		if !compatible(prev, st.InputType()) {
			return Stage[I, O]{}, newTypeMismatchErr(combinator, pos, st.InputType(), prev)
		}
		erased[i] = st.erased()
		prev = st.OutputType()
	}
	if out := generic.TypeOf[O](); !compatible(prev, out) {
		return Stage[I, O]{}, newTypeMismatchErr(combinator, "output", out, prev)
	}

	last := erased[len(erased)-1]
	head := erased[:len(erased)-1]

	runHead := func(ctx context.Context, in any, cfg ExecutionConfig) (any, error) {
		cur := in
		for _, s := range head {
			out, err := s.run(ctx, cur, cfg)
			if err != nil {
				return nil, err
			}
			cur = out
		}
		return cur, nil
	}

	s := &stage{
		name:       combinator,
		typ:        combinator,
		inputType:  generic.TypeOf[I](),
		outputType: generic.TypeOf[O](),
		invoke: func(ctx context.Context, in any, cfg ExecutionConfig) (any, error) {
			cur, err := runHead(ctx, in, cfg)
			if err != nil {
				return nil, err
			}
			return last.run(ctx, cur, cfg)
		},
	}
	if last.stream != nil {
		s.stream = func(ctx context.Context, in any, cfg ExecutionConfig, onChunk ChunkHandler) (any, error) {
			cur, err := runHead(ctx, in, cfg)
			if err != nil {
				return nil, err
			}
			return last.runStream(ctx, cur, cfg, onChunk)
		}
	}

	return Stage[I, O]{s: s}, nil
}

// MustSequence 同 Sequence，构建失败时 panic。适用于包级变量等静态组装场景。
func MustSequence[I, O any](stages ...AnyStage) Stage[I, O] {
	st, err := Sequence[I, O](stages...)
	if err != nil {
		panic(err)
	}
	return st
}
