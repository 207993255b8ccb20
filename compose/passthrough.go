package compose

import (
	"context"

	"github.com/favbox/chainflow/internal/generic"
)

// Passthrough 输出输入的副本。map 与 slice 做浅拷贝，下游修改不会影响上游持有的值。
// 常与 Parallel 搭配，把原始输入作为一个输出键带到下游。
func Passthrough[T any]() Stage[T, T] {
	return Stage[T, T]{s: &stage{
		name:       "Passthrough",
		typ:        "Passthrough",
		inputType:  generic.TypeOf[T](),
		outputType: generic.TypeOf[T](),
		invoke: func(_ context.Context, in any, _ ExecutionConfig) (any, error) {
			return generic.ShallowClone(in), nil
		},
	}}
}
