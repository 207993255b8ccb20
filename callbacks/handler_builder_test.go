package callbacks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerBuilder(t *testing.T) {
	var started, ended int
	h := NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *RunInfo, input CallbackInput) context.Context {
			started++
			return ctx
		}).
		OnEndFn(func(ctx context.Context, info *RunInfo, output CallbackOutput) context.Context {
			ended++
			return ctx
		}).
		Build()

	tc, ok := h.(TimingChecker)
	assert.True(t, ok)

	ctx := context.Background()
	info := &RunInfo{Name: "n"}
	assert.True(t, tc.Needed(ctx, info, TimingOnStart))
	assert.True(t, tc.Needed(ctx, info, TimingOnEnd))
	assert.False(t, tc.Needed(ctx, info, TimingOnError))

	h.OnStart(ctx, info, nil)
	h.OnEnd(ctx, info, nil)
	assert.Equal(t, 1, started)
	assert.Equal(t, 1, ended)
}
