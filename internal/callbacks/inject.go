package callbacks

import (
	"context"
	"runtime/debug"

	"github.com/favbox/chainflow/internal/generic"
	"github.com/favbox/chainflow/internal/safe"
	"github.com/favbox/chainflow/logging"
)

// OnStartHandle 按注册的逆序触发 OnStart，使最先注册的处理器最后看到输入。
func OnStartHandle(ctx context.Context, info *RunInfo, input CallbackInput, handlers []Handler, logger logging.Logger) context.Context {
	for _, h := range generic.Reverse(handlers) {
		ctx = invoke(ctx, info, TimingOnStart, h, logger, func(ctx context.Context) context.Context {
			return h.OnStart(ctx, info, input)
		})
	}
	return ctx
}

// OnEndHandle 按注册顺序触发 OnEnd。
func OnEndHandle(ctx context.Context, info *RunInfo, output CallbackOutput, handlers []Handler, logger logging.Logger) context.Context {
	for _, h := range handlers {
		ctx = invoke(ctx, info, TimingOnEnd, h, logger, func(ctx context.Context) context.Context {
			return h.OnEnd(ctx, info, output)
		})
	}
	return ctx
}

// OnErrorHandle 按注册顺序触发 OnError。
func OnErrorHandle(ctx context.Context, info *RunInfo, err error, handlers []Handler, logger logging.Logger) context.Context {
	for _, h := range handlers {
		ctx = invoke(ctx, info, TimingOnError, h, logger, func(ctx context.Context) context.Context {
			return h.OnError(ctx, info, err)
		})
	}
	return ctx
}

// invoke 执行单个处理器。处理器的 panic 被吞掉并记录，不影响被观察的计算；
// 返回 nil context 时沿用原 context。
func invoke(ctx context.Context, info *RunInfo, timing CallbackTiming, h Handler, logger logging.Logger,
	fn func(context.Context) context.Context) (out context.Context) {

	if h == nil {
		return ctx
	}
	if tc, ok := h.(TimingChecker); ok && !tc.Needed(ctx, info, timing) {
		return ctx
	}

	out = ctx
	defer func() {
		if r := recover(); r != nil {
			logging.OrNoOp(logger).Warn("callback handler panicked",
				"timing", timing.String(), "stage", info.Name, "err", safe.NewPanicErr(r, debug.Stack()))
			out = ctx
		}
	}()

	if next := fn(ctx); next != nil {
		out = next
	}
	return out
}
