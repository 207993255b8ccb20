/*
Package callbacks 提供阶段执行生命周期的观察者机制。

处理器通过 compose.WithCallbacks 随单次调用传入，在阶段开始、结束、出错时被通知。
触发顺序：OnStart 按注册逆序，OnEnd/OnError 按注册顺序。
处理器内部的 panic 会被隔离并记录，不会改变被观察计算的结果。

	handler := callbacks.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
			log.Printf("start %s", info.Name)
			return ctx
		}).
		Build()

	out, err := stage.Invoke(ctx, in, compose.WithCallbacks(handler))
*/
package callbacks
