package compose

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/favbox/chainflow/callbacks"
	"github.com/favbox/chainflow/components/cache/memcache"
	"github.com/favbox/chainflow/schema"
)

type flakyCache struct {
	getErr error
	putErr error
	puts   atomic.Int32
}

func (f *flakyCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, f.getErr
}

func (f *flakyCache) Put(context.Context, string, []byte) error {
	f.puts.Add(1)
	return f.putErr
}

// bytesCache 只支持字节读写的后端。
type bytesCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newBytesCache() *bytesCache {
	return &bytesCache{m: make(map[string][]byte)}
}

func (b *bytesCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.m[key]
	return v, ok, nil
}

func (b *bytesCache) Put(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[key] = value
	return nil
}

func (b *bytesCache) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.m)
}

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) handler(id string) callbacks.Handler {
	return callbacks.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackInput) context.Context {
			l.add(id + ":start:" + info.Name)
			return ctx
		}).
		OnEndFn(func(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackOutput) context.Context {
			l.add(id + ":end:" + info.Name)
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
			l.add(id + ":error:" + info.Name + ":" + err.Error())
			return ctx
		}).
		Build()
}

func countingUpper(calls *atomic.Int32) Stage[string, string] {
	return InvokableLambda(func(_ context.Context, s string) (string, error) {
		calls.Add(1)
		return s + "!", nil
	}, WithLambdaName("shout"))
}

func TestEngineCache(t *testing.T) {
	ctx := context.Background()

	t.Run("相同请求只调用一次", func(t *testing.T) {
		var calls atomic.Int32
		c := memcache.New(nil)
		eng, err := NewEngine(countingUpper(&calls), WithCache(c))
		require.NoError(t, err)

		first, err := eng.Run(ctx, "hi")
		require.NoError(t, err)
		second, err := eng.Run(ctx, "hi")
		require.NoError(t, err)

		assert.Equal(t, "hi!", first)
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 1, c.Len())

		_, err = eng.Run(ctx, "other")
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("停止条件按集合参与缓存键", func(t *testing.T) {
		var calls atomic.Int32
		eng, err := NewEngine(countingUpper(&calls), WithCache(memcache.New(nil)))
		require.NoError(t, err)

		_, err = eng.Run(ctx, "hi", WithStop("a", "b"))
		require.NoError(t, err)
		_, err = eng.Run(ctx, "hi", WithStop("b", "a", "a"))
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())

		_, err = eng.Run(ctx, "hi", WithStop("c"))
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("命名空间隔离", func(t *testing.T) {
		var calls atomic.Int32
		c := memcache.New(nil)
		e1, err := NewEngine(countingUpper(&calls), WithCache(c), WithCacheNamespace("a"))
		require.NoError(t, err)
		e2, err := NewEngine(countingUpper(&calls), WithCache(c), WithCacheNamespace("b"))
		require.NoError(t, err)

		_, _ = e1.Run(ctx, "hi")
		_, _ = e2.Run(ctx, "hi")
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("流式命中时回放单个终结块", func(t *testing.T) {
		var calls atomic.Int32
		st := StreamableLambda(func(ctx context.Context, s string, emit func(string)) error {
			calls.Add(1)
			return words(ctx, s, emit)
		}, WithLambdaName("words"))
		eng, err := NewEngine(st, WithCache(memcache.New(nil)))
		require.NoError(t, err)

		rec := &chunkRecorder{}
		out, err := eng.RunStream(ctx, "a b c", rec.handle)
		require.NoError(t, err)
		assert.Equal(t, "a b c", out)
		assert.Len(t, rec.chunks, 5)

		replay := &chunkRecorder{}
		out, err = eng.RunStream(ctx, "a b c", replay.handle)
		require.NoError(t, err)
		assert.Equal(t, "a b c", out)
		assert.Equal(t, []any{"a b c"}, replay.values())
		assert.Equal(t, "words", replay.chunks[0].Stage)
		assert.Equal(t, int32(1), calls.Load())

		out, err = eng.Run(ctx, "a b c")
		require.NoError(t, err)
		assert.Equal(t, "a b c", out)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("错误不写入缓存", func(t *testing.T) {
		var calls atomic.Int32
		st := InvokableLambda(func(_ context.Context, s string) (string, error) {
			calls.Add(1)
			return "", errors.New("transient")
		})
		c := memcache.New(nil)
		eng, err := NewEngine(st, WithCache(c))
		require.NoError(t, err)

		_, err = eng.Run(ctx, "x")
		assert.EqualError(t, err, "transient")
		_, err = eng.Run(ctx, "x")
		assert.EqualError(t, err, "transient")
		assert.Equal(t, int32(2), calls.Load())
		assert.Zero(t, c.Len())
	})

	t.Run("缓存读写失败按未命中处理", func(t *testing.T) {
		var calls atomic.Int32
		fc := &flakyCache{getErr: errors.New("read down"), putErr: errors.New("write down")}
		eng, err := NewEngine(countingUpper(&calls), WithCache(fc))
		require.NoError(t, err)

		out, err := eng.Run(ctx, "hi")
		assert.NoError(t, err)
		assert.Equal(t, "hi!", out)
		_, err = eng.Run(ctx, "hi")
		assert.NoError(t, err)

		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, int32(2), fc.puts.Load())
	})

	t.Run("不可序列化的输入绕过缓存", func(t *testing.T) {
		var calls atomic.Int32
		st := InvokableLambda(func(_ context.Context, in map[string]any) (int, error) {
			calls.Add(1)
			return len(in), nil
		})
		c := memcache.New(nil)
		eng, err := NewEngine(st, WithCache(c))
		require.NoError(t, err)

		in := map[string]any{"fn": func() {}}
		_, err = eng.Run(ctx, in)
		assert.NoError(t, err)
		_, err = eng.Run(ctx, in)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
		assert.Zero(t, c.Len())
	})

	t.Run("命中返回与首次调用相同类型的值", func(t *testing.T) {
		var calls atomic.Int32
		msg := InvokableLambda(func(_ context.Context, s string) (*schema.Message, error) {
			calls.Add(1)
			return schema.AssistantMessage(s), nil
		}, WithLambdaName("msg"))
		n := InvokableLambda(func(_ context.Context, s string) (int, error) {
			return len(s), nil
		}, WithLambdaName("n"))
		par, err := Parallel[string](Branch("msg", msg), Branch("n", n))
		require.NoError(t, err)

		eng, err := NewEngine(par, WithCache(memcache.New(nil)))
		require.NoError(t, err)

		first, err := eng.Run(ctx, "abc")
		require.NoError(t, err)
		cached, err := eng.Run(ctx, "abc")
		require.NoError(t, err)

		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, first, cached)
		assert.IsType(t, &schema.Message{}, cached["msg"])
		assert.IsType(t, 0, cached["n"])

		// 修改返回的 map 不影响缓存
		cached["n"] = "changed"
		again, err := eng.Run(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, 3, again["n"])
	})

	t.Run("字节后端不缓存无法还原的值", func(t *testing.T) {
		var calls atomic.Int32
		st := InvokableLambda(func(_ context.Context, s string) (map[string]any, error) {
			calls.Add(1)
			return map[string]any{"len": len(s)}, nil
		})
		bc := newBytesCache()
		eng, err := NewEngine(st, WithCache(bc))
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			out, err := eng.Run(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"len": 3}, out)
		}
		assert.Equal(t, int32(2), calls.Load())
		assert.Zero(t, bc.len())

		var strCalls atomic.Int32
		strEng, err := NewEngine(countingUpper(&strCalls), WithCache(bc))
		require.NoError(t, err)
		_, _ = strEng.Run(ctx, "hi")
		out, err := strEng.Run(ctx, "hi")
		require.NoError(t, err)
		assert.Equal(t, "hi!", out)
		assert.Equal(t, int32(1), strCalls.Load())
		assert.Equal(t, 1, bc.len())
	})
}

func TestEngineCallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("通知顺序", func(t *testing.T) {
		log := &eventLog{}
		eng, err := NewEngine(InvokableLambda(upper, WithLambdaName("upper")), WithCacheNamespace("svc"))
		require.NoError(t, err)

		_, err = eng.Run(ctx, "x", WithCallbacks(log.handler("h1"), log.handler("h2")))
		require.NoError(t, err)

		assert.Equal(t, []string{
			"h2:start:svc", "h1:start:svc",
			"h2:start:upper", "h1:start:upper",
			"h1:end:upper", "h2:end:upper",
			"h1:end:svc", "h2:end:svc",
		}, log.events)
	})

	t.Run("错误通知", func(t *testing.T) {
		log := &eventLog{}
		st := InvokableLambda(func(_ context.Context, _ string) (string, error) {
			return "", errors.New("boom")
		}, WithLambdaName("fail"))
		eng, err := NewEngine(st)
		require.NoError(t, err)

		_, err = eng.Run(ctx, "x", WithCallbacks(log.handler("h")))
		assert.EqualError(t, err, "boom")
		assert.Equal(t, []string{
			"h:start:fail", "h:start:fail",
			"h:error:fail:boom", "h:error:fail:boom",
		}, log.events)
	})

	t.Run("观察者 panic 不影响执行", func(t *testing.T) {
		log := &eventLog{}
		bad := callbacks.NewHandlerBuilder().
			OnStartFn(func(context.Context, *callbacks.RunInfo, callbacks.CallbackInput) context.Context {
				panic("observer exploded")
			}).
			OnEndFn(func(context.Context, *callbacks.RunInfo, callbacks.CallbackOutput) context.Context {
				panic("observer exploded")
			}).
			Build()

		eng, err := NewEngine(InvokableLambda(upper, WithLambdaName("upper")))
		require.NoError(t, err)

		out, err := eng.Run(ctx, "x", WithCallbacks(bad, log.handler("h")))
		assert.NoError(t, err)
		assert.Equal(t, "X", out)
		assert.Contains(t, log.events, "h:end:upper")
	})

	t.Run("命中缓存也触发通知", func(t *testing.T) {
		var calls atomic.Int32
		eng, err := NewEngine(countingUpper(&calls), WithCache(memcache.New(nil)))
		require.NoError(t, err)
		_, err = eng.Run(ctx, "x")
		require.NoError(t, err)

		log := &eventLog{}
		_, err = eng.Run(ctx, "x", WithCallbacks(log.handler("h")))
		require.NoError(t, err)
		assert.Equal(t, []string{"h:start:shout", "h:end:shout"}, log.events)
	})

	t.Run("RunInfo 携带运行标识", func(t *testing.T) {
		var ids []string
		var mu sync.Mutex
		h := callbacks.NewHandlerBuilder().
			OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackInput) context.Context {
				mu.Lock()
				ids = append(ids, info.RunID)
				mu.Unlock()
				return ctx
			}).Build()

		eng, err := NewEngine(MustSequence[string, string](InvokableLambda(upper), Passthrough[string]()))
		require.NoError(t, err)
		_, err = eng.Run(ctx, "x", WithCallbacks(h), WithRunID("run-1"))
		require.NoError(t, err)

		require.Len(t, ids, 4)
		for _, id := range ids {
			assert.Equal(t, "run-1", id)
		}
	})
}

func TestNewEngineNilStage(t *testing.T) {
	_, err := NewEngine(Stage[string, string]{})
	assert.ErrorIs(t, err, ErrNilStage)
}
