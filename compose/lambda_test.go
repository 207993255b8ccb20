package compose

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/favbox/chainflow/components/cache/memcache"
	"github.com/favbox/chainflow/logging"
)

func upper(_ context.Context, s string) (string, error) {
	return strings.ToUpper(s), nil
}

func words(_ context.Context, s string, emit func(string)) error {
	for i, w := range strings.Fields(s) {
		if i > 0 {
			emit(" ")
		}
		emit(w)
	}
	return nil
}

type chunkRecorder struct {
	chunks []*Chunk
}

func (r *chunkRecorder) handle(_ context.Context, c *Chunk) {
	r.chunks = append(r.chunks, c)
}

func (r *chunkRecorder) values() []any {
	vs := make([]any, len(r.chunks))
	for i, c := range r.chunks {
		vs[i] = c.Value
	}
	return vs
}

func TestInvokableLambda(t *testing.T) {
	ctx := context.Background()
	st := InvokableLambda(upper)

	assert.Equal(t, "upper", st.Name())
	assert.False(t, st.Streamable())

	out, err := st.Invoke(ctx, "abc")
	assert.NoError(t, err)
	assert.Equal(t, "ABC", out)

	t.Run("流式调用退化为单个最终块", func(t *testing.T) {
		rec := &chunkRecorder{}
		out, err := st.Stream(ctx, "abc", rec.handle)
		assert.NoError(t, err)
		assert.Equal(t, "ABC", out)
		require.Len(t, rec.chunks, 1)
		assert.Equal(t, &Chunk{Stage: "upper", Value: "ABC"}, rec.chunks[0])
	})

	t.Run("匿名函数使用默认名", func(t *testing.T) {
		anon := InvokableLambda(func(_ context.Context, n int) (int, error) { return n + 1, nil })
		assert.Equal(t, "Lambda", anon.Name())

		named := anon.WithName("inc")
		assert.Equal(t, "inc", named.Name())
		assert.Equal(t, "Lambda", anon.Name())
	})

	t.Run("panic 转为错误", func(t *testing.T) {
		boom := InvokableLambda(func(_ context.Context, _ string) (string, error) { panic("boom") })
		_, err := boom.Invoke(ctx, "x")
		assert.ErrorContains(t, err, "panic error: boom")
	})

	t.Run("错误原样返回", func(t *testing.T) {
		want := errors.New("backend down")
		failing := InvokableLambda(func(_ context.Context, _ string) (string, error) { return "", want })
		_, err := failing.Invoke(ctx, "x")
		assert.Same(t, want, err)
	})
}

func TestStreamableLambda(t *testing.T) {
	ctx := context.Background()
	st := StreamableLambda(words, WithLambdaName("words"))
	assert.True(t, st.Streamable())

	t.Run("分片拼接为最终值", func(t *testing.T) {
		rec := &chunkRecorder{}
		out, err := st.Stream(ctx, "hello big world", rec.handle)
		assert.NoError(t, err)
		assert.Equal(t, "hello big world", out)
		assert.Equal(t, []any{"hello", " ", "big", " ", "world"}, rec.values())

		var joined strings.Builder
		for _, v := range rec.values() {
			joined.WriteString(v.(string))
		}
		assert.Equal(t, out, joined.String())
	})

	t.Run("Invoke 收集全部分片", func(t *testing.T) {
		out, err := st.Invoke(ctx, "a b")
		assert.NoError(t, err)
		assert.Equal(t, "a b", out)
	})

	t.Run("nil 回调", func(t *testing.T) {
		out, err := st.Stream(ctx, "a", nil)
		assert.NoError(t, err)
		assert.Equal(t, "a", out)
	})
}

func TestAnyLambda(t *testing.T) {
	ctx := context.Background()

	_, err := AnyLambda[string, string](nil, nil)
	assert.Error(t, err)

	onlyInvoke, err := AnyLambda[string, string](upper, nil)
	assert.NoError(t, err)
	assert.False(t, onlyInvoke.Streamable())

	onlyStream, err := AnyLambda[string, string](nil, words)
	assert.NoError(t, err)
	assert.True(t, onlyStream.Streamable())

	both, err := AnyLambda[string, string](upper, words, WithLambdaName("both"))
	assert.NoError(t, err)

	out, err := both.Invoke(ctx, "a b")
	assert.NoError(t, err)
	assert.Equal(t, "A B", out)

	rec := &chunkRecorder{}
	out, err = both.Stream(ctx, "a b", rec.handle)
	assert.NoError(t, err)
	assert.Equal(t, "a b", out)
	assert.Len(t, rec.chunks, 3)
}

func TestExecutionConfigInLambda(t *testing.T) {
	var got ExecutionConfig
	st := InvokableLambda(func(ctx context.Context, s string) (string, error) {
		cfg, ok := GetExecutionConfig(ctx)
		assert.True(t, ok)
		got = cfg
		return s, nil
	})

	_, err := st.Invoke(context.Background(), "x", WithRunID("run-1"), WithStop("\nObservation:"), WithTag("root"))
	assert.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, []string{"\nObservation:"}, got.Stop)
	assert.Equal(t, "root", got.Tag)

	_, err = st.Invoke(context.Background(), "x")
	assert.NoError(t, err)
	assert.NotEmpty(t, got.RunID)

	_, ok := GetExecutionConfig(context.Background())
	assert.False(t, ok)
}

func TestNilStage(t *testing.T) {
	var st Stage[string, string]
	_, err := st.Invoke(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNilStage)
	_, err = st.Stream(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrNilStage)
	assert.Equal(t, "", st.Name())
	assert.False(t, st.Streamable())
	assert.Equal(t, "", st.WithName("x").Name())
}

func TestChunkHandlerPanicIsolated(t *testing.T) {
	ctx := context.Background()

	newLogger := func() (*bytes.Buffer, logging.Logger) {
		buf := &bytes.Buffer{}
		return buf, logging.NewSlogAdapter(slog.New(slog.NewTextHandler(buf, nil)))
	}
	broken := func(context.Context, *Chunk) { panic("ui broke") }

	t.Run("增量产出", func(t *testing.T) {
		buf, logger := newLogger()
		st := StreamableLambda(words, WithLambdaName("words"))

		var out string
		var err error
		assert.NotPanics(t, func() {
			out, err = st.Stream(ctx, "a b", broken, WithLogger(logger))
		})
		assert.NoError(t, err)
		assert.Equal(t, "a b", out)
		assert.Contains(t, buf.String(), "chunk handler panicked")
		assert.Contains(t, buf.String(), "ui broke")
	})

	t.Run("退化的单个最终块", func(t *testing.T) {
		buf, logger := newLogger()
		st := InvokableLambda(upper)

		var out string
		var err error
		assert.NotPanics(t, func() {
			out, err = st.Stream(ctx, "abc", broken, WithLogger(logger))
		})
		assert.NoError(t, err)
		assert.Equal(t, "ABC", out)
		assert.Contains(t, buf.String(), "chunk handler panicked")
	})

	t.Run("缓存回放", func(t *testing.T) {
		buf, logger := newLogger()
		eng, err := NewEngine(InvokableLambda(upper), WithCache(memcache.New(nil)), WithEngineLogger(logger))
		require.NoError(t, err)

		_, err = eng.Run(ctx, "abc")
		require.NoError(t, err)

		var out string
		assert.NotPanics(t, func() {
			out, err = eng.RunStream(ctx, "abc", broken)
		})
		assert.NoError(t, err)
		assert.Equal(t, "ABC", out)
		assert.Contains(t, buf.String(), "chunk handler panicked")
	})
}
