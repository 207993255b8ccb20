/*
 * engine.go - 执行引擎
 *
 * Run / RunStream 的统一流程：
 *   1. 触发 OnStart
 *   2. 计算内容键并查询缓存，命中直接返回（流式调用以单个终结块回放）
 *   3. 未命中则执行阶段，成功后写入缓存
 *   4. 触发 OnEnd 或 OnError，错误原样返回
 *
 * 缓存后端实现 cache.ValueCache 时直接保存结果值，命中返回的值与首次调用类型一致；
 * 只支持字节的后端经 sonic 编码，编码后无法还原为同一值的结果（如 map 中的 int、
 * 接口中的具体类型）不写入缓存。
 *
 * 缓存读写失败只记录日志，按未命中处理；引擎本身不做重试。
 * 并发的相同请求可能同时未命中并各自写入，值等价，后写覆盖先写。
 */

package compose

import (
	"context"
	"reflect"

	"github.com/bytedance/sonic"

	"github.com/favbox/chainflow/components/cache"
	icb "github.com/favbox/chainflow/internal/callbacks"
	"github.com/favbox/chainflow/internal/generic"
	"github.com/favbox/chainflow/logging"
)

type engineOptions struct {
	cache     cache.Cache
	namespace string
	logger    logging.Logger
}

// EngineOption 引擎构建选项。
type EngineOption func(*engineOptions)

// WithCache 启用结果缓存。
func WithCache(c cache.Cache) EngineOption {
	return func(o *engineOptions) {
		o.cache = c
	}
}

// WithCacheNamespace 设置参与缓存键计算的命名空间，默认为阶段名。
// 不同阶段共用同一缓存后端时，应保证命名空间不同。
func WithCacheNamespace(ns string) EngineOption {
	return func(o *engineOptions) {
		o.namespace = ns
	}
}

// WithEngineLogger 设置引擎日志。
func WithEngineLogger(l logging.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// Engine 驱动一个阶段执行，统一处理缓存与通知。
type Engine[I, O any] struct {
	stage     Stage[I, O]
	cache     cache.Cache
	values    cache.ValueCache
	namespace string
	logger    logging.Logger
}

// NewEngine 创建引擎。缓存由调用方显式传入，没有全局缓存。
func NewEngine[I, O any](st Stage[I, O], opts ...EngineOption) (*Engine[I, O], error) {
	if st.erased() == nil {
		return nil, ErrNilStage
	}
	o := &engineOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.namespace == "" {
		o.namespace = st.Name()
	}
	values, _ := o.cache.(cache.ValueCache)
	return &Engine[I, O]{
		stage:     st,
		cache:     o.cache,
		values:    values,
		namespace: o.namespace,
		logger:    logging.OrNoOp(o.logger),
	}, nil
}

// Stage 返回被驱动的阶段。
func (e *Engine[I, O]) Stage() Stage[I, O] {
	return e.stage
}

// Run 同步执行，命中缓存时不调用阶段。
func (e *Engine[I, O]) Run(ctx context.Context, in I, opts ...Option) (O, error) {
	cfg := e.config(opts)
	info := e.runInfo(cfg)
	ctx = icb.OnStartHandle(ctx, info, in, cfg.Handlers, cfg.Logger)

	key, out, hit := e.lookup(ctx, in, cfg)
	if hit {
		icb.OnEndHandle(ctx, info, out, cfg.Handlers, cfg.Logger)
		return out, nil
	}

	out, err := e.stage.invokeWithConfig(ctx, in, cfg)
	if err != nil {
		icb.OnErrorHandle(ctx, info, err, cfg.Handlers, cfg.Logger)
		return out, err
	}

	e.store(ctx, key, out)
	icb.OnEndHandle(ctx, info, out, cfg.Handlers, cfg.Logger)
	return out, nil
}

// RunStream 流式执行。命中缓存时把完整结果作为单个终结块回放，不重复调用阶段。
func (e *Engine[I, O]) RunStream(ctx context.Context, in I, onChunk ChunkHandler, opts ...Option) (O, error) {
	cfg := e.config(opts)
	info := e.runInfo(cfg)
	ctx = icb.OnStartHandle(ctx, info, in, cfg.Handlers, cfg.Logger)

	key, out, hit := e.lookup(ctx, in, cfg)
	if hit {
		onChunk.emit(ctx, &Chunk{Stage: e.stage.Name(), Tag: cfg.Tag, Value: out}, cfg.Logger)
		icb.OnEndHandle(ctx, info, out, cfg.Handlers, cfg.Logger)
		return out, nil
	}

	out, err := e.stage.streamWithConfig(ctx, in, cfg, onChunk)
	if err != nil {
		icb.OnErrorHandle(ctx, info, err, cfg.Handlers, cfg.Logger)
		return out, err
	}

	e.store(ctx, key, out)
	icb.OnEndHandle(ctx, info, out, cfg.Handlers, cfg.Logger)
	return out, nil
}

func (e *Engine[I, O]) config(opts []Option) ExecutionConfig {
	return newExecutionConfig(append([]Option{WithLogger(e.logger)}, opts...)...)
}

func (e *Engine[I, O]) runInfo(cfg ExecutionConfig) *icb.RunInfo {
	return &icb.RunInfo{
		Name:  e.namespace,
		Type:  "Engine",
		RunID: cfg.RunID,
		Tag:   cfg.Tag,
	}
}

// lookup 返回内容键与缓存值。键为空表示本次调用不参与缓存。
func (e *Engine[I, O]) lookup(ctx context.Context, in I, cfg ExecutionConfig) (key string, out O, hit bool) {
	if e.cache == nil {
		return "", out, false
	}

	key, err := CacheKey(e.namespace, in, cfg.Stop)
	if err != nil {
		e.logger.Warn("cache bypassed: input is not serializable", "stage", e.namespace, "err", err)
		return "", out, false
	}

	if e.values != nil {
		out, hit = e.lookupValue(ctx, key)
	} else {
		out, hit = e.lookupBytes(ctx, key)
	}
	if hit {
		e.logger.Debug("cache hit", "stage", e.namespace, "key", key)
	}
	return key, out, hit
}

// lookupValue 返回缓存值的浅拷贝，调用方修改顶层 map/slice 不影响缓存。
func (e *Engine[I, O]) lookupValue(ctx context.Context, key string) (out O, hit bool) {
	v, ok, err := e.values.GetValue(ctx, key)
	if err != nil {
		e.logger.Warn("cache read failed, treating as miss", "stage", e.namespace, "key", key, "err", err)
		return out, false
	}
	if !ok {
		e.logger.Debug("cache miss", "stage", e.namespace, "key", key)
		return out, false
	}
	if v == nil {
		return out, true
	}
	if out, ok = v.(O); !ok {
		e.logger.Warn("cached value has unexpected type, treating as miss",
			"stage", e.namespace, "key", key, "type", reflect.TypeOf(v).String())
		return out, false
	}
	return generic.ShallowClone(out), true
}

func (e *Engine[I, O]) lookupBytes(ctx context.Context, key string) (out O, hit bool) {
	raw, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("cache read failed, treating as miss", "stage", e.namespace, "key", key, "err", err)
		return out, false
	}
	if !ok {
		e.logger.Debug("cache miss", "stage", e.namespace, "key", key)
		return out, false
	}
	if err = sonic.Unmarshal(raw, &out); err != nil {
		e.logger.Warn("cached value is unreadable, treating as miss", "stage", e.namespace, "key", key, "err", err)
		var zero O
		return zero, false
	}
	return out, true
}

func (e *Engine[I, O]) store(ctx context.Context, key string, out O) {
	if e.cache == nil || key == "" {
		return
	}

	if e.values != nil {
		if err := e.values.PutValue(ctx, key, generic.ShallowClone(out)); err != nil {
			e.logger.Warn("cache write failed", "stage", e.namespace, "key", key, "err", err)
		}
		return
	}

	raw, err := sonic.Marshal(out)
	if err != nil {
		e.logger.Warn("cache write skipped: output is not serializable", "stage", e.namespace, "err", err)
		return
	}
	// 解码后与原值不等的结果不缓存，保证命中返回的值与首次调用一致
	var back O
	if err = sonic.Unmarshal(raw, &back); err != nil || !reflect.DeepEqual(back, out) {
		e.logger.Debug("cache write skipped: output does not survive encoding", "stage", e.namespace, "key", key)
		return
	}
	if err = e.cache.Put(ctx, key, raw); err != nil {
		e.logger.Warn("cache write failed", "stage", e.namespace, "key", key, "err", err)
	}
}
