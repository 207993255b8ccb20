package compose

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/favbox/chainflow/callbacks"
	"github.com/favbox/chainflow/logging"
)

// ExecutionConfig 单次顶层调用的只读配置，按值向下传递，调用过程中不会被修改。
type ExecutionConfig struct {
	// RunID 关联标识，默认随机生成
	RunID string
	// Tag 分支路径，由 Parallel/Assign 自动派生
	Tag string
	// Handlers 观察者
	Handlers []callbacks.Handler
	// Stop 停止条件，参与缓存键计算并传给模型阶段
	Stop []string
	// MaxConcurrency 单个 Parallel/Assign 同时运行的分支上限，0 表示不限
	MaxConcurrency int
	// Logger 记录观察者异常等诊断信息
	Logger logging.Logger
}

// Option 调用选项。
type Option func(*ExecutionConfig)

// WithCallbacks 追加观察者。
func WithCallbacks(handlers ...callbacks.Handler) Option {
	return func(c *ExecutionConfig) {
		c.Handlers = append(c.Handlers, handlers...)
	}
}

// WithRunID 指定关联标识。
func WithRunID(id string) Option {
	return func(c *ExecutionConfig) {
		c.RunID = id
	}
}

// WithTag 指定根路径标签。
func WithTag(tag string) Option {
	return func(c *ExecutionConfig) {
		c.Tag = tag
	}
}

// WithStop 设置停止条件。
func WithStop(stop ...string) Option {
	return func(c *ExecutionConfig) {
		c.Stop = append(c.Stop, stop...)
	}
}

// WithMaxConcurrency 限制并行分支数。
func WithMaxConcurrency(n int) Option {
	return func(c *ExecutionConfig) {
		c.MaxConcurrency = n
	}
}

// WithLogger 指定诊断日志。
func WithLogger(l logging.Logger) Option {
	return func(c *ExecutionConfig) {
		c.Logger = l
	}
}

func newExecutionConfig(opts ...Option) ExecutionConfig {
	var cfg ExecutionConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	cfg.Logger = logging.OrNoOp(cfg.Logger)
	return cfg
}

// branch 返回子分支使用的配置副本。切片字段复制后再交给子分支，避免共享底层数组。
func (c ExecutionConfig) branch(key string) ExecutionConfig {
	child := c
	if c.Tag == "" {
		child.Tag = key
	} else {
		child.Tag = c.Tag + "/" + key
	}
	child.Handlers = slices.Clone(c.Handlers)
	child.Stop = slices.Clone(c.Stop)
	return child
}

type executionConfigKey struct{}

func withExecutionConfig(ctx context.Context, cfg ExecutionConfig) context.Context {
	return context.WithValue(ctx, executionConfigKey{}, cfg)
}

// GetExecutionConfig 在 Lambda 内读取当前调用的配置。
func GetExecutionConfig(ctx context.Context) (ExecutionConfig, bool) {
	cfg, ok := ctx.Value(executionConfigKey{}).(ExecutionConfig)
	return cfg, ok
}
