package retriever

// Options 检索的通用选项。
type Options struct {
	// TopK 返回的最大文档数，即候选池大小
	TopK *int
	// ScoreThreshold 相关度下限
	ScoreThreshold *float64
}

type Option struct {
	apply func(opts *Options)

	implSpecificOptFn any
}

// WithTopK 设置候选池大小。上下文装配器重试时会逐次调大该值。
func WithTopK(topK int) Option {
	return Option{apply: func(opts *Options) {
		opts.TopK = &topK
	}}
}

func WithScoreThreshold(threshold float64) Option {
	return Option{apply: func(opts *Options) {
		opts.ScoreThreshold = &threshold
	}}
}

func WrapImplSpecificOptFn[T any](optFn func(*T)) Option {
	return Option{implSpecificOptFn: optFn}
}

func GetCommonOptions(base *Options, opts ...Option) *Options {
	if base == nil {
		base = &Options{}
	}
	for _, opt := range opts {
		if opt.apply != nil {
			opt.apply(base)
		}
	}
	return base
}

func GetImplSpecificOptions[T any](base *T, opts ...Option) *T {
	if base == nil {
		base = new(T)
	}
	for _, opt := range opts {
		if fn, ok := opt.implSpecificOptFn.(func(*T)); ok {
			fn(base)
		}
	}
	return base
}
