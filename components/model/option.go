package model

// Options 模型的通用选项。
type Options struct {
	// Temperature 采样温度
	Temperature *float32
	// MaxTokens 最大生成 token 数
	MaxTokens *int
	// Model 模型名
	Model *string
	// TopP 核采样
	TopP *float32
	// Stop 停止词，生成到任一停止词时截断
	Stop []string
}

// Option 模型调用选项，可携带通用选项或实现相关选项。
type Option struct {
	apply func(opts *Options)

	implSpecificOptFn any
}

func WithTemperature(temperature float32) Option {
	return Option{apply: func(opts *Options) {
		opts.Temperature = &temperature
	}}
}

func WithMaxTokens(maxTokens int) Option {
	return Option{apply: func(opts *Options) {
		opts.MaxTokens = &maxTokens
	}}
}

func WithModel(name string) Option {
	return Option{apply: func(opts *Options) {
		opts.Model = &name
	}}
}

func WithTopP(topP float32) Option {
	return Option{apply: func(opts *Options) {
		opts.TopP = &topP
	}}
}

// WithStop 设置停止词。智能体循环借此在 "Observation:" 前截断补全。
func WithStop(stop []string) Option {
	return Option{apply: func(opts *Options) {
		opts.Stop = stop
	}}
}

// WrapImplSpecificOptFn 包装实现相关的选项函数。
//
//	type myOpts struct{ Seed int }
//	opt := model.WrapImplSpecificOptFn(func(o *myOpts) { o.Seed = 7 })
func WrapImplSpecificOptFn[T any](optFn func(*T)) Option {
	return Option{implSpecificOptFn: optFn}
}

// GetCommonOptions 将 opts 依次应用到 base 上；base 为 nil 时新建。
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

// GetImplSpecificOptions 提取类型为 func(*T) 的实现相关选项并应用到 base 上。
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
