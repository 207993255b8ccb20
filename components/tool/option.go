package tool

// Option 工具调用选项，只承载实现相关的选项。
type Option struct {
	implSpecificOptFn any
}

func WrapImplSpecificOptFn[T any](optFn func(*T)) Option {
	return Option{implSpecificOptFn: optFn}
}

// GetImplSpecificOptions 提取类型为 func(*T) 的选项并应用到 base 上。
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
