// Package tokenizer 提供按模型族计数 token 的能力，供对话裁剪与文档装箱使用。
package tokenizer

// Tokenizer 统计文本的 token 数。实现必须是确定性的并可并发调用。
type Tokenizer interface {
	CountTokens(text string) int
}

// Func 将普通函数适配为 Tokenizer。
type Func func(text string) int

func (f Func) CountTokens(text string) int {
	return f(text)
}
