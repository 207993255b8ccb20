package tokenizer

import "unicode/utf8"

const defaultCharsPerToken = 4

// Estimator 按字符数估算 token，不依赖词表。
type Estimator struct {
	charsPerToken int
}

// NewEstimator 以每 token 字符数创建估算器，非正数时使用默认值 4。
func NewEstimator(charsPerToken int) *Estimator {
	if charsPerToken <= 0 {
		charsPerToken = defaultCharsPerToken
	}
	return &Estimator{charsPerToken: charsPerToken}
}

// CountTokens 非空文本至少计 1 个 token，避免短文本绕过预算。
func (e *Estimator) CountTokens(text string) int {
	n := utf8.RuneCountInString(text)
	tokens := n / e.charsPerToken
	if n > 0 && tokens == 0 {
		tokens = 1
	}
	return tokens
}

func (e *Estimator) GetType() string {
	return "Estimator"
}
