package assembler

import (
	"context"
	"errors"
	"slices"

	"github.com/favbox/chainflow/components/tokenizer"
	"github.com/favbox/chainflow/schema"
)

// TrimMode 对话裁剪方式。
type TrimMode uint8

const (
	// TrimByTokens 保留总 token 数不超过 MaxTokens 的最新消息。
	TrimByTokens TrimMode = iota
	// TrimByWindow 保留最新的 MaxTurns 条消息。
	TrimByWindow
)

// TrimConfig 对话裁剪配置。
type TrimConfig struct {
	Mode TrimMode
	// MaxTokens TrimByTokens 模式的预算
	MaxTokens int
	// MaxTurns TrimByWindow 模式的窗口大小
	MaxTurns int
	// Tokenizer TrimByTokens 模式必填，按消息内容计数
	Tokenizer tokenizer.Tokenizer
}

func (c *TrimConfig) validate() error {
	if c == nil {
		return errors.New("trim config is nil")
	}
	switch c.Mode {
	case TrimByTokens:
		if c.Tokenizer == nil {
			return errors.New("trim by tokens requires a tokenizer")
		}
		if c.MaxTokens < 0 {
			return errors.New("max tokens must not be negative")
		}
	case TrimByWindow:
		if c.MaxTurns < 0 {
			return errors.New("max turns must not be negative")
		}
	default:
		return errors.New("unknown trim mode")
	}
	return nil
}

// TrimConversation 从最早的一端丢弃消息直到满足预算。
// 剩余消息保持原有顺序，最新的消息最后被丢弃；返回新切片，输入不被修改。
// 对结果以同样配置再次裁剪不会有任何变化。
func TrimConversation(msgs []*schema.Message, config *TrimConfig) ([]*schema.Message, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	start := 0
	switch config.Mode {
	case TrimByWindow:
		if len(msgs) > config.MaxTurns {
			start = len(msgs) - config.MaxTurns
		}
	case TrimByTokens:
		counts := make([]int, len(msgs))
		total := 0
		for i, m := range msgs {
			if m != nil {
				counts[i] = config.Tokenizer.CountTokens(m.Content)
			}
			total += counts[i]
		}
		for start < len(msgs) && total > config.MaxTokens {
			total -= counts[start]
			start++
		}
	}

	return slices.Clone(msgs[start:]), nil
}

// Trimmer 返回以 config 裁剪历史对话的函数，可直接用作 react.AgentConfig.HistoryTrimmer。
func Trimmer(config *TrimConfig) func(ctx context.Context, history []*schema.Message) ([]*schema.Message, error) {
	return func(_ context.Context, history []*schema.Message) ([]*schema.Message, error) {
		return TrimConversation(history, config)
	}
}
