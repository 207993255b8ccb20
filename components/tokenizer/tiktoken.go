package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding OpenAI 系列对话模型使用的 BPE 编码。
const DefaultEncoding = "cl100k_base"

var setLoaderOnce sync.Once

// Tiktoken 基于 BPE 词表的精确计数器。词表随二进制内置，不访问网络。
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken 按编码名创建计数器，encoding 为空时使用 DefaultEncoding。
func NewTiktoken(encoding string) (*Tiktoken, error) {
	setLoaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s failed: %w", encoding, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// NewTiktokenForModel 按模型名选择编码。
func NewTiktokenForModel(model string) (*Tiktoken, error) {
	setLoaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("load encoding for model %s failed: %w", model, err)
	}
	return &Tiktoken{enc: enc}, nil
}

func (t *Tiktoken) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

func (t *Tiktoken) GetType() string {
	return "Tiktoken"
}
