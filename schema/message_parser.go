package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// MessageParser 将消息解析为 T。
type MessageParser[T any] interface {
	Parse(ctx context.Context, m *Message) (T, error)
}

// MessageJSONParseConfig JSON 解析配置。
type MessageJSONParseConfig struct {
	// ParseKeyPath 点分隔的字段路径，如 "data.answer"，为空时解析整个内容
	ParseKeyPath string `json:"parse_key_path,omitempty"`
}

// NewMessageJSONParser 创建从消息内容解析 JSON 的解析器。
// 内容被 ```json 代码块包裹时自动剥离围栏。
func NewMessageJSONParser[T any](config *MessageJSONParseConfig) MessageParser[T] {
	if config == nil {
		config = &MessageJSONParseConfig{}
	}
	return &MessageJSONParser[T]{ParseKeyPath: config.ParseKeyPath}
}

type MessageJSONParser[T any] struct {
	ParseKeyPath string
}

func (p *MessageJSONParser[T]) Parse(_ context.Context, m *Message) (parsed T, err error) {
	if m == nil {
		return parsed, fmt.Errorf("nil message")
	}
	return p.parse(ExtractJSONBlock(m.Content))
}

func (p *MessageJSONParser[T]) parse(data string) (parsed T, err error) {
	if p.ParseKeyPath != "" {
		keys := strings.Split(p.ParseKeyPath, ".")
		path := make([]any, len(keys))
		for i, k := range keys {
			path[i] = k
		}

		node, err := sonic.GetFromString(data, path...)
		if err != nil {
			return parsed, fmt.Errorf("extract json path %q failed: %w", p.ParseKeyPath, err)
		}
		raw, err := node.MarshalJSON()
		if err != nil {
			return parsed, fmt.Errorf("marshal json node failed: %w", err)
		}
		data = string(raw)
	}

	if err := sonic.UnmarshalString(data, &parsed); err != nil {
		return parsed, fmt.Errorf("unmarshal json failed: %w", err)
	}
	return parsed, nil
}

// ExtractJSONBlock 返回 ``` 代码块内的文本；没有代码块时返回去除首尾空白的原文。
func ExtractJSONBlock(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	body := s[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
