package schema

import (
	"fmt"
	"strings"

	"github.com/favbox/chainflow/internal"
)

func init() {
	internal.RegisterConcatFunc(ConcatMessages)
}

// RoleType 消息角色，封闭枚举。
type RoleType string

const (
	// System 系统指令。
	System RoleType = "system"
	// User 用户输入。
	User RoleType = "user"
	// Assistant 模型输出。
	Assistant RoleType = "assistant"
	// Tool 工具执行结果。
	Tool RoleType = "tool"
)

// Valid 报告角色是否属于已知枚举值。
func (r RoleType) Valid() bool {
	switch r {
	case System, User, Assistant, Tool:
		return true
	default:
		return false
	}
}

// Message 对话中的一条消息。
type Message struct {
	Role    RoleType `json:"role"`
	Content string   `json:"content"`

	// Name 发送者名称，工具消息为工具名
	Name string `json:"name,omitempty"`

	// ToolCallID 工具消息对应的调用标识
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Extra 扩展信息，组件可自由读写
	Extra map[string]any `json:"extra,omitempty"`
}

// String 返回便于日志阅读的文本形式。
func (m *Message) String() string {
	var sb strings.Builder
	sb.WriteString(string(m.Role))
	if m.Name != "" {
		sb.WriteString("(" + m.Name + ")")
	}
	sb.WriteString(": ")
	sb.WriteString(m.Content)
	if m.Role == Tool && m.ToolCallID != "" {
		sb.WriteString("\ncall_id: " + m.ToolCallID)
	}
	return sb.String()
}

func SystemMessage(content string) *Message {
	return &Message{Role: System, Content: content}
}

func UserMessage(content string) *Message {
	return &Message{Role: User, Content: content}
}

func AssistantMessage(content string) *Message {
	return &Message{Role: Assistant, Content: content}
}

// ToolMessageOption 工具消息的可选项。
type ToolMessageOption func(*Message)

// WithToolName 设置工具消息的工具名。
func WithToolName(name string) ToolMessageOption {
	return func(m *Message) {
		m.Name = name
	}
}

func ToolMessage(content string, toolCallID string, opts ...ToolMessageOption) *Message {
	m := &Message{Role: Tool, Content: content, ToolCallID: toolCallID}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RolePrefixes 将对话渲染为纯文本时各角色使用的前缀。
type RolePrefixes struct {
	System    string
	User      string
	Assistant string
	Tool      string
}

// DefaultRolePrefixes 对话类提示词的默认前缀。
var DefaultRolePrefixes = RolePrefixes{
	System:    "System",
	User:      "Human",
	Assistant: "AI",
	Tool:      "Tool",
}

// BufferString 将消息列表渲染为逐行的 "前缀: 内容" 文本，用于补全式提示词中的历史对话。
func BufferString(msgs []*Message, prefixes RolePrefixes) (string, error) {
	lines := make([]string, 0, len(msgs))
	for i, m := range msgs {
		var prefix string
		switch m.Role {
		case System:
			prefix = prefixes.System
		case User:
			prefix = prefixes.User
		case Assistant:
			prefix = prefixes.Assistant
		case Tool:
			prefix = prefixes.Tool
		default:
			return "", fmt.Errorf("message[%d] has unknown role %q", i, m.Role)
		}
		lines = append(lines, prefix+": "+m.Content)
	}
	return strings.Join(lines, "\n"), nil
}

// ConcatMessages 合并同一条消息的流式分片。
// 所有分片必须同角色；内容顺序拼接，Name、ToolCallID 取首个非空值，Extra 后者覆盖前者。
func ConcatMessages(msgs []*Message) (*Message, error) {
	if len(msgs) == 0 {
		return nil, fmt.Errorf("no messages to concat")
	}

	ret := &Message{}
	var sb strings.Builder
	for i, m := range msgs {
		if m == nil {
			return nil, fmt.Errorf("message chunk[%d] is nil", i)
		}
		if m.Role != "" {
			if ret.Role != "" && ret.Role != m.Role {
				return nil, fmt.Errorf("cannot concat messages with different roles: %q, %q", ret.Role, m.Role)
			}
			ret.Role = m.Role
		}
		if ret.Name == "" {
			ret.Name = m.Name
		}
		if ret.ToolCallID == "" {
			ret.ToolCallID = m.ToolCallID
		}
		if len(m.Extra) > 0 {
			if ret.Extra == nil {
				ret.Extra = make(map[string]any, len(m.Extra))
			}
			for k, v := range m.Extra {
				ret.Extra[k] = v
			}
		}
		sb.WriteString(m.Content)
	}
	ret.Content = sb.String()

	return ret, nil
}
