package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/favbox/chainflow/flow/agent"
	"github.com/favbox/chainflow/schema"
)

const (
	// DefaultFinishPrefix 最终答案标记。
	DefaultFinishPrefix = "Final Answer:"
)

// 动作名与动作输入之间允许任意空白，输入一直取到文本末尾。
var actionPattern = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)

var (
	actionLinePattern = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)`)
	inputLinePattern  = regexp.MustCompile(`(?s)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
)

// ReActConfig ReAct 文本语法解析器配置。
type ReActConfig struct {
	// FinishPrefix 最终答案标记，默认 "Final Answer:"；对话式提示词常用 "AI:"
	FinishPrefix string
}

// ReActParser 解析如下格式的补全：
//
//	Thought: 需要先查天气
//	Action: weather
//	Action Input: "杭州"
//
// 或
//
//	Thought: 我已经知道答案了
//	Final Answer: 晴
type ReActParser struct {
	finishPrefix string
}

// NewReActParser 创建解析器，config 可以为 nil。
func NewReActParser(config *ReActConfig) *ReActParser {
	p := &ReActParser{finishPrefix: DefaultFinishPrefix}
	if config != nil && config.FinishPrefix != "" {
		p.finishPrefix = config.FinishPrefix
	}
	return p
}

// FinishPrefix 返回最终答案标记。
func (p *ReActParser) FinishPrefix() string {
	return p.finishPrefix
}

// Parse 含最终答案标记时取最后一个标记之后的文本作为答案；否则按动作语法解析。
func (p *ReActParser) Parse(_ context.Context, text string) (schema.AgentStep, error) {
	if idx := strings.LastIndex(text, p.finishPrefix); idx >= 0 {
		output := strings.TrimSpace(text[idx+len(p.finishPrefix):])
		return schema.NewAgentFinish(output, text), nil
	}

	m := actionPattern.FindStringSubmatch(text)
	if m == nil {
		reason := "missing 'Action Input:' after 'Action:'"
		if !actionLinePattern.MatchString(text) {
			reason = "missing 'Action:' after 'Thought:'"
		} else if inputLinePattern.MatchString(text) {
			reason = "invalid format"
		}
		return nil, &agent.ParseError{Text: text, Reason: reason}
	}

	tool := strings.TrimSpace(m[1])
	if tool == "" {
		return nil, &agent.ParseError{Text: text, Reason: "empty action"}
	}
	input := strings.Trim(strings.TrimSpace(m[2]), `"`)

	return &schema.AgentAction{Tool: tool, ToolInput: input, Log: text}, nil
}
