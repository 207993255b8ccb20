package parser

import (
	"context"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/favbox/chainflow/flow/agent"
	"github.com/favbox/chainflow/schema"
)

// jsonFinishAction JSON 语法中表示最终答案的动作名。
const jsonFinishAction = "Final Answer"

type jsonStep struct {
	Action      string `json:"action"`
	ActionInput any    `json:"action_input"`
}

// JSONParser 解析 JSON 语法的补全，内容可以包在 ```json 代码块中：
//
//	{"action": "search", "action_input": "eino"}
//	{"action": "Final Answer", "action_input": "done"}
//
// action_input 不是字符串时按 JSON 原文传给工具。
type JSONParser struct {
	inner schema.MessageParser[jsonStep]
}

func NewJSONParser() *JSONParser {
	return &JSONParser{inner: schema.NewMessageJSONParser[jsonStep](nil)}
}

func (p *JSONParser) Parse(ctx context.Context, text string) (schema.AgentStep, error) {
	step, err := p.inner.Parse(ctx, schema.AssistantMessage(text))
	if err != nil {
		return nil, &agent.ParseError{Text: text, Reason: err.Error()}
	}

	action := strings.TrimSpace(step.Action)
	if action == "" {
		return nil, &agent.ParseError{Text: text, Reason: "missing action"}
	}

	input, err := stringify(step.ActionInput)
	if err != nil {
		return nil, &agent.ParseError{Text: text, Reason: err.Error()}
	}

	if action == jsonFinishAction {
		return schema.NewAgentFinish(input, text), nil
	}
	return &schema.AgentAction{Tool: action, ToolInput: input, Log: text}, nil
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		return sonic.MarshalString(t)
	}
}
