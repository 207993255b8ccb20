package schema

// AgentStep 一次补全的解析结果，只有 *AgentAction 与 *AgentFinish 两种实现。
//
//	switch s := step.(type) {
//	case *schema.AgentAction:
//	case *schema.AgentFinish:
//	}
type AgentStep interface {
	GetLog() string
	isAgentStep()
}

// AgentAction 模型请求调用工具。
type AgentAction struct {
	// Tool 工具名
	Tool string `json:"tool"`
	// ToolInput 传给工具的原始字符串
	ToolInput string `json:"tool_input"`
	// Log 解析出该动作的原始补全文本
	Log string `json:"log"`
}

func (a *AgentAction) GetLog() string { return a.Log }
func (*AgentAction) isAgentStep()     {}

// OutputKey AgentFinish 中最终答案的默认键。
const OutputKey = "output"

// AgentFinish 模型给出最终答案。
type AgentFinish struct {
	ReturnValues map[string]any `json:"return_values"`
	Log          string         `json:"log"`
}

func (f *AgentFinish) GetLog() string { return f.Log }
func (*AgentFinish) isAgentStep()     {}

// NewAgentFinish 以 output 为最终答案构建 AgentFinish。
func NewAgentFinish(output, log string) *AgentFinish {
	return &AgentFinish{ReturnValues: map[string]any{OutputKey: output}, Log: log}
}

// Output 返回 ReturnValues 中的最终答案文本。
func (f *AgentFinish) Output() string {
	if f == nil {
		return ""
	}
	s, _ := f.ReturnValues[OutputKey].(string)
	return s
}

// AgentStepPair 草稿本中的一条记录：动作及其观察结果。
type AgentStepPair struct {
	Action      *AgentAction `json:"action"`
	Observation string       `json:"observation"`
}
