package react

import (
	"github.com/favbox/chainflow/components/prompt"
	"github.com/favbox/chainflow/schema"
)

// 提示词变量名。
const (
	InputKey       = "input"
	ChatHistoryKey = "chat_history"
	ToolsKey       = "tools"
	ToolNamesKey   = "tool_names"
	ScratchpadKey  = "agent_scratchpad"
	FinishKey      = "finish_prefix"
)

const defaultSystemPrompt = `Answer the following questions as best you can. You have access to the following tools:

{tools}

Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [{tool_names}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
{finish_prefix} the final answer to the original input question

Begin!`

// DefaultPrompt 默认的 ReAct 提示词，使用 FString 语法。
// 可用变量：input、chat_history、tools、tool_names、agent_scratchpad、finish_prefix。
func DefaultPrompt() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(defaultSystemPrompt),
		schema.MessagesPlaceholder(ChatHistoryKey, true),
		schema.UserMessage("Question: {input}\nThought: {agent_scratchpad}"),
	)
}
