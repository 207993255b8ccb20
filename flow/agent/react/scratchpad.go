package react

import (
	"strings"

	"github.com/favbox/chainflow/schema"
)

const (
	observationPrefix = "Observation: "
	thoughtPrefix     = "Thought: "
)

// Scratchpad 单次运行内累积的 (动作, 观察) 记录，只追加，运行结束即丢弃。
type Scratchpad []*schema.AgentStepPair

// Append 追加一条记录。
func (s *Scratchpad) Append(action *schema.AgentAction, observation string) {
	*s = append(*s, &schema.AgentStepPair{Action: action, Observation: observation})
}

// String 渲染为下一次补全的续写前缀：
//
//	<动作原文>
//	Observation: <观察>
//	Thought:
func (s Scratchpad) String() string {
	var sb strings.Builder
	for _, step := range s {
		sb.WriteString(step.Action.Log)
		sb.WriteString("\n")
		sb.WriteString(observationPrefix)
		sb.WriteString(step.Observation)
		sb.WriteString("\n")
		sb.WriteString(thoughtPrefix)
	}
	return sb.String()
}
