package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentStep(t *testing.T) {
	var steps []AgentStep = []AgentStep{
		&AgentAction{Tool: "search", ToolInput: "go", Log: "Action: search"},
		NewAgentFinish("done", "Final Answer: done"),
	}

	var kinds []string
	for _, s := range steps {
		switch v := s.(type) {
		case *AgentAction:
			kinds = append(kinds, "action:"+v.Tool)
		case *AgentFinish:
			kinds = append(kinds, "finish:"+v.Output())
		}
	}
	assert.Equal(t, []string{"action:search", "finish:done"}, kinds)
	assert.Equal(t, "Final Answer: done", steps[1].GetLog())

	var nilFinish *AgentFinish
	assert.Equal(t, "", nilFinish.Output())
	assert.Equal(t, "", (&AgentFinish{ReturnValues: map[string]any{OutputKey: 3}}).Output())
}
