package tool

import "github.com/favbox/chainflow/callbacks"

// CallbackInput 工具回调输入。
type CallbackInput struct {
	Input string
	Extra map[string]any
}

// CallbackOutput 工具回调输出。
type CallbackOutput struct {
	Response string
	Extra    map[string]any
}

func ConvCallbackInput(src callbacks.CallbackInput) *CallbackInput {
	switch t := src.(type) {
	case *CallbackInput:
		return t
	case string:
		return &CallbackInput{Input: t}
	default:
		return nil
	}
}

func ConvCallbackOutput(src callbacks.CallbackOutput) *CallbackOutput {
	switch t := src.(type) {
	case *CallbackOutput:
		return t
	case string:
		return &CallbackOutput{Response: t}
	default:
		return nil
	}
}
