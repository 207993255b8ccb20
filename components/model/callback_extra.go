package model

import (
	"github.com/favbox/chainflow/callbacks"
	"github.com/favbox/chainflow/schema"
)

// CallbackInput 模型阶段回调的输入。
type CallbackInput struct {
	Messages []*schema.Message
	Config   *Options
}

// CallbackOutput 模型阶段回调的输出。
type CallbackOutput struct {
	Message *schema.Message
	Config  *Options
}

// ConvCallbackInput 将回调输入统一转换为 *CallbackInput，无法识别时返回 nil。
func ConvCallbackInput(src callbacks.CallbackInput) *CallbackInput {
	switch t := src.(type) {
	case *CallbackInput:
		return t
	case []*schema.Message:
		return &CallbackInput{Messages: t}
	default:
		return nil
	}
}

// ConvCallbackOutput 将回调输出统一转换为 *CallbackOutput，无法识别时返回 nil。
func ConvCallbackOutput(src callbacks.CallbackOutput) *CallbackOutput {
	switch t := src.(type) {
	case *CallbackOutput:
		return t
	case *schema.Message:
		return &CallbackOutput{Message: t}
	default:
		return nil
	}
}
