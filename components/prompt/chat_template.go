package prompt

import (
	"context"

	"github.com/favbox/chainflow/schema"
)

// DefaultChatTemplate 依次渲染一组消息模板并拼接结果。
type DefaultChatTemplate struct {
	templates  []schema.MessagesTemplate
	formatType schema.FormatType
}

// FromMessages 以指定语法创建模板。
//
//	tpl := prompt.FromMessages(schema.FString,
//		schema.SystemMessage("you are a helpful assistant"),
//		schema.MessagesPlaceholder("chat_history", true),
//		schema.UserMessage("{input}"),
//	)
func FromMessages(formatType schema.FormatType, templates ...schema.MessagesTemplate) *DefaultChatTemplate {
	return &DefaultChatTemplate{templates: templates, formatType: formatType}
}

func (t *DefaultChatTemplate) Format(ctx context.Context, vs map[string]any, _ ...Option) ([]*schema.Message, error) {
	result := make([]*schema.Message, 0, len(t.templates))
	for _, tpl := range t.templates {
		msgs, err := tpl.Format(ctx, vs, t.formatType)
		if err != nil {
			return nil, err
		}
		result = append(result, msgs...)
	}
	return result, nil
}

func (t *DefaultChatTemplate) GetType() string {
	return "Default"
}
