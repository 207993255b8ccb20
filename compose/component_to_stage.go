package compose

import (
	"context"
	"errors"

	"github.com/favbox/chainflow/components"
	"github.com/favbox/chainflow/components/model"
	"github.com/favbox/chainflow/components/prompt"
	"github.com/favbox/chainflow/components/retriever"
	"github.com/favbox/chainflow/components/tool"
	"github.com/favbox/chainflow/schema"
)

func componentName(c any, fallback components.Component) string {
	if typ, ok := components.GetType(c); ok && typ != "" {
		return typ + string(fallback)
	}
	return string(fallback)
}

// ChatModelStage 将模型包装为阶段。ExecutionConfig.Stop 非空时以 model.WithStop 传给模型，
// 位于 opts 之后，优先级更高。模型实现 StreamingChatModel 时支持增量产出。
func ChatModelStage(m model.ChatModel, opts ...model.Option) Stage[[]*schema.Message, *schema.Message] {
	name := componentName(m, components.ComponentOfChatModel)

	callOpts := func(ctx context.Context) []model.Option {
		cfg, _ := GetExecutionConfig(ctx)
		if len(cfg.Stop) == 0 {
			return opts
		}
		return append(append([]model.Option{}, opts...), model.WithStop(cfg.Stop))
	}

	invoke := func(ctx context.Context, in []*schema.Message) (*schema.Message, error) {
		if m == nil {
			return nil, errors.New("chat model is nil")
		}
		return m.Generate(ctx, in, callOpts(ctx)...)
	}

	lambdaOpts := []LambdaOpt{WithLambdaName(name), WithLambdaType(name), withComponent(components.ComponentOfChatModel)}

	sm, ok := m.(model.StreamingChatModel)
	if !ok {
		return InvokableLambda(invoke, lambdaOpts...)
	}

	stream := func(ctx context.Context, in []*schema.Message, emit func(*schema.Message)) error {
		_, err := sm.Stream(ctx, in, emit, callOpts(ctx)...)
		return err
	}
	st, _ := AnyLambda(invoke, stream, lambdaOpts...)
	return st
}

// ChatTemplateStage 将提示词模板包装为阶段。
func ChatTemplateStage(t prompt.ChatTemplate, opts ...prompt.Option) Stage[map[string]any, []*schema.Message] {
	name := componentName(t, components.ComponentOfPrompt)
	return InvokableLambda(func(ctx context.Context, vs map[string]any) ([]*schema.Message, error) {
		return t.Format(ctx, vs, opts...)
	}, WithLambdaName(name), WithLambdaType(name), withComponent(components.ComponentOfPrompt))
}

// RetrieverStage 将检索器包装为阶段，输入为查询文本。
func RetrieverStage(r retriever.Retriever, opts ...retriever.Option) Stage[string, []*schema.Document] {
	name := componentName(r, components.ComponentOfRetriever)
	return InvokableLambda(func(ctx context.Context, query string) ([]*schema.Document, error) {
		return r.Retrieve(ctx, query, opts...)
	}, WithLambdaName(name), WithLambdaType(name), withComponent(components.ComponentOfRetriever))
}

// ToolStage 将工具包装为阶段，阶段名为工具名。
func ToolStage(ctx context.Context, t tool.Tool, opts ...tool.Option) (Stage[string, string], error) {
	info, err := t.Info(ctx)
	if err != nil {
		return Stage[string, string]{}, err
	}
	return InvokableLambda(func(ctx context.Context, in string) (string, error) {
		return t.Run(ctx, in, opts...)
	}, WithLambdaName(info.Name), WithLambdaType(componentName(t, components.ComponentOfTool)),
		withComponent(components.ComponentOfTool)), nil
}

// MessageContent 提取消息文本的阶段，常接在模型阶段之后。
func MessageContent() Stage[*schema.Message, string] {
	return InvokableLambda(func(_ context.Context, m *schema.Message) (string, error) {
		if m == nil {
			return "", nil
		}
		return m.Content, nil
	}, WithLambdaName("MessageContent"))
}
