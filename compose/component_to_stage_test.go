package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/favbox/chainflow/components/model"
	"github.com/favbox/chainflow/components/prompt"
	"github.com/favbox/chainflow/components/retriever"
	"github.com/favbox/chainflow/components/tool"
	mockModel "github.com/favbox/chainflow/internal/mock/components/model"
	"github.com/favbox/chainflow/schema"
)

type staticRetriever struct {
	docs []*schema.Document
	topK int
}

func (r *staticRetriever) Retrieve(_ context.Context, _ string, opts ...retriever.Option) ([]*schema.Document, error) {
	o := retriever.GetCommonOptions(nil, opts...)
	if o.TopK != nil {
		r.topK = *o.TopK
	}
	return r.docs, nil
}

func TestChatModelStage(t *testing.T) {
	ctx := context.Background()

	t.Run("停止条件传给模型", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cm := mockModel.NewMockChatModel(ctrl)
		cm.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
				o := model.GetCommonOptions(nil, opts...)
				assert.Equal(t, []string{"\nObservation:"}, o.Stop)
				require.NotNil(t, o.Temperature)
				assert.Equal(t, float32(0.2), *o.Temperature)
				return schema.AssistantMessage("echo: " + in[0].Content), nil
			}).Times(1)

		st := ChatModelStage(cm, model.WithTemperature(0.2))
		assert.Equal(t, "ChatModel", st.Name())
		assert.False(t, st.Streamable())

		out, err := st.Invoke(ctx, []*schema.Message{schema.UserMessage("hi")}, WithStop("\nObservation:"))
		require.NoError(t, err)
		assert.Equal(t, "echo: hi", out.Content)
	})

	t.Run("未设置停止条件时不追加选项", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cm := mockModel.NewMockChatModel(ctrl)
		cm.EXPECT().Generate(gomock.Any(), gomock.Any()).
			Return(schema.AssistantMessage("ok"), nil).Times(1)

		out, err := ChatModelStage(cm).Invoke(ctx, []*schema.Message{schema.UserMessage("hi")})
		require.NoError(t, err)
		assert.Equal(t, "ok", out.Content)
	})

	t.Run("模型错误原样返回", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		want := errors.New("rate limited")
		cm := mockModel.NewMockChatModel(ctrl)
		cm.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, want).Times(1)

		_, err := ChatModelStage(cm).Invoke(ctx, []*schema.Message{schema.UserMessage("hi")})
		assert.ErrorIs(t, err, want)
	})

	t.Run("流式模型", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sm := mockModel.NewMockStreamingChatModel(ctrl)
		sm.EXPECT().Generate(gomock.Any(), gomock.Any()).
			Return(schema.AssistantMessage("Hello"), nil).Times(1)

		st := ChatModelStage(sm)
		assert.True(t, st.Streamable())

		rec := &chunkRecorder{}
		out, err := MustSequence[[]*schema.Message, string](st, MessageContent()).Stream(ctx,
			[]*schema.Message{schema.UserMessage("hi")}, rec.handle)
		require.NoError(t, err)
		assert.Equal(t, "Hello", out)
		assert.Equal(t, []any{"Hello"}, rec.values())
		assert.Equal(t, "Sequence", rec.chunks[0].Stage)

		sm.EXPECT().Stream(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ []*schema.Message, onChunk func(*schema.Message), _ ...model.Option) (*schema.Message, error) {
				onChunk(schema.AssistantMessage("Hel"))
				onChunk(schema.AssistantMessage("lo"))
				return schema.AssistantMessage("Hello"), nil
			}).Times(1)

		rec = &chunkRecorder{}
		msg, err := st.Stream(ctx, []*schema.Message{schema.UserMessage("hi")}, rec.handle)
		require.NoError(t, err)
		assert.Equal(t, "Hello", msg.Content)
		assert.Equal(t, schema.Assistant, msg.Role)
		require.Len(t, rec.chunks, 2)
		assert.Equal(t, "Hel", rec.chunks[0].Value.(*schema.Message).Content)
	})
}

func TestChatTemplateStage(t *testing.T) {
	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage("you are {role}"),
		schema.UserMessage("{question}"),
	)
	st := ChatTemplateStage(tpl)
	assert.Equal(t, "DefaultChatTemplate", st.Name())

	msgs, err := st.Invoke(context.Background(), map[string]any{"role": "a poet", "question": "why?"})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "you are a poet", msgs[0].Content)
	assert.Equal(t, "why?", msgs[1].Content)
}

func TestRetrieverStage(t *testing.T) {
	r := &staticRetriever{docs: []*schema.Document{{ID: "d1", Content: "x"}}}
	docs, err := RetrieverStage(r, retriever.WithTopK(3)).Invoke(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, 3, r.topK)
}

func TestToolStage(t *testing.T) {
	ctx := context.Background()
	echo := tool.NewTool(&schema.ToolInfo{Name: "echo", Desc: "echoes input"},
		func(_ context.Context, in string) (string, error) { return "echo:" + in, nil })

	st, err := ToolStage(ctx, echo)
	require.NoError(t, err)
	assert.Equal(t, "echo", st.Name())

	out, err := st.Invoke(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "echo:x", out)
}
