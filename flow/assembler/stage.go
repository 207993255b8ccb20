package assembler

import (
	"context"

	"github.com/favbox/chainflow/components/retriever"
	"github.com/favbox/chainflow/compose"
	"github.com/favbox/chainflow/schema"
)

// TrimStage 把对话裁剪包装为阶段。
func TrimStage(config *TrimConfig) compose.Stage[[]*schema.Message, []*schema.Message] {
	return compose.InvokableLambda(Trimmer(config), compose.WithLambdaName("TrimConversation"))
}

// PackStage 把文档装箱包装为阶段。阶段共享 p 的已装入记录。
func PackStage(p *Packer) compose.Stage[[]*schema.Document, []*schema.Document] {
	return compose.InvokableLambda(func(_ context.Context, docs []*schema.Document) ([]*schema.Document, error) {
		return p.Pack(docs), nil
	}, compose.WithLambdaName("PackDocuments"))
}

// RequeryStage 以查询文本为输入，经检索器获取候选并装箱，必要时扩大候选池重试。
func RequeryStage(p *Packer, r retriever.Retriever, config *RequeryConfig) compose.Stage[string, []*schema.Document] {
	return compose.InvokableLambda(func(ctx context.Context, query string) ([]*schema.Document, error) {
		return p.PackWithRequery(ctx, RetrieverFetcher(r, query), config)
	}, compose.WithLambdaName("PackWithRequery"))
}
