package model

import (
	"context"

	"github.com/favbox/chainflow/schema"
)

// ChatModel 模型后端的最小接口，由具体的补全客户端实现。
//
//go:generate mockgen -destination ../../internal/mock/components/model/ChatModel_mock.go --package model -source interface.go
type ChatModel interface {
	// Generate 阻塞直到得到完整回复。
	Generate(ctx context.Context, input []*schema.Message, opts ...Option) (*schema.Message, error)
}

// StreamingChatModel 支持增量产出的模型。
//
// Stream 在返回前按产出顺序把每个分片交给 onChunk，
// 返回值必须等于全部分片经 schema.ConcatMessages 合并的结果。
type StreamingChatModel interface {
	ChatModel
	Stream(ctx context.Context, input []*schema.Message, onChunk func(*schema.Message), opts ...Option) (*schema.Message, error)
}
