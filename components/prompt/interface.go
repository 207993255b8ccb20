package prompt

import (
	"context"

	"github.com/favbox/chainflow/schema"
)

// ChatTemplate 将变量渲染为消息列表。
type ChatTemplate interface {
	Format(ctx context.Context, vs map[string]any, opts ...Option) ([]*schema.Message, error)
}
