package retriever

import (
	"context"

	"github.com/favbox/chainflow/schema"
)

// Retriever 按查询返回按相关度降序排列的文档。
type Retriever interface {
	Retrieve(ctx context.Context, query string, opts ...Option) ([]*schema.Document, error)
}
