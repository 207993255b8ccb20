package compose

import (
	"context"
	"runtime/debug"

	"github.com/favbox/chainflow/internal/safe"
	"github.com/favbox/chainflow/logging"
)

// Chunk 流式调用中的一个增量输出。
type Chunk struct {
	// Stage 产出该块的阶段名
	Stage string
	// Tag 分支路径，顶层为空，并行分支为 "父路径/键"
	Tag string
	// Value 增量值，文本阶段为字符串片段或消息分片
	Value any
}

// ChunkHandler 接收流式输出。在 Parallel 下可能被多个分支并发调用，实现需自行保证并发安全；
// 同一分支内的块按产出顺序到达，分支之间不保证顺序。
// 处理器中的 panic 被记录后丢弃，不影响计算结果。
type ChunkHandler func(ctx context.Context, chunk *Chunk)

func (h ChunkHandler) emit(ctx context.Context, c *Chunk, logger logging.Logger) {
	if h == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logging.OrNoOp(logger).Warn("chunk handler panicked",
				"stage", c.Stage, "tag", c.Tag, "err", safe.NewPanicErr(r, debug.Stack()))
		}
	}()
	h(ctx, c)
}
