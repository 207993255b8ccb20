package assembler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/favbox/chainflow/components/retriever"
	"github.com/favbox/chainflow/components/tokenizer"
	"github.com/favbox/chainflow/logging"
	"github.com/favbox/chainflow/schema"
)

var (
	// ErrNothingPacked 多次扩大候选池后仍没有任何文档装入预算。
	ErrNothingPacked = errors.New("nothing packed within budget")
	// ErrInvalidBudget 预算必须为正数。
	ErrInvalidBudget = errors.New("budget must be positive")
)

// Policy 候选放不进剩余预算时的处理方式。
type Policy uint8

const (
	// PackStopAtFirstMiss 遇到第一个放不下的候选即停止，默认策略。
	PackStopAtFirstMiss Policy = iota
	// PackSkipAndContinue 跳过放不下的候选，继续尝试后面更小的候选。
	PackSkipAndContinue
)

func (p Policy) String() string {
	switch p {
	case PackStopAtFirstMiss:
		return "StopAtFirstMiss"
	case PackSkipAndContinue:
		return "SkipAndContinue"
	default:
		return "Unknown"
	}
}

// PackerConfig 装箱配置。
type PackerConfig struct {
	// Budget 单次装箱的 token 预算，必须为正数
	Budget int
	// MaxItems 单次最多装入的文档数，0 表示不限
	MaxItems int
	// Policy 默认 PackStopAtFirstMiss
	Policy Policy
	Logger logging.Logger
}

// Packer 按相关度顺序装箱文档。一个 Packer 对应一次运行：已装入的文档 ID 在多次调用间保留。
// 可并发调用。
type Packer struct {
	tokenizer tokenizer.Tokenizer
	budget    int
	maxItems  int
	policy    Policy
	logger    logging.Logger

	mu     sync.Mutex
	packed map[string]struct{}
	order  []string
}

func NewPacker(tk tokenizer.Tokenizer, config *PackerConfig) (*Packer, error) {
	if tk == nil {
		return nil, errors.New("packer: tokenizer is required")
	}
	if config == nil || config.Budget <= 0 {
		return nil, ErrInvalidBudget
	}
	return &Packer{
		tokenizer: tk,
		budget:    config.Budget,
		maxItems:  config.MaxItems,
		policy:    config.Policy,
		logger:    logging.OrNoOp(config.Logger),
		packed:    make(map[string]struct{}),
	}, nil
}

// Pack 以配置的预算装箱。candidates 须已按相关度降序排列，不会被修改。
func (p *Packer) Pack(candidates []*schema.Document) []*schema.Document {
	return p.PackWithBudget(candidates, p.budget)
}

// PackWithBudget 以指定预算装箱：
//   - 已在之前调用中装入的文档直接跳过
//   - 单个文档就超过整个预算的，本次调用中跳过并记录日志
//   - 放不进剩余预算时按 Policy 停止或继续
//   - 预算用尽、达到 MaxItems 或候选耗尽时结束
func (p *Packer) PackWithBudget(candidates []*schema.Document, budget int) []*schema.Document {
	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		result    []*schema.Document
		remaining = budget
	)
	for _, doc := range candidates {
		if remaining <= 0 || (p.maxItems > 0 && len(result) >= p.maxItems) {
			break
		}
		if doc == nil {
			continue
		}

		id := docKey(doc)
		if _, ok := p.packed[id]; ok {
			continue
		}

		n := p.countTokens(doc)
		if n > budget {
			p.logger.Info("candidate exceeds budget alone, skipped", "id", id, "tokens", n, "budget", budget)
			continue
		}
		if n > remaining {
			if p.policy == PackStopAtFirstMiss {
				break
			}
			continue
		}

		result = append(result, doc)
		remaining -= n
		p.packed[id] = struct{}{}
		p.order = append(p.order, id)
	}
	return result
}

// Packed 按装入顺序返回已装入的文档 ID。
func (p *Packer) Packed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.order...)
}

// Reset 清空已装入记录，开始新的运行。
func (p *Packer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.packed = make(map[string]struct{})
	p.order = nil
}

func (p *Packer) countTokens(doc *schema.Document) int {
	if n, ok := doc.Tokens(); ok {
		return n
	}
	return p.tokenizer.CountTokens(doc.Content)
}

// docKey 没有 ID 的文档以内容去重。
func docKey(doc *schema.Document) string {
	if doc.ID != "" {
		return doc.ID
	}
	return "content:" + doc.Content
}

// Fetcher 按候选池大小获取按相关度排序的候选文档。
type Fetcher func(ctx context.Context, pool int) ([]*schema.Document, error)

// RequeryConfig 扩大候选池重试的配置。
type RequeryConfig struct {
	// InitialPool 首次的候选池大小，默认 10
	InitialPool int
	// Growth 每次重试时候选池的放大倍数，默认 2
	Growth int
	// MaxAttempts 最大尝试次数，默认 3
	MaxAttempts int
}

const (
	defaultInitialPool = 10
	defaultGrowth      = 2
	defaultMaxAttempts = 3
)

// PackWithRequery 获取候选并装箱；一个也没装进时以更大的候选池重新获取，
// 超过 MaxAttempts 后返回 ErrNothingPacked。fetch 的错误原样返回。
func (p *Packer) PackWithRequery(ctx context.Context, fetch Fetcher, config *RequeryConfig) ([]*schema.Document, error) {
	pool, growth, attempts := defaultInitialPool, defaultGrowth, defaultMaxAttempts
	if config != nil {
		if config.InitialPool > 0 {
			pool = config.InitialPool
		}
		if config.Growth > 1 {
			growth = config.Growth
		}
		if config.MaxAttempts > 0 {
			attempts = config.MaxAttempts
		}
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates, err := fetch(ctx, pool)
		if err != nil {
			return nil, err
		}
		if packed := p.Pack(candidates); len(packed) > 0 {
			return packed, nil
		}

		p.logger.Debug("nothing packed, re-querying with a larger pool",
			"attempt", attempt, "pool", pool, "candidates", len(candidates))
		pool *= growth
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrNothingPacked, attempts)
}

// RetrieverFetcher 以检索器作为候选来源，候选池大小通过 retriever.WithTopK 传入。
func RetrieverFetcher(r retriever.Retriever, query string, opts ...retriever.Option) Fetcher {
	return func(ctx context.Context, pool int) ([]*schema.Document, error) {
		callOpts := append(append([]retriever.Option{}, opts...), retriever.WithTopK(pool))
		return r.Retrieve(ctx, query, callOpts...)
	}
}

// JoinDocuments 以空行拼接文档内容，供提示词使用。
func JoinDocuments(docs []*schema.Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if d != nil {
			parts = append(parts, d.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
