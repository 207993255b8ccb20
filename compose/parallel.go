/*
 * parallel.go - 扇出组合：Parallel 与 Assign
 *
 * 两者共享同一套分支执行逻辑：
 *   - 每个分支拿到输入的独立浅拷贝，彼此不可见
 *   - 分支在独立 goroutine 中运行，由 errgroup 汇合
 *   - 首个失败会取消其余分支的 context，已完成的结果被丢弃
 *   - ExecutionConfig.MaxConcurrency 限制同时运行的分支数
 *
 * 区别：
 *   - Parallel 的输出是仅包含各分支结果的新 map
 *   - Assign 的输入必须是 map，输出是输入的副本加上各分支结果
 */

package compose

import (
	"context"
	"fmt"
	"reflect"

	"golang.org/x/sync/errgroup"

	"github.com/favbox/chainflow/internal/generic"
	"github.com/favbox/chainflow/internal/safe"
)

// BranchSpec 一个带输出键的分支。
type BranchSpec struct {
	Key   string
	Stage AnyStage
}

// Branch 声明分支，其输出写入结果 map 的 key。
func Branch(key string, stage AnyStage) BranchSpec {
	return BranchSpec{Key: key, Stage: stage}
}

type branch struct {
	key string
	s   *stage
}

func validateBranches(combinator string, input reflect.Type, specs []BranchSpec) ([]branch, error) {
	if len(specs) == 0 {
		return nil, &CompositionError{Combinator: combinator, Err: ErrEmptyComposition}
	}

	seen := make(map[string]struct{}, len(specs))
	branches := make([]branch, 0, len(specs))
	for i, spec := range specs {
		pos := fmt.Sprintf("branch[%s]", spec.Key)
		if spec.Key == "" {
			return nil, &CompositionError{Combinator: combinator, Position: fmt.Sprintf("branch#%d", i),
				Err: fmt.Errorf("%w: empty key", ErrDuplicateKey)}
		}
		if _, ok := seen[spec.Key]; ok {
			return nil, &CompositionError{Combinator: combinator, Position: pos, Err: ErrDuplicateKey}
		}
		seen[spec.Key] = struct{}{}

		if spec.Stage == nil || spec.Stage.erased() == nil {
			return nil, &CompositionError{Combinator: combinator, Position: pos, Err: ErrNilStage}
		}
		if !compatible(input, spec.Stage.InputType()) {
			return nil, newTypeMismatchErr(combinator, pos, spec.Stage.InputType(), input)
		}
		branches = append(branches, branch{key: spec.Key, s: spec.Stage.erased()})
	}
	return branches, nil
}

func anyStreamable(branches []branch) bool {
	for _, b := range branches {
		if b.s.stream != nil {
			return true
		}
	}
	return false
}

// fanOut 并发执行全部分支，返回 key -> 输出。onChunk 非 nil 时以流式方式执行各分支。
func fanOut(ctx context.Context, branches []branch, in any, cfg ExecutionConfig, onChunk ChunkHandler, streaming bool) (map[string]any, error) {
	results := make([]any, len(branches))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.MaxConcurrency > 0 {
		g.SetLimit(cfg.MaxConcurrency)
	}

	for i, b := range branches {
		i, b := i, b
		bcfg := cfg.branch(b.key)
		input := generic.ShallowClone(in)
		g.Go(func() error {
			return safe.Call(func() error {
				var (
					out any
					err error
				)
				if streaming {
					out, err = b.s.runStream(gctx, input, bcfg, onChunk)
				} else {
					out, err = b.s.run(gctx, input, bcfg)
				}
				if err != nil {
					return err
				}
				results[i] = out
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(branches))
	for i, b := range branches {
		out[b.key] = results[i]
	}
	return out, nil
}

// Parallel 以相同输入并发执行所有分支，输出为 分支键 -> 分支输出。
// 分支间互不可见；全部完成才返回，任一失败立即返回该错误并丢弃其余结果。
func Parallel[I any](specs ...BranchSpec) (Stage[I, map[string]any], error) {
	const combinator = "Parallel"

	branches, err := validateBranches(combinator, generic.TypeOf[I](), specs)
	if err != nil {
		return Stage[I, map[string]any]{}, err
	}

	s := &stage{
		name:       combinator,
		typ:        combinator,
		inputType:  generic.TypeOf[I](),
		outputType: generic.TypeOf[map[string]any](),
		invoke: func(ctx context.Context, in any, cfg ExecutionConfig) (any, error) {
			return fanOut(ctx, branches, in, cfg, nil, false)
		},
	}
	if anyStreamable(branches) {
		s.stream = func(ctx context.Context, in any, cfg ExecutionConfig, onChunk ChunkHandler) (any, error) {
			return fanOut(ctx, branches, in, cfg, onChunk, true)
		}
	}

	return Stage[I, map[string]any]{s: s}, nil
}

// Assign 以原始输入 map 执行各分支，把结果按键合并到输入的副本中。
// 未被分支声明的键原样保留；分支键与输入键同名时只在副本中被替换，调用方持有的 map 不会被修改。
func Assign(specs ...BranchSpec) (Stage[map[string]any, map[string]any], error) {
	const combinator = "Assign"
	mapType := generic.TypeOf[map[string]any]()

	branches, err := validateBranches(combinator, mapType, specs)
	if err != nil {
		return Stage[map[string]any, map[string]any]{}, err
	}

	merge := func(in any, computed map[string]any) (any, error) {
		src, err := assertType[map[string]any](combinator, in)
		if err != nil {
			return nil, err
		}
		out := generic.CopyMap(src)
		for k, v := range computed {
			out[k] = v
		}
		return out, nil
	}

	s := &stage{
		name:       combinator,
		typ:        combinator,
		inputType:  mapType,
		outputType: mapType,
		invoke: func(ctx context.Context, in any, cfg ExecutionConfig) (any, error) {
			computed, err := fanOut(ctx, branches, in, cfg, nil, false)
			if err != nil {
				return nil, err
			}
			return merge(in, computed)
		},
	}
	if anyStreamable(branches) {
		s.stream = func(ctx context.Context, in any, cfg ExecutionConfig, onChunk ChunkHandler) (any, error) {
			computed, err := fanOut(ctx, branches, in, cfg, onChunk, true)
			if err != nil {
				return nil, err
			}
			return merge(in, computed)
		}
	}

	return Stage[map[string]any, map[string]any]{s: s}, nil
}
