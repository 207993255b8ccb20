package internal

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/favbox/chainflow/internal/generic"
)

var (
	concatMu    sync.RWMutex
	concatFuncs = map[reflect.Type]any{
		generic.TypeOf[string](): concatStrings,
	}
)

func concatStrings(ss []string) (string, error) {
	var n int
	for _, s := range ss {
		n += len(s)
	}
	var b strings.Builder
	b.Grow(n)
	for _, s := range ss {
		b.WriteString(s)
	}
	return b.String(), nil
}

// RegisterConcatFunc 注册类型 T 的流块合并函数，覆盖已有注册。
func RegisterConcatFunc[T any](fn func([]T) (T, error)) {
	concatMu.Lock()
	defer concatMu.Unlock()
	concatFuncs[generic.TypeOf[T]()] = fn
}

// ConcatChunks 将流式产出的多个块合并为最终值。
//
// 合并规则：
//   - 已注册类型使用注册函数（string 默认逐段拼接）
//   - slice 依次追加
//   - map 按块顺序合并，后出现的键覆盖先出现的
//   - 其它类型取最后一块
func ConcatChunks[T any](chunks []T) (T, error) {
	var zero T
	switch len(chunks) {
	case 0:
		return zero, nil
	case 1:
		return chunks[0], nil
	}

	typ := generic.TypeOf[T]()

	concatMu.RLock()
	fn, ok := concatFuncs[typ]
	concatMu.RUnlock()
	if ok {
		f, ok := fn.(func([]T) (T, error))
		if !ok {
			return zero, fmt.Errorf("concat func registered for %v has unexpected signature %T", typ, fn)
		}
		return f(chunks)
	}

	switch typ.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(typ, 0, len(chunks))
		for _, c := range chunks {
			out = reflect.AppendSlice(out, reflect.ValueOf(c))
		}
		return out.Interface().(T), nil
	case reflect.Map:
		out := reflect.MakeMap(typ)
		for _, c := range chunks {
			iter := reflect.ValueOf(c).MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), iter.Value())
			}
		}
		return out.Interface().(T), nil
	default:
		return chunks[len(chunks)-1], nil
	}
}
