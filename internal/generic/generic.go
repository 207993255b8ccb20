// Package generic 提供与类型参数相关的小工具。
package generic

import (
	"cmp"
	"reflect"
	"slices"
)

// TypeOf 返回 T 的 reflect.Type，对接口类型同样有效。
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Pair 表示一对值。
type Pair[F, S any] struct {
	First  F
	Second S
}

// Reverse 返回顺序反转的新切片，不修改原切片。
func Reverse[S ~[]E, E any](s S) S {
	d := make(S, len(s))
	for i := range s {
		d[i] = s[len(s)-i-1]
	}
	return d
}

// CopyMap 返回 map 的浅拷贝。nil 输入返回空 map。
func CopyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// SortedUnique 返回排序并去重后的新切片。
func SortedUnique[S ~[]E, E cmp.Ordered](s S) S {
	if len(s) == 0 {
		return nil
	}
	d := slices.Clone(s)
	slices.Sort(d)
	return slices.Compact(d)
}

// ShallowClone 对 map 与 slice 做浅拷贝，其它值原样返回。
// 用于在并行分支之间隔离顶层容器。
func ShallowClone[T any](v T) T {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return v
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		cp := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), iter.Value())
		}
		return cp.Interface().(T)
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(cp, rv)
		return cp.Interface().(T)
	default:
		return v
	}
}
