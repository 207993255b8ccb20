// Package cache 定义执行引擎使用的结果缓存接口。
//
// 引擎负责计算内容键与调用时机，后端只需提供按键读写的能力；
// 淘汰策略由具体后端自行决定。
package cache

import "context"

// Cache 字节缓存后端，可跨进程共享。实现必须可被并发调用。
type Cache interface {
	// Get 读取键对应的值，未命中时 ok 为 false 且 err 为 nil。
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put 写入值，已存在时覆盖。
	Put(ctx context.Context, key string, value []byte) error
}

// ValueCache 进程内后端可选实现，直接保存 Go 值而不经过编码，
// 命中时取回的值与写入时类型一致。引擎优先使用该接口。
type ValueCache interface {
	GetValue(ctx context.Context, key string) (value any, ok bool, err error)
	PutValue(ctx context.Context, key string, value any) error
}
