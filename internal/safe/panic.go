package safe

import (
	"fmt"
	"runtime/debug"
)

// panicErr 包装 panic 信息与堆栈。
type panicErr struct {
	info  any
	stack []byte
}

func (p *panicErr) Error() string {
	return fmt.Sprintf("panic error: %v, \nstack: %s", p.info, string(p.stack))
}

// Info 返回原始 panic 值。
func (p *panicErr) Info() any {
	return p.info
}

// NewPanicErr 将 panic 信息与堆栈包装为 error。
func NewPanicErr(info any, stack []byte) error {
	return &panicErr{info: info, stack: stack}
}

// Call 执行 fn，并将其中的 panic 转换为 error 返回。
func Call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicErr(r, debug.Stack())
		}
	}()
	return fn()
}
