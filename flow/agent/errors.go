package agent

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrParse 补全既不是最终答案，也不符合动作语法。
	ErrParse = errors.New("unable to parse agent output")
	// ErrUnknownTool 模型请求了未注册的工具。
	ErrUnknownTool = errors.New("unknown tool")
	// ErrIterationLimit 达到最大循环次数仍未给出最终答案。
	ErrIterationLimit = errors.New("iteration limit exceeded")
	// ErrTimeLimit 达到最长执行时间仍未给出最终答案。
	ErrTimeLimit = errors.New("time limit exceeded")
)

// ParseError 携带无法解析的原始补全文本。
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v (%s): %q", ErrParse, e.Reason, e.Text)
	}
	return fmt.Sprintf("%v: %q", ErrParse, e.Text)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// UnknownToolError 模型请求的工具不在本次运行的注册表中。该错误是终止性的。
type UnknownToolError struct {
	Tool      string
	Available []string
	Iteration int
	Log       string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("%v %q at iteration %d, available tools: %v", ErrUnknownTool, e.Tool, e.Iteration, e.Available)
}

func (e *UnknownToolError) Unwrap() error {
	return ErrUnknownTool
}

// LimitError 循环被迭代或时间上限终止。
type LimitError struct {
	// Err 为 ErrIterationLimit 或 ErrTimeLimit
	Err        error
	Iterations int
	Limit      int
	Elapsed    time.Duration
	// LastLog 最后一次补全的原始文本
	LastLog string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%v: %d/%d iterations in %v", e.Err, e.Iterations, e.Limit, e.Elapsed.Round(time.Millisecond))
}

func (e *LimitError) Unwrap() error {
	return e.Err
}
