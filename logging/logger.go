// Package logging 提供最小化的日志接口及适配器。
//
// 引擎、智能体循环与上下文装配器只依赖 Logger 接口，
// 使用方可接入任意结构化日志实现；默认使用 NoOpLogger 保持静默。
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Logger 定义组件使用的最小日志接口。
// args 为 slog 风格的键值对。
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter 将 *slog.Logger 适配为 Logger。
type SlogAdapter struct {
	*slog.Logger
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.Logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.Logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter 基于 *slog.Logger 创建 Logger。
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefault 使用 slog.Default() 创建 Logger。
func NewDefault() Logger {
	return NewSlogAdapter(slog.Default())
}

// NewConsoleLogger 创建带颜色高亮的控制台 Logger。
// error 类型的属性值以红色输出，便于在终端中定位失败。
func NewConsoleLogger(w io.Writer, level slog.Level) Logger {
	return NewSlogAdapter(slog.New(newConsoleHandler(w, level, false)))
}

// NewPlainConsoleLogger 同 NewConsoleLogger，但不输出颜色控制符，适合写入文件或测试缓冲区。
func NewPlainConsoleLogger(w io.Writer, level slog.Level) Logger {
	return NewSlogAdapter(slog.New(newConsoleHandler(w, level, true)))
}

func newConsoleHandler(w io.Writer, level slog.Level, noColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
}

// NoOpLogger 丢弃所有日志。
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...any) {}
func (NoOpLogger) Info(string, ...any)  {}
func (NoOpLogger) Warn(string, ...any)  {}
func (NoOpLogger) Error(string, ...any) {}

// NewNoOpLogger 返回静默的 Logger。
func NewNoOpLogger() Logger {
	return NoOpLogger{}
}

// OrNoOp 在 l 为 nil 时返回 NoOpLogger。
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}
