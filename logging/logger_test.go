package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewPlainConsoleLogger(&buf, slog.LevelInfo)

	l.Debug("hidden")
	l.Info("cache miss", "key", "abc")
	l.Warn("tool failed", "err", errors.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "cache miss")
	assert.Contains(t, out, "key=abc")
	assert.Contains(t, out, "boom")
}

func TestOrNoOp(t *testing.T) {
	assert.Equal(t, NoOpLogger{}, OrNoOp(nil))

	l := NewDefault()
	assert.Same(t, l, OrNoOp(l))

	assert.NotPanics(t, func() {
		n := NewNoOpLogger()
		n.Debug("x")
		n.Info("x")
		n.Warn("x")
		n.Error("x")
	})
}
