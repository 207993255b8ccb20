package safe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPanicErr(t *testing.T) {
	err := NewPanicErr("info", []byte("stack"))
	assert.Equal(t, "panic error: info, \nstack: stack", err.Error())
}

func TestCall(t *testing.T) {
	t.Run("正常返回", func(t *testing.T) {
		want := errors.New("plain")
		assert.Equal(t, want, Call(func() error { return want }))
		assert.NoError(t, Call(func() error { return nil }))
	})

	t.Run("panic 转为 error", func(t *testing.T) {
		err := Call(func() error { panic("boom") })
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "panic error: boom")

		var pe *panicErr
		assert.True(t, errors.As(err, &pe))
		assert.Equal(t, "boom", pe.Info())
	})
}
