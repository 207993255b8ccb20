package generic

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	assert.Equal(t, reflect.TypeOf(""), TypeOf[string]())
	assert.Equal(t, reflect.Interface, TypeOf[error]().Kind())
}

func TestReverse(t *testing.T) {
	s := []int{1, 2, 3}
	assert.Equal(t, []int{3, 2, 1}, Reverse(s))
	assert.Equal(t, []int{1, 2, 3}, s)
}

func TestSortedUnique(t *testing.T) {
	assert.Nil(t, SortedUnique([]string{}))
	assert.Equal(t, []string{"a", "b"}, SortedUnique([]string{"b", "a", "b"}))
}

func TestShallowClone(t *testing.T) {
	t.Run("map", func(t *testing.T) {
		src := map[string]any{"a": 1}
		cp := ShallowClone(src)
		cp["b"] = 2
		assert.Len(t, src, 1)
		assert.Len(t, cp, 2)
	})

	t.Run("slice", func(t *testing.T) {
		src := []int{1, 2}
		cp := ShallowClone(src)
		cp[0] = 9
		assert.Equal(t, 1, src[0])
	})

	t.Run("标量与 nil", func(t *testing.T) {
		assert.Equal(t, 3, ShallowClone(3))
		var m map[string]any
		assert.Nil(t, ShallowClone(m))
		var a any
		assert.Nil(t, ShallowClone(a))
	})
}

func TestFuncName(t *testing.T) {
	assert.Equal(t, "ToUpper", FuncName(strings.ToUpper))
	assert.Equal(t, "", FuncName(func() {}))
	assert.Equal(t, "", FuncName(nil))
	assert.Equal(t, "", FuncName(42))
}
