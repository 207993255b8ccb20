package compose

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrEmptyComposition 组合算子没有任何子阶段。
	ErrEmptyComposition = errors.New("empty composition")
	// ErrTypeMismatch 相邻阶段类型不兼容，或运行时值与声明类型不符。
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrDuplicateKey Parallel/Assign 中出现重复或空的输出键。
	ErrDuplicateKey = errors.New("duplicate output key")
	// ErrNilStage 组合了未初始化的阶段。
	ErrNilStage = errors.New("nil stage")
)

// CompositionError 构建期错误，指明出错的组合算子与位置。
type CompositionError struct {
	Combinator string
	// Position 出错的子阶段位置，如 "stage[2]"、"branch[docs]"
	Position string
	Expected reflect.Type
	Actual   reflect.Type
	Err      error
}

func (e *CompositionError) Error() string {
	if e.Expected != nil || e.Actual != nil {
		return fmt.Sprintf("compose %s at %s: %v: expected %v, got %v",
			e.Combinator, e.Position, e.Err, e.Expected, e.Actual)
	}
	if e.Position != "" {
		return fmt.Sprintf("compose %s at %s: %v", e.Combinator, e.Position, e.Err)
	}
	return fmt.Sprintf("compose %s: %v", e.Combinator, e.Err)
}

func (e *CompositionError) Unwrap() error {
	return e.Err
}

func newTypeMismatchErr(combinator, position string, expected, actual reflect.Type) error {
	return &CompositionError{
		Combinator: combinator,
		Position:   position,
		Expected:   expected,
		Actual:     actual,
		Err:        ErrTypeMismatch,
	}
}

func newUnexpectedInputTypeErr(stage string, expected reflect.Type, got any) error {
	return fmt.Errorf("%w: stage %s expects %v, got %T", ErrTypeMismatch, stage, expected, got)
}
