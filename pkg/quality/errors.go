package quality

import (
	"errors"
	"fmt"
)

// 计算引擎错误（均不可重试，由调用方决定是否展示或替换默认值）
var (
	ErrInvalidRating    = errors.New("invalid rating")
	ErrInsufficientData = errors.New("insufficient data")
	ErrDivisionByZero   = errors.New("division by zero")
)

// RatingError 评分校验失败（非整数或越界）
type RatingError struct {
	Field string
	Value float64
}

func (e *RatingError) Error() string {
	return fmt.Sprintf("%s: %s=%v not an integer in [%d, %d]", ErrInvalidRating, e.Field, e.Value, MinRating, MaxRating)
}

func (e *RatingError) Unwrap() error {
	return ErrInvalidRating
}

// DataError 数据点数量不足
type DataError struct {
	Op   string
	Need int
	Got  int
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s: %s needs at least %d points, got %d", ErrInsufficientData, e.Op, e.Need, e.Got)
}

func (e *DataError) Unwrap() error {
	return ErrInsufficientData
}
