package errorutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"qms/qcsync/pkg/quality"
)

// Error 错误结构（包含可重试标记）
type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Message
}

// Retriable 创建可重试错误（队列不可达、回调发送失败等）
func Retriable(message string) *Error {
	return &Error{
		Code:      500,
		Message:   message,
		Retryable: true,
	}
}

// RetriableWrap 包装底层错误为可重试错误
func RetriableWrap(err error, message string) *Error {
	return &Error{
		Code:       500,
		Message:    fmt.Sprintf("%s: %v", message, err),
		Retryable:  true,
		DevDetails: fmt.Sprintf("%+v", err),
	}
}

// NonRetriable 创建不可重试错误（参数错误、评分越界、数据不足等）
func NonRetriable(message string) *Error {
	return &Error{
		Code:      400,
		Message:   message,
		Retryable: false,
	}
}

// NonRetriableWithDetails 创建不可重试错误（带详细信息）
func NonRetriableWithDetails(message string, details string) *Error {
	return &Error{
		Code:       400,
		Message:    message,
		Retryable:  false,
		DevDetails: details,
	}
}

// Wrap 包装错误
// 计算引擎错误与 JSON 解析错误视为调用方输入问题（400，不重试），超时可重试，其余默认 500 不重试
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	if isInputError(err) {
		return NonRetriableWithDetails(err.Error(), fmt.Sprintf("%+v", err))
	}

	// 处理超时交给 lmstfy 重新投递
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return RetriableWrap(err, "processing interrupted")
	}

	return &Error{
		Code:       500,
		Message:    err.Error(),
		Retryable:  false,
		DevDetails: fmt.Sprintf("%+v", err),
	}
}

// IsRetryable 判断错误是否可重试
func IsRetryable(err error) bool {
	e := Wrap(err)
	return e != nil && e.Retryable
}

func isInputError(err error) bool {
	if errors.Is(err, quality.ErrInvalidRating) ||
		errors.Is(err, quality.ErrInsufficientData) ||
		errors.Is(err, quality.ErrDivisionByZero) {
		return true
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
