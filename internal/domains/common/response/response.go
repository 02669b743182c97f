package response

import (
	"qms/qcsync/internal/domains/common/job"
	"qms/qcsync/pkg/errorutil"
)

// ResultI 业务结果接口
type ResultI interface {
	// Set 设置元数据和错误
	Set(meta *job.Meta, err error)

	// GetStatus 获取状态
	GetStatus() string
}

// Response 统一响应结构
type Response struct {
	Error     *errorutil.Error `json:"error"`
	Result    ResultI          `json:"result"`
	Processed bool             `json:"processed"`
	Meta      *job.Meta        `json:"meta"`
}

// WrapResponse 包装响应
func (r *Response) WrapResponse(result ResultI, meta *job.Meta, err error) {
	result.Set(meta, err)

	r.Processed = err == nil
	r.Meta = meta
	r.Error = errorutil.Wrap(err)
	r.Result = result
}

// Retryable 错误是否可重试
func (r *Response) Retryable() bool {
	return r.Error != nil && r.Error.Retryable
}
