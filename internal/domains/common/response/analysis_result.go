package response

import (
	"qms/qcsync/internal/domains/common/job"
	"qms/qcsync/pkg/errorutil"
)

// AnalysisResult 分析任务处理结果（实现 ResultI 接口）
type AnalysisResult struct {
	ID         string           `json:"id"`
	ActionType string           `json:"action_type"`
	Status     string           `json:"status"`
	Error      *errorutil.Error `json:"error,omitempty"`
}

const (
	AnalysisStatusSuccess = "SUCCESS"
	AnalysisStatusFailed  = "FAILED"
)

// NewAnalysisResult 创建分析结果
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{}
}

// Set 实现 ResultI 接口
func (r *AnalysisResult) Set(meta *job.Meta, err error) {
	r.ID = meta.ID
	r.ActionType = meta.ActionType
	if err != nil {
		r.Status = AnalysisStatusFailed
		r.Error = errorutil.Wrap(err)
	} else {
		r.Status = AnalysisStatusSuccess
	}
}

// GetStatus 实现 ResultI 接口
func (r *AnalysisResult) GetStatus() string {
	return r.Status
}
