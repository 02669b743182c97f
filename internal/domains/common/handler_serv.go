package common

import (
	"context"

	"qms/qcsync/internal/business"
	"qms/qcsync/internal/domains/common/job"
	"qms/qcsync/internal/domains/common/response"
)

// Executor 分析执行接口（AnalysisService 实现）
type Executor interface {
	Execute(ctx context.Context, req *business.AnalysisRequest) error
	// Fail 请求未通过校验时发送 FAILED 回调
	Fail(ctx context.Context, req *business.AnalysisRequest, cause error) error
}

// HandlerServProc Handler 构造函数类型
type HandlerServProc func(ctx context.Context, meta *job.Meta, payload interface{}, executor Executor) (HandlerServ, error)

// HandlerServ Handler 接口
type HandlerServ interface {
	GetProcess() *response.Response
}
