package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"qms/qcsync/internal/business"
	"qms/qcsync/internal/domains/common"
	"qms/qcsync/internal/domains/common/job"
	"qms/qcsync/internal/domains/common/response"
	"qms/qcsync/internal/framework"
	"qms/qcsync/internal/model"
	"qms/qcsync/pkg/errorutil"
)

// Handler 质量分析 Handler（fmea_assess / spc_analyze 共用）
type Handler struct {
	ctx       context.Context
	meta      *job.Meta
	request   *business.AnalysisRequest
	executor  common.Executor
	validate  framework.ProcessorFunc
	decodeErr error // payload 解析失败，在 PreProcess 中上报
}

// NewFMEAHandler 创建 FMEA 评估 Handler
func NewFMEAHandler(ctx context.Context, meta *job.Meta, payload interface{}, executor common.Executor) (common.HandlerServ, error) {
	var data model.FMEAAssessData
	decodeErr := decodePayload(payload, &data)
	data.AnalysisID = analysisID(data.AnalysisID, meta)

	h := newHandler(ctx, meta, executor, data.AnalysisID)
	h.decodeErr = decodeErr
	h.request.FMEA = &data
	h.validate = func(ctx context.Context) error {
		if len(data.FailureModes) == 0 {
			return errorutil.NonRetriable("failure_modes is required")
		}
		return nil
	}
	return h, nil
}

// NewSPCHandler 创建 SPC 分析 Handler
func NewSPCHandler(ctx context.Context, meta *job.Meta, payload interface{}, executor common.Executor) (common.HandlerServ, error) {
	var data model.SPCAnalyzeData
	decodeErr := decodePayload(payload, &data)
	data.AnalysisID = analysisID(data.AnalysisID, meta)

	h := newHandler(ctx, meta, executor, data.AnalysisID)
	h.decodeErr = decodeErr
	h.request.SPC = &data
	h.validate = func(ctx context.Context) error {
		if len(data.Measurements) == 0 {
			return errorutil.NonRetriable("measurements is required")
		}
		if data.ConfidenceLevel < 0 || data.ConfidenceLevel >= 1 {
			return errorutil.NonRetriable(fmt.Sprintf("confidence_level %g out of range [0, 1)", data.ConfidenceLevel))
		}
		return nil
	}
	return h, nil
}

func newHandler(ctx context.Context, meta *job.Meta, executor common.Executor, id string) *Handler {
	return &Handler{
		ctx:      ctx,
		meta:     meta,
		executor: executor,
		request: &business.AnalysisRequest{
			RequestID:  meta.RequestID,
			AnalysisID: id,
			ActionType: meta.ActionType,
		},
	}
}

// GetProcess 处理分析请求
func (h *Handler) GetProcess() *response.Response {
	result := response.NewAnalysisResult()

	processFuncs := []framework.ProcessorFunc{
		h.PreProcess,
		h.Process,
	}
	err := framework.NewPreProcessor(processFuncs).Run(h.ctx)

	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)

	return resp
}

// PreProcess 校验业务数据，未通过时发送 FAILED 回调
func (h *Handler) PreProcess(ctx context.Context) error {
	if h.executor == nil {
		return fmt.Errorf("analysis executor is not configured")
	}
	if err := h.check(ctx); err != nil {
		return h.executor.Fail(ctx, h.request, err)
	}
	return nil
}

func (h *Handler) check(ctx context.Context) error {
	if h.decodeErr != nil {
		return h.decodeErr
	}
	if h.request.AnalysisID == "" {
		return errorutil.NonRetriable("analysis_id is required")
	}
	if h.validate != nil {
		return h.validate(ctx)
	}
	return nil
}

// Process 执行分析并发送回调
func (h *Handler) Process(ctx context.Context) error {
	return h.executor.Execute(ctx, h.request)
}

// decodePayload payload 为通用 JSON 对象，转为具体结构
func decodePayload(payload interface{}, out interface{}) error {
	if payload == nil {
		return errorutil.NonRetriable("payload data is required")
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload failed: %w", err)
	}
	if err := json.Unmarshal(payloadBytes, out); err != nil {
		return fmt.Errorf("unmarshal business data failed: %w", err)
	}
	return nil
}

// analysisID 缺省使用 Job 的业务 ID
func analysisID(id string, meta *job.Meta) string {
	if id != "" {
		return id
	}
	return meta.ID
}
