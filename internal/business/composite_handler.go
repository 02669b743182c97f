package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"qms/qcsync/internal/model"
)

// CompositeHandler 复合分析处理器（组装所有分析结果）
type CompositeHandler struct {
	fmeaAssessor *FMEAAssessor
	spcAnalyzer  *SPCAnalyzer
}

// NewCompositeHandler 创建复合分析处理器实例
func NewCompositeHandler() *CompositeHandler {
	return &CompositeHandler{
		fmeaAssessor: NewFMEAAssessor(),
		spcAnalyzer:  NewSPCAnalyzer(),
	}
}

// AnalysisRequest 分析输入参数（所有数据从 payload 传入）
type AnalysisRequest struct {
	RequestID  string                `json:"request_id"`
	AnalysisID string                `json:"analysis_id"`
	ActionType string                `json:"action_type"`
	FMEA       *model.FMEAAssessData `json:"fmea,omitempty"`
	SPC        *model.SPCAnalyzeData `json:"spc,omitempty"`
}

// Analyze 执行请求中携带的全部分析
// 每个分析项独立记录状态，返回的 error 汇总所有失败项
func (h *CompositeHandler) Analyze(ctx context.Context, req *AnalysisRequest) (*model.AnalysisResultData, error) {
	items := make([]model.AnalysisItem, 0, 2)
	var errs []error

	if req.FMEA != nil {
		item, err := h.analyzeFMEA(ctx, req.FMEA)
		items = append(items, item)
		errs = append(errs, err)
	}

	if req.SPC != nil {
		item, err := h.analyzeSPC(ctx, req.SPC)
		items = append(items, item)
		errs = append(errs, err)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no analysis payload for action_type %q", req.ActionType)
	}

	return &model.AnalysisResultData{
		Items: items,
	}, errors.Join(errs...)
}

// analyzeFMEA 执行 FMEA 评估
func (h *CompositeHandler) analyzeFMEA(ctx context.Context, input *model.FMEAAssessData) (model.AnalysisItem, error) {
	result, err := h.fmeaAssessor.Assess(ctx, input)
	if err != nil {
		return failedItem(model.AnalysisTypeFMEA, err), err
	}
	return marshalItem(model.AnalysisTypeFMEA, result)
}

// analyzeSPC 执行 SPC 分析
func (h *CompositeHandler) analyzeSPC(ctx context.Context, input *model.SPCAnalyzeData) (model.AnalysisItem, error) {
	result, err := h.spcAnalyzer.Analyze(ctx, input)
	if err != nil {
		return failedItem(model.AnalysisTypeSPC, err), err
	}
	return marshalItem(model.AnalysisTypeSPC, result)
}

func marshalItem(itemType string, result interface{}) (model.AnalysisItem, error) {
	dataJSON, err := json.Marshal(result)
	if err != nil {
		err = fmt.Errorf("failed to marshal %s result: %w", itemType, err)
		return failedItem(itemType, err), err
	}

	return model.AnalysisItem{
		Type:     itemType,
		Status:   model.AnalysisStatusSuccess,
		DataJSON: dataJSON,
	}, nil
}

func failedItem(itemType string, err error) model.AnalysisItem {
	return model.AnalysisItem{
		Type:   itemType,
		Status: model.AnalysisStatusFailed,
		Error:  err.Error(),
	}
}
