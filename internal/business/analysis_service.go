package business

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"qms/qcsync/internal/model"
	"qms/qcsync/pkg/errorutil"
	"qms/qcsync/pkg/infra/redis"
	"qms/qcsync/pkg/logger"
	"qms/qcsync/pkg/metrics"
)

// CallbackPublisher 回调发布接口（lmstfy 客户端实现）
type CallbackPublisher interface {
	Publish(queue string, data []byte, ttl, delay uint32) error
}

// Notifier 分析完成通知接口（Redis PubSub 实现）
type Notifier interface {
	PublishAnalysisComplete(ctx context.Context, notification *redis.AnalysisNotification) error
}

// AnalysisService 分析服务（不涉及 DB 操作）
// 职责：执行分析 → 发送回调到 callback 队列 → 发送完成通知
type AnalysisService struct {
	compositeHandler *CompositeHandler
	publisher        CallbackPublisher
	callbackQueue    string
	notifier         Notifier
	metrics          *metrics.Metrics
	logger           logger.Logger
	now              func() time.Time
}

// NewAnalysisService 创建分析服务实例
// notifier、m 可为 nil
func NewAnalysisService(
	publisher CallbackPublisher,
	callbackQueue string,
	notifier Notifier,
	m *metrics.Metrics,
	log logger.Logger,
) *AnalysisService {
	return &AnalysisService{
		compositeHandler: NewCompositeHandler(),
		publisher:        publisher,
		callbackQueue:    callbackQueue,
		notifier:         notifier,
		metrics:          m,
		logger:           log,
		now:              time.Now,
	}
}

// Execute 执行分析并发送回调
// 回调发送失败返回可重试错误；分析失败时仍发送 FAILED 回调，并返回不可重试错误
func (s *AnalysisService) Execute(ctx context.Context, req *AnalysisRequest) error {
	// 1. 执行分析（不查询 DB，使用 payload 传入的数据）
	resultData, analyzeErr := s.compositeHandler.Analyze(ctx, req)

	// 2. 发送回调（失败时带上错误信息）
	if analyzeErr != nil {
		if err := s.sendCallback(ctx, req, model.CallbackStatusFailed, nil, analyzeErr.Error()); err != nil {
			return err
		}
		return analyzeErr
	}
	return s.sendCallback(ctx, req, model.CallbackStatusSuccess, resultData, "")
}

// Fail 请求未通过校验，不执行分析，直接发送 FAILED 回调
// 返回 cause；回调发送失败时返回可重试错误
func (s *AnalysisService) Fail(ctx context.Context, req *AnalysisRequest, cause error) error {
	if err := s.sendCallback(ctx, req, model.CallbackStatusFailed, nil, cause.Error()); err != nil {
		return err
	}
	return cause
}

// sendCallback 构造回调消息，发送到 callback 队列后发送完成通知
func (s *AnalysisService) sendCallback(
	ctx context.Context,
	req *AnalysisRequest,
	status string,
	resultData *model.AnalysisResultData,
	errMsg string,
) error {
	callback := model.AnalysisCallback{
		RequestID:   req.RequestID,
		AnalysisID:  req.AnalysisID,
		ActionType:  req.ActionType,
		Status:      status,
		Result:      resultData,
		Error:       errMsg,
		ProcessedAt: s.now().Unix(),
	}

	callbackJSON, err := json.Marshal(callback)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	if err := s.publisher.Publish(s.callbackQueue, callbackJSON, 0, 0); err != nil {
		s.metrics.CallbackFailed()
		return errorutil.RetriableWrap(err, "failed to publish callback")
	}

	s.logger.Infof(ctx, "[AnalysisService] Callback sent: analysis_id=%s, status=%s, queue=%s",
		req.AnalysisID, status, s.callbackQueue)

	// 完成通知（尽力而为，失败不影响任务结果）
	s.notify(ctx, req, status)
	return nil
}

// Analyze 只执行分析不发送回调（fasttest 使用）
func (s *AnalysisService) Analyze(ctx context.Context, req *AnalysisRequest) (*model.AnalysisResultData, error) {
	return s.compositeHandler.Analyze(ctx, req)
}

func (s *AnalysisService) notify(ctx context.Context, req *AnalysisRequest, status string) {
	if s.notifier == nil {
		return
	}

	notification := &redis.AnalysisNotification{
		AnalysisID: req.AnalysisID,
		ActionType: req.ActionType,
		Status:     status,
		Timestamp:  s.now().Unix(),
	}
	if err := s.notifier.PublishAnalysisComplete(ctx, notification); err != nil {
		s.logger.Warnf(ctx, "[AnalysisService] Notify failed: analysis_id=%s, err=%v", req.AnalysisID, err)
	}
}
