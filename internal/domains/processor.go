package domains

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"qms/qcsync/internal/domains/common"
	"qms/qcsync/internal/domains/common/job"
	"qms/qcsync/internal/domains/common/response"
	"qms/qcsync/pkg/lmstfyx"
	"qms/qcsync/pkg/logger"
	"qms/qcsync/pkg/metrics"
)

// GetProcess 返回核心处理函数（注入到 Processor）
// executor 为分析服务，m 可为 nil
func GetProcess(log logger.Logger, executor common.Executor, m *metrics.Metrics) lmstfyx.Proc {
	return func(ctx context.Context, lmstfyJob *client.Job) *lmstfyx.JobResp {
		startTime := time.Now()
		var actionType string
		var resp *lmstfyx.JobResp

		defer func() {
			m.ObserveJob(actionType, resp.Action.String(), time.Since(startTime))
		}()

		// 1. 解析 Job
		meta, bizPayload, err := parseJob(ctx, lmstfyJob, log)
		if err != nil {
			log.Errorf(ctx, "[GetProcess] parseJob failed: %v", err)
			resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
			return resp
		}
		actionType = meta.ActionType

		// 2. 注入 TraceID 到 Context
		ctx = logger.WithTraceID(ctx, meta.RequestID)
		ctx = logger.WithActionType(ctx, meta.ActionType)

		log.Infof(ctx, "[GetProcess] Processing job: action_type=%s, request_id=%s, id=%s",
			meta.ActionType, meta.RequestID, meta.ID)

		// 3. 从 HandlerMap 获取 Handler
		handlerFunc, ok := HandlerMap[meta.ActionType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for action_type: %s", meta.ActionType)
			resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
			return resp
		}

		// 4. 调用 Handler（捕获 panic）
		resp = runHandler(ctx, handlerFunc, meta, bizPayload, executor, log)

		log.Infof(ctx, "[GetProcess] Processing complete: action=%s, duration=%v", resp.Action, time.Since(startTime))

		return resp
	}
}

func runHandler(
	ctx context.Context,
	handlerFunc common.HandlerServProc,
	meta *job.Meta,
	bizPayload interface{},
	executor common.Executor,
	log logger.Logger,
) (resp *lmstfyx.JobResp) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
			resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}
	}()

	handler, err := handlerFunc(ctx, meta, bizPayload, executor)
	if err != nil {
		log.Errorf(ctx, "[GetProcess] handler creation failed: %v", err)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
	}

	return doJobReport(ctx, handler.GetProcess(), log)
}

// parseJob 解析 Job
func parseJob(ctx context.Context, lmstfyJob *client.Job, log logger.Logger) (*job.Meta, interface{}, error) {
	if lmstfyJob == nil {
		return nil, nil, fmt.Errorf("nil job")
	}

	// 1. 反序列化 Job
	var standardJob job.Job
	if err := json.Unmarshal(lmstfyJob.Data, &standardJob); err != nil {
		return nil, nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	// 2. 校验必填字段
	if standardJob.Payload == nil || standardJob.Payload.Data == nil {
		return nil, nil, fmt.Errorf("invalid job structure: payload.data is nil")
	}

	data := standardJob.Payload.Data

	// 3. 提取元数据
	meta := &job.Meta{
		RequestID:  data.RequestID,
		OrgID:      data.OrgID,
		ActionType: data.ActionType,
		ID:         data.ID,
	}

	// RequestID 为空则生成一个
	if meta.RequestID == "" {
		meta.RequestID = uuid.New().String()
	}

	log.Debugf(ctx, "[parseJob] Parsed: action_type=%s, request_id=%s, id=%s",
		meta.ActionType, meta.RequestID, meta.ID)

	return meta, data.Data, nil
}

// doJobReport 生成 JobResp（根据 Response 判断 ACK/Bury/Release）
func doJobReport(ctx context.Context, resp *response.Response, log logger.Logger) *lmstfyx.JobResp {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Errorf(ctx, "[doJobReport] marshal response failed: %v", err)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
	}

	switch {
	case resp.Error == nil:
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess, Data: data}
	case resp.Retryable():
		log.Warnf(ctx, "[doJobReport] retryable failure: %s", resp.Error.Message)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease, Data: data}
	default:
		log.Errorf(ctx, "[doJobReport] job failed: code=%d, message=%s", resp.Error.Code, resp.Error.Message)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury, Data: data}
	}
}
