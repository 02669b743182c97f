package domains

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bitleak/lmstfy/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qms/qcsync/internal/business"
	"qms/qcsync/internal/model"
	"qms/qcsync/pkg/lmstfyx"
	"qms/qcsync/pkg/logger"
	"qms/qcsync/pkg/metrics"
)

type fakePublisher struct {
	msgs [][]byte
	err  error
}

func (p *fakePublisher) Publish(queue string, data []byte, ttl, delay uint32) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, data)
	return nil
}

type panicExecutor struct{}

func (panicExecutor) Execute(ctx context.Context, req *business.AnalysisRequest) error {
	panic("boom")
}

func (panicExecutor) Fail(ctx context.Context, req *business.AnalysisRequest, cause error) error {
	return cause
}

func buildJob(t *testing.T, requestID, actionType, id string, data interface{}) *client.Job {
	t.Helper()
	body := map[string]interface{}{
		"payload": map[string]interface{}{
			"data": map[string]interface{}{
				"request_id":  requestID,
				"org_id":      "0",
				"action_type": actionType,
				"id":          id,
				"data":        data,
			},
		},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return &client.Job{ID: "job-1", Queue: "quality_analysis", Data: raw}
}

var fmeaPayload = map[string]interface{}{
	"analysis_id": "fmea-001",
	"failure_modes": []map[string]interface{}{
		{"id": "FM-1", "severity": 9, "occurrence": 5, "detection": 3},
		{"id": "FM-2", "severity": 2, "occurrence": 2, "detection": 2},
	},
}

var spcPayload = map[string]interface{}{
	"measurements": []float64{10, 12, 11, 13, 9, 10, 12, 11},
	"lower_spec":   5,
	"upper_spec":   17,
}

func TestGetProcess(t *testing.T) {
	tests := []struct {
		name       string
		job        func(t *testing.T) *client.Job
		pubErr     error
		wantAction lmstfyx.JobRespStatus
		wantStatus string // 回调状态，空表示不发送回调
	}{
		{
			name: "fmea success",
			job: func(t *testing.T) *client.Job {
				return buildJob(t, "req-1", model.ActionTypeFMEAAssess, "a-1", fmeaPayload)
			},
			wantAction: lmstfyx.JobRespStatusSuccess,
			wantStatus: model.CallbackStatusSuccess,
		},
		{
			name: "spc success uses job id as analysis id",
			job: func(t *testing.T) *client.Job {
				return buildJob(t, "req-2", model.ActionTypeSPCAnalyze, "spc-9", spcPayload)
			},
			wantAction: lmstfyx.JobRespStatusSuccess,
			wantStatus: model.CallbackStatusSuccess,
		},
		{
			name: "invalid rating buries and reports failure",
			job: func(t *testing.T) *client.Job {
				return buildJob(t, "req-3", model.ActionTypeFMEAAssess, "a-3", map[string]interface{}{
					"analysis_id":   "fmea-003",
					"failure_modes": []map[string]interface{}{{"id": "FM-1", "severity": 11, "occurrence": 1, "detection": 1}},
				})
			},
			wantAction: lmstfyx.JobRespStatusBury,
			wantStatus: model.CallbackStatusFailed,
		},
		{
			name: "callback publish failure releases",
			job: func(t *testing.T) *client.Job {
				return buildJob(t, "req-4", model.ActionTypeFMEAAssess, "a-4", fmeaPayload)
			},
			pubErr:     errors.New("connection refused"),
			wantAction: lmstfyx.JobRespStatusRelease,
		},
		{
			name: "missing failure modes",
			job: func(t *testing.T) *client.Job {
				return buildJob(t, "req-5", model.ActionTypeFMEAAssess, "a-5", map[string]interface{}{})
			},
			wantAction: lmstfyx.JobRespStatusBury,
			wantStatus: model.CallbackStatusFailed,
		},
		{
			name: "confidence level out of range reports failure",
			job: func(t *testing.T) *client.Job {
				return buildJob(t, "req-8", model.ActionTypeSPCAnalyze, "a-8", map[string]interface{}{
					"measurements":     []float64{10, 12, 11},
					"confidence_level": 1,
				})
			},
			wantAction: lmstfyx.JobRespStatusBury,
			wantStatus: model.CallbackStatusFailed,
		},
		{
			name: "rejected request with callback publish failure releases",
			job: func(t *testing.T) *client.Job {
				return buildJob(t, "req-9", model.ActionTypeFMEAAssess, "a-9", map[string]interface{}{})
			},
			pubErr:     errors.New("connection refused"),
			wantAction: lmstfyx.JobRespStatusRelease,
		},
		{
			name:       "unknown action type",
			job:        func(t *testing.T) *client.Job { return buildJob(t, "req-6", "unknown_action", "a-6", fmeaPayload) },
			wantAction: lmstfyx.JobRespStatusBury,
		},
		{
			name:       "malformed json",
			job:        func(t *testing.T) *client.Job { return &client.Job{ID: "job-x", Data: []byte("{not json")} },
			wantAction: lmstfyx.JobRespStatusBury,
		},
		{
			name:       "missing payload data",
			job:        func(t *testing.T) *client.Job { return &client.Job{ID: "job-y", Data: []byte(`{"payload":{}}`)} },
			wantAction: lmstfyx.JobRespStatusBury,
		},
		{
			name: "wrong payload type",
			job: func(t *testing.T) *client.Job {
				return buildJob(t, "req-7", model.ActionTypeSPCAnalyze, "a-7", "not an object")
			},
			wantAction: lmstfyx.JobRespStatusBury,
			wantStatus: model.CallbackStatusFailed,
		},
		{
			name: "mistyped rating reports failure",
			job: func(t *testing.T) *client.Job {
				return buildJob(t, "req-10", model.ActionTypeFMEAAssess, "a-10", map[string]interface{}{
					"failure_modes": []map[string]interface{}{{"id": "FM-1", "severity": "high", "occurrence": 1, "detection": 1}},
				})
			},
			wantAction: lmstfyx.JobRespStatusBury,
			wantStatus: model.CallbackStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{err: tt.pubErr}
			log := logger.NewNopLogger()
			svc := business.NewAnalysisService(pub, "quality_callback", nil, nil, log)

			resp := GetProcess(log, svc, nil)(context.Background(), tt.job(t))
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantAction, resp.Action)

			if tt.wantStatus == "" {
				assert.Empty(t, pub.msgs)
				return
			}
			require.Len(t, pub.msgs, 1)
			var cb model.AnalysisCallback
			require.NoError(t, json.Unmarshal(pub.msgs[0], &cb))
			assert.Equal(t, tt.wantStatus, cb.Status)
			assert.NotEmpty(t, cb.AnalysisID)
		})
	}
}

func TestGetProcess_GeneratesRequestID(t *testing.T) {
	pub := &fakePublisher{}
	log := logger.NewNopLogger()
	svc := business.NewAnalysisService(pub, "quality_callback", nil, nil, log)

	resp := GetProcess(log, svc, nil)(context.Background(), buildJob(t, "", model.ActionTypeFMEAAssess, "a-1", fmeaPayload))
	require.Equal(t, lmstfyx.JobRespStatusSuccess, resp.Action)

	require.Len(t, pub.msgs, 1)
	var cb model.AnalysisCallback
	require.NoError(t, json.Unmarshal(pub.msgs[0], &cb))
	assert.Len(t, cb.RequestID, 36)
}

func TestGetProcess_RecoversPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	resp := GetProcess(logger.NewNopLogger(), panicExecutor{}, m)(
		context.Background(), buildJob(t, "req-1", model.ActionTypeFMEAAssess, "a-1", fmeaPayload))

	assert.Equal(t, lmstfyx.JobRespStatusBury, resp.Action)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsTotal.WithLabelValues(model.ActionTypeFMEAAssess, "bury")))
}
