package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 任务处理指标
type Metrics struct {
	JobsTotal       *prometheus.CounterVec   // 按 action_type/status 统计的任务数
	JobDuration     *prometheus.HistogramVec // 单个任务处理耗时
	CallbacksFailed prometheus.Counter       // 回调发送失败次数
}

// NewMetrics 创建并注册指标
// reg 由调用方注入，测试时传入独立的 Registry
func NewMetrics(reg prometheus.Registerer) *Metrics {
	jobsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "qcsync_jobs_total",
		Help: "Total number of processed jobs by action type and queue outcome",
	}, []string{"action_type", "status"})

	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qcsync_job_duration_seconds",
		Help:    "Job processing duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"action_type"})

	callbacksFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "qcsync_callbacks_failed_total",
		Help: "Total number of callback messages that failed to publish",
	})

	reg.MustRegister(jobsTotal)
	reg.MustRegister(jobDuration)
	reg.MustRegister(callbacksFailed)

	return &Metrics{
		JobsTotal:       jobsTotal,
		JobDuration:     jobDuration,
		CallbacksFailed: callbacksFailed,
	}
}

// ObserveJob 记录一次任务结果，m 为 nil 时忽略
func (m *Metrics) ObserveJob(actionType, status string, duration time.Duration) {
	if m == nil {
		return
	}
	if actionType == "" {
		actionType = "unknown"
	}
	m.JobsTotal.WithLabelValues(actionType, status).Inc()
	m.JobDuration.WithLabelValues(actionType).Observe(duration.Seconds())
}

// CallbackFailed 记录一次回调发送失败
func (m *Metrics) CallbackFailed() {
	if m == nil {
		return
	}
	m.CallbacksFailed.Inc()
}
