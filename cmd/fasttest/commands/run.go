package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"qms/qcsync/internal/business"
	"qms/qcsync/internal/domains"
	"qms/qcsync/internal/domains/common/job"
	"qms/qcsync/internal/model"
	"qms/qcsync/pkg/lmstfyx"
	"qms/qcsync/pkg/logger"
)

const callbackQueue = "fasttest_callback"

// TestCase 测试用例结构
type TestCase struct {
	Name       string          `json:"name"`
	ActionType string          `json:"action_type"`
	Data       json.RawMessage `json:"data"`
	Expect     string          `json:"expect,omitempty"` // SUCCESS/FAILED，缺省 SUCCESS
}

// Summary 执行汇总
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// memPublisher 回调写入内存
type memPublisher struct {
	mu   sync.Mutex
	msgs [][]byte
}

func (p *memPublisher) Publish(queue string, data []byte, ttl, delay uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, data)
	return nil
}

func (p *memPublisher) take() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.msgs) == 0 {
		return nil
	}
	last := p.msgs[len(p.msgs)-1]
	p.msgs = nil
	return last
}

// loadTestCases 从 JSON 文件加载测试用例
func loadTestCases(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read testcase file: %w", err)
	}

	var testCases []TestCase
	if err := json.Unmarshal(data, &testCases); err != nil {
		return nil, fmt.Errorf("failed to unmarshal testcase: %w", err)
	}

	return testCases, nil
}

// runCases 逐条执行测试用例
func runCases(ctx context.Context, cases []TestCase, log logger.Logger, out io.Writer) Summary {
	if ctx == nil {
		ctx = context.Background()
	}

	pub := &memPublisher{}
	service := business.NewAnalysisService(pub, callbackQueue, nil, nil, log)
	proc := domains.GetProcess(log, service, nil)

	summary := Summary{Total: len(cases)}
	for i, tc := range cases {
		fmt.Fprintf(out, "\n[Test %d/%d] %s (%s)\n", i+1, len(cases), tc.Name, tc.ActionType)
		fmt.Fprintln(out, "----------------------------------------")

		startTime := time.Now()
		status, err := runCase(ctx, proc, pub, tc, out)
		duration := time.Since(startTime)

		expect := tc.Expect
		if expect == "" {
			expect = model.CallbackStatusSuccess
		}

		if err == nil && status == expect {
			fmt.Fprintf(out, "PASSED (status=%s, %v)\n", status, duration)
			summary.Passed++
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "FAILED: %v (%v)\n", err, duration)
		} else {
			fmt.Fprintf(out, "FAILED: expect status %s, got %s (%v)\n", expect, status, duration)
		}
		summary.Failed++
	}

	fmt.Fprintf(out, "\nTotal: %d, Passed: %d, Failed: %d\n", summary.Total, summary.Passed, summary.Failed)
	return summary
}

// runCase 构造标准 Job 交给处理函数，返回回调状态
// 未产生回调（消息被直接 Bury）视为 FAILED
func runCase(
	ctx context.Context,
	proc lmstfyx.Proc,
	pub *memPublisher,
	tc TestCase,
	out io.Writer,
) (string, error) {
	var data interface{}
	if len(tc.Data) > 0 {
		if err := json.Unmarshal(tc.Data, &data); err != nil {
			return "", fmt.Errorf("invalid data: %w", err)
		}
	}

	raw, err := json.Marshal(job.Job{Payload: &job.JobPayload{Data: &job.JobPayloadData{
		RequestID:  uuid.New().String(),
		OrgID:      "0",
		ActionType: tc.ActionType,
		ID:         tc.Name,
		Data:       data,
	}}})
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}

	resp := proc(ctx, &client.Job{ID: uuid.New().String(), Queue: "fasttest", Data: raw})
	fmt.Fprintf(out, "  Queue action: %s\n", resp.Action)

	cbData := pub.take()
	if cbData == nil {
		return model.CallbackStatusFailed, nil
	}

	var cb model.AnalysisCallback
	if err := json.Unmarshal(cbData, &cb); err != nil {
		return "", fmt.Errorf("unmarshal callback: %w", err)
	}

	if cb.Error != "" {
		fmt.Fprintf(out, "  Error: %s\n", cb.Error)
	}
	if cb.Result != nil {
		fmt.Fprintf(out, "  Analysis Items: %d\n", len(cb.Result.Items))
		for _, item := range cb.Result.Items {
			fmt.Fprintf(out, "    - Type=%s, Status=%s\n", item.Type, item.Status)
			fmt.Fprintf(out, "      %s\n", item.DataJSON)
		}
	}

	return cb.Status, nil
}
