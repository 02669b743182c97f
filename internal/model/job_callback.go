package model

// AnalysisCallback 分析回调消息（标准化）
// 用于 qcsync → 调用方 callback consumer 的消息传递
type AnalysisCallback struct {
	RequestID   string              `json:"request_id"`       // 对应请求的 request_id（链路追踪）
	AnalysisID  string              `json:"analysis_id"`      // 分析 ID
	ActionType  string              `json:"action_type"`      // fmea_assess / spc_analyze
	Status      string              `json:"status"`           // 回调状态: SUCCESS / FAILED
	Result      *AnalysisResultData `json:"result,omitempty"` // 分析结果（成功时返回）
	Error       string              `json:"error,omitempty"`  // 错误信息（失败时返回）
	ProcessedAt int64               `json:"processed_at"`     // 处理时间戳（Unix timestamp）
}

// 回调状态常量
const (
	CallbackStatusSuccess = "SUCCESS"
	CallbackStatusFailed  = "FAILED"
)
