package model

import "qms/qcsync/pkg/quality"

// FMEAResult FMEA 评估结果
type FMEAResult struct {
	AnalysisID string              `json:"analysis_id"`
	Modes      []FailureModeResult `json:"modes"`
	Summary    FMEASummary         `json:"summary"`
	HasRisk    bool                `json:"has_risk"`
	Issues     []FMEAIssue         `json:"issues"`
}

// FailureModeResult 单个失效模式的评估
type FailureModeResult struct {
	ID             string                 `json:"id"`
	Description    string                 `json:"description,omitempty"`
	Severity       int                    `json:"severity"`
	Occurrence     int                    `json:"occurrence"`
	Detection      int                    `json:"detection"`
	RPN            int                    `json:"rpn"`
	RiskLevel      quality.RiskLevel      `json:"risk_level"`
	ActionPriority quality.ActionPriority `json:"action_priority"`
}

// FMEASummary 按风险等级与措施优先级计数
type FMEASummary struct {
	Total            int                            `json:"total"`
	MaxRPN           int                            `json:"max_rpn"`
	ByRiskLevel      map[quality.RiskLevel]int      `json:"by_risk_level"`
	ByActionPriority map[quality.ActionPriority]int `json:"by_action_priority"`
}

// FMEAIssue 需要采取措施的失效模式
type FMEAIssue struct {
	FailureModeID string `json:"failure_mode_id"`
	Level         string `json:"level"` // WARNING/CRITICAL
	Message       string `json:"message"`
}

// 问题级别常量
const (
	IssueLevelWarning  = "WARNING"
	IssueLevelCritical = "CRITICAL"
)
