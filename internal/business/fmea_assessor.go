package business

import (
	"context"
	"fmt"

	"qms/qcsync/internal/model"
	"qms/qcsync/pkg/quality"
)

// FMEAAssessor 失效模式评估器
type FMEAAssessor struct{}

// NewFMEAAssessor 创建评估器实例
func NewFMEAAssessor() *FMEAAssessor {
	return &FMEAAssessor{}
}

// Assess 对每个失效模式计算 RPN、风险等级与措施优先级
// 任一评分非法则整体失败
func (a *FMEAAssessor) Assess(ctx context.Context, input *model.FMEAAssessData) (*model.FMEAResult, error) {
	if len(input.FailureModes) == 0 {
		return nil, &quality.DataError{Op: "fmea assess", Need: 1, Got: 0}
	}

	result := &model.FMEAResult{
		AnalysisID: input.AnalysisID,
		Modes:      make([]model.FailureModeResult, 0, len(input.FailureModes)),
		Summary:    newFMEASummary(),
		Issues:     make([]model.FMEAIssue, 0),
	}

	for i, fm := range input.FailureModes {
		mode, err := assessMode(fm)
		if err != nil {
			return nil, fmt.Errorf("failure mode #%d (%s): %w", i+1, fm.ID, err)
		}

		result.Modes = append(result.Modes, mode)
		result.Summary.Total++
		result.Summary.ByRiskLevel[mode.RiskLevel]++
		result.Summary.ByActionPriority[mode.ActionPriority]++
		if mode.RPN > result.Summary.MaxRPN {
			result.Summary.MaxRPN = mode.RPN
		}

		if issue, ok := issueFor(mode); ok {
			result.Issues = append(result.Issues, issue)
		}
	}

	result.HasRisk = len(result.Issues) > 0
	return result, nil
}

func assessMode(fm model.FailureModeInput) (model.FailureModeResult, error) {
	s, err := quality.RatingFromFloat("severity", fm.Severity)
	if err != nil {
		return model.FailureModeResult{}, err
	}
	o, err := quality.RatingFromFloat("occurrence", fm.Occurrence)
	if err != nil {
		return model.FailureModeResult{}, err
	}
	d, err := quality.RatingFromFloat("detection", fm.Detection)
	if err != nil {
		return model.FailureModeResult{}, err
	}

	rpn, err := quality.ComputeRPN(s, o, d)
	if err != nil {
		return model.FailureModeResult{}, err
	}
	ap, err := quality.CheckedActionPriority(s, o, d)
	if err != nil {
		return model.FailureModeResult{}, err
	}

	return model.FailureModeResult{
		ID:             fm.ID,
		Description:    fm.Description,
		Severity:       s,
		Occurrence:     o,
		Detection:      d,
		RPN:            rpn,
		RiskLevel:      quality.ClassifyRPN(rpn),
		ActionPriority: ap,
	}, nil
}

// issueFor AP=H 为 CRITICAL，AP=M 为 WARNING，AP=L 不产生问题项
func issueFor(mode model.FailureModeResult) (model.FMEAIssue, bool) {
	switch mode.ActionPriority {
	case quality.ActionPriorityHigh:
		return model.FMEAIssue{
			FailureModeID: mode.ID,
			Level:         model.IssueLevelCritical,
			Message:       fmt.Sprintf("Failure mode %s requires action (AP=H, RPN=%d, S=%d)", mode.ID, mode.RPN, mode.Severity),
		}, true
	case quality.ActionPriorityMedium:
		return model.FMEAIssue{
			FailureModeID: mode.ID,
			Level:         model.IssueLevelWarning,
			Message:       fmt.Sprintf("Failure mode %s should be reviewed (AP=M, RPN=%d)", mode.ID, mode.RPN),
		}, true
	default:
		return model.FMEAIssue{}, false
	}
}

func newFMEASummary() model.FMEASummary {
	return model.FMEASummary{
		ByRiskLevel: map[quality.RiskLevel]int{
			quality.RiskLevelLow:      0,
			quality.RiskLevelMedium:   0,
			quality.RiskLevelHigh:     0,
			quality.RiskLevelVeryHigh: 0,
		},
		ByActionPriority: map[quality.ActionPriority]int{
			quality.ActionPriorityHigh:   0,
			quality.ActionPriorityMedium: 0,
			quality.ActionPriorityLow:    0,
		},
	}
}
