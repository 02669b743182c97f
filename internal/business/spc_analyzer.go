package business

import (
	"context"
	"fmt"

	"qms/qcsync/internal/model"
	"qms/qcsync/pkg/errorutil"
	"qms/qcsync/pkg/quality"
)

// 能力等级阈值（Cpk）
const (
	CapableThreshold  = 1.33
	MarginalThreshold = 1.0
)

// SPCAnalyzer 统计过程控制分析器
type SPCAnalyzer struct{}

// NewSPCAnalyzer 创建分析器实例
func NewSPCAnalyzer() *SPCAnalyzer {
	return &SPCAnalyzer{}
}

// Analyze 计算控制限、过程能力、西格玛水平与均值置信区间
func (a *SPCAnalyzer) Analyze(ctx context.Context, input *model.SPCAnalyzeData) (*model.SPCResult, error) {
	data := input.Measurements

	mean, stdDev, err := quality.MeanAndStdDev(data)
	if err != nil {
		return nil, err
	}

	limits, err := quality.CalculateControlLimits(data, input.SubgroupSize)
	if err != nil {
		return nil, fmt.Errorf("control limits: %w", err)
	}

	outOfControl := quality.OutOfControl(data, limits)
	if outOfControl == nil {
		outOfControl = []int{}
	}

	level := input.ConfidenceLevel
	if level <= 0 {
		level = quality.DefaultConfidenceLevel
	}

	result := &model.SPCResult{
		AnalysisID:   input.AnalysisID,
		SampleSize:   len(data),
		Mean:         mean,
		StdDev:       stdDev,
		Limits:       limits,
		OutOfControl: outOfControl,
		Confidence:   quality.EstimateConfidenceInterval(mean, stdDev, len(data), level),
		Level:        level,
	}

	if input.LowerSpec != nil && input.UpperSpec != nil {
		capability, err := a.capability(input, mean, stdDev)
		if err != nil {
			return nil, err
		}
		result.Capability = capability
	}

	if input.Defects != nil && input.Units != nil && input.Opportunities != nil {
		dpmo, err := quality.DPMO(*input.Defects, *input.Units, *input.Opportunities)
		if err != nil {
			return nil, fmt.Errorf("dpmo: %w", err)
		}
		result.Sigma = &model.SigmaResult{
			DPMO:  dpmo,
			Level: quality.SigmaLevel(dpmo),
		}
	}

	return result, nil
}

// capability Cp/Cpk 优先使用短期标准差，Pp/Ppk 使用样本标准差
func (a *SPCAnalyzer) capability(input *model.SPCAnalyzeData, mean, sampleStdDev float64) (*model.CapabilityResult, error) {
	lsl, usl := *input.LowerSpec, *input.UpperSpec
	if lsl >= usl {
		return nil, errorutil.NonRetriable(fmt.Sprintf("lower_spec %g must be less than upper_spec %g", lsl, usl))
	}

	shortTerm := sampleStdDev
	if input.StdDev != nil {
		shortTerm = *input.StdDev
	}

	cp, err := quality.Cp(shortTerm, lsl, usl)
	if err != nil {
		return nil, fmt.Errorf("cp: %w", err)
	}
	cpk, err := quality.Cpk(mean, shortTerm, lsl, usl)
	if err != nil {
		return nil, fmt.Errorf("cpk: %w", err)
	}
	pp, err := quality.Pp(input.Measurements, lsl, usl)
	if err != nil {
		return nil, fmt.Errorf("pp: %w", err)
	}
	ppk, err := quality.Ppk(input.Measurements, lsl, usl)
	if err != nil {
		return nil, fmt.Errorf("ppk: %w", err)
	}

	return &model.CapabilityResult{
		Cp:    cp,
		Cpk:   cpk,
		Pp:    pp,
		Ppk:   ppk,
		Grade: CapabilityGrade(cpk),
	}, nil
}

// CapabilityGrade 按 Cpk 判定能力等级
func CapabilityGrade(cpk float64) string {
	switch {
	case cpk >= CapableThreshold:
		return model.CapabilityCapable
	case cpk >= MarginalThreshold:
		return model.CapabilityMarginal
	default:
		return model.CapabilityIncapable
	}
}
