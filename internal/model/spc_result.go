package model

import "qms/qcsync/pkg/quality"

// SPCResult SPC 分析结果
type SPCResult struct {
	AnalysisID   string                     `json:"analysis_id"`
	SampleSize   int                        `json:"sample_size"`
	Mean         float64                    `json:"mean"`
	StdDev       float64                    `json:"std_dev"`
	Limits       quality.ControlLimits      `json:"control_limits"`
	OutOfControl []int                      `json:"out_of_control"`
	Capability   *CapabilityResult          `json:"capability,omitempty"`
	Sigma        *SigmaResult               `json:"sigma,omitempty"`
	Confidence   quality.ConfidenceInterval `json:"confidence_interval"`
	Level        float64                    `json:"confidence_level"`
}

// CapabilityResult 过程能力指数
type CapabilityResult struct {
	Cp    float64 `json:"cp"`
	Cpk   float64 `json:"cpk"`
	Pp    float64 `json:"pp"`
	Ppk   float64 `json:"ppk"`
	Grade string  `json:"grade"` // CAPABLE/MARGINAL/INCAPABLE
}

// 能力等级常量（按 Cpk 判定）
const (
	CapabilityCapable   = "CAPABLE"
	CapabilityMarginal  = "MARGINAL"
	CapabilityIncapable = "INCAPABLE"
)

// SigmaResult 缺陷率与西格玛水平
type SigmaResult struct {
	DPMO  float64 `json:"dpmo"`
	Level float64 `json:"sigma_level"`
}
