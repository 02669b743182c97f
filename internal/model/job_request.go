package model

// 动作类型（路由键）
const (
	ActionTypeFMEAAssess = "fmea_assess"
	ActionTypeSPCAnalyze = "spc_analyze"
)

// FMEAAssessData fmea_assess 业务数据
type FMEAAssessData struct {
	AnalysisID   string             `json:"analysis_id"`
	FailureModes []FailureModeInput `json:"failure_modes"`
}

// FailureModeInput 单个失效模式的评分
// 评分以 float64 接收，非整数或越界由计算引擎拒绝
type FailureModeInput struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Severity    float64 `json:"severity"`
	Occurrence  float64 `json:"occurrence"`
	Detection   float64 `json:"detection"`
}

// SPCAnalyzeData spc_analyze 业务数据
type SPCAnalyzeData struct {
	AnalysisID   string    `json:"analysis_id"`
	Measurements []float64 `json:"measurements"`
	SubgroupSize int       `json:"subgroup_size"`

	// 规格限，两者都给出时才计算能力指数
	LowerSpec *float64 `json:"lower_spec,omitempty"`
	UpperSpec *float64 `json:"upper_spec,omitempty"`

	// 短期标准差，缺省使用样本标准差
	StdDev *float64 `json:"std_dev,omitempty"`

	// 缺陷统计，三者都给出时才计算 DPMO 与西格玛水平
	Defects       *int `json:"defects,omitempty"`
	Units         *int `json:"units,omitempty"`
	Opportunities *int `json:"opportunities,omitempty"`

	ConfidenceLevel float64 `json:"confidence_level,omitempty"` // 缺省 0.95
}
