package model

import "encoding/json"

// AnalysisResultData 分析结果容器
type AnalysisResultData struct {
	Items []AnalysisItem `json:"items"`
}

// AnalysisItem 单个分析项
type AnalysisItem struct {
	Type     string          `json:"type"`      // fmea/spc
	Status   string          `json:"status"`    // SUCCESS/FAILED
	DataJSON json.RawMessage `json:"data_json"` // 具体数据
	Error    string          `json:"error,omitempty"`
}

// 分析项状态常量
const (
	AnalysisStatusSuccess = "SUCCESS"
	AnalysisStatusFailed  = "FAILED"
)

// 分析类型常量
const (
	AnalysisTypeFMEA = "fmea"
	AnalysisTypeSPC  = "spc"
)

// Failed 是否存在失败的分析项
func (d *AnalysisResultData) Failed() bool {
	for _, item := range d.Items {
		if item.Status != AnalysisStatusSuccess {
			return true
		}
	}
	return false
}
