package quality

import "math"

// MovingRangeD2 子组大小为 2 的偏差修正系数 d2
const MovingRangeD2 = 1.128

// ControlLimits 控制图中心线与上下控制限
type ControlLimits struct {
	Centerline float64 `json:"centerline"`
	UCL        float64 `json:"ucl"`
	LCL        float64 `json:"lcl"`
}

// MovingRanges 相邻两点差的绝对值
func MovingRanges(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	ranges := make([]float64, 0, len(data)-1)
	for i := 1; i < len(data); i++ {
		ranges = append(ranges, math.Abs(data[i]-data[i-1]))
	}
	return ranges
}

// CalculateControlLimits 计算控制限
//
// subgroupSize == 1: 单值-移动极差图，sigma = 平均移动极差 / 1.128
// subgroupSize > 1: 对全部读数求样本标准差，控制限按 sqrt(subgroupSize) 缩放。
// 此分支并不真正按子组求均值，读数仍按单值处理。
// subgroupSize < 1 按 1 处理。
func CalculateControlLimits(data []float64, subgroupSize int) (ControlLimits, error) {
	if subgroupSize <= 1 {
		return individualsLimits(data)
	}

	m, variance, err := sampleVariance("subgroup control limits", data)
	if err != nil {
		return ControlLimits{}, err
	}
	spread := 3 * math.Sqrt(variance) / math.Sqrt(float64(subgroupSize))

	return ControlLimits{
		Centerline: m,
		UCL:        m + spread,
		LCL:        m - spread,
	}, nil
}

func individualsLimits(data []float64) (ControlLimits, error) {
	if len(data) < 2 {
		return ControlLimits{}, &DataError{Op: "moving range", Need: 2, Got: len(data)}
	}

	stdDev := mean(MovingRanges(data)) / MovingRangeD2
	m := mean(data)

	return ControlLimits{
		Centerline: m,
		UCL:        m + 3*stdDev,
		LCL:        m - 3*stdDev,
	}, nil
}

// OutOfControl 返回严格超出控制限的点的下标
func OutOfControl(data []float64, limits ControlLimits) []int {
	var idx []int
	for i, v := range data {
		if v > limits.UCL || v < limits.LCL {
			idx = append(idx, i)
		}
	}
	return idx
}
