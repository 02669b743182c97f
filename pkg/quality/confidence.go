package quality

import "math"

const (
	// DefaultConfidenceLevel 默认置信水平
	DefaultConfidenceLevel = 0.95
	// FallbackCriticalValue 正态近似临界值，查表失败时使用
	FallbackCriticalValue = 1.96
)

// ConfidenceInterval 样本均值的双侧置信区间
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type tEntry struct {
	DF int
	T  float64
}

// tTable 双侧 t 临界值，键为置信百分比，自由度升序
var tTable = map[int][]tEntry{
	95: {
		{1, 12.706}, {2, 4.303}, {3, 3.182}, {4, 2.776}, {5, 2.571},
		{6, 2.447}, {7, 2.365}, {8, 2.306}, {9, 2.262}, {10, 2.228},
		{12, 2.179}, {15, 2.131}, {20, 2.086}, {25, 2.060}, {30, 2.042},
	},
	99: {
		{1, 63.657}, {2, 9.925}, {3, 5.841}, {4, 4.604}, {5, 4.032},
		{6, 3.707}, {7, 3.499}, {8, 3.355}, {9, 3.250}, {10, 3.169},
		{12, 3.055}, {15, 2.947}, {20, 2.845}, {25, 2.787}, {30, 2.750},
	},
}

// CriticalValue 查 t 临界值
// 置信百分比不在表中 -> 1.96；df 命中 -> 表值；否则取第一个 >= df 的自由度，
// 超出最大自由度 -> 1.96
func CriticalValue(confidenceLevel float64, df int) float64 {
	entries, ok := tTable[int(math.Round(confidenceLevel*100))]
	if !ok {
		return FallbackCriticalValue
	}
	for _, e := range entries {
		if e.DF >= df {
			return e.T
		}
	}
	return FallbackCriticalValue
}

// EstimateConfidenceInterval 计算均值置信区间，不返回错误
// sampleSize < 1 按 1 处理
func EstimateConfidenceInterval(mean, stdDev float64, sampleSize int, confidenceLevel float64) ConfidenceInterval {
	n := sampleSize
	if n < 1 {
		n = 1
	}
	t := CriticalValue(confidenceLevel, n-1)
	margin := t * stdDev / math.Sqrt(float64(n))

	return ConfidenceInterval{
		Lower: mean - margin,
		Upper: mean + margin,
	}
}
