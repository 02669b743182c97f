package quality

import "math"

// 标准差 <= 0 时一律返回 ErrDivisionByZero，不返回 Inf/NaN

// Cp = (USL - LSL) / 6σ
func Cp(stdDev, lowerSpec, upperSpec float64) (float64, error) {
	if !(stdDev > 0) {
		return 0, ErrDivisionByZero
	}
	return (upperSpec - lowerSpec) / (6 * stdDev), nil
}

// Cpk = min(CPU, CPL)
func Cpk(mean, stdDev, lowerSpec, upperSpec float64) (float64, error) {
	if !(stdDev > 0) {
		return 0, ErrDivisionByZero
	}
	cpu := (upperSpec - mean) / (3 * stdDev)
	cpl := (mean - lowerSpec) / (3 * stdDev)
	return math.Min(cpu, cpl), nil
}

// Ppk 使用样本（长期）标准差计算的 Cpk
func Ppk(data []float64, lowerSpec, upperSpec float64) (float64, error) {
	m, variance, err := sampleVariance("ppk", data)
	if err != nil {
		return 0, err
	}
	return Cpk(m, math.Sqrt(variance), lowerSpec, upperSpec)
}

// Pp 使用样本标准差计算的 Cp
func Pp(data []float64, lowerSpec, upperSpec float64) (float64, error) {
	_, variance, err := sampleVariance("pp", data)
	if err != nil {
		return 0, err
	}
	return Cp(math.Sqrt(variance), lowerSpec, upperSpec)
}
