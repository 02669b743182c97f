package quality

import "math"

func mean(data []float64) float64 {
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// sampleVariance 样本方差，除数 n-1
func sampleVariance(op string, data []float64) (float64, float64, error) {
	if len(data) < 2 {
		return 0, 0, &DataError{Op: op, Need: 2, Got: len(data)}
	}
	// 以首个观测值为偏移累加，常数序列的方差严格为 0
	n := float64(len(data))
	shift := data[0]
	sum, sumSq := 0.0, 0.0
	for _, v := range data {
		d := v - shift
		sum += d
		sumSq += d * d
	}
	variance := (sumSq - sum*sum/n) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return shift + sum/n, variance, nil
}

// MeanAndStdDev 样本均值与样本标准差（n >= 2）
func MeanAndStdDev(data []float64) (float64, float64, error) {
	m, variance, err := sampleVariance("sample std dev", data)
	if err != nil {
		return 0, 0, err
	}
	return m, math.Sqrt(variance), nil
}
