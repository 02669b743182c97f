package quality

// DefectsPerMillion 百万机会缺陷数的上限
const DefectsPerMillion = 1_000_000.0

type sigmaStep struct {
	DPM   float64
	Sigma float64
}

// sigmaTable 按 DPM 升序排列的六西格玛阶梯表，不做插值
var sigmaTable = []sigmaStep{
	{3.4, 6},
	{32, 5},
	{233, 4.5},
	{1350, 4},
	{6210, 3.5},
	{22750, 3},
	{66807, 2.5},
	{158655, 2},
	{308538, 1.5},
	{500000, 1},
}

// SigmaLevel 将 DPM 映射为西格玛水平
// dpm <= 0 返回 6，dpm >= 1e6 返回 0，其余取第一个阈值 >= dpm 的档位；
// 超过最大阈值（500000）仍小于 1e6 时返回 0
func SigmaLevel(dpm float64) float64 {
	if dpm <= 0 {
		return 6
	}
	if dpm >= DefectsPerMillion {
		return 0
	}
	for _, step := range sigmaTable {
		if step.DPM >= dpm {
			return step.Sigma
		}
	}
	return 0
}

// DPMO 百万机会缺陷数 = defects / (units * opportunities) * 1e6
func DPMO(defects, units, opportunities int) (float64, error) {
	if defects < 0 {
		return 0, &DataError{Op: "dpmo defects", Need: 0, Got: defects}
	}
	total := units * opportunities
	if units <= 0 || opportunities <= 0 || total <= 0 {
		return 0, ErrDivisionByZero
	}
	return float64(defects) / float64(total) * DefectsPerMillion, nil
}
