package quality

// RiskLevel RPN 风险等级
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelVeryHigh RiskLevel = "VERY_HIGH"
)

// MaxRPN 10 x 10 x 10
const MaxRPN = MaxRating * MaxRating * MaxRating

type riskBand struct {
	Level RiskLevel
	Min   int
	Max   int
}

// riskBands 连续且覆盖 [1, 1000]，两端闭区间
var riskBands = []riskBand{
	{RiskLevelLow, 1, 40},
	{RiskLevelMedium, 41, 100},
	{RiskLevelHigh, 101, 200},
	{RiskLevelVeryHigh, 201, MaxRPN},
}

// ComputeRPN 计算风险优先数 = S x O x D
func ComputeRPN(severity, occurrence, detection int) (int, error) {
	if err := checkRatings(severity, occurrence, detection); err != nil {
		return 0, err
	}
	return severity * occurrence * detection, nil
}

// ClassifyRPN 返回 rpn 所在的风险等级
// 小于 1 归为 LOW，大于 1000 归为 VERY_HIGH
func ClassifyRPN(rpn int) RiskLevel {
	if rpn < riskBands[0].Min {
		return riskBands[0].Level
	}
	for _, b := range riskBands {
		if rpn >= b.Min && rpn <= b.Max {
			return b.Level
		}
	}
	return riskBands[len(riskBands)-1].Level
}
