package quality

// RatingBand 评分三段划分
type RatingBand int

const (
	BandLow RatingBand = iota
	BandMedium
	BandHigh
)

func (b RatingBand) String() string {
	switch b {
	case BandHigh:
		return "HIGH"
	case BandMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// BandOf 7-10 为 HIGH，4-6 为 MEDIUM，其余为 LOW
func BandOf(rating int) RatingBand {
	switch {
	case rating >= 7:
		return BandHigh
	case rating >= 4:
		return BandMedium
	default:
		return BandLow
	}
}

// apMatrix 静态的 严重度/频度/探测度 三段矩阵，仅作文档对照
// 下标顺序: [S 段][O 段][D 段]
var apMatrix = [3][3][3]ActionPriority{
	BandLow: {
		BandLow:    {ActionPriorityLow, ActionPriorityLow, ActionPriorityLow},
		BandMedium: {ActionPriorityLow, ActionPriorityLow, ActionPriorityLow},
		BandHigh:   {ActionPriorityLow, ActionPriorityLow, ActionPriorityMedium},
	},
	BandMedium: {
		BandLow:    {ActionPriorityLow, ActionPriorityLow, ActionPriorityLow},
		BandMedium: {ActionPriorityLow, ActionPriorityMedium, ActionPriorityMedium},
		BandHigh:   {ActionPriorityMedium, ActionPriorityMedium, ActionPriorityHigh},
	},
	BandHigh: {
		BandLow:    {ActionPriorityLow, ActionPriorityMedium, ActionPriorityMedium},
		BandMedium: {ActionPriorityMedium, ActionPriorityHigh, ActionPriorityHigh},
		BandHigh:   {ActionPriorityHigh, ActionPriorityHigh, ActionPriorityHigh},
	},
}

// MatrixActionPriority 按三段矩阵给出措施优先级
// 与 ActionPriorityFor 并非在所有输入上一致，以分级规则为准
func MatrixActionPriority(severity, occurrence, detection int) ActionPriority {
	return apMatrix[BandOf(severity)][BandOf(occurrence)][BandOf(detection)]
}

// RatingTriple 一组 S/O/D 评分
type RatingTriple struct {
	Severity   int `json:"severity"`
	Occurrence int `json:"occurrence"`
	Detection  int `json:"detection"`
}

// APDisagreement 两种编码结果不一致的样本
type APDisagreement struct {
	Ratings RatingTriple   `json:"ratings"`
	Tiered  ActionPriority `json:"tiered"`
	Matrix  ActionPriority `json:"matrix"`
}

// CompareActionPriority 在样本上对比分级规则与三段矩阵
func CompareActionPriority(sample []RatingTriple) []APDisagreement {
	var diffs []APDisagreement
	for _, r := range sample {
		tiered := ActionPriorityFor(r.Severity, r.Occurrence, r.Detection)
		matrix := MatrixActionPriority(r.Severity, r.Occurrence, r.Detection)
		if tiered != matrix {
			diffs = append(diffs, APDisagreement{Ratings: r, Tiered: tiered, Matrix: matrix})
		}
	}
	return diffs
}

// RatingCube 返回 [1,10]^3 全部评分组合，按 S、O、D 升序
func RatingCube() []RatingTriple {
	cube := make([]RatingTriple, 0, MaxRPN)
	for s := MinRating; s <= MaxRating; s++ {
		for o := MinRating; o <= MaxRating; o++ {
			for d := MinRating; d <= MaxRating; d++ {
				cube = append(cube, RatingTriple{Severity: s, Occurrence: o, Detection: d})
			}
		}
	}
	return cube
}
