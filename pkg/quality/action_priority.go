package quality

// ActionPriority AIAG-VDA 措施优先级
type ActionPriority string

const (
	ActionPriorityHigh   ActionPriority = "H"
	ActionPriorityMedium ActionPriority = "M"
	ActionPriorityLow    ActionPriority = "L"
)

// apTable 按分级规则预先计算的 10x10x10 查表，下标为 评分-1
var apTable = buildActionPriorityTable()

func buildActionPriorityTable() [MaxRating][MaxRating][MaxRating]ActionPriority {
	var t [MaxRating][MaxRating][MaxRating]ActionPriority
	for s := MinRating; s <= MaxRating; s++ {
		for o := MinRating; o <= MaxRating; o++ {
			for d := MinRating; d <= MaxRating; d++ {
				t[s-1][o-1][d-1] = ActionPriorityFor(s, o, d)
			}
		}
	}
	return t
}

// ActionPriorityFor 分级规则（按顺序匹配，首个命中的层级生效）
// 对任意整数输入都有结果，不做越界校验
func ActionPriorityFor(severity, occurrence, detection int) ActionPriority {
	o, d := occurrence, detection

	switch {
	case severity >= 9:
		if (o >= 7 || d >= 7) || (o >= 4 || d >= 4) {
			return ActionPriorityHigh
		}
		return ActionPriorityMedium

	case severity >= 7:
		if (o >= 7 && d >= 7) || (o >= 4 && d >= 7) || (o >= 7 && d >= 4) {
			return ActionPriorityHigh
		}
		if o >= 4 && d >= 4 {
			return ActionPriorityMedium
		}
		return ActionPriorityLow

	case severity >= 4:
		if o >= 7 && d >= 7 {
			return ActionPriorityHigh
		}
		if (o >= 4 && d >= 7) || (o >= 7 && d >= 4) {
			return ActionPriorityMedium
		}
		return ActionPriorityLow

	default:
		if o >= 7 && d >= 7 {
			return ActionPriorityMedium
		}
		return ActionPriorityLow
	}
}

// CheckedActionPriority 校验评分后查表
func CheckedActionPriority(severity, occurrence, detection int) (ActionPriority, error) {
	if err := checkRatings(severity, occurrence, detection); err != nil {
		return "", err
	}
	return apTable[severity-1][occurrence-1][detection-1], nil
}
