package quality

import "math"

// 评分范围（严重度 / 频度 / 探测度）
const (
	MinRating = 1
	MaxRating = 10
)

// ValidateRating 判断评分是否落在 [min, max] 闭区间
func ValidateRating(value, min, max int) bool {
	return value >= min && value <= max
}

// IsValidRating 使用默认区间 [1, 10] 校验
func IsValidRating(value int) bool {
	return ValidateRating(value, MinRating, MaxRating)
}

// RatingFromFloat 将外部传入的数值（JSON number）转换为评分
// 非整数、NaN、越界均返回 *RatingError
func RatingFromFloat(field string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, &RatingError{Field: field, Value: v}
	}
	if v < MinRating || v > MaxRating {
		return 0, &RatingError{Field: field, Value: v}
	}
	return int(v), nil
}

func checkRatings(severity, occurrence, detection int) error {
	for _, r := range []struct {
		field string
		value int
	}{
		{"severity", severity},
		{"occurrence", occurrence},
		{"detection", detection},
	} {
		if !IsValidRating(r.value) {
			return &RatingError{Field: r.field, Value: float64(r.value)}
		}
	}
	return nil
}
