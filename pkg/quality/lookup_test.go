package quality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigmaLevel(t *testing.T) {
	tests := []struct {
		dpm  float64
		want float64
	}{
		{-5, 6},
		{0, 6},
		{1, 6},
		{3.4, 6},
		{3.5, 5},
		{32, 5},
		{100, 4.5},
		{1350, 4},
		{6210, 3.5},
		{7000, 3},
		{22750, 3},
		{22751, 2.5},
		{158655, 2},
		{400000, 1},
		{500000, 1},
		{500001, 0},
		{999999, 0},
		{1_000_000, 0},
		{5_000_000, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SigmaLevel(tt.dpm), "dpm=%v", tt.dpm)
	}
}

func TestSigmaLevel_MonotoneNonIncreasing(t *testing.T) {
	prev := SigmaLevel(0)
	for dpm := 1.0; dpm <= DefectsPerMillion; dpm *= 1.5 {
		cur := SigmaLevel(dpm)
		require.LessOrEqual(t, cur, prev, "dpm=%v", dpm)
		prev = cur
	}
}

func TestDPMO(t *testing.T) {
	dpmo, err := DPMO(7, 1000, 1)
	require.NoError(t, err)
	assert.InDelta(t, 7000.0, dpmo, tolerance)
	assert.Equal(t, 3.0, SigmaLevel(dpmo))

	_, err = DPMO(1, 0, 5)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = DPMO(-1, 10, 5)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCriticalValue(t *testing.T) {
	tests := []struct {
		name  string
		level float64
		df    int
		want  float64
	}{
		{"exact key 95", 0.95, 30, 2.042},
		{"exact key 99", 0.99, 10, 3.169},
		{"next larger key", 0.95, 11, 2.179},
		{"next larger key 99", 0.99, 16, 2.845},
		{"df zero uses first key", 0.95, 0, 12.706},
		{"beyond largest key", 0.95, 31, FallbackCriticalValue},
		{"unsupported level", 0.90, 5, FallbackCriticalValue},
		{"level rounds to 95", 0.9504, 5, 2.571},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CriticalValue(tt.level, tt.df))
		})
	}
}

func TestEstimateConfidenceInterval(t *testing.T) {
	// df = 30 命中表中键，必须用 2.042 而不是 1.96
	ci := EstimateConfidenceInterval(100, 5, 31, 0.95)
	margin := 2.042 * 5 / math.Sqrt(31)
	assert.InDelta(t, 100-margin, ci.Lower, tolerance)
	assert.InDelta(t, 100+margin, ci.Upper, tolerance)

	ci = EstimateConfidenceInterval(100, 5, 100, 0.95)
	margin = FallbackCriticalValue * 5 / 10
	assert.InDelta(t, 100-margin, ci.Lower, tolerance)
	assert.InDelta(t, 100+margin, ci.Upper, tolerance)

	ci = EstimateConfidenceInterval(50, 2, 0, DefaultConfidenceLevel)
	assert.InDelta(t, 50-12.706*2, ci.Lower, tolerance)
	assert.InDelta(t, 50+12.706*2, ci.Upper, tolerance)
}

func TestEngine_Idempotent(t *testing.T) {
	data := []float64{10.2, 9.8, 10.1, 10.4, 9.7, 10.0}

	l1, err1 := CalculateControlLimits(data, 1)
	l2, err2 := CalculateControlLimits(data, 1)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, math.Float64bits(l1.UCL), math.Float64bits(l2.UCL))
	assert.Equal(t, math.Float64bits(l1.LCL), math.Float64bits(l2.LCL))

	p1, _ := Ppk(data, 9, 11)
	p2, _ := Ppk(data, 9, 11)
	assert.Equal(t, math.Float64bits(p1), math.Float64bits(p2))

	assert.Equal(t, SigmaLevel(1234), SigmaLevel(1234))
	assert.Equal(t,
		EstimateConfidenceInterval(10, 1, 7, 0.99),
		EstimateConfidenceInterval(10, 1, 7, 0.99))
}
