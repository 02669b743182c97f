package business

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qms/qcsync/internal/model"
	"qms/qcsync/pkg/errorutil"
	"qms/qcsync/pkg/quality"
)

const delta = 1e-9

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func sampleSPC() *model.SPCAnalyzeData {
	return &model.SPCAnalyzeData{
		AnalysisID:   "spc-001",
		Measurements: []float64{10, 12, 11, 13, 9, 10, 12, 11},
		SubgroupSize: 1,
		LowerSpec:    f64(5),
		UpperSpec:    f64(17),
	}
}

func TestSPCAnalyzer_Analyze(t *testing.T) {
	result, err := NewSPCAnalyzer().Analyze(context.Background(), sampleSPC())
	require.NoError(t, err)

	s := math.Sqrt(12.0 / 7.0)
	sigma := (13.0 / 7.0) / quality.MovingRangeD2

	assert.Equal(t, "spc-001", result.AnalysisID)
	assert.Equal(t, 8, result.SampleSize)
	assert.InDelta(t, 11.0, result.Mean, delta)
	assert.InDelta(t, s, result.StdDev, delta)

	assert.InDelta(t, 11.0, result.Limits.Centerline, delta)
	assert.InDelta(t, 11.0+3*sigma, result.Limits.UCL, delta)
	assert.InDelta(t, 11.0-3*sigma, result.Limits.LCL, delta)
	assert.Empty(t, result.OutOfControl)

	require.NotNil(t, result.Capability)
	assert.InDelta(t, 2/s, result.Capability.Cp, delta)
	assert.InDelta(t, 2/s, result.Capability.Cpk, delta)
	assert.InDelta(t, 2/s, result.Capability.Pp, delta)
	assert.InDelta(t, 2/s, result.Capability.Ppk, delta)
	assert.Equal(t, model.CapabilityCapable, result.Capability.Grade)

	assert.Nil(t, result.Sigma)

	margin := 2.365 * s / math.Sqrt(8)
	assert.Equal(t, quality.DefaultConfidenceLevel, result.Level)
	assert.InDelta(t, 11.0-margin, result.Confidence.Lower, delta)
	assert.InDelta(t, 11.0+margin, result.Confidence.Upper, delta)
}

func TestSPCAnalyzer_ShortTermStdDev(t *testing.T) {
	input := sampleSPC()
	input.StdDev = f64(2.5)

	result, err := NewSPCAnalyzer().Analyze(context.Background(), input)
	require.NoError(t, err)

	s := math.Sqrt(12.0 / 7.0)
	assert.InDelta(t, 0.8, result.Capability.Cp, delta)
	assert.InDelta(t, 0.8, result.Capability.Cpk, delta)
	assert.InDelta(t, 2/s, result.Capability.Pp, delta)
	assert.Equal(t, model.CapabilityIncapable, result.Capability.Grade)
}

func TestSPCAnalyzer_OutOfControl(t *testing.T) {
	input := &model.SPCAnalyzeData{
		AnalysisID:   "spc-002",
		Measurements: []float64{10, 10, 10, 10, 10, 10, 10, 30},
	}

	result, err := NewSPCAnalyzer().Analyze(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, result.OutOfControl)
	assert.Nil(t, result.Capability)
}

func TestSPCAnalyzer_Sigma(t *testing.T) {
	input := sampleSPC()
	input.Defects = intp(5)
	input.Units = intp(100)
	input.Opportunities = intp(10)
	input.ConfidenceLevel = 0.99

	result, err := NewSPCAnalyzer().Analyze(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, result.Sigma)
	assert.InDelta(t, 5000.0, result.Sigma.DPMO, delta)
	assert.Equal(t, 3.5, result.Sigma.Level)
	assert.Equal(t, 0.99, result.Level)
}

func TestSPCAnalyzer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *model.SPCAnalyzeData)
		wantErr error
	}{
		{"single point", func(in *model.SPCAnalyzeData) { in.Measurements = []float64{1} }, quality.ErrInsufficientData},
		{"constant data with spec limits", func(in *model.SPCAnalyzeData) { in.Measurements = []float64{3, 3, 3} }, quality.ErrDivisionByZero},
		{"inexact constant data", func(in *model.SPCAnalyzeData) { in.Measurements = []float64{0.1, 0.1, 0.1} }, quality.ErrDivisionByZero},
		{"zero short-term stddev", func(in *model.SPCAnalyzeData) { in.StdDev = f64(0) }, quality.ErrDivisionByZero},
		{"zero units", func(in *model.SPCAnalyzeData) {
			in.Defects, in.Units, in.Opportunities = intp(1), intp(0), intp(5)
		}, quality.ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := sampleSPC()
			tt.mutate(input)
			_, err := NewSPCAnalyzer().Analyze(context.Background(), input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestSPCAnalyzer_InvertedSpec(t *testing.T) {
	input := sampleSPC()
	input.LowerSpec, input.UpperSpec = f64(17), f64(5)

	_, err := NewSPCAnalyzer().Analyze(context.Background(), input)
	require.Error(t, err)
	e := errorutil.Wrap(err)
	assert.Equal(t, 400, e.Code)
	assert.False(t, e.Retryable)
}

func TestCapabilityGrade(t *testing.T) {
	tests := []struct {
		cpk  float64
		want string
	}{
		{2.0, model.CapabilityCapable},
		{1.33, model.CapabilityCapable},
		{1.329, model.CapabilityMarginal},
		{1.0, model.CapabilityMarginal},
		{0.99, model.CapabilityIncapable},
		{-0.5, model.CapabilityIncapable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CapabilityGrade(tt.cpk), "cpk=%v", tt.cpk)
	}
}
