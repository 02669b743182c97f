package business

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qms/qcsync/internal/model"
	"qms/qcsync/pkg/quality"
)

func TestCompositeHandler_Analyze(t *testing.T) {
	h := NewCompositeHandler()

	t.Run("fmea only", func(t *testing.T) {
		data, err := h.Analyze(context.Background(), &AnalysisRequest{
			ActionType: model.ActionTypeFMEAAssess,
			FMEA:       sampleFMEA(),
		})
		require.NoError(t, err)
		require.Len(t, data.Items, 1)
		assert.Equal(t, model.AnalysisTypeFMEA, data.Items[0].Type)
		assert.Equal(t, model.AnalysisStatusSuccess, data.Items[0].Status)
		assert.False(t, data.Failed())

		var result model.FMEAResult
		require.NoError(t, json.Unmarshal(data.Items[0].DataJSON, &result))
		assert.Equal(t, 4, result.Summary.Total)
	})

	t.Run("both payloads", func(t *testing.T) {
		data, err := h.Analyze(context.Background(), &AnalysisRequest{
			FMEA: sampleFMEA(),
			SPC:  sampleSPC(),
		})
		require.NoError(t, err)
		require.Len(t, data.Items, 2)
		assert.Equal(t, model.AnalysisTypeSPC, data.Items[1].Type)
	})

	t.Run("failed item keeps others", func(t *testing.T) {
		spc := sampleSPC()
		spc.Measurements = []float64{1}

		data, err := h.Analyze(context.Background(), &AnalysisRequest{
			FMEA: sampleFMEA(),
			SPC:  spc,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, quality.ErrInsufficientData))
		require.Len(t, data.Items, 2)
		assert.Equal(t, model.AnalysisStatusSuccess, data.Items[0].Status)
		assert.Equal(t, model.AnalysisStatusFailed, data.Items[1].Status)
		assert.NotEmpty(t, data.Items[1].Error)
		assert.Nil(t, data.Items[1].DataJSON)
		assert.True(t, data.Failed())
	})

	t.Run("no payload", func(t *testing.T) {
		data, err := h.Analyze(context.Background(), &AnalysisRequest{ActionType: "unknown"})
		require.Error(t, err)
		assert.Nil(t, data)
	})
}
