package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Raftex/internal/ensemble"
)

// responseModel returns an extra-trees ensemble predicting a fixed
// structural response.
func responseModel(t *testing.T, settlement, shearRatio, pressure float64) *ensemble.Model {
	t.Helper()
	values := []float64{settlement, shearRatio, pressure}
	trees := make([]ensemble.Tree, 0, len(values))
	for i, v := range values {
		trees = append(trees, ensemble.Tree{
			Target: i,
			Nodes:  []ensemble.Node{{Feature: -1, Value: v}},
		})
	}
	return &ensemble.Model{
		Name:      "structural",
		Family:    ensemble.FamilyExtraTrees,
		Features:  []string{"load_per_column", "raft_load_ratio", "column_density", "strength_to_load"},
		Targets:   []string{"settlement", "punching_shear_ratio", "bearing_pressure"},
		BaseScore: []float64{0, 0, 0},
		Trees:     trees,
	}
}

func TestStructuralPredict(t *testing.T) {
	p, err := NewStructuralPredictor(responseModel(t, 32.5, 0.84, 155))
	require.NoError(t, err)

	params := testParams(16, 20, 25)
	out, err := p.Predict(mustFeatures(t, params))
	require.NoError(t, err)

	assert.InDelta(t, 32.5, out.SettlementMM, 1e-9)
	assert.InDelta(t, 0.84, out.PunchingShearRatio, 1e-9)
	assert.InDelta(t, 155, out.BearingPressureKPa, 1e-9)
	assert.Empty(t, out.Warnings)
}

func TestStructuralNegativeOutputsClamped(t *testing.T) {
	p, err := NewStructuralPredictor(responseModel(t, -3, 0.5, -20))
	require.NoError(t, err)

	params := testParams(16, 20, 25)
	out, err := p.Predict(mustFeatures(t, params))
	require.NoError(t, err)

	assert.Zero(t, out.SettlementMM)
	assert.InDelta(t, 0.5, out.PunchingShearRatio, 1e-9)
	assert.Zero(t, out.BearingPressureKPa)
	require.Len(t, out.Warnings, 2)
	assert.Contains(t, out.Warnings[0], "settlement")
	assert.Contains(t, out.Warnings[1], "bearing pressure")
}

func TestNewStructuralPredictorRejectsWrongTargets(t *testing.T) {
	m := &ensemble.Model{
		Name:      "bad",
		Family:    ensemble.FamilyExtraTrees,
		Features:  []string{"a", "b", "c", "d"},
		Targets:   []string{"settlement", "extra"},
		BaseScore: []float64{0, 0},
	}
	_, err := NewStructuralPredictor(m)
	require.ErrorIs(t, err, ensemble.ErrModelMismatch)
}
