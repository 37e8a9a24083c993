package raft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() RawParameters {
	return RawParameters{
		ColumnCount:         16,
		RaftAreaM2:          400,
		ColumnAreaM2:        0.36,
		ConcreteStrengthMPa: 30,
		UnitWeightKNM3:      24,
		SubgradeModulusKNM3: 20000,
		MaxAxialLoadKN:      1200,
		TotalAxialLoadKN:    15000,
		ThicknessMM:         900,
		BarDiametersMM:      []float64{16, 20, 25, 32},
	}
}

func TestDerive(t *testing.T) {
	fv, err := Derive(validParams())
	require.NoError(t, err)

	assert.InDelta(t, 937.5, fv.LoadPerColumnKN, 1e-9)
	assert.InDelta(t, 37.5, fv.RaftLoadRatioKNM2, 1e-9)
	assert.InDelta(t, 0.0144, fv.ColumnDensity, 1e-9)
	assert.InDelta(t, 0.8, fv.StrengthToLoadRatio, 1e-9)
}

func TestDeriveValuesOrder(t *testing.T) {
	fv := FeatureVector{
		LoadPerColumnKN:     1,
		RaftLoadRatioKNM2:   2,
		ColumnDensity:       3,
		StrengthToLoadRatio: 4,
	}
	vals := fv.Values()
	require.Len(t, vals, NumFeatures)
	assert.Equal(t, []float64{1, 2, 3, 4}, vals)
}

func TestDeriveInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawParameters)
	}{
		{"zero raft area", func(p *RawParameters) { p.RaftAreaM2 = 0 }},
		{"negative raft area", func(p *RawParameters) { p.RaftAreaM2 = -10 }},
		{"zero column count", func(p *RawParameters) { p.ColumnCount = 0 }},
		{"zero column area", func(p *RawParameters) { p.ColumnAreaM2 = 0 }},
		{"zero strength", func(p *RawParameters) { p.ConcreteStrengthMPa = 0 }},
		{"zero unit weight", func(p *RawParameters) { p.UnitWeightKNM3 = 0 }},
		{"zero subgrade modulus", func(p *RawParameters) { p.SubgradeModulusKNM3 = 0 }},
		{"zero max load", func(p *RawParameters) { p.MaxAxialLoadKN = 0 }},
		{"total below max load", func(p *RawParameters) { p.TotalAxialLoadKN = p.MaxAxialLoadKN - 1 }},
		{"zero thickness", func(p *RawParameters) { p.ThicknessMM = 0 }},
		{"no bar diameters", func(p *RawParameters) { p.BarDiametersMM = nil }},
		{"negative bar diameter", func(p *RawParameters) { p.BarDiametersMM = []float64{16, -20} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := Derive(p)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// A single column can never carry more than the building total, whatever
// the other fields say.
func TestTotalBelowMaxAlwaysInvalid(t *testing.T) {
	variants := []RawParameters{validParams(), validParams(), validParams()}
	variants[1].RaftAreaM2 = 12.5
	variants[1].ColumnCount = 2
	variants[2].ConcreteStrengthMPa = 55
	variants[2].ThicknessMM = 300

	for _, p := range variants {
		p.TotalAxialLoadKN = p.MaxAxialLoadKN * 0.5
		_, err := Derive(p)
		require.ErrorIs(t, err, ErrInvalidInput)
	}
}
