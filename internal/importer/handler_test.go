package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRaftRow(t *testing.T) {
	row := []string{"16", "400", "0.36", "30", "24", "20000", "1200", "15000", "900", "16;20;25"}
	p, err := parseRaftRow(row)
	require.NoError(t, err)

	assert.Equal(t, 16, p.ColumnCount)
	assert.InDelta(t, 400, p.RaftAreaM2, 1e-9)
	assert.InDelta(t, 0.36, p.ColumnAreaM2, 1e-9)
	assert.InDelta(t, 30, p.ConcreteStrengthMPa, 1e-9)
	assert.InDelta(t, 24, p.UnitWeightKNM3, 1e-9)
	assert.InDelta(t, 20000, p.SubgradeModulusKNM3, 1e-9)
	assert.InDelta(t, 1200, p.MaxAxialLoadKN, 1e-9)
	assert.InDelta(t, 15000, p.TotalAxialLoadKN, 1e-9)
	assert.InDelta(t, 900, p.ThicknessMM, 1e-9)
	assert.Equal(t, []float64{16, 20, 25}, p.BarDiametersMM)
	require.NoError(t, p.Validate())
}

func TestParseRaftRowRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"too short", []string{"16", "400"}},
		{"non-numeric", []string{"16", "abc", "0.36", "30", "24", "20000", "1200", "15000", "900", "16"}},
		{"empty diameters", []string{"16", "400", "0.36", "30", "24", "20000", "1200", "15000", "900", ";"}},
		{"bad diameter", []string{"16", "400", "0.36", "30", "24", "20000", "1200", "15000", "900", "16;x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRaftRow(tt.row)
			require.Error(t, err)
		})
	}
}
