package raft

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks raft parameters that violate a physical invariant.
// Handlers match it with errors.Is to answer 422 instead of 500.
var ErrInvalidInput = errors.New("invalid raft parameters")

// RawParameters is the flat input record supplied by the geometry/material
// extraction side. Units are fixed; no conversion happens here.
type RawParameters struct {
	ColumnCount         int       `json:"column_count"`
	RaftAreaM2          float64   `json:"raft_area_m2"`
	ColumnAreaM2        float64   `json:"column_area_m2"`
	ConcreteStrengthMPa float64   `json:"concrete_strength_mpa"`
	UnitWeightKNM3      float64   `json:"unit_weight_kn_m3"`
	SubgradeModulusKNM3 float64   `json:"subgrade_modulus_kn_m3"`
	MaxAxialLoadKN      float64   `json:"max_axial_load_kn"`
	TotalAxialLoadKN    float64   `json:"total_axial_load_kn"`
	ThicknessMM         float64   `json:"thickness_mm"`
	BarDiametersMM      []float64 `json:"bar_diameters_mm"`
}

// Validate checks the physical invariants before any feature work.
func (p RawParameters) Validate() error {
	if p.ColumnCount <= 0 {
		return fmt.Errorf("%w: column count must be positive, got %d", ErrInvalidInput, p.ColumnCount)
	}
	if p.RaftAreaM2 <= 0 {
		return fmt.Errorf("%w: raft area must be positive, got %.3f m2", ErrInvalidInput, p.RaftAreaM2)
	}
	if p.ColumnAreaM2 <= 0 {
		return fmt.Errorf("%w: column area must be positive, got %.3f m2", ErrInvalidInput, p.ColumnAreaM2)
	}
	if p.ConcreteStrengthMPa <= 0 {
		return fmt.Errorf("%w: concrete strength must be positive, got %.2f MPa", ErrInvalidInput, p.ConcreteStrengthMPa)
	}
	if p.UnitWeightKNM3 <= 0 {
		return fmt.Errorf("%w: unit weight must be positive, got %.2f kN/m3", ErrInvalidInput, p.UnitWeightKNM3)
	}
	if p.SubgradeModulusKNM3 <= 0 {
		return fmt.Errorf("%w: subgrade modulus must be positive, got %.2f", ErrInvalidInput, p.SubgradeModulusKNM3)
	}
	if p.MaxAxialLoadKN <= 0 {
		return fmt.Errorf("%w: max axial load must be positive, got %.2f kN", ErrInvalidInput, p.MaxAxialLoadKN)
	}
	if p.TotalAxialLoadKN < p.MaxAxialLoadKN {
		return fmt.Errorf("%w: total axial load %.2f kN is less than max axial load %.2f kN",
			ErrInvalidInput, p.TotalAxialLoadKN, p.MaxAxialLoadKN)
	}
	if p.ThicknessMM <= 0 {
		return fmt.Errorf("%w: raft thickness must be positive, got %.1f mm", ErrInvalidInput, p.ThicknessMM)
	}
	if len(p.BarDiametersMM) == 0 {
		return fmt.Errorf("%w: at least one candidate bar diameter required", ErrInvalidInput)
	}
	for _, d := range p.BarDiametersMM {
		if d <= 0 {
			return fmt.Errorf("%w: bar diameter must be positive, got %.1f mm", ErrInvalidInput, d)
		}
	}
	return nil
}
