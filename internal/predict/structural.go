package predict

import (
	"fmt"

	"Raftex/internal/ensemble"
	"Raftex/internal/raft"
)

// structural model target order, fixed at training time
const (
	targetSettlement = iota
	targetPunchingShear
	targetBearingPressure
	numStructuralTargets
)

// StructuralOutputs is the predicted structural response of the raft.
type StructuralOutputs struct {
	SettlementMM       float64  `json:"settlement_mm"`
	PunchingShearRatio float64  `json:"punching_shear_ratio"`
	BearingPressureKPa float64  `json:"bearing_pressure_kpa"`
	Warnings           []string `json:"warnings,omitempty"`
}

// StructuralPredictor wraps the extra-trees response model. Immutable
// after construction.
type StructuralPredictor struct {
	model *ensemble.Model
}

// NewStructuralPredictor validates the artifact's output shape once, at
// startup.
func NewStructuralPredictor(m *ensemble.Model) (*StructuralPredictor, error) {
	if len(m.Targets) != numStructuralTargets {
		return nil, fmt.Errorf("%w: structural model %q has %d targets, want %d",
			ensemble.ErrModelMismatch, m.Name, len(m.Targets), numStructuralTargets)
	}
	return &StructuralPredictor{model: m}, nil
}

// Predict runs the response model. Settlement, punching-shear ratio and
// bearing pressure are all physically non-negative; a negative raw
// output is a modelling artifact, clamped to zero and reported.
func (p *StructuralPredictor) Predict(fv raft.FeatureVector) (StructuralOutputs, error) {
	vals, err := p.model.Predict(fv.Values())
	if err != nil {
		return StructuralOutputs{}, err
	}

	var out StructuralOutputs
	names := [numStructuralTargets]string{"settlement", "punching shear ratio", "bearing pressure"}
	for i, raw := range vals {
		if raw < 0 {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("predicted %s %.3f is negative, clamped to 0 (low confidence)", names[i], raw))
			vals[i] = 0
		}
	}
	out.SettlementMM = vals[targetSettlement]
	out.PunchingShearRatio = vals[targetPunchingShear]
	out.BearingPressureKPa = vals[targetBearingPressure]
	return out, nil
}
