// Package predict wraps the pretrained regression ensembles behind the
// raft-domain contracts: reinforcement design and structural response.
package predict

import (
	"errors"
	"fmt"
	"math"

	"Raftex/internal/ensemble"
	"Raftex/internal/raft"
)

// ErrNoFeasibleReinforcement means no candidate bar diameter yields a
// spacing inside the constructible range. A design result for the
// engineer, not a crash: increase thickness or reduce load and retry.
var ErrNoFeasibleReinforcement = errors.New("no feasible reinforcement layout")

// reinforcement model target order, fixed at training time
const (
	targetBottomX = iota
	targetBottomY
	targetTopX
	targetTopY
	numReinforcementTargets
)

// SpacingConfig bounds the constructible bar spacing. All values in mm.
type SpacingConfig struct {
	IncrementMM  float64
	MinSpacingMM float64
	MaxSpacingMM float64
}

// DefaultSpacingConfig matches common flat-slab detailing practice.
func DefaultSpacingConfig() SpacingConfig {
	return SpacingConfig{IncrementMM: 25, MinSpacingMM: 75, MaxSpacingMM: 300}
}

// DirectionDesign is the reinforcement layout for one face and direction.
type DirectionDesign struct {
	AreaMM2PerM   float64 `json:"area_mm2_per_m"`
	BarDiameterMM float64 `json:"bar_diameter_mm"`
	SpacingMM     float64 `json:"spacing_mm"`
	BarCount      int     `json:"bar_count"`
}

// ReinforcementOutputs is the full predicted reinforcement design.
type ReinforcementOutputs struct {
	BottomX  DirectionDesign `json:"bottom_x"`
	BottomY  DirectionDesign `json:"bottom_y"`
	TopX     DirectionDesign `json:"top_x"`
	TopY     DirectionDesign `json:"top_y"`
	Warnings []string        `json:"warnings,omitempty"`
}

// ReinforcementPredictor derives a buildable bar layout from the
// gradient-boosted area model. Immutable after construction.
type ReinforcementPredictor struct {
	model *ensemble.Model
	cfg   SpacingConfig
}

// NewReinforcementPredictor validates the artifact's output shape once,
// at startup.
func NewReinforcementPredictor(m *ensemble.Model, cfg SpacingConfig) (*ReinforcementPredictor, error) {
	if len(m.Targets) != numReinforcementTargets {
		return nil, fmt.Errorf("%w: reinforcement model %q has %d targets, want %d",
			ensemble.ErrModelMismatch, m.Name, len(m.Targets), numReinforcementTargets)
	}
	if cfg.IncrementMM <= 0 || cfg.MinSpacingMM <= 0 || cfg.MaxSpacingMM < cfg.MinSpacingMM {
		return nil, fmt.Errorf("invalid spacing config: %+v", cfg)
	}
	return &ReinforcementPredictor{model: m, cfg: cfg}, nil
}

// Predict runs the area model and derives spacing and bar counts per
// direction and face. Negative predicted areas are clamped to zero and
// reported as warnings.
func (p *ReinforcementPredictor) Predict(fv raft.FeatureVector, params raft.RawParameters) (ReinforcementOutputs, error) {
	areas, err := p.model.Predict(fv.Values())
	if err != nil {
		return ReinforcementOutputs{}, err
	}

	var out ReinforcementOutputs
	names := [numReinforcementTargets]string{
		targetBottomX: "bottom X",
		targetBottomY: "bottom Y",
		targetTopX:    "top X",
		targetTopY:    "top Y",
	}
	designs := [numReinforcementTargets]*DirectionDesign{
		targetBottomX: &out.BottomX,
		targetBottomY: &out.BottomY,
		targetTopX:    &out.TopX,
		targetTopY:    &out.TopY,
	}

	// the input carries only area, no aspect ratio; bar runs are taken
	// across a square raft of the same footprint
	widthMM := math.Sqrt(params.RaftAreaM2) * 1000

	for i, raw := range areas {
		area := raw
		if area < 0 {
			area = 0
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("predicted %s reinforcement area %.1f mm2/m is negative, clamped to 0 (low confidence)", names[i], raw))
		}
		d, err := p.layout(area, widthMM, params.BarDiametersMM)
		if err != nil {
			return ReinforcementOutputs{}, fmt.Errorf("%s direction: %w", names[i], err)
		}
		d.AreaMM2PerM = area
		*designs[i] = d
	}
	return out, nil
}

// layout picks the smallest candidate diameter whose derived spacing is
// constructible, then counts bars across the raft width.
func (p *ReinforcementPredictor) layout(areaMM2PerM, widthMM float64, diametersMM []float64) (DirectionDesign, error) {
	for _, dia := range diametersMM {
		spacing, ok := p.spacingFor(areaMM2PerM, dia)
		if !ok {
			continue
		}
		count := int(math.Ceil(widthMM/spacing)) + 1
		if count < 2 {
			count = 2
		}
		return DirectionDesign{BarDiameterMM: dia, SpacingMM: spacing, BarCount: count}, nil
	}
	return DirectionDesign{}, fmt.Errorf("%w: area %.1f mm2/m, candidates %v mm",
		ErrNoFeasibleReinforcement, areaMM2PerM, diametersMM)
}

// spacingFor converts a required area per metre into a bar spacing for
// one diameter. Rounding is always downward so the built layout never
// carries less steel than predicted.
func (p *ReinforcementPredictor) spacingFor(areaMM2PerM, diameterMM float64) (float64, bool) {
	barArea := math.Pi * diameterMM * diameterMM / 4.0

	exact := p.cfg.MaxSpacingMM
	if areaMM2PerM > 0 {
		exact = math.Min(barArea*1000.0/areaMM2PerM, p.cfg.MaxSpacingMM)
	}
	spacing := math.Floor(exact/p.cfg.IncrementMM) * p.cfg.IncrementMM
	if spacing < p.cfg.MinSpacingMM || spacing > p.cfg.MaxSpacingMM {
		return 0, false
	}
	return spacing, true
}
