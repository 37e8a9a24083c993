// Package compliance turns predicted structural response into
// deterministic pass/fail verdicts against code thresholds.
package compliance

import (
	"fmt"

	"Raftex/internal/predict"
)

// PunchingShearLimit is the demand/capacity ratio above which (and at
// which) the punching criterion fails.
const PunchingShearLimit = 1.0

// Thresholds are the externally supplied compliance limits. Bearing
// capacity is a geotechnical input, never a model output.
type Thresholds struct {
	AllowableSettlementMM float64 `json:"allowable_settlement_mm"`
	BearingCapacityKPa    float64 `json:"bearing_capacity_kpa"`
}

// CriterionResult is one criterion's verdict with the numbers behind it.
type CriterionResult struct {
	Criterion string  `json:"criterion"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Pass      bool    `json:"pass"`
	Reason    string  `json:"reason,omitempty"`
}

// Verdict is the complete compliance picture. All three criteria are
// always present; Pass is their conjunction.
type Verdict struct {
	Settlement      CriterionResult `json:"settlement"`
	PunchingShear   CriterionResult `json:"punching_shear"`
	BearingPressure CriterionResult `json:"bearing_pressure"`
	Pass            bool            `json:"pass"`
}

// Evaluate applies strict-less-than thresholds to the predicted response.
// A value exactly at its threshold fails. Every criterion is evaluated
// even after one has failed; the designer needs the full picture.
func Evaluate(s predict.StructuralOutputs, t Thresholds) Verdict {
	v := Verdict{
		Settlement: criterion("settlement", s.SettlementMM, t.AllowableSettlementMM,
			"settlement %.1f mm reaches allowable %.1f mm"),
		PunchingShear: criterion("punching shear", s.PunchingShearRatio, PunchingShearLimit,
			"punching shear ratio %.3f reaches the limit of %.3f"),
		BearingPressure: criterion("bearing pressure", s.BearingPressureKPa, t.BearingCapacityKPa,
			"bearing pressure %.1f kPa reaches capacity %.1f kPa"),
	}
	v.Pass = v.Settlement.Pass && v.PunchingShear.Pass && v.BearingPressure.Pass
	return v
}

func criterion(name string, value, threshold float64, failFormat string) CriterionResult {
	r := CriterionResult{
		Criterion: name,
		Value:     value,
		Threshold: threshold,
		Pass:      value < threshold,
	}
	if !r.Pass {
		r.Reason = fmt.Sprintf(failFormat, value, threshold)
	}
	return r
}
