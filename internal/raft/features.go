package raft

import "fmt"

// NumFeatures is the fixed dimensionality of the feature vector. Model
// artifacts must declare exactly this many input features.
const NumFeatures = 4

// FeatureVector holds the derived features both predictors consume.
// The ordering of Values is a contract with the trained models; do not
// reorder fields without retraining.
type FeatureVector struct {
	LoadPerColumnKN     float64 `json:"load_per_column_kn"`
	RaftLoadRatioKNM2   float64 `json:"raft_load_ratio_kn_m2"`
	ColumnDensity       float64 `json:"column_density"`
	StrengthToLoadRatio float64 `json:"strength_to_load_ratio"`
}

// Values returns the features in model input order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		f.LoadPerColumnKN,
		f.RaftLoadRatioKNM2,
		f.ColumnDensity,
		f.StrengthToLoadRatio,
	}
}

// Derive computes the feature vector from validated raw parameters.
// Pure function; every denominator is guarded so inference never sees
// an Inf or NaN feature.
func Derive(p RawParameters) (FeatureVector, error) {
	if err := p.Validate(); err != nil {
		return FeatureVector{}, err
	}

	raftLoadRatio := p.TotalAxialLoadKN / p.RaftAreaM2
	if raftLoadRatio == 0 {
		return FeatureVector{}, fmt.Errorf("%w: zero raft load ratio, cannot derive strength-to-load ratio", ErrInvalidInput)
	}

	return FeatureVector{
		LoadPerColumnKN:     p.TotalAxialLoadKN / float64(p.ColumnCount),
		RaftLoadRatioKNM2:   raftLoadRatio,
		ColumnDensity:       float64(p.ColumnCount) * p.ColumnAreaM2 / p.RaftAreaM2,
		StrengthToLoadRatio: p.ConcreteStrengthMPa / raftLoadRatio,
	}, nil
}
