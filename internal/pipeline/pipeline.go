// Package pipeline runs one raft analysis end to end: feature derivation,
// both predictors, and compliance evaluation.
package pipeline

import (
	"sync"

	"Raftex/internal/compliance"
	"Raftex/internal/predict"
	"Raftex/internal/raft"
)

// Request is one analysis invocation. Thresholds, when present, override
// the service defaults for this request only.
type Request struct {
	Params     raft.RawParameters     `json:"params"`
	Thresholds *compliance.Thresholds `json:"thresholds,omitempty"`
}

// Result is the complete outcome of one analysis. Warnings aggregates the
// low-confidence clamp events from both predictors.
type Result struct {
	Features      raft.FeatureVector           `json:"features"`
	Reinforcement predict.ReinforcementOutputs `json:"reinforcement"`
	Structural    predict.StructuralOutputs    `json:"structural"`
	Verdict       compliance.Verdict           `json:"verdict"`
	Warnings      []string                     `json:"warnings,omitempty"`
}

// Service holds the loaded predictors and default thresholds. Built once
// at startup and shared read-only across requests.
type Service struct {
	reinforcement *predict.ReinforcementPredictor
	structural    *predict.StructuralPredictor
	defaults      compliance.Thresholds
}

func NewService(r *predict.ReinforcementPredictor, s *predict.StructuralPredictor, defaults compliance.Thresholds) *Service {
	return &Service{reinforcement: r, structural: s, defaults: defaults}
}

// Analyze validates, derives features, runs the two predictors
// concurrently (they share the feature vector and produce disjoint
// outputs), joins, and evaluates compliance.
func (s *Service) Analyze(req Request) (Result, error) {
	fv, err := raft.Derive(req.Params)
	if err != nil {
		return Result{}, err
	}

	var (
		wg      sync.WaitGroup
		reinf   predict.ReinforcementOutputs
		structs predict.StructuralOutputs
		errR    error
		errS    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		reinf, errR = s.reinforcement.Predict(fv, req.Params)
	}()
	go func() {
		defer wg.Done()
		structs, errS = s.structural.Predict(fv)
	}()
	wg.Wait()

	if errR != nil {
		return Result{}, errR
	}
	if errS != nil {
		return Result{}, errS
	}

	thresholds := s.defaults
	if req.Thresholds != nil {
		thresholds = *req.Thresholds
	}

	res := Result{
		Features:      fv,
		Reinforcement: reinf,
		Structural:    structs,
		Verdict:       compliance.Evaluate(structs, thresholds),
	}
	res.Warnings = append(res.Warnings, reinf.Warnings...)
	res.Warnings = append(res.Warnings, structs.Warnings...)
	return res, nil
}
