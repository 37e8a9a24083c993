// Package ensemble loads and evaluates serialized decision-tree ensembles.
// Artifacts are produced offline by the model training pipeline; at runtime
// they are read-only and safe to share across requests.
package ensemble

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrModelMismatch marks an artifact whose declared shape disagrees with
// what the caller expects. Fatal at startup, never raised per request.
var ErrModelMismatch = errors.New("model artifact mismatch")

// Family identifies how tree outputs are combined.
type Family string

const (
	// FamilyGradientBoosting sums scaled tree outputs onto a base score.
	FamilyGradientBoosting Family = "gradient_boosting"
	// FamilyExtraTrees averages the outputs of independently grown trees.
	FamilyExtraTrees Family = "extra_trees"
)

// Node is one node of a flattened binary tree. Feature < 0 marks a leaf;
// for split nodes, samples with feature value <= Threshold go Left.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a single regression tree contributing to one output target.
type Tree struct {
	Target int    `json:"target"`
	Nodes  []Node `json:"nodes"`
}

// Model is a loaded, immutable tree ensemble.
type Model struct {
	Name         string    `json:"name"`
	Family       Family    `json:"family"`
	Features     []string  `json:"features"`
	Targets      []string  `json:"targets"`
	BaseScore    []float64 `json:"base_score"`
	LearningRate float64   `json:"learning_rate"`
	Trees        []Tree    `json:"trees"`
}

// Load reads an artifact and validates it against the expected feature
// count. The returned model is ready for concurrent use.
func Load(r io.Reader, wantFeatures int) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if err := m.validate(wantFeatures); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads an artifact from disk.
func LoadFile(path string, wantFeatures int) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()
	m, err := Load(f, wantFeatures)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Model) validate(wantFeatures int) error {
	switch m.Family {
	case FamilyGradientBoosting, FamilyExtraTrees:
	default:
		return fmt.Errorf("%w: unknown ensemble family %q", ErrModelMismatch, m.Family)
	}
	if len(m.Features) != wantFeatures {
		return fmt.Errorf("%w: model %q expects %d features, pipeline provides %d",
			ErrModelMismatch, m.Name, len(m.Features), wantFeatures)
	}
	if len(m.Targets) == 0 {
		return fmt.Errorf("%w: model %q declares no targets", ErrModelMismatch, m.Name)
	}
	if len(m.BaseScore) != len(m.Targets) {
		return fmt.Errorf("%w: model %q has %d base scores for %d targets",
			ErrModelMismatch, m.Name, len(m.BaseScore), len(m.Targets))
	}
	if m.Family == FamilyGradientBoosting && m.LearningRate <= 0 {
		return fmt.Errorf("%w: model %q has non-positive learning rate", ErrModelMismatch, m.Name)
	}
	for ti, tree := range m.Trees {
		if tree.Target < 0 || tree.Target >= len(m.Targets) {
			return fmt.Errorf("%w: tree %d targets output %d of %d", ErrModelMismatch, ti, tree.Target, len(m.Targets))
		}
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d is empty", ErrModelMismatch, ti)
		}
		for ni, n := range tree.Nodes {
			if n.Feature >= len(m.Features) {
				return fmt.Errorf("%w: tree %d node %d splits on feature %d of %d",
					ErrModelMismatch, ti, ni, n.Feature, len(m.Features))
			}
			if n.Feature >= 0 {
				if n.Left >= len(tree.Nodes) || n.Right >= len(tree.Nodes) {
					return fmt.Errorf("%w: tree %d node %d has child out of range", ErrModelMismatch, ti, ni)
				}
				// children must follow their parent in the flattened
				// layout; this rules out cycles during evaluation
				if n.Left <= ni || n.Right <= ni {
					return fmt.Errorf("%w: tree %d node %d has child before parent", ErrModelMismatch, ti, ni)
				}
			}
		}
	}
	return nil
}

// NumFeatures reports the model's declared input dimensionality.
func (m *Model) NumFeatures() int { return len(m.Features) }

// Predict evaluates the ensemble for one feature vector and returns one
// value per target, in target order. Raw outputs are not clamped here;
// sign handling is the caller's concern.
func (m *Model) Predict(features []float64) ([]float64, error) {
	if len(features) != len(m.Features) {
		return nil, fmt.Errorf("%w: got %d features, model %q expects %d",
			ErrModelMismatch, len(features), m.Name, len(m.Features))
	}

	out := make([]float64, len(m.Targets))
	copy(out, m.BaseScore)

	if m.Family == FamilyExtraTrees {
		sums := make([]float64, len(m.Targets))
		counts := make([]int, len(m.Targets))
		for _, tree := range m.Trees {
			sums[tree.Target] += tree.eval(features)
			counts[tree.Target]++
		}
		for t := range out {
			if counts[t] > 0 {
				out[t] = sums[t] / float64(counts[t])
			}
		}
		return out, nil
	}

	for _, tree := range m.Trees {
		out[tree.Target] += m.LearningRate * tree.eval(features)
	}
	return out, nil
}

// eval walks the tree from the root to a leaf. Structure is validated at
// load time, so the walk cannot escape the node slice.
func (t Tree) eval(features []float64) float64 {
	i := 0
	for t.Nodes[i].Feature >= 0 {
		n := t.Nodes[i]
		if features[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}
