package ensemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(target int, value float64) Tree {
	return Tree{Target: target, Nodes: []Node{{Feature: -1, Value: value}}}
}

func TestLoadValidatesFeatureCount(t *testing.T) {
	artifact := `{
		"name": "structural",
		"family": "extra_trees",
		"features": ["a", "b"],
		"targets": ["settlement"],
		"base_score": [0],
		"trees": [{"target": 0, "nodes": [{"feature": -1, "value": 1}]}]
	}`

	_, err := Load(strings.NewReader(artifact), 2)
	require.NoError(t, err)

	_, err = Load(strings.NewReader(artifact), 4)
	require.ErrorIs(t, err, ErrModelMismatch)
}

func TestLoadRejectsBrokenArtifacts(t *testing.T) {
	tests := []struct {
		name     string
		artifact string
	}{
		{
			"unknown family",
			`{"name":"m","family":"random_forest","features":["a"],"targets":["t"],"base_score":[0],"trees":[]}`,
		},
		{
			"no targets",
			`{"name":"m","family":"extra_trees","features":["a"],"targets":[],"base_score":[],"trees":[]}`,
		},
		{
			"base score shape",
			`{"name":"m","family":"extra_trees","features":["a"],"targets":["t"],"base_score":[0,0],"trees":[]}`,
		},
		{
			"boosting without learning rate",
			`{"name":"m","family":"gradient_boosting","features":["a"],"targets":["t"],"base_score":[0],"trees":[]}`,
		},
		{
			"tree target out of range",
			`{"name":"m","family":"extra_trees","features":["a"],"targets":["t"],"base_score":[0],
			  "trees":[{"target":1,"nodes":[{"feature":-1,"value":1}]}]}`,
		},
		{
			"empty tree",
			`{"name":"m","family":"extra_trees","features":["a"],"targets":["t"],"base_score":[0],
			  "trees":[{"target":0,"nodes":[]}]}`,
		},
		{
			"split on unknown feature",
			`{"name":"m","family":"extra_trees","features":["a"],"targets":["t"],"base_score":[0],
			  "trees":[{"target":0,"nodes":[{"feature":5,"threshold":1,"left":1,"right":2},
			  {"feature":-1,"value":1},{"feature":-1,"value":2}]}]}`,
		},
		{
			"child before parent",
			`{"name":"m","family":"extra_trees","features":["a"],"targets":["t"],"base_score":[0],
			  "trees":[{"target":0,"nodes":[{"feature":0,"threshold":1,"left":0,"right":1},
			  {"feature":-1,"value":1}]}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.artifact), 1)
			require.ErrorIs(t, err, ErrModelMismatch)
		})
	}
}

func TestPredictGradientBoosting(t *testing.T) {
	m := &Model{
		Name:         "reinforcement",
		Family:       FamilyGradientBoosting,
		Features:     []string{"a"},
		Targets:      []string{"x", "y"},
		BaseScore:    []float64{5, 100},
		LearningRate: 0.5,
		Trees:        []Tree{leaf(0, 10), leaf(0, 20), leaf(1, 40)},
	}

	out, err := m.Predict([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 5+0.5*(10+20), out[0], 1e-9)
	assert.InDelta(t, 100+0.5*40, out[1], 1e-9)
}

func TestPredictExtraTrees(t *testing.T) {
	m := &Model{
		Name:      "structural",
		Family:    FamilyExtraTrees,
		Features:  []string{"a"},
		Targets:   []string{"x", "y"},
		BaseScore: []float64{0, 7},
		Trees:     []Tree{leaf(0, 10), leaf(0, 20)},
	}

	out, err := m.Predict([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 15, out[0], 1e-9)
	// target without trees falls back to its base score
	assert.InDelta(t, 7, out[1], 1e-9)
}

func TestPredictSplitWalk(t *testing.T) {
	m := &Model{
		Name:      "m",
		Family:    FamilyExtraTrees,
		Features:  []string{"a"},
		Targets:   []string{"t"},
		BaseScore: []float64{0},
		Trees: []Tree{{Target: 0, Nodes: []Node{
			{Feature: 0, Threshold: 1.0, Left: 1, Right: 2},
			{Feature: -1, Value: 100},
			{Feature: -1, Value: 200},
		}}},
	}

	tests := []struct {
		feature float64
		want    float64
	}{
		{0.5, 100},
		{1.0, 100}, // boundary goes left
		{1.5, 200},
	}
	for _, tt := range tests {
		out, err := m.Predict([]float64{tt.feature})
		require.NoError(t, err)
		assert.InDelta(t, tt.want, out[0], 1e-9)
	}
}

func TestPredictRejectsWrongDimensionality(t *testing.T) {
	m := &Model{
		Name:      "m",
		Family:    FamilyExtraTrees,
		Features:  []string{"a", "b"},
		Targets:   []string{"t"},
		BaseScore: []float64{0},
	}
	_, err := m.Predict([]float64{1})
	require.ErrorIs(t, err, ErrModelMismatch)
}
