// Package batch runs many raft analyses in one call. A failed or
// infeasible item never aborts the batch; its error travels with the item.
package batch

import (
	"fmt"

	"Raftex/internal/pipeline"
)

type Input struct {
	Items []pipeline.Request `json:"items"`
}

type ItemResult struct {
	Index  int              `json:"index"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type Output struct {
	Count   int          `json:"count"`
	Passed  int          `json:"passed"`
	Results []ItemResult `json:"results"`
}

func Run(svc *pipeline.Service, in Input) (Output, error) {
	if len(in.Items) == 0 {
		return Output{}, fmt.Errorf("no items")
	}
	out := Output{Count: len(in.Items), Results: make([]ItemResult, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := svc.Analyze(item)
		if err != nil {
			out.Results = append(out.Results, ItemResult{Index: i, Error: err.Error()})
			continue
		}
		if res.Verdict.Pass {
			out.Passed++
		}
		out.Results = append(out.Results, ItemResult{Index: i, Result: &res})
	}
	return out, nil
}
