package pipeline

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Raftex/internal/auth"
	"Raftex/internal/predict"
	"Raftex/internal/raft"
	"Raftex/internal/repo"
)

// Response wraps an analysis outcome. A design-infeasibility outcome is a
// valid engineering answer, so it travels in the body, not as an HTTP
// error.
type Response struct {
	Feasible bool    `json:"feasible"`
	Error    string  `json:"error,omitempty"`
	Result   *Result `json:"result,omitempty"`
}

// Handler serves single-raft analysis requests. Repo is optional; when
// set, successful authenticated analyses are saved to history.
type Handler struct {
	Service *Service
	Repo    repo.Repository
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	res, err := h.Service.Analyze(req)
	w.Header().Set("Content-Type", "application/json")
	switch {
	case errors.Is(err, raft.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, predict.ErrNoFeasibleReinforcement):
		json.NewEncoder(w).Encode(Response{Feasible: false, Error: err.Error()})
		return
	case err != nil:
		http.Error(w, "Analysis error", http.StatusInternalServerError)
		return
	}

	h.save(r, req, res)
	json.NewEncoder(w).Encode(Response{Feasible: true, Result: &res})
}

func (h *Handler) save(r *http.Request, req Request, res Result) {
	if h.Repo == nil {
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return
	}
	input, err := json.Marshal(req)
	if err != nil {
		return
	}
	output, err := json.Marshal(res)
	if err != nil {
		return
	}
	if _, err := h.Repo.SaveAnalysis(r.Context(), userID, input, output, res.Verdict.Pass); err != nil {
		log.Printf("SaveAnalysis error: %v", err)
	}
}
