package batch

import (
	"encoding/json"
	"net/http"

	"Raftex/internal/pipeline"
)

type Handler struct {
	Service *pipeline.Service
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	out, err := Run(h.Service, input)
	if err != nil {
		http.Error(w, "Batch error", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
