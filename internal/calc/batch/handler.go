package batch

import (
	"encoding/json"
	"net/http"

	"XRay/internal/calc/analysis"

	"go.uber.org/zap"
)

type Handler struct {
	Runner *Runner
	Logger *zap.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := analysis.DecodeJSON(w, r, &input); err != nil {
		analysis.WriteError(w, r, h.Logger, err)
		return
	}
	res, err := h.Runner.Run(r.Context(), input.Items)
	if err != nil {
		analysis.WriteError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
