package importer

import (
	"encoding/json"
	"net/http"

	"XRay/internal/calc/analysis"
	"XRay/internal/calc/batch"
	"XRay/internal/calc/diffraction"

	"go.uber.org/zap"
)

const maxUpload = 8 << 20

type Handler struct {
	Runner *batch.Runner
	Logger *zap.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		analysis.WriteError(w, r, h.Logger, &diffraction.ValidationError{Field: "file", Msg: "is required"})
		return
	}
	defer file.Close()

	res, err := Import(r.Context(), h.Runner, file)
	if err != nil {
		analysis.WriteError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
