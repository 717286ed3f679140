package analysis

import (
	"context"
	"errors"
	"net/http"

	"XRay/internal/calc/diffraction"
	"XRay/internal/middleware"
	"XRay/internal/worker"

	"go.uber.org/zap"
)

// ErrorBody is the JSON shape of every failure.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Classify maps an error to its HTTP status and client-safe body.
func Classify(err error) (int, ErrorBody) {
	var ve *diffraction.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorBody{Error: "validation", Message: ve.Error(), Field: ve.Field}
	case errors.Is(err, diffraction.ErrValidation):
		return http.StatusBadRequest, ErrorBody{Error: "validation", Message: err.Error()}
	case errors.Is(err, diffraction.ErrComputation):
		return http.StatusUnprocessableEntity, ErrorBody{Error: "computation", Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, ErrorBody{Error: "timeout", Message: "request timed out"}
	case errors.Is(err, worker.ErrClosed):
		return http.StatusServiceUnavailable, ErrorBody{Error: "unavailable", Message: "server is shutting down"}
	}
	return http.StatusInternalServerError, ErrorBody{Error: "internal", Message: "internal error"}
}

// WriteError writes the classified error. Internal errors are logged with
// their detail, which never reaches the client.
func WriteError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, body := Classify(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("analysis failed",
			zap.String("request_id", middleware.RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	middleware.WriteJSONError(w, status, body.Error, body.Message, body.Field)
}
