package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"XRay/internal/calc/diffraction"
	"XRay/internal/calc/report"
	"XRay/internal/middleware"
	"XRay/internal/repo"
	"XRay/internal/worker"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Limits diffraction.Limits
	Anodes repo.Repository
	Pool   *worker.Pool
	Logger *zap.Logger
}

// DecodeJSON reads one JSON value from the request body into v. An empty body
// leaves v untouched.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
			return &diffraction.ValidationError{Field: "body", Msg: "must hold a single JSON value"}
		}
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &diffraction.ValidationError{Field: jsonPath(typeErr.Field), Msg: "must be a " + jsonType(typeErr.Type)}
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return &diffraction.ValidationError{Field: "body", Msg: fmt.Sprintf("exceeds %d bytes", tooBig.Limit)}
	}
	return &diffraction.ValidationError{Field: "body", Msg: "is not valid JSON"}
}

// jsonPath drops Go names of embedded structs from a decoder field path,
// so "items.Input.wavelength" becomes "items.wavelength". JSON keys here are
// lower camel case.
func jsonPath(field string) string {
	parts := strings.Split(field, ".")
	keep := parts[:0]
	for _, p := range parts {
		if r, _ := utf8.DecodeRuneInString(p); !unicode.IsUpper(r) {
			keep = append(keep, p)
		}
	}
	if len(keep) == 0 {
		return parts[len(parts)-1]
	}
	return strings.Join(keep, ".")
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Slice:
		return "list"
	case reflect.Struct, reflect.Map:
		return "object"
	}
	return t.String()
}

func (h *Handler) limits() diffraction.Limits {
	if h.Limits.MaxSamples == 0 {
		return diffraction.DefaultLimits
	}
	return h.Limits
}

// Analyze runs the pipeline and answers with the body of the selected
// exporter: PNG by default, or csv, json, xlsx, pdf.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, r, h.Logger, err)
		return
	}
	exp, err := report.ForMode(req.Output, req.Report)
	if err != nil {
		WriteError(w, r, h.Logger, err)
		return
	}
	in, err := Resolve(r.Context(), h.Anodes, req)
	if err != nil {
		WriteError(w, r, h.Logger, err)
		return
	}

	var body bytes.Buffer
	err = h.Pool.Do(r.Context(), func() error {
		res, err := h.limits().Calculate(in)
		if err != nil {
			return err
		}
		return exp.Export(&body, &res)
	})
	if err != nil {
		WriteError(w, r, h.Logger, err)
		return
	}

	w.Header().Set("Content-Type", exp.ContentType())
	if name := exp.Filename(); name != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	w.Write(body.Bytes())
}

func (h *Handler) ListAnodes(w http.ResponseWriter, r *http.Request) {
	anodes, err := h.Anodes.ListAnodes(r.Context())
	if err != nil {
		WriteError(w, r, h.Logger, err)
		return
	}
	if anodes == nil {
		anodes = []repo.Anode{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(anodes)
}

func (h *Handler) GetAnode(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	a, err := h.Anodes.GetAnode(r.Context(), symbol)
	if errors.Is(err, repo.ErrAnodeNotFound) {
		middleware.WriteJSONError(w, http.StatusNotFound, "not_found", fmt.Sprintf("unknown anode %q", symbol), "")
		return
	}
	if err != nil {
		WriteError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}
