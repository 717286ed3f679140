package report

import (
	"encoding/json"
	"io"
	"strings"

	"XRay/internal/calc/diffraction"
)

const (
	ModeImage = "image"
	ModeCSV   = "csv"
	ModeJSON  = "json"
	ModeXLSX  = "xlsx"
	ModePDF   = "pdf"
)

// Exporter turns a computed result into one response body.
type Exporter interface {
	ContentType() string
	// Filename is the suggested attachment name, empty for inline bodies.
	Filename() string
	Export(w io.Writer, res *diffraction.Result) error
}

// ForMode selects the exporter for an output flag. An empty flag means image.
func ForMode(mode string, meta Meta) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeImage:
		return ChartRenderer{}, nil
	case ModeCSV:
		return CSVExporter{}, nil
	case ModeJSON:
		return JSONExporter{}, nil
	case ModeXLSX:
		return XLSXExporter{}, nil
	case ModePDF:
		return PDFExporter{Meta: meta}, nil
	}
	return nil, &diffraction.ValidationError{
		Field: "output",
		Msg:   "must be one of image, csv, json, xlsx, pdf",
	}
}

// JSONExporter writes the pattern as {"xData":[...],"yData":[...]}.
type JSONExporter struct{}

func (JSONExporter) ContentType() string { return "application/json" }

func (JSONExporter) Filename() string { return "" }

func (JSONExporter) Export(w io.Writer, res *diffraction.Result) error {
	return json.NewEncoder(w).Encode(res.Pattern)
}
