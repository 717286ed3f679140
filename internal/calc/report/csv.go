package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"XRay/internal/calc/diffraction"
)

// CSVExporter writes "Teta,Intensity" rows with locale-independent numbers.
type CSVExporter struct{}

func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

func (CSVExporter) Filename() string { return "xray_analysis.csv" }

func (CSVExporter) Export(w io.Writer, res *diffraction.Result) error {
	return WriteCSV(w, res.Pattern)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func WriteCSV(w io.Writer, p diffraction.Pattern) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Teta", "Intensity"}); err != nil {
		return err
	}
	for i := range p.Theta {
		if err := cw.Write([]string{formatFloat(p.Theta[i]), formatFloat(p.Intensity[i])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
