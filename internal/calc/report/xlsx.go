package report

import (
	"fmt"
	"io"

	"XRay/internal/calc/diffraction"

	"github.com/xuri/excelize/v2"
)

const (
	sheetParameters = "Parameters"
	sheetPeaks      = "Peaks"
	sheetPattern    = "Pattern"
)

// XLSXExporter writes a workbook with the inputs, the peak table and the
// sampled pattern plus a native scatter chart of it.
type XLSXExporter struct{}

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Filename() string { return "xray_analysis.xlsx" }

func (XLSXExporter) Export(w io.Writer, res *diffraction.Result) error {
	return WriteXLSX(w, res)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func WriteXLSX(w io.Writer, res *diffraction.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetParameters); err != nil {
		return err
	}
	p := res.Params
	params := [][]interface{}{
		{"Parameter", "Value"},
		{"Wavelength, Å", p.Wavelength},
		{"Resolution, deg", p.Resolution},
		{"Half width, deg", p.HalfWidth},
		{"Austenite fraction", p.AusteniteFraction},
		{"Carbon, wt%", p.CarbonContent},
	}
	if err := setRows(f, sheetParameters, params); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetParameters, "A", "A", 22); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetPeaks); err != nil {
		return err
	}
	peaks := make([][]interface{}, 0, len(res.Reflections)+1)
	peaks = append(peaks, []interface{}{"Line", "Variant", "Plane", "d, Å", "2θ, deg", "Intensity"})
	for _, r := range res.Reflections {
		peaks = append(peaks, []interface{}{r.Name, string(r.Variant), r.Plane, r.D, r.TwoTheta, r.Intensity})
	}
	if err := setRows(f, sheetPeaks, peaks); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetPattern); err != nil {
		return err
	}
	pat := res.Pattern
	rows := make([][]interface{}, 0, pat.Len()+1)
	rows = append(rows, []interface{}{"Teta", "Intensity"})
	for i := range pat.Theta {
		rows = append(rows, []interface{}{pat.Theta[i], pat.Intensity[i]})
	}
	if err := setRows(f, sheetPattern, rows); err != nil {
		return err
	}
	if pat.Len() > 0 {
		last := pat.Len() + 1
		err := f.AddChart(sheetPattern, "D2", &excelize.Chart{
			Type: excelize.Scatter,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$B$1", sheetPattern),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheetPattern, last),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheetPattern, last),
				Marker:     excelize.ChartMarker{Symbol: "none"},
			}},
			Title:     []excelize.RichTextRun{{Text: chartTitle}},
			Dimension: excelize.ChartDimension{Width: 960, Height: 540},
		})
		if err != nil {
			return err
		}
	}
	return f.Write(w)
}
