package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"XRay/internal/calc/analysis"
	"XRay/internal/calc/batch"
	"XRay/internal/calc/diffraction"

	"github.com/xuri/excelize/v2"
)

// Column order of an import sheet. The first row is a header and is skipped;
// blank cells take the pipeline defaults.
var columns = [...]string{"wavelength", "resolution", "halfWidth", "austeniteContent", "carbonContent", "anode"}

type row struct {
	req analysis.Request
	err error
}

// readRows parses the first sheet of an xlsx workbook. Rows whose cells are
// all blank are dropped.
func readRows(r io.Reader) ([]row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &diffraction.ValidationError{Field: "file", Msg: "is not a readable xlsx workbook"}
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, &diffraction.ValidationError{Field: "file", Msg: "has no data rows below the header"}
	}

	var out []row
	for _, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		req, err := parseRow(cells)
		out = append(out, row{req: req, err: err})
	}
	if len(out) == 0 {
		return nil, &diffraction.ValidationError{Field: "file", Msg: "has no data rows below the header"}
	}
	return out, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(cells []string) (analysis.Request, error) {
	var req analysis.Request
	targets := []**float64{
		&req.Wavelength,
		&req.Resolution,
		&req.HalfWidth,
		&req.AusteniteContent,
		&req.CarbonContent,
	}
	for i, dst := range targets {
		if i >= len(cells) || strings.TrimSpace(cells[i]) == "" {
			continue
		}
		v, err := toFloat(cells[i])
		if err != nil {
			return req, &diffraction.ValidationError{Field: columns[i], Msg: fmt.Sprintf("must be a number, got %q", cells[i])}
		}
		*dst = &v
	}
	if len(cells) > 5 {
		req.Anode = strings.TrimSpace(cells[5])
	}
	return req, nil
}

// toFloat accepts a decimal comma as written by some spreadsheet locales.
func toFloat(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return strconv.ParseFloat(s, 64)
}

// Import evaluates every data row of the workbook. Item indices count data
// rows from zero.
func Import(ctx context.Context, runner *batch.Runner, r io.Reader) (batch.Result, error) {
	rows, err := readRows(r)
	if err != nil {
		return batch.Result{}, err
	}
	if len(rows) > batch.MaxItems {
		return batch.Result{}, &diffraction.ValidationError{Field: "file", Msg: fmt.Sprintf("must not exceed %d data rows", batch.MaxItems)}
	}

	var reqs []analysis.Request
	var at []int
	for i, rw := range rows {
		if rw.err == nil {
			reqs = append(reqs, rw.req)
			at = append(at, i)
		}
	}

	items := make([]batch.Item, len(rows))
	if len(reqs) > 0 {
		res, err := runner.Run(ctx, reqs)
		if err != nil {
			return batch.Result{}, err
		}
		for j, it := range res.Items {
			it.Index = at[j]
			items[at[j]] = it
		}
	}

	out := batch.Result{Count: len(items), Items: items}
	for i, rw := range rows {
		if rw.err != nil {
			_, body := analysis.Classify(rw.err)
			items[i] = batch.Item{Index: i, Error: &body}
		}
		if items[i].Error != nil {
			out.Failed++
		}
	}
	return out, nil
}
