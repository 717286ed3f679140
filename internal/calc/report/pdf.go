package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"XRay/internal/calc/diffraction"

	"github.com/phpdave11/gofpdf"
)

// Meta carries the optional cover fields of a PDF report. The core PDF fonts
// are cp1252, so characters outside that code page print as '.'.
type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

type PDFExporter struct {
	Meta Meta
	// Now stamps the report date; time.Now when nil.
	Now func() time.Time
}

func (PDFExporter) ContentType() string { return "application/pdf" }

func (PDFExporter) Filename() string { return "xray_analysis.pdf" }

// coverText converts UTF-8 user text to the cp1252 bytes the core fonts expect.
func coverText(pdf *gofpdf.Fpdf) func(string) string {
	return pdf.UnicodeTranslatorFromDescriptor("")
}

func (e PDFExporter) Export(w io.Writer, res *diffraction.Result) error {
	var img bytes.Buffer
	if err := WriteChart(&img, res.Pattern); err != nil {
		return err
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	title := e.Meta.Title
	if title == "" {
		title = chartTitle
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreationDate(now())
	tr := coverText(pdf)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	if e.Meta.Project != "" {
		pdf.Cell(0, 6, tr("Project: " + e.Meta.Project))
		pdf.Ln(6)
	}
	if e.Meta.Author != "" {
		pdf.Cell(0, 6, tr("Author: " + e.Meta.Author))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now().Format("2006-01-02")))
	pdf.Ln(10)

	p := res.Params
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Parameters")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range [][2]string{
		{"Wavelength, A", formatFloat(p.Wavelength)},
		{"Resolution, deg", formatFloat(p.Resolution)},
		{"Half width, deg", formatFloat(p.HalfWidth)},
		{"Austenite fraction", formatFloat(p.AusteniteFraction)},
		{"Carbon, wt%", formatFloat(p.CarbonContent)},
	} {
		pdf.CellFormat(50, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	imgW := pageW - left - right
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("pattern", opts, &img)
	pdf.ImageOptions("pattern", left, pdf.GetY(), imgW, imgW*ChartHeight/ChartWidth, true, opts, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Peaks")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 9)
	for _, h := range []string{"Line", "Plane", "d, A", "2theta, deg", "Intensity"} {
		pdf.CellFormat(30, 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, r := range res.Reflections {
		pdf.CellFormat(30, 6, r.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, r.Plane, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.4f", r.D), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.3f", r.TwoTheta), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", r.Intensity), "1", 1, "R", false, 0, "")
	}

	if e.Meta.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(e.Meta.Notes), "", "L", false)
	}
	return pdf.Output(w)
}
