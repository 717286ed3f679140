package report

import (
	"io"
	"math"
	"strconv"
	"strings"

	"XRay/internal/calc/diffraction"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

const (
	ChartWidth  = 1920
	ChartHeight = 1080

	marginLeft   = 70
	marginBottom = 70
	marginTop    = 50
	marginRight  = 40

	xTicks = 10
	yTicks = 8

	labelFontSize = 22
	tickFontSize  = 20

	chartTitle = "X-Ray Diffraction Analysis"
	xAxisLabel = "2θ (degrees)"
	yAxisLabel = "Intensity"
)

var (
	backgroundColor = drawing.ColorFromHex("F5F5F5")
	gridColor       = drawing.ColorFromHex("D3D3D3")
	axisColor       = drawing.ColorBlack
	lineColor       = drawing.ColorRed
	titleColor      = drawing.ColorFromHex("00008B")
)

// RenderError reports a pattern that cannot be scaled onto the canvas.
type RenderError struct {
	Msg string
}

func (e *RenderError) Error() string { return "render: " + e.Msg }

func (e *RenderError) Unwrap() error { return diffraction.ErrComputation }

// ChartRenderer draws the pattern as a PNG line chart.
type ChartRenderer struct{}

func (ChartRenderer) ContentType() string { return "image/png" }

func (ChartRenderer) Filename() string { return "" }

func (ChartRenderer) Export(w io.Writer, res *diffraction.Result) error {
	return WriteChart(w, res.Pattern)
}

type scale struct {
	xMin, xMax, yMin, yMax float64
}

func scaleOf(p diffraction.Pattern) (scale, error) {
	if p.Len() < 2 || len(p.Intensity) != p.Len() {
		return scale{}, &RenderError{Msg: "need at least two samples to draw a line"}
	}
	s := scale{
		xMin: floats.Min(p.Theta),
		xMax: floats.Max(p.Theta),
		yMin: floats.Min(p.Intensity),
		yMax: floats.Max(p.Intensity),
	}
	if !(s.xMax > s.xMin) {
		return scale{}, &RenderError{Msg: "degenerate angle axis: every sample at " + tickLabel(s.xMin)}
	}
	if !(s.yMax > s.yMin) {
		return scale{}, &RenderError{Msg: "degenerate intensity axis: constant intensity " + tickLabel(s.yMin)}
	}
	return s, nil
}

func (s scale) pixel(x, y float64) (int, int) {
	plotW := float64(ChartWidth - marginLeft - marginRight)
	plotH := float64(ChartHeight - marginBottom - marginTop)
	px := (x-s.xMin)/(s.xMax-s.xMin)*plotW + marginLeft
	py := float64(ChartHeight-marginBottom) - (y-s.yMin)/(s.yMax-s.yMin)*plotH
	return int(math.Round(px)), int(math.Round(py))
}

// tickLabel formats like "0.##": at most two decimals, no trailing zeros.
func tickLabel(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// WriteChart renders the pattern and encodes it as PNG.
func WriteChart(w io.Writer, p diffraction.Pattern) error {
	s, err := scaleOf(p)
	if err != nil {
		return err
	}
	r, err := chart.PNG(ChartWidth, ChartHeight)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetDPI(72) // font sizes in pixels
	r.SetFont(font)
	drawChart(r, s, p)
	return r.Save(w)
}

func strokeLine(r chart.Renderer, c drawing.Color, width float64, x1, y1, x2, y2 int) {
	r.SetStrokeColor(c)
	r.SetStrokeWidth(width)
	r.MoveTo(x1, y1)
	r.LineTo(x2, y2)
	r.Stroke()
}

func drawChart(r chart.Renderer, s scale, p diffraction.Pattern) {
	plotW := ChartWidth - marginLeft - marginRight
	plotH := ChartHeight - marginBottom - marginTop
	bottom := ChartHeight - marginBottom
	right := ChartWidth - marginRight

	r.SetFillColor(backgroundColor)
	r.MoveTo(0, 0)
	r.LineTo(ChartWidth, 0)
	r.LineTo(ChartWidth, ChartHeight)
	r.LineTo(0, ChartHeight)
	r.Close()
	r.Fill()

	r.SetFontColor(axisColor)
	r.SetFontSize(tickFontSize)

	xs := floats.Span(make([]float64, xTicks+1), s.xMin, s.xMax)
	for i, v := range xs {
		x := marginLeft + i*plotW/xTicks
		strokeLine(r, gridColor, 1, x, marginTop, x, bottom)
		strokeLine(r, axisColor, 3, x, bottom, x, bottom+8)
		label := tickLabel(v)
		box := r.MeasureText(label)
		r.Text(label, x-box.Width()/2, bottom+10+box.Height())
	}

	ys := floats.Span(make([]float64, yTicks+1), s.yMin, s.yMax)
	for i, v := range ys {
		y := bottom - i*plotH/yTicks
		strokeLine(r, gridColor, 1, marginLeft, y, right, y)
		strokeLine(r, axisColor, 3, marginLeft-8, y, marginLeft, y)
		label := tickLabel(v)
		box := r.MeasureText(label)
		r.Text(label, marginLeft-box.Width()-12, y+box.Height()/2)
	}

	strokeLine(r, axisColor, 3, marginLeft, bottom, right, bottom)
	strokeLine(r, axisColor, 3, marginLeft, bottom, marginLeft, marginTop)

	r.SetFontSize(labelFontSize)
	box := r.MeasureText(xAxisLabel)
	r.Text(xAxisLabel, (ChartWidth+marginLeft-marginRight)/2-box.Width()/2, bottom+40+box.Height())

	box = r.MeasureText(yAxisLabel)
	r.SetTextRotation(-math.Pi / 2)
	r.Text(yAxisLabel, marginLeft-48, marginTop+plotH/2+box.Width()/2)
	r.ClearTextRotation()

	r.SetFontColor(titleColor)
	box = r.MeasureText(chartTitle)
	r.Text(chartTitle, (ChartWidth-box.Width())/2, 10+box.Height())

	// data line only, no point markers
	r.SetStrokeColor(lineColor)
	r.SetStrokeWidth(1)
	x0, y0 := s.pixel(p.Theta[0], p.Intensity[0])
	r.MoveTo(x0, y0)
	for i := 1; i < p.Len(); i++ {
		x, y := s.pixel(p.Theta[i], p.Intensity[i])
		r.LineTo(x, y)
	}
	r.Stroke()
}
