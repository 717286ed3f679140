package diffraction

import (
	"fmt"
	"math"
)

const (
	firstSample = 10
	sweepEnd    = 180.0
	baseline    = 5.0
	peakScale   = 0.95
)

// Pattern is the synthesized intensity curve. The JSON names match the
// xData/yData shape consumed by the browser client.
type Pattern struct {
	Theta     []float64 `json:"xData"`
	Intensity []float64 `json:"yData"`
}

func (p Pattern) Len() int { return len(p.Theta) }

// SampleCount is the number of points swept for a resolution.
func SampleCount(resolution float64) int {
	return int(math.Floor(sweepEnd/resolution)) - firstSample
}

// Synthesize sums one Gaussian per reflection at every sample angle.
func Synthesize(refl []Reflection, resolution, halfWidth float64) (Pattern, error) {
	n := SampleCount(resolution)
	if n < 1 {
		return Pattern{}, &ComputationError{
			Stage: "synthesis",
			Msg:   fmt.Sprintf("resolution %g leaves no samples below %g degrees", resolution, sweepEnd),
		}
	}
	p := Pattern{
		Theta:     make([]float64, n),
		Intensity: make([]float64, n),
	}
	twoSigma2 := 2 * halfWidth * halfWidth
	for j := 0; j < n; j++ {
		x := float64(j+firstSample) * resolution
		var sum float64
		for _, r := range refl {
			dx := x - r.TwoTheta
			sum += r.Intensity * math.Exp(-dx*dx/twoSigma2)
		}
		p.Theta[j] = x
		p.Intensity[j] = peakScale*sum + baseline
	}
	return p, nil
}
