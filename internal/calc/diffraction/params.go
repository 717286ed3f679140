package diffraction

import (
	"fmt"
	"math"
)

const (
	DefaultWavelength        = 1.54
	DefaultResolution        = 0.1
	DefaultHalfWidth         = 0.5
	DefaultAusteniteFraction = 0.5
	DefaultCarbonContent     = 0.2

	// MaxCarbonContent is the carbon solubility limit in austenite, wt%.
	MaxCarbonContent = 2.14

	DefaultMaxSamples = 200000
)

// Input is the raw request payload. Absent fields fall back to defaults.
type Input struct {
	Wavelength       *float64 `json:"wavelength"`
	Resolution       *float64 `json:"resolution"`
	HalfWidth        *float64 `json:"halfWidth"`
	AusteniteContent *float64 `json:"austeniteContent"` // percent, 0..100
	CarbonContent    *float64 `json:"carbonContent"`    // wt%
}

// Params is a validated, immutable parameter set.
type Params struct {
	Wavelength        float64 `json:"wavelength"`
	Resolution        float64 `json:"resolution"`
	HalfWidth         float64 `json:"halfWidth"`
	AusteniteFraction float64 `json:"austeniteFraction"`
	CarbonContent     float64 `json:"carbonContent"`
}

type Limits struct {
	MaxSamples int
}

var DefaultLimits = Limits{MaxSamples: DefaultMaxSamples}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate applies defaults and range checks.
func Validate(in Input) (Params, error) {
	return DefaultLimits.Validate(in)
}

func (l Limits) Validate(in Input) (Params, error) {
	austenitePct := DefaultAusteniteFraction * 100
	if in.AusteniteContent != nil {
		austenitePct = *in.AusteniteContent
	}
	p := Params{
		Wavelength:        orDefault(in.Wavelength, DefaultWavelength),
		Resolution:        orDefault(in.Resolution, DefaultResolution),
		HalfWidth:         orDefault(in.HalfWidth, DefaultHalfWidth),
		AusteniteFraction: austenitePct / 100,
		CarbonContent:     orDefault(in.CarbonContent, DefaultCarbonContent),
	}

	positive := []struct {
		field string
		v     float64
	}{
		{"wavelength", p.Wavelength},
		{"resolution", p.Resolution},
		{"halfWidth", p.HalfWidth},
	}
	for _, f := range positive {
		if !finite(f.v) {
			return Params{}, invalid(f.field, "must be a finite number")
		}
		if f.v <= 0 {
			return Params{}, invalid(f.field, "must be positive")
		}
	}
	if !finite(austenitePct) || austenitePct < 0 || austenitePct > 100 {
		return Params{}, invalid("austeniteContent", "must be between 0 and 100 percent")
	}
	if !finite(p.CarbonContent) || p.CarbonContent < 0 || p.CarbonContent > MaxCarbonContent {
		return Params{}, invalid("carbonContent", fmt.Sprintf("must be between 0 and %g percent", MaxCarbonContent))
	}

	limit := l.MaxSamples
	if limit <= 0 {
		limit = DefaultMaxSamples
	}
	// compared as float so a tiny resolution cannot overflow int
	if math.Floor(sweepEnd/p.Resolution)-firstSample > float64(limit) {
		return Params{}, invalid("resolution", fmt.Sprintf("is too fine: pattern would exceed %d samples", limit))
	}
	return p, nil
}
