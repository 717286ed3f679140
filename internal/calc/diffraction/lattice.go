package diffraction

import (
	"fmt"
	"math"
)

const (
	austeniteEdge  = 3.656  // cubic a_A, Å
	martensiteEdge = 2.8663 // tetragonal a_M, Å
	tetragonality  = 0.031  // c/a growth per wt% C
)

// Variant identifies the phase population a reflection belongs to.
type Variant string

const (
	Austenite          Variant = "A"
	Martensite         Variant = "M"
	DeformedMartensite Variant = "MT"
)

type Miller struct {
	H, K, L int
}

func (m Miller) String() string { return fmt.Sprintf("%d%d%d", m.H, m.K, m.L) }

// Reflection is one diffraction line. D, TwoTheta and Intensity are filled
// in by successive pipeline stages.
type Reflection struct {
	Name      string  `json:"name"`
	Variant   Variant `json:"variant"`
	Plane     string  `json:"plane"`
	D         float64 `json:"d"`
	TwoTheta  float64 `json:"twoTheta"`
	Intensity float64 `json:"intensity"`

	weight float64
}

type reflectionDef struct {
	name    string
	variant Variant
	plane   Miller
	weight  float64
}

// The deformed variant puts the distortion axis along l, so its planes are
// the {110},{200},{211} members with a non-zero l index.
var catalogue = [...]reflectionDef{
	{"A111", Austenite, Miller{1, 1, 1}, 1.0},
	{"A200", Austenite, Miller{2, 0, 0}, 0.44},
	{"A220", Austenite, Miller{2, 2, 0}, 0.27},
	{"M110", Martensite, Miller{1, 1, 0}, 1.0},
	{"M200", Martensite, Miller{2, 0, 0}, 0.16},
	{"M211", Martensite, Miller{2, 1, 1}, 0.4},
	{"MT110", DeformedMartensite, Miller{1, 0, 1}, 1.0},
	{"MT200", DeformedMartensite, Miller{0, 0, 2}, 0.16},
	{"MT211", DeformedMartensite, Miller{1, 1, 2}, 0.4},
}

// ReflectionCount is the size of the fixed catalogue.
const ReflectionCount = len(catalogue)

// TetragonalEdge returns the carbon-distorted c axis of martensite.
func TetragonalEdge(carbon float64) float64 {
	return martensiteEdge * (1 + tetragonality*carbon)
}

func cubicSpacing(a float64, m Miller) float64 {
	return a / math.Sqrt(float64(m.H*m.H+m.K*m.K+m.L*m.L))
}

func tetragonalSpacing(a, c float64, m Miller) float64 {
	inv := float64(m.H*m.H+m.K*m.K)/(a*a) + float64(m.L*m.L)/(c*c)
	return 1 / math.Sqrt(inv)
}

// Lattice builds the nine reflections with their interplanar spacings.
func Lattice(carbon float64) []Reflection {
	c := TetragonalEdge(carbon)
	out := make([]Reflection, 0, len(catalogue))
	for _, def := range catalogue {
		var d float64
		switch def.variant {
		case Austenite:
			d = cubicSpacing(austeniteEdge, def.plane)
		case Martensite:
			d = tetragonalSpacing(martensiteEdge, martensiteEdge, def.plane)
		case DeformedMartensite:
			d = tetragonalSpacing(martensiteEdge, c, def.plane)
		}
		out = append(out, Reflection{
			Name:    def.name,
			Variant: def.variant,
			Plane:   def.plane.String(),
			D:       d,
			weight:  def.weight,
		})
	}
	return out
}
