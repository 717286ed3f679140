package diffraction

import (
	"errors"
	"testing"
)

func TestSampleCount(t *testing.T) {
	tests := []struct {
		resolution float64
		want       int
	}{
		{0.1, 1790},
		{0.25, 710},
		{0.3, 590},
		{0.05, 3590},
		{0.7, 247},
		{15, 2},
		{16, 1},
		{17, 0},
	}
	for _, tt := range tests {
		if got := SampleCount(tt.resolution); got != tt.want {
			t.Errorf("SampleCount(%v) = %d, want %d", tt.resolution, got, tt.want)
		}
	}
}

func TestSynthesizeGrid(t *testing.T) {
	for _, res := range []float64{0.1, 0.25, 0.7, 2} {
		p := Params{Wavelength: 1.54, Resolution: res, HalfWidth: 0.5, AusteniteFraction: 0.3, CarbonContent: 0.4}
		r, err := Run(p)
		if err != nil {
			t.Fatalf("Run(res=%v) error = %v", res, err)
		}
		pat := r.Pattern
		if pat.Len() != SampleCount(res) || len(pat.Intensity) != pat.Len() {
			t.Fatalf("res=%v len = %d/%d, want %d", res, pat.Len(), len(pat.Intensity), SampleCount(res))
		}
		for i, x := range pat.Theta {
			if want := float64(i+10) * res; x != want {
				t.Fatalf("res=%v theta[%d] = %v, want %v", res, i, x, want)
			}
			if i > 0 && !(x > pat.Theta[i-1]) {
				t.Fatalf("res=%v theta not increasing at %d", res, i)
			}
			if pat.Intensity[i] < 4.75 {
				t.Fatalf("res=%v intensity[%d] = %v below baseline", res, i, pat.Intensity[i])
			}
		}
	}
}

func TestSynthesizeTooCoarse(t *testing.T) {
	_, err := Synthesize(Lattice(0.2), 17, 0.5)
	var ce *ComputationError
	if !errors.As(err, &ce) || ce.Stage != "synthesis" {
		t.Fatalf("error = %v, want synthesis ComputationError", err)
	}
}

func TestSynthesizeNoPeaksIsBaseline(t *testing.T) {
	p, err := Synthesize(nil, 1, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	for i, y := range p.Intensity {
		if y != 5 {
			t.Fatalf("intensity[%d] = %v, want 5", i, y)
		}
	}
}
