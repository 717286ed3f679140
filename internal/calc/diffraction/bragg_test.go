package diffraction

import (
	"errors"
	"math"
	"testing"
)

func TestTwoTheta(t *testing.T) {
	tests := []struct {
		lambda, d, want float64
	}{
		{1.54, 2.110792584157272, 42.78955070307952},
		{1.54, 1.828, 49.823950465016885},
		{1.789, 1.1701620749565704, 99.71155533804334},
		{2, 1, 180},
	}
	for _, tt := range tests {
		got, err := TwoTheta(tt.lambda, tt.d)
		if err != nil {
			t.Errorf("TwoTheta(%v, %v) error = %v", tt.lambda, tt.d, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TwoTheta(%v, %v) = %.12f, want %.12f", tt.lambda, tt.d, got, tt.want)
		}
	}
}

func TestTwoThetaDomain(t *testing.T) {
	_, err := TwoTheta(2.5, 1.17)
	var ce *ComputationError
	if !errors.As(err, &ce) || ce.Stage != "bragg" {
		t.Fatalf("error = %v, want bragg ComputationError", err)
	}
	if !errors.Is(err, ErrComputation) {
		t.Error("error does not unwrap to ErrComputation")
	}
}

func TestPeakPositionsNamesFailingReflection(t *testing.T) {
	refl := Lattice(0.2)
	// 2.4 Å reaches every plane except the shortest martensite spacing
	err := PeakPositions(refl, 2.4)
	if !errors.Is(err, ErrComputation) {
		t.Fatalf("error = %v, want ErrComputation", err)
	}
	if got := err.Error(); got[:4] != "M211" {
		t.Errorf("error = %q, want it to name M211", got)
	}
}
