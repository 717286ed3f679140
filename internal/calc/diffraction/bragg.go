package diffraction

import (
	"fmt"
	"math"
)

// TwoTheta applies Bragg's law and returns the diffraction angle in degrees.
func TwoTheta(wavelength, d float64) (float64, error) {
	s := wavelength / (2 * d)
	if !(s > 0 && s <= 1) {
		return 0, &ComputationError{
			Stage: "bragg",
			Msg:   fmt.Sprintf("no reflection for d=%.4f at wavelength %.4f", d, wavelength),
		}
	}
	return 2 * math.Asin(s) * 180 / math.Pi, nil
}

// PeakPositions fills TwoTheta for every reflection.
func PeakPositions(refl []Reflection, wavelength float64) error {
	for i := range refl {
		tt, err := TwoTheta(wavelength, refl[i].D)
		if err != nil {
			return fmt.Errorf("%s: %w", refl[i].Name, err)
		}
		refl[i].TwoTheta = tt
	}
	return nil
}
