package diffraction

import "fmt"

// calibration is the empirical austenite/martensite scattering ratio.
const calibration = 1.645003

var variantShare = map[Variant]float64{
	Austenite:          1,
	Martensite:         1.0 / 3,
	DeformedMartensite: 2.0 / 3,
}

// PhaseIntensities splits 100 intensity units between austenite (ia) and
// martensite (im) for an austenite volume fraction in [0,1].
func PhaseIntensities(austenite float64) (ia, im float64, err error) {
	if !(austenite >= 0 && austenite <= 1) {
		return 0, 0, &ComputationError{
			Stage: "intensity",
			Msg:   fmt.Sprintf("austenite fraction %g outside [0,1]", austenite),
		}
	}
	if austenite == 1 {
		// limit of the ratio formula as the martensite share vanishes
		return 100, 0, nil
	}
	a := austenite / (calibration - calibration*austenite)
	im = 10000 / (100 + 100*a)
	return 100 - im, im, nil
}

// AssignIntensities fills Intensity for every reflection.
func AssignIntensities(refl []Reflection, austenite float64) error {
	ia, im, err := PhaseIntensities(austenite)
	if err != nil {
		return err
	}
	for i := range refl {
		phase := im
		if refl[i].Variant == Austenite {
			phase = ia
		}
		refl[i].Intensity = refl[i].weight * variantShare[refl[i].Variant] * phase
	}
	return nil
}
