package diffraction

// Result carries everything an exporter may need.
type Result struct {
	Params      Params       `json:"params"`
	Reflections []Reflection `json:"reflections"`
	Pattern     Pattern      `json:"pattern"`
}

// Calculate runs the full pipeline with the default limits.
func Calculate(in Input) (Result, error) {
	return DefaultLimits.Calculate(in)
}

// Calculate validates the input, then runs
// geometry → peak positions → intensities → synthesis.
func (l Limits) Calculate(in Input) (Result, error) {
	p, err := l.Validate(in)
	if err != nil {
		return Result{}, err
	}
	return Run(p)
}

// Run executes the pipeline for already validated parameters.
func Run(p Params) (Result, error) {
	refl, err := Reflections(p)
	if err != nil {
		return Result{}, err
	}
	pat, err := Synthesize(refl, p.Resolution, p.HalfWidth)
	if err != nil {
		return Result{}, err
	}
	return Result{Params: p, Reflections: refl, Pattern: pat}, nil
}

// Reflections computes the peak table without sweeping the pattern.
func Reflections(p Params) ([]Reflection, error) {
	refl := Lattice(p.CarbonContent)
	if err := PeakPositions(refl, p.Wavelength); err != nil {
		return nil, err
	}
	if err := AssignIntensities(refl, p.AusteniteFraction); err != nil {
		return nil, err
	}
	return refl, nil
}
