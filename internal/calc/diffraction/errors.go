package diffraction

import "errors"

var (
	ErrValidation  = errors.New("validation failed")
	ErrComputation = errors.New("computation failed")
)

// ValidationError reports an input outside its accepted range.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ComputationError reports a valid-looking parameter set that has no
// physical or numerical solution at some pipeline stage.
type ComputationError struct {
	Stage string
	Msg   string
}

func (e *ComputationError) Error() string { return e.Stage + ": " + e.Msg }

func (e *ComputationError) Unwrap() error { return ErrComputation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}
