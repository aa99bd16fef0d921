package prediction

import (
	"errors"
	"fmt"
)

// Stage names a step of the forecast pipeline.
type Stage string

const (
	StageValidate Stage = "validate_input"
	StageProject  Stage = "project_drivers"
	StagePredict  Stage = "predict_emission"
	StageExplain  Stage = "explain"
)

// ValidationError reports malformed request input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// PredictionFault reports an unexpected failure while evaluating a model.
type PredictionFault struct {
	Stage Stage
	Err   error
}

func (e *PredictionFault) Error() string {
	return fmt.Sprintf("prediction fault in %s: %v", e.Stage, e.Err)
}

func (e *PredictionFault) Unwrap() error { return e.Err }

// ErrNonFinite is wrapped by faults caused by NaN or infinite values.
var ErrNonFinite = errors.New("non-finite value")

// ErrModelsNotLoaded is wrapped by faults raised when no models are present.
var ErrModelsNotLoaded = errors.New("models not loaded")

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// FaultStage returns the stage of a PredictionFault in err.
func FaultStage(err error) (Stage, bool) {
	var f *PredictionFault
	if errors.As(err, &f) {
		return f.Stage, true
	}
	return "", false
}
