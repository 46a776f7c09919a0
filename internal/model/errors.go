package model

import (
	"errors"
	"fmt"
)

// ErrModelFit is matched by every FitFailure via errors.Is
var ErrModelFit = errors.New("model fit failed")

// FitFailure reports that an estimator could not be fit or could not predict
type FitFailure struct {
	Model  string
	Reason string
	Cause  error
}

func (f *FitFailure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Model, f.Reason, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Model, f.Reason)
}

// Is reports ErrModelFit as a match so callers can classify fit errors
func (f *FitFailure) Is(target error) bool {
	return target == ErrModelFit
}

func (f *FitFailure) Unwrap() error {
	return f.Cause
}

func fitFailure(model, reason string, cause error) *FitFailure {
	return &FitFailure{Model: model, Reason: reason, Cause: cause}
}
