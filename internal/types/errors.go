package types

import (
	"errors"
	"strings"
)

// The only two ways a calculation can fail.
var (
	ErrInvalidMadhab        = errors.New("invalid madhab")
	ErrNonPositiveNetEstate = errors.New("net estate is not positive")
)

// CalculationError is the failure variant of a calculation. Kind is one of the
// sentinel errors above; Messages is never empty.
type CalculationError struct {
	Kind       error
	Madhab     string
	MadhabName string
	Messages   []string
}

func (e *CalculationError) Error() string {
	return e.Kind.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *CalculationError) Unwrap() error { return e.Kind }
