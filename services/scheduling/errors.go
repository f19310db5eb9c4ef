package scheduling

import (
	"errors"
	"fmt"
)

// Error codes returned by the scheduling engine. Callers translate these into
// user-facing messages; the engine only guarantees a stable kind plus context.
const (
	CodeConfigurationMissing = "configuration_missing"
	CodeSlotUnavailable      = "slot_unavailable"
	CodeNotFound             = "not_found"
	CodeAlreadyCancelled     = "already_cancelled"
	CodeInvalidTransition    = "invalid_transition"
	CodeInvalidInput         = "invalid_input"
)

// Error is a coded scheduling failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrConfigurationMissing reports that no active agenda configuration exists.
// It is a soft signal: callers usually answer with an empty result and a
// setup hint rather than a hard failure.
var ErrConfigurationMissing = &Error{
	Code:    CodeConfigurationMissing,
	Message: "no active agenda configuration",
}

// IsCode reports whether err is a scheduling Error with the given code.
func IsCode(err error, code string) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}
