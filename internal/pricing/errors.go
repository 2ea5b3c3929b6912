package pricing

import (
	"errors"
	"fmt"
)

// FieldSubsidyMismatch tags a subsidy record that belongs to another device or plan.
const FieldSubsidyMismatch = "subsidy-mismatch"

// ValidationError reports a structural problem with a calculation input.
// Field names the offending input, e.g. "installmentMonths".
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsValidationError unwraps err into a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
