package modal

import "fmt"

// Validation error codes
const (
	ErrCodeTooFewSamples = "TOO_FEW_SAMPLES"
	ErrCodeSamplingRate  = "SAMPLING_RATE_TOO_LOW"
	ErrCodeAliasing      = "ALIASING_RISK"
	ErrCodeResolution    = "INSUFFICIENT_RESOLUTION"
	ErrCodeCycles        = "INSUFFICIENT_CYCLES"
	ErrCodeChannelSync   = "CHANNEL_DESYNC"
	ErrCodeClipping      = "SIGNAL_CLIPPING"
)

// Assessment error codes
const (
	ErrCodeUnmatchableModes = "UNMATCHABLE_MODE_SET"
)

// ValidationError represents a fatal physical-validity failure detected
// before any spectral work. Computed and Required carry the offending
// numbers; Remediation is a concrete suggestion for the caller.
type ValidationError struct {
	Code        string  `json:"code"`
	State       string  `json:"state,omitempty"`
	Message     string  `json:"message"`
	Computed    float64 `json:"computed"`
	Required    float64 `json:"required"`
	Remediation string  `json:"remediation,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Remediation != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Remediation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a validation error with measured and required values
func NewValidationError(code, state, message string, computed, required float64, remediation string) *ValidationError {
	return &ValidationError{
		Code:        code,
		State:       state,
		Message:     message,
		Computed:    computed,
		Required:    required,
		Remediation: remediation,
	}
}

// AssessmentError represents a fatal scoring failure
type AssessmentError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AssessmentError) Error() string {
	if e.Cause != nil {
		return e.Code + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AssessmentError) Unwrap() error {
	return e.Cause
}

// NewUnmatchableModeSetError reports that no mode survived matching across
// all three structural states
func NewUnmatchableModeSetError(original, damaged, repaired int) *AssessmentError {
	return &AssessmentError{
		Code: ErrCodeUnmatchableModes,
		Message: fmt.Sprintf(
			"no modes could be matched across all states (original=%d, damaged=%d, repaired=%d modes)",
			original, damaged, repaired),
	}
}
