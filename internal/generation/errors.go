package generation

import "errors"

const (
	practiceFailureMessage = "Failed to generate the lesson plan. The AI model may be temporarily unavailable."
	courseFailureMessage   = "Failed to generate the practice exercises for this lesson."
)

// ErrInvalidPlan is returned when the text model's payload is not a JSON
// array of strings.
var ErrInvalidPlan = errors.New("invalid lesson plan format received from API")

// PlanGenerationError is returned by PlanSubjects. Message is safe to show to
// users; Cause keeps the underlying failure for logs.
type PlanGenerationError struct {
	Message string
	Cause   error
}

func (e *PlanGenerationError) Error() string {
	return e.Message
}

func (e *PlanGenerationError) Unwrap() error {
	return e.Cause
}
