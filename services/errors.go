package services

import (
	"errors"
	"fmt"
)

// Lookup failures surfaced to the caller as-is; persistence errors
// propagate unchanged.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrJetonNotFound         = errors.New("jeton not found")
	ErrQuizNotFound          = errors.New("quiz not found")
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrDuplicateTitle        = errors.New("jeton with this title already exists")
	ErrDuplicateThreshold    = errors.New("jeton with this type and threshold already exists")
)

// ValidationError reports an answer whose payload does not match the
// question's declared answer type.
type ValidationError struct {
	QuestionID string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid answer for question %s: %s", e.QuestionID, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
