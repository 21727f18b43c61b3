package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const GoalNameMaxLength = 150

var (
	ErrGoalNameRequired = errors.New("Goal name is required")
	ErrGoalNameTooLong  = errors.New("Goal name must be 150 characters or less")
)

// ValidateGoalName checks a goal name. Length is counted in characters of the
// NFC form, so a precomposed and a decomposed accent count the same.
func ValidateGoalName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return ErrGoalNameRequired
	}

	if utf8.RuneCountInString(norm.NFC.String(trimmed)) > GoalNameMaxLength {
		return ErrGoalNameTooLong
	}

	return nil
}
