package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var tagMessages = map[string]string{
	"required": "is required",
	"max":      "is too long",
	"min":      "is too short",
}

// ValidateRequest checks struct tags on a decoded request body and returns
// one message per failing field, in field order.
func ValidateRequest(v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msg, ok := tagMessages[e.Tag()]
		if !ok {
			msg = "is invalid"
		}
		messages = append(messages, fmt.Sprintf("%s %s", e.Field(), msg))
	}
	return messages
}
