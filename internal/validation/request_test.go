package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Title string `json:"title" validate:"required"`
	Note  string `json:"note,omitempty" validate:"max=5"`
	Code  string `json:"code" validate:"omitempty,min=3"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestValidateRequest(t *testing.T) {
	assert.Nil(t, ValidateRequest(sampleRequest{Title: "ok"}))

	errs := ValidateRequest(sampleRequest{Note: "too long", Code: "ab", Email: "nope"})
	assert.Equal(t, []string{
		"title is required",
		"note is too long",
		"code is too short",
		"email is invalid",
	}, errs)
}

func TestValidateRequestPointer(t *testing.T) {
	errs := ValidateRequest(&sampleRequest{})
	assert.Equal(t, []string{"title is required"}, errs)
}
