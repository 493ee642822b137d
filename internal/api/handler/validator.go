package handler

import (
	"github.com/trackly/project-tracker/internal/core/validation"
)

// echoValidator lets Echo call c.Validate(form) with the form rule engine.
type echoValidator struct {
	forms *validation.Validator
}

// NewValidator returns an echo.Validator backed by forms.
func NewValidator(forms *validation.Validator) *echoValidator {
	return &echoValidator{forms: forms}
}

// Validate satisfies the echo.Validator interface. Rule failures come back as
// *validation.Error.
func (ev *echoValidator) Validate(i any) error {
	return ev.forms.Validate(i)
}
