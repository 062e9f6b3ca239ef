package handlers

import (
	"github.com/go-playground/validator/v10"
)

// RequestValidator plugs go-playground/validator into echo
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator creates the validator registered on the echo instance
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}
