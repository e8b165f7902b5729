package validation

import (
	"regexp"
	"strings"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// ValidPin reports whether pin is exactly four digits.
func ValidPin(pin string) bool {
	return pinPattern.MatchString(pin)
}

// VerifyRequest mirrors the fields needed for pin verification validation.
type VerifyRequest struct {
	Pin string
}

// ValidateVerifyRequest validates a pin submission. Rejection happens here,
// before any state is read.
func ValidateVerifyRequest(req VerifyRequest) []FieldError {
	var errs []FieldError
	if !ValidPin(req.Pin) {
		errs = append(errs, FieldError{Field: "pin", Message: "pin must be exactly 4 digits"})
	}
	return errs
}

// LoginRequest mirrors the fields needed for admin login validation.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateLoginRequest validates an admin login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

// TaskUpdateRequest mirrors the fields needed for task update validation.
// Nil fields are left unchanged and skip validation.
type TaskUpdateRequest struct {
	Name *string
	Pin  *string
}

// ValidateTaskUpdateRequest validates a partial task update.
func ValidateTaskUpdateRequest(req TaskUpdateRequest) []FieldError {
	var errs []FieldError

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name must not be empty"})
	}
	if req.Pin != nil && !ValidPin(*req.Pin) {
		errs = append(errs, FieldError{Field: "pin", Message: "pin must be exactly 4 digits"})
	}

	return errs
}
