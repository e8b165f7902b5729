package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/istehunt/hunt/internal/api/validation"
)

func TestValidPin(t *testing.T) {
	t.Parallel()

	valid := []string{"0000", "1234", "9999"}
	for _, pin := range valid {
		assert.True(t, validation.ValidPin(pin), pin)
	}

	invalid := []string{"", "123", "12345", "12a4", " 1234", "1234 ", "12.4", "-123"}
	for _, pin := range invalid {
		assert.False(t, validation.ValidPin(pin), pin)
	}
}

func TestValidateVerifyRequest(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validation.ValidateVerifyRequest(validation.VerifyRequest{Pin: "1234"}))

	errs := validation.ValidateVerifyRequest(validation.VerifyRequest{Pin: "12"})
	assert.Len(t, errs, 1)
	assert.Equal(t, "pin", errs[0].Field)
}

func TestValidateLoginRequest(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validation.ValidateLoginRequest(validation.LoginRequest{Email: "a@b.c", Password: "x"}))

	errs := validation.ValidateLoginRequest(validation.LoginRequest{})
	assert.Len(t, errs, 2)

	errs = validation.ValidateLoginRequest(validation.LoginRequest{Email: "   ", Password: "x"})
	assert.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
}

func TestValidateTaskUpdateRequest(t *testing.T) {
	t.Parallel()

	// Nothing set: nothing to validate.
	assert.Empty(t, validation.ValidateTaskUpdateRequest(validation.TaskUpdateRequest{}))

	name := "New name"
	pin := "1234"
	assert.Empty(t, validation.ValidateTaskUpdateRequest(validation.TaskUpdateRequest{Name: &name, Pin: &pin}))

	empty := "  "
	badPin := "12ab"
	errs := validation.ValidateTaskUpdateRequest(validation.TaskUpdateRequest{Name: &empty, Pin: &badPin})
	assert.Len(t, errs, 2)
}
