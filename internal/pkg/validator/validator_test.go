package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	t.Parallel()
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("a"))
	assert.False(t, IsEmpty(" a "))
}

func TestIsValidEmail(t *testing.T) {
	t.Parallel()
	assert.True(t, IsValidEmail("alice@example.com"))
	assert.True(t, IsValidEmail("a.b+c@sub.domain.fr"))
	assert.False(t, IsValidEmail("alice"))
	assert.False(t, IsValidEmail("alice@"))
	assert.False(t, IsValidEmail("@example.com"))
	assert.False(t, IsValidEmail("alice@example"))
}

func TestIsValidUUID(t *testing.T) {
	t.Parallel()
	assert.True(t, IsValidUUID("5f1c3a9e-8a21-4f5c-9f6e-2d4b8c7a1e30"))
	assert.True(t, IsValidUUID("5F1C3A9E-8A21-4F5C-9F6E-2D4B8C7A1E30"))
	// v7 identifiers are accepted too
	assert.True(t, IsValidUUID("0190b6a1-1f2e-7c3d-8a4b-5c6d7e8f9a0b"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("5f1c3a9e8a214f5c9f6e2d4b8c7a1e30"))
}

func TestIsValidDate(t *testing.T) {
	t.Parallel()
	d, ok := IsValidDate("2026-01-02")
	assert.True(t, ok)
	assert.Equal(t, 2026, d.Year())

	_, ok = IsValidDate("02/01/2026")
	assert.False(t, ok)
	_, ok = IsValidDate("2026-13-01")
	assert.False(t, ok)
	_, ok = IsValidDate("")
	assert.False(t, ok)
}

func TestIsValidPhoneNumber(t *testing.T) {
	t.Parallel()
	assert.True(t, IsValidPhoneNumber("+33612345678"))
	assert.True(t, IsValidPhoneNumber("06 12 34 56 78"))
	assert.True(t, IsValidPhoneNumber("06-12-34-56-78"))
	assert.False(t, IsValidPhoneNumber("123"))
	assert.False(t, IsValidPhoneNumber("abcdefgh"))
	assert.False(t, IsValidPhoneNumber(""))
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()
	errs := ValidationErrors{
		{Field: "name", Message: "is required"},
		{Field: "email", Message: "is not a valid email address"},
	}
	assert.Equal(t, "name: is required; email: is not a valid email address", errs.Error())
}

func TestValidationErrors_ToMap(t *testing.T) {
	t.Parallel()
	errs := ValidationErrors{
		{Field: "name", Message: "is required"},
	}
	assert.Equal(t, map[string]string{"name": "is required"}, errs.ToMap())
}
