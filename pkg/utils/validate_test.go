package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("user_42"))
	assert.NoError(t, ValidateUsername("ABC"))

	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 31)))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("dash-ed"))
	assert.Error(t, ValidateUsername(""))
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("  Alice  "))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@b.co"))
	assert.NoError(t, ValidateEmail("first.last+tag@example.org"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail("spaces in@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Passw0rd"))

	cases := map[string]string{
		"too short":    "Ab1",
		"no uppercase": "password1",
		"no lowercase": "PASSWORD1",
		"no digit":     "Passwords",
	}
	for name, pw := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidatePassword(pw))
		})
	}
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := ValidatePassword("short")
	verr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "password", verr.Field)
	assert.Equal(t, verr.Message, verr.Error())
}
