package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("user@example.com"))
	assert.True(t, ValidEmail("first.last+tag@sub.domain.org"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@tld"))
	assert.False(t, ValidEmail("@example.com"))
	assert.False(t, ValidEmail(""))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("Passw0rd!"))
	assert.True(t, ValidPassword("a1!aaaaa"))
	assert.False(t, ValidPassword("short1!"))
	assert.False(t, ValidPassword("lettersonly!"))
	assert.False(t, ValidPassword("12345678!"))
	assert.False(t, ValidPassword("Password1"))
}
