package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("alice@example.com"))
	assert.False(t, IsEmail("alice"))
	assert.False(t, IsEmail(""))
}

func TestUserResolution_Resolved(t *testing.T) {
	assert.True(t, UserResolution{State: StatePresent, ID: 1}.Resolved())
	assert.True(t, UserResolution{State: StateCreated, ID: 2}.Resolved())
	assert.False(t, UserResolution{State: StateUnresolved}.Resolved())
}
