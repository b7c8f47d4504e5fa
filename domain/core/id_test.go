package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRunIDIsUnique(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	assert.False(t, ID(a).IsEmpty())
	assert.NotEqual(t, a, b)
}

func TestTimestamp(t *testing.T) {
	now := Now()
	assert.False(t, now.IsZero())
	assert.NotEmpty(t, now.String())
}
