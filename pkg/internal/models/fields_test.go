package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdIsParseable(t *testing.T) {
	id := NewId()
	assert.Len(t, string(id), 36)

	parsed, err := ParseId(string(id))
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseIdRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-uuid", "123", strings.Repeat("a", 36)} {
		_, err := ParseId(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestNewNameBounds(t *testing.T) {
	name, err := NewName("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", name.String())

	_, err = NewName("")
	assert.Error(t, err)
	_, err = NewName("   ")
	assert.Error(t, err, "blank names are rejected")
	_, err = NewName(strings.Repeat("a", 33))
	assert.Error(t, err)

	_, err = NewName(strings.Repeat("a", 32))
	assert.NoError(t, err)
}

func TestNewTitleBounds(t *testing.T) {
	_, err := NewTitle(strings.Repeat("t", 128))
	assert.NoError(t, err)
	_, err = NewTitle(strings.Repeat("t", 129))
	assert.Error(t, err)
	_, err = NewTitle("")
	assert.Error(t, err)
}

func TestNewContentBounds(t *testing.T) {
	_, err := NewContent(strings.Repeat("c", 1024))
	assert.NoError(t, err)
	_, err = NewContent(strings.Repeat("c", 1025))
	assert.Error(t, err)
	_, err = NewContent(" ")
	assert.Error(t, err)
}

func TestFieldErrorMessage(t *testing.T) {
	_, err := NewName("")
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "name", fieldErr.Field)
	assert.Contains(t, err.Error(), "invalid name")
}
