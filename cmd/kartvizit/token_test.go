package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIdentity(t *testing.T) {
	id := uuid.New()

	identity, err := buildIdentity(id.String(), true)
	require.NoError(t, err)
	assert.Equal(t, id, identity.UserID)
	assert.True(t, identity.IsSystem)

	generated, err := buildIdentity("", false)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, generated.UserID)
	assert.False(t, generated.IsSystem)

	_, err = buildIdentity("not-a-uuid", false)
	assert.Error(t, err)
}
