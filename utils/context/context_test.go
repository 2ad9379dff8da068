package context

import (
	"context"
	"testing"

	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/models"
	"github.com/stretchr/testify/assert"
)

func TestIdentityRoundTrip(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	identity := models.Identity{ID: "u1", Name: "Ana Cruz", Email: "ana@example.com", Role: enums.RolePatient}
	ctx := WithIdentity(context.Background(), identity)

	got, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, identity, got)
}

func TestTokenFromContext(t *testing.T) {
	assert.Equal(t, "", TokenFromContext(context.Background()))
	assert.Equal(t, "abc", TokenFromContext(WithToken(context.Background(), "abc")))
}

func TestKeysDoNotCollideWithStrings(t *testing.T) {
	ctx := context.WithValue(context.Background(), "requestToken", "leaked")
	assert.Equal(t, "", TokenFromContext(ctx))
}
