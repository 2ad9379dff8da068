package context

import (
	"context"

	"github.com/octabyte/medtrack-gommon/models"
)

type key int

const (
	identityKey key = iota
	tokenKey
)

// WithIdentity stores the verified identity on ctx.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
