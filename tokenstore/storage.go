// Package tokenstore persists the session token and the small bits of
// client state that survive between screens: the email awaiting OTP
// verification and the password reset token.
package tokenstore

import (
	"context"
	"errors"
)

// Well known keys. They match the names the browser client kept in local
// storage, so a profile file is readable next to it.
const (
	KeyToken      = "token"
	KeyEmail      = "email"
	KeyResetToken = "reset-token"
)

var ErrEmptyValue = errors.New("tokenstore: empty value")

// Storage is a string key-value store scoped to one profile.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
