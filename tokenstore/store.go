package tokenstore

import (
	"context"
	"fmt"
	"strings"
)

// Store holds a single value. The session token, the OTP email and the reset
// token are each one Store over the same Storage.
type Store interface {
	Set(ctx context.Context, value string) error
	Get(ctx context.Context) (string, bool, error)
	Clear(ctx context.Context) error
}

// Cell is a Store bound to one Storage key.
type Cell struct {
	storage Storage
	key     string
}

func NewCell(storage Storage, key string) *Cell {
	return &Cell{storage: storage, key: key}
}

// NewTokenStore returns the Store holding the bearer token.
func NewTokenStore(storage Storage) *Cell {
	return NewCell(storage, KeyToken)
}

// NewEmailCache returns the Store bridging the email between the form that
// sent an OTP and the page that verifies it.
func NewEmailCache(storage Storage) *Cell {
	return NewCell(storage, KeyEmail)
}

// NewResetTokenCache returns the Store holding the password reset token.
func NewResetTokenCache(storage Storage) *Cell {
	return NewCell(storage, KeyResetToken)
}

func (c *Cell) Key() string {
	return c.key
}

// Set overwrites the value. Blank values are rejected; use Clear instead.
func (c *Cell) Set(ctx context.Context, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w for %q", ErrEmptyValue, c.key)
	}
	if err := c.storage.Set(ctx, c.key, value); err != nil {
		return fmt.Errorf("tokenstore: set %q: %w", c.key, err)
	}
	return nil
}

// Get reports false when nothing is stored. An empty stored value counts as
// absent.
func (c *Cell) Get(ctx context.Context) (string, bool, error) {
	value, ok, err := c.storage.Get(ctx, c.key)
	if err != nil {
		return "", false, fmt.Errorf("tokenstore: get %q: %w", c.key, err)
	}
	if !ok || value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// Clear is idempotent.
func (c *Cell) Clear(ctx context.Context) error {
	if err := c.storage.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("tokenstore: clear %q: %w", c.key, err)
	}
	return nil
}
