// Package session bootstraps and guards an authenticated session: it logs
// in, runs the account flows, and verifies the stored token on every
// protected navigation before any view reads the identity.
package session

import (
	"github.com/octabyte/medtrack-gommon/api"
	"github.com/octabyte/medtrack-gommon/tokenstore"
)

// Session wires every part of a session to one api client and one storage.
type Session struct {
	*Verifier
	Auth     *Authenticator
	Accounts *Accounts
	Context  *Context
	Tokens   *tokenstore.Cell
}

func New(client *api.Client, storage tokenstore.Storage, opts Options) *Session {
	tokens := tokenstore.NewTokenStore(storage)
	email := tokenstore.NewEmailCache(storage)
	reset := tokenstore.NewResetTokenCache(storage)
	ctx := NewContext()

	return &Session{
		Verifier: NewVerifier(client.Auth, tokens, ctx, opts),
		Auth:     NewAuthenticator(client.Auth, tokens, email, opts),
		Accounts: NewAccounts(client.Auth, email, reset, opts),
		Context:  ctx,
		Tokens:   tokens,
	}
}

// Reader returns the read-only session view.
func (s *Session) Reader() Reader {
	return s.Context.Reader()
}
