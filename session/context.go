package session

import (
	"sync"

	"github.com/octabyte/medtrack-gommon/models"
	"github.com/octabyte/medtrack-gommon/rbac"
)

// Reader is the read-only view of a session handed to views and commands.
type Reader interface {
	State() State
	Path() string
	// Identity is only available once the current navigation is verified.
	Identity() (models.Identity, bool)
	Capabilities() (rbac.Capabilities, bool)
}

// Context holds the verified identity. The Verifier is its only writer.
type Context struct {
	mu       sync.RWMutex
	state    State
	path     string
	identity models.Identity
}

var _ Reader = (*Context)(nil)

func NewContext() *Context {
	return &Context{state: StateStart}
}

func (c *Context) Reader() Reader {
	return c
}

func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Context) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

func (c *Context) Identity() (models.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateVerified {
		return models.Identity{}, false
	}
	return c.identity, true
}

func (c *Context) Capabilities() (rbac.Capabilities, bool) {
	identity, ok := c.Identity()
	if !ok {
		return rbac.Capabilities{}, false
	}
	return rbac.For(identity.Role)
}

func (c *Context) enter(path string, state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = path
	c.state = state
	c.identity = models.Identity{}
}

func (c *Context) verify(identity models.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateVerified
	c.identity = identity
}

func (c *Context) set(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}
