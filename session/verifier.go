package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/events"
	"github.com/octabyte/medtrack-gommon/models"
	"github.com/octabyte/medtrack-gommon/rbac"
	"github.com/octabyte/medtrack-gommon/tokenstore"
	"github.com/octabyte/medtrack-gommon/utils/logger"
	"go.uber.org/zap"
)

// Authority answers who owns the stored token.
type Authority interface {
	Verify(ctx context.Context, path string) (models.Identity, error)
}

type Options struct {
	Logger *zap.Logger
	Events events.Sink
	Now    func() time.Time
}

func (o Options) withDefaults(name string) Options {
	o.Logger = logger.OrGlobal(o.Logger).Named(name)
	if o.Events == nil {
		o.Events = events.Discard{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) publish(ctx context.Context, e events.Event) {
	if err := o.Events.Publish(ctx, e); err != nil {
		o.Logger.Warn("failed to publish session event", zap.String("type", string(e.Type)), zap.Error(err))
	}
}

// Outcome is the result of one navigation.
type Outcome struct {
	Path      string
	Protected bool
	State     State
	Identity  models.Identity
	// Redirect is set when the caller must leave the page.
	Redirect string
	Reason   Reason
	// Stale marks a result superseded by a newer navigation. Nothing was
	// written for it.
	Stale bool
}

// Verifier runs the session state machine. Every navigation into a protected
// area starts over from Start and makes at most one verification call.
type Verifier struct {
	authority Authority
	tokens    tokenstore.Store
	session   *Context
	opts      Options

	mu  sync.Mutex
	gen uint64
}

func NewVerifier(authority Authority, tokens tokenstore.Store, session *Context, opts Options) *Verifier {
	return &Verifier{
		authority: authority,
		tokens:    tokens,
		session:   session,
		opts:      opts.withDefaults("session"),
	}
}

// Navigate verifies the session for path. Public paths pass through without
// touching the session.
func (v *Verifier) Navigate(ctx context.Context, path string) Outcome {
	area, ok := AreaFor(path)
	if !ok {
		return Outcome{Path: path, State: v.session.State()}
	}

	gen := v.begin(path)

	_, found, err := v.tokens.Get(ctx)
	if err != nil {
		v.opts.Logger.Warn("failed to read session token", zap.Error(err))
	}
	if !found || err != nil {
		return v.reject(ctx, gen, path, ReasonNoToken, err)
	}

	if !v.transition(gen, StateVerifying) {
		return Outcome{Path: path, Protected: true, Stale: true}
	}

	identity, err := v.authority.Verify(ctx, area.VerifyPath)
	if err != nil {
		return v.reject(ctx, gen, path, reasonFor(err), err)
	}
	if !area.Admits(identity.Role) {
		return v.reject(ctx, gen, path, ReasonRoleMismatch, nil)
	}
	return v.accept(ctx, gen, path, identity)
}

// Logout drops the token and identity. In-flight verifications are
// discarded.
func (v *Verifier) Logout(ctx context.Context) (string, error) {
	v.mu.Lock()
	v.gen++
	identity, _ := v.session.Identity()
	err := v.tokens.Clear(ctx)
	v.session.enter(rbac.LoginPath, StateUnauthenticated)
	v.mu.Unlock()

	e := events.New(events.TypeLogout, v.opts.Now())
	e.UserID, e.Role = identity.ID, identity.Role
	v.opts.publish(ctx, e)

	v.opts.Logger.Info("logged out")
	return rbac.LoginPath, err
}

type Access int

const (
	AccessGranted Access = iota
	AccessForbidden
)

// CheckAccess re-asks the admin verification endpoint before a page that
// needs action, e.g. the staff directory. A 403 or a role without action
// yields AccessForbidden and leaves the session alone.
func (v *Verifier) CheckAccess(ctx context.Context, action rbac.Action) (Access, error) {
	identity, err := v.authority.Verify(ctx, AdminArea.VerifyPath)
	if apierror.IsForbidden(err) {
		return AccessForbidden, nil
	}
	if err != nil {
		return AccessForbidden, err
	}
	if caps, ok := rbac.For(identity.Role); !ok || !caps.Can(action) {
		return AccessForbidden, nil
	}
	return AccessGranted, nil
}

func (v *Verifier) begin(path string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.session.enter(path, StateStart)
	v.opts.Logger.Debug("navigation", zap.String("path", path), zap.Uint64("generation", v.gen))
	return v.gen
}

func (v *Verifier) transition(gen uint64, state State) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return false
	}
	v.opts.Logger.Debug("session state", zap.Stringer("from", v.session.State()), zap.Stringer("to", state))
	v.session.set(state)
	return true
}

func (v *Verifier) reject(ctx context.Context, gen uint64, path string, reason Reason, cause error) Outcome {
	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		v.opts.Logger.Debug("discarded stale rejection", zap.String("path", path))
		return Outcome{Path: path, Protected: true, Stale: true}
	}
	if err := v.tokens.Clear(ctx); err != nil {
		v.opts.Logger.Warn("failed to clear session token", zap.Error(err))
	}
	v.session.enter(path, StateUnauthenticated)
	v.mu.Unlock()

	fields := []zap.Field{zap.String("path", path), zap.String("reason", string(reason))}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	v.opts.Logger.Info("session rejected", fields...)

	e := events.New(events.TypeRejected, v.opts.Now())
	e.Path, e.Reason = path, string(reason)
	v.opts.publish(ctx, e)

	return Outcome{
		Path:      path,
		Protected: true,
		State:     StateUnauthenticated,
		Redirect:  rbac.LoginPath,
		Reason:    reason,
	}
}

func (v *Verifier) accept(ctx context.Context, gen uint64, path string, identity models.Identity) Outcome {
	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		v.opts.Logger.Debug("discarded stale identity", zap.String("path", path))
		return Outcome{Path: path, Protected: true, Stale: true}
	}
	v.session.verify(identity)
	v.mu.Unlock()

	v.opts.Logger.Debug("session verified",
		zap.String("path", path),
		zap.String("user_id", identity.ID),
		zap.String("role", identity.Role.String()),
	)

	e := events.New(events.TypeVerified, v.opts.Now())
	e.Path, e.UserID, e.Role = path, identity.ID, identity.Role
	v.opts.publish(ctx, e)

	return Outcome{Path: path, Protected: true, State: StateVerified, Identity: identity}
}

func reasonFor(err error) Reason {
	var apiErr *apierror.Error
	switch {
	case apierror.IsNetwork(err):
		return ReasonUnreachable
	case errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusMultipleChoices:
		return ReasonInvalidIdentity
	default:
		return ReasonRejected
	}
}
