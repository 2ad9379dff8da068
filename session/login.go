package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/events"
	"github.com/octabyte/medtrack-gommon/models"
	"github.com/octabyte/medtrack-gommon/rbac"
	"github.com/octabyte/medtrack-gommon/tokenstore"
	"go.uber.org/zap"
)

var ErrOTPNotSent = errors.New("failed to send OTP, please try again later")

type LoginAPI interface {
	Login(ctx context.Context, creds models.Credentials) (models.LoginResponse, error)
	AdminLogin(ctx context.Context, creds models.Credentials) (models.LoginResponse, error)
	StaffLogin(ctx context.Context, creds models.Credentials) (models.LoginResponse, error)
	SendOTP(ctx context.Context, email string) error
}

type LoginResult struct {
	// Identity is what the login endpoint reported. The session context is
	// only written by the next verified navigation.
	Identity models.Identity
	// Next is the route to go to: the role's landing page, or the OTP page
	// when the account still needs email verification.
	Next              string
	NeedsVerification bool
}

// Authenticator exchanges credentials for a session token.
type Authenticator struct {
	api    LoginAPI
	tokens tokenstore.Store
	email  tokenstore.Store
	opts   Options
}

func NewAuthenticator(api LoginAPI, tokens, email tokenstore.Store, opts Options) *Authenticator {
	return &Authenticator{api: api, tokens: tokens, email: email, opts: opts.withDefaults("login")}
}

// Login tries the patient endpoint first. Bad credentials there fall through
// to the admin and then the staff endpoint. An unverified patient is sent a
// fresh OTP and routed to the verification page.
func (a *Authenticator) Login(ctx context.Context, creds models.Credentials) (LoginResult, error) {
	resp, err := a.api.Login(ctx, creds)
	switch {
	case err == nil:
		return a.complete(ctx, resp)
	case apierror.IsForbidden(err):
		return a.requireVerification(ctx, creds.Email)
	case !apierror.IsCredential(err):
		return LoginResult{}, err
	}

	for _, fallback := range []func(context.Context, models.Credentials) (models.LoginResponse, error){
		a.api.AdminLogin,
		a.api.StaffLogin,
	} {
		resp, err = fallback(ctx, creds)
		if err == nil {
			return a.complete(ctx, resp)
		}
		if !apierror.IsCredential(err) {
			return LoginResult{}, err
		}
	}
	return LoginResult{}, err
}

func (a *Authenticator) complete(ctx context.Context, resp models.LoginResponse) (LoginResult, error) {
	if err := a.tokens.Set(ctx, resp.Token); err != nil {
		return LoginResult{}, fmt.Errorf("store session token: %w", err)
	}

	a.opts.Logger.Info("logged in", zap.String("user_id", resp.Identity.ID), zap.String("role", resp.Identity.Role.String()))

	e := events.New(events.TypeLogin, a.opts.Now())
	e.UserID, e.Role = resp.Identity.ID, resp.Identity.Role
	a.opts.publish(ctx, e)

	return LoginResult{Identity: resp.Identity, Next: rbac.LandingRoute(resp.Identity.Role)}, nil
}

func (a *Authenticator) requireVerification(ctx context.Context, email string) (LoginResult, error) {
	if err := a.api.SendOTP(ctx, email); err != nil {
		return LoginResult{}, fmt.Errorf("%w: %w", ErrOTPNotSent, err)
	}
	if err := a.email.Set(ctx, email); err != nil {
		return LoginResult{}, fmt.Errorf("cache email: %w", err)
	}

	a.opts.Logger.Info("email verification required")
	return LoginResult{Next: VerifyOTPPath, NeedsVerification: true}, nil
}
