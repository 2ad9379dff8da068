package session

import (
	"context"
	"errors"

	"github.com/octabyte/medtrack-gommon/models"
	"github.com/octabyte/medtrack-gommon/rbac"
	"github.com/octabyte/medtrack-gommon/tokenstore"
)

// ErrSessionExpired means a multi-page flow lost its cached state and must be
// restarted from its first page.
var ErrSessionExpired = errors.New("session expired, please restart the process")

type AccountAPI interface {
	Register(ctx context.Context, req models.Registration) error
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, req models.OTPVerification) error
	ForgotPassword(ctx context.Context, email string) error
	ForgotPasswordToken(ctx context.Context, req models.OTPVerification) (string, error)
	ResetPassword(ctx context.Context, req models.PasswordReset) error
}

// Accounts runs registration and password reset. The email cache bridges the
// pages of both flows; the reset token cache bridges the last two reset
// pages. Each method returns the route to show next.
type Accounts struct {
	api   AccountAPI
	email tokenstore.Store
	reset tokenstore.Store
	opts  Options
}

func NewAccounts(api AccountAPI, email, reset tokenstore.Store, opts Options) *Accounts {
	return &Accounts{api: api, email: email, reset: reset, opts: opts.withDefaults("accounts")}
}

func (a *Accounts) Register(ctx context.Context, req models.Registration) (string, error) {
	if err := a.api.Register(ctx, req); err != nil {
		return "", err
	}
	if err := a.email.Set(ctx, req.Email); err != nil {
		return "", err
	}
	return VerifyOTPPath, nil
}

// ResendOTP mails a new verification code to the cached email.
func (a *Accounts) ResendOTP(ctx context.Context) error {
	email, err := a.cachedEmail(ctx)
	if err != nil {
		return err
	}
	return a.api.SendOTP(ctx, email)
}

// VerifyEmail confirms the account with the six digit code and forgets the
// cached email.
func (a *Accounts) VerifyEmail(ctx context.Context, otp string) (string, error) {
	email, err := a.cachedEmail(ctx)
	if err != nil {
		return "", err
	}
	if err = a.api.VerifyOTP(ctx, models.OTPVerification{Email: email, OTP: otp}); err != nil {
		return "", err
	}
	if err = a.email.Clear(ctx); err != nil {
		a.opts.Logger.Warn("failed to clear cached email")
	}
	return rbac.LoginPath, nil
}

func (a *Accounts) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := a.api.ForgotPassword(ctx, email); err != nil {
		return "", err
	}
	if err := a.email.Set(ctx, email); err != nil {
		return "", err
	}
	return ResetVerifyPath, nil
}

func (a *Accounts) ResendResetCode(ctx context.Context) error {
	email, err := a.cachedEmail(ctx)
	if err != nil {
		return err
	}
	return a.api.ForgotPassword(ctx, email)
}

// VerifyResetCode trades the mailed code for a reset token and caches it.
func (a *Accounts) VerifyResetCode(ctx context.Context, otp string) (string, error) {
	email, err := a.cachedEmail(ctx)
	if err != nil {
		return "", err
	}
	token, err := a.api.ForgotPasswordToken(ctx, models.OTPVerification{Email: email, OTP: otp})
	if err != nil {
		return "", err
	}
	if err = a.reset.Set(ctx, token); err != nil {
		return "", err
	}
	return ResetPasswordPath, nil
}

// ResetPassword needs both the cached email and reset token; without them
// the flow has to start over.
func (a *Accounts) ResetPassword(ctx context.Context, password, confirmation string) (string, error) {
	email, err := a.cachedEmail(ctx)
	if err != nil {
		return "", err
	}
	token, ok, err := a.reset.Get(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrSessionExpired
	}

	if err = a.api.ResetPassword(ctx, models.PasswordReset{
		Email:                email,
		Token:                token,
		Password:             password,
		PasswordConfirmation: confirmation,
	}); err != nil {
		return "", err
	}

	if err = errors.Join(a.reset.Clear(ctx), a.email.Clear(ctx)); err != nil {
		a.opts.Logger.Warn("failed to clear reset state")
	}
	return rbac.LoginPath, nil
}

func (a *Accounts) cachedEmail(ctx context.Context) (string, error) {
	email, ok, err := a.email.Get(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrSessionExpired
	}
	return email, nil
}
