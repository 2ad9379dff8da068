package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/models"
	"github.com/tidwall/gjson"
)

// AuthService covers credential exchange, verification and the account
// lifecycle endpoints.
type AuthService struct {
	t *transport
}

func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (models.LoginResponse, error) {
	return s.exchange(ctx, "/api/login", creds, "user_info")
}

func (s *AuthService) AdminLogin(ctx context.Context, creds models.Credentials) (models.LoginResponse, error) {
	return s.exchange(ctx, "/api/admin-login", creds, "admin_info")
}

func (s *AuthService) StaffLogin(ctx context.Context, creds models.Credentials) (models.LoginResponse, error) {
	return s.exchange(ctx, "/api/staff-login", creds, "admin_info", "user_info")
}

func (s *AuthService) exchange(ctx context.Context, path string, creds models.Credentials, identityPaths ...string) (models.LoginResponse, error) {
	if err := s.t.check(creds); err != nil {
		return models.LoginResponse{}, err
	}

	body, err := s.t.public(ctx, call{method: http.MethodPost, path: path, body: creds})
	if err != nil {
		return models.LoginResponse{}, err
	}

	token := gjson.GetBytes(body.data, "token").String()
	if token == "" {
		return models.LoginResponse{}, apierror.Malformed(body.status, fmt.Errorf("%s: no token", path))
	}
	identity, err := decodeIdentity(body, identityPaths...)
	if err != nil {
		return models.LoginResponse{}, err
	}
	return models.LoginResponse{Token: token, Identity: identity}, nil
}

// VerifyAdmin asks the backend who owns the stored token, admitting admin
// and staff accounts.
func (s *AuthService) VerifyAdmin(ctx context.Context) (models.Identity, error) {
	return s.verify(ctx, "/api/verify-admin")
}

// VerifyUser is VerifyAdmin for the patient area.
func (s *AuthService) VerifyUser(ctx context.Context) (models.Identity, error) {
	return s.verify(ctx, "/api/verify-user")
}

// Verify calls an arbitrary verification endpoint.
func (s *AuthService) Verify(ctx context.Context, path string) (models.Identity, error) {
	return s.verify(ctx, path)
}

func (s *AuthService) verify(ctx context.Context, path string) (models.Identity, error) {
	body, err := s.t.private(ctx, call{method: http.MethodGet, path: path})
	if err != nil {
		return models.Identity{}, err
	}
	return decodeIdentity(body, "user_info", "admin_info")
}

func (s *AuthService) Register(ctx context.Context, req models.Registration) error {
	if err := s.t.check(req); err != nil {
		return err
	}
	_, err := s.t.public(ctx, call{method: http.MethodPost, path: "/api/register", body: req})
	return err
}

type emailBody struct {
	Email string `json:"email" validate:"required,email"`
}

// SendOTP (re)sends the email verification code.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	req := emailBody{Email: email}
	if err := s.t.check(req); err != nil {
		return err
	}
	_, err := s.t.public(ctx, call{method: http.MethodPost, path: "/api/send-otp", body: req})
	return err
}

func (s *AuthService) VerifyOTP(ctx context.Context, req models.OTPVerification) error {
	if err := s.t.check(req); err != nil {
		return err
	}
	_, err := s.t.public(ctx, call{method: http.MethodPost, path: "/api/verify-otp", body: req})
	return err
}

// ForgotPassword mails a reset code to email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	req := emailBody{Email: email}
	if err := s.t.check(req); err != nil {
		return err
	}
	_, err := s.t.public(ctx, call{method: http.MethodPost, path: "/api/forgot-password", body: req})
	return err
}

// ForgotPasswordToken exchanges the mailed code for a reset token.
func (s *AuthService) ForgotPasswordToken(ctx context.Context, req models.OTPVerification) (string, error) {
	if err := s.t.check(req); err != nil {
		return "", err
	}
	body, err := s.t.public(ctx, call{method: http.MethodPost, path: "/api/forgot-password-token", body: req})
	if err != nil {
		return "", err
	}
	token := gjson.GetBytes(body.data, "token").String()
	if token == "" {
		return "", apierror.Malformed(body.status, fmt.Errorf("forgot-password-token: no token"))
	}
	return token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.PasswordReset) error {
	if err := s.t.check(req); err != nil {
		return err
	}
	_, err := s.t.public(ctx, call{method: http.MethodPost, path: "/api/reset-password", body: req})
	return err
}
