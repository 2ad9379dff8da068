package mockapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/models"
)

type emailOTP struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// login only admits patients; staff and admins get 401 so the client moves
// on to the other login endpoints. Unverified patients get 403.
func (s *Server) login(c echo.Context) error {
	var creds models.Credentials
	if err := c.Bind(&creds); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body.")
	}

	user, verified, err := s.store.authenticate(creds.Email, creds.Password)
	if err != nil || user.Role != enums.RolePatient {
		return message(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if !verified {
		return message(c, http.StatusForbidden, "Please verify your email address.")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token":     s.store.issueToken(user.ID),
		"user_info": identityOf(user),
	})
}

func (s *Server) roleLogin(role enums.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var creds models.Credentials
		if err := c.Bind(&creds); err != nil {
			return message(c, http.StatusBadRequest, "Invalid request body.")
		}

		user, _, err := s.store.authenticate(creds.Email, creds.Password)
		if err != nil || user.Role != role {
			return message(c, http.StatusUnauthorized, "Invalid credentials")
		}

		return c.JSON(http.StatusOK, echo.Map{
			"token":      s.store.issueToken(user.ID),
			"admin_info": identityOf(user),
		})
	}
}

func (s *Server) verified(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user_info": caller(c)})
}

func (s *Server) mail(email string) {
	code := s.opts.OTP()
	s.store.setOTP(email, code)
	if s.opts.Mailer != nil {
		s.opts.Mailer(email, code)
	}
}

func (s *Server) register(c echo.Context) error {
	var req models.Registration
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" || req.Name == "" {
		return message(c, http.StatusUnprocessableEntity, "Name, email and password are required.")
	}

	if _, err := s.store.addUser(req.Name, req.Email, req.Password, enums.RolePatient, "", false); err != nil {
		if errors.Is(err, errEmailTaken) {
			return message(c, http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	s.mail(req.Email)
	return message(c, http.StatusCreated, "Registered. Check your email for the verification code.")
}

func (s *Server) sendOTP(c echo.Context) error {
	var req emailOTP
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body.")
	}
	if _, ok := s.store.userByEmail(req.Email); !ok {
		return message(c, http.StatusNotFound, "No account uses that email.")
	}
	s.mail(req.Email)
	return message(c, http.StatusOK, "Verification code sent.")
}

func (s *Server) verifyOTP(c echo.Context) error {
	var req emailOTP
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body.")
	}
	if !s.store.consumeOTP(req.Email, req.OTP) {
		return message(c, http.StatusUnprocessableEntity, "Invalid or expired code.")
	}
	s.store.markVerified(req.Email)
	return message(c, http.StatusOK, "Email verified.")
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req emailOTP
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body.")
	}
	if _, ok := s.store.userByEmail(req.Email); !ok {
		return message(c, http.StatusNotFound, "No account uses that email.")
	}
	s.mail(req.Email)
	return message(c, http.StatusOK, "Reset code sent.")
}

func (s *Server) forgotPasswordToken(c echo.Context) error {
	var req emailOTP
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body.")
	}
	if !s.store.consumeOTP(req.Email, req.OTP) {
		return message(c, http.StatusUnprocessableEntity, "Invalid or expired code.")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": s.store.issueResetToken(req.Email)})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req models.PasswordReset
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body.")
	}
	if req.Password == "" || req.Password != req.PasswordConfirmation {
		return message(c, http.StatusUnprocessableEntity, "The password confirmation does not match.")
	}
	if err := s.store.resetPassword(req.Email, req.Token, req.Password); err != nil {
		if errors.Is(err, errNotFound) {
			return message(c, http.StatusUnprocessableEntity, "Invalid reset token.")
		}
		return err
	}
	return message(c, http.StatusOK, "Password updated.")
}

func (s *Server) registerStaff(c echo.Context) error {
	var req models.StaffRegistration
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" || req.Name == "" {
		return message(c, http.StatusUnprocessableEntity, "Name, email and password are required.")
	}
	if req.Role != enums.RoleStaff && req.Role != enums.RoleAdmin {
		return message(c, http.StatusUnprocessableEntity, "Role must be staff or admin.")
	}

	user, err := s.store.addUser(req.Name, req.Email, req.Password, req.Role, req.PhoneNumber, true)
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			return message(c, http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": user})
}
