// Package mockapi is an in-memory stand-in for the clinic backend. It speaks
// the same routes and envelopes, and backs local development and the client
// tests.
package mockapi

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/interfaces/http/echo/middleware"
	"github.com/octabyte/medtrack-gommon/models"
	otelecho "github.com/octabyte/medtrack-gommon/otel/echo"
)

const (
	dateLayout      = "2006-01-02"
	defaultPageSize = 10
)

type Options struct {
	PageSize int
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
	// OTP generates verification codes; defaults to six random digits.
	OTP func() string
	// Mailer receives every code that would have been emailed.
	Mailer func(email, code string)
	// Tracing wraps every route in a server span.
	Tracing bool
}

type Server struct {
	echo   *echo.Echo
	store  *Store
	opts   Options
	hitsMu sync.Mutex
	hits   map[string]int
}

func New(opts Options) *Server {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OTP == nil {
		opts.OTP = randomOTP
	}

	s := &Server{
		echo:  echo.New(),
		store: newStore(opts.Now),
		opts:  opts,
		hits:  make(map[string]int),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Echo exposes the router for callers that want to start it themselves.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Hits returns how many requests reached "METHOD /route".
func (s *Server) Hits(method, route string) int {
	s.hitsMu.Lock()
	defer s.hitsMu.Unlock()
	return s.hits[method+" "+route]
}

func (s *Server) countHits(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.hitsMu.Lock()
		s.hits[c.Request().Method+" "+c.Path()]++
		s.hitsMu.Unlock()
		return next(c)
	}
}

func (s *Server) routes() {
	e := s.echo
	e.Use(echomw.Recover())
	if s.opts.Tracing {
		e.Use(otelecho.Middleware("medtrack-mockapi"))
	}
	e.Use(s.countHits)
	e.Use(middleware.SetTokenInContext(), middleware.SetSessionInContext(s.store))

	staff := middleware.RequireRole(enums.RoleAdmin, enums.RoleStaff)
	admin := middleware.RequireRole(enums.RoleAdmin)
	patient := middleware.RequireRole(enums.RolePatient)
	anyone := middleware.RequireRole()

	e.GET("/health", func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{"status": "ok"}) })

	auth := e.Group("/api")
	auth.POST("/login", s.login)
	auth.POST("/admin-login", s.roleLogin(enums.RoleAdmin))
	auth.POST("/staff-login", s.roleLogin(enums.RoleStaff))
	auth.POST("/register", s.register)
	auth.POST("/send-otp", s.sendOTP)
	auth.POST("/verify-otp", s.verifyOTP)
	auth.POST("/forgot-password", s.forgotPassword)
	auth.POST("/forgot-password-token", s.forgotPasswordToken)
	auth.POST("/reset-password", s.resetPassword)
	auth.GET("/verify-admin", s.verified, staff)
	auth.GET("/verify-user", s.verified, patient)
	auth.POST("/register-staff", s.registerStaff, admin)

	appts := e.Group("/appointments")
	appts.GET("", s.listAppointments, staff)
	appts.GET("/my-appointments", s.myAppointments, patient)
	appts.GET("/user-appointments/:id", s.userAppointments, staff)
	appts.GET("/my-dashboard", s.dashboard, patient)
	appts.POST("", s.createAppointment, patient)
	appts.PATCH("/:id", s.updateAppointmentStatus, anyone)

	records := e.Group("/medical-records")
	records.GET("", s.listRecords, staff)
	records.GET("/my-records", s.myRecords, patient)
	records.GET("/user-records/:id", s.userRecords, staff)
	records.POST("", s.createRecord, staff)
	records.PUT("/:id", s.updateRecord, staff)
	records.DELETE("/:id", s.deleteRecord, staff)

	users := e.Group("/users")
	users.GET("/all", s.listUsers, staff)
	users.GET("/my-profile", s.myProfile, anyone)
	users.PATCH("", s.updateProfile, anyone)
	users.PUT("/staff/:id", s.updateStaff, admin)
	users.DELETE("/staff/:id", s.deleteStaff, admin)
	users.GET("/:id", s.getUser, staff)

	e.GET("/analytics", s.analytics, staff)
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}

func caller(c echo.Context) models.Identity {
	identity, _ := middleware.IdentityFrom(c)
	return identity
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func filterFrom(c echo.Context) filter {
	return filter{
		search:    c.QueryParam("search"),
		status:    c.QueryParam("status"),
		startDate: c.QueryParam("startDate"),
		endDate:   c.QueryParam("endDate"),
	}
}

// paged writes {data: {data, nextPage}}; nextPage is null on the last page.
func paged[T any](c echo.Context, items []T, size int) error {
	page := pageParam(c)
	start := (page - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	var next interface{}
	if end < len(items) {
		next = true
	}
	window := items[start:end]
	if window == nil {
		window = []T{}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": echo.Map{"data": window, "nextPage": next}})
}

func randomOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// Seed adds a user directly, bypassing registration.
func (s *Server) Seed(name, email, password string, role enums.Role, verified bool) (models.User, error) {
	return s.store.addUser(name, email, password, role, "", verified)
}

// SeedAppointment books an appointment for patientID on date.
func (s *Server) SeedAppointment(patientID string, date time.Time, complaint string, status enums.AppointmentStatus) (models.Appointment, error) {
	patient, ok := s.store.user(patientID)
	if !ok {
		return models.Appointment{}, errNotFound
	}
	appt := s.store.addAppointment(patient, date, complaint, "")
	if status != "" && status != appt.Status {
		return s.store.setAppointmentStatus(appt.ID, status, nil)
	}
	return appt, nil
}

// IssueToken logs userID in without credentials.
func (s *Server) IssueToken(userID string) string {
	return s.store.issueToken(userID)
}
