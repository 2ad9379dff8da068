package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/httpclient"
	"github.com/octabyte/medtrack-gommon/mockapi"
	"github.com/octabyte/medtrack-gommon/models"
	"github.com/octabyte/medtrack-gommon/tokenstore"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var fixedNow = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }

type APITestSuite struct {
	suite.Suite
	ctx     context.Context
	backend *mockapi.Server
	server  *httptest.Server
	tokens  *tokenstore.Cell
	client  *Client
	patient models.User
	staff   models.User
	admin   models.User
	otp     string
}

func (s *APITestSuite) SetupTest() {
	s.ctx = context.Background()
	s.otp = "123456"
	s.backend = mockapi.New(mockapi.Options{Now: fixedNow, OTP: func() string { return s.otp }})
	s.server = httptest.NewServer(s.backend)

	var err error
	s.patient, err = s.backend.Seed("Ana Cruz", "ana@example.com", "secret", enums.RolePatient, true)
	s.Require().NoError(err)
	s.staff, err = s.backend.Seed("Ben Reyes", "ben@example.com", "secret", enums.RoleStaff, true)
	s.Require().NoError(err)
	s.admin, err = s.backend.Seed("Dee Santos", "dee@example.com", "secret", enums.RoleAdmin, true)
	s.Require().NoError(err)

	cfg := httpclient.Config{BaseURL: s.server.URL, Logger: zap.NewNop()}
	s.tokens = tokenstore.NewTokenStore(tokenstore.NewMemoryStorage())
	plain, err := httpclient.NewPlain(cfg)
	s.Require().NoError(err)
	authenticated, err := httpclient.NewAuthenticated(cfg, s.tokens)
	s.Require().NoError(err)
	s.client = New(plain, authenticated, zap.NewNop())
}

func (s *APITestSuite) TearDownTest() {
	s.server.Close()
}

func (s *APITestSuite) loginAs(user models.User) {
	s.Require().NoError(s.tokens.Set(s.ctx, s.backend.IssueToken(user.ID)))
}

func (s *APITestSuite) TestLoginEndpoints() {
	resp, err := s.client.Auth.Login(s.ctx, models.Credentials{Email: "ana@example.com", Password: "secret"})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)
	s.Equal(s.patient.ID, resp.Identity.ID)
	s.Equal(enums.RolePatient, resp.Identity.Role)

	_, err = s.client.Auth.Login(s.ctx, models.Credentials{Email: "dee@example.com", Password: "secret"})
	s.True(apierror.IsCredential(err))

	resp, err = s.client.Auth.AdminLogin(s.ctx, models.Credentials{Email: "dee@example.com", Password: "secret"})
	s.Require().NoError(err)
	s.Equal(enums.RoleAdmin, resp.Identity.Role)

	resp, err = s.client.Auth.StaffLogin(s.ctx, models.Credentials{Email: "ben@example.com", Password: "secret"})
	s.Require().NoError(err)
	s.Equal(enums.RoleStaff, resp.Identity.Role)

	_, err = s.client.Auth.Login(s.ctx, models.Credentials{Email: "not-an-email", Password: "x"})
	s.True(apierror.IsValidation(err))
	s.Equal(2, s.backend.Hits(http.MethodPost, "/api/login"))
}

func (s *APITestSuite) TestVerifySendsStoredBearer() {
	_, err := s.client.Auth.VerifyUser(s.ctx)
	s.True(apierror.IsCredential(err))

	s.loginAs(s.patient)
	identity, err := s.client.Auth.VerifyUser(s.ctx)
	s.Require().NoError(err)
	s.Equal("Ana Cruz", identity.Name)

	_, err = s.client.Auth.VerifyAdmin(s.ctx)
	s.True(apierror.IsForbidden(err))
}

func (s *APITestSuite) TestRegistrationAndOTP() {
	err := s.client.Auth.Register(s.ctx, models.Registration{Name: "Eli Go", Email: "eli@example.com", Password: "pw"})
	s.Require().NoError(err)

	err = s.client.Auth.Register(s.ctx, models.Registration{Name: "Eli Go", Email: "eli@example.com", Password: "pw"})
	s.True(apierror.IsValidation(err))
	s.Equal("The email has already been taken.", apierror.MessageOf(err))

	err = s.client.Auth.VerifyOTP(s.ctx, models.OTPVerification{Email: "eli@example.com", OTP: "12345"})
	s.True(apierror.IsValidation(err), "five digits never leave the client")

	err = s.client.Auth.VerifyOTP(s.ctx, models.OTPVerification{Email: "eli@example.com", OTP: "654321"})
	s.True(apierror.IsValidation(err))

	s.Require().NoError(s.client.Auth.SendOTP(s.ctx, "eli@example.com"))
	s.Require().NoError(s.client.Auth.VerifyOTP(s.ctx, models.OTPVerification{Email: "eli@example.com", OTP: "123456"}))

	_, err = s.client.Auth.Login(s.ctx, models.Credentials{Email: "eli@example.com", Password: "pw"})
	s.NoError(err)
}

func (s *APITestSuite) TestPasswordReset() {
	s.Require().NoError(s.client.Auth.ForgotPassword(s.ctx, "ana@example.com"))
	token, err := s.client.Auth.ForgotPasswordToken(s.ctx, models.OTPVerification{Email: "ana@example.com", OTP: "123456"})
	s.Require().NoError(err)
	s.NotEmpty(token)

	err = s.client.Auth.ResetPassword(s.ctx, models.PasswordReset{Email: "ana@example.com", Token: token, Password: "a", PasswordConfirmation: "b"})
	s.True(apierror.IsValidation(err))

	err = s.client.Auth.ResetPassword(s.ctx, models.PasswordReset{Email: "ana@example.com", Token: token, Password: "fresh", PasswordConfirmation: "fresh"})
	s.Require().NoError(err)

	_, err = s.client.Auth.Login(s.ctx, models.Credentials{Email: "ana@example.com", Password: "fresh"})
	s.NoError(err)
}

func (s *APITestSuite) TestAppointments() {
	s.loginAs(s.patient)
	s.Require().NoError(s.client.Appointments.Create(s.ctx, models.CreateAppointment{Date: "2025-06-10", ChiefComplaint: "cough"}))
	s.Require().NoError(s.client.Appointments.Create(s.ctx, models.CreateAppointment{Date: "2025-06-12", ChiefComplaint: "fever"}))

	err := s.client.Appointments.Create(s.ctx, models.CreateAppointment{Date: "06/12/2025", ChiefComplaint: "fever"})
	s.True(apierror.IsValidation(err))

	mine, err := s.client.Appointments.Mine(s.ctx, ListParams{})
	s.Require().NoError(err)
	s.Len(mine.Items, 2)
	s.Equal(1, mine.Number)
	s.False(mine.HasNext)

	dashboard, err := s.client.Appointments.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(dashboard.Upcoming)
	s.Equal("cough", dashboard.Upcoming.ChiefComplaint)
	s.Equal(2, dashboard.Stats[enums.AppointmentStatusPending])

	_, err = s.client.Appointments.List(s.ctx, ListParams{})
	s.True(apierror.IsForbidden(err))

	s.loginAs(s.staff)
	today, err := s.client.Appointments.Today(s.ctx, "/appointments", 1, fixedNow)
	s.Require().NoError(err)
	s.Require().Len(today.Items, 1)
	s.Equal("cough", today.Items[0].ChiefComplaint)

	filtered, err := s.client.Appointments.ForUser(s.ctx, s.patient.ID, ListParams{Search: "fev"})
	s.Require().NoError(err)
	s.Len(filtered.Items, 1)

	id := today.Items[0].ID
	s.Require().NoError(s.client.Appointments.UpdateStatus(s.ctx, id, models.UpdateAppointmentStatus{Status: enums.AppointmentStatusCompleted}))
	completed, err := s.client.Appointments.List(s.ctx, ListParams{Status: enums.AppointmentStatusCompleted})
	s.Require().NoError(err)
	s.Require().Len(completed.Items, 1)
	s.Equal(s.staff.ID, completed.Items[0].Staff.ID)

	err = s.client.Appointments.UpdateStatus(s.ctx, id, models.UpdateAppointmentStatus{Status: "lost"})
	s.True(apierror.IsValidation(err))
	err = s.client.Appointments.UpdateStatus(s.ctx, "", models.UpdateAppointmentStatus{Status: enums.AppointmentStatusLate})
	s.True(apierror.IsValidation(err))
}

func (s *APITestSuite) TestMedicalRecords() {
	s.loginAs(s.staff)
	heartRate := 72.0
	err := s.client.MedicalRecords.Create(s.ctx, models.CreateMedicalRecord{
		PatientID:      s.patient.ID,
		VisitDate:      "2025-06-09",
		ChiefComplaint: "headache",
		Diagnosis:      "migraine",
		VitalSigns:     &models.VitalSigns{HeartRate: &heartRate},
	})
	s.Require().NoError(err)

	page, err := s.client.MedicalRecords.List(s.ctx, ListParams{})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	record := page.Items[0]
	s.Equal(72.0, *record.VitalSigns.HeartRate)
	s.Equal(s.staff.ID, record.CreatedBy.ID)

	s.Require().NoError(s.client.MedicalRecords.Update(s.ctx, record.ID, models.UpdateMedicalRecord{
		VisitDate: "2025-06-09", ChiefComplaint: "headache", Diagnosis: "tension headache",
	}))
	page, err = s.client.MedicalRecords.ForUser(s.ctx, s.patient.ID, ListParams{Search: "tension"})
	s.Require().NoError(err)
	s.Len(page.Items, 1)

	s.loginAs(s.patient)
	mine, err := s.client.MedicalRecords.Mine(s.ctx, ListParams{})
	s.Require().NoError(err)
	s.Len(mine.Items, 1)
	s.True(apierror.IsForbidden(s.client.MedicalRecords.Delete(s.ctx, record.ID)))

	s.loginAs(s.staff)
	s.Require().NoError(s.client.MedicalRecords.Delete(s.ctx, record.ID))
	err = s.client.MedicalRecords.Delete(s.ctx, record.ID)
	s.Equal(apierror.KindNotFound, apierror.KindOf(err))
}

func (s *APITestSuite) TestUsers() {
	s.loginAs(s.admin)
	s.Require().NoError(s.client.Users.RegisterStaff(s.ctx, models.StaffRegistration{Name: "Fay Lim", Email: "fay@example.com", Password: "pw"}))

	staff, err := s.client.Users.ListByRole(s.ctx, enums.RoleStaff, ListParams{})
	s.Require().NoError(err)
	s.Len(staff.Items, 2)

	fay, err := s.client.Users.ListByRole(s.ctx, enums.RoleStaff, ListParams{Search: "fay"})
	s.Require().NoError(err)
	s.Require().Len(fay.Items, 1)

	updated, err := s.client.Users.UpdateStaff(s.ctx, fay.Items[0].ID, models.StaffUpdate{Name: "Fay Lim-Tan", PhoneNumber: "0917"})
	s.Require().NoError(err)
	s.Equal("Fay Lim-Tan", updated.Name)

	got, err := s.client.Users.Get(s.ctx, s.patient.ID)
	s.Require().NoError(err)
	s.Equal("ana@example.com", got.Email)

	s.Require().NoError(s.client.Users.DeleteStaff(s.ctx, fay.Items[0].ID))

	_, err = s.client.Users.ListByRole(s.ctx, "doctor", ListParams{})
	s.True(apierror.IsValidation(err))

	s.loginAs(s.staff)
	s.True(apierror.IsForbidden(s.client.Users.DeleteStaff(s.ctx, s.admin.ID)))
}

func (s *APITestSuite) TestProfile() {
	s.loginAs(s.patient)
	me, err := s.client.Users.MyProfile(s.ctx)
	s.Require().NoError(err)
	s.Equal("Ana Cruz", me.Name)

	changes := ProfileChanges(me, models.ProfileUpdate{Name: "Ana Cruz", Email: "ana.cruz@example.com"})
	s.Empty(changes.Name)
	s.Equal("ana.cruz@example.com", changes.Email)

	_, err = s.client.Users.UpdateProfile(s.ctx, ProfileChanges(me, models.ProfileUpdate{Name: "Ana Cruz"}))
	s.True(apierror.IsValidation(err))

	updated, err := s.client.Users.UpdateProfile(s.ctx, changes)
	s.Require().NoError(err)
	s.Equal("ana.cruz@example.com", updated.Email)
}

func (s *APITestSuite) TestAnalytics() {
	_, err := s.backend.SeedAppointment(s.patient.ID, fixedNow(), "cough", enums.AppointmentStatusCompleted)
	s.Require().NoError(err)

	s.loginAs(s.admin)
	analytics, err := s.client.Analytics.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, analytics.Appointments.StatusBreakdown.Total)
	s.Len(analytics.Appointments.Last7Days, 7)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
